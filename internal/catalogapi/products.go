package catalogapi

import (
	"context"
	"net/http"
)

func (c *Client) ListProducts(ctx context.Context) ([]Product, error) {
	var out []Product
	if err := c.do(ctx, http.MethodGet, "/v1/products", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetProduct(ctx context.Context, id string) (Product, error) {
	var out Product
	err := c.do(ctx, http.MethodGet, "/v1/products/{id}", idParam(id), nil, &out)
	return out, err
}

func (c *Client) CreateProduct(ctx context.Context, in ProductInput) (Product, error) {
	var out Product
	err := c.do(ctx, http.MethodPost, "/v1/products/add", nil, in, &out)
	return out, err
}

func (c *Client) UpdateProduct(ctx context.Context, id string, in ProductInput) (Product, error) {
	var out Product
	err := c.do(ctx, http.MethodPut, "/v1/products/update/{id}", idParam(id), in, &out)
	return out, err
}

func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/v1/products/{id}", idParam(id), nil, nil)
}
