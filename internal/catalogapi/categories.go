package catalogapi

import (
	"context"
	"net/http"
)

func (c *Client) ListCategories(ctx context.Context) ([]Category, error) {
	var out []Category
	if err := c.do(ctx, http.MethodGet, "/v1/categories", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetCategory(ctx context.Context, id string) (Category, error) {
	var out Category
	err := c.do(ctx, http.MethodGet, "/v1/categories/{id}", idParam(id), nil, &out)
	return out, err
}

func (c *Client) CreateCategory(ctx context.Context, in CategoryInput) (Category, error) {
	var out Category
	err := c.do(ctx, http.MethodPost, "/v1/categories", nil, in, &out)
	return out, err
}

func (c *Client) UpdateCategory(ctx context.Context, id string, in CategoryInput) (Category, error) {
	var out Category
	err := c.do(ctx, http.MethodPut, "/v1/categories/{id}", idParam(id), in, &out)
	return out, err
}

func (c *Client) DeleteCategory(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/v1/categories/{id}", idParam(id), nil, nil)
}
