package productlist

import (
	"context"

	"golang.org/x/sync/errgroup"

	"lafelle.com/app/internal/catalogapi"
)

const (
	MsgCategoriesAbsent = "Categories not found. Please create some categories first."
	MsgCategoriesFailed = "Failed to load categories"
)

// Source is the part of the catalog a list screen reads.
type Source interface {
	ListProducts(ctx context.Context) ([]catalogapi.Product, error)
	ListCategories(ctx context.Context) ([]catalogapi.Category, error)
}

// Snapshot is one screen's fetch of the catalog. CategoriesErr is kept
// apart because products stay usable without categories.
type Snapshot struct {
	Products      []catalogapi.Product
	Categories    []catalogapi.Category
	CategoriesErr error
}

// Load fetches products and categories concurrently. Only a products
// failure is returned as an error.
func Load(ctx context.Context, src Source) (Snapshot, error) {
	var snap Snapshot
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ps, err := src.ListProducts(gctx)
		if err != nil {
			return err
		}
		snap.Products = ps
		return nil
	})
	g.Go(func() error {
		snap.Categories, snap.CategoriesErr = src.ListCategories(gctx)
		return nil
	})
	if err := g.Wait(); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

// List builds the filterable list from the snapshot.
func (s Snapshot) List() *List {
	return New(s.Products, s.Categories)
}

// CategoriesMessage is the banner shown when categories failed to load,
// or "" when they loaded.
func (s Snapshot) CategoriesMessage() string {
	switch {
	case s.CategoriesErr == nil:
		return ""
	case catalogapi.IsNotFound(s.CategoriesErr):
		return MsgCategoriesAbsent
	default:
		return MsgCategoriesFailed
	}
}
