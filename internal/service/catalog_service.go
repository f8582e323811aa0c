package service

import (
	"context"
	"math"

	"golang.org/x/sync/errgroup"

	apperrors "storefront/internal/errors"
	"storefront/internal/model"
	"storefront/internal/repository"
)

const (
	// DefaultPageSize is used when the caller does not ask for a page size.
	DefaultPageSize = 6
	// MaxPageSize bounds a single page.
	MaxPageSize = 100
)

// Pagination describes where a page sits in the full listing.
type Pagination struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	PageSize    int   `json:"pageSize"`
	TotalCount  int64 `json:"totalCount"`
}

// CategoryPage is one page of categories ordered by name.
type CategoryPage struct {
	Categories []model.Category `json:"categories"`
	Pagination Pagination       `json:"pagination"`
}

// Paginate computes page metadata for total items.
func Paginate(total int64, page, pageSize int) Pagination {
	pages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return Pagination{
		CurrentPage: page,
		TotalPages:  pages,
		PageSize:    pageSize,
		TotalCount:  total,
	}
}

// CatalogService serves the category catalog.
type CatalogService interface {
	GetCategories(ctx context.Context, page, pageSize int) (*CategoryPage, error)
}

type catalogService struct {
	categoryRepo repository.CategoryRepository
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(categoryRepo repository.CategoryRepository) CatalogService {
	return &catalogService{categoryRepo: categoryRepo}
}

// GetCategories returns the requested page. Pages past the end are empty but
// still carry the correct totals.
func (s *catalogService) GetCategories(ctx context.Context, page, pageSize int) (*CategoryPage, error) {
	if page < 1 || pageSize <= 0 || pageSize > MaxPageSize {
		return nil, apperrors.ErrInvalidPage
	}
	// The row offset must fit in an int.
	if page-1 > math.MaxInt/pageSize {
		return nil, apperrors.ErrInvalidPage
	}

	var (
		total      int64
		categories []model.Category
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		total, err = s.categoryRepo.Count(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = s.categoryRepo.List(gctx, (page-1)*pageSize, pageSize)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if categories == nil {
		categories = []model.Category{}
	}
	return &CategoryPage{
		Categories: categories,
		Pagination: Paginate(total, page, pageSize),
	}, nil
}
