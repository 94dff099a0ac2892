package console

import (
	"context"

	"go.uber.org/zap"

	"finitefield.org/catalog-admin/internal/admin/catalog"
)

// MessageLoadFailed is rendered inline in the table when a listing fetch fails.
const MessageLoadFailed = "Failed to load products."

// ListController fetches pages of products and pushes them to the view.
type ListController struct {
	service catalog.Service
	logger  *zap.Logger
}

// NewListController wires a list controller to the catalog service.
func NewListController(service catalog.Service, logger *zap.Logger) *ListController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ListController{service: service, logger: logger}
}

// Refresh fetches the page described by the current state and renders it.
// It reports false when a newer refresh was issued while this one was in flight,
// in which case nothing is applied. Fetch failures are rendered and returned.
func (c *ListController) Refresh(ctx context.Context, state *State, view View) (bool, error) {
	view.SetLoading(true)
	defer view.SetLoading(false)

	state.mu.Lock()
	state.token++
	token := state.token
	page := state.CurrentPage
	size := state.PageSize
	query := catalog.Query{
		Title:  state.SearchTerm,
		Offset: (page - 1) * size,
		Limit:  size,
	}
	state.mu.Unlock()

	result, err := c.service.Search(ctx, query)

	state.mu.Lock()
	defer state.mu.Unlock()

	if token != state.token {
		c.logger.Debug("discarding superseded product page",
			zap.Int("page", page),
			zap.Uint64("token", token),
			zap.Uint64("latest", state.token),
		)
		return false, nil
	}

	if err != nil {
		c.logger.Error("list products failed",
			zap.Error(err),
			zap.Int("page", page),
			zap.Int("page_size", size),
			zap.String("search", query.Title),
		)
		view.RenderError(MessageLoadFailed)
		return true, err
	}

	products := catalog.WithCleanImages(result.Products)
	state.Products = products
	state.Total = result.Total
	state.Sorted = false
	state.pagination = paginate(page, size, len(products), result.Total)

	view.RenderTable(append([]catalog.Product(nil), products...), state.visibleSort())
	view.UpdatePagination(state.pagination)
	return true, nil
}

func paginate(page, size, count int, total *int) Pagination {
	p := Pagination{
		Page:         page,
		PageSize:     size,
		Count:        count,
		Total:        total,
		PrevDisabled: page <= 1,
	}
	if total != nil {
		p.NextDisabled = (page-1)*size+count >= *total
	} else {
		// Without a total, a short page is taken to be the last one.
		p.NextDisabled = count < size
	}
	return p
}
