package admin

import (
	"context"
	"errors"
	"fmt"
	"io"
)

var ErrDialogClosed = errors.New("no create or edit dialog is open")

// Store is the remote collection a console manages
type Store[T, I any] interface {
	List(ctx context.Context) ([]T, error)
	Create(ctx context.Context, in I) (T, error)
	Update(ctx context.Context, id int64, in I) (T, error)
	Delete(ctx context.Context, id int64) error
}

// Console is the headless form of an admin list page. It keeps the full
// collection, filters and paginates it locally and refetches after every
// mutation.
type Console[T, I any] struct {
	store Store[T, I]
	id    func(T) int64
	match Matcher[T]

	State     ListState
	Selection Selection
	Dialog    DialogMode

	items []T
}

func NewConsole[T, I any](store Store[T, I], id func(T) int64, match Matcher[T]) *Console[T, I] {
	return &Console[T, I]{
		store:  store,
		id:     id,
		match:  match,
		State:  NewListState(),
		Dialog: Closed{},
	}
}

// Refresh refetches the collection and drops selected ids that are gone
func (c *Console[T, I]) Refresh(ctx context.Context) error {
	items, err := c.store.List(ctx)
	if err != nil {
		return err
	}
	c.items = items

	present := make(map[int64]bool, len(items))
	for _, item := range items {
		present[c.id(item)] = true
	}
	for _, id := range c.Selection.IDs() {
		if !present[id] {
			c.Selection.Deselect(id)
		}
	}
	return nil
}

func (c *Console[T, I]) Items() []T {
	return c.items
}

// Filtered returns every item passing the current search and filters
func (c *Console[T, I]) Filtered() []T {
	return Filter(c.items, c.State, c.match)
}

func (c *Console[T, I]) Page() Page[T] {
	return FilterAndPaginate(c.items, c.State, c.match)
}

func (c *Console[T, I]) PageNumbers() []int {
	return PageNumbers(c.State.Page, c.Page().TotalPages)
}

// SelectPage checks every row of the current page
func (c *Console[T, I]) SelectPage() {
	for _, item := range c.Page().Items {
		c.Selection.Select(c.id(item))
	}
}

func (c *Console[T, I]) OpenCreate() {
	c.Dialog = Creating{}
}

func (c *Console[T, I]) OpenEdit(id int64) {
	c.Dialog = Editing{ID: id}
}

func (c *Console[T, I]) CloseDialog() {
	c.Dialog = Closed{}
}

// Submit creates or updates depending on the dialog mode, then closes the
// dialog and refetches. On failure the dialog stays open.
func (c *Console[T, I]) Submit(ctx context.Context, in I) (T, error) {
	var (
		item T
		err  error
	)
	switch mode := c.Dialog.(type) {
	case Creating:
		item, err = c.store.Create(ctx, in)
	case Editing:
		item, err = c.store.Update(ctx, mode.ID, in)
	default:
		return item, ErrDialogClosed
	}
	if err != nil {
		return item, err
	}
	c.Dialog = Closed{}
	return item, c.Refresh(ctx)
}

// Delete removes one row and refetches
func (c *Console[T, I]) Delete(ctx context.Context, id int64) error {
	if err := c.store.Delete(ctx, id); err != nil {
		return err
	}
	c.Selection.Deselect(id)
	return c.Refresh(ctx)
}

// BulkDelete deletes the selection, then refetches so the list shows what
// actually remains. Failed ids stay selected.
func (c *Console[T, I]) BulkDelete(ctx context.Context) (BulkResult, error) {
	result := BulkDelete(ctx, c.Selection.IDs(), c.store.Delete)
	c.Selection.Deselect(result.Deleted...)
	if err := c.Refresh(ctx); err != nil {
		return result, fmt.Errorf("failed to refresh after bulk delete: %w", err)
	}
	return result, nil
}

// Export writes the selected rows, or every row when nothing is selected
func (c *Console[T, I]) Export(w io.Writer) error {
	if c.Selection.Len() == 0 {
		return ExportJSON(w, c.items)
	}
	selected := make([]T, 0, c.Selection.Len())
	for _, item := range c.items {
		if c.Selection.Has(c.id(item)) {
			selected = append(selected, item)
		}
	}
	return ExportJSON(w, selected)
}
