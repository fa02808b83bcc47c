package admin

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"slices"
)

// Selection is the set of checked rows
type Selection struct {
	ids map[int64]struct{}
}

func (s *Selection) Toggle(id int64) {
	if s.ids == nil {
		s.ids = map[int64]struct{}{}
	}
	if _, ok := s.ids[id]; ok {
		delete(s.ids, id)
		return
	}
	s.ids[id] = struct{}{}
}

func (s *Selection) Select(ids ...int64) {
	if s.ids == nil {
		s.ids = map[int64]struct{}{}
	}
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
}

func (s *Selection) Deselect(ids ...int64) {
	for _, id := range ids {
		delete(s.ids, id)
	}
}

func (s *Selection) Has(id int64) bool {
	_, ok := s.ids[id]
	return ok
}

func (s *Selection) Len() int {
	return len(s.ids)
}

func (s *Selection) Clear() {
	s.ids = nil
}

// IDs returns the selected ids in ascending order
func (s *Selection) IDs() []int64 {
	ids := make([]int64, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// BulkResult reports a bulk delete. Deletes are not atomic: whatever
// succeeded before a failure stays deleted.
type BulkResult struct {
	Deleted []int64
	Failed  map[int64]error
}

func (r BulkResult) Err() error {
	if len(r.Failed) == 0 {
		return nil
	}
	return fmt.Errorf("%d of %d deletes failed", len(r.Failed), len(r.Failed)+len(r.Deleted))
}

// BulkDelete deletes ids one after another and keeps going past failures.
// Once ctx is done the remaining ids are reported as failed with its error.
func BulkDelete(ctx context.Context, ids []int64, del func(ctx context.Context, id int64) error) BulkResult {
	result := BulkResult{Failed: map[int64]error{}}
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			result.Failed[id] = err
			continue
		}
		if err := del(ctx, id); err != nil {
			result.Failed[id] = err
			continue
		}
		result.Deleted = append(result.Deleted, id)
	}
	return result
}

// ExportJSON writes items as an indented JSON array
func ExportJSON[T any](w io.Writer, items []T) error {
	if items == nil {
		items = []T{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(items)
}
