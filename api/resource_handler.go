package api

import (
	"net/http"

	"github.com/rpupo63/consultancy-site-backend/errs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// entityInput is a strict request schema that can be applied onto a row
type entityInput[T any] interface {
	Validate(create bool) error
	Apply(*T)
}

// resourceHandler serves the plain CRUD entities that have no relations:
// services, clients, locations, hero slides and impact stats
type resourceHandler[T any, I entityInput[T]] struct {
	responder Responder
	logger    zerolog.Logger
	entity    string
	store     itemStore[T]
	uploader  Uploader
	files     []fileField[I]
	newItem   func() *T
}

func newResourceHandler[T any, I entityInput[T]](entity string, store itemStore[T], uploader Uploader, files []fileField[I]) resourceHandler[T, I] {
	logger := log.With().Str("handlerName", entity+"Handler").Logger()

	return resourceHandler[T, I]{
		responder: NewResponder(logger),
		logger:    logger,
		entity:    entity,
		store:     store,
		uploader:  uploader,
		files:     files,
		newItem:   func() *T { return new(T) },
	}
}

// list responds with the rows returned by find
func (h resourceHandler[T, I]) list(find func(r *http.Request) ([]T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := find(r)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", h.entity+"s", err))
			return
		}
		h.responder.WriteJSON(w, items)
	}
}

func (h resourceHandler[T, I]) get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r, "id")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		item, err := h.store.FindByID(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", h.entity, err))
			return
		}
		if item == nil {
			h.responder.WriteError(w, errs.NewNotFoundError(h.entity+" not found"))
			return
		}
		h.responder.WriteJSON(w, item)
	}
}

func (h resourceHandler[T, I]) create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		in, files, err := readInput(w, r, h.files)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		defer files.remove()
		if err := in.Validate(true); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		stored, err := storeFiles(r.Context(), h.uploader, &in, files)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		item := h.newItem()
		in.Apply(item)
		if err := h.store.Add(r.Context(), item); err != nil {
			stored.discard(r.Context())
			h.responder.WriteError(w, wrapDatabaseError("create", h.entity, err))
			return
		}
		h.responder.WriteCreated(w, item)
	}
}

func (h resourceHandler[T, I]) update() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r, "id")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		in, files, err := readInput(w, r, h.files)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		defer files.remove()
		if err := in.Validate(false); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		item, err := h.store.FindByID(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", h.entity, err))
			return
		}
		if item == nil {
			h.responder.WriteError(w, errs.NewNotFoundError(h.entity+" not found"))
			return
		}

		stored, err := storeFiles(r.Context(), h.uploader, &in, files)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		in.Apply(item)
		if err := h.store.Update(r.Context(), item); err != nil {
			stored.discard(r.Context())
			h.responder.WriteError(w, wrapDatabaseError("update", h.entity, err))
			return
		}
		h.responder.WriteJSON(w, item)
	}
}

func (h resourceHandler[T, I]) remove() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r, "id")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		deleted, err := h.store.Delete(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", h.entity, err))
			return
		}
		if !deleted {
			h.responder.WriteError(w, errs.NewNotFoundError(h.entity+" not found"))
			return
		}
		h.responder.WriteMessage(w, http.StatusOK, h.entity+" deleted")
	}
}
