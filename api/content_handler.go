package api

import (
	"net/http"

	"github.com/rpupo63/consultancy-site-backend/errs"
	"github.com/rpupo63/consultancy-site-backend/models"
	"github.com/rpupo63/consultancy-site-backend/storage"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	serviceFiles = []fileField[models.ServiceInput]{
		{name: "image", bucket: storage.BucketServiceImages, maxBytes: 5 << 20, types: imageTypes,
			set: func(in *models.ServiceInput, url string) { in.Image = &url }},
	}
	clientFiles = []fileField[models.ClientInput]{
		{name: "logo", bucket: storage.BucketClientLogos, maxBytes: 5 << 20, types: imageTypes,
			set: func(in *models.ClientInput, url string) { in.Logo = &url }},
	}
	locationFiles = []fileField[models.LocationInput]{
		{name: "image", bucket: storage.BucketLocationImages, maxBytes: 5 << 20, types: imageTypes,
			set: func(in *models.LocationInput, url string) { in.Image = &url }},
	}
	heroSlideFiles = []fileField[models.HeroSlideInput]{
		{name: "backgroundImage", bucket: storage.BucketHeroImages, maxBytes: 10 << 20, types: imageTypes,
			set: func(in *models.HeroSlideInput, url string) { in.BackgroundImage = &url }},
		{name: "videoBackground", bucket: storage.BucketHeroImages, maxBytes: 10 << 20, types: videoTypes,
			set: func(in *models.HeroSlideInput, url string) { in.VideoBackground = &url }},
	}
	aboutFiles = []fileField[models.AboutContentInput]{
		{name: "image", bucket: storage.BucketAboutImages, maxBytes: 5 << 20, types: imageTypes,
			set: func(in *models.AboutContentInput, url string) { in.Image = &url }},
	}
)

// listAll adapts a store's unfiltered FindAll to resourceHandler.list
func listAll[T any](store crudStore[T]) func(r *http.Request) ([]T, error) {
	return func(r *http.Request) ([]T, error) {
		return store.FindAll(r.Context())
	}
}

// listClients honors ?type=client|partner
func listClients(store clientStore) func(r *http.Request) ([]models.Client, error) {
	return func(r *http.Request) ([]models.Client, error) {
		clientType := models.ClientType(r.URL.Query().Get("type"))
		if clientType != "" && !clientType.Valid() {
			return nil, errs.NewInvalidFieldError("type", "must be client or partner")
		}
		return store.FindAll(r.Context(), clientType)
	}
}

// listHeroSlides returns active slides only on the public site
func listHeroSlides(store heroSlideStore, activeOnly bool) func(r *http.Request) ([]models.HeroSlide, error) {
	return func(r *http.Request) ([]models.HeroSlide, error) {
		return store.FindAll(r.Context(), activeOnly)
	}
}

// singletonInput is the request schema of a single-row content block
type singletonInput[T any] interface {
	Validate() error
	Apply(*T)
}

// singletonHandler serves the about, footer and expertise blocks. Each
// table holds at most one row which PUT creates or replaces field by field.
type singletonHandler[T any, I singletonInput[T]] struct {
	responder Responder
	logger    zerolog.Logger
	entity    string
	store     singletonStore[T]
	uploader  Uploader
	files     []fileField[I]
}

func newSingletonHandler[T any, I singletonInput[T]](entity string, store singletonStore[T], uploader Uploader, files []fileField[I]) singletonHandler[T, I] {
	logger := log.With().Str("handlerName", entity+"Handler").Logger()

	return singletonHandler[T, I]{
		responder: NewResponder(logger),
		logger:    logger,
		entity:    entity,
		store:     store,
		uploader:  uploader,
		files:     files,
	}
}

// get responds with the stored block or 404 when nothing was saved yet
// @Summary Get site content block
// @Tags Content
// @Produce json
// @Success 200 {object} Envelope
// @Failure 404 {object} Envelope "Not Found - Content not set"
// @Router /about-content [get]
// @Router /footer [get]
// @Router /expertise [get]
func (h singletonHandler[T, I]) get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		item, err := h.store.Get(r.Context())
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

// put creates the block or updates the existing row
// @Summary Save site content block
// @Tags Content
// @Accept json,mpfd
// @Produce json
// @Success 200 {object} Envelope
// @Failure 400 {object} Envelope "Bad Request - Invalid content"
// @Router /admin/about-content [put]
// @Router /admin/footer [put]
// @Router /admin/expertise [put]
func (h singletonHandler[T, I]) put() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		in, files, err := readInput(w, r, h.files)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		defer files.remove()
		if err := in.Validate(); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		item, err := h.store.Get(r.Context())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", h.entity, err))
			return
		}
		if item == nil {
			item = new(T)
		}
		stored, err := storeFiles(r.Context(), h.uploader, &in, files)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		in.Apply(item)
		if err := h.store.Save(r.Context(), item); err != nil {
			stored.discard(r.Context())
			h.responder.WriteError(w, wrapDatabaseError("save", h.entity, err))
			return
		}
		h.logger.Info().Msg("Content saved")
		h.responder.WriteJSON(w, item)
	}
}
