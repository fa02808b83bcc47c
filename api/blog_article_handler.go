package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rpupo63/consultancy-site-backend/errs"
	"github.com/rpupo63/consultancy-site-backend/models"
	"github.com/rpupo63/consultancy-site-backend/storage"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

var blogArticleFiles = []fileField[models.BlogArticleInput]{
	{name: "image", bucket: storage.BucketBlogImages, maxBytes: 10 << 20, types: imageTypes,
		set: func(in *models.BlogArticleInput, url string) { in.Image = &url }},
}

type blogArticleHandler struct {
	responder Responder
	logger    zerolog.Logger
	articles  blogArticleStore
	uploader  Uploader
	now       func() time.Time
}

func newBlogArticleHandler(articles blogArticleStore, uploader Uploader) blogArticleHandler {
	logger := log.With().Str("handlerName", "blogArticleHandler").Logger()

	return blogArticleHandler{
		responder: NewResponder(logger),
		logger:    logger,
		articles:  articles,
		uploader:  uploader,
		now:       time.Now,
	}
}

// listArticles lists articles newest first
// @Summary List blog articles
// @Description Public listings only return published articles
// @Tags Blog
// @Produce json
// @Param status query string false "draft or published (admin only)"
// @Param category query string false "Article category"
// @Param service query int false "Only articles linked to this service"
// @Success 200 {object} Envelope{data=[]BlogArticleWithRelations}
// @Failure 400 {object} Envelope "Bad Request - Invalid filter"
// @Router /blog/articles [get]
// @Router /admin/blog/articles [get]
func (h blogArticleHandler) listArticles(public bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		filter := models.BlogArticleFilter{
			Status:   models.ArticleStatus(query.Get("status")),
			Category: models.ArticleCategory(query.Get("category")),
		}
		if public {
			filter.Status = models.ArticleStatusPublished
		}
		if filter.Status != "" && !filter.Status.Valid() {
			h.responder.WriteError(w, errs.NewInvalidFieldError("status", "must be draft or published"))
			return
		}
		if filter.Category != "" && !filter.Category.Valid() {
			h.responder.WriteError(w, errs.NewInvalidFieldError("category", "unknown category"))
			return
		}
		if raw := query.Get("service"); raw != "" {
			serviceID, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || serviceID <= 0 {
				h.responder.WriteError(w, errs.NewInvalidFieldError("service", "must be a positive integer"))
				return
			}
			filter.ServiceID = serviceID
		}

		articles, err := h.articles.FindAll(r.Context(), filter)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "blog articles", err))
			return
		}

		ids := make([]int64, len(articles))
		for i, a := range articles {
			ids[i] = a.ID
		}
		serviceIDs, projectIDs, err := h.articles.RelationIDs(r.Context(), ids)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "blog article relations", err))
			return
		}

		response := make([]BlogArticleWithRelations, len(articles))
		for i, a := range articles {
			response[i] = BlogArticleWithRelations{
				BlogArticle: a,
				ServiceIDs:  idsOrEmpty(serviceIDs[a.ID]),
				ProjectIDs:  idsOrEmpty(projectIDs[a.ID]),
			}
		}
		h.responder.WriteJSON(w, response)
	}
}

// getPublishedArticle looks an article up by slug, falling back to a numeric id
// @Summary Get published blog article
// @Tags Blog
// @Produce json
// @Param slugOrId path string true "Article slug or id"
// @Success 200 {object} Envelope{data=BlogArticleWithRelations}
// @Failure 404 {object} Envelope "Not Found - Article not found or not published"
// @Router /blog/articles/{slugOrId} [get]
func (h blogArticleHandler) getPublishedArticle() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := chi.URLParam(r, "slugOrId")

		article, err := h.articles.FindBySlug(r.Context(), key)
		if err == nil && article == nil {
			if id, convErr := strconv.ParseInt(key, 10, 64); convErr == nil && id > 0 {
				article, err = h.articles.FindByID(r.Context(), id)
			}
		}
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "blog article", err))
			return
		}
		if article == nil || article.Status != models.ArticleStatusPublished {
			h.responder.WriteError(w, errs.NewNotFoundError("blog article not found"))
			return
		}
		h.writeArticle(w, r, article, http.StatusOK)
	}
}

// getArticle returns any article by id, drafts included
// @Summary Get blog article
// @Tags Blog
// @Produce json
// @Param id path int true "Article ID"
// @Success 200 {object} Envelope{data=BlogArticleWithRelations}
// @Failure 404 {object} Envelope "Not Found - Article not found"
// @Router /admin/blog/articles/{id} [get]
func (h blogArticleHandler) getArticle() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		article, ok := h.loadArticle(w, r)
		if !ok {
			return
		}
		h.writeArticle(w, r, article, http.StatusOK)
	}
}

// createArticle creates an article. The slug comes from the payload or the
// title and is suffixed when already taken.
// @Summary Create blog article
// @Tags Blog
// @Accept json,mpfd
// @Produce json
// @Param article body models.BlogArticleInput true "Article data"
// @Success 201 {object} Envelope{data=BlogArticleWithRelations}
// @Failure 400 {object} Envelope "Bad Request - Invalid article data"
// @Failure 409 {object} Envelope "Conflict - Slug already taken"
// @Router /admin/blog/articles [post]
func (h blogArticleHandler) createArticle() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		in, files, err := readInput(w, r, blogArticleFiles)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		defer files.remove()
		if err := in.Validate(true); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		now := h.now()
		slug, err := resolveSlug(r.Context(), h.articles.SlugsWithPrefix, in.Slug, *in.Title, "article", "", now)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "blog article slugs", err))
			return
		}
		stored, err := storeFiles(r.Context(), h.uploader, &in, files)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var article models.BlogArticle
		in.Apply(&article, now)
		article.Slug = slug
		article.UpdatedBy = ctxGetUserID(r.Context())
		if err := h.articles.Add(r.Context(), &article, in.ServiceIDs, in.ProjectIDs); err != nil {
			stored.discard(r.Context())
			h.responder.WriteError(w, wrapDatabaseError("create", "blog article", err))
			return
		}

		h.logger.Info().Int64("articleId", article.ID).Str("slug", article.Slug).Msg("Blog article created")
		h.writeArticle(w, r, &article, http.StatusCreated)
	}
}

// updateArticle patches an article. The slug only changes when the payload
// sends one; publishing stamps published_at the first time only.
// @Summary Update blog article
// @Tags Blog
// @Accept json,mpfd
// @Produce json
// @Param id path int true "Article ID"
// @Param article body models.BlogArticleInput true "Fields to change"
// @Success 200 {object} Envelope{data=BlogArticleWithRelations}
// @Failure 404 {object} Envelope "Not Found - Article not found"
// @Failure 409 {object} Envelope "Conflict - Slug already taken"
// @Router /admin/blog/articles/{id} [patch]
func (h blogArticleHandler) updateArticle() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r, "id")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		in, files, err := readInput(w, r, blogArticleFiles)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		defer files.remove()
		if err := in.Validate(false); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		article, err := h.articles.FindByID(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "blog article", err))
			return
		}
		if article == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("blog article not found"))
			return
		}

		now := h.now()
		slug, err := resolveSlug(r.Context(), h.articles.SlugsWithPrefix, in.Slug, article.Title, "article", article.Slug, now)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "blog article slugs", err))
			return
		}
		stored, err := storeFiles(r.Context(), h.uploader, &in, files)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		in.Apply(article, now)
		article.Slug = slug
		article.UpdatedBy = ctxGetUserID(r.Context())
		if err := h.articles.Update(r.Context(), article, in.ServiceIDs, in.ProjectIDs); err != nil {
			stored.discard(r.Context())
			h.responder.WriteError(w, wrapDatabaseError("update", "blog article", err))
			return
		}
		h.writeArticle(w, r, article, http.StatusOK)
	}
}

// deleteArticle removes an article and both of its link sets in one transaction
// @Summary Delete blog article
// @Tags Blog
// @Param id path int true "Article ID"
// @Success 200 {object} Envelope
// @Failure 404 {object} Envelope "Not Found - Article not found"
// @Router /admin/blog/articles/{id} [delete]
func (h blogArticleHandler) deleteArticle() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r, "id")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		deleted, err := h.articles.Delete(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", "blog article", err))
			return
		}
		if !deleted {
			h.responder.WriteError(w, errs.NewNotFoundError("blog article not found"))
			return
		}
		h.responder.WriteMessage(w, http.StatusOK, "blog article deleted")
	}
}

// setArticleServices replaces the services linked to an article
// @Summary Replace blog article services
// @Tags Blog
// @Accept json
// @Param id path int true "Article ID"
// @Param ids body idsBody true "Service ids"
// @Success 200 {object} Envelope{data=BlogArticleWithRelations}
// @Router /admin/blog/articles/{id}/services [put]
func (h blogArticleHandler) setArticleServices() http.HandlerFunc {
	return h.replaceRelation("blog article services", h.articles.SetServices)
}

// setArticleProjects replaces the projects linked to an article
// @Summary Replace blog article projects
// @Tags Blog
// @Accept json
// @Param id path int true "Article ID"
// @Param ids body idsBody true "Project ids"
// @Success 200 {object} Envelope{data=BlogArticleWithRelations}
// @Router /admin/blog/articles/{id}/projects [put]
func (h blogArticleHandler) setArticleProjects() http.HandlerFunc {
	return h.replaceRelation("blog article projects", h.articles.SetProjects)
}

func (h blogArticleHandler) replaceRelation(entity string, set func(ctx context.Context, id int64, ids []int64) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, _, err := readInput[idsBody](w, r, nil)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := body.validate(); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		article, ok := h.loadArticle(w, r)
		if !ok {
			return
		}
		if err := set(r.Context(), article.ID, body.IDs); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update", entity, err))
			return
		}
		h.writeArticle(w, r, article, http.StatusOK)
	}
}

// addArticleService links a single service. Linking twice is a no-op.
// @Summary Link a service to a blog article
// @Tags Blog
// @Param id path int true "Article ID"
// @Param serviceID path int true "Service ID"
// @Success 200 {object} Envelope{data=BlogArticleWithRelations}
// @Failure 400 {object} Envelope "Bad Request - Unknown service"
// @Router /admin/blog/articles/{id}/services/{serviceID} [post]
func (h blogArticleHandler) addArticleService() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		serviceID, err := idParam(r, "serviceID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		article, ok := h.loadArticle(w, r)
		if !ok {
			return
		}
		if err := h.articles.AddService(r.Context(), article.ID, serviceID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("link", "blog article service", err))
			return
		}
		h.writeArticle(w, r, article, http.StatusOK)
	}
}

// removeArticleService unlinks a single service
// @Summary Unlink a service from a blog article
// @Tags Blog
// @Param id path int true "Article ID"
// @Param serviceID path int true "Service ID"
// @Success 200 {object} Envelope{data=BlogArticleWithRelations}
// @Failure 404 {object} Envelope "Not Found - Service was not linked"
// @Router /admin/blog/articles/{id}/services/{serviceID} [delete]
func (h blogArticleHandler) removeArticleService() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		serviceID, err := idParam(r, "serviceID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		article, ok := h.loadArticle(w, r)
		if !ok {
			return
		}
		removed, err := h.articles.RemoveService(r.Context(), article.ID, serviceID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("unlink", "blog article service", err))
			return
		}
		if !removed {
			h.responder.WriteError(w, errs.NewNotFoundError("service is not linked to this article"))
			return
		}
		h.writeArticle(w, r, article, http.StatusOK)
	}
}

// loadArticle resolves the {id} parameter, writing the error response itself
func (h blogArticleHandler) loadArticle(w http.ResponseWriter, r *http.Request) (*models.BlogArticle, bool) {
	id, err := idParam(r, "id")
	if err != nil {
		h.responder.WriteError(w, err)
		return nil, false
	}
	article, err := h.articles.FindByID(r.Context(), id)
	if err != nil {
		h.responder.WriteError(w, wrapDatabaseError("find", "blog article", err))
		return nil, false
	}
	if article == nil {
		h.responder.WriteError(w, errs.NewNotFoundError("blog article not found"))
		return nil, false
	}
	return article, true
}

// writeArticle loads both relations concurrently and writes the article
func (h blogArticleHandler) writeArticle(w http.ResponseWriter, r *http.Request, article *models.BlogArticle, status int) {
	var (
		services []models.Service
		projects []models.Project
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		services, err = h.articles.Services(ctx, article.ID)
		return err
	})
	g.Go(func() error {
		var err error
		projects, err = h.articles.Projects(ctx, article.ID)
		return err
	})
	if err := g.Wait(); err != nil {
		h.responder.WriteError(w, wrapDatabaseError("find", "blog article relations", err))
		return
	}

	response := BlogArticleWithRelations{
		BlogArticle: *article,
		ServiceIDs:  serviceIDsOf(services),
		ProjectIDs:  projectIDsOf(projects),
		Services:    services,
		Projects:    projects,
	}
	if status == http.StatusCreated {
		h.responder.WriteCreated(w, response)
		return
	}
	h.responder.WriteJSON(w, response)
}
