package api

import (
	"net/http"

	"github.com/rpupo63/consultancy-site-backend/errs"
	"github.com/rpupo63/consultancy-site-backend/models"
	"github.com/rpupo63/consultancy-site-backend/storage"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var projectFiles = []fileField[models.ProjectInput]{
	{name: "image", bucket: storage.BucketProjectImages, maxBytes: 10 << 20, types: imageTypes,
		set: func(in *models.ProjectInput, url string) { in.Image = &url }},
	{name: "bg_image_file", bucket: storage.BucketProjectImages, maxBytes: 10 << 20, types: imageTypes,
		set: func(in *models.ProjectInput, url string) { in.BgImage = &url }},
}

type projectHandler struct {
	responder Responder
	logger    zerolog.Logger
	projects  projectStore
	uploader  Uploader
}

func newProjectHandler(projects projectStore, uploader Uploader) projectHandler {
	logger := log.With().Str("handlerName", "projectHandler").Logger()

	return projectHandler{
		responder: NewResponder(logger),
		logger:    logger,
		projects:  projects,
		uploader:  uploader,
	}
}

// listProjects retrieves projects with their service ids
// @Summary List projects
// @Description Lists projects in display order. Public listings hide drafts.
// @Tags Projects
// @Produce json
// @Param status query string false "draft, in_progress, completed or archived"
// @Param category query string false "Project category"
// @Success 200 {object} Envelope{data=[]ProjectWithServices}
// @Failure 400 {object} Envelope "Bad Request - Invalid status"
// @Failure 500 {object} Envelope "Internal Server Error - Error fetching projects"
// @Router /content/projects [get]
// @Router /admin/projects [get]
func (h projectHandler) listProjects(public bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := models.ProjectFilter{
			Status:     models.ProjectStatus(r.URL.Query().Get("status")),
			Category:   r.URL.Query().Get("category"),
			HideDrafts: public,
		}
		if filter.Status != "" && !filter.Status.Valid() {
			h.responder.WriteError(w, errs.NewInvalidFieldError("status", "unknown project status"))
			return
		}

		projects, err := h.projects.FindAll(r.Context(), filter)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "projects", err))
			return
		}

		ids := make([]int64, len(projects))
		for i, p := range projects {
			ids[i] = p.ID
		}
		serviceIDs, err := h.projects.ServiceIDs(r.Context(), ids)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "project services", err))
			return
		}

		response := make([]ProjectWithServices, len(projects))
		for i, p := range projects {
			response[i] = ProjectWithServices{Project: p, ServiceIDs: idsOrEmpty(serviceIDs[p.ID])}
		}
		h.responder.WriteJSON(w, response)
	}
}

// getProject retrieves a specific project by ID with its services
// @Summary Get project
// @Tags Projects
// @Produce json
// @Param id path int true "Project ID"
// @Success 200 {object} Envelope{data=ProjectWithServices}
// @Failure 400 {object} Envelope "Bad Request - Invalid id"
// @Failure 404 {object} Envelope "Not Found - Project not found"
// @Router /content/projects/{id} [get]
// @Router /admin/projects/{id} [get]
func (h projectHandler) getProject(public bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r, "id")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.projects.FindByID(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "project", err))
			return
		}
		if project == nil || (public && project.Status == models.ProjectStatusDraft) {
			h.responder.WriteError(w, errs.NewNotFoundError("project not found"))
			return
		}
		h.writeProject(w, r, project, http.StatusOK)
	}
}

// createProject creates a new project
// @Summary Create project
// @Description Accepts JSON or multipart/form-data with a JSON "data" field and optional "image" and "bg_image_file" files (10MB each)
// @Tags Projects
// @Accept json,mpfd
// @Produce json
// @Param project body models.ProjectInput true "Project data"
// @Success 201 {object} Envelope{data=ProjectWithServices}
// @Failure 400 {object} Envelope "Bad Request - Invalid project data"
// @Failure 413 {object} Envelope "File too large"
// @Failure 415 {object} Envelope "Unsupported file type"
// @Router /admin/projects [post]
func (h projectHandler) createProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		in, files, err := readInput(w, r, projectFiles)
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

		var project models.Project
		in.Apply(&project)
		project.UpdatedBy = ctxGetUserID(r.Context())
		if err := h.projects.Add(r.Context(), &project, in.ServiceIDs); err != nil {
			stored.discard(r.Context())
			h.responder.WriteError(w, wrapDatabaseError("create", "project", err))
			return
		}

		h.logger.Info().Int64("projectId", project.ID).Msg("Project created")
		h.writeProject(w, r, &project, http.StatusCreated)
	}
}

// updateProject patches an existing project. service_ids, when present,
// replaces the linked services in the same transaction.
// @Summary Update project
// @Tags Projects
// @Accept json,mpfd
// @Produce json
// @Param id path int true "Project ID"
// @Param project body models.ProjectInput true "Fields to change"
// @Success 200 {object} Envelope{data=ProjectWithServices}
// @Failure 400 {object} Envelope "Bad Request - Invalid project data"
// @Failure 404 {object} Envelope "Not Found - Project not found"
// @Router /admin/projects/{id} [patch]
func (h projectHandler) updateProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r, "id")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		in, files, err := readInput(w, r, projectFiles)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		defer files.remove()
		if err := in.Validate(false); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.projects.FindByID(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "project", err))
			return
		}
		if project == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("project not found"))
			return
		}

		stored, err := storeFiles(r.Context(), h.uploader, &in, files)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		in.Apply(project)
		project.UpdatedBy = ctxGetUserID(r.Context())
		if err := h.projects.Update(r.Context(), project, in.ServiceIDs); err != nil {
			stored.discard(r.Context())
			h.responder.WriteError(w, wrapDatabaseError("update", "project", err))
			return
		}
		h.writeProject(w, r, project, http.StatusOK)
	}
}

// deleteProject removes a project. Its service links go with it.
// @Summary Delete project
// @Tags Projects
// @Param id path int true "Project ID"
// @Success 200 {object} Envelope
// @Failure 404 {object} Envelope "Not Found - Project not found"
// @Router /admin/projects/{id} [delete]
func (h projectHandler) deleteProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r, "id")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		deleted, err := h.projects.Delete(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", "project", err))
			return
		}
		if !deleted {
			h.responder.WriteError(w, errs.NewNotFoundError("project not found"))
			return
		}
		h.responder.WriteMessage(w, http.StatusOK, "project deleted")
	}
}

// setProjectServices replaces the services linked to a project
// @Summary Replace project services
// @Tags Projects
// @Accept json
// @Param id path int true "Project ID"
// @Param ids body idsBody true "Service ids"
// @Success 200 {object} Envelope{data=ProjectWithServices}
// @Failure 400 {object} Envelope "Bad Request - Unknown service id"
// @Failure 404 {object} Envelope "Not Found - Project not found"
// @Router /admin/projects/{id}/services [put]
func (h projectHandler) setProjectServices() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r, "id")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		body, _, err := readInput[idsBody](w, r, nil)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := body.validate(); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.projects.FindByID(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "project", err))
			return
		}
		if project == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("project not found"))
			return
		}

		if err := h.projects.SetServices(r.Context(), id, body.IDs); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update", "project services", err))
			return
		}
		h.writeProject(w, r, project, http.StatusOK)
	}
}

func (h projectHandler) writeProject(w http.ResponseWriter, r *http.Request, project *models.Project, status int) {
	services, err := h.projects.Services(r.Context(), project.ID)
	if err != nil {
		h.responder.WriteError(w, wrapDatabaseError("find", "project services", err))
		return
	}
	response := ProjectWithServices{
		Project:    *project,
		ServiceIDs: serviceIDsOf(services),
		Services:   services,
	}
	if status == http.StatusCreated {
		h.responder.WriteCreated(w, response)
		return
	}
	h.responder.WriteJSON(w, response)
}
