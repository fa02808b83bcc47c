package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rpupo63/consultancy-site-backend/errs"
	"github.com/rpupo63/consultancy-site-backend/models"
	"github.com/rpupo63/consultancy-site-backend/storage"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var teamMemberFiles = []fileField[models.TeamMemberInput]{
	{name: "image", bucket: storage.BucketTeamMembers, maxBytes: 5 << 20, types: imageTypes,
		set: func(in *models.TeamMemberInput, url string) { in.Image = &url }},
}

type teamHandler struct {
	responder Responder
	logger    zerolog.Logger
	members   teamMemberStore
	uploader  Uploader
	now       func() time.Time
}

func newTeamHandler(members teamMemberStore, uploader Uploader) teamHandler {
	logger := log.With().Str("handlerName", "teamHandler").Logger()

	return teamHandler{
		responder: NewResponder(logger),
		logger:    logger,
		members:   members,
		uploader:  uploader,
		now:       time.Now,
	}
}

// listMembers retrieves the team in display order
// @Summary List team members
// @Tags Team
// @Produce json
// @Success 200 {object} Envelope{data=[]TeamMemberWithServices}
// @Failure 500 {object} Envelope "Internal Server Error - Error fetching team"
// @Router /team [get]
// @Router /admin/team [get]
func (h teamHandler) listMembers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		members, err := h.members.FindAll(r.Context())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "team members", err))
			return
		}

		ids := make([]int64, len(members))
		for i, m := range members {
			ids[i] = m.ID
		}
		serviceIDs, err := h.members.ServiceIDs(r.Context(), ids)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "team member services", err))
			return
		}

		response := make([]TeamMemberWithServices, len(members))
		for i, m := range members {
			response[i] = TeamMemberWithServices{TeamMember: m, ServiceIDs: idsOrEmpty(serviceIDs[m.ID])}
		}
		h.responder.WriteJSON(w, response)
	}
}

// getMemberBySlug serves the public profile page
// @Summary Get team member by slug
// @Tags Team
// @Produce json
// @Param slug path string true "Member slug"
// @Success 200 {object} Envelope{data=TeamMemberWithServices}
// @Failure 404 {object} Envelope "Not Found - Member not found"
// @Router /team/{slug} [get]
func (h teamHandler) getMemberBySlug() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		member, err := h.members.FindBySlug(r.Context(), chi.URLParam(r, "slug"))
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "team member", err))
			return
		}
		if member == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("team member not found"))
			return
		}
		h.writeMember(w, r, member, http.StatusOK)
	}
}

// getMember retrieves a member by id
// @Summary Get team member
// @Tags Team
// @Produce json
// @Param id path int true "Member ID"
// @Success 200 {object} Envelope{data=TeamMemberWithServices}
// @Failure 404 {object} Envelope "Not Found - Member not found"
// @Router /admin/team/{id} [get]
func (h teamHandler) getMember() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		member, ok := h.loadMember(w, r)
		if !ok {
			return
		}
		h.writeMember(w, r, member, http.StatusOK)
	}
}

// createMember creates a team member with an optional portrait upload
// @Summary Create team member
// @Tags Team
// @Accept json,mpfd
// @Produce json
// @Param member body models.TeamMemberInput true "Member data"
// @Success 201 {object} Envelope{data=TeamMemberWithServices}
// @Failure 400 {object} Envelope "Bad Request - Invalid member data"
// @Failure 409 {object} Envelope "Conflict - Slug already taken"
// @Router /admin/team [post]
func (h teamHandler) createMember() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		in, files, err := readInput(w, r, teamMemberFiles)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		defer files.remove()
		if err := in.Validate(true); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		slug, err := resolveSlug(r.Context(), h.members.SlugsWithPrefix, in.Slug, *in.Name, "member", "", h.now())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "team member slugs", err))
			return
		}
		stored, err := storeFiles(r.Context(), h.uploader, &in, files)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var member models.TeamMember
		in.Apply(&member)
		member.Slug = slug
		if err := h.members.Add(r.Context(), &member, in.ServiceIDs); err != nil {
			stored.discard(r.Context())
			h.responder.WriteError(w, wrapDatabaseError("create", "team member", err))
			return
		}

		h.logger.Info().Int64("memberId", member.ID).Str("slug", member.Slug).Msg("Team member created")
		h.writeMember(w, r, &member, http.StatusCreated)
	}
}

// updateMember patches a team member
// @Summary Update team member
// @Tags Team
// @Accept json,mpfd
// @Produce json
// @Param id path int true "Member ID"
// @Param member body models.TeamMemberInput true "Fields to change"
// @Success 200 {object} Envelope{data=TeamMemberWithServices}
// @Failure 404 {object} Envelope "Not Found - Member not found"
// @Router /admin/team/{id} [patch]
func (h teamHandler) updateMember() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := idParam(r, "id"); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		in, files, err := readInput(w, r, teamMemberFiles)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		defer files.remove()
		if err := in.Validate(false); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		member, ok := h.loadMember(w, r)
		if !ok {
			return
		}
		slug, err := resolveSlug(r.Context(), h.members.SlugsWithPrefix, in.Slug, member.Name, "member", member.Slug, h.now())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "team member slugs", err))
			return
		}
		stored, err := storeFiles(r.Context(), h.uploader, &in, files)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		in.Apply(member)
		member.Slug = slug
		if err := h.members.Update(r.Context(), member, in.ServiceIDs); err != nil {
			stored.discard(r.Context())
			h.responder.WriteError(w, wrapDatabaseError("update", "team member", err))
			return
		}
		h.writeMember(w, r, member, http.StatusOK)
	}
}

// deleteMember removes a team member
// @Summary Delete team member
// @Tags Team
// @Param id path int true "Member ID"
// @Success 200 {object} Envelope
// @Failure 404 {object} Envelope "Not Found - Member not found"
// @Router /admin/team/{id} [delete]
func (h teamHandler) deleteMember() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r, "id")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		deleted, err := h.members.Delete(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", "team member", err))
			return
		}
		if !deleted {
			h.responder.WriteError(w, errs.NewNotFoundError("team member not found"))
			return
		}
		h.responder.WriteMessage(w, http.StatusOK, "team member deleted")
	}
}

// setMemberServices replaces the services a member works on
// @Summary Replace team member services
// @Tags Team
// @Accept json
// @Param id path int true "Member ID"
// @Param ids body idsBody true "Service ids"
// @Success 200 {object} Envelope{data=TeamMemberWithServices}
// @Router /admin/team/{id}/services [put]
func (h teamHandler) setMemberServices() http.HandlerFunc {
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
		member, ok := h.loadMember(w, r)
		if !ok {
			return
		}
		if err := h.members.SetServices(r.Context(), member.ID, body.IDs); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update", "team member services", err))
			return
		}
		h.writeMember(w, r, member, http.StatusOK)
	}
}

func (h teamHandler) loadMember(w http.ResponseWriter, r *http.Request) (*models.TeamMember, bool) {
	id, err := idParam(r, "id")
	if err != nil {
		h.responder.WriteError(w, err)
		return nil, false
	}
	member, err := h.members.FindByID(r.Context(), id)
	if err != nil {
		h.responder.WriteError(w, wrapDatabaseError("find", "team member", err))
		return nil, false
	}
	if member == nil {
		h.responder.WriteError(w, errs.NewNotFoundError("team member not found"))
		return nil, false
	}
	return member, true
}

func (h teamHandler) writeMember(w http.ResponseWriter, r *http.Request, member *models.TeamMember, status int) {
	services, err := h.members.Services(r.Context(), member.ID)
	if err != nil {
		h.responder.WriteError(w, wrapDatabaseError("find", "team member services", err))
		return
	}
	response := TeamMemberWithServices{
		TeamMember: *member,
		ServiceIDs: serviceIDsOf(services),
		Services:   services,
	}
	if status == http.StatusCreated {
		h.responder.WriteCreated(w, response)
		return
	}
	h.responder.WriteJSON(w, response)
}
