package api

import (
	"errors"
	"net/http"

	"github.com/rpupo63/consultancy-site-backend/errs"
	"github.com/rpupo63/consultancy-site-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

type authHandler struct {
	responder         Responder
	logger            zerolog.Logger
	users             userStore
	tokens            tokenIssuer
	allowRegistration bool
	hashCost          int
}

func newAuthHandler(users userStore, tokens tokenIssuer, allowRegistration bool) authHandler {
	logger := log.With().Str("handlerName", "authHandler").Logger()

	return authHandler{
		responder:         NewResponder(logger),
		logger:            logger,
		users:             users,
		tokens:            tokens,
		allowRegistration: allowRegistration,
		hashCost:          bcrypt.DefaultCost,
	}
}

// login exchanges a username and password for an access token
// @Summary Log in
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body models.Credentials true "Username and password"
// @Success 200 {object} Envelope{data=AuthResponse}
// @Failure 400 {object} Envelope "Bad Request - Missing fields"
// @Failure 401 {object} Envelope "Unauthorized - Invalid username or password"
// @Router /auth/login [post]
func (h authHandler) login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		creds, _, err := readInput[models.Credentials](w, r, nil)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := creds.Validate(false); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		user, err := h.users.FindByUsername(r.Context(), creds.Username)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "user", err))
			return
		}
		if user == nil {
			h.responder.WriteError(w, errs.NewBadLoginError())
			return
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)); err != nil {
			if !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
				h.logger.Error().Err(err).Int64("userId", user.ID).Msg("Stored password hash is unusable")
			}
			h.responder.WriteError(w, errs.NewBadLoginError())
			return
		}

		h.writeToken(w, *user, http.StatusOK)
	}
}

// register creates an account. The first account becomes an admin; later
// ones need ALLOW_REGISTRATION and get the editor role.
// @Summary Register
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body models.Credentials true "Username and password"
// @Success 201 {object} Envelope{data=AuthResponse}
// @Failure 403 {object} Envelope "Forbidden - Registration is closed"
// @Failure 409 {object} Envelope "Conflict - Username taken"
// @Router /auth/register [post]
func (h authHandler) register() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		creds, _, err := readInput[models.Credentials](w, r, nil)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := creds.Validate(true); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		count, err := h.users.Count(r.Context())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("count", "users", err))
			return
		}
		role := models.RoleEditor
		switch {
		case count == 0:
			role = models.RoleAdmin
		case !h.allowRegistration:
			h.responder.WriteError(w, errs.NewForbiddenError("registration is closed"))
			return
		}

		existing, err := h.users.FindByUsername(r.Context(), creds.Username)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "user", err))
			return
		}
		if existing != nil {
			h.responder.WriteError(w, errs.NewAlreadyExists("user"))
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), h.hashCost)
		if err != nil {
			h.responder.WriteError(w, errs.NewInternalErrorWithCause("failed to hash password", err))
			return
		}
		user := models.User{Username: creds.Username, PasswordHash: string(hash), Role: role}
		if err := h.users.Add(r.Context(), &user); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "user", err))
			return
		}

		h.logger.Info().Int64("userId", user.ID).Str("role", role).Msg("User registered")
		h.writeToken(w, user, http.StatusCreated)
	}
}

// me returns the account behind the access token
// @Summary Current user
// @Tags Auth
// @Produce json
// @Success 200 {object} Envelope{data=models.User}
// @Failure 401 {object} Envelope "Unauthorized"
// @Router /admin/me [get]
func (h authHandler) me() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := ctxGetClaims(r.Context())
		if claims == nil {
			h.responder.WriteError(w, errs.NewMissingTokenError())
			return
		}
		user, err := h.users.FindByID(r.Context(), claims.ID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "user", err))
			return
		}
		if user == nil {
			h.responder.WriteError(w, errs.NewInvalidTokenError())
			return
		}
		h.responder.WriteJSON(w, user)
	}
}

func (h authHandler) writeToken(w http.ResponseWriter, user models.User, status int) {
	token, expiresAt, err := h.tokens.issue(user)
	if err != nil {
		h.responder.WriteError(w, errs.NewInternalErrorWithCause("failed to sign token", err))
		return
	}
	response := AuthResponse{Token: token, ExpiresAt: expiresAt, User: user}
	if status == http.StatusCreated {
		h.responder.WriteCreated(w, response)
		return
	}
	h.responder.WriteJSON(w, response)
}
