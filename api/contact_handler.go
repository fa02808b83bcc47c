package api

import (
	"context"
	"net/http"
	"time"

	"github.com/rpupo63/consultancy-site-backend/errs"
	"github.com/rpupo63/consultancy-site-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const notifyTimeout = 30 * time.Second

type contactHandler struct {
	responder Responder
	logger    zerolog.Logger
	messages  contactMessageStore
	notifier  contactNotifier
	// dispatch runs the notification; it is a goroutine outside tests
	dispatch func(func())
}

func newContactHandler(messages contactMessageStore, notifier contactNotifier) contactHandler {
	logger := log.With().Str("handlerName", "contactHandler").Logger()

	return contactHandler{
		responder: NewResponder(logger),
		logger:    logger,
		messages:  messages,
		notifier:  notifier,
		dispatch:  func(f func()) { go f() },
	}
}

// submitContact stores a contact form submission and notifies the team
// @Summary Submit contact form
// @Description The message is stored first; email and SMS notifications are sent in the background
// @Tags Contact
// @Accept json
// @Produce json
// @Param message body models.ContactMessageInput true "Contact form"
// @Success 201 {object} Envelope{data=ContactReceipt}
// @Failure 400 {object} Envelope "Bad Request - Invalid form"
// @Failure 429 {object} Envelope "Too Many Requests"
// @Router /contact [post]
func (h contactHandler) submitContact() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		in, _, err := readInput[models.ContactMessageInput](w, r, nil)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := in.Validate(); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		msg := in.ToModel()
		if err := h.messages.Add(r.Context(), &msg); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "contact message", err))
			return
		}
		h.logger.Info().Int64("messageId", msg.ID).Msg("Contact message received")

		if h.notifier != nil {
			ctx := context.WithoutCancel(r.Context())
			h.dispatch(func() {
				ctx, cancel := context.WithTimeout(ctx, notifyTimeout)
				defer cancel()
				if err := h.notifier.NotifyContact(ctx, msg); err != nil {
					h.logger.Error().Err(err).Int64("messageId", msg.ID).Msg("Failed to send contact notification")
				}
			})
		}

		h.responder.WriteCreated(w, ContactReceipt{ID: msg.ID})
	}
}

// listMessages lists contact messages newest first
// @Summary List contact messages
// @Tags Contact
// @Produce json
// @Success 200 {object} Envelope{data=[]models.ContactMessage}
// @Router /admin/contact-messages [get]
func (h contactHandler) listMessages() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		messages, err := h.messages.FindAll(r.Context())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "contact messages", err))
			return
		}
		h.responder.WriteJSON(w, messages)
	}
}

// markRead flags a message as read
// @Summary Mark contact message read
// @Tags Contact
// @Param id path int true "Message ID"
// @Success 200 {object} Envelope
// @Failure 404 {object} Envelope "Not Found - Message not found"
// @Router /admin/contact-messages/{id}/read [patch]
func (h contactHandler) markRead() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r, "id")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		found, err := h.messages.MarkRead(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update", "contact message", err))
			return
		}
		if !found {
			h.responder.WriteError(w, errs.NewNotFoundError("contact message not found"))
			return
		}
		h.responder.WriteMessage(w, http.StatusOK, "contact message marked as read")
	}
}

// deleteMessage removes a contact message
// @Summary Delete contact message
// @Tags Contact
// @Param id path int true "Message ID"
// @Success 200 {object} Envelope
// @Failure 404 {object} Envelope "Not Found - Message not found"
// @Router /admin/contact-messages/{id} [delete]
func (h contactHandler) deleteMessage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r, "id")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		deleted, err := h.messages.Delete(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", "contact message", err))
			return
		}
		if !deleted {
			h.responder.WriteError(w, errs.NewNotFoundError("contact message not found"))
			return
		}
		h.responder.WriteMessage(w, http.StatusOK, "contact message deleted")
	}
}
