package api

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/anchornotes/anchornotes/internal/api/shared"
	"github.com/anchornotes/anchornotes/internal/domain"
	"github.com/anchornotes/anchornotes/internal/service"
)

// ReminderHandler handles reminder lifecycle HTTP requests. Reminders are
// addressed through their note: each note has at most one active reminder.
type ReminderHandler struct {
	reminderService service.ReminderService
	validator       *validator.Validate
}

// NewReminderHandler creates a new ReminderHandler.
func NewReminderHandler(reminderService service.ReminderService) *ReminderHandler {
	return &ReminderHandler{
		reminderService: reminderService,
		validator:       validator.New(),
	}
}

// CreateTimeReminder handles POST /api/notes/{id}/reminders/time requests.
// Creating a reminder replaces any existing active reminder for the note.
func (h *ReminderHandler) CreateTimeReminder(w http.ResponseWriter, r *http.Request) {
	noteID, ok := noteIDFromRequest(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid note ID")
		return
	}

	var req CreateTimeReminderRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	reminder, err := h.reminderService.CreateTimeReminder(r.Context(), noteID, req.TriggerTime)
	h.respondCreated(w, r, reminder, err)
}

// CreateLocationReminder handles POST /api/notes/{id}/reminders/location requests.
func (h *ReminderHandler) CreateLocationReminder(w http.ResponseWriter, r *http.Request) {
	noteID, ok := noteIDFromRequest(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid note ID")
		return
	}

	var req CreateLocationReminderRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	reminder, err := h.reminderService.CreateLocationReminder(
		r.Context(), noteID, req.Latitude, req.Longitude, req.RadiusMeters)
	h.respondCreated(w, r, reminder, err)
}

// respondCreated writes the response for a reminder create call. When the
// record was persisted but the trigger registration failed, the reminder is
// still reported as created with registration_pending set.
func (h *ReminderHandler) respondCreated(
	w http.ResponseWriter,
	r *http.Request,
	reminder *domain.Reminder,
	err error,
) {
	if err != nil {
		if errors.Is(err, service.ErrTriggerRegistrationFailed) && reminder != nil {
			shared.RespondWithJSON(w, r, http.StatusCreated, reminderToResponse(reminder, true))
			return
		}
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, reminderToResponse(reminder, false))
}

// GetReminder handles GET /api/notes/{id}/reminder requests. Responds 404
// when the note has no active reminder.
func (h *ReminderHandler) GetReminder(w http.ResponseWriter, r *http.Request) {
	noteID, ok := noteIDFromRequest(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid note ID")
		return
	}

	reminder, err := h.reminderService.GetActive(r.Context(), noteID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}
	if reminder == nil {
		shared.RespondWithError(w, r, http.StatusNotFound, "No active reminder")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, reminderToResponse(reminder, false))
}

// CancelReminder handles DELETE /api/notes/{id}/reminder requests. Cancel
// is idempotent: a note with no active reminder still yields 204.
func (h *ReminderHandler) CancelReminder(w http.ResponseWriter, r *http.Request) {
	noteID, ok := noteIDFromRequest(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid note ID")
		return
	}

	if err := h.reminderService.CancelActive(r.Context(), noteID); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
