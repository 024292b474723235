package api

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/anchornotes/anchornotes/internal/api/shared"
	"github.com/anchornotes/anchornotes/internal/trigger"
)

// LocationHandler receives device location fixes and feeds them to the
// region monitor, which evaluates geofence transitions for location
// reminders.
type LocationHandler struct {
	regionSource *trigger.RegionSource
	validator    *validator.Validate
}

// NewLocationHandler creates a new LocationHandler.
func NewLocationHandler(regionSource *trigger.RegionSource) *LocationHandler {
	return &LocationHandler{
		regionSource: regionSource,
		validator:    validator.New(),
	}
}

// UpdateLocation handles POST /api/location requests.
func (h *LocationHandler) UpdateLocation(w http.ResponseWriter, r *http.Request) {
	var req LocationUpdateRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	if err := h.regionSource.UpdateLocation(r.Context(), req.Latitude, req.Longitude); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	w.WriteHeader(http.StatusAccepted)
}
