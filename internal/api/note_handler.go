package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/anchornotes/anchornotes/internal/api/shared"
	"github.com/anchornotes/anchornotes/internal/service"
)

const (
	defaultNotePageSize = 50
	maxNotePageSize     = 200
)

// NoteHandler handles note-related HTTP requests.
type NoteHandler struct {
	noteService service.NoteService
	tagService  service.TagService
	validator   *validator.Validate
}

// NewNoteHandler creates a new NoteHandler.
func NewNoteHandler(noteService service.NoteService, tagService service.TagService) *NoteHandler {
	return &NoteHandler{
		noteService: noteService,
		tagService:  tagService,
		validator:   validator.New(),
	}
}

// noteIDFromRequest parses the {id} URL parameter.
func noteIDFromRequest(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	return id, err == nil
}

// CreateNote handles POST /api/notes requests.
func (h *NoteHandler) CreateNote(w http.ResponseWriter, r *http.Request) {
	var req CreateNoteRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	note, err := h.noteService.CreateNote(r.Context(), req.Title, req.Content)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, noteToResponse(note))
}

// GetNote handles GET /api/notes/{id} requests.
func (h *NoteHandler) GetNote(w http.ResponseWriter, r *http.Request) {
	noteID, ok := noteIDFromRequest(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid note ID")
		return
	}

	note, err := h.noteService.GetNote(r.Context(), noteID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, noteToResponse(note))
}

// UpdateNote handles PUT /api/notes/{id} requests.
func (h *NoteHandler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	noteID, ok := noteIDFromRequest(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid note ID")
		return
	}

	var req UpdateNoteRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	note, err := h.noteService.UpdateNote(r.Context(), noteID, req.Title, req.Content)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, noteToResponse(note))
}

// DeleteNote handles DELETE /api/notes/{id} requests. Deleting a note
// cancels its active reminder first.
func (h *NoteHandler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	noteID, ok := noteIDFromRequest(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid note ID")
		return
	}

	if err := h.noteService.DeleteNote(r.Context(), noteID); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListNotes handles GET /api/notes requests.
func (h *NoteHandler) ListNotes(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", defaultNotePageSize)
	if limit < 1 || limit > maxNotePageSize {
		limit = defaultNotePageSize
	}
	offset := queryInt(r, "offset", 0)
	if offset < 0 {
		offset = 0
	}

	notes, err := h.noteService.ListNotes(r.Context(), limit, offset)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	responses := make([]NoteResponse, 0, len(notes))
	for _, note := range notes {
		responses = append(responses, noteToResponse(note))
	}

	shared.RespondWithJSON(w, r, http.StatusOK, responses)
}

// TagNote handles POST /api/notes/{id}/tags requests.
func (h *NoteHandler) TagNote(w http.ResponseWriter, r *http.Request) {
	noteID, ok := noteIDFromRequest(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid note ID")
		return
	}

	var req TagRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	tag, err := h.tagService.TagNote(r.Context(), noteID, req.Name)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, tagToResponse(tag))
}

// UntagNote handles DELETE /api/notes/{id}/tags/{tagId} requests.
func (h *NoteHandler) UntagNote(w http.ResponseWriter, r *http.Request) {
	noteID, ok := noteIDFromRequest(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid note ID")
		return
	}

	tagID, err := uuid.Parse(chi.URLParam(r, "tagId"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid tag ID")
		return
	}

	if err := h.tagService.UntagNote(r.Context(), noteID, tagID); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListNoteTags handles GET /api/notes/{id}/tags requests.
func (h *NoteHandler) ListNoteTags(w http.ResponseWriter, r *http.Request) {
	noteID, ok := noteIDFromRequest(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid note ID")
		return
	}

	tags, err := h.tagService.ListNoteTags(r.Context(), noteID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	responses := make([]TagResponse, 0, len(tags))
	for _, tag := range tags {
		responses = append(responses, tagToResponse(tag))
	}

	shared.RespondWithJSON(w, r, http.StatusOK, responses)
}

// ListTags handles GET /api/tags requests.
func (h *NoteHandler) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.tagService.ListTags(r.Context())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	responses := make([]TagResponse, 0, len(tags))
	for _, tag := range tags {
		responses = append(responses, tagToResponse(tag))
	}

	shared.RespondWithJSON(w, r, http.StatusOK, responses)
}
