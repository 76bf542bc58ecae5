package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"technotes/internal/errors"
	"technotes/internal/service"
)

// NoteHandler handles note endpoints.
type NoteHandler struct {
	noteService service.NoteService
}

// NewNoteHandler creates a new note handler.
func NewNoteHandler(noteService service.NoteService) *NoteHandler {
	return &NoteHandler{noteService: noteService}
}

// CreateNoteRequest represents a note creation request.
type CreateNoteRequest struct {
	Title  string    `json:"title" validate:"required"`
	Text   string    `json:"text" validate:"required"`
	UserID uuid.UUID `json:"user" validate:"required"`
}

// UpdateNoteRequest represents a note update request.
type UpdateNoteRequest struct {
	ID        uuid.UUID `json:"id" validate:"required"`
	Title     string    `json:"title" validate:"required"`
	Text      string    `json:"text" validate:"required"`
	UserID    uuid.UUID `json:"user" validate:"required"`
	Completed *bool     `json:"completed" validate:"required"`
}

// DeleteNoteRequest represents a note deletion request.
type DeleteNoteRequest struct {
	ID uuid.UUID `json:"id" validate:"required"`
}

// ListNotes godoc
// @Summary List notes with owner usernames
// @Tags notes
// @Produce json
// @Security BearerAuth
// @Success 200 {array} service.NoteWithUser
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /notes [get]
func (h *NoteHandler) ListNotes(c echo.Context) error {
	notes, err := h.noteService.ListNotes(c.Request().Context())
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, notes)
}

// CreateNote godoc
// @Summary Create note
// @Tags notes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateNoteRequest true "Note payload"
// @Success 201 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /notes [post]
func (h *NoteHandler) CreateNote(c echo.Context) error {
	var req CreateNoteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_BODY",
		})
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "all fields are required",
			Code:  "VALIDATION_FAILED",
		})
	}

	if _, err := h.noteService.CreateNote(c.Request().Context(), req.Title, req.Text, req.UserID); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusCreated, MessageResponse{Message: "Note created successfully"})
}

// UpdateNote godoc
// @Summary Update note
// @Tags notes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateNoteRequest true "Note payload"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /notes [patch]
func (h *NoteHandler) UpdateNote(c echo.Context) error {
	var req UpdateNoteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_BODY",
		})
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "all fields are required",
			Code:  "VALIDATION_FAILED",
		})
	}

	if _, err := h.noteService.UpdateNote(c.Request().Context(), req.ID, req.Title, req.Text, req.UserID, *req.Completed); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "Note updated successfully"})
}

// DeleteNote godoc
// @Summary Delete note
// @Tags notes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body DeleteNoteRequest true "Note ID"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /notes [delete]
func (h *NoteHandler) DeleteNote(c echo.Context) error {
	var req DeleteNoteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_BODY",
		})
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "note ID is required",
			Code:  "VALIDATION_FAILED",
		})
	}

	if _, err := h.noteService.DeleteNote(c.Request().Context(), req.ID); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "Note deleted successfully"})
}
