package handlers

import (
	"net/http"

	"sentencescramble/internal/encoding"
	"sentencescramble/internal/models"
	"sentencescramble/internal/service"
)

// AssignmentHandler serves teacher authoring, share history and drafts
type AssignmentHandler struct {
	authoring *service.AuthoringService
	email     *service.EmailService
}

// NewAssignmentHandler creates a new assignment handler
func NewAssignmentHandler(authoring *service.AuthoringService, email *service.EmailService) *AssignmentHandler {
	return &AssignmentHandler{authoring: authoring, email: email}
}

// Create generates an assignment link from the teacher's form
func (h *AssignmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.AuthoringRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.authoring.CreateAssignment(req)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, result)
}

type fragmentRequest struct {
	Fragment string `json:"fragment"`
}

type decodeResponse struct {
	Assignment *models.Assignment `json:"assignment"`
	Format     encoding.Format    `json:"format"`
}

// Decode reads an assignment back out of a link or fragment
func (h *AssignmentHandler) Decode(w http.ResponseWriter, r *http.Request) {
	var req fragmentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	a, format := encoding.DecodeFragment(req.Fragment)
	if a == nil {
		respondWithError(w, http.StatusBadRequest, "Link does not contain a valid assignment", "", nil)
		return
	}
	respondJSON(w, http.StatusOK, decodeResponse{Assignment: a, Format: format})
}

type emailInstructionsRequest struct {
	To           string `json:"to"`
	Title        string `json:"title"`
	Instructions string `json:"instructions"`
}

// EmailInstructions sends an assignment's instructions to an address
func (h *AssignmentHandler) EmailInstructions(w http.ResponseWriter, r *http.Request) {
	var req emailInstructionsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !h.email.IsEnabled() {
		respondWithError(w, http.StatusServiceUnavailable, "Email is not configured", "", nil)
		return
	}

	if err := h.email.SendInstructions(r.Context(), req.To, req.Title, req.Instructions); err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"sent": true})
}

// History lists a teacher's generated links, newest first
func (h *AssignmentHandler) History(w http.ResponseWriter, r *http.Request) {
	entries, err := h.authoring.History(r.PathValue("teacher"))
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, entries)
}

// DeleteHistory removes one link from a teacher's history
func (h *AssignmentHandler) DeleteHistory(w http.ResponseWriter, r *http.Request) {
	if err := h.authoring.DeleteHistory(r.PathValue("teacher"), r.PathValue("id")); err != nil {
		respondWithServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetDraft returns the teacher's saved form
func (h *AssignmentHandler) GetDraft(w http.ResponseWriter, r *http.Request) {
	draft, err := h.authoring.LoadDraft(r.PathValue("teacher"))
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, draft)
}

// PutDraft stores the teacher's unsent form
func (h *AssignmentHandler) PutDraft(w http.ResponseWriter, r *http.Request) {
	var draft models.TeacherDraft
	if !decodeJSON(w, r, &draft) {
		return
	}

	saved, err := h.authoring.SaveDraft(r.PathValue("teacher"), draft)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, saved)
}
