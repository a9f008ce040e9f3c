package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"sentencescramble/internal/encoding"
	"sentencescramble/internal/models"
	"sentencescramble/internal/service"
)

// PlayHandler serves the student side: scrambled units, answers and results
type PlayHandler struct {
	play     *service.PlayService
	progress *service.ProgressService
	receipts *service.ReceiptService
	email    *service.EmailService
}

// NewPlayHandler creates a new play handler
func NewPlayHandler(play *service.PlayService, progress *service.ProgressService, receipts *service.ReceiptService, email *service.EmailService) *PlayHandler {
	return &PlayHandler{
		play:     play,
		progress: progress,
		receipts: receipts,
		email:    email,
	}
}

// playRequest carries the link a student opened; not every route uses every field
type playRequest struct {
	Fragment string   `json:"fragment"`
	Student  string   `json:"student"`
	Index    int      `json:"index"`
	Answer   []string `json:"answer"`
	EmailTo  string   `json:"emailTo"`
}

// decodePlayRequest reads the body and the assignment inside its fragment
func decodePlayRequest(w http.ResponseWriter, r *http.Request) (*playRequest, *models.Assignment, bool) {
	var req playRequest
	if !decodeJSON(w, r, &req) {
		return nil, nil, false
	}
	a, _ := encoding.DecodeFragment(req.Fragment)
	if a == nil {
		respondWithError(w, http.StatusBadRequest, "Link does not contain a valid assignment", "", nil)
		return nil, nil, false
	}
	return &req, a, true
}

// Units returns the scrambled units for one sentence
func (h *PlayHandler) Units(w http.ResponseWriter, r *http.Request) {
	req, a, ok := decodePlayRequest(w, r)
	if !ok {
		return
	}

	round, err := h.play.Units(a, req.Index)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, round)
}

type startResponse struct {
	Assignment *models.Assignment      `json:"assignment"`
	Progress   *models.StudentProgress `json:"progress"`
	Resumed    bool                    `json:"resumed"`
}

// Start resumes or begins a student's attempt
func (h *PlayHandler) Start(w http.ResponseWriter, r *http.Request) {
	req, a, ok := decodePlayRequest(w, r)
	if !ok {
		return
	}

	p, resumed, err := h.progress.Start(a, req.Student)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, startResponse{Assignment: a, Progress: p, Resumed: resumed})
}

// Reset discards a student's progress and begins again
func (h *PlayHandler) Reset(w http.ResponseWriter, r *http.Request) {
	req, a, ok := decodePlayRequest(w, r)
	if !ok {
		return
	}

	p, err := h.progress.Reset(a, req.Student)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, startResponse{Assignment: a, Progress: p})
}

// Submit checks a student's ordering for the current sentence
func (h *PlayHandler) Submit(w http.ResponseWriter, r *http.Request) {
	req, a, ok := decodePlayRequest(w, r)
	if !ok {
		return
	}

	outcome, err := h.progress.Submit(a, req.Student, req.Index, req.Answer)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, outcome)
}

// Reveal gives up on the current sentence
func (h *PlayHandler) Reveal(w http.ResponseWriter, r *http.Request) {
	req, a, ok := decodePlayRequest(w, r)
	if !ok {
		return
	}

	outcome, err := h.progress.Reveal(a, req.Student, req.Index)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, outcome)
}

// GetProgress returns a student's saved progress
func (h *PlayHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	p, err := h.progress.Load(r.PathValue("assignmentId"), r.PathValue("student"))
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

type receiptResponse struct {
	ShareText string `json:"shareText"`
	Receipt   string `json:"receipt,omitempty"`
	Emailed   bool   `json:"emailed"`
}

// Receipt builds the results report, signs it when receipts are configured
// and optionally emails both to the teacher
func (h *PlayHandler) Receipt(w http.ResponseWriter, r *http.Request) {
	req, a, ok := decodePlayRequest(w, r)
	if !ok {
		return
	}

	p, err := h.progress.Load(a.ID, req.Student)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	resp := receiptResponse{ShareText: service.ShareText(a, p)}
	if h.receipts.IsEnabled() {
		resp.Receipt, err = h.receipts.Issue(a, p)
		if err != nil {
			respondWithServiceError(w, err)
			return
		}
	}

	if req.EmailTo != "" {
		if !h.email.IsEnabled() {
			respondWithError(w, http.StatusServiceUnavailable, "Email is not configured", "", nil)
			return
		}
		err := h.email.SendResults(r.Context(), req.EmailTo, a.Title, p.Student.Name, resp.ShareText, resp.Receipt)
		if err != nil {
			respondWithServiceError(w, err)
			return
		}
		resp.Emailed = true
	}

	respondJSON(w, http.StatusOK, resp)
}

type verifyRequest struct {
	Token string `json:"token"`
}

type verifyResponse struct {
	Valid  bool                   `json:"valid"`
	Claims *service.ReceiptClaims `json:"claims,omitempty"`
	Error  string                 `json:"error,omitempty"`
}

// VerifyReceipt checks a receipt a student pasted to the teacher
func (h *PlayHandler) VerifyReceipt(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	claims, err := h.receipts.Verify(req.Token)
	switch {
	case err == nil:
		respondJSON(w, http.StatusOK, verifyResponse{Valid: true, Claims: claims})
	case errors.Is(err, service.ErrReceiptInvalid):
		zap.L().Debug("receipt rejected", zap.Error(err))
		respondJSON(w, http.StatusOK, verifyResponse{Valid: false, Error: "Receipt is invalid or expired"})
	default:
		respondWithServiceError(w, err)
	}
}
