package handlers

import (
	"net/http"

	"sentencescramble/internal/security"
)

// NewRouter registers the API routes. Every /api route is rate limited per
// client IP; the whole mux is wrapped with panic recovery and request logging.
func NewRouter(assignments *AssignmentHandler, play *PlayHandler, limiter *security.RateLimiter) http.Handler {
	api := http.NewServeMux()

	// Teacher routes
	api.HandleFunc("POST /api/assignments", assignments.Create)
	api.HandleFunc("POST /api/assignments/decode", assignments.Decode)
	api.HandleFunc("POST /api/assignments/email", assignments.EmailInstructions)
	api.HandleFunc("GET /api/teachers/{teacher}/history", assignments.History)
	api.HandleFunc("DELETE /api/teachers/{teacher}/history/{id}", assignments.DeleteHistory)
	api.HandleFunc("GET /api/teachers/{teacher}/draft", assignments.GetDraft)
	api.HandleFunc("PUT /api/teachers/{teacher}/draft", assignments.PutDraft)

	// Student routes
	api.HandleFunc("POST /api/play/units", play.Units)
	api.HandleFunc("POST /api/progress/start", play.Start)
	api.HandleFunc("POST /api/progress/reset", play.Reset)
	api.HandleFunc("POST /api/progress/submit", play.Submit)
	api.HandleFunc("POST /api/progress/reveal", play.Reveal)
	api.HandleFunc("GET /api/progress/{assignmentId}/{student}", play.GetProgress)
	api.HandleFunc("POST /api/progress/receipt", play.Receipt)
	api.HandleFunc("POST /api/receipts/verify", play.VerifyReceipt)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.Handle("/api/", limiter.Middleware(api))

	return Logging(Recover(mux))
}
