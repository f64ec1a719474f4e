package analysis

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"log/slog"

	"riskwatch/internal/auth"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writePipelineError maps pipeline failures onto the transport: auth failures
// are 401, request-shape violations 400. Neither leaves a log entry behind.
func writePipelineError(w http.ResponseWriter, err error) {
	switch {
	case IsAuthError(err):
		writeError(w, http.StatusUnauthorized, "invalid or missing token")
	case IsValidationError(err):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

type TextHandler struct {
	Pipeline *Pipeline
	Logger   *slog.Logger
}

type textRequest struct {
	Text string `json:"text"`
}

type textResponse struct {
	Score       float64 `json:"score"`
	Label       string  `json:"label"`
	Explanation string  `json:"explanation"`
	Indicators  int     `json:"indicators"`
	AnalysisID  string  `json:"analysis_id"`
	Recorded    bool    `json:"recorded"`
}

func (h *TextHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req textRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	outcome, err := h.Pipeline.AnalyzeText(r.Context(), auth.BearerToken(r), req.Text)
	if err != nil {
		writePipelineError(w, err)
		return
	}

	indicators := 0
	if outcome.Text != nil {
		indicators = outcome.Text.Indicators
	}
	writeJSON(w, http.StatusOK, textResponse{
		Score:       outcome.Score,
		Label:       outcome.Label,
		Explanation: outcome.Explanation,
		Indicators:  indicators,
		AnalysisID:  outcome.AnalysisID,
		Recorded:    outcome.Recorded,
	})
}

type ImageHandler struct {
	Pipeline *Pipeline
	Logger   *slog.Logger
}

type imageResponse struct {
	Score       float64 `json:"score"`
	Label       string  `json:"label"`
	Explanation string  `json:"explanation"`
	ImageSize   string  `json:"image_size"`
	Filename    string  `json:"filename"`
	AnalysisID  string  `json:"analysis_id"`
	Recorded    bool    `json:"recorded"`
}

func (h *ImageHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file upload")
		return
	}
	defer file.Close()

	// Read one byte past the ceiling so the pipeline can tell "at the limit"
	// from "over it" without buffering an unbounded upload.
	data, err := io.ReadAll(io.LimitReader(file, MaxImageBytes+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read upload")
		return
	}

	outcome, err := h.Pipeline.AnalyzeImage(r.Context(), auth.BearerToken(r),
		data, header.Header.Get("Content-Type"), header.Filename)
	if err != nil {
		writePipelineError(w, err)
		return
	}

	size := "unknown"
	if outcome.Image != nil {
		size = outcome.Image.Size
	}
	writeJSON(w, http.StatusOK, imageResponse{
		Score:       outcome.Score,
		Label:       outcome.Label,
		Explanation: outcome.Explanation,
		ImageSize:   size,
		Filename:    header.Filename,
		AnalysisID:  outcome.AnalysisID,
		Recorded:    outcome.Recorded,
	})
}

// HistoryHandler lists the authenticated user's own audit entries. It sits
// behind the bearer middleware, which puts the user into the context.
type HistoryHandler struct {
	Store  *Store
	Logger *slog.Logger
}

func (h *HistoryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil {
			limit = l
		}
	}

	entries, err := h.Store.ListByUser(r.Context(), user.ID, limit)
	if err != nil {
		h.Logger.Error("list analyses", "err", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []LogEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}
