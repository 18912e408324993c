package api

import (
	"bytes"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"farmstat/adapters/excel"
	"farmstat/adapters/report"
	"farmstat/domain/analysis"
	"farmstat/domain/core"
	"farmstat/domain/dataset"
	apperrors "farmstat/internal/errors"
	"farmstat/internal/profiling"
)

type parseBody struct {
	Message string `json:"message"`
}

type parseResponse struct {
	Request analysis.AnalysisRequest `json:"request"`
}

type analyzeBody struct {
	Message string                    `json:"message"`
	Request *analysis.AnalysisRequest `json:"request"`
}

type analyzeResponse struct {
	EntryID   core.ID                  `json:"entry_id"`
	Request   analysis.AnalysisRequest `json:"request"`
	Result    analysis.StatResult      `json:"result"`
	Narration string                   `json:"narration"`
}

type batchBody struct {
	Requests []analysis.AnalysisRequest `json:"requests"`
}

type batchResponse struct {
	EntryIDs []core.ID             `json:"entry_ids"`
	Results  []analysis.StatResult `json:"results"`
}

type reportBody struct {
	Question string                    `json:"question"`
	EntryID  string                    `json:"entry_id"`
	Request  *analysis.AnalysisRequest `json:"request"`
	Format   string                    `json:"format"`
}

type datasetResponse struct {
	Seed    int64               `json:"seed"`
	N       int                 `json:"n"`
	Schema  []dataset.FieldSpec `json:"schema"`
	Records dataset.Dataset     `json:"records"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]interface{}{"status": "ok", "farms": len(s.data)})
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	var body parseBody
	if err := decodeJSON(w, r, &body); err != nil {
		s.writeError(w, err)
		return
	}
	if strings.TrimSpace(body.Message) == "" {
		s.writeError(w, apperrors.InvalidInput("message is required"))
		return
	}

	req, err := s.parser.ParseRequest(r.Context(), body.Message)
	if err != nil {
		s.writeError(w, apperrors.Wrap(err, "parsing request"))
		return
	}
	s.writeJSON(w, http.StatusOK, parseResponse{Request: req})
}

// handleAnalyze runs a structured request, or parses a question first when only a
// message is given, and records the outcome in the tracker.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var body analyzeBody
	if err := decodeJSON(w, r, &body); err != nil {
		s.writeError(w, err)
		return
	}

	var req analysis.AnalysisRequest
	switch {
	case body.Request != nil:
		req = *body.Request
	case strings.TrimSpace(body.Message) != "":
		parsed, err := s.parser.ParseRequest(r.Context(), body.Message)
		if err != nil {
			s.writeError(w, apperrors.Wrap(err, "parsing request"))
			return
		}
		req = parsed
	default:
		s.writeError(w, apperrors.InvalidInput("request or message is required"))
		return
	}
	if req.Description == "" {
		req.Description = body.Message
	}

	start := time.Now()
	result, err := s.engine.Analyze(r.Context(), s.data, req)
	if err != nil {
		if core.IsValidationError(err) {
			s.metrics.RejectedTotal.Inc()
		}
		s.writeError(w, err)
		return
	}
	s.metrics.ObserveAnalysis(result, time.Since(start))

	entry := s.tracker.Add(req, result, req.Description)
	s.metrics.TrackedEntries.Set(float64(s.tracker.Stats().TotalTests))

	s.writeJSON(w, http.StatusOK, analyzeResponse{
		EntryID:   entry.ID,
		Request:   entry.Request,
		Result:    result,
		Narration: report.FormatForNarration(result),
	})
}

func (s *Server) handleAnalyzeBatch(w http.ResponseWriter, r *http.Request) {
	var body batchBody
	if err := decodeJSON(w, r, &body); err != nil {
		s.writeError(w, err)
		return
	}
	if len(body.Requests) == 0 {
		s.writeError(w, apperrors.InvalidInput("requests must not be empty"))
		return
	}

	start := time.Now()
	results, err := s.engine.AnalyzeBatch(r.Context(), s.data, body.Requests)
	if err != nil {
		if core.IsValidationError(err) {
			s.metrics.RejectedTotal.Inc()
		}
		s.writeError(w, err)
		return
	}
	perRequest := time.Since(start) / time.Duration(len(results))

	resp := batchResponse{Results: results, EntryIDs: make([]core.ID, len(results))}
	for i, res := range results {
		s.metrics.ObserveAnalysis(res, perRequest)
		resp.EntryIDs[i] = s.tracker.Add(body.Requests[i], res, body.Requests[i].Description).ID
	}
	s.metrics.TrackedEntries.Set(float64(s.tracker.Stats().TotalTests))

	s.writeJSON(w, http.StatusOK, resp)
}

// handleReport renders a tracked entry, or a fresh untracked analysis, as markdown
// or HTML.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	var body reportBody
	if err := decodeJSON(w, r, &body); err != nil {
		s.writeError(w, err)
		return
	}

	var (
		req    analysis.AnalysisRequest
		result analysis.StatResult
	)
	switch {
	case body.EntryID != "":
		id, err := core.ParseID(body.EntryID)
		if err != nil {
			s.writeError(w, apperrors.InvalidInput(err.Error()))
			return
		}
		entry, ok := s.tracker.Get(id)
		if !ok {
			s.writeError(w, apperrors.NotFound("tracker entry "+id.String()))
			return
		}
		req, result = entry.Request, entry.Result
	case body.Request != nil:
		var err error
		req = *body.Request
		if result, err = s.engine.Analyze(r.Context(), s.data, req); err != nil {
			s.writeError(w, err)
			return
		}
	default:
		s.writeError(w, apperrors.InvalidInput("entry_id or request is required"))
		return
	}

	switch strings.ToLower(body.Format) {
	case "html":
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(report.HTML(body.Question, req, result)))
	case "", "markdown", "md":
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.Write([]byte(report.Markdown(body.Question, req, result)))
	default:
		s.writeError(w, apperrors.InvalidInput("format must be markdown or html"))
	}
}

func (s *Server) handleDataset(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, datasetResponse{
		Seed:    s.seed,
		N:       len(s.data),
		Schema:  dataset.Schema,
		Records: s.data,
	})
}

func (s *Server) handleDatasetSummary(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"n":       len(s.data),
		"columns": profiling.Describe(s.data),
	})
}

func (s *Server) handleDatasetCSV(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := excel.WriteCSV(&buf, s.data); err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="farms.csv"`)
	w.Write(buf.Bytes())
}

func (s *Server) handleDatasetXLSX(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := excel.WriteXLSX(&buf, s.data); err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="farms.xlsx"`)
	w.Write(buf.Bytes())
}

func (s *Server) handleTracker(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"entries": s.tracker.List(),
		"stats":   s.tracker.Stats(),
	})
}

func (s *Server) handleTrackerReset(w http.ResponseWriter, r *http.Request) {
	s.tracker.Reset()
	s.metrics.TrackedEntries.Set(0)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleTrackerEntry(w http.ResponseWriter, r *http.Request) {
	id, err := core.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, apperrors.InvalidInput(err.Error()))
		return
	}
	entry, ok := s.tracker.Get(id)
	if !ok {
		s.writeError(w, apperrors.NotFound("tracker entry "+id.String()))
		return
	}
	s.writeJSON(w, http.StatusOK, entry)
}
