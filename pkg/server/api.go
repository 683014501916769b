package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/adrestia/pdv/pkg/report"
	"github.com/adrestia/pdv/pkg/result"
)

// ReportResponse is the JSON body of /report.
type ReportResponse struct {
	Result string  `json:"result"`
	Count  int     `json:"count"`
	Error  string  `json:"error"`
	Name   string  `json:"name,omitempty"`
	Time   float64 `json:"time,omitempty"`
}

// NewReportResponse maps a report onto the response body.
func NewReportResponse(r report.Report) ReportResponse {
	resp := ReportResponse{
		Result: r.Verdict.String(),
		Count:  r.Count,
		Name:   r.FailingName,
		Time:   result.Seconds(r.FailingTime),
	}
	if r.Err != nil {
		resp.Error = r.Err.Error()
	}
	return resp
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	w.Write([]byte(body))
}

func (s *Server) handleHome(w http.ResponseWriter, _ *http.Request) {
	writeText(w, http.StatusOK, fmt.Sprintf("PDV Service (version: %s)\n", s.version))
}

func (s *Server) handleHealthcheck(w http.ResponseWriter, _ *http.Request) {
	writeText(w, http.StatusOK, "OK")
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	n, err := s.store.Clear(r.Context())
	if err != nil {
		s.logger.Errorf("Clear failed after %d state files: %v", n, err)
		writeText(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeText(w, http.StatusOK, fmt.Sprintf("OK (Cleared %d state files)", n))
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	outcome := r.PathValue("result")

	err := s.submitter.Submit(r.Context(), name, outcome)
	switch {
	case err == nil:
		writeText(w, http.StatusOK, "OK")
	case errors.Is(err, result.ErrInvalidName), errors.Is(err, result.ErrInvalidInput):
		writeText(w, http.StatusBadRequest, err.Error())
	default:
		s.logger.Errorf("Submit %s=%s failed: %v", name, outcome, err)
		writeText(w, http.StatusInternalServerError, err.Error())
	}
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	rep := s.reporter.Report(r.Context())

	status := http.StatusOK
	if rep.Err != nil {
		s.logger.Errorf("Report scan aborted after %d records: %v", rep.Count, rep.Err)
		status = http.StatusInternalServerError
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(NewReportResponse(rep)); err != nil {
		s.logger.Errorf("Failed to encode report: %v", err)
	}
}
