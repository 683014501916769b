package server

import (
	"fmt"
	"net/http"
	"strings"
)

// handlePrometheus writes the current aggregate report as Prometheus gauges.
// Each scrape runs a fresh scan.
func (s *Server) handlePrometheus(w http.ResponseWriter, r *http.Request) {
	rep := s.reporter.Report(r.Context())

	w.Header().Set("Content-Type", "text/plain")

	pass := 0
	if !rep.Failed() && rep.Err == nil {
		pass = 1
	}
	scanErr := 0
	if rep.Err != nil {
		scanErr = 1
	}

	w.Write([]byte("# HELP pdv_report_pass Whether the aggregate verdict is pass (1=pass, 0=fail).\n"))
	w.Write([]byte("# TYPE pdv_report_pass gauge\n"))
	w.Write(fmt.Appendf([]byte{}, "pdv_report_pass %d\n", pass))

	w.Write([]byte("# HELP pdv_report_scanned Records examined by the scan.\n"))
	w.Write([]byte("# TYPE pdv_report_scanned gauge\n"))
	w.Write(fmt.Appendf([]byte{}, "pdv_report_scanned %d\n", rep.Count))

	w.Write([]byte("# HELP pdv_report_error Whether the scan hit a corrupt or unrecognized record.\n"))
	w.Write([]byte("# TYPE pdv_report_error gauge\n"))
	w.Write(fmt.Appendf([]byte{}, "pdv_report_error %d\n", scanErr))

	if rep.FailingName != "" {
		w.Write([]byte("# HELP pdv_report_failing The check that ended the scan.\n"))
		w.Write([]byte("# TYPE pdv_report_failing gauge\n"))
		w.Write(fmt.Appendf([]byte{},
			"pdv_report_failing{name=\"%s\"} 1\n",
			sanitizePrometheusLabel(rep.FailingName),
		))
	}
}

// sanitizePrometheusLabel escapes backslash, double-quote, and newline
// characters in a Prometheus label value per the exposition format spec.
func sanitizePrometheusLabel(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	return s
}
