package http

import (
	"encoding/csv"
	"net/http"
	"strings"

	"github.com/pattern-classroom/quizsvc/internal/analytics"
	"github.com/pattern-classroom/quizsvc/internal/ledger"
)

// GET /quiz/analytics/attempts?format=json|csv&mq_id=&student_id=&session_id=
// Both formats are rendered from the authoritative JSONL rows, so they
// always agree row for row.
func ExportAttemptsHandler(log ledger.Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		format := strings.ToLower(r.URL.Query().Get("format"))
		if format == "" {
			format = "json"
		}
		if format != "json" && format != "csv" {
			http.Error(w, "format must be json or csv", http.StatusBadRequest)
			return
		}

		records, err := log.ReadAll(r.Context(), ledger.Filter{
			MQID:      strings.TrimSpace(r.URL.Query().Get("mq_id")),
			StudentID: strings.TrimSpace(r.URL.Query().Get("student_id")),
			SessionID: strings.TrimSpace(r.URL.Query().Get("session_id")),
		})
		if err != nil {
			http.Error(w, "read ledger: "+err.Error(), http.StatusInternalServerError)
			return
		}

		if format == "csv" {
			w.Header().Set("Content-Type", "text/csv; charset=utf-8")
			w.Header().Set("Content-Disposition", `attachment; filename="attempts.csv"`)
			if err := ledger.WriteCSV(csv.NewWriter(w), records); err != nil {
				// headers are gone; nothing better to do than log-by-status
				http.Error(w, "write csv: "+err.Error(), http.StatusInternalServerError)
			}
			return
		}
		if records == nil {
			records = []ledger.AttemptRecord{}
		}
		writeJSON(w, records)
	}
}

// GET /quiz/analytics/summary?mq_id=
// Per-LO rollup for the admin dashboard, weakest outcomes first.
func AnalyticsSummaryHandler(log ledger.Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := log.ReadAll(r.Context(), ledger.Filter{
			MQID: strings.TrimSpace(r.URL.Query().Get("mq_id")),
		})
		if err != nil {
			http.Error(w, "read ledger: "+err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, analytics.Aggregate(records))
	}
}
