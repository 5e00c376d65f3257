package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/pattern-classroom/quizsvc/internal/quiz"
)

// GET /quiz/mqs
func ListMQsHandler(svc *quiz.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, svc.Catalog().List())
	}
}

// GET /quiz/mq/{mqID}?shuffle=bool&seed=int
func GetMQHandler(svc *quiz.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mqID := strings.TrimSpace(chi.URLParam(r, "mqID"))
		if mqID == "" {
			http.Error(w, "mqID required", http.StatusBadRequest)
			return
		}

		shuffled := true
		if v := r.URL.Query().Get("shuffle"); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				http.Error(w, "shuffle must be a bool", http.StatusBadRequest)
				return
			}
			shuffled = b
		}
		var seed *int64
		if v := r.URL.Query().Get("seed"); v != "" {
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				http.Error(w, "seed must be an integer", http.StatusBadRequest)
				return
			}
			seed = &n
		}

		mq, err := svc.Fetch(mqID, shuffled, seed)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, mq)
	}
}

// POST /quiz/submit
func SubmitHandler(svc *quiz.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload quiz.SubmitPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			http.Error(w, "bad json: "+err.Error(), http.StatusBadRequest)
			return
		}
		res, err := svc.Submit(r.Context(), payload)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, res)
	}
}

// GET /quiz/next?last_mq_id=&recent_micro_lessons=a&recent_micro_lessons=b
func NextMQHandler(svc *quiz.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		last := strings.TrimSpace(r.URL.Query().Get("last_mq_id"))
		lessons := r.URL.Query()["recent_micro_lessons"]
		next, err := svc.Catalog().Next(last, lessons)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, map[string]string{"mq_id": next})
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// writeErr maps pipeline errors onto the HTTP taxonomy: unknown ids 404,
// validation 400, everything else (ledger, counter) 500.
func writeErr(w http.ResponseWriter, err error) {
	var ve *quiz.ValidationError
	switch {
	case errors.Is(err, quiz.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.As(err, &ve):
		http.Error(w, ve.Msg, http.StatusBadRequest)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
