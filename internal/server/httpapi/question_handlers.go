package httpapi

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/krabbypatty1031-blip/JustAsk/internal/common"
	"github.com/krabbypatty1031-blip/JustAsk/internal/server/auth"
	"github.com/krabbypatty1031-blip/JustAsk/internal/server/metrics"
)

type questionRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type answerRequest struct {
	Content string `json:"content"`
}

func (a *API) listQuestions(w http.ResponseWriter, r *http.Request) {
	list, err := a.questions.List(r.Context())
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeOK(w, body{"questions": list})
}

func (a *API) viewQuestion(w http.ResponseWriter, r *http.Request) {
	q, err := a.questions.View(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeOK(w, body{"question": q})
}

func (a *API) createQuestion(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())

	var req questionRequest
	if err := decode(w, r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}

	q, err := a.questions.Create(r.Context(), id.Author(), req.Title, req.Content)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeOK(w, body{"message": "question posted", "questionId": q.ID})
}

func (a *API) addAnswer(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())

	var req answerRequest
	if err := decode(w, r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}

	ans, err := a.questions.AddAnswer(r.Context(), id.Author(), mux.Vars(r)["id"], req.Content)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeOK(w, body{"message": "answer submitted", "answer": ans})
}

func (a *API) thankAnswer(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())
	vars := mux.Vars(r)

	err := a.questions.Thank(r.Context(), vars["id"], vars["answerId"], id.ID)
	a.metrics.ThanksTotal.WithLabelValues(thankOutcome(err)).Inc()
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeOK(w, nil)
}

func thankOutcome(err error) string {
	switch {
	case err == nil:
		return metrics.ThankRecorded
	case errors.Is(err, common.ErrConflict):
		return metrics.ThankDuplicate
	case errors.Is(err, common.ErrNotFound):
		return metrics.ThankNotFound
	default:
		return metrics.ThankError
	}
}
