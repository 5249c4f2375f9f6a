// Package httpapi is the JSON HTTP surface of the server: token auth for
// mobile clients, cookie sessions for the web client, and the question board.
package httpapi

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/krabbypatty1031-blip/JustAsk/internal/logging"
	"github.com/krabbypatty1031-blip/JustAsk/internal/server/auth"
	"github.com/krabbypatty1031-blip/JustAsk/internal/server/metrics"
	"github.com/krabbypatty1031-blip/JustAsk/internal/server/models"
	"github.com/krabbypatty1031-blip/JustAsk/internal/server/services"
)

// SessionManager is the server-side session store used by the web routes.
type SessionManager interface {
	auth.SessionReader
	Create(ctx context.Context, user models.SessionUser) (string, error)
	Destroy(ctx context.Context, id string) error
	SessionID(r *http.Request) string
	SetCookie(w http.ResponseWriter, id string)
	ClearCookie(w http.ResponseWriter)
}

// Deps are the collaborators of the API.
type Deps struct {
	Users         *services.UserService
	Questions     *services.QuestionService
	Sessions      SessionManager
	Gate          *auth.Gate
	Metrics       *metrics.Metrics
	Logger        logging.Logger
	AllowedOrigin string
}

type API struct {
	users         *services.UserService
	questions     *services.QuestionService
	sessions      SessionManager
	gate          *auth.Gate
	metrics       *metrics.Metrics
	log           logging.Logger
	allowedOrigin string
}

func New(d Deps) *API {
	log := d.Logger
	if log == nil {
		log = logging.Nop{}
	}
	m := d.Metrics
	if m == nil {
		m = metrics.New()
	}
	return &API{
		users:         d.Users,
		questions:     d.Questions,
		sessions:      d.Sessions,
		gate:          d.Gate,
		metrics:       m,
		log:           log.With("module", "httpapi"),
		allowedOrigin: d.AllowedOrigin,
	}
}

// Handler returns the fully wrapped router.
func (a *API) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(a.instrument)

	api := r.PathPrefix("/api/auth").Subrouter()
	api.HandleFunc("/register", a.tokenRegister).Methods(http.MethodPost)
	api.HandleFunc("/login", a.tokenLogin).Methods(http.MethodPost)
	api.HandleFunc("/refresh", a.tokenRefresh).Methods(http.MethodPost)
	api.HandleFunc("/logout", a.tokenLogout).Methods(http.MethodPost)

	web := r.PathPrefix("/users").Subrouter()
	web.HandleFunc("/register", a.sessionRegister).Methods(http.MethodPost)
	web.HandleFunc("/login", a.sessionLogin).Methods(http.MethodPost)
	web.HandleFunc("/logout", a.sessionLogout).Methods(http.MethodPost, http.MethodGet)

	q := r.PathPrefix("/questions").Subrouter()
	q.HandleFunc("", a.listQuestions).Methods(http.MethodGet)
	q.Handle("", a.requireIdentity(a.createQuestion)).Methods(http.MethodPost)
	q.HandleFunc("/{id}", a.viewQuestion).Methods(http.MethodGet)
	q.Handle("/{id}/answers", a.requireIdentity(a.addAnswer)).Methods(http.MethodPost)
	q.Handle("/{id}/answers/{answerId}/thank", a.requireIdentity(a.thankAnswer)).Methods(http.MethodPost)

	r.HandleFunc("/api/status", a.status).Methods(http.MethodGet)
	r.Handle("/metrics", a.metrics.Handler()).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeFailure(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeFailure(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	return a.recovery(a.logging(a.cors(r)))
}

func (a *API) status(w http.ResponseWriter, r *http.Request) {
	var user any
	if a.sessions != nil {
		u, err := a.sessions.UserFromRequest(r)
		if err != nil {
			a.log.Warn(r.Context(), "status: session lookup failed", "error", err)
		} else if u != nil {
			user = u
		}
	}
	writeOK(w, body{"message": "backend API is working", "user": user})
}
