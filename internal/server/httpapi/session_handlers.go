package httpapi

import (
	"net/http"

	"github.com/krabbypatty1031-blip/JustAsk/internal/server/auth"
	"github.com/krabbypatty1031-blip/JustAsk/internal/server/models"
	"github.com/krabbypatty1031-blip/JustAsk/internal/server/services"
)

// sessionRegister creates an account for the web client without logging in.
func (a *API) sessionRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decode(w, r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}

	reg := services.Registration{UserName: req.UserName, Phone: req.Phone, Password: req.Password}
	if err := services.ValidateRegistration(reg); err != nil {
		a.writeError(w, r, err)
		return
	}
	if err := services.CheckConfirmation(req.Password, req.ConfirmPassword); err != nil {
		a.writeError(w, r, err)
		return
	}

	user, err := a.users.Register(r.Context(), reg)
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	a.log.Info(r.Context(), "user registered", "user_id", user.ID, "channel", auth.SourceSession.String())
	writeOK(w, body{"message": "registration successful, you can now log in"})
}

func (a *API) sessionLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decode(w, r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}

	user, err := a.users.Authenticate(r.Context(), req.UserName, req.Phone, req.Password)
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	su := models.SessionUser{ID: user.ID, UserName: user.UserName, Phone: user.Phone}
	id, err := a.sessions.Create(r.Context(), su)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	// Replace any session the browser already had.
	if old := a.sessions.SessionID(r); old != "" {
		if err := a.sessions.Destroy(r.Context(), old); err != nil {
			a.log.Warn(r.Context(), "destroy previous session", "error", err)
		}
	}
	a.sessions.SetCookie(w, id)

	a.metrics.LoginsTotal.WithLabelValues(auth.SourceSession.String()).Inc()
	writeOK(w, body{"message": "login successful", "user": su})
}

func (a *API) sessionLogout(w http.ResponseWriter, r *http.Request) {
	if id := a.sessions.SessionID(r); id != "" {
		if err := a.sessions.Destroy(r.Context(), id); err != nil {
			a.log.Error(r.Context(), "destroy session", "error", err)
			writeFailure(w, http.StatusInternalServerError, "logout failed")
			return
		}
	}
	a.sessions.ClearCookie(w)
	writeOK(w, body{"message": "logged out"})
}
