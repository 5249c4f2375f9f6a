package httpapi

import (
	"net/http"

	"github.com/krabbypatty1031-blip/JustAsk/internal/server/auth"
	"github.com/krabbypatty1031-blip/JustAsk/internal/server/models"
	"github.com/krabbypatty1031-blip/JustAsk/internal/server/services"
)

type credentialsRequest struct {
	UserName        string `json:"username"`
	Phone           string `json:"phone"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func authData(user *models.User, pair *services.TokenPair) body {
	return body{
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
		"user":         user,
	}
}

func (a *API) tokenRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decode(w, r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}

	user, err := a.users.Register(r.Context(), services.Registration{
		UserName: req.UserName,
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	pair, err := a.users.IssueTokens(user)
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	a.log.Info(r.Context(), "user registered", "user_id", user.ID, "channel", auth.SourceBearer.String())
	writeOK(w, body{"message": "registration successful", "data": authData(user, pair)})
}

func (a *API) tokenLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decode(w, r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}

	user, pair, err := a.users.Login(r.Context(), req.UserName, req.Phone, req.Password)
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	a.metrics.LoginsTotal.WithLabelValues(auth.SourceBearer.String()).Inc()
	writeOK(w, body{"message": "login successful", "data": authData(user, pair)})
}

func (a *API) tokenRefresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decode(w, r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}

	access, err := a.users.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	writeOK(w, body{"data": body{"accessToken": access}})
}

// tokenLogout always succeeds. A missing or unreadable body is treated as
// an empty token.
func (a *API) tokenLogout(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	_ = decode(w, r, &req)

	a.users.Logout(r.Context(), req.RefreshToken)
	writeOK(w, body{"message": "logged out"})
}
