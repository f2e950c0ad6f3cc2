package http

import (
	"net/http"
	"time"

	"github.com/aussiebroadwan/orgflow/internal/orgflow/domain"
	"github.com/aussiebroadwan/orgflow/internal/orgflow/service"
	"github.com/aussiebroadwan/orgflow/pkg/httpx"
	"github.com/aussiebroadwan/orgflow/pkg/orgsdk"
	"github.com/aussiebroadwan/orgflow/pkg/slogx"
)

type AccountHandler struct {
	AuthService *service.AuthService
}

func userInfo(u domain.User) orgsdk.UserInfo {
	return orgsdk.UserInfo{ID: u.ID, Username: u.Username, Email: u.Email, Role: u.Role}
}

// HandleSignup registers a new account.
//
//	@Summary		Sign up
//	@Description	Creates an account. The role defaults to member; admin signup is only open for the first account unless enabled in config.
//	@Tags			Accounts
//	@Accept			json
//	@Produce		json
//	@Param			request	body		orgsdk.SignupRequest	true	"Account details"
//	@Success		201		{object}	orgsdk.UserInfo
//	@Failure		400		{object}	orgsdk.ErrorResponse	"Invalid input"
//	@Failure		403		{object}	orgsdk.ErrorResponse	"Admin signup closed"
//	@Failure		409		{object}	orgsdk.ErrorResponse	"Email already registered"
//	@Failure		429		{object}	orgsdk.ErrorResponse	"Rate limit exceeded"
//	@Router			/signup [post].
func (h *AccountHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req orgsdk.SignupRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	u, err := h.AuthService.Signup(r.Context(), service.SignupRequest{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, userInfo(u))
}

// HandleLogin exchanges credentials for an access token.
//
//	@Summary		Log in
//	@Description	Verifies email and password and returns a bearer access token.
//	@Tags			Accounts
//	@Accept			json
//	@Produce		json
//	@Param			request	body		orgsdk.LoginRequest	true	"Credentials"
//	@Success		200		{object}	orgsdk.LoginResponse
//	@Failure		400		{object}	orgsdk.ErrorResponse	"Invalid input"
//	@Failure		401		{object}	orgsdk.ErrorResponse	"Invalid credentials"
//	@Failure		429		{object}	orgsdk.ErrorResponse	"Rate limit exceeded"
//	@Router			/login [post].
func (h *AccountHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req orgsdk.LoginRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	sess, err := h.AuthService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, orgsdk.LoginResponse{
		AccessToken: sess.AccessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int(time.Until(sess.ExpiresAt).Seconds()),
		User:        userInfo(sess.User),
	})
}

// HandleAdminOnly is the admin area probe.
//
//	@Summary		Admin area
//	@Description	Succeeds only for callers whose role may access the admin area.
//	@Tags			Accounts
//	@Produce		json
//	@Success		200	{object}	orgsdk.MessageResponse
//	@Failure		401	{object}	orgsdk.ErrorResponse	"Unauthorized - missing or invalid token"
//	@Failure		403	{object}	orgsdk.ErrorResponse	"Forbidden"
//	@Security		BearerAuth
//	@Router			/admin-only [get].
func (h *AccountHandler) HandleAdminOnly(w http.ResponseWriter, r *http.Request) {
	who := identity(r)
	slogx.FromContext(r.Context()).Debug("admin area accessed", "user_id", who.UserID)

	httpx.WriteJSON(w, http.StatusOK, orgsdk.MessageResponse{
		Message: "welcome, " + who.Username,
	})
}
