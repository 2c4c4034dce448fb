// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"

	"relato/internal/middleware"
	"relato/internal/render"
	"relato/internal/session"
	"relato/internal/store"
)

// Auth handles login, logout, and TOTP enrollment and verification.
type Auth struct {
	users    *store.UserStore
	sessions *session.Store
	siteName string
}

// NewAuth creates the auth handler group.
func NewAuth(users *store.UserStore, sessions *session.Store, siteName string) *Auth {
	return &Auth{users: users, sessions: sessions, siteName: siteName}
}

// Login checks email and password and opens a session. Accounts with TOTP
// enabled get a session that still owes a code; the response says so.
// Wrong email and wrong password answer identically.
func (h *Auth) Login(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.PostFormValue("email"))
	password := r.PostFormValue("password")

	user, err := h.users.FindByEmail(email)
	if err != nil {
		render.InternalError(w, err)
		return
	}
	if user == nil || !h.users.CheckPassword(user, password) {
		render.Error(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	data := &session.Data{
		UserID:    user.ID,
		Email:     user.Email,
		Name:      user.Name,
		IsAdmin:   user.IsAdmin,
		TwoFADone: !user.TOTPEnabled,
	}
	if _, err := h.sessions.Create(r.Context(), w, data); err != nil {
		render.InternalError(w, err)
		return
	}

	render.JSON(w, http.StatusOK, map[string]any{
		"two_fa_required": user.TOTPEnabled,
	})
}

// Logout destroys the session and clears the cookie.
func (h *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Destroy(r.Context(), w, r); err != nil {
		render.InternalError(w, err)
		return
	}
	render.JSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

// TwoFASetup generates a TOTP secret for the logged-in account and returns
// the otpauth URL together with a QR code PNG, base64-encoded, for the
// authenticator app. Enrollment completes on the first verified code.
func (h *Auth) TwoFASetup(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      h.siteName,
		AccountName: sess.Email,
	})
	if err != nil {
		render.InternalError(w, err)
		return
	}

	if err := h.users.SetTOTPSecret(sess.UserID, key.Secret()); err != nil {
		render.InternalError(w, err)
		return
	}

	png, err := qrcode.Encode(key.URL(), qrcode.Medium, 256)
	if err != nil {
		render.InternalError(w, err)
		return
	}

	render.JSON(w, http.StatusOK, map[string]string{
		"secret": key.Secret(),
		"url":    key.URL(),
		"qr_png": base64.StdEncoding.EncodeToString(png),
	})
}

// TwoFAVerify checks a TOTP code against the account's secret. On the
// first successful check it finishes enrollment; on every successful check
// it marks the session complete.
func (h *Auth) TwoFAVerify(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	code := strings.TrimSpace(r.PostFormValue("code"))

	user, err := h.users.FindByID(sess.UserID)
	if err != nil {
		render.InternalError(w, err)
		return
	}
	if user == nil || user.TOTPSecret == nil {
		render.Error(w, http.StatusBadRequest, "no 2FA enrollment in progress")
		return
	}

	if !totp.Validate(code, *user.TOTPSecret) {
		render.Error(w, http.StatusUnauthorized, "invalid code")
		return
	}

	if !user.TOTPEnabled {
		if err := h.users.EnableTOTP(user.ID); err != nil {
			render.InternalError(w, err)
			return
		}
	}

	sess.TwoFADone = true
	if err := h.sessions.Update(r.Context(), r, sess); err != nil {
		render.InternalError(w, err)
		return
	}

	render.JSON(w, http.StatusOK, map[string]string{"status": "verified"})
}
