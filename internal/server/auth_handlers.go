package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"wingman/internal/auth"
	"wingman/internal/store"
)

const maxBodyBytes = 1 << 16

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if raw, ok := readAuthCookie(r); ok {
		if claims, err := s.tokens.ParseSession(raw); err == nil {
			s.logger.Info("user logged out", zap.String("user_id", claims.UserID))
		}
	}
	clearAuthCookie(w, s.cfg.Production())
	writeSuccess(w, "Logged out successfully", s.now())
}

func (s *Server) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token    string `json:"token"`
		Password string `json:"password"`
	}
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", s.now())
		return
	}
	if req.Token == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Token and password are required", s.now())
		return
	}
	if err := auth.ValidatePasswordStrength(req.Password); err != nil {
		writeError(w, http.StatusBadRequest, capitalize(err.Error()), s.now())
		return
	}

	claims, err := s.tokens.ParseReset(req.Token)
	if errors.Is(err, auth.ErrWrongTokenType) {
		writeError(w, http.StatusUnauthorized, "Invalid token type", s.now())
		return
	}
	if err != nil {
		s.logger.Debug("reset token rejected", zap.Error(err))
		writeError(w, http.StatusUnauthorized, "Invalid or expired token", s.now())
		return
	}

	hash, err := auth.HashPassword(req.Password, s.cfg.BcryptCost)
	if err != nil {
		s.logger.Error("hash password", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to reset password", s.now())
		return
	}

	n, err := s.store.UpdatePasswordHash(r.Context(), claims.UserID, hash)
	if err != nil {
		s.logger.Error("update password", zap.String("user_id", claims.UserID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to reset password", s.now())
		return
	}
	if n == 0 {
		s.logger.Warn("reset token references unknown user", zap.String("user_id", claims.UserID))
		writeError(w, http.StatusInternalServerError, "Failed to reset password", s.now())
		return
	}

	s.logger.Info("password reset", zap.String("user_id", claims.UserID))
	writeSuccess(w, "Password has been reset successfully", s.now())
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", s.now())
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Email and password are required", s.now())
		return
	}

	u, err := s.store.GetUserByEmail(r.Context(), req.Email)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusUnauthorized, "Invalid credentials", s.now())
		return
	}
	if err != nil {
		s.logger.Error("lookup user", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Login failed", s.now())
		return
	}
	if !auth.VerifyPassword(req.Password, u.PasswordHash) {
		writeError(w, http.StatusUnauthorized, "Invalid credentials", s.now())
		return
	}

	tok, err := s.tokens.IssueSession(u.ID, s.cfg.SessionTTL)
	if err != nil {
		s.logger.Error("issue session token", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Login failed", s.now())
		return
	}
	setAuthCookie(w, tok, s.cfg.SessionTTL, s.cfg.Production())
	writeSuccess(w, "Logged in successfully", s.now())
}

type forgotPasswordResponse struct {
	envelope
	ResetToken string `json:"resetToken,omitempty"`
}

const forgotPasswordMessage = "If an account exists for that email, a reset link has been sent"

// handleForgotPassword issues reset tokens. The response is the same
// whether or not the email is registered.
func (s *Server) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", s.now())
		return
	}
	if strings.TrimSpace(req.Email) == "" {
		writeError(w, http.StatusBadRequest, "Email is required", s.now())
		return
	}

	resp := forgotPasswordResponse{envelope: envelope{
		Success:   true,
		Message:   forgotPasswordMessage,
		Timestamp: s.now().UTC().Format(timeFormat),
	}}

	u, err := s.store.GetUserByEmail(r.Context(), req.Email)
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeJSON(w, http.StatusOK, resp)
		return
	case err != nil:
		s.logger.Error("lookup user", zap.Error(err))
		writeJSON(w, http.StatusOK, resp)
		return
	}

	tok, err := s.tokens.IssueReset(u.ID, s.cfg.ResetTokenTTL)
	if err != nil {
		s.logger.Error("issue reset token", zap.Error(err))
		writeJSON(w, http.StatusOK, resp)
		return
	}
	s.logger.Info("reset token issued",
		zap.String("user_id", u.ID),
		zap.Duration("ttl", s.cfg.ResetTokenTTL))
	if !s.cfg.Production() {
		resp.ResetToken = tok
	}
	writeJSON(w, http.StatusOK, resp)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
