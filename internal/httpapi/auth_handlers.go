package httpapi

import (
	"net/http"

	"github.com/medbridge/insurance-api/internal/domain/user"
	"github.com/medbridge/insurance-api/internal/httputil"
	"github.com/medbridge/insurance-api/internal/services/auth"
)

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decode(r, &req); err != nil {
		httputil.WriteServiceError(w, err)
		return
	}

	u, err := h.auth.Register(r.Context(), auth.RegisterInput{
		Email:       req.Email,
		Password:    req.Password,
		FullName:    req.FullName,
		Role:        user.Role(req.Role),
		Phone:       req.Phone,
		Address:     req.Address,
		DateOfBirth: req.DateOfBirth,
	})
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, map[string]any{
		"message": "user registered successfully",
		"user":    u,
	})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decode(r, &req); err != nil {
		httputil.WriteServiceError(w, err)
		return
	}

	u, token, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"message": "login successful",
		"token":   token,
		"user":    u,
	})
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	u, err := caller(r)
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"user": u})
}
