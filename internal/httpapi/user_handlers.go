package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/medbridge/insurance-api/internal/domain/user"
	"github.com/medbridge/insurance-api/internal/httputil"
	"github.com/medbridge/insurance-api/internal/services/users"
)

func (h *Handler) handleListUsers(w http.ResponseWriter, r *http.Request) {
	list, err := h.users.List(r.Context())
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"users": list,
		"count": len(list),
	})
}

func (h *Handler) handleGetUser(w http.ResponseWriter, r *http.Request) {
	c, err := caller(r)
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}

	u, err := h.users.Get(r.Context(), c, mux.Vars(r)["id"])
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"user": u})
}

func (h *Handler) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	c, err := caller(r)
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}

	var req updateUserRequest
	if err := decode(r, &req); err != nil {
		httputil.WriteServiceError(w, err)
		return
	}

	in := users.UpdateInput{
		FullName:    req.FullName,
		Phone:       req.Phone,
		Address:     req.Address,
		DateOfBirth: req.DateOfBirth,
		Password:    req.Password,
	}
	if req.Role != nil {
		role := user.Role(*req.Role)
		in.Role = &role
	}

	u, err := h.users.Update(r.Context(), c, mux.Vars(r)["id"], in)
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"message": "user updated successfully",
		"user":    u,
	})
}

func (h *Handler) handleActivateUser(w http.ResponseWriter, r *http.Request) {
	h.setUserActive(w, r, true)
}

func (h *Handler) handleDeactivateUser(w http.ResponseWriter, r *http.Request) {
	h.setUserActive(w, r, false)
}

func (h *Handler) setUserActive(w http.ResponseWriter, r *http.Request, active bool) {
	u, err := h.users.SetActive(r.Context(), mux.Vars(r)["id"], active)
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}

	msg := "user deactivated successfully"
	if active {
		msg = "user activated successfully"
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"message": msg,
		"user":    u,
	})
}
