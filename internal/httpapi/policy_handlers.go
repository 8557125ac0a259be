package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/medbridge/insurance-api/internal/domain/policy"
	"github.com/medbridge/insurance-api/internal/errors"
	"github.com/medbridge/insurance-api/internal/httputil"
	"github.com/medbridge/insurance-api/internal/services/policies"
)

func (h *Handler) handleCreatePolicy(w http.ResponseWriter, r *http.Request) {
	c, err := caller(r)
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}

	var req createPolicyRequest
	if err := decode(r, &req); err != nil {
		httputil.WriteServiceError(w, err)
		return
	}

	start, err := parseDate(req.StartDate)
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}

	p, err := h.policies.Create(r.Context(), c.ID, policies.CreateInput{
		UserID:         req.UserID,
		PolicyType:     req.PolicyType,
		CoverageAmount: req.CoverageAmount,
		PremiumAmount:  req.PremiumAmount,
		Status:         policy.Status(req.Status),
		StartDate:      start,
		EndDate:        end,

		PayerProgram:     policy.Program(req.PayerProgram),
		PayerName:        req.PayerName,
		PayerID:          req.PayerID,
		PlanName:         req.PlanName,
		DeductibleAmount: req.DeductibleAmount,
		OutOfPocketMax:   req.OutOfPocketMax,
		MedicarePart:     req.MedicarePart,
		MedicaidState:    req.MedicaidState,
	})
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, map[string]any{
		"message": "policy created successfully",
		"policy":  p,
	})
}

func (h *Handler) handleListPolicies(w http.ResponseWriter, r *http.Request) {
	c, err := caller(r)
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}

	query := r.URL.Query()
	list, err := h.policies.List(r.Context(), c, query.Get("user_id"), query.Get("payer_program"))
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"policies": list,
		"count":    len(list),
	})
}

func (h *Handler) handlePayerProgramStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.policies.ProgramStats(r.Context())
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"payer_programs": stats})
}

func (h *Handler) handleGetPolicy(w http.ResponseWriter, r *http.Request) {
	c, err := caller(r)
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}

	p, err := h.policies.Get(r.Context(), c, mux.Vars(r)["id"])
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"policy": p})
}

func (h *Handler) handleUpdatePolicy(w http.ResponseWriter, r *http.Request) {
	var req updatePolicyRequest
	if err := decode(r, &req); err != nil {
		httputil.WriteServiceError(w, err)
		return
	}

	in := policies.UpdateInput{
		PolicyType:     req.PolicyType,
		CoverageAmount: req.CoverageAmount,
		PremiumAmount:  req.PremiumAmount,

		PayerName:        req.PayerName,
		PayerID:          req.PayerID,
		PlanName:         req.PlanName,
		DeductibleAmount: req.DeductibleAmount,
		OutOfPocketMax:   req.OutOfPocketMax,
		MedicarePart:     req.MedicarePart,
		MedicaidState:    req.MedicaidState,
	}
	if req.Status != nil {
		st := policy.Status(*req.Status)
		in.Status = &st
	}
	if req.PayerProgram != nil {
		program := policy.Program(*req.PayerProgram)
		in.PayerProgram = &program
	}
	if req.StartDate != nil {
		t, err := parseDate(*req.StartDate)
		if err != nil {
			httputil.WriteServiceError(w, err)
			return
		}
		in.StartDate = &t
	}
	if req.EndDate != nil {
		t, err := parseDate(*req.EndDate)
		if err != nil {
			httputil.WriteServiceError(w, err)
			return
		}
		in.EndDate = &t
	}

	p, err := h.policies.Update(r.Context(), mux.Vars(r)["id"], in)
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"message": "policy updated successfully",
		"policy":  p,
	})
}

func (h *Handler) handleSetPolicyStatus(w http.ResponseWriter, r *http.Request) {
	var req setStatusRequest
	if err := decode(r, &req); err != nil {
		httputil.WriteServiceError(w, err)
		return
	}

	st := policy.Status(req.Status)
	if !st.Valid() {
		httputil.WriteServiceError(w, errors.Validationf("invalid status %q", req.Status))
		return
	}

	p, err := h.policies.SetStatus(r.Context(), mux.Vars(r)["id"], st)
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"message": "policy status updated successfully",
		"policy":  p,
	})
}
