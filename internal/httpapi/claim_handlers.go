package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/medbridge/insurance-api/internal/domain/claim"
	"github.com/medbridge/insurance-api/internal/errors"
	"github.com/medbridge/insurance-api/internal/httputil"
	"github.com/medbridge/insurance-api/internal/metrics"
	"github.com/medbridge/insurance-api/internal/services/claims"
)

func (h *Handler) handleSubmitClaim(w http.ResponseWriter, r *http.Request) {
	c, err := caller(r)
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}

	var req submitClaimRequest
	if err := decode(r, &req); err != nil {
		httputil.WriteServiceError(w, err)
		return
	}

	serviceDate, err := parseDate(req.ServiceDate)
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}

	cl, err := h.claims.Submit(r.Context(), c, claims.SubmitInput{
		PolicyID:         req.PolicyID,
		ClaimAmount:      req.ClaimAmount,
		Diagnosis:        req.Diagnosis,
		TreatmentDetails: req.TreatmentDetails,
		ProviderName:     req.ProviderName,
		ServiceDate:      serviceDate,
	})
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, map[string]any{
		"message": "claim submitted successfully",
		"claim":   cl,
	})
}

func (h *Handler) handleListClaims(w http.ResponseWriter, r *http.Request) {
	c, err := caller(r)
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}

	list, err := h.claims.List(r.Context(), c)
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"claims": list,
		"count":  len(list),
	})
}

func (h *Handler) handleGetClaim(w http.ResponseWriter, r *http.Request) {
	c, err := caller(r)
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}

	cl, err := h.claims.Get(r.Context(), c, mux.Vars(r)["id"])
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"claim": cl})
}

func (h *Handler) handleReviewClaim(w http.ResponseWriter, r *http.Request) {
	c, err := caller(r)
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}

	var req reviewClaimRequest
	if err := decode(r, &req); err != nil {
		httputil.WriteServiceError(w, err)
		return
	}

	cl, err := h.claims.Review(r.Context(), c, mux.Vars(r)["id"], claims.ReviewInput{
		Status:         claim.Status(req.Status),
		ApprovedAmount: req.ApprovedAmount,
		ReviewNotes:    req.ReviewNotes,
	})
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}
	metrics.RecordClaimDecision(string(cl.Status))

	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"message": "claim reviewed successfully",
		"claim":   cl,
	})
}

func (h *Handler) handleSetClaimStatus(w http.ResponseWriter, r *http.Request) {
	var req setStatusRequest
	if err := decode(r, &req); err != nil {
		httputil.WriteServiceError(w, err)
		return
	}

	st := claim.Status(req.Status)
	if !st.Valid() {
		httputil.WriteServiceError(w, errors.Validationf("invalid status %q", req.Status))
		return
	}

	cl, err := h.claims.SetStatus(r.Context(), mux.Vars(r)["id"], st)
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"message": "claim status updated successfully",
		"claim":   cl,
	})
}
