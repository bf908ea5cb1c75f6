package api

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/yieldcanary/yieldcanary/pkg/logger"
	"github.com/yieldcanary/yieldcanary/svc/billing"
	"github.com/yieldcanary/yieldcanary/svc/entitlement"
)

// Stripe caps event payloads well below this.
const maxWebhookBody = 1 << 16

func (h *handlers) createCheckoutSession(w http.ResponseWriter, r *http.Request) {
	var req billing.CheckoutRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON", "")
		return
	}

	session, err := h.billing.Checkout(r.Context(), req)
	if err != nil {
		h.checkoutError(w, r, req, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (h *handlers) checkoutError(w http.ResponseWriter, r *http.Request, req billing.CheckoutRequest, err error) {
	var perr *billing.ProviderError
	switch {
	case errors.Is(err, billing.ErrMissingFields):
		writeError(w, http.StatusBadRequest, "Missing required fields: priceId, email, successUrl, cancelUrl", "")
	case errors.Is(err, billing.ErrInvalidPrice):
		writeError(w, http.StatusBadRequest, "Invalid price ID or plan: "+strings.TrimSpace(req.PriceID), "")
	case errors.Is(err, entitlement.ErrInvalidEmail):
		writeError(w, http.StatusBadRequest, "Invalid email address", "")
	case errors.As(err, &perr):
		status := perr.Status
		if status < 400 || status > 599 {
			status = http.StatusInternalServerError
		}
		writeError(w, status, perr.Message, perr.Code)
	default:
		h.log.ErrorContext(r.Context(), "checkout session failed", logger.Error(err))
		writeError(w, http.StatusInternalServerError, "Internal server error", "")
	}
}

func (h *handlers) stripeWebhook(w http.ResponseWriter, r *http.Request) {
	sig := r.Header.Get("Stripe-Signature")
	if sig == "" {
		writeError(w, http.StatusBadRequest, "Missing stripe-signature header", "")
		return
	}

	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err != nil {
		h.log.WarnContext(r.Context(), "failed to read webhook body", logger.Error(err))
		writeError(w, http.StatusBadRequest, "Webhook error", "")
		return
	}

	if _, err := h.billing.HandleWebhook(r.Context(), payload, sig); err != nil {
		writeError(w, http.StatusBadRequest, "Webhook error", "")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"received": true})
}
