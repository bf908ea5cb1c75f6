package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/yieldcanary/yieldcanary/svc/mailer"
)

type sendEmailRequest struct {
	To         string            `json:"to"`
	TemplateID string            `json:"templateId"`
	Data       map[string]string `json:"data"`
}

func (h *handlers) sendEmail(w http.ResponseWriter, r *http.Request) {
	var req sendEmailRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON", "")
		return
	}
	req.To = strings.TrimSpace(req.To)
	req.TemplateID = strings.TrimSpace(req.TemplateID)
	if req.To == "" || req.TemplateID == "" {
		writeError(w, http.StatusBadRequest, "Missing 'to' or 'templateId'", "")
		return
	}

	err := h.mailer.Send(r.Context(), req.To, req.TemplateID, req.Data)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	case errors.Is(err, mailer.ErrTemplateNotFound):
		writeError(w, http.StatusNotFound, "Template not found", "")
	case errors.Is(err, mailer.ErrInvalidRecipient):
		writeError(w, http.StatusBadRequest, "Invalid recipient", "")
	default:
		writeError(w, http.StatusInternalServerError, "Failed to send email", "")
	}
}
