package api

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/yieldcanary/yieldcanary/pkg/jwt"
	"github.com/yieldcanary/yieldcanary/pkg/logger"
	"github.com/yieldcanary/yieldcanary/svc/entitlement"
	"github.com/yieldcanary/yieldcanary/svc/etf"
)

const (
	contentTypeCSV  = "text/csv; charset=utf-8"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type etfsResponse struct {
	Rows   []etf.Row        `json:"rows"`
	Stats  etf.Stats        `json:"stats"`
	IsPaid bool             `json:"isPaid"`
	Tier   entitlement.Tier `json:"tier"`
}

type entitlementResponse struct {
	Email             string           `json:"email"`
	IsPaid            bool             `json:"isPaid"`
	Tier              entitlement.Tier `json:"tier"`
	SubscriptionStart *string          `json:"subscriptionStart"`
	SubscriptionEnd   *string          `json:"subscriptionEnd"`
}

// queryFromRequest reads status, q, sort and dir. Direction defaults to
// descending; only "asc" flips it.
func queryFromRequest(r *http.Request) etf.Query {
	v := r.URL.Query()
	q := etf.Query{
		Status:  v.Get("status"),
		Search:  v.Get("q"),
		SortKey: strings.TrimSpace(v.Get("sort")),
		Desc:    !strings.EqualFold(v.Get("dir"), "asc"),
	}
	if q.SortKey == "" {
		q.SortKey = etf.DefaultSortKey
	}
	return q
}

// viewer returns the entitlement of the authenticated caller. Anonymous
// callers and unknown users are Free.
func (h *handlers) viewer(ctx context.Context) (entitlement.Entitlement, error) {
	email := jwt.EmailFromContext(ctx)
	if email == "" {
		return entitlement.Entitlement{Tier: entitlement.TierFree}, nil
	}
	e, err := h.entitlements.GetByEmail(ctx, email)
	if errors.Is(err, entitlement.ErrNotFound) {
		return entitlement.Free(email), nil
	}
	return e, err
}

func (h *handlers) listETFs(w http.ResponseWriter, r *http.Request) {
	q := queryFromRequest(r)
	if err := q.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "")
		return
	}

	ent, err := h.viewer(r.Context())
	if err != nil {
		// Fail closed: the caller still gets the free view.
		h.log.ErrorContext(r.Context(), "failed to load entitlement", logger.Error(err))
		ent = entitlement.Free(jwt.EmailFromContext(r.Context()))
	}

	rows, err := h.etfs.List(r.Context())
	if err != nil {
		h.log.ErrorContext(r.Context(), "failed to list etfs", logger.Error(err))
		writeError(w, http.StatusInternalServerError, "Internal server error", "")
		return
	}
	rows = etf.Apply(rows, q)

	paid := ent.Active()
	writeJSON(w, http.StatusOK, etfsResponse{
		Rows:   etf.Gate(rows, paid),
		Stats:  etf.ComputeStats(rows),
		IsPaid: paid,
		Tier:   ent.Tier,
	})
}

func (h *handlers) myEntitlement(w http.ResponseWriter, r *http.Request) {
	ent, err := h.viewer(r.Context())
	if err != nil {
		h.log.ErrorContext(r.Context(), "failed to load entitlement", logger.Error(err))
		writeError(w, http.StatusInternalServerError, "Internal server error", "")
		return
	}
	writeJSON(w, http.StatusOK, entitlementResponse{
		Email:             ent.Email,
		IsPaid:            ent.Active(),
		Tier:              ent.Tier,
		SubscriptionStart: formatDate(ent.SubscriptionStart),
		SubscriptionEnd:   formatDate(ent.SubscriptionEnd),
	})
}

func (h *handlers) exportCSV(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, "csv", contentTypeCSV, etf.WriteCSV)
}

func (h *handlers) exportXLSX(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, "xlsx", contentTypeXLSX, etf.WriteXLSX)
}

func (h *handlers) export(w http.ResponseWriter, r *http.Request, ext, contentType string, write func(io.Writer, []etf.ETF) error) {
	q := queryFromRequest(r)
	if err := q.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "")
		return
	}

	ent, err := h.viewer(r.Context())
	if err != nil {
		h.log.ErrorContext(r.Context(), "failed to load entitlement", logger.Error(err))
		writeError(w, http.StatusInternalServerError, "Internal server error", "")
		return
	}
	if !ent.Active() {
		writeError(w, http.StatusForbidden, "A paid subscription is required to export data", "upgrade_required")
		return
	}

	rows, err := h.etfs.List(r.Context())
	if err != nil {
		h.log.ErrorContext(r.Context(), "failed to list etfs", logger.Error(err))
		writeError(w, http.StatusInternalServerError, "Internal server error", "")
		return
	}

	var buf bytes.Buffer
	if err := write(&buf, etf.Apply(rows, q)); err != nil {
		h.log.ErrorContext(r.Context(), "failed to render export", logger.Error(err))
		writeError(w, http.StatusInternalServerError, "Internal server error", "")
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+etf.ExportFilename(h.now(), ext)+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.DateOnly)
	return &s
}
