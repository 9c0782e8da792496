package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/yanuaroby/familyfin/internal/core"
)

type templateRequest struct {
	WalletID   string `json:"walletId"`
	DebtID     string `json:"debtId,omitempty"`
	CategoryID string `json:"categoryId"`
	Type       string `json:"type"`
	Amount     string `json:"amount"`
	Note       string `json:"note,omitempty"`
	Frequency  string `json:"frequency"`
	StartDate  string `json:"startDate"`
	Enabled    *bool  `json:"isEnabled,omitempty"`
}

type templateResponse struct {
	ID         string `json:"id"`
	WalletID   string `json:"walletId"`
	DebtID     string `json:"debtId,omitempty"`
	CategoryID string `json:"categoryId"`
	Type       string `json:"type"`
	Amount     string `json:"amount"`
	Note       string `json:"note,omitempty"`
	Frequency  string `json:"frequency"`
	StartDate  string `json:"startDate"`
	NextRun    string `json:"nextRun"`
	LastRun    string `json:"lastRun,omitempty"`
	Enabled    bool   `json:"isEnabled"`
}

func toTemplateResponse(t core.RecurringTemplate) templateResponse {
	return templateResponse{
		ID:         t.ID,
		WalletID:   t.WalletID,
		DebtID:     t.DebtID,
		CategoryID: t.CategoryID,
		Type:       string(t.Type),
		Amount:     t.Amount.String(),
		Note:       t.Note,
		Frequency:  string(t.Frequency),
		StartDate:  t.StartDate.String(),
		NextRun:    t.NextRun.String(),
		LastRun:    t.LastRun.String(),
		Enabled:    t.Enabled,
	}
}

func (s *Server) handleCreateTemplate(w http.ResponseWriter, r *http.Request) {
	var req templateRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	amount, err := core.ParseAmount(req.Amount)
	if err != nil {
		writeError(w, r, err)
		return
	}
	start, err := core.ParseDate(req.StartDate)
	if err != nil {
		writeError(w, r, err)
		return
	}

	t, err := s.catalog.CreateTemplate(r.Context(), core.RecurringTemplate{
		UserID:     userIDFrom(r.Context()),
		WalletID:   req.WalletID,
		DebtID:     req.DebtID,
		CategoryID: req.CategoryID,
		Type:       core.TransactionType(req.Type),
		Amount:     amount,
		Note:       req.Note,
		Frequency:  core.Frequency(req.Frequency),
		StartDate:  start,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTemplateResponse(t))
}

func (s *Server) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := s.catalog.ListTemplates(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]templateResponse, 0, len(templates))
	for _, t := range templates {
		out = append(out, toTemplateResponse(t))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetTemplate(w http.ResponseWriter, r *http.Request) {
	t, err := s.catalog.GetTemplate(r.Context(), userIDFrom(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTemplateResponse(t))
}

func (s *Server) handleUpdateTemplate(w http.ResponseWriter, r *http.Request) {
	var req templateRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	amount, err := core.ParseAmount(req.Amount)
	if err != nil {
		writeError(w, r, err)
		return
	}

	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}

	err = s.catalog.UpdateTemplate(r.Context(), userIDFrom(r.Context()), core.RecurringTemplate{
		ID:         chi.URLParam(r, "id"),
		CategoryID: req.CategoryID,
		Amount:     amount,
		Note:       req.Note,
		Frequency:  core.Frequency(req.Frequency),
		Enabled:    enabled,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSetTemplateEnabled(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Enabled bool `json:"isEnabled"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	err := s.catalog.SetTemplateEnabled(r.Context(), userIDFrom(r.Context()), chi.URLParam(r, "id"), req.Enabled)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteTemplate(w http.ResponseWriter, r *http.Request) {
	err := s.catalog.DeleteTemplate(r.Context(), userIDFrom(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleProcessDue triggers one scheduler pass on demand. The recurring
// worker runs the same pass on its interval; the endpoint exists for
// catch-up after downtime.
func (s *Server) handleProcessDue(w http.ResponseWriter, r *http.Request) {
	processed, err := s.scheduler.ProcessDue(r.Context(), time.Now())
	if err != nil {
		writeError(w, r, err)
		return
	}

	// A pass fires templates for any user, not just the caller.
	s.summaryCache.Flush()
	writeJSON(w, http.StatusOK, map[string]int{"processed": processed})
}
