package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yanuaroby/familyfin/internal/core"
)

// ---- savings goals ----

type goalRequest struct {
	Name         string `json:"name"`
	TargetAmount string `json:"targetAmount"`
	Deadline     string `json:"deadline,omitempty"`
	Color        string `json:"color,omitempty"`
	Icon         string `json:"icon,omitempty"`
	Notes        string `json:"notes,omitempty"`
}

type goalResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	TargetAmount  string `json:"targetAmount"`
	CurrentAmount string `json:"currentAmount"`
	Deadline      string `json:"deadline,omitempty"`
	Color         string `json:"color,omitempty"`
	Icon          string `json:"icon,omitempty"`
	Notes         string `json:"notes,omitempty"`
	IsCompleted   bool   `json:"isCompleted"`
}

func toGoalResponse(g core.SavingsGoal) goalResponse {
	resp := goalResponse{
		ID:            g.ID,
		Name:          g.Name,
		TargetAmount:  g.TargetAmount.String(),
		CurrentAmount: g.CurrentAmount.String(),
		Color:         g.Color,
		Icon:          g.Icon,
		Notes:         g.Notes,
		IsCompleted:   g.Completed,
	}
	if !g.Deadline.IsZero() {
		resp.Deadline = g.Deadline.String()
	}
	return resp
}

func goalFromRequest(r *http.Request, req goalRequest) (core.SavingsGoal, error) {
	g := core.SavingsGoal{
		UserID: userIDFrom(r.Context()),
		Name:   req.Name,
		Color:  req.Color,
		Icon:   req.Icon,
		Notes:  req.Notes,
	}
	var err error
	if g.TargetAmount, err = core.ParseAmount(req.TargetAmount); err != nil {
		return core.SavingsGoal{}, err
	}
	if req.Deadline != "" {
		if g.Deadline, err = core.ParseDate(req.Deadline); err != nil {
			return core.SavingsGoal{}, err
		}
	}
	return g, nil
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	var req goalRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	g, err := goalFromRequest(r, req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	created, err := s.planning.CreateGoal(r.Context(), g)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toGoalResponse(created))
}

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	goals, err := s.planning.ListGoals(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]goalResponse, 0, len(goals))
	for _, g := range goals {
		out = append(out, toGoalResponse(g))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetGoal(w http.ResponseWriter, r *http.Request) {
	g, err := s.planning.GetGoal(r.Context(), userIDFrom(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toGoalResponse(g))
}

func (s *Server) handleUpdateGoal(w http.ResponseWriter, r *http.Request) {
	var req goalRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	g, err := goalFromRequest(r, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	g.ID = chi.URLParam(r, "id")

	if err := s.planning.UpdateGoal(r.Context(), userIDFrom(r.Context()), g); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAddGoalContribution(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount string `json:"amount"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	amount, err := core.ParseAmount(req.Amount)
	if err != nil {
		writeError(w, r, err)
		return
	}

	g, err := s.planning.AddContribution(r.Context(), userIDFrom(r.Context()), chi.URLParam(r, "id"), amount)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toGoalResponse(g))
}

func (s *Server) handleResetGoal(w http.ResponseWriter, r *http.Request) {
	if err := s.planning.ResetGoal(r.Context(), userIDFrom(r.Context()), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	if err := s.planning.DeleteGoal(r.Context(), userIDFrom(r.Context()), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- budgets ----

type budgetRequest struct {
	CategoryID     string `json:"categoryId"`
	MonthlyLimit   string `json:"monthlyLimit"`
	AlertThreshold int    `json:"alertThreshold,omitempty"`
	Period         string `json:"period,omitempty"`
}

type budgetResponse struct {
	ID             string `json:"id"`
	CategoryID     string `json:"categoryId"`
	MonthlyLimit   string `json:"monthlyLimit"`
	AlertThreshold int    `json:"alertThreshold"`
	Period         string `json:"period"`
}

type budgetStatusResponse struct {
	budgetResponse
	Spent              string `json:"spent"`
	Percentage         string `json:"percentage"`
	Remaining          string `json:"remaining"`
	IsOverBudget       bool   `json:"isOverBudget"`
	IsApproachingLimit bool   `json:"isApproachingLimit"`
}

func toBudgetResponse(b core.Budget) budgetResponse {
	return budgetResponse{
		ID:             b.ID,
		CategoryID:     b.CategoryID,
		MonthlyLimit:   b.MonthlyLimit.String(),
		AlertThreshold: b.AlertThreshold,
		Period:         b.Period,
	}
}

func (s *Server) handleCreateBudget(w http.ResponseWriter, r *http.Request) {
	var req budgetRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	limit, err := core.ParseAmount(req.MonthlyLimit)
	if err != nil {
		writeError(w, r, err)
		return
	}

	created, err := s.planning.CreateBudget(r.Context(), core.Budget{
		UserID:         userIDFrom(r.Context()),
		CategoryID:     req.CategoryID,
		MonthlyLimit:   limit,
		AlertThreshold: req.AlertThreshold,
		Period:         req.Period,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toBudgetResponse(created))
}

// handleListBudgets returns the period's budgets joined with actual spending.
// The period query parameter defaults to the current month.
func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	period := r.URL.Query().Get("period")
	statuses, err := s.planning.ListBudgetStatus(r.Context(), userIDFrom(r.Context()), period)
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]budgetStatusResponse, 0, len(statuses))
	for _, st := range statuses {
		out = append(out, budgetStatusResponse{
			budgetResponse:     toBudgetResponse(st.Budget),
			Spent:              st.Spent.String(),
			Percentage:         st.Percentage.StringFixed(2),
			Remaining:          st.Remaining.String(),
			IsOverBudget:       st.OverBudget,
			IsApproachingLimit: st.ApproachingLimit,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleUpdateBudget(w http.ResponseWriter, r *http.Request) {
	var req budgetRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	limit, err := core.ParseAmount(req.MonthlyLimit)
	if err != nil {
		writeError(w, r, err)
		return
	}

	err = s.planning.UpdateBudget(r.Context(), userIDFrom(r.Context()), core.Budget{
		ID:             chi.URLParam(r, "id"),
		MonthlyLimit:   limit,
		AlertThreshold: req.AlertThreshold,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request) {
	if err := s.planning.DeleteBudget(r.Context(), userIDFrom(r.Context()), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
