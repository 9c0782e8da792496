package http

import (
	"net/http"
	"time"

	"github.com/yanuaroby/familyfin/internal/core"
)

type summaryResponse struct {
	NetWorth       string `json:"netWorth"`
	TotalAssets    string `json:"totalAssets"`
	TotalDebts     string `json:"totalDebts"`
	MonthlyIncome  string `json:"monthlyIncome"`
	MonthlyExpense string `json:"monthlyExpense"`
	Cashflow       string `json:"cashflow"`
	BurnRate       string `json:"burnRate"`
	Streak         int    `json:"streak"`
	HealthScore    int    `json:"healthScore"`
	HealthGrade    string `json:"healthGrade"`
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r.Context())

	summary, ok := s.summaryCache.Get(userID)
	if !ok {
		var err error
		summary, err = s.dashboard.Summary(r.Context(), userID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		s.summaryCache.Set(userID, summary)
	}

	writeJSON(w, http.StatusOK, summaryResponse{
		NetWorth:       summary.NetWorth.String(),
		TotalAssets:    summary.TotalAssets.String(),
		TotalDebts:     summary.TotalDebts.String(),
		MonthlyIncome:  summary.MonthlyIncome.String(),
		MonthlyExpense: summary.MonthlyExpense.String(),
		Cashflow:       summary.Cashflow.String(),
		BurnRate:       summary.BurnRate.StringFixed(2),
		Streak:         summary.Streak,
		HealthScore:    summary.HealthScore,
		HealthGrade:    summary.HealthGrade,
	})
}

func (s *Server) handleStreak(w http.ResponseWriter, r *http.Request) {
	streak, err := s.dashboard.Streak(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"current":          streak.Current,
		"longest":          streak.Longest,
		"lastActivityDate": streak.LastActivity.String(),
	})
}

type activityResponse struct {
	ID         string         `json:"id"`
	Action     string         `json:"action"`
	EntityType string         `json:"entityType"`
	EntityID   string         `json:"entityId"`
	Metadata   map[string]any `json:"metadata"`
	CreatedAt  string         `json:"createdAt"`
}

func (s *Server) handleActivity(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r, s.feedLimit)
	entries, err := s.dashboard.RecentActivity(r.Context(), userIDFrom(r.Context()), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]activityResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toActivityResponse(e))
	}
	writeJSON(w, http.StatusOK, out)
}

func toActivityResponse(e core.ActivityEntry) activityResponse {
	return activityResponse{
		ID:         e.ID,
		Action:     string(e.Action),
		EntityType: e.EntityType,
		EntityID:   e.EntityID,
		Metadata:   e.Metadata,
		CreatedAt:  e.CreatedAt.UTC().Format(time.RFC3339),
	}
}
