package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/yanuaroby/familyfin/internal/core"
)

// ---- wallets ----

type walletRequest struct {
	Name        string `json:"name"`
	Kind        string `json:"kind"`
	Balance     string `json:"balance,omitempty"`
	Currency    string `json:"currency,omitempty"`
	Institution string `json:"institution,omitempty"`
	Color       string `json:"color,omitempty"`
	Icon        string `json:"icon,omitempty"`
	IsDefault   bool   `json:"isDefault,omitempty"`
}

type walletResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Kind        string `json:"kind"`
	Balance     string `json:"balance"`
	Currency    string `json:"currency"`
	Institution string `json:"institution,omitempty"`
	Color       string `json:"color,omitempty"`
	Icon        string `json:"icon,omitempty"`
	IsDefault   bool   `json:"isDefault"`
}

func toWalletResponse(wlt core.Wallet) walletResponse {
	return walletResponse{
		ID:          wlt.ID,
		Name:        wlt.Name,
		Kind:        string(wlt.Kind),
		Balance:     wlt.Balance.String(),
		Currency:    wlt.Currency,
		Institution: wlt.Institution,
		Color:       wlt.Color,
		Icon:        wlt.Icon,
		IsDefault:   wlt.IsDefault,
	}
}

func (s *Server) handleCreateWallet(w http.ResponseWriter, r *http.Request) {
	var req walletRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	balance := decimal.Zero
	if req.Balance != "" {
		var err error
		balance, err = decimal.NewFromString(req.Balance)
		if err != nil {
			writeError(w, r, core.ErrInvalidAmount)
			return
		}
	}

	wlt, err := s.catalog.CreateWallet(r.Context(), core.Wallet{
		UserID:      userIDFrom(r.Context()),
		Name:        req.Name,
		Kind:        core.WalletKind(req.Kind),
		Balance:     balance,
		Currency:    req.Currency,
		Institution: req.Institution,
		Color:       req.Color,
		Icon:        req.Icon,
		IsDefault:   req.IsDefault,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	s.invalidateSummary(wlt.UserID)
	writeJSON(w, http.StatusCreated, toWalletResponse(wlt))
}

func (s *Server) handleListWallets(w http.ResponseWriter, r *http.Request) {
	wallets, err := s.catalog.ListWallets(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]walletResponse, 0, len(wallets))
	for _, wlt := range wallets {
		out = append(out, toWalletResponse(wlt))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetWallet(w http.ResponseWriter, r *http.Request) {
	wlt, err := s.catalog.GetWallet(r.Context(), userIDFrom(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toWalletResponse(wlt))
}

func (s *Server) handleUpdateWallet(w http.ResponseWriter, r *http.Request) {
	var req walletRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	err := s.catalog.UpdateWallet(r.Context(), userIDFrom(r.Context()),
		chi.URLParam(r, "id"), req.Name, req.Color, req.Icon)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteWallet(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r.Context())
	if err := s.catalog.DeleteWallet(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}

	s.invalidateSummary(userID)
	w.WriteHeader(http.StatusNoContent)
}

// ---- debts ----

type debtRequest struct {
	Name               string `json:"name"`
	Kind               string `json:"kind"`
	TotalAmount        string `json:"totalAmount"`
	RemainingBalance   string `json:"remainingBalance,omitempty"`
	MonthlyInstallment string `json:"monthlyInstallment,omitempty"`
	CreditLimit        string `json:"creditLimit,omitempty"`
	InterestRate       string `json:"interestRate,omitempty"`
	StartDate          string `json:"startDate,omitempty"`
	DueDate            string `json:"dueDate,omitempty"`
	Color              string `json:"color,omitempty"`
}

type debtResponse struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Kind               string `json:"kind"`
	TotalAmount        string `json:"totalAmount"`
	RemainingBalance   string `json:"remainingBalance"`
	MonthlyInstallment string `json:"monthlyInstallment"`
	CreditLimit        string `json:"creditLimit,omitempty"`
	InterestRate       string `json:"interestRate,omitempty"`
	StartDate          string `json:"startDate,omitempty"`
	DueDate            string `json:"dueDate,omitempty"`
	Color              string `json:"color,omitempty"`
}

func toDebtResponse(d core.Debt) debtResponse {
	resp := debtResponse{
		ID:                 d.ID,
		Name:               d.Name,
		Kind:               string(d.Kind),
		TotalAmount:        d.TotalAmount.String(),
		RemainingBalance:   d.RemainingBalance.String(),
		MonthlyInstallment: d.MonthlyInstallment.String(),
		StartDate:          d.StartDate.String(),
		DueDate:            d.DueDate.String(),
		Color:              d.Color,
	}
	if d.CreditLimit.Valid {
		resp.CreditLimit = d.CreditLimit.Decimal.String()
	}
	if d.InterestRate.Valid {
		resp.InterestRate = d.InterestRate.Decimal.String()
	}
	return resp
}

func (s *Server) handleCreateDebt(w http.ResponseWriter, r *http.Request) {
	var req debtRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	d := core.Debt{
		UserID: userIDFrom(r.Context()),
		Name:   req.Name,
		Kind:   core.DebtKind(req.Kind),
		Color:  req.Color,
	}

	var err error
	if d.TotalAmount, err = core.ParseAmount(req.TotalAmount); err != nil {
		writeError(w, r, err)
		return
	}
	if req.RemainingBalance != "" {
		if d.RemainingBalance, err = decimal.NewFromString(req.RemainingBalance); err != nil {
			writeError(w, r, core.ErrInvalidAmount)
			return
		}
	}
	if req.MonthlyInstallment != "" {
		if d.MonthlyInstallment, err = decimal.NewFromString(req.MonthlyInstallment); err != nil {
			writeError(w, r, core.ErrInvalidAmount)
			return
		}
	}
	if req.CreditLimit != "" {
		limit, err := decimal.NewFromString(req.CreditLimit)
		if err != nil {
			writeError(w, r, core.ErrInvalidAmount)
			return
		}
		d.CreditLimit = decimal.NullDecimal{Decimal: limit, Valid: true}
	}
	if req.InterestRate != "" {
		rate, err := decimal.NewFromString(req.InterestRate)
		if err != nil {
			writeError(w, r, core.ErrInvalidAmount)
			return
		}
		d.InterestRate = decimal.NullDecimal{Decimal: rate, Valid: true}
	}
	if req.StartDate != "" {
		if d.StartDate, err = core.ParseDate(req.StartDate); err != nil {
			writeError(w, r, err)
			return
		}
	}
	if req.DueDate != "" {
		if d.DueDate, err = core.ParseDate(req.DueDate); err != nil {
			writeError(w, r, err)
			return
		}
	}

	created, err := s.catalog.CreateDebt(r.Context(), d)
	if err != nil {
		writeError(w, r, err)
		return
	}

	s.invalidateSummary(created.UserID)
	writeJSON(w, http.StatusCreated, toDebtResponse(created))
}

func (s *Server) handleListDebts(w http.ResponseWriter, r *http.Request) {
	debts, err := s.catalog.ListDebts(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]debtResponse, 0, len(debts))
	for _, d := range debts {
		out = append(out, toDebtResponse(d))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetDebt(w http.ResponseWriter, r *http.Request) {
	d, err := s.catalog.GetDebt(r.Context(), userIDFrom(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toDebtResponse(d))
}

func (s *Server) handleListDebtPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := s.catalog.ListDebtPayments(r.Context(), userIDFrom(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	type paymentResponse struct {
		ID              string `json:"id"`
		TransactionID   string `json:"transactionId"`
		Amount          string `json:"amount"`
		PreviousBalance string `json:"previousBalance"`
		NewBalance      string `json:"newBalance"`
		PaymentDate     string `json:"paymentDate"`
		Note            string `json:"note,omitempty"`
	}
	out := make([]paymentResponse, 0, len(payments))
	for _, p := range payments {
		out = append(out, paymentResponse{
			ID:              p.ID,
			TransactionID:   p.TransactionID,
			Amount:          p.Amount.String(),
			PreviousBalance: p.PreviousBalance.String(),
			NewBalance:      p.NewBalance.String(),
			PaymentDate:     p.PaymentDate.String(),
			Note:            p.Note,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDeleteDebt(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r.Context())
	if err := s.catalog.DeleteDebt(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}

	s.invalidateSummary(userID)
	w.WriteHeader(http.StatusNoContent)
}

// ---- categories ----

type categoryRequest struct {
	Name     string `json:"name"`
	Kind     string `json:"kind"`
	ParentID string `json:"parentId,omitempty"`
	Icon     string `json:"icon,omitempty"`
	Color    string `json:"color,omitempty"`
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	c, err := s.catalog.CreateCategory(r.Context(), core.Category{
		Name:     req.Name,
		Kind:     req.Kind,
		ParentID: req.ParentID,
		Icon:     req.Icon,
		Color:    req.Color,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.catalog.ListCategories(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cats)
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := s.catalog.DeleteCategory(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
