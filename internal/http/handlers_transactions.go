package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yanuaroby/familyfin/internal/core"
)

type createTransactionRequest struct {
	WalletID   string `json:"walletId"`
	ToWalletID string `json:"toWalletId,omitempty"`
	DebtID     string `json:"debtId,omitempty"`
	CategoryID string `json:"categoryId,omitempty"`
	Type       string `json:"type"`
	Amount     string `json:"amount"`
	Date       string `json:"date"`
	Note       string `json:"note,omitempty"`
}

type transactionResponse struct {
	ID         string `json:"id"`
	WalletID   string `json:"walletId"`
	ToWalletID string `json:"toWalletId,omitempty"`
	DebtID     string `json:"debtId,omitempty"`
	CategoryID string `json:"categoryId,omitempty"`
	Type       string `json:"type"`
	Amount     string `json:"amount"`
	Date       string `json:"date"`
	Note       string `json:"note,omitempty"`
	Recurring  bool   `json:"isRecurring"`
	TemplateID string `json:"templateId,omitempty"`
}

func toTransactionResponse(t core.Transaction) transactionResponse {
	return transactionResponse{
		ID:         t.ID,
		WalletID:   t.WalletID,
		ToWalletID: t.ToWalletID,
		DebtID:     t.DebtID,
		CategoryID: t.CategoryID,
		Type:       string(t.Type),
		Amount:     t.Amount.String(),
		Date:       t.Date.String(),
		Note:       t.Note,
		Recurring:  t.Recurring,
		TemplateID: t.TemplateID,
	}
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	amount, err := core.ParseAmount(req.Amount)
	if err != nil {
		writeError(w, r, err)
		return
	}
	date, err := core.ParseDate(req.Date)
	if err != nil {
		writeError(w, r, err)
		return
	}

	userID := userIDFrom(r.Context())
	t, err := s.transactions.CreateTransaction(r.Context(), core.TransactionInput{
		UserID:     userID,
		WalletID:   req.WalletID,
		ToWalletID: req.ToWalletID,
		DebtID:     req.DebtID,
		CategoryID: req.CategoryID,
		Type:       core.TransactionType(req.Type),
		Amount:     amount,
		Date:       date,
		Note:       req.Note,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	s.invalidateSummary(userID)
	writeJSON(w, http.StatusCreated, toTransactionResponse(t))
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	year, month := parseYearMonth(r)
	txs, err := s.catalog.ListTransactions(r.Context(), userIDFrom(r.Context()), year, month)
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]transactionResponse, 0, len(txs))
	for _, t := range txs {
		out = append(out, toTransactionResponse(t))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleReverseTransaction(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r.Context())
	if err := s.transactions.ReverseTransaction(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}

	s.invalidateSummary(userID)
	w.WriteHeader(http.StatusNoContent)
}
