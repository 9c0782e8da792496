// Package http exposes the engine over a JSON API. Routes are grouped under
// /api/v1 and all of them require a bearer token identifying the household
// member.
package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/yanuaroby/familyfin/internal/core"
	"github.com/yanuaroby/familyfin/internal/services"
)

type Server struct {
	http.Server

	transactions *services.TransactionService
	scheduler    *services.RecurringScheduler
	catalog      *services.CatalogService
	dashboard    *services.DashboardService
	planning     *services.PlanningService

	jwtSecret    string
	feedLimit    int
	limiter      *rateLimiter
	summaryCache *lruCache[core.FinancialSummary]
}

type Options struct {
	Port         string
	JWTSecret    string
	FeedLimit    int
	Transactions *services.TransactionService
	Scheduler    *services.RecurringScheduler
	Catalog      *services.CatalogService
	Dashboard    *services.DashboardService
	Planning     *services.PlanningService
}

func NewServer(opts Options) *Server {
	if opts.FeedLimit <= 0 {
		opts.FeedLimit = 20
	}
	s := &Server{
		transactions: opts.Transactions,
		scheduler:    opts.Scheduler,
		catalog:      opts.Catalog,
		dashboard:    opts.Dashboard,
		planning:     opts.Planning,
		jwtSecret:    opts.JWTSecret,
		feedLimit:    opts.FeedLimit,
		limiter:      newRateLimiter(60),
		summaryCache: newLRUCache[core.FinancialSummary](256, 30*time.Second),
	}

	s.Addr = ":" + opts.Port
	s.Handler = s.routes()
	s.ReadTimeout = 10 * time.Second
	s.WriteTimeout = 30 * time.Second
	s.IdleTimeout = 60 * time.Second
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(s.limiter.limitMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(s.authenticated)

		r.Route("/transactions", func(r chi.Router) {
			r.Post("/", s.handleCreateTransaction)
			r.Get("/", s.handleListTransactions)
			r.Delete("/{id}", s.handleReverseTransaction)
		})

		r.Route("/recurring", func(r chi.Router) {
			r.Post("/", s.handleCreateTemplate)
			r.Get("/", s.handleListTemplates)
			r.Get("/{id}", s.handleGetTemplate)
			r.Put("/{id}", s.handleUpdateTemplate)
			r.Patch("/{id}/enabled", s.handleSetTemplateEnabled)
			r.Delete("/{id}", s.handleDeleteTemplate)
			r.Post("/process", s.handleProcessDue)
		})

		r.Route("/wallets", func(r chi.Router) {
			r.Post("/", s.handleCreateWallet)
			r.Get("/", s.handleListWallets)
			r.Get("/{id}", s.handleGetWallet)
			r.Put("/{id}", s.handleUpdateWallet)
			r.Delete("/{id}", s.handleDeleteWallet)
		})

		r.Route("/debts", func(r chi.Router) {
			r.Post("/", s.handleCreateDebt)
			r.Get("/", s.handleListDebts)
			r.Get("/{id}", s.handleGetDebt)
			r.Get("/{id}/payments", s.handleListDebtPayments)
			r.Delete("/{id}", s.handleDeleteDebt)
		})

		r.Route("/goals", func(r chi.Router) {
			r.Post("/", s.handleCreateGoal)
			r.Get("/", s.handleListGoals)
			r.Get("/{id}", s.handleGetGoal)
			r.Put("/{id}", s.handleUpdateGoal)
			r.Post("/{id}/contributions", s.handleAddGoalContribution)
			r.Post("/{id}/reset", s.handleResetGoal)
			r.Delete("/{id}", s.handleDeleteGoal)
		})

		r.Route("/budgets", func(r chi.Router) {
			r.Post("/", s.handleCreateBudget)
			r.Get("/", s.handleListBudgets)
			r.Put("/{id}", s.handleUpdateBudget)
			r.Delete("/{id}", s.handleDeleteBudget)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Post("/", s.handleCreateCategory)
			r.Get("/", s.handleListCategories)
			r.Delete("/{id}", s.handleDeleteCategory)
		})

		r.Get("/dashboard/summary", s.handleSummary)
		r.Get("/dashboard/streak", s.handleStreak)
		r.Get("/activity", s.handleActivity)
	})

	return r
}

// Start begins serving and blocks until the listener closes.
func (s *Server) Start() error {
	return s.ListenAndServe()
}

// Stop gracefully shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	s.limiter.stop()
	return s.Shutdown(ctx)
}

// invalidateSummary drops the cached dashboard summary after a mutation.
func (s *Server) invalidateSummary(userID string) {
	s.summaryCache.Delete(userID)
}
