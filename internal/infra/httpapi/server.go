package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/alfieprojectsdev/homebase/internal/app"
	"github.com/alfieprojectsdev/homebase/internal/domain/bill"
	"github.com/alfieprojectsdev/homebase/internal/infra/database"
)

// Server wires the application services into an HTTP API. Every /api route
// except health and the cron trigger is scoped to one organization via the
// X-Org-ID header.
type Server struct {
	bills      *app.BillService
	heuristics *app.HeuristicsService
	chores     *app.ChoreService
	briefing   *app.BriefingService
	cronSecret string
	logger     *logrus.Logger
}

func NewServer(
	bills *app.BillService,
	heuristics *app.HeuristicsService,
	chores *app.ChoreService,
	briefing *app.BriefingService,
	cronSecret string,
	logger *logrus.Logger,
) *Server {
	return &Server{
		bills:      bills,
		heuristics: heuristics,
		chores:     chores,
		briefing:   briefing,
		cronSecret: cronSecret,
		logger:     logger,
	}
}

// Router builds the route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Post("/cron/daily", s.handleCronDaily)

		r.Group(func(r chi.Router) {
			r.Use(s.requireOrg)

			r.Route("/bills", func(r chi.Router) {
				r.Get("/", s.handleListBills)
				r.Post("/", s.handleCreateBill)
				r.Route("/{billID}", func(r chi.Router) {
					r.Get("/", s.handleGetBill)
					r.Put("/", s.handleUpdateBill)
					r.Delete("/", s.handleDeleteBill)
					r.Post("/pay", s.handlePayBill)
				})
			})

			r.Route("/heuristics", func(r chi.Router) {
				r.Post("/calculate-urgency", s.handleCalculateUrgency)
				r.Get("/amount-suggestion", s.handleAmountSuggestion)
				r.Post("/analyze-bill", s.handleAnalyzeBill)
				r.Get("/due-date-suggestion", s.handleDueDateSuggestion)
				r.Post("/categorize", s.handleCategorize)
				r.Post("/forget-risk", s.handleForgetRisk)
				r.Get("/budget-forecast", s.handleBudgetForecast)
				r.Get("/suggestions", s.handleSuggestions)
			})

			r.Route("/chores", func(r chi.Router) {
				r.Get("/", s.handleListChores)
				r.Post("/", s.handleCreateChore)
				r.Get("/leaderboard", s.handleLeaderboard)
				r.Post("/{choreID}/complete", s.handleCompleteChore)
			})
		})
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleCronDaily triggers the daily system check. It sits outside the org
// middleware because the check spans every organization; a shared secret
// guards it instead.
func (s *Server) handleCronDaily(w http.ResponseWriter, r *http.Request) {
	if s.cronSecret == "" || r.Header.Get("X-Cron-Secret") != s.cronSecret {
		respondError(w, http.StatusUnauthorized, "invalid cron secret")
		return
	}
	report, err := s.briefing.RunSystemCheck(r.Context(), time.Now())
	if err != nil {
		s.logger.WithError(err).Error("System check failed")
		respondError(w, http.StatusInternalServerError, "system check failed")
		return
	}
	respondJSON(w, http.StatusOK, report)
}

type contextKey string

const orgIDKey contextKey = "orgID"

// requireOrg extracts and validates the X-Org-ID header.
func (s *Server) requireOrg(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get("X-Org-ID")
		if raw == "" {
			respondError(w, http.StatusBadRequest, "X-Org-ID header is required")
			return
		}
		orgID, err := uuid.Parse(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "X-Org-ID header is not a valid UUID")
			return
		}
		ctx := context.WithValue(r.Context(), orgIDKey, orgID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func orgFromContext(ctx context.Context) uuid.UUID {
	orgID, _ := ctx.Value(orgIDKey).(uuid.UUID)
	return orgID
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   ww.Status(),
			"duration": time.Since(start).String(),
		}).Info("Request handled")
	})
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps domain and application errors onto HTTP statuses.
func (s *Server) respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, database.ErrBillNotFound),
		errors.Is(err, database.ErrUserNotFound),
		errors.Is(err, database.ErrChoreNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, bill.ErrInvalidAmount),
		errors.Is(err, app.ErrInvalidRecurrence),
		errors.Is(err, app.ErrInvalidChoreFrequency):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, app.ErrBillAlreadyPaid):
		respondError(w, http.StatusConflict, err.Error())
	default:
		s.logger.WithError(err).Error("Request failed")
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}

func parseUUIDParam(r *http.Request, name string) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, name))
}
