package transport

import (
	"net/http"
	"strconv"
	"time"

	"storefront/internal/middleware"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// RevenueResponse represents an aggregated revenue figure
type RevenueResponse struct {
	Revenue decimal.Decimal `json:"revenue"`
	From    *time.Time      `json:"from,omitempty"`
	To      *time.Time      `json:"to,omitempty"`
	Year    int             `json:"year,omitempty"`
	Month   int             `json:"month,omitempty"`
}

// ReportHandler handles HTTP requests for sales reports
type ReportHandler struct {
	reportService service.ReportService
	logger        *zap.Logger
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService service.ReportService, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		logger:        logger,
	}
}

// RegisterRoutes registers all report routes; reports are admin-only
func (h *ReportHandler) RegisterRoutes(r chi.Router, authMiddleware, adminMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/reports", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Use(adminMiddleware)
		r.Get("/top-buyers", h.TopBuyers)
		r.Get("/average-ticket", h.AverageTicket)
		r.Get("/revenue", h.Revenue)
	})
}

// TopBuyers returns the users with the most paid orders
func (h *ReportHandler) TopBuyers(w http.ResponseWriter, r *http.Request) {
	buyers, err := h.reportService.TopBuyers(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, buyers)
}

// AverageTicket returns each user's average paid-order amount
func (h *ReportHandler) AverageTicket(w http.ResponseWriter, r *http.Request) {
	tickets, err := h.reportService.AverageTicketPerUser(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, tickets)
}

// Revenue returns aggregated revenue. With ?from and ?to (RFC 3339) it
// covers that period; with ?year and ?month one calendar month; with no
// parameters the current month.
func (h *ReportHandler) Revenue(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	if query.Get("from") != "" || query.Get("to") != "" {
		from, err := time.Parse(time.RFC3339, query.Get("from"))
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid 'from' timestamp")
			return
		}
		to, err := time.Parse(time.RFC3339, query.Get("to"))
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid 'to' timestamp")
			return
		}

		revenue, err := h.reportService.RevenueByPeriod(r.Context(), from, to)
		if err != nil {
			respondServiceError(w, h.logger, err)
			return
		}

		middleware.RespondWithJSON(w, http.StatusOK, RevenueResponse{Revenue: revenue, From: &from, To: &to})
		return
	}

	if query.Get("year") != "" || query.Get("month") != "" {
		year, err := strconv.Atoi(query.Get("year"))
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid 'year'")
			return
		}
		month, err := strconv.Atoi(query.Get("month"))
		if err != nil || month < 1 || month > 12 {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid 'month'")
			return
		}

		revenue, err := h.reportService.MonthlyRevenue(r.Context(), year, month)
		if err != nil {
			respondServiceError(w, h.logger, err)
			return
		}

		middleware.RespondWithJSON(w, http.StatusOK, RevenueResponse{Revenue: revenue, Year: year, Month: month})
		return
	}

	revenue, err := h.reportService.CurrentMonthRevenue(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	now := time.Now().UTC()
	middleware.RespondWithJSON(w, http.StatusOK, RevenueResponse{Revenue: revenue, Year: now.Year(), Month: int(now.Month())})
}
