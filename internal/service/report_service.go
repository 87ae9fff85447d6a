package service

import (
	"context"
	"fmt"
	"time"

	"storefront/internal/repository"

	"github.com/shopspring/decimal"
)

// TopBuyersLimit caps the top-buyers report
const TopBuyersLimit = 5

// ReportService exposes read-only sales aggregations. It never mutates
// the order store.
type ReportService interface {
	TopBuyers(ctx context.Context) ([]*repository.BuyerSummary, error)
	AverageTicketPerUser(ctx context.Context) ([]*repository.UserTicket, error)
	MonthlyRevenue(ctx context.Context, year, month int) (decimal.Decimal, error)
	CurrentMonthRevenue(ctx context.Context) (decimal.Decimal, error)
	RevenueByPeriod(ctx context.Context, from, to time.Time) (decimal.Decimal, error)
}

type reportService struct {
	reports repository.ReportRepository
}

// NewReportService creates a new instance of ReportService
func NewReportService(reports repository.ReportRepository) ReportService {
	return &reportService{reports: reports}
}

// TopBuyers returns the users with the most paid orders
func (s *reportService) TopBuyers(ctx context.Context) ([]*repository.BuyerSummary, error) {
	return s.reports.TopBuyers(ctx, TopBuyersLimit)
}

// AverageTicketPerUser returns each user's average paid-order amount
func (s *reportService) AverageTicketPerUser(ctx context.Context) ([]*repository.UserTicket, error) {
	return s.reports.AverageTicketPerUser(ctx)
}

// MonthlyRevenue returns the revenue of one calendar month
func (s *reportService) MonthlyRevenue(ctx context.Context, year, month int) (decimal.Decimal, error) {
	if month < 1 || month > 12 {
		return decimal.Zero, fmt.Errorf("invalid month: %d", month)
	}
	return s.reports.RevenueByMonth(ctx, year, month)
}

// CurrentMonthRevenue returns the revenue of the running month
func (s *reportService) CurrentMonthRevenue(ctx context.Context) (decimal.Decimal, error) {
	now := time.Now().UTC()
	return s.reports.RevenueByMonth(ctx, now.Year(), int(now.Month()))
}

// RevenueByPeriod returns the revenue between two points in time
func (s *reportService) RevenueByPeriod(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	if to.Before(from) {
		return decimal.Zero, fmt.Errorf("invalid period: end %s is before start %s", to, from)
	}
	return s.reports.RevenueByPeriod(ctx, from, to)
}
