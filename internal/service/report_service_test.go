package service

import (
	"context"
	"testing"
	"time"

	"storefront/internal/repository"

	"github.com/shopspring/decimal"
)

type mockReportRepository struct {
	topBuyersLimit int
	revenueYear    int
	revenueMonth   int
	revenueFrom    time.Time
	revenueTo      time.Time
}

func (m *mockReportRepository) TopBuyers(ctx context.Context, limit int) ([]*repository.BuyerSummary, error) {
	m.topBuyersLimit = limit
	return []*repository.BuyerSummary{}, nil
}

func (m *mockReportRepository) AverageTicketPerUser(ctx context.Context) ([]*repository.UserTicket, error) {
	return []*repository.UserTicket{}, nil
}

func (m *mockReportRepository) RevenueByMonth(ctx context.Context, year, month int) (decimal.Decimal, error) {
	m.revenueYear = year
	m.revenueMonth = month
	return decimal.RequireFromString("1234.56"), nil
}

func (m *mockReportRepository) RevenueByPeriod(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	m.revenueFrom = from
	m.revenueTo = to
	return decimal.RequireFromString("99.90"), nil
}

func TestTopBuyersUsesFixedLimit(t *testing.T) {
	repo := &mockReportRepository{}
	svc := NewReportService(repo)

	if _, err := svc.TopBuyers(context.Background()); err != nil {
		t.Fatalf("TopBuyers failed: %v", err)
	}
	if repo.topBuyersLimit != TopBuyersLimit {
		t.Errorf("expected limit %d, got %d", TopBuyersLimit, repo.topBuyersLimit)
	}
}

func TestMonthlyRevenueValidatesMonth(t *testing.T) {
	repo := &mockReportRepository{}
	svc := NewReportService(repo)
	ctx := context.Background()

	for _, month := range []int{0, 13, -1} {
		if _, err := svc.MonthlyRevenue(ctx, 2026, month); err == nil {
			t.Errorf("expected error for month %d", month)
		}
	}

	revenue, err := svc.MonthlyRevenue(ctx, 2026, 3)
	if err != nil {
		t.Fatalf("MonthlyRevenue failed: %v", err)
	}
	if !revenue.Equal(decimal.RequireFromString("1234.56")) {
		t.Errorf("unexpected revenue %s", revenue)
	}
	if repo.revenueYear != 2026 || repo.revenueMonth != 3 {
		t.Errorf("wrong month passed through: %d-%d", repo.revenueYear, repo.revenueMonth)
	}
}

func TestCurrentMonthRevenue(t *testing.T) {
	repo := &mockReportRepository{}
	svc := NewReportService(repo)

	if _, err := svc.CurrentMonthRevenue(context.Background()); err != nil {
		t.Fatalf("CurrentMonthRevenue failed: %v", err)
	}

	now := time.Now().UTC()
	if repo.revenueYear != now.Year() || repo.revenueMonth != int(now.Month()) {
		t.Errorf("expected current month %d-%d, got %d-%d",
			now.Year(), int(now.Month()), repo.revenueYear, repo.revenueMonth)
	}
}

func TestRevenueByPeriodValidatesBounds(t *testing.T) {
	repo := &mockReportRepository{}
	svc := NewReportService(repo)
	ctx := context.Background()

	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	if _, err := svc.RevenueByPeriod(ctx, to, from); err == nil {
		t.Error("expected error for inverted period")
	}

	revenue, err := svc.RevenueByPeriod(ctx, from, to)
	if err != nil {
		t.Fatalf("RevenueByPeriod failed: %v", err)
	}
	if !revenue.Equal(decimal.RequireFromString("99.90")) {
		t.Errorf("unexpected revenue %s", revenue)
	}
	if !repo.revenueFrom.Equal(from) || !repo.revenueTo.Equal(to) {
		t.Error("period bounds not passed through")
	}
}
