package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/shopfloor-api/internal/domain/enum"
	"github.com/sangkips/shopfloor-api/internal/domain/repository"
	"github.com/sangkips/shopfloor-api/pkg/logger"
	"go.uber.org/zap"
)

// DashboardCache keeps computed dashboards per tenant
type DashboardCache interface {
	Get(ctx context.Context, tenantID uuid.UUID, dest any) (bool, error)
	Set(ctx context.Context, tenantID uuid.UUID, v any) error
	Invalidate(ctx context.Context, tenantID uuid.UUID) error
}

// DashboardService provides dashboard statistics
type DashboardService struct {
	dashboardRepo repository.DashboardRepository
	quoteRepo     repository.QuoteRepository
	jobRepo       repository.JobRepository
	materialRepo  repository.MaterialRepository
	cache         DashboardCache
	now           func() time.Time
}

// NewDashboardService creates a new dashboard service. cache may be nil.
func NewDashboardService(
	dashboardRepo repository.DashboardRepository,
	quoteRepo repository.QuoteRepository,
	jobRepo repository.JobRepository,
	materialRepo repository.MaterialRepository,
	cache DashboardCache,
) *DashboardService {
	return &DashboardService{
		dashboardRepo: dashboardRepo,
		quoteRepo:     quoteRepo,
		jobRepo:       jobRepo,
		materialRepo:  materialRepo,
		cache:         cache,
		now:           time.Now,
	}
}

// DashboardStats represents dashboard statistics
type DashboardStats struct {
	TotalCustomers   int64             `json:"total_customers"`
	OpenQuotes       int64             `json:"open_quotes"`
	ActiveJobs       int64             `json:"active_jobs"`
	UnpaidInvoices   int64             `json:"unpaid_invoices"`
	LowStockCount    int64             `json:"low_stock_count"`
	TotalRevenue     float64           `json:"total_revenue"`
	MonthlyRevenue   float64           `json:"monthly_revenue"`
	Receivables      float64           `json:"receivables"`
	MonthlyProfit    float64           `json:"monthly_profit"`
	DailyRevenueData []DailySalesPoint `json:"daily_revenue_data"`
	GeneratedAt      time.Time         `json:"generated_at"`
}

// DailySalesPoint represents a daily revenue data point
type DailySalesPoint struct {
	Date    string  `json:"date"`
	Revenue float64 `json:"revenue"`
}

const dashboardDays = 7

// GetDashboardStats returns dashboard statistics for the current tenant
func (s *DashboardService) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	tenantID, err := tenantFromContext(ctx)
	if err != nil {
		return nil, err
	}
	log := logger.FromContext(ctx)

	if s.cache != nil {
		var cached DashboardStats
		hit, err := s.cache.Get(ctx, tenantID, &cached)
		if err != nil {
			log.Warn("dashboard cache read failed", zap.Error(err))
		}
		if hit {
			return &cached, nil
		}
	}

	stats, err := s.compute(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, tenantID, stats); err != nil {
			log.Warn("dashboard cache write failed", zap.Error(err))
		}
	}
	return stats, nil
}

func (s *DashboardService) compute(ctx context.Context) (*DashboardStats, error) {
	now := s.now()
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	stats := &DashboardStats{GeneratedAt: now}

	var err error
	if stats.TotalCustomers, err = s.dashboardRepo.CountCustomers(ctx); err != nil {
		return nil, err
	}
	if stats.OpenQuotes, err = s.quoteRepo.CountByStatus(ctx, enum.QuoteStatusOpen); err != nil {
		return nil, err
	}
	if stats.ActiveJobs, err = s.jobRepo.CountByStatus(ctx, enum.JobStatusActive); err != nil {
		return nil, err
	}
	if stats.UnpaidInvoices, err = s.dashboardRepo.CountUnpaidInvoices(ctx); err != nil {
		return nil, err
	}
	if stats.LowStockCount, err = s.materialRepo.CountLowStock(ctx); err != nil {
		return nil, err
	}
	if stats.TotalRevenue, err = s.dashboardRepo.PaidRevenue(ctx, nil); err != nil {
		return nil, err
	}
	if stats.MonthlyRevenue, err = s.dashboardRepo.PaidRevenue(ctx, &startOfMonth); err != nil {
		return nil, err
	}
	if stats.Receivables, err = s.dashboardRepo.Receivables(ctx); err != nil {
		return nil, err
	}
	if stats.MonthlyProfit, err = s.dashboardRepo.IssuedProfit(ctx, startOfMonth); err != nil {
		return nil, err
	}

	daily, err := s.dashboardRepo.DailyRevenue(ctx, dashboardDays, now)
	if err != nil {
		return nil, err
	}
	stats.DailyRevenueData = make([]DailySalesPoint, 0, len(daily))
	for _, d := range daily {
		stats.DailyRevenueData = append(stats.DailyRevenueData, DailySalesPoint{
			Date:    d.Date.Format("Jan 02"),
			Revenue: d.Revenue,
		})
	}
	return stats, nil
}
