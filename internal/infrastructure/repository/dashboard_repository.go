package repository

import (
	"context"
	"math"
	"time"

	"github.com/sangkips/shopfloor-api/internal/domain/entity"
	"github.com/sangkips/shopfloor-api/internal/domain/enum"
	"github.com/sangkips/shopfloor-api/internal/domain/pricing"
	domainRepo "github.com/sangkips/shopfloor-api/internal/domain/repository"
	"gorm.io/gorm"
)

type dashboardRepository struct {
	db *gorm.DB
}

// NewDashboardRepository creates a new dashboard repository
func NewDashboardRepository(db *gorm.DB) domainRepo.DashboardRepository {
	return &dashboardRepository{db: db}
}

func (r *dashboardRepository) CountCustomers(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Customer{}).Scopes(TenantScope(ctx)).Count(&count).Error
	return count, err
}

func (r *dashboardRepository) CountUnpaidInvoices(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Invoice{}).Scopes(TenantScope(ctx)).
		Where("status = ?", enum.InvoiceStatusUnpaid).
		Count(&count).Error
	return count, err
}

func (r *dashboardRepository) PaidRevenue(ctx context.Context, since *time.Time) (float64, error) {
	var revenue float64
	query := r.db.WithContext(ctx).Model(&entity.Invoice{}).Scopes(TenantScope(ctx)).
		Select("COALESCE(SUM(total), 0)").
		Where("status = ?", enum.InvoiceStatusPaid)
	if since != nil {
		query = query.Where("paid_at >= ?", *since)
	}
	err := query.Scan(&revenue).Error
	return pricing.Round2(revenue), err
}

func (r *dashboardRepository) Receivables(ctx context.Context) (float64, error) {
	var due float64
	err := r.db.WithContext(ctx).Model(&entity.Invoice{}).Scopes(TenantScope(ctx)).
		Select("COALESCE(SUM(total_due), 0)").
		Where("status = ?", enum.InvoiceStatusUnpaid).
		Scan(&due).Error
	return pricing.Round2(due), err
}

// IssuedProfit sums profit from the frozen snapshots in Go so the query stays
// portable across JSON column dialects.
func (r *dashboardRepository) IssuedProfit(ctx context.Context, since time.Time) (float64, error) {
	var invoices []entity.Invoice
	err := r.db.WithContext(ctx).Scopes(TenantScope(ctx)).
		Select("id", "snapshot").
		Where("issued_at >= ? AND status <> ?", since, enum.InvoiceStatusVoid).
		Find(&invoices).Error
	if err != nil {
		return 0, err
	}

	var profit float64
	for _, inv := range invoices {
		profit += inv.Snapshot.Data().Profit
	}
	return pricing.Round2(profit), nil
}

func (r *dashboardRepository) DailyRevenue(ctx context.Context, days int, now time.Time) ([]domainRepo.DailyRevenueResult, error) {
	if days < 1 {
		days = 1
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	start := today.AddDate(0, 0, -(days - 1))

	var paid []entity.Invoice
	err := r.db.WithContext(ctx).Scopes(TenantScope(ctx)).
		Select("id", "total", "paid_at").
		Where("status = ? AND paid_at >= ?", enum.InvoiceStatusPaid, start).
		Find(&paid).Error
	if err != nil {
		return nil, err
	}

	results := make([]domainRepo.DailyRevenueResult, days)
	for i := range results {
		results[i].Date = start.AddDate(0, 0, i)
	}
	for _, inv := range paid {
		if inv.PaidAt == nil {
			continue
		}
		p := inv.PaidAt.In(now.Location())
		day := time.Date(p.Year(), p.Month(), p.Day(), 0, 0, 0, 0, now.Location())
		idx := int(math.Round(day.Sub(start).Hours() / 24))
		if idx >= 0 && idx < days {
			results[idx].Revenue += inv.Total
		}
	}
	for i := range results {
		results[i].Revenue = pricing.Round2(results[i].Revenue)
	}

	return results, nil
}
