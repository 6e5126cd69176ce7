package repository

import (
	"context"
	"time"
)

// DailyRevenueResult is the revenue collected on a single day
type DailyRevenueResult struct {
	Date    time.Time `json:"date"`
	Revenue float64   `json:"revenue"`
}

// DashboardRepository defines aggregate queries for the tenant dashboard
type DashboardRepository interface {
	CountCustomers(ctx context.Context) (int64, error)
	CountUnpaidInvoices(ctx context.Context) (int64, error)
	// PaidRevenue sums the total of invoices paid at or after since
	PaidRevenue(ctx context.Context, since *time.Time) (float64, error)
	// Receivables sums total_due over unpaid invoices
	Receivables(ctx context.Context) (float64, error)
	// IssuedProfit sums the snapshot profit of invoices issued at or after since
	IssuedProfit(ctx context.Context, since time.Time) (float64, error)
	DailyRevenue(ctx context.Context, days int, now time.Time) ([]DailyRevenueResult, error)
}
