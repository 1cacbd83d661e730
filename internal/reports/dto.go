package reports

import (
	"github.com/angelmondragon/sauce-pos/internal/sales"
	"github.com/shopspring/decimal"
)

// RevenueQuery holds the raw report filters. Dates are YYYY-MM-DD in the
// report timezone or RFC3339 timestamps.
type RevenueQuery struct {
	StartDate string
	EndDate   string
	Owner     string
}

type RevenueReport struct {
	Sales   []sales.SaleDTO `json:"sales"`
	Summary Summary         `json:"summary"`
}

type Summary struct {
	TotalSales   int             `json:"total_sales"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	Monthly      []MonthlyBucket `json:"monthly"`
}

type MonthlyBucket struct {
	Year      int             `json:"year"`
	Month     int             `json:"month"`
	MonthName string          `json:"month_name"`
	Count     int             `json:"count"`
	Revenue   decimal.Decimal `json:"revenue"`
}
