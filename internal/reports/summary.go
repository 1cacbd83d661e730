package reports

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/angelmondragon/sauce-pos/pkg/db/models"
	"github.com/shopspring/decimal"
)

var thaiMonths = [...]string{
	"มกราคม", "กุมภาพันธ์", "มีนาคม", "เมษายน", "พฤษภาคม", "มิถุนายน",
	"กรกฎาคม", "สิงหาคม", "กันยายน", "ตุลาคม", "พฤศจิกายน", "ธันวาคม",
}

// buddhistEraOffset converts a Gregorian year to the Thai calendar year.
const buddhistEraOffset = 543

// ThaiMonthName renders a month the way the th-TH locale does, for example
// "มีนาคม 2569".
func ThaiMonthName(year int, month time.Month) string {
	if month < time.January || month > time.December {
		return ""
	}
	return fmt.Sprintf("%s %d", thaiMonths[month-1], year+buddhistEraOffset)
}

// MatchesOwner reports whether any line of the sale belongs to a product whose
// owner contains filter, ignoring case. An empty filter matches everything.
func MatchesOwner(sale models.Sale, filter string) bool {
	filter = strings.ToLower(strings.TrimSpace(filter))
	if filter == "" {
		return true
	}
	for _, line := range sale.Items {
		if line.Product == nil || line.Product.Owner == "" {
			continue
		}
		if strings.Contains(strings.ToLower(line.Product.Owner), filter) {
			return true
		}
	}
	return false
}

// Summarize totals the sales and buckets them per calendar month in loc,
// newest month first.
func Summarize(sales []models.Sale, loc *time.Location) Summary {
	if loc == nil {
		loc = time.UTC
	}
	type bucketKey struct {
		year  int
		month time.Month
	}

	summary := Summary{TotalRevenue: decimal.Zero, Monthly: []MonthlyBucket{}}
	buckets := map[bucketKey]*MonthlyBucket{}
	for _, sale := range sales {
		summary.TotalSales++
		summary.TotalRevenue = summary.TotalRevenue.Add(sale.Total)

		local := sale.Date.In(loc)
		key := bucketKey{year: local.Year(), month: local.Month()}
		bucket, ok := buckets[key]
		if !ok {
			bucket = &MonthlyBucket{
				Year:      key.year,
				Month:     int(key.month),
				MonthName: ThaiMonthName(key.year, key.month),
				Revenue:   decimal.Zero,
			}
			buckets[key] = bucket
		}
		bucket.Count++
		bucket.Revenue = bucket.Revenue.Add(sale.Total)
	}

	for _, bucket := range buckets {
		summary.Monthly = append(summary.Monthly, *bucket)
	}
	sort.Slice(summary.Monthly, func(i, j int) bool {
		a, b := summary.Monthly[i], summary.Monthly[j]
		if a.Year != b.Year {
			return a.Year > b.Year
		}
		return a.Month > b.Month
	})
	return summary
}
