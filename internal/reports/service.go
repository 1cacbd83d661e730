package reports

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/sauce-pos/internal/sales"
	"github.com/angelmondragon/sauce-pos/pkg/db/models"
	pkgerrors "github.com/angelmondragon/sauce-pos/pkg/errors"
)

const dateLayout = "2006-01-02"

type saleLister interface {
	List(ctx context.Context, filter sales.ListFilter) ([]models.Sale, error)
}

// Service builds read-only revenue reports over recorded sales.
type Service interface {
	Revenue(ctx context.Context, query RevenueQuery) (*RevenueReport, error)
}

type service struct {
	sales saleLister
	loc   *time.Location
}

// NewService builds the report service. Calendar days and month buckets are
// interpreted in loc, UTC when nil.
func NewService(lister saleLister, loc *time.Location) (Service, error) {
	if lister == nil {
		return nil, fmt.Errorf("sale lister required")
	}
	if loc == nil {
		loc = time.UTC
	}
	return &service{sales: lister, loc: loc}, nil
}

func (s *service) Revenue(ctx context.Context, query RevenueQuery) (*RevenueReport, error) {
	filter, err := s.filter(query)
	if err != nil {
		return nil, err
	}

	rows, err := s.sales.List(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list sales")
	}

	kept := make([]models.Sale, 0, len(rows))
	for _, row := range rows {
		if MatchesOwner(row, query.Owner) {
			kept = append(kept, row)
		}
	}

	report := &RevenueReport{
		Sales:   make([]sales.SaleDTO, 0, len(kept)),
		Summary: Summarize(kept, s.loc),
	}
	for i := range kept {
		report.Sales = append(report.Sales, *sales.FromModel(&kept[i]))
	}
	return report, nil
}

func (s *service) filter(query RevenueQuery) (sales.ListFilter, error) {
	var filter sales.ListFilter
	if raw := strings.TrimSpace(query.StartDate); raw != "" {
		start, _, err := s.parse(raw)
		if err != nil {
			return filter, pkgerrors.New(pkgerrors.CodeValidation, "start_date must be YYYY-MM-DD or RFC3339")
		}
		filter.Start = &start
	}
	if raw := strings.TrimSpace(query.EndDate); raw != "" {
		end, dayOnly, err := s.parse(raw)
		if err != nil {
			return filter, pkgerrors.New(pkgerrors.CodeValidation, "end_date must be YYYY-MM-DD or RFC3339")
		}
		if dayOnly {
			end = end.AddDate(0, 0, 1).Add(-time.Nanosecond)
		}
		filter.End = &end
	}
	if filter.Start != nil && filter.End != nil && filter.End.Before(*filter.Start) {
		return filter, pkgerrors.New(pkgerrors.CodeValidation, "end_date must not be before start_date")
	}
	return filter, nil
}

// parse accepts a calendar day in the report timezone or a full timestamp.
func (s *service) parse(raw string) (time.Time, bool, error) {
	if day, err := time.ParseInLocation(dateLayout, raw, s.loc); err == nil {
		return day, true, nil
	}
	ts, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, false, err
	}
	return ts, false, nil
}
