package controllers

import (
	"net/http"

	"github.com/angelmondragon/sauce-pos/api/responses"
	"github.com/angelmondragon/sauce-pos/api/validators"
	"github.com/angelmondragon/sauce-pos/internal/reports"
	"github.com/angelmondragon/sauce-pos/pkg/logger"
)

const maxOwnerFilterLen = 100

func RevenueReport(svc reports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		report, err := svc.Revenue(r.Context(), reports.RevenueQuery{
			StartDate: query.Get("start_date"),
			EndDate:   query.Get("end_date"),
			Owner:     validators.SanitizeString(query.Get("owner"), maxOwnerFilterLen),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, report)
	}
}
