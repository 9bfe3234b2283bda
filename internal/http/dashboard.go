package http

import (
	"context"
	"net/http"
)

type dashboardSummary struct {
	Residents    residentMetrics    `json:"residents"`
	Certificates certificateMetrics `json:"certificates"`
	Requests     requestMetrics     `json:"requests"`
}

type residentMetrics struct {
	Total  int64 `json:"total"`
	Voters int64 `json:"voters"`
	FourPs int64 `json:"fourPs"`
	PWD    int64 `json:"pwd"`
}

type certificateMetrics struct {
	Total     int64 `json:"total"`
	Clearance int64 `json:"clearance"`
	Residency int64 `json:"residency"`
	Indigency int64 `json:"indigency"`
}

type requestMetrics struct {
	Total    int64 `json:"total"`
	Pending  int64 `json:"pending"`
	Approved int64 `json:"approved"`
	Rejected int64 `json:"rejected"`
}

// DashboardSummary aggregates the counts the barangay dashboard needs.
func (h *Handler) DashboardSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.loadDashboardSummary(r.Context())
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "could not load dashboard metrics", nil)
		return
	}

	WriteJSON(w, http.StatusOK, summary)
}

func (h *Handler) loadDashboardSummary(ctx context.Context) (dashboardSummary, error) {
	var s dashboardSummary

	const query = `
        SELECT
            (SELECT COUNT(*) FROM residents) AS residents_total,
            (SELECT COUNT(*) FROM residents WHERE voter_status ILIKE 'yes' OR voter_status ILIKE 'registered') AS residents_voters,
            (SELECT COUNT(*) FROM residents WHERE four_ps_beneficiary ILIKE 'yes') AS residents_four_ps,
            (SELECT COUNT(*) FROM residents WHERE pwd_status ILIKE 'yes') AS residents_pwd,
            (SELECT COUNT(*) FROM certificates) AS certificates_total,
            (SELECT COUNT(*) FROM certificates WHERE certificate_type = 'clearance') AS certificates_clearance,
            (SELECT COUNT(*) FROM certificates WHERE certificate_type = 'residency') AS certificates_residency,
            (SELECT COUNT(*) FROM certificates WHERE certificate_type = 'indigency') AS certificates_indigency,
            (SELECT COUNT(*) FROM certificate_requests) AS requests_total,
            (SELECT COUNT(*) FROM certificate_requests WHERE status = 'pending') AS requests_pending,
            (SELECT COUNT(*) FROM certificate_requests WHERE status = 'approved') AS requests_approved,
            (SELECT COUNT(*) FROM certificate_requests WHERE status = 'rejected') AS requests_rejected
    `

	row := h.pool.QueryRow(ctx, query)
	if err := row.Scan(
		&s.Residents.Total,
		&s.Residents.Voters,
		&s.Residents.FourPs,
		&s.Residents.PWD,
		&s.Certificates.Total,
		&s.Certificates.Clearance,
		&s.Certificates.Residency,
		&s.Certificates.Indigency,
		&s.Requests.Total,
		&s.Requests.Pending,
		&s.Requests.Approved,
		&s.Requests.Rejected,
	); err != nil {
		return dashboardSummary{}, err
	}

	return s, nil
}
