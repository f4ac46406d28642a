package appointment

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/HubFlowSystems/appointments-core/internal/domain/booking"
)

type StatsResult struct {
	Total     int64 `json:"total"`
	Completed int64 `json:"completed"`
	Cancelled int64 `json:"cancelled"`
	NoShows   int64 `json:"no_shows"`

	CompletionRate   float64 `json:"completion_rate"`
	CancellationRate float64 `json:"cancellation_rate"`
	NoShowRate       float64 `json:"no_show_rate"`

	Revenue decimal.Decimal `json:"revenue"`

	ByStatus map[string]int64 `json:"by_status"`

	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

type Stats struct {
	repo booking.Repository
}

func NewStats(repo booking.Repository) *Stats {
	return &Stats{repo: repo}
}

// Execute summarizes the period. Revenue counts completed appointments only
// and stays fixed-point end to end.
func (s *Stats) Execute(
	ctx context.Context,
	tenantID uint,
	from time.Time,
	to time.Time,
) (*StatsResult, error) {

	if from.IsZero() {
		now := time.Now()
		from = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	}
	if to.IsZero() {
		to = time.Now()
	}

	byStatus, err := s.repo.CountAppointmentsByStatus(ctx, tenantID, from, to)
	if err != nil {
		return nil, err
	}

	revenue, err := s.repo.SumCompletedRevenue(ctx, tenantID, from, to)
	if err != nil {
		return nil, err
	}

	var total int64
	for _, n := range byStatus {
		total += n
	}

	result := &StatsResult{
		Total:     total,
		Completed: byStatus[string(booking.StatusCompleted)],
		Cancelled: byStatus[string(booking.StatusCancelled)],
		NoShows:   byStatus[string(booking.StatusNoShow)],
		Revenue:   revenue,
		ByStatus:  byStatus,
		StartDate: from,
		EndDate:   to,
	}

	if total > 0 {
		result.CompletionRate = float64(result.Completed) / float64(total) * 100
		result.CancellationRate = float64(result.Cancelled) / float64(total) * 100
		result.NoShowRate = float64(result.NoShows) / float64(total) * 100
	}

	return result, nil
}
