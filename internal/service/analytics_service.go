package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"till-reconciliation-engine/internal/core/domain"
	"till-reconciliation-engine/internal/core/ports"
	"till-reconciliation-engine/internal/core/reconcile"
	"till-reconciliation-engine/pkg/apperror"

	"github.com/rs/zerolog"
)

const summaryTTL = 5 * time.Minute

// AnalyticsServiceImpl implements ports.AnalyticsService. Daily
// summaries are cached in Redis; the cache is dropped whenever a shift
// closes.
type AnalyticsServiceImpl struct {
	shiftRepo    ports.ShiftRepository
	employeeRepo ports.EmployeeRepository
	cache        ports.SummaryCache
	log          zerolog.Logger
}

// NewAnalyticsService creates a new AnalyticsServiceImpl.
func NewAnalyticsService(
	shiftRepo ports.ShiftRepository,
	employeeRepo ports.EmployeeRepository,
	cache ports.SummaryCache,
	log zerolog.Logger,
) *AnalyticsServiceImpl {
	return &AnalyticsServiceImpl{
		shiftRepo:    shiftRepo,
		employeeRepo: employeeRepo,
		cache:        cache,
		log:          log,
	}
}

func summaryCacheKey(f ports.SummaryFilter) string {
	return fmt.Sprintf("summary:%s:%s:%d:%s", f.Fecha, f.Turno, f.EmpleadoID, f.Nombre)
}

// DailySummaries aggregates closed shifts per calendar day. The report
// carries the opening-date range of the listed shifts alongside the
// per-day figures.
func (s *AnalyticsServiceImpl) DailySummaries(ctx context.Context, filter ports.SummaryFilter) (*domain.SummaryReport, error) {
	key := summaryCacheKey(filter)

	cached, err := s.cache.Get(ctx, key)
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("summary cache read failed, recomputing")
	}
	if cached != nil {
		var report domain.SummaryReport
		if err := json.Unmarshal(cached, &report); err == nil && report.Dias != nil {
			return &report, nil
		}
		s.log.Warn().Str("key", key).Msg("corrupt summary cache entry ignored")
	}

	params := ports.ShiftListParams{ClosedOnly: true}
	if filter.Fecha != "" {
		params.Fecha = &filter.Fecha
	}
	if filter.Turno != "" {
		params.Turno = &filter.Turno
	}
	if filter.EmpleadoID != 0 {
		params.EmpleadoID = &filter.EmpleadoID
	}

	shifts, err := s.shiftRepo.List(ctx, params)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("list shifts: %w", err))
	}

	employees := map[int64]string{}
	if filter.Nombre != "" {
		all, err := s.employeeRepo.List(ctx)
		if err != nil {
			return nil, apperror.ErrDatabaseError(fmt.Errorf("list employees: %w", err))
		}
		for _, e := range all {
			employees[e.ID.Int()] = e.Nombre
		}
	}

	report := &domain.SummaryReport{
		Dias: reconcile.Aggregate(shifts, employees, reconcile.Filter{
			Fecha:      filter.Fecha,
			Turno:      filter.Turno,
			EmpleadoID: filter.EmpleadoID,
			Nombre:     filter.Nombre,
		}),
	}
	report.FechaMin, report.FechaMax = reconcile.DateRange(shifts)

	if payload, err := json.Marshal(report); err == nil {
		if err := s.cache.Set(ctx, key, payload, summaryTTL); err != nil {
			s.log.Warn().Err(err).Str("key", key).Msg("summary cache write failed")
		}
	}
	return report, nil
}
