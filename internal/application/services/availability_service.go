package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/mentorloop/backend/internal/domain/entities"
	"github.com/mentorloop/backend/internal/domain/providers"
	"github.com/mentorloop/backend/internal/infrastructure/observability"
	"github.com/mentorloop/backend/pkg/config"
	apperrors "github.com/mentorloop/backend/pkg/errors"
)

const (
	monthKeyLayout = "2006-01"
	dateKeyLayout  = "2006-01-02"
)

// AvailabilityService composes provider availability calls into month, day
// and range query shapes, normalizes every emitted instant, and caches
// results by (appointment type, timezone, period). Caches are read-through;
// concurrent misses on one key may duplicate a provider call, which is
// acceptable because the cache is a performance optimization only.
type AvailabilityService struct {
	provider providers.SchedulingProvider
	cache    providers.CacheProvider
	metrics  *observability.Metrics

	monthTTLSeconds int
	dayTTLSeconds   int
}

// NewAvailabilityService creates a new availability service. cache and
// metrics may be nil; both degrade to uncached/unmetered operation.
func NewAvailabilityService(
	provider providers.SchedulingProvider,
	cache providers.CacheProvider,
	cacheCfg *config.CacheConfig,
	metrics *observability.Metrics,
) *AvailabilityService {
	monthTTL, dayTTL := 300, 120
	if cacheCfg != nil {
		if cacheCfg.MonthTTLSeconds > 0 {
			monthTTL = cacheCfg.MonthTTLSeconds
		}
		if cacheCfg.DayTTLSeconds > 0 {
			dayTTL = cacheCfg.DayTTLSeconds
		}
	}
	return &AvailabilityService{
		provider:        provider,
		cache:           cache,
		metrics:         metrics,
		monthTTLSeconds: monthTTL,
		dayTTLSeconds:   dayTTL,
	}
}

// GetMonth returns the dates with open slots in one month. The second return
// reports whether the result was served from cache.
func (s *AvailabilityService) GetMonth(ctx context.Context, appointmentTypeID, timezone, month string) ([]string, bool, error) {
	if appointmentTypeID == "" || timezone == "" {
		return nil, false, apperrors.NewValidationError("appointmentTypeId and timezone are required")
	}
	if _, err := time.Parse(monthKeyLayout, month); err != nil {
		return nil, false, apperrors.NewValidationError("month must be formatted YYYY-MM")
	}

	key := fmt.Sprintf("availability:month:%s:%s:%s", appointmentTypeID, timezone, month)
	if dates, ok := s.cacheLookup(ctx, key); ok {
		return dates, true, nil
	}

	dates, err := s.provider.ListDates(ctx, appointmentTypeID, month, timezone)
	if err != nil {
		return nil, false, err
	}
	if dates == nil {
		dates = []string{}
	}

	s.cacheStore(ctx, key, dates, s.monthTTLSeconds)
	return dates, false, nil
}

// GetDay returns the normalized slot instants for one date, cached
// independently from the month cache.
func (s *AvailabilityService) GetDay(ctx context.Context, appointmentTypeID, timezone, date string) ([]string, bool, error) {
	if appointmentTypeID == "" || timezone == "" {
		return nil, false, apperrors.NewValidationError("appointmentTypeId and timezone are required")
	}
	if _, err := time.Parse(dateKeyLayout, date); err != nil {
		return nil, false, apperrors.NewValidationError("date must be formatted YYYY-MM-DD")
	}

	key := fmt.Sprintf("availability:day:%s:%s:%s", appointmentTypeID, timezone, date)
	if times, ok := s.cacheLookup(ctx, key); ok {
		return times, true, nil
	}

	raw, err := s.provider.ListTimes(ctx, appointmentTypeID, date, timezone)
	if err != nil {
		return nil, false, err
	}

	times := make([]string, 0, len(raw))
	for _, t := range raw {
		times = append(times, NormalizeOffset(t))
	}
	// Lexicographic order on the normalized form is chronological.
	sort.Strings(times)

	s.cacheStore(ctx, key, times, s.dayTTLSeconds)
	return times, false, nil
}

// GetRange returns the availability window for an arbitrary date range. The
// covering months are looked up first (a month failure aborts the call); the
// per-date time lookups then fan out concurrently, and a date whose lookup
// fails upstream or times out degrades to an empty slot list instead of
// failing the whole range.
func (s *AvailabilityService) GetRange(ctx context.Context, appointmentTypeID, timezone, startDate, endDate string) (*entities.AvailabilityWindow, error) {
	start, err := time.Parse(dateKeyLayout, startDate)
	if err != nil {
		return nil, apperrors.NewValidationError("startDate must be formatted YYYY-MM-DD")
	}
	end, err := time.Parse(dateKeyLayout, endDate)
	if err != nil {
		return nil, apperrors.NewValidationError("endDate must be formatted YYYY-MM-DD")
	}
	if end.Before(start) {
		return nil, apperrors.NewValidationError("endDate must not precede startDate")
	}

	var dates []string
	for cursor := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC); !cursor.After(end); cursor = cursor.AddDate(0, 1, 0) {
		monthDates, _, err := s.GetMonth(ctx, appointmentTypeID, timezone, cursor.Format(monthKeyLayout))
		if err != nil {
			return nil, err
		}
		for _, d := range monthDates {
			if d >= startDate && d <= endDate {
				dates = append(dates, d)
			}
		}
	}
	sort.Strings(dates)

	window := &entities.AvailabilityWindow{
		Dates: dates,
		Times: make(map[string][]string, len(dates)),
	}
	if len(dates) == 0 {
		window.Dates = []string{}
		return window, nil
	}

	// Fan out per-date time lookups and join on all of them; every date
	// must report, even if with an empty result.
	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		fatalErr error
	)
	for _, date := range dates {
		wg.Add(1)
		go func(date string) {
			defer wg.Done()

			times, _, err := s.GetDay(ctx, appointmentTypeID, timezone, date)
			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				if s.degradable(err) {
					observability.LoggerFromContext(ctx).Warn().
						Str("date", date).
						Str("appointment_type_id", appointmentTypeID).
						Err(err).
						Msg("per-date availability lookup failed; returning empty slot list")
					window.Times[date] = []string{}
					return
				}
				if fatalErr == nil {
					fatalErr = err
				}
				window.Times[date] = []string{}
				return
			}
			window.Times[date] = times
		}(date)
	}
	wg.Wait()

	if fatalErr != nil {
		return nil, fatalErr
	}
	return window, nil
}

// degradable reports whether a per-date failure may be absorbed into an
// empty slot list rather than failing the whole range.
func (s *AvailabilityService) degradable(err error) bool {
	switch apperrors.TypeOf(err) {
	case apperrors.ErrorTypeUpstream, apperrors.ErrorTypeTimeout, apperrors.ErrorTypeRateLimited:
		return true
	}
	return false
}

func (s *AvailabilityService) cacheLookup(ctx context.Context, key string) ([]string, bool) {
	if s.cache == nil {
		return nil, false
	}

	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		if s.metrics != nil {
			observability.RecordCacheMiss(ctx, s.metrics, key)
		}
		return nil, false
	}

	var values []string
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, false
	}
	if s.metrics != nil {
		observability.RecordCacheHit(ctx, s.metrics, key)
	}
	return values, true
}

func (s *AvailabilityService) cacheStore(ctx context.Context, key string, values []string, ttlSeconds int) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, raw, ttlSeconds); err != nil {
		observability.LoggerFromContext(ctx).Warn().Str("key", key).Err(err).Msg("failed to populate availability cache")
	}
}
