package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mentorloop/backend/internal/adapters/cache"
	"github.com/mentorloop/backend/internal/application/services"
	apperrors "github.com/mentorloop/backend/pkg/errors"
)

func newAvailabilityFixture() (*MockSchedulingProvider, *services.AvailabilityService) {
	provider := new(MockSchedulingProvider)
	svc := services.NewAvailabilityService(provider, cache.NewMemoryAdapter(), nil, nil)
	return provider, svc
}

func TestAvailabilityService_GetMonth(t *testing.T) {
	t.Run("returns provider dates and caches them", func(t *testing.T) {
		provider, svc := newAvailabilityFixture()
		provider.On("ListDates", mock.Anything, "4412", "2026-08", "America/New_York").
			Return([]string{"2026-08-20", "2026-08-21"}, nil).Once()

		dates, cached, err := svc.GetMonth(context.Background(), "4412", "America/New_York", "2026-08")
		require.NoError(t, err)
		assert.False(t, cached)
		assert.Equal(t, []string{"2026-08-20", "2026-08-21"}, dates)

		// Second call is served from cache; the provider is not hit again.
		dates, cached, err = svc.GetMonth(context.Background(), "4412", "America/New_York", "2026-08")
		require.NoError(t, err)
		assert.True(t, cached)
		assert.Equal(t, []string{"2026-08-20", "2026-08-21"}, dates)

		provider.AssertExpectations(t)
	})

	t.Run("caches an empty month", func(t *testing.T) {
		provider, svc := newAvailabilityFixture()
		provider.On("ListDates", mock.Anything, "4412", "2026-09", "UTC").
			Return([]string{}, nil).Once()

		dates, cached, err := svc.GetMonth(context.Background(), "4412", "UTC", "2026-09")
		require.NoError(t, err)
		assert.False(t, cached)
		assert.Empty(t, dates)

		_, cached, err = svc.GetMonth(context.Background(), "4412", "UTC", "2026-09")
		require.NoError(t, err)
		assert.True(t, cached)
	})

	t.Run("rejects a malformed month", func(t *testing.T) {
		_, svc := newAvailabilityFixture()

		_, _, err := svc.GetMonth(context.Background(), "4412", "UTC", "August 2026")
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
	})

	t.Run("propagates provider failure uncached", func(t *testing.T) {
		provider, svc := newAvailabilityFixture()
		provider.On("ListDates", mock.Anything, "4412", "2026-08", "UTC").
			Return(nil, apperrors.NewUpstreamError("provider returned status 500", 500, "")).Twice()

		_, _, err := svc.GetMonth(context.Background(), "4412", "UTC", "2026-08")
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeUpstream))

		// A failure must not be cached.
		_, _, err = svc.GetMonth(context.Background(), "4412", "UTC", "2026-08")
		assert.Error(t, err)
		provider.AssertExpectations(t)
	})
}

func TestAvailabilityService_GetDay(t *testing.T) {
	t.Run("normalizes offsets and sorts", func(t *testing.T) {
		provider, svc := newAvailabilityFixture()
		provider.On("ListTimes", mock.Anything, "4412", "2026-08-20", "America/New_York").
			Return([]string{"2026-08-20T16:00:00-0400", "2026-08-20T09:00:00-0400"}, nil).Once()

		times, cached, err := svc.GetDay(context.Background(), "4412", "America/New_York", "2026-08-20")
		require.NoError(t, err)
		assert.False(t, cached)
		assert.Equal(t, []string{"2026-08-20T09:00:00-04:00", "2026-08-20T16:00:00-04:00"}, times)
	})

	t.Run("leaves already-normalized instants alone", func(t *testing.T) {
		provider, svc := newAvailabilityFixture()
		provider.On("ListTimes", mock.Anything, "4412", "2026-08-20", "UTC").
			Return([]string{"2026-08-20T12:00:00Z", "2026-08-20T13:00:00+02:00"}, nil).Once()

		times, _, err := svc.GetDay(context.Background(), "4412", "UTC", "2026-08-20")
		require.NoError(t, err)
		assert.Equal(t, []string{"2026-08-20T12:00:00Z", "2026-08-20T13:00:00+02:00"}, times)
	})

	t.Run("day cache is independent of the month cache", func(t *testing.T) {
		provider, svc := newAvailabilityFixture()
		provider.On("ListDates", mock.Anything, "4412", "2026-08", "UTC").
			Return([]string{"2026-08-20"}, nil).Once()
		provider.On("ListTimes", mock.Anything, "4412", "2026-08-20", "UTC").
			Return([]string{"2026-08-20T12:00:00Z"}, nil).Once()

		_, _, err := svc.GetMonth(context.Background(), "4412", "UTC", "2026-08")
		require.NoError(t, err)

		_, cached, err := svc.GetDay(context.Background(), "4412", "UTC", "2026-08-20")
		require.NoError(t, err)
		assert.False(t, cached)
	})

	t.Run("rejects a malformed date", func(t *testing.T) {
		_, svc := newAvailabilityFixture()

		_, _, err := svc.GetDay(context.Background(), "4412", "UTC", "2026-08")
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
	})
}

func TestAvailabilityService_GetRange(t *testing.T) {
	t.Run("joins per-date lookups across covering months", func(t *testing.T) {
		provider, svc := newAvailabilityFixture()
		provider.On("ListDates", mock.Anything, "4412", "2026-08", "UTC").
			Return([]string{"2026-08-30", "2026-08-31"}, nil).Once()
		provider.On("ListDates", mock.Anything, "4412", "2026-09", "UTC").
			Return([]string{"2026-09-01", "2026-09-15"}, nil).Once()
		provider.On("ListTimes", mock.Anything, "4412", "2026-08-31", "UTC").
			Return([]string{"2026-08-31T10:00:00-0400"}, nil).Once()
		provider.On("ListTimes", mock.Anything, "4412", "2026-09-01", "UTC").
			Return([]string{"2026-09-01T11:00:00-0400"}, nil).Once()

		window, err := svc.GetRange(context.Background(), "4412", "UTC", "2026-08-31", "2026-09-02")
		require.NoError(t, err)

		// 2026-08-30 and 2026-09-15 fall outside the window.
		assert.Equal(t, []string{"2026-08-31", "2026-09-01"}, window.Dates)
		assert.Equal(t, []string{"2026-08-31T10:00:00-04:00"}, window.Times["2026-08-31"])
		assert.Equal(t, []string{"2026-09-01T11:00:00-04:00"}, window.Times["2026-09-01"])
		provider.AssertExpectations(t)
	})

	t.Run("degrades a failed date to an empty slot list", func(t *testing.T) {
		provider, svc := newAvailabilityFixture()
		provider.On("ListDates", mock.Anything, "4412", "2026-08", "UTC").
			Return([]string{"2026-08-20", "2026-08-21"}, nil).Once()
		provider.On("ListTimes", mock.Anything, "4412", "2026-08-20", "UTC").
			Return([]string{"2026-08-20T12:00:00Z"}, nil).Once()
		provider.On("ListTimes", mock.Anything, "4412", "2026-08-21", "UTC").
			Return(nil, apperrors.NewTimeoutError("provider call timed out", nil)).Once()

		window, err := svc.GetRange(context.Background(), "4412", "UTC", "2026-08-20", "2026-08-21")
		require.NoError(t, err)

		assert.Equal(t, []string{"2026-08-20", "2026-08-21"}, window.Dates)
		assert.Equal(t, []string{"2026-08-20T12:00:00Z"}, window.Times["2026-08-20"])
		assert.Empty(t, window.Times["2026-08-21"])
		assert.Contains(t, window.Times, "2026-08-21")
	})

	t.Run("aborts when a month lookup fails", func(t *testing.T) {
		provider, svc := newAvailabilityFixture()
		provider.On("ListDates", mock.Anything, "4412", "2026-08", "UTC").
			Return(nil, apperrors.NewUpstreamError("provider returned status 503", 503, "")).Once()

		_, err := svc.GetRange(context.Background(), "4412", "UTC", "2026-08-20", "2026-08-21")
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeUpstream))
	})

	t.Run("returns an empty window when no dates are open", func(t *testing.T) {
		provider, svc := newAvailabilityFixture()
		provider.On("ListDates", mock.Anything, "4412", "2026-08", "UTC").
			Return([]string{}, nil).Once()

		window, err := svc.GetRange(context.Background(), "4412", "UTC", "2026-08-01", "2026-08-05")
		require.NoError(t, err)
		assert.Empty(t, window.Dates)
		assert.Empty(t, window.Times)
	})

	t.Run("rejects an inverted range", func(t *testing.T) {
		_, svc := newAvailabilityFixture()

		_, err := svc.GetRange(context.Background(), "4412", "UTC", "2026-08-21", "2026-08-20")
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
	})
}
