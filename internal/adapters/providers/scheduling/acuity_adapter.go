package scheduling

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mentorloop/backend/internal/domain/entities"
	"github.com/mentorloop/backend/internal/domain/providers"
	apperrors "github.com/mentorloop/backend/pkg/errors"
	"github.com/mentorloop/backend/pkg/retry"
)

// AcuityAdapter implements SchedulingProvider against the Acuity-style REST
// surface. Every call attaches basic-auth credentials, runs under the client
// timeout, and is routed through the shared retry policy so throttled calls
// back off without the caller noticing anything but latency.
type AcuityAdapter struct {
	userID   string
	apiKey   string
	baseURL  string
	client   *http.Client
	retryCfg retry.Config
}

// NewAcuityAdapter creates a new scheduling adapter
func NewAcuityAdapter(userID, apiKey, baseURL string, timeout time.Duration) providers.SchedulingProvider {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &AcuityAdapter{
		userID:   userID,
		apiKey:   apiKey,
		baseURL:  strings.TrimRight(baseURL, "/"),
		client:   &http.Client{Timeout: timeout},
		retryCfg: retry.DefaultConfig(),
	}
}

// wire shapes; the provider sends dates/times as one-field objects and
// appointments with numeric ids and string durations.
type dateEntry struct {
	Date string `json:"date"`
}

type timeEntry struct {
	Time string `json:"time"`
}

type wireAppointment struct {
	ID                json.Number `json:"id"`
	AppointmentTypeID json.Number `json:"appointmentTypeID"`
	Datetime          string      `json:"datetime"`
	Duration          json.Number `json:"duration"`
	Email             string      `json:"email"`
	FirstName         string      `json:"firstName"`
	LastName          string      `json:"lastName"`
	Timezone          string      `json:"timezone"`
	Notes             string      `json:"notes"`
}

func (w wireAppointment) toEntity() entities.ProviderAppointment {
	duration := 0
	if d, err := w.Duration.Int64(); err == nil {
		duration = int(d)
	}
	return entities.ProviderAppointment{
		ID:                w.ID.String(),
		AppointmentTypeID: w.AppointmentTypeID.String(),
		Datetime:          w.Datetime,
		DurationMinutes:   duration,
		Email:             w.Email,
		FirstName:         w.FirstName,
		LastName:          w.LastName,
		Timezone:          w.Timezone,
		Notes:             w.Notes,
	}
}

// ListDates returns the dates with open slots in a month.
func (a *AcuityAdapter) ListDates(ctx context.Context, appointmentTypeID, month, timezone string) ([]string, error) {
	params := url.Values{}
	params.Set("appointmentTypeID", appointmentTypeID)
	params.Set("month", month)
	params.Set("timezone", timezone)

	var entries []dateEntry
	if err := a.getJSON(ctx, "/availability/dates", params, &entries); err != nil {
		return nil, err
	}

	dates := make([]string, 0, len(entries))
	for _, e := range entries {
		dates = append(dates, e.Date)
	}
	return dates, nil
}

// ListTimes returns the raw slot instants for one date.
func (a *AcuityAdapter) ListTimes(ctx context.Context, appointmentTypeID, date, timezone string) ([]string, error) {
	params := url.Values{}
	params.Set("appointmentTypeID", appointmentTypeID)
	params.Set("date", date)
	params.Set("timezone", timezone)

	var entries []timeEntry
	if err := a.getJSON(ctx, "/availability/times", params, &entries); err != nil {
		return nil, err
	}

	times := make([]string, 0, len(entries))
	for _, e := range entries {
		times = append(times, e.Time)
	}
	return times, nil
}

// ValidateSlot asks the provider whether a slot is still bookable. A 400
// response with a parseable body is the provider's way of rejecting the slot,
// not an upstream failure.
func (a *AcuityAdapter) ValidateSlot(ctx context.Context, appointmentTypeID, datetime, timezone string) (*entities.SlotValidation, error) {
	payload := map[string]string{
		"appointmentTypeID": appointmentTypeID,
		"datetime":          datetime,
		"timezone":          timezone,
	}

	var result *entities.SlotValidation
	err := a.withRetry(ctx, "ValidateSlot", func() error {
		status, body, err := a.doRequest(ctx, http.MethodPost, "/availability/check-times", nil, payload)
		if err != nil {
			return err
		}

		if status >= 200 && status < 300 {
			result = &entities.SlotValidation{Valid: true}
			return nil
		}

		if status == http.StatusBadRequest {
			var rejection struct {
				Error   string `json:"error"`
				Message string `json:"message"`
			}
			if jsonErr := json.Unmarshal(body, &rejection); jsonErr == nil && (rejection.Error != "" || rejection.Message != "") {
				reason := rejection.Message
				if reason == "" {
					reason = rejection.Error
				}
				result = &entities.SlotValidation{Valid: false, Reason: reason}
				return nil
			}
		}

		return classifyStatus(status, body)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// CreateAppointment books an appointment on the provider's calendar.
func (a *AcuityAdapter) CreateAppointment(ctx context.Context, req *entities.AppointmentRequest) (*entities.ProviderAppointment, error) {
	payload := map[string]string{
		"appointmentTypeID": req.AppointmentTypeID,
		"datetime":          req.Datetime,
		"timezone":          req.Timezone,
		"firstName":         req.FirstName,
		"lastName":          req.LastName,
		"email":             req.Email,
		"notes":             req.Notes,
	}

	var created entities.ProviderAppointment
	err := a.withRetry(ctx, "CreateAppointment", func() error {
		status, body, err := a.doRequest(ctx, http.MethodPost, "/appointments", nil, payload)
		if err != nil {
			return err
		}
		if status < 200 || status >= 300 {
			return classifyStatus(status, body)
		}

		var wire wireAppointment
		if err := json.Unmarshal(body, &wire); err != nil {
			return apperrors.NewUpstreamError("scheduling provider returned unparseable appointment", status, truncate(string(body)))
		}
		created = wire.toEntity()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// ListAppointments returns the appointments in the date window.
func (a *AcuityAdapter) ListAppointments(ctx context.Context, minDate, maxDate, emailFilter string) ([]entities.ProviderAppointment, error) {
	params := url.Values{}
	params.Set("minDate", minDate)
	params.Set("maxDate", maxDate)
	params.Set("max", "100")
	if emailFilter != "" {
		params.Set("email", emailFilter)
	}

	var wires []wireAppointment
	if err := a.getJSON(ctx, "/appointments", params, &wires); err != nil {
		return nil, err
	}

	appointments := make([]entities.ProviderAppointment, 0, len(wires))
	for _, w := range wires {
		appointments = append(appointments, w.toEntity())
	}
	return appointments, nil
}

// getJSON performs a GET under the retry policy and decodes a 2xx JSON body
// into out.
func (a *AcuityAdapter) getJSON(ctx context.Context, path string, params url.Values, out interface{}) error {
	return a.withRetry(ctx, path, func() error {
		status, body, err := a.doRequest(ctx, http.MethodGet, path, params, nil)
		if err != nil {
			return err
		}
		if status < 200 || status >= 300 {
			return classifyStatus(status, body)
		}
		if err := json.Unmarshal(body, out); err != nil {
			// The provider serves HTML error pages under some failure
			// modes; never parse those optimistically.
			return apperrors.NewUpstreamError("scheduling provider returned non-JSON response", status, truncate(string(body)))
		}
		return nil
	})
}

func (a *AcuityAdapter) withRetry(ctx context.Context, op string, fn func() error) error {
	return retry.DoWithLog(ctx, a.retryCfg, "scheduling", fn, func(attempt int, err error, nextDelay time.Duration) {
		log.Warn().
			Str("op", op).
			Int("attempt", attempt).
			Dur("backoff", nextDelay).
			Err(err).
			Msg("scheduling provider throttled call; backing off")
	})
}

func (a *AcuityAdapter) doRequest(ctx context.Context, method, path string, params url.Values, payload interface{}) (int, []byte, error) {
	endpoint := a.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	var reqBody io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, apperrors.NewInternalError("failed to encode provider request", err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return 0, nil, apperrors.NewInternalError("failed to build provider request", err)
	}
	req.SetBasicAuth(a.userID, a.apiKey)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.client.Do(req)
	if err != nil {
		if isTimeout(err) {
			return 0, nil, apperrors.NewTimeoutError("scheduling provider did not respond in time", err)
		}
		return 0, nil, apperrors.NewUpstreamError(fmt.Sprintf("scheduling provider request failed: %v", err), 0, "")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, apperrors.NewUpstreamError("failed to read provider response", resp.StatusCode, "")
	}
	return resp.StatusCode, body, nil
}

func classifyStatus(status int, body []byte) error {
	if status == http.StatusTooManyRequests {
		return apperrors.NewRateLimitedError("scheduling provider rate limit exceeded", status)
	}
	return apperrors.NewUpstreamError(
		fmt.Sprintf("scheduling provider returned status %d", status),
		status,
		truncate(string(body)),
	)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// truncate keeps diagnostics bounded; provider HTML error pages can be large.
func truncate(s string) string {
	const max = 512
	if len(s) > max {
		return s[:max]
	}
	return s
}
