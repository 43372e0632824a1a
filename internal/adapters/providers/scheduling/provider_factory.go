package scheduling

import (
	"time"

	"github.com/mentorloop/backend/internal/domain/providers"
	"github.com/mentorloop/backend/pkg/config"
)

// NewSchedulingProvider builds the configured provider. Missing credentials
// fall back to the mock so development environments run without an account;
// production startup validates credentials before calling this.
func NewSchedulingProvider(cfg *config.SchedulingConfig) providers.SchedulingProvider {
	if cfg.UserID == "" || cfg.APIKey == "" {
		return NewMockAdapter()
	}
	return NewAcuityAdapter(cfg.UserID, cfg.APIKey, cfg.BaseURL, time.Duration(cfg.TimeoutSeconds)*time.Second)
}
