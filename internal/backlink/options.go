package backlink

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Options configures a coordinator instance. It is plain configuration,
// not global state; each coordinator owns its copy and exposes it through
// UpdateOptions.
type Options struct {
	IncludeResolved   bool          `json:"include_resolved"`
	IncludeUnresolved bool          `json:"include_unresolved"`
	UseCache          bool          `json:"use_cache"`
	CacheTimeout      time.Duration `json:"cache_timeout"`
	OnlyDailyNotes    bool          `json:"only_daily_notes"`
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{
		IncludeResolved:   true,
		IncludeUnresolved: true,
		UseCache:          true,
		CacheTimeout:      DefaultCacheTTL,
	}
}

// Validate validates the options.
func (o Options) Validate() error {
	return validation.ValidateStruct(&o,
		validation.Field(&o.CacheTimeout, validation.Min(time.Duration(0))),
	)
}
