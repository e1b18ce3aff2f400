package leaguefilter

import "context"

// Repository persists the user's league filter.
type Repository interface {
	// Load returns Default() when nothing usable is stored.
	Load(ctx context.Context) (Filter, error)
	// LoadStored returns nil when nothing usable is stored.
	LoadStored(ctx context.Context) (Filter, error)
	Save(ctx context.Context, filter Filter) error
}
