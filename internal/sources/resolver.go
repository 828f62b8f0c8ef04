package sources

import (
	"context"
	"errors"
	"fmt"

	"github.com/claude/healthsync/internal/metrics"
)

// Validation errors surfaced to the client as request errors.
var (
	ErrUnknownCategory = errors.New("unknown health category")
	ErrNotConnected    = errors.New("source not connected for this category")
	ErrWorkoutsAlias   = errors.New("workouts follows the activity preference; set activity instead")
)

// Store is the persistence surface the resolver needs. *storage.DB
// satisfies it.
type Store interface {
	GetSourcePreferences(ctx context.Context, userID int) (Preferences, error)
	UpsertSourcePreference(ctx context.Context, userID int, category metrics.Category, sourceType string) error
	ConnectedSources(ctx context.Context, userID int) ([]ConnectedSource, error)
}

// Resolver answers "which source is authoritative for this user and
// category". One pointer per category, no ranking or merging.
type Resolver struct {
	store Store
}

// NewResolver creates a Resolver backed by the given store.
func NewResolver(store Store) *Resolver {
	return &Resolver{store: store}
}

// normalize maps workouts onto activity and validates the category.
func normalize(category metrics.Category) (metrics.Category, error) {
	if category == metrics.CategoryWorkouts {
		return metrics.CategoryActivity, nil
	}
	for _, c := range metrics.Categories {
		if c == category {
			return category, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCategory, category)
}

// Resolve returns the authoritative source for a category. When the user
// has an explicit preference it wins; otherwise the most recently connected
// source for the category is used (greatest first-seen, source name as the
// tie-break). explicit reports whether the answer came from a stored
// preference. An empty source with nil error means no data exists for the
// category at all.
func (r *Resolver) Resolve(ctx context.Context, userID int, category metrics.Category) (source string, explicit bool, err error) {
	cat, err := normalize(category)
	if err != nil {
		return "", false, err
	}

	prefs, err := r.store.GetSourcePreferences(ctx, userID)
	if err != nil {
		return "", false, fmt.Errorf("reading source preferences: %w", err)
	}
	if s := prefs.For(cat); s != "" {
		return s, true, nil
	}

	connected, err := r.store.ConnectedSources(ctx, userID)
	if err != nil {
		return "", false, fmt.Errorf("listing connected sources: %w", err)
	}

	// Workouts data also counts toward the activity fallback.
	match := func(c string) bool {
		if c == string(cat) {
			return true
		}
		return cat == metrics.CategoryActivity && c == string(metrics.CategoryWorkouts)
	}

	var best *ConnectedSource
	for i := range connected {
		cs := &connected[i]
		if !match(cs.Category) {
			continue
		}
		if best == nil ||
			cs.FirstSeen.After(best.FirstSeen) ||
			(cs.FirstSeen.Equal(best.FirstSeen) && cs.SourceType < best.SourceType) {
			best = cs
		}
	}
	if best == nil {
		return "", false, nil
	}
	return best.SourceType, false, nil
}

// SetPreferred stores a preference after validating that the user actually
// has the source connected for that category. Setting a workouts preference
// is rejected; it always follows activity.
func (r *Resolver) SetPreferred(ctx context.Context, userID int, category metrics.Category, sourceType string) error {
	if category == metrics.CategoryWorkouts {
		return ErrWorkoutsAlias
	}
	cat, err := normalize(category)
	if err != nil {
		return err
	}

	connected, err := r.store.ConnectedSources(ctx, userID)
	if err != nil {
		return fmt.Errorf("listing connected sources: %w", err)
	}
	ok := false
	for _, cs := range connected {
		if cs.SourceType != sourceType {
			continue
		}
		if cs.Category == string(cat) ||
			(cat == metrics.CategoryActivity && cs.Category == string(metrics.CategoryWorkouts)) {
			ok = true
			break
		}
	}
	if !ok {
		return fmt.Errorf("%w: %s/%s", ErrNotConnected, sourceType, cat)
	}

	if err := r.store.UpsertSourcePreference(ctx, userID, cat, sourceType); err != nil {
		return fmt.Errorf("storing source preference: %w", err)
	}
	return nil
}

// Preferred returns the stored preference for a category, or "" when unset.
func (r *Resolver) Preferred(ctx context.Context, userID int, category metrics.Category) (string, error) {
	cat, err := normalize(category)
	if err != nil {
		return "", err
	}
	prefs, err := r.store.GetSourcePreferences(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("reading source preferences: %w", err)
	}
	return prefs.For(cat), nil
}
