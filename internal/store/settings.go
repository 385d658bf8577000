package store

import (
	"context"

	"github.com/eliteshop/storefront/internal/model"
)

// Settings is the repository over the KeySettings singleton. Events live
// inside it and have no key of their own.
type Settings struct {
	s *Store
}

func (s *Store) Settings() *Settings {
	return &Settings{s: s}
}

func (r *Settings) load(ctx context.Context) (model.SiteSettings, Outcome, error) {
	raw, found, err := r.s.readRaw(ctx, KeySettings)
	if err != nil {
		return model.SiteSettings{}, Absent, err
	}
	settings, outcome, derr := decode(raw, found, shapeObject, DefaultSettings)
	if outcome == Fallback {
		r.s.fallback(KeySettings, derr)
	}
	return settings, outcome, nil
}

// Get returns the stored settings, or the defaults when they are unreadable
func (r *Settings) Get(ctx context.Context) (model.SiteSettings, error) {
	if err := r.s.ready(); err != nil {
		return model.SiteSettings{}, err
	}
	settings, _, err := r.load(ctx)
	return settings, err
}

// Save replaces the whole singleton
func (r *Settings) Save(ctx context.Context, settings model.SiteSettings) error {
	return r.Mutate(ctx, func(cur *model.SiteSettings) (bool, error) {
		*cur = settings
		return true, nil
	})
}

// Mutate edits the settings in place under the write lock
func (r *Settings) Mutate(ctx context.Context, fn func(*model.SiteSettings) (bool, error)) error {
	if err := r.s.ready(); err != nil {
		return err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	settings, _, err := r.load(ctx)
	if err != nil {
		return err
	}
	changed, err := fn(&settings)
	if err != nil || !changed {
		return err
	}
	if settings.CarouselImages == nil {
		settings.CarouselImages = []string{}
	}
	if settings.Events == nil {
		settings.Events = []model.Event{}
	}
	return r.s.writeJSON(ctx, KeySettings, settings)
}

// Events lists the promotions in stored order
func (r *Settings) Events(ctx context.Context) ([]model.Event, error) {
	settings, err := r.Get(ctx)
	if err != nil {
		return nil, err
	}
	if settings.Events == nil {
		return []model.Event{}, nil
	}
	return settings.Events, nil
}

// AddEvent appends e to the promotions
func (r *Settings) AddEvent(ctx context.Context, e model.Event) error {
	return r.Mutate(ctx, func(cur *model.SiteSettings) (bool, error) {
		cur.Events = append(cur.Events, e)
		return true, nil
	})
}

// UpsertEvent replaces the event with the same id in place, or appends it
func (r *Settings) UpsertEvent(ctx context.Context, e model.Event) error {
	return r.Mutate(ctx, func(cur *model.SiteSettings) (bool, error) {
		if i := eventIndex(cur.Events, e.ID); i >= 0 {
			cur.Events[i] = e
			return true, nil
		}
		cur.Events = append(cur.Events, e)
		return true, nil
	})
}

// ToggleEvent flips the active flag and reports whether the id matched
func (r *Settings) ToggleEvent(ctx context.Context, id string) (bool, error) {
	found := false
	err := r.Mutate(ctx, func(cur *model.SiteSettings) (bool, error) {
		i := eventIndex(cur.Events, id)
		if i < 0 {
			return false, nil
		}
		found = true
		cur.Events[i].Active = !cur.Events[i].Active
		return true, nil
	})
	return found, err
}

// DeleteEvent removes the event and reports whether the id matched
func (r *Settings) DeleteEvent(ctx context.Context, id string) (bool, error) {
	found := false
	err := r.Mutate(ctx, func(cur *model.SiteSettings) (bool, error) {
		i := eventIndex(cur.Events, id)
		if i < 0 {
			return false, nil
		}
		found = true
		cur.Events = append(cur.Events[:i], cur.Events[i+1:]...)
		return true, nil
	})
	return found, err
}

func eventIndex(events []model.Event, id string) int {
	for i := range events {
		if events[i].ID == id {
			return i
		}
	}
	return -1
}
