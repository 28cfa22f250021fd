// Package cities maintains the user's ordered, bounded list of dashboard
// cities and persists it on every change.
package cities

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/containerd/errdefs"
)

// MaxCities is the largest list the dashboard will track.
const MaxCities = 5

// DefaultCities seeds the list when nothing has been saved yet.
var DefaultCities = []string{"Pune", "Mumbai", "Delhi"}

// Store persists the list. Load returns nil when nothing was saved.
type Store interface {
	LoadCities() ([]string, error)
	SaveCities(cities []string) error
}

// ValidationError rejects a mutation that would break the list bounds.
// The list is unchanged when one is returned.
type ValidationError struct {
	City   string
	Reason string
	kind   error
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func (e *ValidationError) Unwrap() error {
	return e.kind
}

// List is safe for concurrent use.
type List struct {
	mu     sync.Mutex
	store  Store
	cities []string
}

// Load reads the saved list once. A missing or empty list falls back to
// DefaultCities. Saved entries are trimmed, deduplicated and capped at
// MaxCities. A store error is returned alongside a usable default list.
func Load(store Store) (*List, error) {
	l := &List{store: store, cities: slices.Clone(DefaultCities)}
	if store == nil {
		return l, nil
	}
	saved, err := store.LoadCities()
	if err != nil {
		return l, fmt.Errorf("load cities: %w", err)
	}
	if cleaned := normalize(saved); len(cleaned) > 0 {
		l.cities = cleaned
	}
	return l, nil
}

// Cities returns a copy of the list in display order.
func (l *List) Cities() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.cities)
}

// Len reports the number of cities.
func (l *List) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.cities)
}

// Full reports whether another city can be added.
func (l *List) Full() bool {
	return l.Len() >= MaxCities
}

// Add appends city. It reports false without error when the city is
// already present.
func (l *List) Add(city string) (bool, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return false, &ValidationError{Reason: "city name is required", kind: errdefs.ErrInvalidArgument}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if slices.Contains(l.cities, city) {
		return false, nil
	}
	if len(l.cities) >= MaxCities {
		return false, &ValidationError{
			City:   city,
			Reason: fmt.Sprintf("maximum %d cities allowed", MaxCities),
			kind:   errdefs.ErrResourceExhausted,
		}
	}
	next := append(slices.Clone(l.cities), city)
	if err := l.persist(next); err != nil {
		return false, err
	}
	l.cities = next
	return true, nil
}

// Remove drops city. Removing the last city is rejected; removing a city
// that is not in the list does nothing.
func (l *List) Remove(city string) error {
	city = strings.TrimSpace(city)

	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.cities) <= 1 {
		return &ValidationError{
			City:   city,
			Reason: "at least one city must be selected",
			kind:   errdefs.ErrFailedPrecondition,
		}
	}
	idx := slices.Index(l.cities, city)
	if idx < 0 {
		return nil
	}
	next := slices.Delete(slices.Clone(l.cities), idx, idx+1)
	if err := l.persist(next); err != nil {
		return err
	}
	l.cities = next
	return nil
}

func (l *List) persist(cities []string) error {
	if l.store == nil {
		return nil
	}
	if err := l.store.SaveCities(cities); err != nil {
		return fmt.Errorf("save cities: %w", err)
	}
	return nil
}

func normalize(in []string) []string {
	out := make([]string, 0, len(in))
	for _, c := range in {
		c = strings.TrimSpace(c)
		if c == "" || slices.Contains(out, c) {
			continue
		}
		out = append(out, c)
		if len(out) == MaxCities {
			break
		}
	}
	return out
}
