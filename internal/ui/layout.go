package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which panels stack vertically.
	LayoutCompactWidth = 100

	// LayoutWideWidth is the minimum width for five forecast cards in a row.
	LayoutWideWidth = 120
)

// Panel limits.
const (
	// MaxAlertsShown caps the alert list; the rest are summarized.
	MaxAlertsShown = 5

	// MaxSuggestionsShown caps the city manager's suggestion list.
	MaxSuggestionsShown = 6

	// cardWidth is the inner width of a city or forecast card.
	cardWidth = 18
)

// Timing constants.
const (
	// DefaultUIInterval is how often the model re-reads the store.
	DefaultUIInterval = time.Second

	// NoticeTTL is how long a warning or confirmation stays in the footer.
	NoticeTTL = 5 * time.Second
)
