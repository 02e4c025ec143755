// Package players provides player identity matching between data sources.
package players

import "strings"

// Resolver decides whether a name field from a historical row refers to a
// given player. The matching policy is injected so it can be tightened
// without touching aggregation logic.
type Resolver interface {
	// Matches reports whether rowName refers to player
	Matches(rowName, player string) bool

	// Key returns the comparison key used for player, for logging
	Key(player string) string
}

// SurnameContainsResolver matches when the player's surname appears as a
// case-insensitive substring of the row name. This tolerates the name-format
// drift between the schedule feed ("Jannik Sinner") and the archive
// ("Sinner J."), at the cost of occasional substring collisions between
// unrelated surnames.
type SurnameContainsResolver struct{}

// NewSurnameContainsResolver creates the default resolver
func NewSurnameContainsResolver() SurnameContainsResolver {
	return SurnameContainsResolver{}
}

// Matches implements Resolver
func (SurnameContainsResolver) Matches(rowName, player string) bool {
	surname := surname(player)
	if surname == "" {
		return false
	}
	return strings.Contains(strings.ToLower(rowName), surname)
}

// Key implements Resolver
func (SurnameContainsResolver) Key(player string) string {
	return surname(player)
}

// surname extracts the last whitespace-separated token, lowercased.
// Schedule feeds list players as "First Last".
func surname(player string) string {
	fields := strings.Fields(player)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToLower(fields[len(fields)-1])
}
