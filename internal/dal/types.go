package dal

import "github.com/statlive/matchview-ui/internal/models"

// MatchDAL defines the interface for the match data access layer
type MatchDAL interface {
	// GetMatch returns the match with the given id
	GetMatch(id string) (*models.MatchData, error)
	// DefaultMatch returns the built-in sample match used when no id is supplied
	DefaultMatch() (*models.MatchData, error)
	// ListMatches returns every stored match
	ListMatches() ([]models.MatchData, error)
	// Reset restores the seed data
	Reset() error
	// Close releases the underlying store
	Close() error
}
