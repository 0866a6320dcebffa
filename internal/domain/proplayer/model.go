package proplayer

import (
	"fmt"
	"time"
)

// ProPlayer is a curated esport profile linked to a game tag.
type ProPlayer struct {
	ID                    string
	PlayerTag             string
	DisplayName           string
	Team                  string
	MercatoStatus         string
	MatcherinoURL         *string
	MatcherinoEarningsUSD float64
	IsActive              bool
	Notes                 *string
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

func (p ProPlayer) Validate() error {
	if p.PlayerTag == "" {
		return fmt.Errorf("pro player tag is required")
	}
	if p.DisplayName == "" {
		return fmt.Errorf("pro player display name is required")
	}
	if p.MatcherinoEarningsUSD < 0 {
		return fmt.Errorf("pro player earnings must be non-negative")
	}
	return nil
}
