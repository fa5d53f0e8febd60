package league

import (
	"fmt"
	"strings"
	"time"
)

// League groups players who record games against each other.
type League struct {
	ID        string
	Name      string
	OwnerID   string
	CreatedAt time.Time
}

func (l League) Validate() error {
	if l.ID == "" {
		return fmt.Errorf("league id is required")
	}
	if strings.TrimSpace(l.Name) == "" {
		return fmt.Errorf("league name is required")
	}
	if l.OwnerID == "" {
		return fmt.Errorf("league owner id is required")
	}

	return nil
}

// IsOwnedBy reports whether playerID may administer the league.
func (l League) IsOwnedBy(playerID string) bool {
	return playerID != "" && l.OwnerID == playerID
}

// Member is a player's membership row, ordered by JoinedAt.
type Member struct {
	LeagueID string
	PlayerID string
	Name     string
	JoinedAt time.Time
}
