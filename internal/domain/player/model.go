package player

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

const MaxNameLength = 255

// Player is a registered person who can join leagues and play games.
type Player struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

func (p Player) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("player id is required")
	}
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return fmt.Errorf("player name is required")
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return fmt.Errorf("player name must be at most %d characters", MaxNameLength)
	}

	return nil
}
