package team

import (
	"fmt"
	"slices"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
)

var (
	ErrInvalidTeamComposition = crerr.New("team must have two distinct players")
	ErrDuplicateTeam          = crerr.New("team already exists")
)

const keySeparator = ":"

// Team is an unordered pair of players. The pair is stored sorted so that
// {a,b} and {b,a} resolve to the same team.
type Team struct {
	ID        string
	PlayerIDs [2]string
	CreatedAt time.Time
}

// NewPair returns the canonical, sorted form of a two-player composition.
func NewPair(playerA, playerB string) ([2]string, error) {
	playerA = strings.TrimSpace(playerA)
	playerB = strings.TrimSpace(playerB)
	if playerA == "" || playerB == "" || playerA == playerB {
		return [2]string{}, crerr.WithDetailf(ErrInvalidTeamComposition, "players=%q,%q", playerA, playerB)
	}

	pair := [2]string{playerA, playerB}
	slices.Sort(pair[:])
	return pair, nil
}

// PairKey is the unique lookup key of a composition.
func PairKey(playerA, playerB string) (string, error) {
	pair, err := NewPair(playerA, playerB)
	if err != nil {
		return "", err
	}

	return pair[0] + keySeparator + pair[1], nil
}

func (t Team) Key() string {
	return t.PlayerIDs[0] + keySeparator + t.PlayerIDs[1]
}

func (t Team) Has(playerID string) bool {
	return playerID != "" && (t.PlayerIDs[0] == playerID || t.PlayerIDs[1] == playerID)
}

// SharesPlayerWith reports whether both teams field the same player.
func (t Team) SharesPlayerWith(other Team) bool {
	return other.Has(t.PlayerIDs[0]) || other.Has(t.PlayerIDs[1])
}

func (t Team) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("team id is required")
	}
	if t.PlayerIDs[0] == "" || t.PlayerIDs[1] == "" || t.PlayerIDs[0] == t.PlayerIDs[1] {
		return ErrInvalidTeamComposition
	}
	if t.PlayerIDs[0] > t.PlayerIDs[1] {
		return fmt.Errorf("team players must be stored in canonical order")
	}

	return nil
}
