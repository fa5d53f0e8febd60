package game

import (
	"fmt"
	"time"

	"github.com/riskibarqy/doubles-league/internal/domain/team"
)

// Participation is one team's side of a game.
type Participation struct {
	Team  team.Team
	Score int
	Won   bool
}

// Game is a recorded match between two teams inside one league.
//
// Seq is a monotonically increasing insertion sequence used to break ties
// between games played at the same instant.
type Game struct {
	ID             string
	Seq            int64
	LeagueID       string
	SubmittedBy    string
	PlayedAt       time.Time
	CreatedAt      time.Time
	Participations []Participation
}

// Outcome returns the winning and losing sides. ok is false when the game
// does not have exactly two sides with one winner and one loser, or when
// both sides hold the same score.
func (g Game) Outcome() (winner, loser Participation, ok bool) {
	if len(g.Participations) != 2 {
		return Participation{}, Participation{}, false
	}

	first, second := g.Participations[0], g.Participations[1]
	if first.Won == second.Won || first.Score == second.Score {
		return Participation{}, Participation{}, false
	}
	if first.Won {
		return first, second, true
	}

	return second, first, true
}

// SideOf returns the participation of the team that playerID played for and
// the opposing side when one exists.
func (g Game) SideOf(playerID string) (own Participation, opponent *Participation, ok bool) {
	idx := -1
	for i, p := range g.Participations {
		if p.Team.Has(playerID) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Participation{}, nil, false
	}

	own = g.Participations[idx]
	for i := range g.Participations {
		if i != idx {
			opp := g.Participations[i]
			return own, &opp, true
		}
	}

	return own, nil, true
}

// ScoreDifference is the absolute margin between the two sides.
func (g Game) ScoreDifference() int {
	if len(g.Participations) != 2 {
		return 0
	}
	diff := g.Participations[0].Score - g.Participations[1].Score
	if diff < 0 {
		return -diff
	}

	return diff
}

// PlayerIDs lists every player that took part, team by team.
func (g Game) PlayerIDs() []string {
	out := make([]string, 0, len(g.Participations)*2)
	for _, p := range g.Participations {
		out = append(out, p.Team.PlayerIDs[0], p.Team.PlayerIDs[1])
	}

	return out
}

func (g Game) Validate() error {
	if g.ID == "" {
		return fmt.Errorf("game id is required")
	}
	if g.LeagueID == "" {
		return fmt.Errorf("game league id is required")
	}
	if g.PlayedAt.IsZero() {
		return fmt.Errorf("game played at is required")
	}
	if len(g.Participations) != 2 {
		return ErrInvalidParticipants
	}
	if g.Participations[0].Team.ID == g.Participations[1].Team.ID ||
		g.Participations[0].Team.SharesPlayerWith(g.Participations[1].Team) {
		return ErrInvalidParticipants
	}

	return ValidateScores(g.Participations[0].Score, g.Participations[1].Score)
}

// Less orders games chronologically, falling back to insertion order.
func Less(a, b Game) bool {
	if !a.PlayedAt.Equal(b.PlayedAt) {
		return a.PlayedAt.Before(b.PlayedAt)
	}

	return a.Seq < b.Seq
}
