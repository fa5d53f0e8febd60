package game

import (
	crerr "github.com/cockroachdb/errors"
)

const (
	MinWinningScore = 21
	MinMargin       = 2
	MaxScore        = 100
)

var (
	ErrDraw                = crerr.New("game cannot end in a draw")
	ErrWinnerBelowMinimum  = crerr.Newf("winning score must be at least %d", MinWinningScore)
	ErrMarginTooSmall      = crerr.Newf("winning margin must be at least %d", MinMargin)
	ErrScoreOutOfRange     = crerr.Newf("scores must be between 0 and %d", MaxScore)
	ErrInvalidParticipants = crerr.New("game needs two teams with four distinct players")
)

// ValidateScores applies the submission rules for a final score line.
func ValidateScores(team1Score, team2Score int) error {
	if team1Score < 0 || team1Score > MaxScore || team2Score < 0 || team2Score > MaxScore {
		return crerr.WithDetailf(ErrScoreOutOfRange, "scores=%d-%d", team1Score, team2Score)
	}
	if team1Score == team2Score {
		return ErrDraw
	}

	winner, loser := team1Score, team2Score
	if loser > winner {
		winner, loser = loser, winner
	}
	if winner < MinWinningScore {
		return crerr.WithDetailf(ErrWinnerBelowMinimum, "winner=%d", winner)
	}
	if winner-loser < MinMargin {
		return crerr.WithDetailf(ErrMarginTooSmall, "margin=%d", winner-loser)
	}

	return nil
}
