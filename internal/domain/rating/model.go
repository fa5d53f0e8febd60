package rating

import "math"

// Rating is a player's running value. Players who never took part in a
// decided game are unrated and present an MMR of 0.
type Rating struct {
	Value  float64 `json:"value"`
	Played bool    `json:"played"`
}

// MMR is the presentation value, rounded half away from zero.
func (r Rating) MMR() int {
	if !r.Played {
		return 0
	}

	return int(math.Round(r.Value))
}

// Change records how one game moved the ratings of its players.
type Change struct {
	GameID           string
	GameNumber       int
	WinnerAverage    float64
	LoserAverage     float64
	Expected         float64
	K                float64
	ScoreMultiplier  float64
	UpsetBonus       float64
	BaseDelta        float64
	StreakMultiplier map[string]float64
	Deltas           map[string]float64
}

// Result is the output of a full replay.
type Result struct {
	Ratings        map[string]Rating
	Streaks        map[string]int
	Processed      int
	SkippedGameIDs []string
	Changes        []Change
}

// RatingOf returns the player's rating, unrated when absent.
func (r Result) RatingOf(playerID string) Rating {
	return r.Ratings[playerID]
}
