package rating

import (
	"math"
	"slices"

	"github.com/riskibarqy/doubles-league/internal/domain/game"
)

// Engine replays a league's games in chronological order and derives a
// rating per player. It is stateless: the same games always yield the same
// ratings.
type Engine struct {
	params Params
}

func NewEngine(params Params) *Engine {
	return &Engine{params: params}
}

func NewDefaultEngine() *Engine {
	return NewEngine(DefaultParams())
}

func (e *Engine) Params() Params {
	return e.params
}

// Compute folds games over the given members. Members start unrated; any
// player that appears in a decided game is rated even when not a member.
// Games without a single winner are skipped but still advance the game
// counter used for the K-factor bands.
func (e *Engine) Compute(memberIDs []string, games []game.Game) Result {
	ordered := slices.Clone(games)
	slices.SortStableFunc(ordered, func(a, b game.Game) int {
		switch {
		case game.Less(a, b):
			return -1
		case game.Less(b, a):
			return 1
		default:
			return 0
		}
	})

	result := Result{
		Ratings: make(map[string]Rating, len(memberIDs)),
		Streaks: make(map[string]int, len(memberIDs)),
		Changes: make([]Change, 0, len(ordered)),
	}
	for _, id := range memberIDs {
		result.Ratings[id] = Rating{}
	}

	gameCount := 0
	for _, g := range ordered {
		gameCount++

		winner, loser, ok := g.Outcome()
		if !ok || winner.Team.SharesPlayerWith(loser.Team) {
			result.SkippedGameIDs = append(result.SkippedGameIDs, g.ID)
			continue
		}

		change := e.apply(&result, g.ID, gameCount, winner, loser)
		result.Changes = append(result.Changes, change)
		result.Processed++
	}

	return result
}

func (e *Engine) apply(result *Result, gameID string, gameNumber int, winner, loser game.Participation) Change {
	p := e.params

	winnerAvg := e.teamAverage(result.Ratings, winner)
	loserAvg := e.teamAverage(result.Ratings, loser)

	expected := 1 / (1 + math.Pow(10, (loserAvg-winnerAvg)/p.Scale))
	k := e.kFactor(gameNumber, winnerAvg-loserAvg)
	scoreMult := scoreMultiplier(winner.Score, loser.Score)

	upset := 1.0
	if loserAvg > winnerAvg {
		upset = 1 + (loserAvg-winnerAvg)/p.Scale*p.UpsetFactor
	}

	baseDelta := k * (1 - expected) * scoreMult * upset

	change := Change{
		GameID:           gameID,
		GameNumber:       gameNumber,
		WinnerAverage:    winnerAvg,
		LoserAverage:     loserAvg,
		Expected:         expected,
		K:                k,
		ScoreMultiplier:  scoreMult,
		UpsetBonus:       upset,
		BaseDelta:        baseDelta,
		StreakMultiplier: make(map[string]float64, 4),
		Deltas:           make(map[string]float64, 4),
	}

	for _, id := range winner.Team.PlayerIDs {
		streak := result.Streaks[id]
		if streak < 0 {
			streak = 0
		}
		streak++
		result.Streaks[id] = streak

		mult := e.streakMultiplier(streak)
		delta := baseDelta * mult
		e.adjust(result.Ratings, id, delta)
		change.StreakMultiplier[id] = mult
		change.Deltas[id] = delta
	}

	for _, id := range loser.Team.PlayerIDs {
		streak := result.Streaks[id]
		if streak > 0 {
			streak = 0
		}
		streak--
		result.Streaks[id] = streak

		mult := e.streakMultiplier(streak)
		delta := -baseDelta * mult
		e.adjust(result.Ratings, id, delta)
		change.StreakMultiplier[id] = mult
		change.Deltas[id] = delta
	}

	return change
}

func (e *Engine) adjust(ratings map[string]Rating, playerID string, delta float64) {
	current := ratings[playerID]
	if !current.Played {
		current = Rating{Value: e.params.BaseRating, Played: true}
	}
	current.Value += delta
	ratings[playerID] = current
}

// teamAverage treats unrated players as sitting on the base rating.
func (e *Engine) teamAverage(ratings map[string]Rating, side game.Participation) float64 {
	total := 0.0
	for _, id := range side.Team.PlayerIDs {
		r := ratings[id]
		if r.Played {
			total += r.Value
			continue
		}
		total += e.params.BaseRating
	}

	return total / float64(len(side.Team.PlayerIDs))
}

func (e *Engine) kFactor(gameNumber int, gap float64) float64 {
	p := e.params

	k := p.BaseK
	if gameNumber > p.MidKAfter {
		k = p.MidK
	}
	if gameNumber > p.LateKAfter {
		k = p.LateK
	}
	if math.Abs(gap) > p.GapThreshold {
		k = math.Min(k+p.GapKBonus, p.MaxK)
	}

	return k
}

func (e *Engine) streakMultiplier(streak int) float64 {
	p := e.params

	abs := streak
	if abs < 0 {
		abs = -abs
	}
	switch {
	case abs < 2:
		return 1
	case abs >= p.StreakCapAt:
		return p.StreakCap
	default:
		return 1 + float64(abs-1)*p.StreakStep
	}
}

// scoreMultiplier ranges over [0.5, 1] with the margin relative to the
// higher score.
func scoreMultiplier(winnerScore, loserScore int) float64 {
	high := max(winnerScore, loserScore)
	if high == 0 {
		return 1
	}
	diff := math.Abs(float64(winnerScore - loserScore))

	return 0.5 + diff/float64(high)*0.5
}
