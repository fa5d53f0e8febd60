package stats

import (
	"slices"
	"time"

	"github.com/samber/lo"

	"github.com/riskibarqy/doubles-league/internal/domain/game"
	"github.com/riskibarqy/doubles-league/internal/domain/league"
	"github.com/riskibarqy/doubles-league/internal/domain/team"
)

// Window is a half-open time range [From, To).
type Window struct {
	From time.Time
	To   time.Time
}

func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.From) && t.Before(w.To)
}

// PlayerTally is a player's played/won count over some set of games.
type PlayerTally struct {
	Played int
	Won    int
}

func (t PlayerTally) ratio() float64 {
	if t.Played == 0 {
		return 0
	}

	return float64(t.Won) / float64(t.Played)
}

func (t PlayerTally) WinRate() float64 {
	return WinRate(t.Won, t.Played)
}

type MVP struct {
	PlayerID string
	Tally    PlayerTally
	WinRate  float64
}

type BiggestLoss struct {
	Team            team.Team
	Game            game.Game
	ScoreDifference int
}

type Improvement struct {
	PlayerID        string
	Current         PlayerTally
	Previous        PlayerTally
	WinRateIncrease float64
}

// WeeklyHighlights compares one week against the week before it.
type WeeklyHighlights struct {
	Window       Window
	MVP          *MVP
	BiggestL     *BiggestLoss
	MostImproved *Improvement
}

type StreakLeader struct {
	PlayerID    string
	PlayerName  string
	Streak      int
	GamesPlayed int
}

type PeriodStats struct {
	BiggestWinStreak  *StreakLeader
	BiggestLoseStreak *StreakLeader
	LastWeek          *WeeklyHighlights
}

// PeriodCalculator buckets a league's games by calendar periods. Weeks start
// on WeekStart in Location.
type PeriodCalculator struct {
	WeekStart time.Weekday
	Location  *time.Location
}

func NewPeriodCalculator(weekStart time.Weekday, loc *time.Location) PeriodCalculator {
	if loc == nil {
		loc = time.UTC
	}

	return PeriodCalculator{WeekStart: weekStart, Location: loc}
}

func (c PeriodCalculator) location() *time.Location {
	if c.Location == nil {
		return time.UTC
	}

	return c.Location
}

// StartOfWeek returns midnight of the first day of the week containing t.
func (c PeriodCalculator) StartOfWeek(t time.Time) time.Time {
	t = t.In(c.location())
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, c.location())
	offset := (int(midnight.Weekday()) - int(c.WeekStart) + 7) % 7

	return midnight.AddDate(0, 0, -offset)
}

// Compute returns streak leaders over the full history and the highlights of
// the last completed week compared with the week before it.
func (c PeriodCalculator) Compute(members []league.Member, games []game.Game, now time.Time) PeriodStats {
	win, lose := Streaks(members, games)

	thisWeek := c.StartOfWeek(now)
	lastWeek := Window{From: thisWeek.AddDate(0, 0, -7), To: thisWeek}
	weekBefore := Window{From: thisWeek.AddDate(0, 0, -14), To: lastWeek.From}

	return PeriodStats{
		BiggestWinStreak:  win,
		BiggestLoseStreak: lose,
		LastWeek:          Highlights(games, lastWeek, weekBefore),
	}
}

// WindowStats tallies every player who took part in a game within w.
func WindowStats(games []game.Game, w Window) map[string]PlayerTally {
	out := make(map[string]PlayerTally)
	for _, g := range games {
		if !w.Contains(g.PlayedAt) {
			continue
		}
		for _, p := range g.Participations {
			for _, playerID := range p.Team.PlayerIDs {
				tally := out[playerID]
				tally.Played++
				if p.Won {
					tally.Won++
				}
				out[playerID] = tally
			}
		}
	}

	return out
}

// Highlights returns nil when no game was played in current.
func Highlights(games []game.Game, current, previous Window) *WeeklyHighlights {
	inWindow := lo.Filter(games, func(g game.Game, _ int) bool {
		return current.Contains(g.PlayedAt)
	})
	if len(inWindow) == 0 {
		return nil
	}

	currentStats := WindowStats(inWindow, current)
	previousStats := WindowStats(games, previous)

	return &WeeklyHighlights{
		Window:       current,
		MVP:          mvp(currentStats),
		BiggestL:     biggestLoss(inWindow),
		MostImproved: mostImproved(currentStats, previousStats),
	}
}

func mvp(tallies map[string]PlayerTally) *MVP {
	ids := lo.Keys(tallies)
	if len(ids) == 0 {
		return nil
	}

	best := lo.MaxBy(ids, func(a, b string) bool {
		ra, rb := tallies[a].ratio(), tallies[b].ratio()
		if ra != rb {
			return ra > rb
		}
		return a < b
	})
	tally := tallies[best]

	return &MVP{PlayerID: best, Tally: tally, WinRate: tally.WinRate()}
}

func biggestLoss(games []game.Game) *BiggestLoss {
	ordered := slices.Clone(games)
	slices.SortStableFunc(ordered, compareGames)

	var out *BiggestLoss
	for _, g := range ordered {
		if len(g.Participations) != 2 {
			continue
		}
		diff := g.ScoreDifference()
		if out != nil && diff <= out.ScoreDifference {
			continue
		}

		loser := g.Participations[0]
		if g.Participations[1].Score < loser.Score {
			loser = g.Participations[1]
		}
		out = &BiggestLoss{Team: loser.Team, Game: g, ScoreDifference: diff}
	}

	return out
}

func mostImproved(current, previous map[string]PlayerTally) *Improvement {
	candidates := lo.Filter(lo.Keys(current), func(playerID string, _ int) bool {
		prev, ok := previous[playerID]
		return ok && prev.Played > 0 && current[playerID].ratio() > prev.ratio()
	})
	if len(candidates) == 0 {
		return nil
	}

	increase := func(playerID string) float64 {
		return current[playerID].ratio() - previous[playerID].ratio()
	}
	best := lo.MaxBy(candidates, func(a, b string) bool {
		ia, ib := increase(a), increase(b)
		if ia != ib {
			return ia > ib
		}
		return a < b
	})

	return &Improvement{
		PlayerID:        best,
		Current:         current[best],
		Previous:        previous[best],
		WinRateIncrease: roundTo2(increase(best)),
	}
}

// Streaks returns the members with the longest current winning and losing
// runs, counted from their most recent game backwards.
func Streaks(members []league.Member, games []game.Game) (win, lose *StreakLeader) {
	if len(members) == 0 {
		return nil, nil
	}

	newestFirst := slices.Clone(games)
	slices.SortStableFunc(newestFirst, func(a, b game.Game) int {
		return compareGames(b, a)
	})

	winners := make([]StreakLeader, 0, len(members))
	losers := make([]StreakLeader, 0, len(members))
	for _, m := range members {
		played := 0
		winRun, loseRun := 0, 0
		winOpen, loseOpen := true, true
		for _, g := range newestFirst {
			own, _, ok := g.SideOf(m.PlayerID)
			if !ok {
				continue
			}
			played++
			if own.Won {
				loseOpen = false
				if winOpen {
					winRun++
				}
			} else {
				winOpen = false
				if loseOpen {
					loseRun++
				}
			}
		}

		winners = append(winners, StreakLeader{PlayerID: m.PlayerID, PlayerName: m.Name, Streak: winRun, GamesPlayed: played})
		losers = append(losers, StreakLeader{PlayerID: m.PlayerID, PlayerName: m.Name, Streak: loseRun, GamesPlayed: played})
	}

	bestWin := lo.MaxBy(winners, longerStreak)
	bestLose := lo.MaxBy(losers, longerStreak)

	return &bestWin, &bestLose
}

func longerStreak(a, b StreakLeader) bool {
	if a.Streak != b.Streak {
		return a.Streak > b.Streak
	}
	if a.GamesPlayed != b.GamesPlayed {
		return a.GamesPlayed > b.GamesPlayed
	}

	return a.PlayerID < b.PlayerID
}

func compareGames(a, b game.Game) int {
	switch {
	case game.Less(a, b):
		return -1
	case game.Less(b, a):
		return 1
	default:
		return 0
	}
}
