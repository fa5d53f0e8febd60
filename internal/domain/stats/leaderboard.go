package stats

import (
	"math"
	"slices"

	"github.com/riskibarqy/doubles-league/internal/domain/game"
	"github.com/riskibarqy/doubles-league/internal/domain/league"
	"github.com/riskibarqy/doubles-league/internal/domain/rating"
)

// LeaderboardEntry is one member's row on the league leaderboard.
type LeaderboardEntry struct {
	PlayerID   string
	PlayerName string
	TotalGames int
	Wins       int
	Losses     int
	ScoreDiff  int
	WinRate    float64
	MMR        int
	Rank       int
}

// BuildLeaderboard ranks every member by MMR, highest first. Members keep
// their input order when MMR is tied and members without games are still
// listed.
func BuildLeaderboard(members []league.Member, games []game.Game, ratings map[string]rating.Rating) []LeaderboardEntry {
	entries := make([]LeaderboardEntry, 0, len(members))
	for _, m := range members {
		entry := LeaderboardEntry{
			PlayerID:   m.PlayerID,
			PlayerName: m.Name,
			MMR:        ratings[m.PlayerID].MMR(),
		}

		for _, g := range games {
			own, opponent, ok := g.SideOf(m.PlayerID)
			if !ok {
				continue
			}
			entry.TotalGames++
			if own.Won {
				entry.Wins++
			} else {
				entry.Losses++
			}
			if opponent != nil {
				entry.ScoreDiff += own.Score - opponent.Score
			}
		}
		entry.WinRate = WinRate(entry.Wins, entry.TotalGames)

		entries = append(entries, entry)
	}

	slices.SortStableFunc(entries, func(a, b LeaderboardEntry) int {
		return b.MMR - a.MMR
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}

	return entries
}

// WinRate is won/played rounded to two decimals, 0 when nothing was played.
func WinRate(won, played int) float64 {
	if played == 0 {
		return 0
	}

	return roundTo2(float64(won) / float64(played))
}

func roundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}
