package stats

import (
	"cmp"
	"slices"

	"github.com/riskibarqy/doubles-league/internal/domain/game"
	"github.com/riskibarqy/doubles-league/internal/domain/team"
)

type TeamStat struct {
	Team   team.Team
	Played int
	Won    int
}

// TeamStats accumulates results per team that took part in at least one
// game. Teams with more wins come first; on equal wins the team that needed
// fewer games ranks higher.
func TeamStats(games []game.Game) []TeamStat {
	byTeam := make(map[string]*TeamStat)
	for _, g := range games {
		for _, p := range g.Participations {
			stat, ok := byTeam[p.Team.ID]
			if !ok {
				stat = &TeamStat{Team: p.Team}
				byTeam[p.Team.ID] = stat
			}
			stat.Played++
			if p.Won {
				stat.Won++
			}
		}
	}

	out := make([]TeamStat, 0, len(byTeam))
	for _, stat := range byTeam {
		out = append(out, *stat)
	}
	slices.SortFunc(out, func(a, b TeamStat) int {
		return cmp.Or(
			cmp.Compare(b.Won, a.Won),
			cmp.Compare(a.Played, b.Played),
			cmp.Compare(a.Team.ID, b.Team.ID),
		)
	})

	return out
}
