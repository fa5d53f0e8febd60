package stats

import (
	"time"

	"github.com/riskibarqy/doubles-league/internal/domain/game"
	"github.com/riskibarqy/doubles-league/internal/domain/league"
	"github.com/riskibarqy/doubles-league/internal/domain/team"
)

func pair(a, b string) team.Team {
	p, err := team.NewPair(a, b)
	if err != nil {
		panic(err)
	}
	t := team.Team{PlayerIDs: p}
	t.ID = "team-" + t.Key()
	return t
}

func played(id string, seq int64, at time.Time, first team.Team, firstScore int, second team.Team, secondScore int) game.Game {
	return game.Game{
		ID:       id,
		Seq:      seq,
		LeagueID: "league-1",
		PlayedAt: at,
		Participations: []game.Participation{
			{Team: first, Score: firstScore, Won: firstScore > secondScore},
			{Team: second, Score: secondScore, Won: secondScore > firstScore},
		},
	}
}

func members(ids ...string) []league.Member {
	out := make([]league.Member, 0, len(ids))
	for _, id := range ids {
		out = append(out, league.Member{LeagueID: "league-1", PlayerID: id, Name: "name-" + id})
	}
	return out
}

func day(month time.Month, d int) time.Time {
	return time.Date(2026, month, d, 19, 0, 0, 0, time.UTC)
}
