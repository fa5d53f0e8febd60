package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/doubles-league/internal/domain/game"
	"github.com/riskibarqy/doubles-league/internal/domain/league"
	"github.com/riskibarqy/doubles-league/internal/domain/player"
	"github.com/riskibarqy/doubles-league/internal/domain/team"
)

const DemoLeagueID = "demo-thursday-doubles"

func SeedPlayers(now time.Time) []player.Player {
	created := now.AddDate(0, -2, 0).UTC()
	return []player.Player{
		{ID: "demo-ana", Name: "Ana", CreatedAt: created},
		{ID: "demo-budi", Name: "Budi", CreatedAt: created},
		{ID: "demo-citra", Name: "Citra", CreatedAt: created},
		{ID: "demo-dewi", Name: "Dewi", CreatedAt: created},
		{ID: "demo-eko", Name: "Eko", CreatedAt: created},
		{ID: "demo-fajar", Name: "Fajar", CreatedAt: created},
	}
}

func SeedLeagues(now time.Time) []league.League {
	return []league.League{
		{
			ID:        DemoLeagueID,
			Name:      "Thursday Doubles",
			OwnerID:   "demo-ana",
			CreatedAt: now.AddDate(0, -2, 0).UTC(),
		},
	}
}

type seedGame struct {
	daysAgo      int
	team1, team2 [2]string
	score1       int
	score2       int
}

var seedGames = []seedGame{
	{daysAgo: 20, team1: [2]string{"demo-ana", "demo-budi"}, team2: [2]string{"demo-citra", "demo-dewi"}, score1: 21, score2: 17},
	{daysAgo: 18, team1: [2]string{"demo-eko", "demo-fajar"}, team2: [2]string{"demo-ana", "demo-budi"}, score1: 21, score2: 19},
	{daysAgo: 13, team1: [2]string{"demo-citra", "demo-dewi"}, team2: [2]string{"demo-eko", "demo-fajar"}, score1: 15, score2: 21},
	{daysAgo: 11, team1: [2]string{"demo-ana", "demo-citra"}, team2: [2]string{"demo-budi", "demo-eko"}, score1: 23, score2: 21},
	{daysAgo: 6, team1: [2]string{"demo-dewi", "demo-fajar"}, team2: [2]string{"demo-ana", "demo-citra"}, score1: 12, score2: 21},
	{daysAgo: 4, team1: [2]string{"demo-budi", "demo-dewi"}, team2: [2]string{"demo-eko", "demo-fajar"}, score1: 21, score2: 8},
	{daysAgo: 1, team1: [2]string{"demo-ana", "demo-budi"}, team2: [2]string{"demo-citra", "demo-dewi"}, score1: 30, score2: 28},
}

// Seed fills the repositories with a demo league so a fresh deployment has
// something to rank.
func Seed(ctx context.Context, players player.Repository, leagues league.Repository, teams team.Repository, games game.Repository, now time.Time) error {
	for _, p := range SeedPlayers(now) {
		if err := players.Create(ctx, p); err != nil {
			return fmt.Errorf("seed player %s: %w", p.ID, err)
		}
	}
	for _, l := range SeedLeagues(now) {
		if err := leagues.Create(ctx, l); err != nil {
			return fmt.Errorf("seed league %s: %w", l.ID, err)
		}
		for i, p := range SeedPlayers(now) {
			joinedAt := l.CreatedAt.Add(time.Duration(i) * time.Minute)
			if _, err := leagues.AddMember(ctx, l.ID, p.ID, joinedAt); err != nil {
				return fmt.Errorf("seed league member %s: %w", p.ID, err)
			}
		}
	}

	for i, sg := range seedGames {
		team1, err := seedTeam(ctx, teams, sg.team1, now)
		if err != nil {
			return err
		}
		team2, err := seedTeam(ctx, teams, sg.team2, now)
		if err != nil {
			return err
		}

		playedAt := now.AddDate(0, 0, -sg.daysAgo).UTC()
		_, err = games.Create(ctx, game.Game{
			ID:          fmt.Sprintf("demo-game-%02d", i+1),
			LeagueID:    DemoLeagueID,
			SubmittedBy: "demo-ana",
			PlayedAt:    playedAt,
			CreatedAt:   playedAt,
			Participations: []game.Participation{
				{Team: team1, Score: sg.score1, Won: sg.score1 > sg.score2},
				{Team: team2, Score: sg.score2, Won: sg.score2 > sg.score1},
			},
		})
		if err != nil {
			return fmt.Errorf("seed game %d: %w", i+1, err)
		}
	}

	return nil
}

func seedTeam(ctx context.Context, teams team.Repository, players [2]string, now time.Time) (team.Team, error) {
	key, err := team.PairKey(players[0], players[1])
	if err != nil {
		return team.Team{}, err
	}
	if existing, ok, _ := teams.FindByKey(ctx, key); ok {
		return existing, nil
	}

	pair, _ := team.NewPair(players[0], players[1])
	item := team.Team{ID: "demo-team-" + key, PlayerIDs: pair, CreatedAt: now.UTC()}
	if err := teams.Create(ctx, item); err != nil {
		return team.Team{}, fmt.Errorf("seed team %s: %w", key, err)
	}

	return item, nil
}
