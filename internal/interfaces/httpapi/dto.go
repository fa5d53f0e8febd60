package httpapi

import (
	"time"

	"github.com/samber/lo"

	"github.com/riskibarqy/doubles-league/internal/domain/game"
	"github.com/riskibarqy/doubles-league/internal/domain/league"
	"github.com/riskibarqy/doubles-league/internal/domain/player"
	"github.com/riskibarqy/doubles-league/internal/domain/stats"
	"github.com/riskibarqy/doubles-league/internal/domain/team"
	"github.com/riskibarqy/doubles-league/internal/usecase"
)

type registerPlayerRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

type createLeagueRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

type createGameRequest struct {
	Team1PlayerIDs []string `json:"team1_player_ids" validate:"required,len=2,dive,required"`
	Team2PlayerIDs []string `json:"team2_player_ids" validate:"required,len=2,dive,required"`
	Team1Score     *int     `json:"team1_score" validate:"required,min=0,max=100"`
	Team2Score     *int     `json:"team2_score" validate:"required,min=0,max=100"`
	PlayedAt       string   `json:"played_at" validate:"required"`
}

type warmLeaderboardsRequest struct {
	LeagueIDs  []string `json:"league_ids" validate:"omitempty,dive,required"`
	MaxWorkers int      `json:"max_workers" validate:"omitempty,min=1,max=64"`
}

type playerDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
}

type leagueDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	OwnerID   string `json:"owner_id"`
	CreatedAt string `json:"created_at"`
}

type joinLeagueDTO struct {
	LeagueID string `json:"league_id"`
	PlayerID string `json:"player_id"`
	Joined   bool   `json:"joined"`
}

type memberDTO struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
	JoinedAt string `json:"joined_at"`
}

type teamDTO struct {
	ID        string   `json:"id"`
	PlayerIDs []string `json:"player_ids"`
}

type participationDTO struct {
	Team  teamDTO `json:"team"`
	Score int     `json:"score"`
	Won   bool    `json:"won"`
}

type gameDTO struct {
	ID             string             `json:"id"`
	LeagueID       string             `json:"league_id"`
	SubmittedBy    string             `json:"submitted_by"`
	PlayedAt       string             `json:"played_at"`
	CreatedAt      string             `json:"created_at"`
	Participations []participationDTO `json:"participations"`
}

type leaderboardEntryDTO struct {
	Rank       int     `json:"rank"`
	PlayerID   string  `json:"player_id"`
	PlayerName string  `json:"player_name"`
	TotalGames int     `json:"total_games"`
	Wins       int     `json:"wins"`
	Losses     int     `json:"losses"`
	ScoreDiff  int     `json:"score_diff"`
	WinRate    float64 `json:"win_rate"`
	MMR        int     `json:"mmr"`
}

type teamStatDTO struct {
	Team    teamDTO `json:"team"`
	Played  int     `json:"played"`
	Won     int     `json:"won"`
	WinRate float64 `json:"win_rate"`
}

type tallyDTO struct {
	Played  int     `json:"played"`
	Won     int     `json:"won"`
	WinRate float64 `json:"win_rate"`
}

type mvpDTO struct {
	PlayerID string   `json:"player_id"`
	Tally    tallyDTO `json:"tally"`
}

type biggestLossDTO struct {
	Team            teamDTO `json:"team"`
	GameID          string  `json:"game_id"`
	ScoreDifference int     `json:"score_difference"`
}

type improvementDTO struct {
	PlayerID        string   `json:"player_id"`
	Current         tallyDTO `json:"current"`
	Previous        tallyDTO `json:"previous"`
	WinRateIncrease float64  `json:"win_rate_increase"`
}

type weeklyHighlightsDTO struct {
	From         string          `json:"from"`
	To           string          `json:"to"`
	MVP          *mvpDTO         `json:"mvp"`
	BiggestL     *biggestLossDTO `json:"biggest_l"`
	MostImproved *improvementDTO `json:"most_improved"`
}

type streakLeaderDTO struct {
	PlayerID    string `json:"player_id"`
	PlayerName  string `json:"player_name"`
	Streak      int    `json:"streak"`
	GamesPlayed int    `json:"games_played"`
}

type periodStatsDTO struct {
	BiggestWinStreak  *streakLeaderDTO     `json:"biggest_win_streak"`
	BiggestLoseStreak *streakLeaderDTO     `json:"biggest_lose_streak"`
	LastWeek          *weeklyHighlightsDTO `json:"last_week"`
}

type leaguePageDTO struct {
	League      leagueDTO             `json:"league"`
	MemberCount int                   `json:"member_count"`
	Leaderboard []leaderboardEntryDTO `json:"leaderboard"`
	TeamStats   []teamStatDTO         `json:"team_stats"`
	Stats       periodStatsDTO        `json:"stats"`
}

type activityBucketDTO struct {
	Label   string  `json:"label"`
	From    string  `json:"from"`
	Played  int     `json:"played"`
	Won     int     `json:"won"`
	WinRate float64 `json:"win_rate"`
}

type playerActivityDTO struct {
	Player   playerDTO           `json:"player"`
	LeagueID string              `json:"league_id"`
	Monthly  []activityBucketDTO `json:"monthly"`
	Weekly   []activityBucketDTO `json:"weekly"`
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// parsePlayedAt accepts RFC3339 timestamps and plain calendar dates.
func parsePlayedAt(raw string) (time.Time, bool) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.DateOnly, raw); err == nil {
		return t, true
	}
	return time.Time{}, false
}

func playerToDTO(v player.Player) playerDTO {
	return playerDTO{ID: v.ID, Name: v.Name, CreatedAt: formatTime(v.CreatedAt)}
}

func leagueToDTO(v league.League) leagueDTO {
	return leagueDTO{ID: v.ID, Name: v.Name, OwnerID: v.OwnerID, CreatedAt: formatTime(v.CreatedAt)}
}

func memberToDTO(v league.Member, _ int) memberDTO {
	return memberDTO{PlayerID: v.PlayerID, Name: v.Name, JoinedAt: formatTime(v.JoinedAt)}
}

func teamToDTO(v team.Team) teamDTO {
	return teamDTO{ID: v.ID, PlayerIDs: []string{v.PlayerIDs[0], v.PlayerIDs[1]}}
}

func gameToDTO(v game.Game, _ int) gameDTO {
	return gameDTO{
		ID:          v.ID,
		LeagueID:    v.LeagueID,
		SubmittedBy: v.SubmittedBy,
		PlayedAt:    formatTime(v.PlayedAt),
		CreatedAt:   formatTime(v.CreatedAt),
		Participations: lo.Map(v.Participations, func(p game.Participation, _ int) participationDTO {
			return participationDTO{Team: teamToDTO(p.Team), Score: p.Score, Won: p.Won}
		}),
	}
}

func leaderboardEntryToDTO(v stats.LeaderboardEntry, _ int) leaderboardEntryDTO {
	return leaderboardEntryDTO{
		Rank:       v.Rank,
		PlayerID:   v.PlayerID,
		PlayerName: v.PlayerName,
		TotalGames: v.TotalGames,
		Wins:       v.Wins,
		Losses:     v.Losses,
		ScoreDiff:  v.ScoreDiff,
		WinRate:    v.WinRate,
		MMR:        v.MMR,
	}
}

func teamStatToDTO(v stats.TeamStat, _ int) teamStatDTO {
	return teamStatDTO{
		Team:    teamToDTO(v.Team),
		Played:  v.Played,
		Won:     v.Won,
		WinRate: stats.WinRate(v.Won, v.Played),
	}
}

func tallyToDTO(v stats.PlayerTally) tallyDTO {
	return tallyDTO{Played: v.Played, Won: v.Won, WinRate: v.WinRate()}
}

func streakToDTO(v *stats.StreakLeader) *streakLeaderDTO {
	if v == nil {
		return nil
	}
	return &streakLeaderDTO{
		PlayerID:    v.PlayerID,
		PlayerName:  v.PlayerName,
		Streak:      v.Streak,
		GamesPlayed: v.GamesPlayed,
	}
}

func highlightsToDTO(v *stats.WeeklyHighlights) *weeklyHighlightsDTO {
	if v == nil {
		return nil
	}

	out := &weeklyHighlightsDTO{
		From: formatTime(v.Window.From),
		To:   formatTime(v.Window.To),
	}
	if v.MVP != nil {
		out.MVP = &mvpDTO{PlayerID: v.MVP.PlayerID, Tally: tallyToDTO(v.MVP.Tally)}
	}
	if v.BiggestL != nil {
		out.BiggestL = &biggestLossDTO{
			Team:            teamToDTO(v.BiggestL.Team),
			GameID:          v.BiggestL.Game.ID,
			ScoreDifference: v.BiggestL.ScoreDifference,
		}
	}
	if v.MostImproved != nil {
		out.MostImproved = &improvementDTO{
			PlayerID:        v.MostImproved.PlayerID,
			Current:         tallyToDTO(v.MostImproved.Current),
			Previous:        tallyToDTO(v.MostImproved.Previous),
			WinRateIncrease: v.MostImproved.WinRateIncrease,
		}
	}

	return out
}

func periodStatsToDTO(v stats.PeriodStats) periodStatsDTO {
	return periodStatsDTO{
		BiggestWinStreak:  streakToDTO(v.BiggestWinStreak),
		BiggestLoseStreak: streakToDTO(v.BiggestLoseStreak),
		LastWeek:          highlightsToDTO(v.LastWeek),
	}
}

func leaguePageToDTO(v usecase.LeaguePage) leaguePageDTO {
	return leaguePageDTO{
		League:      leagueToDTO(v.League),
		MemberCount: v.MemberCount,
		Leaderboard: lo.Map(v.Leaderboard, leaderboardEntryToDTO),
		TeamStats:   lo.Map(v.TeamStats, teamStatToDTO),
		Stats:       periodStatsToDTO(v.Period),
	}
}

func activityToDTO(v stats.ActivityBucket, _ int) activityBucketDTO {
	return activityBucketDTO{
		Label:   v.Label,
		From:    formatTime(v.Window.From),
		Played:  v.Played,
		Won:     v.Won,
		WinRate: stats.WinRate(v.Won, v.Played),
	}
}

func playerActivityToDTO(v usecase.PlayerActivity) playerActivityDTO {
	return playerActivityDTO{
		Player:   playerToDTO(v.Player),
		LeagueID: v.LeagueID,
		Monthly:  lo.Map(v.Monthly, activityToDTO),
		Weekly:   lo.Map(v.Weekly, activityToDTO),
	}
}
