package stats

import (
	"time"

	"github.com/riskibarqy/doubles-league/internal/domain/game"
)

const (
	MonthLabelLayout = "01-2006"
	WeekLabelLayout  = "2006-01-02"
)

// ActivityBucket is one period of a player's history.
type ActivityBucket struct {
	Label  string
	Window Window
	Played int
	Won    int
}

// MonthlyActivity buckets the player's games into the last months calendar
// months, the current month included, oldest first.
func (c PeriodCalculator) MonthlyActivity(playerID string, games []game.Game, now time.Time, months int) []ActivityBucket {
	if months <= 0 {
		return []ActivityBucket{}
	}

	now = now.In(c.location())
	current := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, c.location())

	buckets := make([]ActivityBucket, 0, months)
	for i := months - 1; i >= 0; i-- {
		from := current.AddDate(0, -i, 0)
		buckets = append(buckets, ActivityBucket{
			Label:  from.Format(MonthLabelLayout),
			Window: Window{From: from, To: from.AddDate(0, 1, 0)},
		})
	}

	return fillBuckets(buckets, playerID, games)
}

// WeeklyActivity buckets the player's games into the last weeks weeks, the
// current week included, oldest first.
func (c PeriodCalculator) WeeklyActivity(playerID string, games []game.Game, now time.Time, weeks int) []ActivityBucket {
	if weeks <= 0 {
		return []ActivityBucket{}
	}

	current := c.StartOfWeek(now)

	buckets := make([]ActivityBucket, 0, weeks)
	for i := weeks - 1; i >= 0; i-- {
		from := current.AddDate(0, 0, -7*i)
		buckets = append(buckets, ActivityBucket{
			Label:  from.Format(WeekLabelLayout),
			Window: Window{From: from, To: from.AddDate(0, 0, 7)},
		})
	}

	return fillBuckets(buckets, playerID, games)
}

func fillBuckets(buckets []ActivityBucket, playerID string, games []game.Game) []ActivityBucket {
	for _, g := range games {
		own, _, ok := g.SideOf(playerID)
		if !ok {
			continue
		}
		for i := range buckets {
			if !buckets[i].Window.Contains(g.PlayedAt) {
				continue
			}
			buckets[i].Played++
			if own.Won {
				buckets[i].Won++
			}
			break
		}
	}

	return buckets
}
