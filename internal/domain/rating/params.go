package rating

// Params tunes the rating replay. DefaultParams holds the league values.
type Params struct {
	BaseRating float64
	Scale      float64

	// K-factor bands keyed by the global number of processed games.
	BaseK      float64
	MidK       float64
	MidKAfter  int
	LateK      float64
	LateKAfter int

	// Gap adjustment applied when the team averages are far apart.
	GapThreshold float64
	GapKBonus    float64
	MaxK         float64

	UpsetFactor float64

	StreakStep  float64
	StreakCapAt int
	StreakCap   float64
}

func DefaultParams() Params {
	return Params{
		BaseRating:   1000,
		Scale:        400,
		BaseK:        32,
		MidK:         24,
		MidKAfter:    20,
		LateK:        16,
		LateKAfter:   50,
		GapThreshold: 200,
		GapKBonus:    8,
		MaxK:         40,
		UpsetFactor:  0.3,
		StreakStep:   0.1,
		StreakCapAt:  5,
		StreakCap:    1.4,
	}
}
