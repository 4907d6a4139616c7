package searcher

import "math"

const (
	DefaultExploration = 0.7   // UCB1 exploration constant
	DefaultIterations  = 10000 // Search iterations per move
)

// ucb1 = wins/visits + c*sqrt(ln(avails)/visits)
func ucb1(wins float64, visits, avails int, c float64) float64 {
	if visits == 0 {
		panic("cannot compute UCB1: 0 visits")
	}
	n := float64(visits)
	return wins/n + c*math.Sqrt(math.Log(float64(avails))/n)
}
