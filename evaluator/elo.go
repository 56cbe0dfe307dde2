package evaluator

import "math"

// RPri is the rating prior granted to side 0 when computing its expected score.
const RPri = 40

// kTable holds the K-factor of each thousand-point rating tier. Ratings of 3000 and
// above use the last entry.
var kTable = [...]int{30, 15, 10, 5}

func kFactor(rating int) int {
	tier := rating / 1000
	if tier >= len(kTable) {
		tier = len(kTable) - 1
	}
	if tier < 0 {
		tier = 0
	}
	return kTable[tier]
}

// ComputeElo returns the ratings of both sides after one game. w is the result from
// side 0's perspective: 1 for a win, 0.5 for a draw and 0 for a loss. Results are
// truncated to integers and never drop below 0.
func ComputeElo(r0, r1 int, w float64) (int, int) {
	we := 1 / (1 + math.Pow(10, float64(r1-r0-RPri)/400))
	k0, k1 := kFactor(r0), kFactor(r1)
	rn0 := int(float64(r0) + float64(k0)*(w-we))
	rn1 := int(float64(r1) + float64(k1)*(we-w))
	return max(rn0, 0), max(rn1, 0)
}

