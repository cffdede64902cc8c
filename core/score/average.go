package score

import (
	"math"
	"strconv"

	"github.com/volatiletech/null/v8"
)

// DefaultPassThreshold is used when the settings collaborator is unavailable.
const DefaultPassThreshold = 5.0

type Result string

const (
	ResultNone Result = ""
	ResultPass Result = "pass"
	ResultFail Result = "fail"
)

// WeightedAverage computes the subject average from the quiz and test scores,
// the test counting double: (quiz + 2*test) / 3, rounded half-up to two
// decimals. If either score is null there is no result to display.
func WeightedAverage(quiz, test null.Float64) string {
	if !quiz.Valid || !test.Valid {
		return ""
	}
	avg := (quiz.Float64 + 2*test.Float64) / 3
	return FormatScore(roundHalfUp(avg))
}

// Classify compares a displayed average against the pass threshold.
func Classify(avg string, threshold float64) Result {
	if avg == "" {
		return ResultNone
	}
	v, err := strconv.ParseFloat(avg, 64)
	if err != nil {
		return ResultNone
	}
	if v >= threshold {
		return ResultPass
	}
	return ResultFail
}

// FormatScore renders a numeric score in the canonical two-decimal display
// form.
func FormatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func roundHalfUp(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}
