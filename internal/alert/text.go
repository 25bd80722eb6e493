package alert

import (
	"strings"

	"github.com/shopspring/decimal"

	"signalboard/internal/models"
)

var hundred = decimal.NewFromInt(100)

// Text renders the chat message for one signal. Ratios are formatted with
// decimal so 0.925 reads "92.5%" and never "92.50000000000001%".
func Text(sig models.Signal) string {
	var b strings.Builder

	b.WriteString("[")
	b.WriteString(strings.ToUpper(sig.PredictedClass))
	b.WriteString("] ")
	b.WriteString(sig.Platform)
	b.WriteString(" round ")
	b.WriteString(sig.RoundID)
	b.WriteString("\n")

	b.WriteString("confidence ")
	b.WriteString(percent(sig.Confidence))
	b.WriteString(" | action ")
	b.WriteString(sig.RecommendedAction)
	if sig.SuggestedBetPct != nil {
		b.WriteString(" | bet ")
		b.WriteString(percent(*sig.SuggestedBetPct))
	}
	if sig.PredictedMultiplier != nil {
		b.WriteString(" | multiplier ")
		b.WriteString(decimal.NewFromFloat(*sig.PredictedMultiplier).String())
		b.WriteString("x")
	}
	b.WriteString("\n")

	b.WriteString("model ")
	b.WriteString(sig.ModelVersion)
	if sig.Source != nil && *sig.Source != "" {
		b.WriteString(" | source ")
		b.WriteString(*sig.Source)
	}

	return b.String()
}

func percent(ratio float64) string {
	return decimal.NewFromFloat(ratio).Mul(hundred).String() + "%"
}
