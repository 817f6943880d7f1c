// Package sentiment is a keyword-based mood classifier used to pick a
// friendlier phrasing and to decide when a human should take over. It
// never influences the loan decision itself.
package sentiment

import "strings"

const (
	Neutral  = "neutral"
	Positive = "positive"
	Negative = "negative"
	Urgent   = "urgent"
	Confused = "confused"
)

var keywords = map[string][]string{
	Positive: {"great", "thanks", "thank you", "awesome", "perfect", "good", "nice", "excellent"},
	Negative: {"bad", "terrible", "angry", "frustrated", "annoyed", "worst", "useless", "waste"},
	Urgent:   {"urgent", "asap", "immediately", "emergency", "right now", "hurry"},
	Confused: {"confused", "don't understand", "do not understand", "what do you mean", "unclear", "lost"},
}

// Result is the classification of one message.
type Result struct {
	Dominant   string
	Confidence float64
	States     map[string]int
}

// Classify counts keyword hits per mood and reports the dominant one.
// No hits yields a neutral result with zero confidence.
func Classify(text string) Result {
	lower := strings.ToLower(text)

	states := make(map[string]int, len(keywords))
	total := 0
	for state, words := range keywords {
		for _, w := range words {
			if strings.Contains(lower, w) {
				states[state]++
				total++
			}
		}
	}

	if total == 0 {
		return Result{Dominant: Neutral, States: states}
	}

	dominant := Neutral
	best := 0
	for _, state := range []string{Urgent, Negative, Confused, Positive} {
		if states[state] > best {
			best = states[state]
			dominant = state
		}
	}

	return Result{
		Dominant:   dominant,
		Confidence: float64(best) / float64(total),
		States:     states,
	}
}

// ShouldEscalate reports whether the message reads distressed enough to
// hand off to a human.
func (r Result) ShouldEscalate(threshold float64) bool {
	if r.Dominant != Negative && r.Dominant != Urgent {
		return false
	}
	return r.Confidence >= threshold
}
