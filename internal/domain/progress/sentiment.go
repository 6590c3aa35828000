package progress

import "strings"

// Sentiment is the lexical tone tag derived from a chat message.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// IsValid checks that the sentiment is one of the three known tags.
func (s Sentiment) IsValid() bool {
	switch s {
	case SentimentPositive, SentimentNegative, SentimentNeutral:
		return true
	default:
		return false
	}
}

// The fixed word lists behind the classifier. These are load-bearing:
// conformance tests depend on the exact entries, so do not "improve" them.
var (
	positiveWords = []string{
		"good", "great", "awesome", "excellent", "happy",
		"thanks", "thank you", "helpful", "love", "like",
	}
	negativeWords = []string{
		"bad", "terrible", "hate", "difficult", "hard",
		"confused", "problem", "issue", "don't understand",
	}
)

// Classify tags a message as positive, negative, or neutral using a
// case-insensitive substring match against the two fixed word lists.
// Each list word counts at most once per message; ties (including no
// matches at all) are neutral. This is a naive lexical heuristic, not
// real sentiment analysis.
func Classify(text string) Sentiment {
	lower := strings.ToLower(text)

	var positive, negative int
	for _, w := range positiveWords {
		if strings.Contains(lower, w) {
			positive++
		}
	}
	for _, w := range negativeWords {
		if strings.Contains(lower, w) {
			negative++
		}
	}

	switch {
	case positive > negative:
		return SentimentPositive
	case negative > positive:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}
