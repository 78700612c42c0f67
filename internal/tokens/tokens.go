// Package tokens provides a cheap token-count heuristic used to gate
// provider calls. It deliberately avoids a real tokenizer: the budget
// checks only need the right order of magnitude, and the heuristic is
// pure and allocation-free.
package tokens

// CharsPerToken is the assumed average characters per token.
const CharsPerToken = 4

// messageOverhead approximates the per-message envelope cost in tokens.
const messageOverhead = 4

// Estimate returns the estimated token count for text: ceil(len/4).
// Deterministic, O(1) space, no failure mode.
func Estimate(text string) int {
	if text == "" {
		return 0
	}
	return (len(text) + CharsPerToken - 1) / CharsPerToken
}

// Message is a role/content pair as sent to a completion provider.
type Message struct {
	Role    string
	Content string
}

// EstimateMessages returns the estimated token count for a full prompt,
// including a small fixed overhead per message envelope.
func EstimateMessages(messages []Message) int {
	total := 0
	for _, m := range messages {
		total += Estimate(m.Content)
	}
	return total + len(messages)*messageOverhead
}
