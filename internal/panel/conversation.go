package panel

import (
	"fmt"
	"strings"
)

// Ending records why a conversation stopped.
type Ending string

const (
	EndingCompleted Ending = "completed_normally"
	EndingMaxRounds Ending = "max_rounds_reached"
	EndingStopToken Ending = "explicit_stop_token"
)

// Message is one utterance in a panel review. Immutable once appended.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
	Turn    int    `json:"turn"`
}

// Conversation is the ordered transcript of one panel review plus how it
// ended. It is owned by exactly one job for its lifetime and returned by
// the driver as a value, never shared as mutable state.
type Conversation struct {
	Messages []Message `json:"messages"`
	Ending   Ending    `json:"ending"`
}

// Render formats the transcript the way it is fed back to speakers as
// context and written into reports.
func (c Conversation) Render() string {
	return renderMessages(c.Messages)
}

func renderMessages(messages []Message) string {
	var b strings.Builder
	for _, m := range messages {
		fmt.Fprintf(&b, "【%s】\n%s\n\n", m.Role.DisplayName(), m.Content)
	}
	return b.String()
}
