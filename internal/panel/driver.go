package panel

import (
	"context"
	"fmt"
	"strings"
)

// ProgressFunc is invoked once per turn, before the role speaks. It is the
// only externally observable effect of a running conversation; the job
// runner uses it to persist current_step/current_speaker.
type ProgressFunc func(role Role, step int)

// Driver runs a panel review to completion over a fixed turn sequence.
type Driver struct {
	roster   *Roster
	progress ProgressFunc
}

func NewDriver(roster *Roster, progress ProgressFunc) *Driver {
	return &Driver{roster: roster, progress: progress}
}

// Run executes the sequence: for every non-terminal turn it builds the
// role prompt from the instruction template plus the accumulated
// transcript, asks the speaker for the next utterance, and appends it.
// The transcript is threaded through as a local accumulator and returned
// in the Conversation value.
func (d *Driver) Run(ctx context.Context, initialPrompt string, seq Sequence) (Conversation, error) {
	var messages []Message
	for turn := 0; ; turn++ {
		role, ending, ok := seq.Next(turn, messages)
		if !ok {
			return Conversation{Messages: messages, Ending: ending}, nil
		}

		participant, found := d.roster.Participant(role)
		if !found {
			return Conversation{}, fmt.Errorf("no participant for role %q", role)
		}

		if d.progress != nil {
			d.progress(role, turn)
		}

		prompt := buildPrompt(initialPrompt, messages)
		content, err := participant.Speaker.Produce(ctx, participant.Instruction, prompt)
		if err != nil {
			return Conversation{}, fmt.Errorf("turn %d (%s): %w", turn, role, err)
		}

		messages = append(messages, Message{Role: role, Content: content, Turn: turn})
	}
}

func buildPrompt(initialPrompt string, messages []Message) string {
	var b strings.Builder
	b.WriteString(initialPrompt)
	if len(messages) > 0 {
		b.WriteString("\n\n以下是目前的评审会发言记录：\n\n")
		b.WriteString(renderMessages(messages))
	}
	return b.String()
}
