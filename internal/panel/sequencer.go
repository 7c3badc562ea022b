package panel

import "strings"

// StopToken terminates the conversation as soon as it appears in the most
// recent message, regardless of remaining turns.
const StopToken = "APPROVE"

// MaxRounds is the hard ceiling on conversation rounds.
const MaxRounds = 12

// Sequence is an explicit ordered turn table: position i holds the role
// that speaks on turn i. No hidden state, no closures.
type Sequence []Role

// ScreeningSequence is the single-pass resume screening flow.
var ScreeningSequence = Sequence{
	RoleCoordinator,
	RoleHR,
	RoleTechnical,
	RoleManager,
	RoleSynthesizer,
}

// EvaluationSequence is the two-phase post-interview flow: round one is
// independent scoring, the synthesizer opens round two, each specialist is
// revisited for targeted discussion, and the synthesizer closes.
var EvaluationSequence = Sequence{
	RoleCoordinator,
	RoleAssistant,
	RoleHR,
	RoleTechnical,
	RoleManager,
	RoleSynthesizer,
	RoleSynthesizer,
	RoleHR,
	RoleTechnical,
	RoleManager,
	RoleSynthesizer,
}

// Next decides who speaks on the given turn, or reports the terminal state.
// It is a pure function of (turn, transcript). Termination checks in order:
// sequence exhausted, stop token in the latest message, round ceiling.
func (s Sequence) Next(turn int, transcript []Message) (Role, Ending, bool) {
	if turn >= len(s) {
		return "", EndingCompleted, false
	}
	if n := len(transcript); n > 0 && strings.Contains(transcript[n-1].Content, StopToken) {
		return "", EndingStopToken, false
	}
	if turn >= MaxRounds {
		return "", EndingMaxRounds, false
	}
	return s[turn], "", true
}
