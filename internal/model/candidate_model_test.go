package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCandidateAllowedTransitions(t *testing.T) {
	cases := []struct{ from, to string }{
		{CandidateStatusPending, CandidateStatusScreened},
		{CandidateStatusPending, CandidateStatusInterviewing},
		{CandidateStatusScreened, CandidateStatusInterviewing},
		{CandidateStatusScreened, CandidateStatusAnalyzed},
		{CandidateStatusScreened, CandidateStatusPending},
		{CandidateStatusInterviewing, CandidateStatusAnalyzed},
		{CandidateStatusInterviewing, CandidateStatusScreened},
		{CandidateStatusAnalyzed, CandidateStatusInterviewing},
		{CandidateStatusAnalyzed, CandidateStatusScreened},
	}

	for _, tc := range cases {
		c := Candidate{Status: tc.from}
		require.NoError(t, c.TransitionTo(tc.to), "%s -> %s should be allowed", tc.from, tc.to)
		assert.Equal(t, tc.to, c.Status)
	}
}

func TestCandidatePendingToAnalyzedRejected(t *testing.T) {
	c := Candidate{Status: CandidateStatusPending}

	err := c.TransitionTo(CandidateStatusAnalyzed)

	require.Error(t, err)
	var invalid *ErrInvalidTransition
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, CandidateStatusPending, invalid.From)
	assert.Equal(t, CandidateStatusAnalyzed, invalid.To)
	// Status is unchanged on rejection.
	assert.Equal(t, CandidateStatusPending, c.Status)
}

func TestCandidateUnknownStatusHasNoTransitions(t *testing.T) {
	c := Candidate{Status: "archived"}
	assert.Error(t, c.TransitionTo(CandidateStatusScreened))
}

func TestGroupStatusRankIsForwardOrdered(t *testing.T) {
	order := []string{
		GroupStatusPending,
		GroupStatusInterviewAnalysis,
		GroupStatusInterviewAnalysisCompleted,
		GroupStatusComprehensiveScreening,
		GroupStatusCompleted,
	}
	for i := 1; i < len(order); i++ {
		assert.Greater(t, GroupStatusRank(order[i]), GroupStatusRank(order[i-1]))
	}
}
