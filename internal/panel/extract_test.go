package panel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractHRStrictPattern(t *testing.T) {
	conv := Conversation{Messages: []Message{
		{Role: RoleHR, Content: "HR评分：90分，理由：技术过硬，建议月薪：20000", Turn: 1},
	}}

	v := Extract(conv)

	require.True(t, v.HR.Score.Found)
	assert.Equal(t, 90.0, v.HR.Score.Value)
	assert.Equal(t, "20000", v.HR.Salary)
	assert.Equal(t, "理由：技术过硬", v.HR.Comment)
}

func TestExtractLooseFallback(t *testing.T) {
	// Extra words between label and number defeat the strict pattern but
	// not the loose one.
	conv := Conversation{Messages: []Message{
		{Role: RoleTechnical, Content: "经过讨论，技术评分我给到 88，月薪建议再议", Turn: 2},
	}}

	v := Extract(conv)

	require.True(t, v.Technical.Score.Found)
	assert.Equal(t, 88.0, v.Technical.Score.Value)
}

func TestExtractNoMatchKeepsDefault(t *testing.T) {
	conv := Conversation{Messages: []Message{
		{Role: RoleManager, Content: "我还需要再面谈一次才能下结论。", Turn: 3},
	}}

	v := Extract(conv)

	assert.False(t, v.Manager.Score.Found)
	assert.Equal(t, 0.0, v.Manager.Score.Value)
	assert.Equal(t, "我还需要再面谈一次才能下结论。", v.Manager.Comment)
}

func TestExtractDispatchesOnRoleNotContent(t *testing.T) {
	// A coordinator quoting an HR-style verdict must not populate the HR slot.
	conv := Conversation{Messages: []Message{
		{Role: RoleCoordinator, Content: "请注意格式，例如 HR评分：99分", Turn: 0},
	}}

	v := Extract(conv)

	assert.False(t, v.HR.Score.Found)
}

func TestExtractSynthesizer(t *testing.T) {
	content := "综合评分：86.5分\n招聘建议：推荐\n候选人技术扎实，沟通良好，建议尽快安排入职。\nAPPROVE"
	conv := Conversation{Messages: []Message{
		{Role: RoleSynthesizer, Content: content, Turn: 4},
	}}

	v := Extract(conv)

	require.True(t, v.Composite.Found)
	assert.Equal(t, 86.5, v.Composite.Value)
	assert.Equal(t, "推荐", v.Decision)
	// The full message is kept verbatim, not stripped.
	assert.Equal(t, content, v.Reasoning)
}

func TestExtractDecisionNegatedFormWins(t *testing.T) {
	conv := Conversation{Messages: []Message{
		{Role: RoleSynthesizer, Content: "综合评分：45分，招聘建议：不推荐", Turn: 4},
	}}

	v := Extract(conv)
	assert.Equal(t, "不推荐", v.Decision)
}

func TestExtractDecisionFieldOrder(t *testing.T) {
	conv := Conversation{Messages: []Message{
		{Role: RoleSynthesizer, Content: "最终建议：储备。后续岗位放开时优先联系。", Turn: 4},
	}}

	v := Extract(conv)
	assert.Equal(t, "储备", v.Decision)
}

func TestExtractLaterTurnWithoutScoreKeepsEarlierScore(t *testing.T) {
	conv := Conversation{Messages: []Message{
		{Role: RoleHR, Content: "HR评分：82分，建议月薪：18000，稳定性不错", Turn: 2},
		{Role: RoleHR, Content: "针对综合评审官的问题，我补充一点：候选人离职原因合理。", Turn: 7},
	}}

	v := Extract(conv)

	require.True(t, v.HR.Score.Found)
	assert.Equal(t, 82.0, v.HR.Score.Value)
	assert.Equal(t, "18000", v.HR.Salary)
	assert.Contains(t, v.HR.Comment, "离职原因合理")
}

func TestExtractExplicitZeroScoreIsFound(t *testing.T) {
	conv := Conversation{Messages: []Message{
		{Role: RoleSynthesizer, Content: "综合评分：0分，招聘建议：不推荐，材料涉嫌造假。", Turn: 4},
	}}

	v := Extract(conv)

	require.True(t, v.Composite.Found)
	assert.Equal(t, 0.0, v.Composite.Value)
}
