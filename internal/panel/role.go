package panel

import "context"

// Role identifies a fixed evaluator seat on the panel. Dispatch is always
// on Role, never on display names inside message text.
type Role string

const (
	RoleCoordinator Role = "coordinator"
	RoleAssistant   Role = "assistant"
	RoleHR          Role = "hr"
	RoleTechnical   Role = "technical"
	RoleManager     Role = "manager"
	RoleSynthesizer Role = "synthesizer"
)

// DisplayName is the label used when rendering transcripts and reports.
func (r Role) DisplayName() string {
	switch r {
	case RoleCoordinator:
		return "面试协调员"
	case RoleAssistant:
		return "招聘助理"
	case RoleHR:
		return "HR评估官"
	case RoleTechnical:
		return "技术评估官"
	case RoleManager:
		return "用人经理"
	case RoleSynthesizer:
		return "综合评审官"
	}
	return string(r)
}

// Speaker produces the next utterance for a role given its instruction and
// the transcript accumulated so far. Implementations live outside this
// package (Gemini, OpenRouter); the driver only depends on this contract.
type Speaker interface {
	Produce(ctx context.Context, instruction string, transcript string) (string, error)
}

// Participant binds a role to its instruction template and a shared
// utterance capability. Participants are stateless and built once per job.
type Participant struct {
	Role        Role
	Instruction string
	Speaker     Speaker
}

// Roster is the fixed cast for one panel review.
type Roster struct {
	participants map[Role]Participant
}

// NewRoster builds the default cast, all roles backed by the same speaker.
func NewRoster(speaker Speaker) *Roster {
	r := &Roster{participants: make(map[Role]Participant, len(roleInstructions))}
	for role, instruction := range roleInstructions {
		r.participants[role] = Participant{Role: role, Instruction: instruction, Speaker: speaker}
	}
	return r
}

// Participant returns the cast member for a role.
func (r *Roster) Participant(role Role) (Participant, bool) {
	p, ok := r.participants[role]
	return p, ok
}

// Role instruction templates. The score/salary/decision formats here are
// load-bearing: the extraction rules in extract.go parse exactly these
// labels out of the free-text replies.
var roleInstructions = map[Role]string{
	RoleCoordinator: `你是面试协调员，负责主持本次候选人评审会。
请先概述候选人材料与岗位要求的整体匹配情况，列出需要各位评估官重点关注的问题，
不打分，控制在200字以内。`,

	RoleAssistant: `你是招聘助理，负责补充候选人的背景资料。
请整理候选人的教育经历、工作经历和项目经历中的关键事实，供各位评估官参考，
只陈述事实，不发表评价。`,

	RoleHR: `你是HR评估官，负责从稳定性、沟通能力、文化匹配角度评估候选人。
你的回复必须包含以下格式的结论：
HR评分：<0-100的数字>分
建议月薪：<数字或区间>
然后给出简短的评估理由。`,

	RoleTechnical: `你是技术评估官，负责从技术深度、技术广度、工程能力角度评估候选人。
你的回复必须包含以下格式的结论：
技术评分：<0-100的数字>分
建议月薪：<数字或区间>
然后给出简短的评估理由。`,

	RoleManager: `你是用人经理，负责从岗位胜任度、团队协作、发展潜力角度评估候选人。
你的回复必须包含以下格式的结论：
经理评分：<0-100的数字>分
建议月薪：<数字或区间>
然后给出简短的评估理由。`,

	RoleSynthesizer: `你是综合评审官，负责汇总各位评估官的意见并给出最终结论。
你的回复必须包含以下格式的结论：
综合评分：<0-100的数字>分
招聘建议：<强烈推荐/推荐/储备/待定/不推荐 之一>
然后给出综合评审理由。当评审结束时，在回复末尾单独输出 APPROVE。`,
}
