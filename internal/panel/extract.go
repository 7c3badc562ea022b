package panel

import (
	"log"
	"regexp"
	"strconv"
	"strings"
)

// Score is a parsed numeric score with an explicit presence marker. The
// zero value means "no usable score found", which keeps a legitimately
// awarded 0分 distinguishable from a pattern miss.
type Score struct {
	Value float64 `json:"value"`
	Found bool    `json:"found"`
}

// RoleVerdict is the structured result parsed out of one evaluator's
// free-text messages.
type RoleVerdict struct {
	Score   Score  `json:"score"`
	Salary  string `json:"salary_suggestion,omitempty"`
	Comment string `json:"comment"`
}

// Verdict is the full structured extraction for one panel review. It is
// derived from the conversation in one pass and recomputed from scratch,
// never patched incrementally.
type Verdict struct {
	HR        RoleVerdict `json:"hr"`
	Technical RoleVerdict `json:"technical"`
	Manager   RoleVerdict `json:"manager"`
	Composite Score       `json:"composite_score"`
	Decision  string      `json:"decision,omitempty"`
	Reasoning string      `json:"reasoning,omitempty"`
}

// Accepted decision literals. Order matters: the longer/negated forms must
// be tested before 推荐, which they contain as a substring.
var acceptedDecisions = []string{"强烈推荐", "不推荐", "推荐", "储备", "待定"}

// Label fields tried, in order, when looking for the synthesizer decision.
var decisionFields = []string{"招聘建议", "最终建议", "决策"}

// roleRules is the ordered rule set for one scoring role: a strict pattern
// first, then a loose fallback tolerant of extra words between the label
// and the number, and the same pair for the salary suggestion.
type roleRules struct {
	scoreStrict  *regexp.Regexp
	scoreLoose   *regexp.Regexp
	salaryStrict *regexp.Regexp
	salaryLoose  *regexp.Regexp
}

func newRoleRules(scoreLabel string) roleRules {
	return roleRules{
		scoreStrict:  regexp.MustCompile(scoreLabel + `[：:]\s*(\d+(?:\.\d+)?)\s*分`),
		scoreLoose:   regexp.MustCompile(scoreLabel + `\D{0,30}?(\d+(?:\.\d+)?)`),
		salaryStrict: regexp.MustCompile(`建议月薪[：:]\s*([0-9][0-9,，.~～kKwW万千\-]*)`),
		salaryLoose:  regexp.MustCompile(`月薪\D{0,30}?([0-9][0-9,，.~～kKwW万千\-]*)`),
	}
}

var extractionRules = map[Role]roleRules{
	RoleHR:          newRoleRules("HR评分"),
	RoleTechnical:   newRoleRules("技术评分"),
	RoleManager:     newRoleRules("经理评分"),
	RoleSynthesizer: newRoleRules("综合评分"),
}

// Extract scans the conversation message by message, dispatching on the
// speaker's role to that role's rule set. Coordinator and assistant turns
// carry no structured fields and are skipped.
func Extract(conv Conversation) Verdict {
	var v Verdict
	for _, m := range conv.Messages {
		switch m.Role {
		case RoleHR:
			mergeRoleVerdict(&v.HR, extractRoleVerdict(RoleHR, m.Content))
		case RoleTechnical:
			mergeRoleVerdict(&v.Technical, extractRoleVerdict(RoleTechnical, m.Content))
		case RoleManager:
			mergeRoleVerdict(&v.Manager, extractRoleVerdict(RoleManager, m.Content))
		case RoleSynthesizer:
			extractSynthesizer(&v, m.Content)
		}
	}
	return v
}

func extractRoleVerdict(role Role, content string) RoleVerdict {
	rules := extractionRules[role]
	verdict := RoleVerdict{Comment: content}

	score, matched := matchScore(rules, content)
	if score.Found {
		verdict.Score = score
		verdict.Comment = strings.Replace(verdict.Comment, matched, "", 1)
	} else {
		log.Printf("extraction gap: no score found in %s message, keeping default", role)
	}

	if salary, matched := matchSalary(rules, content); salary != "" {
		verdict.Salary = salary
		verdict.Comment = strings.Replace(verdict.Comment, matched, "", 1)
	}

	verdict.Comment = trimComment(verdict.Comment)
	return verdict
}

// extractSynthesizer fills the final-decision fields. Unlike the scoring
// roles, the full message is kept verbatim as the reasoning text.
func extractSynthesizer(v *Verdict, content string) {
	rules := extractionRules[RoleSynthesizer]
	if score, _ := matchScore(rules, content); score.Found {
		v.Composite = score
	}
	if decision := matchDecision(content); decision != "" {
		v.Decision = decision
	}
	v.Reasoning = content
}

// mergeRoleVerdict folds a later message by the same role into the
// accumulated verdict. Structured fields only advance when the later
// message actually carried them, so a round-two discussion turn without a
// restated score does not erase the round-one result.
func mergeRoleVerdict(dst *RoleVerdict, src RoleVerdict) {
	if src.Score.Found {
		dst.Score = src.Score
	}
	if src.Salary != "" {
		dst.Salary = src.Salary
	}
	if src.Comment != "" {
		dst.Comment = src.Comment
	}
}

// matchScore applies the strict pattern, then the loose fallback. On a
// miss the zero Score (Found=false) is returned and the caller keeps the
// 0.0 default.
func matchScore(rules roleRules, content string) (Score, string) {
	for _, re := range []*regexp.Regexp{rules.scoreStrict, rules.scoreLoose} {
		m := re.FindStringSubmatch(content)
		if m == nil {
			continue
		}
		value, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		return Score{Value: value, Found: true}, m[0]
	}
	return Score{}, ""
}

func matchSalary(rules roleRules, content string) (string, string) {
	for _, re := range []*regexp.Regexp{rules.salaryStrict, rules.salaryLoose} {
		m := re.FindStringSubmatch(content)
		if m == nil {
			continue
		}
		salary := strings.Trim(m[1], ",，.-~～")
		if salary == "" {
			continue
		}
		return salary, m[0]
	}
	return "", ""
}

func matchDecision(content string) string {
	for _, field := range decisionFields {
		idx := strings.Index(content, field)
		if idx < 0 {
			continue
		}
		segment := content[idx+len(field):]
		if len(segment) > 60 {
			segment = segment[:60]
		}
		for _, word := range acceptedDecisions {
			if strings.Contains(segment, word) {
				return word
			}
		}
	}
	return ""
}

func trimComment(s string) string {
	return strings.Trim(s, " \t\r\n，,。；;：:")
}
