package panel

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Report holds the two durable artifacts of one panel review: a
// human-readable markdown document and a machine-readable JSON record.
type Report struct {
	Markdown []byte
	Record   []byte
}

// ReportRecord is the machine-readable result persisted alongside the
// markdown document.
type ReportRecord struct {
	Title       string       `json:"title"`
	GeneratedAt time.Time    `json:"generated_at"`
	Ending      Ending       `json:"ending"`
	Verdict     Verdict      `json:"verdict"`
	Transcript  Conversation `json:"transcript"`
}

// BuildReport renders the transcript and verdict into both artifacts.
func BuildReport(title string, conv Conversation, v Verdict) (Report, error) {
	record := ReportRecord{
		Title:       title,
		GeneratedAt: time.Now(),
		Ending:      conv.Ending,
		Verdict:     v,
		Transcript:  conv,
	}
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return Report{}, fmt.Errorf("marshal report record: %w", err)
	}
	return Report{
		Markdown: []byte(renderMarkdown(title, conv, v)),
		Record:   data,
	}, nil
}

func renderMarkdown(title string, conv Conversation, v Verdict) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)

	b.WriteString("## 评审结论\n\n")
	fmt.Fprintf(&b, "- 综合评分：%.2f\n", v.Composite.Value)
	if v.Decision != "" {
		fmt.Fprintf(&b, "- 招聘建议：%s\n", v.Decision)
	}
	fmt.Fprintf(&b, "- HR评分：%s\n", formatScore(v.HR))
	fmt.Fprintf(&b, "- 技术评分：%s\n", formatScore(v.Technical))
	fmt.Fprintf(&b, "- 经理评分：%s\n", formatScore(v.Manager))
	fmt.Fprintf(&b, "- 结束方式：%s\n\n", conv.Ending)

	if v.Reasoning != "" {
		b.WriteString("## 综合评审意见\n\n")
		b.WriteString(v.Reasoning)
		b.WriteString("\n\n")
	}

	b.WriteString("## 评审会记录\n\n")
	b.WriteString(conv.Render())
	return b.String()
}

func formatScore(rv RoleVerdict) string {
	if !rv.Score.Found {
		return "未给出"
	}
	s := fmt.Sprintf("%.1f分", rv.Score.Value)
	if rv.Salary != "" {
		s += fmt.Sprintf("（建议月薪：%s）", rv.Salary)
	}
	return s
}
