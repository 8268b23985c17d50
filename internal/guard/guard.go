// Package guard screens incoming chat messages before they reach the
// retrieval and generation pipeline.
//
// Two independent operations are provided:
//   - Inspect: detects known prompt-injection shapes and blocks the turn.
//   - Sanitize: strips structurally suspicious substrings from accepted input.
//
// The design is intentionally conservative: over-blocking a legitimate
// question is acceptable, leaking the system context is not. No filter is
// perfect; sophisticated attacks may still get through, so the system prompt
// itself must not contain secrets.
package guard

import (
	"regexp"
	"strings"
	"unicode"
)

// Verdict is the result of inspecting a raw message.
type Verdict struct {
	Blocked bool   // True if an injection pattern matched
	Reason  string // Name of the first matching rule (empty if not blocked)
}

// rule pairs a stable name with its compiled pattern. The name ends up in
// logs and Verdict.Reason, never in user-facing output.
type rule struct {
	name    string
	pattern *regexp.Regexp
}

// Inspector detects prompt-injection attempts in raw user input.
// Rules are evaluated in order; the first match wins.
type Inspector struct {
	rules []rule
}

// defaultRules covers the injection shapes this system refuses outright:
// instruction override, role reassignment, attempts to reveal the hidden
// context or configuration, and attempts to enumerate internal documents.
func defaultRules() []rule {
	specs := []struct {
		name    string
		pattern string
	}{
		{"instruction_override", `(?i)(ignore|disregard|forget|override)\s+(all\s+)?(previous|above|prior|earlier)\s+(instructions?|prompts?|rules?|context)`},
		{"instruction_override", `(?i)^new\s+(instructions?|task|rules?)\s*:`},
		{"role_reassignment", `(?i)(pretend|act|behave|imagine)\s+(you\s+are|to\s+be|as\s+if|like)\s`},
		{"role_reassignment", `(?i)you\s+are\s+now\s+(a|an|the)\s`},
		{"role_reassignment", `(?i)from\s+now\s+on,?\s+you\s+(are|will|must)`},
		{"reveal_context", `(?i)(reveal|show|print|repeat|output|display)\s+(me\s+)?(your|the)\s+(system\s+)?(prompt|instructions?|context|configuration|rules)`},
		{"reveal_context", `(?i)what\s+(is|are)\s+your\s+(system\s+)?(prompt|instructions|hidden\s+rules)`},
		{"enumerate_documents", `(?i)(list|enumerate|show|dump)\s+(all\s+)?(your|the)\s+(internal\s+)?(documents?|files?|sources?|knowledge\s+base)`},
		{"delimiter_escape", `(?i)</?(system|instruction|prompt)>`},
		{"delimiter_escape", `(?i)\]\s*\[\s*(system|assistant|instruction)`},
		{"jailbreak", `(?i)do\s+anything\s+now`},
		{"jailbreak", `(?i)jailbreak`},
		{"jailbreak", `(?i)bypass\s+(safety|filter|restrictions?)`},
	}

	rules := make([]rule, 0, len(specs))
	for _, s := range specs {
		if re, err := regexp.Compile(s.pattern); err == nil {
			rules = append(rules, rule{name: s.name, pattern: re})
		}
	}
	return rules
}

// NewInspector creates an Inspector with the default rule set.
func NewInspector() *Inspector {
	return &Inspector{rules: defaultRules()}
}

// Inspect evaluates raw input against the rule set in order.
// The result is boolean, not a score; absence of a match is the default
// not-blocked state. Inspect never fails.
func (i *Inspector) Inspect(raw string) Verdict {
	normalized := normalize(raw)

	for _, r := range i.rules {
		if r.pattern.MatchString(normalized) {
			return Verdict{Blocked: true, Reason: r.name}
		}
	}
	return Verdict{}
}

// suspiciousSubstrings are removed verbatim by Sanitize. These are markup and
// templating fragments that have no place in a portfolio question but show up
// in context-escape attempts.
var suspiciousSubstrings = []string{
	"<!--",
	"-->",
	"<|",
	"|>",
	"{{",
	"}}",
	"[INST]",
	"[/INST]",
	"<system>",
	"</system>",
	"```",
}

// newlineRuns collapses three or more consecutive newlines to two.
var newlineRuns = regexp.MustCompile(`\n{3,}`)

// Sanitize strips suspicious control sequences from text that already passed
// Inspect. It only removes characters, never adds meaning, so the result does
// not need to be re-inspected.
func Sanitize(text string) string {
	for _, s := range suspiciousSubstrings {
		text = strings.ReplaceAll(text, s, "")
	}
	text = newlineRuns.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// normalize prepares input for pattern matching: zero-width and combining
// characters are dropped so they cannot split a keyword, and whitespace is
// collapsed to single spaces.
func normalize(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.Is(unicode.Cf, r) || unicode.Is(unicode.Mn, r) {
			continue
		}
		if unicode.IsSpace(r) {
			b.WriteRune(' ')
			continue
		}
		b.WriteRune(r)
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
