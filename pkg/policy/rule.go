package policy

import (
	"regexp"

	"github.com/danjamk/toolgate/internal/errx"
)

// Rule pairs a case-insensitive text matcher with the human-readable
// explanation reported when it fires.
type Rule struct {
	Pattern *regexp.Regexp
	Message string
}

// NewRule compiles expr case-insensitively.
func NewRule(expr, message string) (Rule, error) {
	re, err := regexp.Compile("(?i)" + expr)
	if err != nil {
		return Rule{}, errx.With(ErrCompileRule, ": %q: %w", expr, err)
	}
	return Rule{Pattern: re, Message: message}, nil
}

func mustRule(expr, message string) Rule {
	r, err := NewRule(expr, message)
	if err != nil {
		panic(err)
	}
	return r
}

// RuleSet is an ordered list of rules. Ordering is significant: the
// first matching rule wins for reporting purposes.
type RuleSet []Rule

// Match scans the set in order and returns the first rule matching text.
func (rs RuleSet) Match(text string) (Rule, bool) {
	for _, r := range rs {
		if r.Pattern.MatchString(text) {
			return r, true
		}
	}
	return Rule{}, false
}

// MatchAll returns the messages of every matching rule, in set order.
func (rs RuleSet) MatchAll(text string) []string {
	var messages []string
	for _, r := range rs {
		if r.Pattern.MatchString(text) {
			messages = append(messages, r.Message)
		}
	}
	return messages
}

// CompileRules builds a RuleSet from user-supplied expressions, all
// sharing one message.
func CompileRules(exprs []string, message string) (RuleSet, error) {
	rules := make(RuleSet, 0, len(exprs))
	for _, expr := range exprs {
		r, err := NewRule(expr, message)
		if err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}
	return rules, nil
}
