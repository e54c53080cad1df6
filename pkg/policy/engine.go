// Package policy implements the safety gate: ordered pattern rules
// evaluated against the literal content of an about-to-run operation.
// Evaluation is pure and total; the same Operation against the same
// Gate always yields the same Decision.
package policy

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/danjamk/toolgate/pkg/api"
)

// maxSplitDepth bounds recursive segment evaluation. Each level strictly
// shrinks the text, so this is belt-and-braces for pathological input.
const maxSplitDepth = 16

// Gate evaluates Operations against immutable rule sets. Construct one
// at startup and share it; all methods are safe for concurrent use.
type Gate struct {
	policy string

	denyCommands  RuleSet
	allowCommands RuleSet
	warnCommands  RuleSet

	denyWrites RuleSet
	warnWrites RuleSet
	denyReads  RuleSet

	protectedGlobs []string
}

// NewGate builds a Gate from the built-in rule sets plus any user
// additions in cfg. User deny/allow patterns are appended after the
// built-ins, so built-in messages win when both match.
func NewGate(cfg *api.Config) (*Gate, error) {
	if cfg == nil {
		cfg = api.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	g := &Gate{
		policy:        cfg.Policy,
		denyCommands:  denyCommandRules,
		allowCommands: allowCommandRules,
		warnCommands:  warnCommandRules,
		denyWrites:    denyWritePathRules,
		warnWrites:    warnWritePathRules,
		denyReads:     denyReadPathRules,
	}
	if g.policy == "" {
		g.policy = api.PolicyAutoApprove
	}

	if cfg.Rules != nil {
		extraDeny, err := CompileRules(cfg.Rules.DenyCommands, "command blocked by project rule")
		if err != nil {
			return nil, err
		}
		extraAllow, err := CompileRules(cfg.Rules.AllowCommands, "allowed by project rule")
		if err != nil {
			return nil, err
		}
		for _, glob := range cfg.Rules.ProtectedPaths {
			if !doublestar.ValidatePattern(glob) {
				return nil, ErrInvalidPathGlob
			}
		}
		g.denyCommands = append(append(RuleSet(nil), g.denyCommands...), extraDeny...)
		g.allowCommands = append(append(RuleSet(nil), g.allowCommands...), extraAllow...)
		g.protectedGlobs = append([]string(nil), cfg.Rules.ProtectedPaths...)
	}

	return g, nil
}

// Evaluate runs the deny pass and then the allow pass, returning
// exactly one Decision. Deny always wins over allow: safety fails
// closed when a command matches both lists.
func (g *Gate) Evaluate(op Operation) Decision {
	if d := g.CheckDeny(op); d.Verdict == Block {
		d.Warnings = g.warnings(op)
		return d
	}

	d := g.CheckAllow(op)
	d.Warnings = g.warnings(op)
	return d
}

// CheckDeny runs only the blocking rules: the strict pass. It returns
// Block or Neutral, never Approve.
func (g *Gate) CheckDeny(op Operation) Decision {
	switch op.Kind {
	case KindShellCommand:
		return g.denyCommand(op.Command, 0)
	case KindFileWrite:
		return g.denyWrite(op.Path)
	case KindFileRead:
		return g.denyRead(op.Path)
	}
	return NoOpinion()
}

// CheckAllow runs only the approving rules: the auto-approve pass. It
// returns Approve or Neutral, never Block.
func (g *Gate) CheckAllow(op Operation) Decision {
	switch op.Kind {
	case KindShellCommand:
		text := strings.TrimSpace(op.Command)
		// Compound commands never auto-approve. Each segment had its
		// chance in the deny pass; approval is reserved for a single
		// plainly read-only command.
		if len(splitSegments(text)) > 1 {
			return NoOpinion()
		}
		if _, ok := g.allowCommands.Match(text); ok {
			return Approved("auto-approved")
		}
	case KindFileRead:
		if g.policy == api.PolicyAutoApprove {
			return Approved("reads are generally safe")
		}
	}
	return NoOpinion()
}

func (g *Gate) denyCommand(text string, depth int) Decision {
	if rule, ok := g.denyCommands.Match(text); ok {
		return Blocked(rule.Message)
	}

	if depth >= maxSplitDepth {
		return NoOpinion()
	}
	segments := splitSegments(text)
	if len(segments) <= 1 {
		return NoOpinion()
	}
	for _, seg := range segments {
		if d := g.denyCommand(seg, depth+1); d.Verdict == Block {
			return d
		}
	}
	return NoOpinion()
}

func (g *Gate) denyWrite(path string) Decision {
	if rule, ok := g.denyWrites.Match(path); ok {
		return Blocked(rule.Message)
	}
	if hasTraversal(path) {
		return Blocked("path traversal")
	}
	if g.matchProtectedGlob(path) {
		return Blocked("path is protected by project rule")
	}
	return NoOpinion()
}

func (g *Gate) denyRead(path string) Decision {
	if rule, ok := g.denyReads.Match(path); ok {
		return Blocked(rule.Message)
	}
	if g.matchProtectedGlob(path) {
		return Blocked("path is protected by project rule")
	}
	return NoOpinion()
}

func (g *Gate) matchProtectedGlob(path string) bool {
	for _, glob := range g.protectedGlobs {
		if ok, err := doublestar.Match(glob, path); err == nil && ok {
			return true
		}
	}
	return false
}

func (g *Gate) warnings(op Operation) []string {
	switch op.Kind {
	case KindShellCommand:
		return g.warnCommands.MatchAll(op.Command)
	case KindFileWrite:
		return g.warnWrites.MatchAll(op.Path)
	}
	return nil
}

// hasTraversal reports whether any path segment is "..".
func hasTraversal(path string) bool {
	for _, seg := range strings.Split(path, "/") {
		if seg == ".." {
			return true
		}
	}
	return false
}
