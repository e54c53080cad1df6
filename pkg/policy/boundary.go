package policy

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/danjamk/toolgate/pkg/api"
)

// rootMarkers identify a project root when walking up from the working
// directory.
var rootMarkers = []string{".claude", ".git"}

// systemDirRules match paths that are off-limits even when the project
// root somehow contains them.
var systemDirRules = RuleSet{
	mustRule(`^/etc/`, "system configuration directory"),
	mustRule(`^/usr/`, "system directory"),
	mustRule(`^/var/`, "system directory"),
	mustRule(`^/bin/`, "system directory"),
	mustRule(`^/sbin/`, "system directory"),
	mustRule(`^/dev/`, "device directory"),
	mustRule(`^/proc/`, "kernel interface directory"),
	mustRule(`^/sys/`, "kernel interface directory"),
	mustRule(`(^|/)\.ssh(/|$)`, "SSH directory"),
	mustRule(`(^|/)\.aws(/|$)`, "cloud credential directory"),
}

// escapeCommandRules match command shapes that can move files across the
// project boundary.
var escapeCommandRules = RuleSet{
	mustRule(`\b(cp|mv|rm|ln)\s+(\S+\s+)*\S*\.\./`, "file operations using ../ can escape the project"),
}

var cdPattern = regexp.MustCompile(`(^|&&|\|\||;)\s*cd\s+(\S+)`)

// Boundary confines operations to a project root directory.
type Boundary struct {
	Root string
}

// DetectBoundary builds a Boundary rooted at cfg.ProjectRoot when set,
// otherwise at the nearest ancestor of the working directory carrying a
// root marker. With no marker found, the working directory itself is
// the root.
func DetectBoundary(cfg *api.Config) (*Boundary, error) {
	if cfg != nil && cfg.ProjectRoot != "" {
		abs, err := filepath.Abs(cfg.ProjectRoot)
		if err != nil {
			return nil, ErrDetectRoot
		}
		return &Boundary{Root: abs}, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, ErrDetectRoot
	}
	return &Boundary{Root: findRoot(cwd)}, nil
}

func findRoot(start string) string {
	dir := filepath.Clean(start)
	for {
		for _, marker := range rootMarkers {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				return dir
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return filepath.Clean(start)
		}
		dir = parent
	}
}

// Check evaluates an operation against the boundary. File paths must
// resolve inside the root; commands must not reference system
// directories, escape via ../ moves, or cd to absolute paths outside
// the root.
func (b *Boundary) Check(op Operation) Decision {
	switch op.Kind {
	case KindFileRead, KindFileWrite:
		return b.checkPath(op.Path)
	case KindShellCommand:
		return b.checkCommand(op.Command)
	}
	return NoOpinion()
}

func (b *Boundary) checkPath(path string) Decision {
	if rule, ok := systemDirRules.Match(path); ok {
		return BoundaryBlocked("access to " + rule.Message + " blocked: " + path)
	}
	if !b.contains(path) {
		return BoundaryBlocked("file operation outside project boundary: " + path)
	}
	return NoOpinion()
}

func (b *Boundary) checkCommand(text string) Decision {
	if rule, ok := escapeCommandRules.Match(text); ok {
		return BoundaryBlocked(rule.Message)
	}

	for _, m := range cdPattern.FindAllStringSubmatch(text, -1) {
		target := strings.Trim(m[2], `'"`)
		if strings.HasPrefix(target, "/") && !b.contains(target) {
			return BoundaryBlocked("cannot cd outside project boundary: " + target)
		}
	}

	// Absolute path arguments pointing at system directories are caught
	// even when buried mid-command. Word splitting is best-effort: on
	// malformed quoting, fall back to the raw text scan above.
	if words, err := api.ShellSplitWords(text); err == nil {
		for _, w := range words {
			if !strings.HasPrefix(w, "/") && !strings.Contains(w, "/.ssh") && !strings.Contains(w, "/.aws") {
				continue
			}
			if rule, ok := systemDirRules.Match(w); ok {
				return BoundaryBlocked("access to " + rule.Message + " blocked: " + w)
			}
		}
	}

	return NoOpinion()
}

// contains reports whether path resolves inside the boundary root.
// Relative paths are taken as project-relative and thus inside unless
// they traverse out.
func (b *Boundary) contains(path string) bool {
	if !filepath.IsAbs(path) {
		rel := filepath.Clean(path)
		return rel != ".." && !strings.HasPrefix(rel, "../")
	}
	resolved := filepath.Clean(path)
	if target, err := filepath.EvalSymlinks(resolved); err == nil {
		resolved = target
	}
	root := b.Root
	if target, err := filepath.EvalSymlinks(root); err == nil {
		root = target
	}
	return resolved == root || strings.HasPrefix(resolved, root+string(filepath.Separator))
}
