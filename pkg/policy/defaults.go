package policy

// Built-in rule sets. These are compiled once at package init and never
// mutated; user additions from the config are appended at Gate
// construction, after the built-ins.

// denyCommandRules block a shell command outright. Order matters: the
// first matching rule supplies the reported message.
var denyCommandRules = RuleSet{
	// Filesystem destruction. Catches -r and -f in either order,
	// combined (-rf, -fr) or separate, with or without other flags.
	mustRule(`\brm\s+(\S+\s+)*-[a-z]*[rf]`, "recursive or force delete is dangerous"),
	mustRule(`>\s*/dev/(sd|hd|nvme)`, "direct disk operations are forbidden"),
	mustRule(`\bdd\s+(\S+\s+)*of=/dev/`, "direct disk operations are forbidden"),
	mustRule(`:\(\)\s*\{\s*:\|:&\s*\}\s*;\s*:`, "fork bomb detected"),
	mustRule(`\bmkfs(\.[a-z0-9]+)?\s`, "filesystem formatting is forbidden"),

	// Database destruction.
	mustRule(`\bDROP\s+(DATABASE|TABLE|SCHEMA)\b`, "database object drops are forbidden"),
	mustRule(`\bTRUNCATE\s+TABLE\b`, "table truncation is forbidden"),
	mustRule(`\bDELETE\s+FROM\s+\S+.*\bWHERE\s+1\s*=\s*1`, "unsafe DELETE without a real WHERE clause"),

	// Cloud destruction via CLI. Mutations belong in IaC.
	mustRule(`\baws\s+\S+\s+(\S+\s+)*\S*(delete|terminate)\S*`, "cloud delete/terminate operations should go through IaC"),
	mustRule(`\baws\s+(\S+\s+)*\S*destroy\S*`, "cloud destroy operations should go through IaC"),
	mustRule(`\bterraform\s+destroy\b`, "terraform destroy requires manual review"),

	// Version-control history destruction.
	mustRule(`\bgit\s+push\s+(\S+\s+)*(-f\b|--force)`, "force push is dangerous"),
	mustRule(`\bgit\s+reset\s+--hard`, "hard reset will lose uncommitted changes"),
	mustRule(`\bgit\s+clean\s+-[a-z]*[fd]`, "git clean can delete untracked files"),
	mustRule(`\bgit\s+filter-branch\b`, "git filter-branch is destructive"),

	// System modifications.
	mustRule(`\bchmod\s+(-[a-z]+\s+)*777\b`, "world-writable permissions are dangerous"),
	mustRule(`\bchown\s+(-[a-z]+\s+)*root\b`, "changing ownership to root is forbidden"),
	mustRule(`\bchmod\s+(\S+\s+)*/(etc|usr|var)/`, "system directory permission changes are forbidden"),
	mustRule(`>\s*/(etc|usr|var)/`, "writes into system directories are forbidden"),
	mustRule(`(^|\s|;|&|\|)sudo\s`, "privilege escalation is forbidden"),
	mustRule(`(^|\s|;|&|\|)su\s+-?\w`, "user switching is forbidden"),

	// Download-and-execute and remote shells.
	mustRule(`\b(curl|wget)\b[^|]*\|\s*(sudo\s+)?[a-z/]*(sh|bash|zsh|python[0-9.]*)\b`, "piping downloads into a shell is dangerous"),
	mustRule(`\bnc\s+(\S+\s+)*-[a-z]*e\b`, "netcat with command execution is dangerous"),

	// Package management outside the project scope.
	mustRule(`\bnpm\s+install\s+(\S+\s+)*(-g\b|--global)`, "global npm installs must be done manually"),
	mustRule(`\bpip3?\s+install\s+(\S+\s+)*--user\b`, "user-level pip installs must be done manually"),
}

// allowCommandRules auto-approve commands that only observe state.
// Patterns are anchored: a compound command never matches them directly,
// it has to survive per-segment deny evaluation first.
var allowCommandRules = RuleSet{
	mustRule(`^ls(\s|$)`, "read-only listing"),
	mustRule(`^pwd$`, "read-only"),
	mustRule(`^cd\s+[^/~]`, "relative directory change"),
	mustRule(`^cat\s+[^/]`, "relative file read"),
	mustRule(`^grep\s`, "read-only search"),
	mustRule(`^find\s+\.`, "read-only search"),
	mustRule(`^which\s`, "environment inspection"),
	mustRule(`^echo\s`, "read-only"),
	mustRule(`^printf\s`, "read-only"),
	mustRule(`^git\s+(status|log|diff|branch|remote|show)(\s|$)`, "read-only git"),
	mustRule(`^make\s+(test|lint|format|help|check)(\s|$)`, "local build target"),
	mustRule(`^python[0-9.]*\s+\S+\.py$`, "local script run"),
	mustRule(`^poetry\s+(show|list|env|version)`, "read-only poetry"),
	mustRule(`^pytest(\s|$)`, "local test run"),
	mustRule(`^aws\s+\S+\s+(\S+\s+)*(describe|list|get)`, "read-only cloud query"),
	mustRule(`^docker\s+(ps|images|logs)(\s|$)`, "read-only docker"),
	mustRule(`^env$`, "environment inspection"),
	mustRule(`^printenv$`, "environment inspection"),
}

// warnCommandRules log advisory warnings without changing the verdict.
var warnCommandRules = RuleSet{
	mustRule(`\bmake\s+clean\b`, "clean targets may remove generated files"),
	mustRule(`\bgit\s+checkout\s+--\s`, "checkout -- discards local changes"),
}

// denyWritePathRules block file create/edit operations.
var denyWritePathRules = RuleSet{
	// Secrets and credentials.
	mustRule(`(^|/)\.env(\.[\w.-]+)?$`, "environment files cannot be modified"),
	mustRule(`\.pem$`, "certificate files cannot be modified"),
	mustRule(`\.key$`, "private key files cannot be modified"),
	mustRule(`\.p12$`, "certificate store files cannot be modified"),
	mustRule(`credentials`, "credential files cannot be modified"),
	mustRule(`secrets?\.(json|ya?ml)$`, "secret files cannot be modified"),

	// System directories.
	mustRule(`^/etc/`, "system configuration files cannot be modified"),
	mustRule(`^/usr/`, "system files cannot be modified"),
	mustRule(`^/var/`, "system state cannot be modified"),
	mustRule(`(^|/)\.ssh(/|$)`, "SSH configuration cannot be modified"),
	mustRule(`\.aws/credentials`, "cloud credentials cannot be modified"),

	// Version-control internals. Hooks are deliberately left editable,
	// so the internals are enumerated instead of matching .git/ whole.
	mustRule(`(^|/)\.git/(objects|refs|logs|info|HEAD|config|index|packed-refs)(/|$)`, "git internals cannot be modified directly"),

	// Lock files are owned by their package managers.
	mustRule(`(^|/)package-lock\.json$`, "lock files are managed by the package manager"),
	mustRule(`(^|/)poetry\.lock$`, "lock files are managed by the package manager"),
	mustRule(`(^|/)Pipfile\.lock$`, "lock files are managed by the package manager"),
	mustRule(`(^|/)yarn\.lock$`, "lock files are managed by the package manager"),
}

// warnWritePathRules flag configuration files worth a second look.
var warnWritePathRules = RuleSet{
	mustRule(`(^|/)config\.(json|ya?ml|toml)$`, "configuration file modification"),
	mustRule(`(^|/)pyproject\.toml$`, "configuration file modification"),
	mustRule(`(^|/)package\.json$`, "configuration file modification"),
	mustRule(`(^|/)Dockerfile$`, "configuration file modification"),
	mustRule(`(^|/)docker-compose\.ya?ml$`, "configuration file modification"),
	mustRule(`\.claude/settings\.json$`, "assistant settings modification"),
}

// denyReadPathRules block file reads of key material and password files.
var denyReadPathRules = RuleSet{
	mustRule(`\.pem$`, "private certificate files cannot be read"),
	mustRule(`\.key$`, "private key files cannot be read"),
	mustRule(`/etc/shadow`, "password files cannot be read"),
	mustRule(`\.ssh/id_`, "SSH private keys cannot be read"),
	mustRule(`\.aws/credentials`, "cloud credentials cannot be read"),
}

// DefaultRules exposes copies of the built-in sets for display tooling.
func DefaultRules() map[string]RuleSet {
	return map[string]RuleSet{
		"deny-command":  append(RuleSet(nil), denyCommandRules...),
		"allow-command": append(RuleSet(nil), allowCommandRules...),
		"warn-command":  append(RuleSet(nil), warnCommandRules...),
		"deny-write":    append(RuleSet(nil), denyWritePathRules...),
		"warn-write":    append(RuleSet(nil), warnWritePathRules...),
		"deny-read":     append(RuleSet(nil), denyReadPathRules...),
	}
}
