package api

import (
	"os"
	"path/filepath"
)

// Policy modes. Strict answers Neutral where AutoApprove would answer
// Approve; deny rules behave identically under both.
const (
	PolicyStrict      = "strict"
	PolicyAutoApprove = "auto"
)

type Config struct {
	Policy      string       `json:"policy,omitempty" mapstructure:"policy"`
	Boundary    bool         `json:"boundary,omitempty" mapstructure:"boundary"`
	ProjectRoot string       `json:"project_root,omitempty" mapstructure:"project_root"`
	Rules       *RulesConfig `json:"rules,omitempty" mapstructure:"rules"`
	Audit       *AuditConfig `json:"audit,omitempty" mapstructure:"audit"`
}

// RulesConfig holds user-supplied additions to the built-in rule sets.
// Command patterns are case-insensitive regular expressions; protected
// paths are doublestar globs (e.g. "**/.ssh/**", "secrets/**/*.yaml").
type RulesConfig struct {
	DenyCommands   []string `json:"deny_commands,omitempty" mapstructure:"deny_commands"`
	AllowCommands  []string `json:"allow_commands,omitempty" mapstructure:"allow_commands"`
	ProtectedPaths []string `json:"protected_paths,omitempty" mapstructure:"protected_paths"`
}

type AuditConfig struct {
	Disabled    bool   `json:"disabled,omitempty" mapstructure:"disabled"`
	LogPath     string `json:"log_path,omitempty" mapstructure:"log_path"`
	HistoryPath string `json:"history_path,omitempty" mapstructure:"history_path"`
}

func DefaultConfig() *Config {
	return &Config{
		Policy: PolicyAutoApprove,
		Rules:  &RulesConfig{},
		Audit: &AuditConfig{
			LogPath:     filepath.Join(dataDir(), "audit.jsonl"),
			HistoryPath: filepath.Join(dataDir(), "history.db"),
		},
	}
}

// Validate checks fields that cannot be defaulted away.
func (c *Config) Validate() error {
	switch c.Policy {
	case "", PolicyStrict, PolicyAutoApprove:
		return nil
	}
	return ErrUnknownPolicy
}

// Merge overlays non-zero fields of other onto c and returns the result.
func (c *Config) Merge(other *Config) *Config {
	if other == nil {
		return c
	}

	result := *c
	if other.Policy != "" {
		result.Policy = other.Policy
	}
	if other.Boundary {
		result.Boundary = true
	}
	if other.ProjectRoot != "" {
		result.ProjectRoot = other.ProjectRoot
	}
	if other.Rules != nil {
		if result.Rules == nil {
			result.Rules = &RulesConfig{}
		}
		merged := *result.Rules
		merged.DenyCommands = append(merged.DenyCommands, other.Rules.DenyCommands...)
		merged.AllowCommands = append(merged.AllowCommands, other.Rules.AllowCommands...)
		merged.ProtectedPaths = append(merged.ProtectedPaths, other.Rules.ProtectedPaths...)
		result.Rules = &merged
	}
	if other.Audit != nil {
		if result.Audit == nil {
			result.Audit = &AuditConfig{}
		}
		merged := *result.Audit
		if other.Audit.Disabled {
			merged.Disabled = true
		}
		if other.Audit.LogPath != "" {
			merged.LogPath = other.Audit.LogPath
		}
		if other.Audit.HistoryPath != "" {
			merged.HistoryPath = other.Audit.HistoryPath
		}
		result.Audit = &merged
	}
	return &result
}

func dataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".toolgate"
	}
	return filepath.Join(home, ".toolgate")
}
