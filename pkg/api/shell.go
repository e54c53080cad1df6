package api

import shellquote "github.com/kballard/go-shellquote"

// ShellQuoteArgs joins command arguments into a single shell-safe string
// using POSIX shell quoting rules.
func ShellQuoteArgs(args []string) string {
	return shellquote.Join(args...)
}

// ShellSplitWords splits a command string into words using POSIX shell
// quoting rules. Unterminated quotes or trailing escapes yield an error;
// callers checking pattern rules should fall back to matching the raw
// string in that case.
func ShellSplitWords(command string) ([]string, error) {
	return shellquote.Split(command)
}
