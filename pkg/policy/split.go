package policy

import "strings"

// splitSegments splits a shell command on the chaining operators
// (&&, ||, ;) and stray pipes, respecting single and double quotes.
// Splitting is what stops a benign prefix from masking a dangerous
// suffix ("ls && rm -rf /tmp/x").
func splitSegments(cmd string) []string {
	var segments []string
	var current strings.Builder

	flush := func() {
		if s := strings.TrimSpace(current.String()); s != "" {
			segments = append(segments, s)
		}
		current.Reset()
	}

	i := 0
	for i < len(cmd) {
		ch := cmd[i]

		switch ch {
		case '|':
			flush()
			if i+1 < len(cmd) && cmd[i+1] == '|' {
				i++
			}
		case '&':
			if i+1 < len(cmd) && cmd[i+1] == '&' {
				flush()
				i++
			} else {
				// Trailing & backgrounds the current segment.
				current.WriteByte(ch)
			}
		case ';':
			flush()
		case '\'', '"':
			quote := ch
			current.WriteByte(ch)
			i++
			for i < len(cmd) && cmd[i] != quote {
				if cmd[i] == '\\' && quote == '"' && i+1 < len(cmd) {
					current.WriteByte(cmd[i])
					i++
				}
				current.WriteByte(cmd[i])
				i++
			}
			if i < len(cmd) {
				current.WriteByte(cmd[i])
			}
		default:
			current.WriteByte(ch)
		}
		i++
	}

	flush()
	return segments
}
