package tmux

import (
	"errors"
	"fmt"
	"strings"
)

// Run executes a tmux command line such as `split-window -h -c "#{pane_current_path}"`
// over the control connection and returns its output.
func Run(socketPath, line string) (string, error) {
	args, err := SplitArgs(line)
	if err != nil {
		return "", err
	}
	if len(args) == 0 {
		return "", errors.New("empty tmux command")
	}
	client, err := client(socketPath)
	if err != nil {
		return "", err
	}
	out, err := client.Command(args...)
	if err != nil {
		return "", fmt.Errorf("tmux %s: %w", args[0], err)
	}
	return strings.TrimSpace(out), nil
}

// SplitArgs breaks line into words the way tmux's own parser does for the
// simple cases: whitespace separates words, single quotes are literal,
// double quotes allow backslash escapes.
func SplitArgs(line string) ([]string, error) {
	var (
		args    []string
		cur     strings.Builder
		inWord  bool
		quote   rune
		escaped bool
	)
	for _, r := range line {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case quote == '\'':
			if r == '\'' {
				quote = 0
			} else {
				cur.WriteRune(r)
			}
		case r == '\\':
			escaped, inWord = true, true
		case quote == '"':
			if r == '"' {
				quote = 0
			} else {
				cur.WriteRune(r)
			}
		case r == '"' || r == '\'':
			quote, inWord = r, true
		case r == ' ' || r == '\t' || r == '\n':
			if inWord {
				args = append(args, cur.String())
				cur.Reset()
				inWord = false
			}
		default:
			cur.WriteRune(r)
			inWord = true
		}
	}
	if quote != 0 {
		return nil, fmt.Errorf("unterminated %c quote in %q", quote, line)
	}
	if escaped {
		return nil, fmt.Errorf("trailing backslash in %q", line)
	}
	if inWord {
		args = append(args, cur.String())
	}
	return args, nil
}
