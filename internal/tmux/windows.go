package tmux

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	gotmux "github.com/atomicstack/gotmuxcc/gotmuxcc"
)

// FetchWindows lists every window of the server, labelled with
// NESTMENU_WINDOW_FORMAT and narrowed by NESTMENU_WINDOW_FILTER when set.
func FetchWindows(socketPath string) (WindowSnapshot, error) {
	client, err := client(socketPath)
	if err != nil {
		return WindowSnapshot{}, err
	}

	allWindows, err := client.ListAllWindows()
	if err != nil {
		return WindowSnapshot{}, err
	}
	lines, err := fetchWindowLines(client)
	if err != nil {
		lines = fallbackWindowLines(allWindows)
	}
	windowMap := make(map[string]*gotmux.Window, len(allWindows))
	for _, w := range allWindows {
		windowMap[w.Id] = w
	}
	currentSession := currentSessionName(client)
	snapshot := WindowSnapshot{CurrentSession: currentSession}
	for _, line := range lines {
		w := windowMap[line.windowID]
		if w == nil {
			session, idx := splitDisplayID(line.displayID)
			snapshot.Windows = append(snapshot.Windows, Window{
				ID:         line.displayID,
				Session:    session,
				Index:      idx,
				Label:      line.label,
				InternalID: line.windowID,
				Activity:   line.activity,
			})
			continue
		}
		session := strings.TrimSpace(w.Session)
		if s, _ := splitDisplayID(line.displayID); s != "" {
			session = s
		}
		displayID := line.displayID
		if displayID == "" {
			displayID = fmt.Sprintf("%s:%d", session, w.Index)
		}
		entry := Window{
			ID:         displayID,
			Session:    session,
			Index:      w.Index,
			Name:       w.Name,
			Active:     w.Active,
			Label:      line.label,
			Current:    session == currentSession && w.Active,
			InternalID: line.windowID,
			Activity:   line.activity,
		}
		if entry.Current && snapshot.CurrentID == "" {
			snapshot.CurrentID = entry.ID
			snapshot.CurrentLabel = entry.Label
		}
		snapshot.Windows = append(snapshot.Windows, entry)
	}
	return snapshot, nil
}

// SwitchToWindow makes target (session:index) the visible window, switching
// the client to another session first when needed.
func SwitchToWindow(socketPath, target string) error {
	client, err := client(socketPath)
	if err != nil {
		return err
	}
	session, _ := splitDisplayID(target)
	if session != "" && session != currentSessionName(client) {
		if _, err := client.Command("switch-client", "-t", target); err != nil {
			return fmt.Errorf("switch to %s: %w", target, err)
		}
		return nil
	}
	if err := client.SelectWindow(target); err != nil {
		return fmt.Errorf("select window %s: %w", target, err)
	}
	return nil
}

type windowLine struct {
	windowID  string
	displayID string
	label     string
	activity  time.Time
}

func fetchWindowLines(client tmuxClient) ([]windowLine, error) {
	filter := strings.TrimSpace(os.Getenv("NESTMENU_WINDOW_FILTER"))
	formatExpr := strings.TrimSpace(os.Getenv("NESTMENU_WINDOW_FORMAT"))
	if formatExpr == "" {
		formatExpr = "#{window_name}"
	}
	labelFormat := fmt.Sprintf("#S:#{window_index}: %s", formatExpr)
	format := fmt.Sprintf("#{window_id}\t#{session_name}:#{window_index}\t#{window_activity}\t%s", labelFormat)
	rawLines, err := client.ListWindowsFormat("", filter, format)
	if err != nil {
		return nil, err
	}
	return parseWindowLines(rawLines), nil
}

func parseWindowLines(rawLines []string) []windowLine {
	result := make([]windowLine, 0, len(rawLines))
	for _, line := range rawLines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, "\t", 4)
		if len(parts) < 2 {
			continue
		}
		wl := windowLine{
			windowID:  strings.TrimSpace(parts[0]),
			displayID: strings.TrimSpace(parts[1]),
		}
		wl.label = wl.displayID
		if len(parts) > 2 {
			if secs, err := strconv.ParseInt(strings.TrimSpace(parts[2]), 10, 64); err == nil && secs > 0 {
				wl.activity = time.Unix(secs, 0)
			}
		}
		if len(parts) > 3 {
			if trimmed := strings.TrimSpace(parts[3]); trimmed != "" {
				wl.label = trimmed
			}
		}
		result = append(result, wl)
	}
	return result
}

func fallbackWindowLines(windows []*gotmux.Window) []windowLine {
	lines := make([]windowLine, 0, len(windows))
	for _, w := range windows {
		session := strings.TrimSpace(w.Session)
		id := fmt.Sprintf("%s:%d", session, w.Index)
		label := fmt.Sprintf("%s:%d %s", session, w.Index, w.Name)
		lines = append(lines, windowLine{windowID: w.Id, displayID: id, label: label})
	}
	return lines
}

func splitDisplayID(id string) (string, int) {
	session, rest, ok := strings.Cut(id, ":")
	if !ok {
		return strings.TrimSpace(id), 0
	}
	idx, _ := strconv.Atoi(strings.TrimSpace(rest))
	return strings.TrimSpace(session), idx
}
