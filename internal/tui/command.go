package tui

import (
	"sort"
	"strings"
)

// Command represents a parsed command.
type Command struct {
	Name string
	Args string
}

// ParseCommand parses a command string (without the leading ':'). Aliases
// resolve to their canonical name.
func ParseCommand(input string) Command {
	input = strings.TrimSpace(input)
	parts := strings.SplitN(input, " ", 2)
	cmd := Command{Name: strings.ToLower(parts[0])}
	if canonical, ok := aliases[cmd.Name]; ok {
		cmd.Name = canonical
	}
	if len(parts) > 1 {
		cmd.Args = strings.TrimSpace(parts[1])
	}
	return cmd
}

// Known command names.
const (
	CmdDashboard = "dashboard"
	CmdShloks    = "shloks"
	CmdVideos    = "videos"
	CmdUsers     = "users"
	CmdAnalytics = "analytics"
	CmdHelp      = "help"
	CmdLogout    = "logout"
	CmdQuit      = "quit"
)

var aliases = map[string]string{
	"dash":  CmdDashboard,
	"home":  CmdDashboard,
	"sh":    CmdShloks,
	"v":     CmdVideos,
	"u":     CmdUsers,
	"stats": CmdAnalytics,
	"h":     CmdHelp,
	"q":     CmdQuit,
	"q!":    CmdQuit,
}

// CommandNames returns the canonical command names, sorted, for completion.
func CommandNames() []string {
	names := []string{CmdDashboard, CmdShloks, CmdVideos, CmdUsers, CmdAnalytics, CmdHelp, CmdLogout, CmdQuit}
	sort.Strings(names)
	return names
}
