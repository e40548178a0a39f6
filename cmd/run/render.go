package run

import (
	"fmt"
	"pduchat/internal/client"
	"strings"
)

const clock = "15:04:05"

// render turns an event into one terminal line, or several for a server
// list. Events with nothing to show render as "".
func render(ev client.Event) string {
	ts := "[" + ev.Time.Format(clock) + "] "
	switch ev.Kind {
	case client.EventMessage:
		if ev.Sender == "" {
			return ts + "Server message: " + ev.Text
		}
		return ts + ev.Sender + ": " + ev.Text
	case client.EventUserList:
		return ts + "users: " + strings.Join(ev.Nicknames, ", ")
	case client.EventUserJoined:
		return ts + ev.Nickname + " joined"
	case client.EventUserLeft:
		return ts + ev.Nickname + " left"
	case client.EventUserRenamed:
		return ts + ev.OldNickname + " is now known as " + ev.Nickname
	case client.EventServerQuit:
		return ts + "server " + ev.Server + " closed the session"
	case client.EventConnected:
		return "connected to " + ev.Server
	case client.EventConnectionLost:
		if ev.Err != nil {
			return fmt.Sprintf("connection to %s lost: %v", ev.Server, ev.Err)
		}
		return "connection to " + ev.Server + " lost"
	case client.EventDiscovery:
		if len(ev.Entries) == 0 {
			return "no chat servers available"
		}
		lines := make([]string, len(ev.Entries))
		for i, e := range ev.Entries {
			lines[i] = fmt.Sprintf("%3d) %s", i+1, e.Display())
		}
		return strings.Join(lines, "\n")
	case client.EventError:
		if ev.Server != "" {
			return fmt.Sprintf("error (%s): %v", ev.Server, ev.Err)
		}
		return fmt.Sprintf("error: %v", ev.Err)
	}
	return ""
}
