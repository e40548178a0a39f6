package run

import (
	"pduchat/internal/client"
	"slices"
	"sync"
)

// roster tracks who is on the current server. A user list from the server
// replaces it; joins, leaves and renames edit it in place.
type roster struct {
	mu    sync.Mutex
	names []string
}

func (r *roster) apply(ev client.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch ev.Kind {
	case client.EventUserList:
		r.names = slices.Clone(ev.Nicknames)
	case client.EventUserJoined:
		if !slices.Contains(r.names, ev.Nickname) {
			r.names = append(r.names, ev.Nickname)
		}
	case client.EventUserLeft:
		r.names = slices.DeleteFunc(r.names, func(n string) bool { return n == ev.Nickname })
	case client.EventUserRenamed:
		if i := slices.Index(r.names, ev.OldNickname); i >= 0 {
			r.names[i] = ev.Nickname
		} else {
			r.names = append(r.names, ev.Nickname)
		}
	case client.EventConnected, client.EventConnectionLost, client.EventServerQuit:
		r.names = nil
	}
}

func (r *roster) list() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.names)
}
