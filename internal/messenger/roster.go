package messenger

import "sort"

// Roster is the authoritative nickname -> session mapping for currently
// logged-in clients. It carries no lock of its own: the Messenger serializes
// every mutation together with the broadcast that announces it, so the two
// always form one atomic step.
type Roster struct {
	sessions map[string]*Session
}

func NewRoster() *Roster {
	return &Roster{sessions: make(map[string]*Session)}
}

// TryAdd inserts the session under nick. It fails without mutating anything
// when the nickname is already taken.
func (r *Roster) TryAdd(nick string, s *Session) bool {
	if _, ok := r.sessions[nick]; ok {
		return false
	}
	r.sessions[nick] = s
	return true
}

// Remove deletes the nickname and reports whether it was present.
func (r *Roster) Remove(nick string) bool {
	if _, ok := r.sessions[nick]; !ok {
		return false
	}
	delete(r.sessions, nick)
	return true
}

func (r *Roster) Len() int {
	return len(r.sessions)
}

// Nicknames returns a sorted snapshot of all current keys.
func (r *Roster) Nicknames() []string {
	nicks := make([]string, 0, len(r.sessions))
	for nick := range r.sessions {
		nicks = append(nicks, nick)
	}
	sort.Strings(nicks)
	return nicks
}

// ForEach applies fn to every current session. Used for broadcast only; fn
// must not mutate the roster.
func (r *Roster) ForEach(fn func(nick string, s *Session)) {
	for nick, s := range r.sessions {
		fn(nick, s)
	}
}
