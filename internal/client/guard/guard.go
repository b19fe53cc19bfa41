// Package guard gates access to protected views based on session state.
package guard

// Decision is the outcome of a guard check.
type Decision int

const (
	// Pending means the startup session check has not settled yet;
	// callers show a neutral loading state and make no redirect.
	Pending Decision = iota
	// Allow means the requested view may render.
	Allow
	// RedirectToLogin means the user must authenticate first.
	RedirectToLogin
)

// Session is the read-only session state the guard consults.
type Session interface {
	Checked() bool
	IsAuthenticated() bool
}

// Guard decides whether protected views may render. It remembers the
// last denied destination so a post-login redirect can return there.
type Guard struct {
	session Session
	from    string
}

// New creates a Guard over the given session state.
func New(session Session) *Guard {
	return &Guard{session: session}
}

// Check evaluates access to destination. Redirecting before the session
// check settles would bounce a returning authenticated user to login,
// so an unsettled check always yields Pending.
func (g *Guard) Check(destination string) Decision {
	if !g.session.Checked() {
		return Pending
	}
	if g.session.IsAuthenticated() {
		return Allow
	}
	g.from = destination
	return RedirectToLogin
}

// ReturnTo pops the destination preserved by the last denied check,
// or "" when there is none.
func (g *Guard) ReturnTo() string {
	from := g.from
	g.from = ""
	return from
}
