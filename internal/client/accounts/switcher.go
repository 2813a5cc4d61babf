package accounts

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/lucasmnd/toile/backend/internal/apperrors"
)

// SwitchState is the terminal state of a switch attempt.
type SwitchState string

const (
	// StateIdle: nothing happened. The target was already active or
	// another attempt was in flight.
	StateIdle SwitchState = "idle"
	// StateActive: the target account now owns the session. The caller must
	// re-fetch all session-scoped state.
	StateActive SwitchState = "active"
	// StateRedirectToLogin: the stored token was absent, expired or refused
	// by the server. The caller sends the user to credential entry,
	// pre-filled with RedirectEmail.
	StateRedirectToLogin SwitchState = "redirect_to_login"
)

// SwitchResult describes how a switch attempt ended.
type SwitchResult struct {
	State         SwitchState
	RedirectEmail string
}

// ExchangedSession is what a successful token exchange yields.
type ExchangedSession struct {
	Token     string
	ExpiresAt time.Time
}

// SessionExchanger trades a stored session token for a fresh session. The
// HTTP implementation lives in the client api package.
type SessionExchanger interface {
	Exchange(ctx context.Context, token string) (*ExchangedSession, error)
}

// Switcher runs the account-switch protocol over a Store. At most one switch
// attempt is in flight at a time; concurrent attempts are ignored, not
// queued.
type Switcher struct {
	store     *Store
	exchanger SessionExchanger

	active   atomic.Value // string: username of the active account
	inFlight atomic.Bool
	now      func() time.Time
}

// NewSwitcher creates a Switcher over the given store and exchanger.
func NewSwitcher(store *Store, exchanger SessionExchanger) *Switcher {
	sw := &Switcher{store: store, exchanger: exchanger, now: time.Now}
	sw.active.Store("")
	return sw
}

// Active returns the username of the account currently owning the session,
// or "" when nobody is signed in.
func (sw *Switcher) Active() string {
	return sw.active.Load().(string)
}

// SetActive records which account owns the session, e.g. after a fresh
// login outside the switch protocol.
func (sw *Switcher) SetActive(username string) {
	sw.active.Store(username)
}

// ClearActive drops the active session without touching the roster.
func (sw *Switcher) ClearActive() {
	sw.active.Store("")
}

// Switch attempts to make username the active account. Switching to the
// already-active account, or while another attempt runs, is a no-op. An
// absent or expired token routes to login without calling the exchanger and
// without mutating the roster; an exchanger failure is treated as a
// server-side revocation and routes to login as well. Only an unknown
// username is reported as an error.
func (sw *Switcher) Switch(ctx context.Context, username string) (SwitchResult, error) {
	if username == sw.Active() {
		return SwitchResult{State: StateIdle}, nil
	}
	if !sw.inFlight.CompareAndSwap(false, true) {
		return SwitchResult{State: StateIdle}, nil
	}
	defer sw.inFlight.Store(false)

	acc, ok := sw.store.Get(username)
	if !ok {
		return SwitchResult{}, apperrors.NewNotFound("account", username)
	}

	if !acc.HasValidToken(sw.now()) {
		return SwitchResult{State: StateRedirectToLogin, RedirectEmail: acc.Email}, nil
	}

	session, err := sw.exchanger.Exchange(ctx, acc.Token)
	if err != nil {
		// Revoked server-side despite passing the local expiry check.
		return SwitchResult{State: StateRedirectToLogin, RedirectEmail: acc.Email}, nil
	}

	if err := sw.store.AddOrUpdate(acc, session.Token); err != nil {
		return SwitchResult{}, err
	}
	sw.SetActive(username)
	return SwitchResult{State: StateActive}, nil
}

// RemoveAccount drops username from the roster. When the removed account was
// active and others remain, it attempts a switch to the first remaining
// entry; if that fails, or no accounts remain, the session is cleared and
// the result routes to login.
func (sw *Switcher) RemoveAccount(ctx context.Context, username string) (SwitchResult, error) {
	removed, err := sw.store.Remove(username)
	if err != nil {
		return SwitchResult{}, err
	}
	if !removed || username != sw.Active() {
		return SwitchResult{State: StateIdle}, nil
	}

	sw.ClearActive()
	remaining := sw.store.List()
	if len(remaining) == 0 {
		return SwitchResult{State: StateRedirectToLogin}, nil
	}

	res, err := sw.Switch(ctx, remaining[0].Username)
	if err != nil {
		return SwitchResult{State: StateRedirectToLogin}, nil
	}
	return res, nil
}
