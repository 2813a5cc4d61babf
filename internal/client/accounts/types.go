package accounts

import "time"

// TokenTTL mirrors the server session window. The expiry stored next to an
// account is fixed at token-save time: now + TokenTTL.
const TokenTTL = 7 * 24 * time.Hour

// Account is one roster entry on this device: a known identity plus the
// session token that may let the user resume without a password. It is a
// cache of credentials, never a source of truth.
type Account struct {
	Username    string     `json:"username"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Image       string     `json:"image,omitempty"`
	Token       string     `json:"token,omitempty"`
	TokenExpiry *time.Time `json:"token_expiry,omitempty"`
}

// HasValidToken reports whether the stored token exists and has not passed
// its expiry as of now. Server-side revocation is only discovered on use.
func (a Account) HasValidToken(now time.Time) bool {
	return a.Token != "" && a.TokenExpiry != nil && a.TokenExpiry.After(now)
}
