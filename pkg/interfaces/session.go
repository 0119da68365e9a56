package interfaces

import "context"

// SessionStore keeps transient per-visitor state across a redirect.
//
// Values written with Put survive exactly one Pop: the store removes the key
// on read. The render pipeline uses this for failed form submissions
// ("contact_form_post", "login_form_post") so forms can be repopulated once.
type SessionStore interface {
	Put(ctx context.Context, sessionID, key string, value any) error
	// Pop returns the stored value and clears it. The second return is false
	// when the key was never set (or was already consumed).
	Pop(ctx context.Context, sessionID, key string) (any, bool)
}
