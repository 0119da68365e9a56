package interfaces

// Requester describes the authenticated state of the visitor behind a
// request. The render pipeline only consults flags and capabilities; how
// they are established (sessions, tokens) is the host application's concern.
type Requester interface {
	IsAuthenticated() bool
	IsSuperuser() bool
	HasPermission(permission string) bool
}

// Anonymous returns a Requester with no privileges.
func Anonymous() Requester {
	return anonymousRequester{}
}

type anonymousRequester struct{}

func (anonymousRequester) IsAuthenticated() bool     { return false }
func (anonymousRequester) IsSuperuser() bool         { return false }
func (anonymousRequester) HasPermission(string) bool { return false }
