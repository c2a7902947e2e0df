package api

import "fmt"

// Auth modes accepted by NewClientFromCredentials.
const (
	// ModePassword authenticates with a username and application password.
	ModePassword = "password"
	// ModeAnonymous makes unauthenticated requests. Menu endpoints will
	// reject these on most sites; page listing usually works.
	ModeAnonymous = "anonymous"
)

// NewClientFromCredentials creates a client for the given site and auth
// mode. An empty mode defaults to password auth when credentials are
// present, anonymous otherwise.
func NewClientFromCredentials(site, username, password, mode string, opts ...ClientOption) (NavAPI, error) {
	switch mode {
	case ModePassword:
		if username == "" || password == "" {
			return nil, AuthenticationError{Message: "password mode requires a username and application password"}
		}
		return NewClient(site, username, password, opts...), nil
	case ModeAnonymous:
		return NewClient(site, "", "", opts...), nil
	case "":
		if username != "" && password != "" {
			return NewClient(site, username, password, opts...), nil
		}
		return NewClient(site, "", "", opts...), nil
	default:
		return nil, fmt.Errorf("unknown auth mode: %s", mode)
	}
}
