package remote

// Authenticator provides credentials for registry operations. A nil
// Authenticator (or empty username) falls back to the default keychain,
// matching docker's credential resolution.
type Authenticator interface {
	// Authenticate returns credentials for the given registry.
	Authenticate(registry string) (username, password string, err error)
}

// StaticAuthenticator returns the same credentials for every registry.
type StaticAuthenticator struct {
	Username string
	Password string
}

// Authenticate implements Authenticator.
func (a *StaticAuthenticator) Authenticate(string) (string, string, error) {
	return a.Username, a.Password, nil
}
