package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"sync/atomic"
)

// Credentials are the configured scrape endpoint credentials. A bearer token
// takes precedence over basic auth; with neither set, requests pass through
// unauthenticated.
type Credentials struct {
	BearerToken string
	Username    string
	Password    string
}

// Authenticator gates an endpoint behind the configured credentials. The
// credentials can be swapped at runtime (config hot reload) without
// restarting the server.
type Authenticator struct {
	creds atomic.Pointer[Credentials]
}

// NewAuthenticator creates an Authenticator with the given credentials.
func NewAuthenticator(creds Credentials) *Authenticator {
	a := &Authenticator{}
	a.creds.Store(&creds)
	return a
}

// Update atomically replaces the credentials.
func (a *Authenticator) Update(creds Credentials) {
	a.creds.Store(&creds)
}

// Middleware wraps a handler with the authentication check.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		creds := a.creds.Load()

		switch {
		case creds.BearerToken != "":
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || subtle.ConstantTimeCompare([]byte(token), []byte(creds.BearerToken)) != 1 {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

		case creds.Username != "":
			username, password, ok := r.BasicAuth()
			if !ok ||
				subtle.ConstantTimeCompare([]byte(username), []byte(creds.Username)) != 1 ||
				subtle.ConstantTimeCompare([]byte(password), []byte(creds.Password)) != 1 {
				w.Header().Set("WWW-Authenticate", `Basic realm="render-exporter"`)
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}
