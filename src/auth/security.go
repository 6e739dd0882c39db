package auth

import (
	"crypto/subtle"
	"net/http"

	"golang.org/x/crypto/argon2"
)

// VerifyCredentials checks if the provided credentials are valid
func (c *Credentials) VerifyCredentials(username, password string) (bool, *User) {
	c.mu.RLock()
	stored, ok := c.users[username]
	c.mu.RUnlock()
	if !ok {
		return false, nil
	}

	// Hash the password using the same parameters and salt
	hash := argon2.IDKey(
		[]byte(password),
		stored.PasswordHash.Salt,
		stored.PasswordHash.Time,
		stored.PasswordHash.Memory,
		stored.PasswordHash.Threads,
		stored.PasswordHash.KeyLen,
	)
	if subtle.ConstantTimeCompare(hash, stored.PasswordHash.Hash) != 1 {
		return false, nil
	}
	return true, &User{ID: stored.ID, Username: stored.Username, CreatedAt: stored.CreatedAt}
}

// BasicAuth rejects requests whose basic auth credentials do not verify.
func (c *Credentials) BasicAuth(realm string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username, password, ok := r.BasicAuth()
		if ok {
			ok, _ = c.VerifyCredentials(username, password)
		}
		if !ok {
			w.Header().Set("WWW-Authenticate", `Basic realm="`+realm+`"`)
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
