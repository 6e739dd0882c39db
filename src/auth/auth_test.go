package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testParams = HashParams{Time: 1, Memory: 1024, Threads: 1, KeyLen: 32}

func TestParseCredentials(t *testing.T) {
	c, err := ParseCredentials([]string{"ann:secret", "bob:pa:ss"}, testParams)
	require.NoError(t, err)
	assert.Equal(t, []string{"ann", "bob"}, c.ListUsers())

	ok, user := c.VerifyCredentials("bob", "pa:ss")
	assert.True(t, ok)
	assert.Equal(t, "bob", user.Username)
	assert.Empty(t, user.PasswordHash.Hash)

	ok, _ = c.VerifyCredentials("ann", "wrong")
	assert.False(t, ok)
	ok, _ = c.VerifyCredentials("carl", "secret")
	assert.False(t, ok)
}

func TestParseCredentialsRejectsMalformed(t *testing.T) {
	for _, spec := range []string{"nopassword", ":secret"} {
		_, err := ParseCredentials([]string{spec}, testParams)
		assert.True(t, errors.Is(err, ErrMalformedUserSpec), "spec %q: %v", spec, err)
	}

	_, err := ParseCredentials([]string{"ann:a", "ann:b"}, testParams)
	assert.True(t, errors.Is(err, ErrUserAlreadyExists))
}

func TestAddUserRejectsDuplicates(t *testing.T) {
	c := NewCredentials(testParams)
	require.NoError(t, c.AddUser("ann", "x"))
	assert.True(t, errors.Is(c.AddUser("ann", "y"), ErrUserAlreadyExists))
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, []string{"ann"}, c.ListUsers())
}

func TestSaltsDiffer(t *testing.T) {
	c := NewCredentials(testParams)
	require.NoError(t, c.AddUser("a", "same"))
	require.NoError(t, c.AddUser("b", "same"))
	assert.NotEqual(t, c.users["a"].PasswordHash.Hash, c.users["b"].PasswordHash.Hash)
}

func TestBasicAuth(t *testing.T) {
	c, err := ParseCredentials([]string{"ann:secret"}, testParams)
	require.NoError(t, err)
	h := c.BasicAuth("docinspect", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name     string
		user     string
		password string
		setAuth  bool
		want     int
	}{
		{"no credentials", "", "", false, http.StatusUnauthorized},
		{"wrong password", "ann", "nope", true, http.StatusUnauthorized},
		{"valid", "ann", "secret", true, http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/json", nil)
			if tt.setAuth {
				req.SetBasicAuth(tt.user, tt.password)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
			if tt.want == http.StatusUnauthorized {
				assert.Contains(t, rec.Header().Get("WWW-Authenticate"), "docinspect")
			}
		})
	}
}

func TestVerifyCredentialsComparesWholeHash(t *testing.T) {
	c := NewCredentials(testParams)
	require.NoError(t, c.AddUser("ann", "secret"))
	ok, _ := c.VerifyCredentials("ann", "secret")
	require.True(t, ok)

	// A stored hash that is a prefix of the computed one must not verify.
	u := c.users["ann"]
	u.PasswordHash.Hash = u.PasswordHash.Hash[:8]
	c.users["ann"] = u
	ok, user := c.VerifyCredentials("ann", "secret")
	assert.False(t, ok)
	assert.Nil(t, user)
}
