package auth

import (
	"crypto/rand"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"docinspect/src/helpers"

	"golang.org/x/crypto/argon2"
)

type PasswordHash struct {
	Hash    []byte `json:"hash"`
	Salt    []byte `json:"salt"`
	Method  string `json:"method"`  // "argon2id"
	Time    uint32 `json:"time"`    // time parameter for Argon2
	Memory  uint32 `json:"memory"`  // memory parameter in KiB
	Threads uint8  `json:"threads"` // threads parameter
	KeyLen  uint32 `json:"keylen"`  // length of the hash in bytes
}

// HashParams are the Argon2id cost parameters used for new hashes.
type HashParams struct {
	Time    uint32
	Memory  uint32
	Threads uint8
	KeyLen  uint32
}

// DefaultHashParams follow the OWASP recommendation for Argon2id.
var DefaultHashParams = HashParams{
	Time:    1,
	Memory:  64 * 1024,
	Threads: 4,
	KeyLen:  32,
}

type User struct {
	ID           string
	Username     string
	PasswordHash PasswordHash
	CreatedAt    time.Time
}

// Credentials holds the users allowed to connect to the inspector bridge. Passwords are
// only kept as Argon2id hashes.
type Credentials struct {
	params HashParams
	users  map[string]User
	mu     sync.RWMutex
}

func NewCredentials(params HashParams) *Credentials {
	return &Credentials{
		params: params,
		users:  make(map[string]User),
	}
}

// ParseCredentials builds Credentials from "name:password" entries. The password may
// itself contain colons.
func ParseCredentials(specs []string, params HashParams) (*Credentials, error) {
	c := NewCredentials(params)
	for _, spec := range specs {
		name, password, ok := strings.Cut(spec, ":")
		if !ok || name == "" {
			return nil, fmt.Errorf("%q: %w", spec, ErrMalformedUserSpec)
		}
		if err := c.AddUser(name, password); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// AddUser hashes password and stores the user.
func (c *Credentials) AddUser(username, password string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.users[username]; exists {
		return fmt.Errorf("%s: %w", username, ErrUserAlreadyExists)
	}

	hash, err := hashPassword(password, c.params)
	if err != nil {
		return err
	}
	c.users[username] = User{
		ID:           helpers.GenerateUUID(),
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}
	return nil
}

// ListUsers returns every username in ascending order.
func (c *Credentials) ListUsers() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	usernames := make([]string, 0, len(c.users))
	for name := range c.users {
		usernames = append(usernames, name)
	}
	sort.Strings(usernames)
	return usernames
}

func (c *Credentials) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.users)
}

func hashPassword(password string, params HashParams) (PasswordHash, error) {
	salt := make([]byte, 16)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return PasswordHash{}, fmt.Errorf("failed to generate salt: %w", err)
	}

	return PasswordHash{
		Hash:    argon2.IDKey([]byte(password), salt, params.Time, params.Memory, params.Threads, params.KeyLen),
		Salt:    salt,
		Method:  "argon2id",
		Time:    params.Time,
		Memory:  params.Memory,
		Threads: params.Threads,
		KeyLen:  params.KeyLen,
	}, nil
}
