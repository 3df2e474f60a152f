package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/pkg/validator"
)

// userNamespace scopes the deterministic mock user ids.
var userNamespace = uuid.MustParse("6f1c2a52-8d0e-4b4c-9a57-3c2e1f0b7d11")

// Auth holds the mock signed-in account. Login accepts any well-formed
// email; there is no credential check.
type Auth struct {
	base

	mu   sync.RWMutex
	user *domain.User
	now  func() time.Time
}

// NewAuth creates a signed-out account store.
func NewAuth(l *slog.Logger) *Auth {
	return &Auth{base: newBase(NameAuth, l), now: time.Now}
}

// Login signs in as the account identified by email. The user id is derived
// from the email, so the same address always maps to the same id.
func (a *Auth) Login(ctx context.Context, in domain.LoginInput) (domain.User, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Name = strings.TrimSpace(in.Name)
	if err := validator.Check(in); err != nil {
		return domain.User{}, a.reject(ctx, "login", err)
	}
	if in.Name == "" {
		in.Name, _, _ = strings.Cut(in.Email, "@")
	}

	u := domain.User{
		ID:         uuid.NewSHA1(userNamespace, []byte(in.Email)).String(),
		Email:      in.Email,
		Name:       in.Name,
		LoggedInAt: a.now().UTC(),
	}

	a.mu.Lock()
	a.user = &u
	a.mu.Unlock()

	a.log(ctx).InfoContext(ctx, "user logged in", slog.String("user_id", u.ID))
	a.applied("login")
	return u, nil
}

// Logout signs out and reports whether a user was signed in.
func (a *Auth) Logout(ctx context.Context) bool {
	a.mu.Lock()
	was := a.user != nil
	a.user = nil
	a.mu.Unlock()

	if !was {
		return false
	}
	a.applied("logout")
	return true
}

// CurrentUser returns the signed-in user.
func (a *Auth) CurrentUser() (domain.User, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.user == nil {
		return domain.User{}, false
	}
	return *a.user, true
}

type authSnapshot struct {
	User *domain.User `json:"user"`
}

// Serialize encodes the signed-in user, or null.
func (a *Auth) Serialize() ([]byte, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return json.Marshal(authSnapshot{User: a.user})
}

// Hydrate restores the signed-in user from a serialized snapshot.
func (a *Auth) Hydrate(data []byte) error {
	var snap authSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("hydrate auth: %w", err)
	}

	a.mu.Lock()
	a.user = snap.User
	a.mu.Unlock()

	a.notify()
	return nil
}
