package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"

	"github.com/five82/plusultra/internal/api"
)

var (
	// ErrNoSession is returned by operations that need a signed-in user.
	ErrNoSession = errors.New("no active session")
	// ErrSessionChanged is returned when the session was replaced or ended
	// while a profile request was in flight. The response is discarded.
	ErrSessionChanged = errors.New("session changed during request")
)

// Session is the persisted credential and profile pair.
type Session struct {
	Token string   `json:"token"`
	User  api.User `json:"user"`
}

// Active reports whether s carries a credential.
func (s Session) Active() bool {
	return strings.TrimSpace(s.Token) != ""
}

// Authenticator is the part of the backend the holder talks to.
// *api.Client satisfies it.
type Authenticator interface {
	Login(ctx context.Context, creds api.Credentials) (api.AuthResponse, error)
	Register(ctx context.Context, reg api.Registration) (api.AuthResponse, error)
	UpdateProfile(ctx context.Context, in api.ProfileInput) (api.ProfileResponse, error)
	UploadAvatar(ctx context.Context, path string) (api.ProfileResponse, error)
}

// Holder owns the session. It is the only writer of the persisted blob;
// everything else reads copies through Snapshot.
type Holder struct {
	mu      sync.RWMutex
	path    string
	auth    Authenticator
	current Session
	now     func() time.Time
}

// NewHolder returns a logged-out holder persisting to path. An empty path
// keeps the session in memory only.
func NewHolder(path string, auth Authenticator) *Holder {
	return &Holder{path: path, auth: auth, now: time.Now}
}

// Load restores the persisted session. A missing blob, an unreadable one or
// an expired token leaves the holder logged out; only the unreadable case is
// reported as an error.
func (h *Holder) Load() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.current = Session{}
	if h.path == "" {
		return nil
	}

	data, err := os.ReadFile(h.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read session: %w", err)
	}

	var stored Session
	if err := json.Unmarshal(data, &stored); err != nil {
		return fmt.Errorf("decode session: %w", err)
	}
	if !stored.Active() {
		return nil
	}
	if expired(stored.Token, h.now()) {
		log.Info().Str("user", stored.User.Nickname).Msg("stored session expired")
		if err := os.Remove(h.path); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Warn().Err(err).Msg("remove expired session")
		}
		return nil
	}

	h.current = stored
	log.Info().Str("user", stored.User.Nickname).Msg("session restored")
	return nil
}

// Snapshot returns a copy of the current session.
func (h *Holder) Snapshot() Session {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current
}

// LoggedIn reports whether a session is active.
func (h *Holder) LoggedIn() bool {
	return h.Snapshot().Active()
}

// Authorize returns ctx carrying the current credential, captured now. The
// request made with it keeps that credential even if the session changes
// before it completes.
func (h *Holder) Authorize(ctx context.Context) (context.Context, error) {
	s := h.Snapshot()
	if !s.Active() {
		return ctx, ErrNoSession
	}
	return api.WithCredential(ctx, s.Token), nil
}

// Login authenticates and adopts the returned session. Nothing is persisted
// on failure.
func (h *Holder) Login(ctx context.Context, creds api.Credentials) (api.User, error) {
	resp, err := h.auth.Login(ctx, creds)
	if err != nil {
		return api.User{}, err
	}
	h.adopt(Session{Token: resp.Token, User: resp.User})
	log.Info().Str("user", resp.User.Nickname).Msg("logged in")
	return resp.User, nil
}

// Register creates an account and adopts the returned session.
func (h *Holder) Register(ctx context.Context, reg api.Registration) (api.User, error) {
	resp, err := h.auth.Register(ctx, reg)
	if err != nil {
		return api.User{}, err
	}
	h.adopt(Session{Token: resp.Token, User: resp.User})
	log.Info().Str("user", resp.User.Nickname).Msg("registered")
	return resp.User, nil
}

// Logout clears the session from memory and disk.
func (h *Holder) Logout() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	nickname := h.current.User.Nickname
	h.current = Session{}
	log.Info().Str("user", nickname).Msg("logged out")

	if h.path == "" {
		return nil
	}
	if err := os.Remove(h.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}

// UpdateProfile sends profile changes with the credential held at call time
// and merges the response into the session.
func (h *Holder) UpdateProfile(ctx context.Context, in api.ProfileInput) (api.User, error) {
	return h.mutateProfile(ctx, "profile updated", func(ctx context.Context) (api.ProfileResponse, error) {
		return h.auth.UpdateProfile(ctx, in)
	})
}

// UploadAvatar uploads the image at path as the profile picture.
func (h *Holder) UploadAvatar(ctx context.Context, path string) (api.User, error) {
	return h.mutateProfile(ctx, "avatar uploaded", func(ctx context.Context) (api.ProfileResponse, error) {
		return h.auth.UploadAvatar(ctx, path)
	})
}

func (h *Holder) mutateProfile(ctx context.Context, event string, call func(context.Context) (api.ProfileResponse, error)) (api.User, error) {
	issued := h.Snapshot()
	if !issued.Active() {
		return api.User{}, ErrNoSession
	}

	resp, err := call(api.WithCredential(ctx, issued.Token))
	if err != nil {
		return api.User{}, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.current.Token != issued.Token {
		return api.User{}, ErrSessionChanged
	}
	h.current.User = resp.Merge(h.current.User)
	h.persistLocked()
	log.Info().Str("user", h.current.User.Nickname).Msg(event)
	return h.current.User, nil
}

func (h *Holder) adopt(s Session) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.current = s
	h.persistLocked()
}

// persistLocked writes the session blob. A write failure keeps the session
// in memory for this run.
func (h *Holder) persistLocked() {
	if h.path == "" {
		return
	}
	if err := writeFile(h.path, h.current); err != nil {
		log.Warn().Err(err).Str("path", h.path).Msg("persist session")
	}
}

func writeFile(path string, s Session) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace session: %w", err)
	}
	return nil
}

// expired reports whether token is a JWT whose exp claim is in the past.
// Tokens that are not JWTs, or carry no exp, are trusted until the server
// rejects them.
func expired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !exp.After(now)
}
