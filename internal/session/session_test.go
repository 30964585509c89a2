package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/plusultra/internal/api"
)

type fakeAuth struct {
	loginResp   api.AuthResponse
	loginErr    error
	profileResp api.ProfileResponse
	profileErr  error
	seenToken   string
	beforeReply func()
}

func (f *fakeAuth) Login(_ context.Context, _ api.Credentials) (api.AuthResponse, error) {
	return f.loginResp, f.loginErr
}

func (f *fakeAuth) Register(_ context.Context, _ api.Registration) (api.AuthResponse, error) {
	return f.loginResp, f.loginErr
}

func (f *fakeAuth) UpdateProfile(ctx context.Context, _ api.ProfileInput) (api.ProfileResponse, error) {
	f.seenToken = api.CredentialFrom(ctx)
	if f.beforeReply != nil {
		f.beforeReply()
	}
	return f.profileResp, f.profileErr
}

func (f *fakeAuth) UploadAvatar(ctx context.Context, _ string) (api.ProfileResponse, error) {
	return f.UpdateProfile(ctx, api.ProfileInput{})
}

func signed(t *testing.T, exp time.Time) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "u1",
		"exp": exp.Unix(),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func writeBlob(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
}

func TestHolder_LoadMissingBlob(t *testing.T) {
	h := NewHolder(filepath.Join(t.TempDir(), "session.json"), &fakeAuth{})
	require.NoError(t, h.Load())
	assert.False(t, h.LoggedIn())
}

func TestHolder_LoadCorruptBlob(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	writeBlob(t, path, "{not json")

	h := NewHolder(path, &fakeAuth{})
	assert.Error(t, h.Load())
	assert.False(t, h.LoggedIn())
}

func TestHolder_LoadExpiredToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	writeBlob(t, path, `{"token":"`+signed(t, time.Now().Add(-time.Hour))+`","user":{"nickname":"ana"}}`)

	h := NewHolder(path, &fakeAuth{})
	require.NoError(t, h.Load())
	assert.False(t, h.LoggedIn())
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "expired blob is removed")
}

func TestHolder_LoadValidAndOpaqueTokens(t *testing.T) {
	for name, token := range map[string]string{
		"jwt":    signed(t, time.Now().Add(time.Hour)),
		"opaque": "abc123",
	} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "session.json")
			writeBlob(t, path, `{"token":"`+token+`","user":{"_id":"u1","nickname":"ana"}}`)

			h := NewHolder(path, &fakeAuth{})
			require.NoError(t, h.Load())
			snap := h.Snapshot()
			assert.True(t, snap.Active())
			assert.Equal(t, "ana", snap.User.Nickname)
		})
	}
}

func TestHolder_LoginPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	auth := &fakeAuth{loginResp: api.AuthResponse{Token: "tok", User: api.User{ID: "u1", Nickname: "ana"}}}
	h := NewHolder(path, auth)

	user, err := h.Login(context.Background(), api.Credentials{Email: "ana@example.com", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "ana", user.Nickname)

	reloaded := NewHolder(path, auth)
	require.NoError(t, reloaded.Load())
	assert.Equal(t, "tok", reloaded.Snapshot().Token)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestHolder_LoginFailurePersistsNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	h := NewHolder(path, &fakeAuth{loginErr: errors.New("Credenciales inválidas")})

	_, err := h.Login(context.Background(), api.Credentials{})
	require.Error(t, err)
	assert.False(t, h.LoggedIn())
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestHolder_Logout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	h := NewHolder(path, &fakeAuth{loginResp: api.AuthResponse{Token: "tok"}})
	_, err := h.Register(context.Background(), api.Registration{})
	require.NoError(t, err)

	require.NoError(t, h.Logout())
	assert.False(t, h.LoggedIn())
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))

	require.NoError(t, h.Logout(), "logging out twice is fine")
}

func TestHolder_Authorize(t *testing.T) {
	h := NewHolder("", &fakeAuth{loginResp: api.AuthResponse{Token: "tok"}})

	_, err := h.Authorize(context.Background())
	assert.ErrorIs(t, err, ErrNoSession)

	_, err = h.Login(context.Background(), api.Credentials{})
	require.NoError(t, err)
	ctx, err := h.Authorize(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok", api.CredentialFrom(ctx))
}

func TestHolder_UpdateProfileMerges(t *testing.T) {
	phrase := "a jugar"
	auth := &fakeAuth{
		loginResp:   api.AuthResponse{Token: "tok", User: api.User{ID: "u1", Nickname: "ana", Phrase: "hola"}},
		profileResp: api.ProfileResponse{Phrase: &phrase},
	}
	path := filepath.Join(t.TempDir(), "session.json")
	h := NewHolder(path, auth)
	_, err := h.Login(context.Background(), api.Credentials{})
	require.NoError(t, err)

	user, err := h.UpdateProfile(context.Background(), api.ProfileInput{Phrase: &phrase})
	require.NoError(t, err)
	assert.Equal(t, "tok", auth.seenToken)
	assert.Equal(t, "a jugar", user.Phrase)
	assert.Equal(t, "ana", user.Nickname)

	reloaded := NewHolder(path, auth)
	require.NoError(t, reloaded.Load())
	assert.Equal(t, "a jugar", reloaded.Snapshot().User.Phrase)
}

func TestHolder_ProfileFailureLeavesSession(t *testing.T) {
	auth := &fakeAuth{
		loginResp:  api.AuthResponse{Token: "tok", User: api.User{Nickname: "ana"}},
		profileErr: &api.Error{Status: 409, Message: "Nickname en uso"},
	}
	h := NewHolder("", auth)
	_, err := h.Login(context.Background(), api.Credentials{})
	require.NoError(t, err)

	_, err = h.UploadAvatar(context.Background(), "avatar.png")
	require.Error(t, err)
	assert.Equal(t, "ana", h.Snapshot().User.Nickname)
}

func TestHolder_ProfileRequiresSession(t *testing.T) {
	h := NewHolder("", &fakeAuth{})
	_, err := h.UpdateProfile(context.Background(), api.ProfileInput{})
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestHolder_ProfileResponseAfterLogoutIsDropped(t *testing.T) {
	nick := "nuevo"
	auth := &fakeAuth{
		loginResp:   api.AuthResponse{Token: "tok", User: api.User{Nickname: "ana"}},
		profileResp: api.ProfileResponse{Nickname: &nick},
	}
	h := NewHolder("", auth)
	_, err := h.Login(context.Background(), api.Credentials{})
	require.NoError(t, err)
	auth.beforeReply = func() { _ = h.Logout() }

	_, err = h.UpdateProfile(context.Background(), api.ProfileInput{Nickname: &nick})
	assert.ErrorIs(t, err, ErrSessionChanged)
	assert.False(t, h.LoggedIn())
}
