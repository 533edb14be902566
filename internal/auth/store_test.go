package auth

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/talentlink/internal/model"
)

func signedToken(t *testing.T, userID int64, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":    userID,
		"exp":        exp.Unix(),
		"token_type": "access",
	}).SignedString([]byte("server-secret"))
	require.NoError(t, err)
	return tok
}

func TestStoreRoundTrip(t *testing.T) {
	t.Setenv(TokenEnv, "")
	dir := filepath.Join(t.TempDir(), ".talentlink")
	s := NewStore(dir)

	_, err := s.Load()
	assert.ErrorIs(t, err, ErrNotLoggedIn)

	exp := time.Now().Add(5 * time.Minute).Truncate(time.Second)
	access := signedToken(t, 7, exp)
	require.NoError(t, s.Save(model.Session{Access: "Bearer " + access, Refresh: "r", User: model.User{Name: "sam"}}))

	info, err := os.Stat(filepath.Join(dir, credFileName))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	c, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, "file", c.Source)
	assert.Equal(t, access, c.Session.Access, "bearer prefix stripped")
	assert.Equal(t, int64(7), c.Session.User.ID, "user id filled from the token")
	assert.Equal(t, "sam", c.Session.User.Name)
	require.NotNil(t, c.ExpiresAt)
	assert.True(t, exp.Equal(*c.ExpiresAt))
	assert.False(t, c.Expired(time.Now()))
	assert.True(t, c.Expired(exp.Add(time.Second)))

	require.NoError(t, s.Clear())
	_, err = s.Load()
	assert.ErrorIs(t, err, ErrNotLoggedIn)
	assert.NoError(t, s.Clear(), "clearing twice is fine")
}

func TestStoreEnvOverride(t *testing.T) {
	s := NewStore(t.TempDir())
	require.NoError(t, s.Save(model.Session{Access: "from-file"}))

	t.Setenv(TokenEnv, "bearer "+signedToken(t, 12, time.Now().Add(time.Hour)))
	c, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, "env", c.Source)
	assert.Equal(t, int64(12), c.Session.User.ID)
	assert.NotNil(t, c.ExpiresAt)
}

func TestStoreEnvOpaqueToken(t *testing.T) {
	t.Setenv(TokenEnv, "opaque")
	c, err := NewStore(t.TempDir()).Load()
	require.NoError(t, err)
	assert.Equal(t, "opaque", c.Session.Access)
	assert.Nil(t, c.ExpiresAt)
	assert.Zero(t, c.Session.User.ID)
}

func TestSaveRejectsEmpty(t *testing.T) {
	assert.Error(t, NewStore(t.TempDir()).Save(model.Session{Access: "  "}))
}

func TestLoadCorruptFile(t *testing.T) {
	t.Setenv(TokenEnv, "")
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, credFileName), []byte("{nope"), 0o600))
	_, err := NewStore(dir).Load()
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotLoggedIn)
}

func TestParseClaims(t *testing.T) {
	t.Parallel()

	c, err := ParseClaims(signedToken(t, 3, time.Unix(1900000000, 0)))
	require.NoError(t, err)
	assert.Equal(t, int64(3), c.UserID)
	assert.Equal(t, "access", c.Raw["token_type"])
	assert.Equal(t, int64(1900000000), c.ExpiresAt.Unix())

	_, err = ParseClaims("not-a-jwt")
	assert.Error(t, err)
}

func TestStripBearer(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "abc", StripBearer("Bearer abc"))
	assert.Equal(t, "abc", StripBearer("bearer   abc"))
	assert.Equal(t, "abc", StripBearer("abc"))
}
