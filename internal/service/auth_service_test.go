package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/indra-store/internal/cache"
	"github.com/indra-store/internal/config"
	"github.com/indra-store/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthTestService(t *testing.T) *AuthService {
	t.Helper()
	db := openServiceTestDB(t)
	cfg := &config.Config{
		JWT:      config.JWTConfig{SecretKey: "test-secret", ExpireHours: 2},
		Security: config.SecurityConfig{PasswordMinLength: 8},
	}
	return NewAuthService(cfg, repository.NewUserRepository(db))
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newAuthTestService(t)
	fixed := time.Now().Truncate(time.Second)
	svc.now = func() time.Time { return fixed }

	session, err := svc.Register(RegisterInput{Email: " Kamala@Example.com ", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Equal(t, "kamala@example.com", session.User.Email)
	assert.Equal(t, "kamala", session.User.Name)
	assert.NotEmpty(t, session.Token)
	assert.True(t, session.ExpiresAt.Equal(fixed.Add(2*time.Hour)))
	assert.NotEqual(t, "correct-horse", session.User.PasswordHash)

	login, err := svc.Login(LoginInput{Email: "KAMALA@example.com", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Equal(t, session.User.ID, login.User.ID)
	require.NotNil(t, login.User.LastLoginAt)

	claims, err := svc.ParseUserJWT(login.Token)
	require.NoError(t, err)
	assert.Equal(t, session.User.ID, claims.UserID)
	assert.Equal(t, "kamala@example.com", claims.Email)
}

func TestRegisterValidation(t *testing.T) {
	svc := newAuthTestService(t)

	_, err := svc.Register(RegisterInput{Email: "not-an-email", Password: "long-enough"})
	assert.ErrorIs(t, err, ErrInvalidEmail)

	_, err = svc.Register(RegisterInput{Email: "a@b.lk", Password: "short"})
	assert.ErrorIs(t, err, ErrPasswordTooShort)
	var policyErr passwordPolicyError
	require.True(t, errors.As(err, &policyErr))
	assert.Equal(t, []interface{}{8}, policyErr.Args())

	_, err = svc.Register(RegisterInput{Email: "a@b.lk", Password: "long-enough", Name: "Amal"})
	require.NoError(t, err)
	_, err = svc.Register(RegisterInput{Email: "A@B.lk", Password: "long-enough"})
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := newAuthTestService(t)
	_, err := svc.Register(RegisterInput{Email: "ruwan@example.com", Password: "long-enough"})
	require.NoError(t, err)

	_, err = svc.Login(LoginInput{Email: "ruwan@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(LoginInput{Email: "nobody@example.com", Password: "long-enough"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(LoginInput{Email: "broken", Password: "long-enough"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestParseUserJWTRejectsTampered(t *testing.T) {
	svc := newAuthTestService(t)
	session, err := svc.Register(RegisterInput{Email: "dilan@example.com", Password: "long-enough"})
	require.NoError(t, err)

	other := NewAuthService(&config.Config{JWT: config.JWTConfig{SecretKey: "another-secret"}}, nil)
	_, err = other.ParseUserJWT(session.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.ParseUserJWT("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	missing := NewAuthService(&config.Config{}, nil)
	_, _, err = missing.GenerateUserJWT(session.User)
	assert.ErrorIs(t, err, ErrJWTSecretMissing)
}

func TestParseUserJWTRejectsExpired(t *testing.T) {
	svc := newAuthTestService(t)
	session, err := svc.Register(RegisterInput{Email: "expired@example.com", Password: "long-enough"})
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(-3 * time.Hour) }
	token, _, err := svc.GenerateUserJWT(session.User)
	require.NoError(t, err)

	_, err = svc.ParseUserJWT(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestResolveUserUsesCacheSnapshot(t *testing.T) {
	useTestRedis(t)
	svc := newAuthTestService(t)
	ctx := context.Background()
	session, err := svc.Register(RegisterInput{Email: "cached@example.com", Password: "long-enough"})
	require.NoError(t, err)

	claims, err := svc.ParseUserJWT(session.Token)
	require.NoError(t, err)
	state, err := svc.ResolveUser(ctx, claims)
	require.NoError(t, err)
	assert.Equal(t, session.User.ID, state.UserID)

	_, hit, err := cache.GetUserAuthState(ctx, session.User.ID)
	require.NoError(t, err)
	assert.True(t, hit)

	claims.Email = "someone-else@example.com"
	_, err = svc.ResolveUser(ctx, claims)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestResolveUserWithoutCache(t *testing.T) {
	svc := newAuthTestService(t)
	session, err := svc.Register(RegisterInput{Email: "plain@example.com", Password: "long-enough"})
	require.NoError(t, err)

	state, err := svc.ResolveUser(context.Background(), &UserJWTClaims{UserID: session.User.ID, Email: "plain@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "plain@example.com", state.Email)

	_, err = svc.ResolveUser(context.Background(), &UserJWTClaims{UserID: session.User.ID + 10, Email: "plain@example.com"})
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = svc.ResolveUser(context.Background(), nil)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
