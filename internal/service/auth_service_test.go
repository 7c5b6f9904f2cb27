package service

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"testing"
	"time"

	"brew_control/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

const testSigningKey = "brew-test-key"

// operatorRepo is an in-memory repository.Authorization.
type operatorRepo struct {
	users   map[string]*models.User
	err     error
	creates int
}

func newOperatorRepo(users ...*models.User) *operatorRepo {
	r := &operatorRepo{users: map[string]*models.User{}}
	for _, u := range users {
		r.users[u.Username] = u
	}
	return r
}

func (r *operatorRepo) Create(_ context.Context, username, hash string) (int, error) {
	r.creates++
	if r.err != nil {
		return 0, r.err
	}
	if _, ok := r.users[username]; ok {
		return 0, models.ErrConflict
	}
	u := &models.User{ID: len(r.users) + 1, Username: username, PasswordHash: hash}
	r.users[username] = u
	return u.ID, nil
}

func (r *operatorRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.users[username], nil
}

func newTestAuth(repo *operatorRepo) *AuthService {
	return NewAuthService(repo, testSigningKey, time.Hour)
}

func signWith(t *testing.T, method jwt.SigningMethod, key any, claims *Claims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func TestAuthService_SignUpThenSignIn(t *testing.T) {
	repo := newOperatorRepo()
	svc := newTestAuth(repo)
	ctx := context.Background()

	id, err := svc.SignUp(ctx, "brewer", "s3cr3t")
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	if stored := repo.users["brewer"].PasswordHash; stored == "s3cr3t" || verifyPassword(stored, "s3cr3t") != nil {
		t.Fatalf("password not stored as a bcrypt hash: %q", stored)
	}

	token, err := svc.GenerateToken(ctx, "brewer", "s3cr3t")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	got, err := svc.ParseToken(token)
	if err != nil || got != id {
		t.Fatalf("ParseToken = %d, %v; want %d", got, err, id)
	}
}

func TestAuthService_SignUpRejects(t *testing.T) {
	cases := []struct {
		name     string
		username string
		password string
		want     error
	}{
		{"blank password", "brewer", "      ", models.ErrValidation},
		{"short password", "brewer", "abc", models.ErrValidation},
		{"empty username", "", "s3cr3t", models.ErrValidation},
		{"username with space", "head brewer", "s3cr3t", models.ErrValidation},
		{"long username", "a-very-long-operator-name-that-overflows", "s3cr3t", models.ErrValidation},
		{"taken username", "taken", "s3cr3t", models.ErrConflict},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := newOperatorRepo(&models.User{ID: 1, Username: "taken"})
			_, err := newTestAuth(repo).SignUp(context.Background(), tc.username, tc.password)
			if !errors.Is(err, tc.want) {
				t.Fatalf("SignUp err = %v; want %v", err, tc.want)
			}
			if tc.want == models.ErrValidation && repo.creates != 0 {
				t.Fatalf("repository reached with invalid credentials")
			}
		})
	}
}

func TestAuthService_GenerateTokenFailures(t *testing.T) {
	hash, err := hashPassword("correct")
	if err != nil {
		t.Fatalf("hashPassword: %v", err)
	}
	down := errors.New("query failed")

	cases := []struct {
		name     string
		username string
		password string
		repoErr  error
		want     error
	}{
		{"unknown operator", "ghost", "correct", nil, ErrUserNotFound},
		{"wrong password", "eve", "wrong", nil, ErrInvalidPassword},
		{"repository error", "eve", "correct", down, down},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := newOperatorRepo(&models.User{ID: 1, Username: "eve", PasswordHash: hash})
			repo.err = tc.repoErr
			_, err := newTestAuth(repo).GenerateToken(context.Background(), tc.username, tc.password)
			if !errors.Is(err, tc.want) {
				t.Fatalf("err = %v; want %v", err, tc.want)
			}
		})
	}
}

func TestAuthService_ParseTokenRejects(t *testing.T) {
	svc := newTestAuth(newOperatorRepo())
	now := time.Now()
	valid := jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		IssuedAt:  jwt.NewNumericDate(now),
	}
	expired := jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(-time.Hour)),
		IssuedAt:  jwt.NewNumericDate(now.Add(-2 * time.Hour)),
	}
	rsaKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("rsa key: %v", err)
	}

	cases := map[string]string{
		"malformed":       "not-a-jwt",
		"foreign key":     signWith(t, jwt.SigningMethodHS256, []byte("other-key"), &Claims{RegisteredClaims: valid, UserID: 5}),
		"expired":         signWith(t, jwt.SigningMethodHS256, []byte(testSigningKey), &Claims{RegisteredClaims: expired, UserID: 11}),
		"non-HMAC method": signWith(t, jwt.SigningMethodRS256, rsaKey, &Claims{RegisteredClaims: valid, UserID: 12}),
	}
	for name, token := range cases {
		if _, err := svc.ParseToken(token); err == nil {
			t.Errorf("%s: token accepted", name)
		}
	}
}

func TestAuthService_KeyComesFromConfig(t *testing.T) {
	a := NewAuthService(newOperatorRepo(), "key-a", time.Hour)
	b := NewAuthService(newOperatorRepo(), "key-b", time.Hour)

	token, err := a.issueToken(3)
	if err != nil {
		t.Fatalf("issueToken: %v", err)
	}
	if _, err := b.ParseToken(token); err == nil {
		t.Fatalf("token signed with another key must be rejected")
	}
	if uid, err := a.ParseToken(token); err != nil || uid != 3 {
		t.Fatalf("ParseToken = %d, %v; want 3, nil", uid, err)
	}
}

func TestAuthService_EmptyKeyRefusesToIssue(t *testing.T) {
	svc := NewAuthService(newOperatorRepo(), "", 0)
	if svc.tokenTTL != DefaultTokenTTL {
		t.Fatalf("tokenTTL = %v; want default", svc.tokenTTL)
	}
	if _, err := svc.issueToken(1); !errors.Is(err, ErrNoSigningKey) {
		t.Fatalf("issueToken err = %v; want ErrNoSigningKey", err)
	}
}
