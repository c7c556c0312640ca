package service

import (
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"testing"
	"time"

	"sensor_dashboard/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

const testSigningKey = "test-signing-key"

// mockAuthRepo is a lightweight in-test mock for repository.Authorization.
type mockAuthRepo struct {
	CreateFn        func(username, fullName, hash string) (int, error)
	GetByUsernameFn func(username string) (*models.User, error)

	createCalls []struct {
		username string
		fullName string
		hash     string
	}
	getCalls []string
}

func (m *mockAuthRepo) Create(username, fullName, hash string) (int, error) {
	m.createCalls = append(m.createCalls, struct {
		username string
		fullName string
		hash     string
	}{username: username, fullName: fullName, hash: hash})
	return m.CreateFn(username, fullName, hash)
}

func (m *mockAuthRepo) GetByUsername(username string) (*models.User, error) {
	m.getCalls = append(m.getCalls, username)
	return m.GetByUsernameFn(username)
}

func newTestAuth(repo *mockAuthRepo) *AuthService {
	return NewAuthService(repo, AuthConfig{SigningKey: testSigningKey, TokenTTL: time.Hour})
}

// --- SignUp tests ---

func TestAuthService_SignUp_SuccessHashesPasswordAndCallsRepo(t *testing.T) {
	mock := &mockAuthRepo{
		CreateFn: func(username, fullName, hash string) (int, error) { return 42, nil },
	}
	svc := newTestAuth(mock)

	id, err := svc.SignUp("  Ana@Example.com ", " Ana Souza ", "s3cr3t!")
	if err != nil {
		t.Fatalf("SignUp returned error: %v", err)
	}
	if id != 42 {
		t.Fatalf("expected id 42, got %d", id)
	}
	if len(mock.createCalls) != 1 {
		t.Fatalf("expected 1 Create call, got %d", len(mock.createCalls))
	}
	call := mock.createCalls[0]
	if call.username != "ana@example.com" || call.fullName != "Ana Souza" {
		t.Errorf("unexpected normalized input: %+v", call)
	}
	if call.hash == "s3cr3t!" {
		t.Errorf("expected hashed password not equal to raw password")
	}
	if err := verifyPassword(call.hash, "s3cr3t!"); err != nil {
		t.Errorf("stored hash does not verify with original password: %v", err)
	}
}

func TestAuthService_SignUp_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{name: "empty username", username: "  ", password: "longenough", wantErr: ErrInvalidUsername},
		{name: "blank password", username: "bob", password: "     ", wantErr: ErrWeakPassword},
		{name: "short password", username: "bob", password: "abc", wantErr: ErrWeakPassword},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockAuthRepo{
				CreateFn: func(string, string, string) (int, error) {
					t.Fatal("Create should not be called")
					return 0, nil
				},
			}
			_, err := newTestAuth(mock).SignUp(tt.username, "", tt.password)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestAuthService_SignUp_RepoError(t *testing.T) {
	mock := &mockAuthRepo{
		CreateFn: func(string, string, string) (int, error) { return 0, errors.New("db down") },
	}
	if _, err := newTestAuth(mock).SignUp("carl", "", "pass123"); err == nil {
		t.Fatalf("expected repo error, got nil")
	}
}

// --- GenerateToken tests ---

func TestAuthService_GenerateToken_Success(t *testing.T) {
	hash, err := hashPassword("letmein")
	if err != nil {
		t.Fatalf("hashPassword failed: %v", err)
	}
	user := &models.User{ID: 7, Username: "diana", PasswordHash: hash}

	mock := &mockAuthRepo{
		GetByUsernameFn: func(username string) (*models.User, error) {
			if username != "diana" {
				t.Fatalf("expected username 'diana', got %q", username)
			}
			return user, nil
		},
	}
	svc := newTestAuth(mock)

	token, err := svc.GenerateToken("Diana", "letmein")
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}
	uid, err := svc.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken failed: %v", err)
	}
	if uid != 7 {
		t.Fatalf("expected user id 7 from token, got %d", uid)
	}
}

func TestAuthService_GenerateToken_Failures(t *testing.T) {
	correctHash, err := hashPassword("correct")
	if err != nil {
		t.Fatalf("hashPassword failed: %v", err)
	}
	repoErr := errors.New("query failed")

	tests := []struct {
		name    string
		get     func(string) (*models.User, error)
		wantErr error
	}{
		{
			name:    "user not found",
			get:     func(string) (*models.User, error) { return nil, nil },
			wantErr: ErrUserNotFound,
		},
		{
			name: "invalid password",
			get: func(string) (*models.User, error) {
				return &models.User{ID: 1, Username: "eve", PasswordHash: correctHash}, nil
			},
			wantErr: ErrInvalidPassword,
		},
		{
			name:    "repo error",
			get:     func(string) (*models.User, error) { return nil, repoErr },
			wantErr: repoErr,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestAuth(&mockAuthRepo{GetByUsernameFn: tt.get})
			_, err := svc.GenerateToken("eve", "wrong")
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

// --- ParseToken tests ---

func signClaims(t *testing.T, method jwt.SigningMethod, key any, userID int, expires time.Time) string {
	t.Helper()
	tk := jwt.NewWithClaims(method, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expires),
			IssuedAt:  jwt.NewNumericDate(expires.Add(-time.Hour)),
		},
		UserID: userID,
	})
	s, err := tk.SignedString(key)
	if err != nil {
		t.Fatalf("SignedString failed: %v", err)
	}
	return s
}

func TestAuthService_ParseToken(t *testing.T) {
	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("rsa.GenerateKey failed: %v", err)
	}
	future := time.Now().Add(time.Hour)

	tests := []struct {
		name    string
		token   string
		wantUID int
		wantErr bool
	}{
		{
			name:    "valid",
			token:   signClaims(t, jwt.SigningMethodHS256, []byte(testSigningKey), 99, future),
			wantUID: 99,
		},
		{name: "malformed", token: "not-a-jwt", wantErr: true},
		{
			name:    "other signing key",
			token:   signClaims(t, jwt.SigningMethodHS256, []byte("different-key"), 5, future),
			wantErr: true,
		},
		{
			name:    "expired",
			token:   signClaims(t, jwt.SigningMethodHS256, []byte(testSigningKey), 11, time.Now().Add(-2*time.Hour)),
			wantErr: true,
		},
		{
			name:    "unexpected alg",
			token:   signClaims(t, jwt.SigningMethodRS256, privateKey, 12, future),
			wantErr: true,
		},
	}

	svc := newTestAuth(&mockAuthRepo{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uid, err := svc.ParseToken(tt.token)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got uid=%d", uid)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseToken returned error: %v", err)
			}
			if uid != tt.wantUID {
				t.Fatalf("expected user id %d, got %d", tt.wantUID, uid)
			}
		})
	}
}

func TestAuthService_TokenTTLFromConfig(t *testing.T) {
	fixed := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	svc := NewAuthService(&mockAuthRepo{}, AuthConfig{SigningKey: testSigningKey, TokenTTL: 15 * time.Minute})
	svc.now = func() time.Time { return fixed }

	token, err := svc.issueToken(3)
	if err != nil {
		t.Fatalf("issueToken failed: %v", err)
	}
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		t.Fatalf("ParseUnverified: %v", err)
	}
	if got := claims.ExpiresAt.Time.Sub(claims.IssuedAt.Time); got != 15*time.Minute {
		t.Fatalf("expected 15m ttl, got %v", got)
	}
}
