package auth_test

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/opst/grammarfab/pkg/auth"
	kdb "github.com/opst/grammarfab/pkg/db"
	"github.com/opst/grammarfab/pkg/utils/try"
)

var alice = kdb.User{
	Id:    1,
	UUID:  "0b5a2b9c-3f3d-4b39-8f8e-6a9f2c1d7e11",
	Email: "alice@example.com",
	Role:  kdb.RoleUser,
}

var epoch = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestTokens(t *testing.T) {
	secret := []byte("secret")
	issuer := auth.NewTokens(
		secret, "grammar-correction-api", "grammar-correction-users", 15*time.Minute,
		auth.WithClock(fixedClock(epoch)),
		auth.WithTokenIdGenerator(func() string { return "jti-1" }),
	)

	token := try.To(issuer.Issue(alice)).OrFatal(t)
	if token.JTI != "jti-1" {
		t.Errorf("jti = %s", token.JTI)
	}
	if !token.ExpiresAt.Equal(epoch.Add(15 * time.Minute)) {
		t.Errorf("expires at %s", token.ExpiresAt)
	}

	t.Run("it accepts its own token", func(t *testing.T) {
		claims := try.To(issuer.Verify(token.Value)).OrFatal(t)
		if claims.Subject != alice.UUID || claims.Email != alice.Email || claims.ID != "jti-1" {
			t.Errorf("unexpected claims: %+v", claims)
		}
		if claims.Type != auth.TokenTypeAccess {
			t.Errorf("type = %s", claims.Type)
		}
	})

	for name, testcase := range map[string]struct {
		verifier *auth.Tokens
		token    func(t *testing.T) string
	}{
		"expired": {
			verifier: auth.NewTokens(secret, "grammar-correction-api", "grammar-correction-users", time.Minute,
				auth.WithClock(fixedClock(epoch.Add(16*time.Minute)))),
			token: func(*testing.T) string { return token.Value },
		},
		"other secret": {
			verifier: auth.NewTokens([]byte("other"), "grammar-correction-api", "grammar-correction-users", time.Minute,
				auth.WithClock(fixedClock(epoch))),
			token: func(*testing.T) string { return token.Value },
		},
		"other issuer": {
			verifier: auth.NewTokens(secret, "someone-else", "grammar-correction-users", time.Minute,
				auth.WithClock(fixedClock(epoch))),
			token: func(*testing.T) string { return token.Value },
		},
		"other audience": {
			verifier: auth.NewTokens(secret, "grammar-correction-api", "someone-else", time.Minute,
				auth.WithClock(fixedClock(epoch))),
			token: func(*testing.T) string { return token.Value },
		},
		"malformed": {
			verifier: issuer,
			token:    func(*testing.T) string { return "not.a.jwt" },
		},
		"not an access token": {
			verifier: issuer,
			token: func(t *testing.T) string {
				return sign(t, secret, jwt.SigningMethodHS256, auth.Claims{
					RegisteredClaims: registered(epoch),
					Type:             "refresh",
				})
			},
		},
		"without expiry": {
			verifier: issuer,
			token: func(t *testing.T) string {
				rc := registered(epoch)
				rc.ExpiresAt = nil
				return sign(t, secret, jwt.SigningMethodHS256, auth.Claims{RegisteredClaims: rc, Type: auth.TokenTypeAccess})
			},
		},
		"signed with other algorithm": {
			verifier: issuer,
			token: func(t *testing.T) string {
				return sign(t, secret, jwt.SigningMethodHS512, auth.Claims{
					RegisteredClaims: registered(epoch),
					Type:             auth.TokenTypeAccess,
				})
			},
		},
		"alg none": {
			verifier: issuer,
			token: func(t *testing.T) string {
				return sign(t, jwt.UnsafeAllowNoneSignatureType, jwt.SigningMethodNone, auth.Claims{
					RegisteredClaims: registered(epoch),
					Type:             auth.TokenTypeAccess,
				})
			},
		},
	} {
		t.Run("it rejects token: "+name, func(t *testing.T) {
			_, err := testcase.verifier.Verify(testcase.token(t))
			if !errors.Is(err, auth.ErrInvalidToken) {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func registered(now time.Time) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		Issuer:    "grammar-correction-api",
		Subject:   alice.UUID,
		Audience:  jwt.ClaimStrings{"grammar-correction-users"},
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute)),
		IssuedAt:  jwt.NewNumericDate(now),
		ID:        "jti-x",
	}
}

func sign(t *testing.T, key any, method jwt.SigningMethod, claims auth.Claims) string {
	t.Helper()
	return try.To(jwt.NewWithClaims(method, claims).SignedString(key)).OrFatal(t)
}

func TestPassword(t *testing.T) {
	t.Run("hash and check", func(t *testing.T) {
		hashed := try.To(auth.HashPassword("correct horse")).OrFatal(t)
		if hashed == "correct horse" {
			t.Fatal("password is not hashed")
		}
		if !auth.CheckPassword(hashed, "correct horse") {
			t.Error("correct password is rejected")
		}
		if auth.CheckPassword(hashed, "battery staple") {
			t.Error("wrong password is accepted")
		}
		if auth.CheckPassword("not a hash", "correct horse") {
			t.Error("broken hash accepts a password")
		}
	})

	for name, testcase := range map[string]struct {
		password string
		ok       bool
	}{
		"long enough":     {password: "12345678", ok: true},
		"too short":       {password: "1234567", ok: false},
		"multibyte runes": {password: "パスワードです!!", ok: true},
		"too long":        {password: string(make([]byte, 73)), ok: false},
	} {
		t.Run("validate: "+name, func(t *testing.T) {
			err := auth.ValidatePassword(testcase.password, 8)
			if testcase.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !testcase.ok && !errors.Is(err, auth.ErrWeakPassword) {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidEmail(t *testing.T) {
	for email, want := range map[string]bool{
		"someone@example.com":           true,
		"someone+tag@mail.example.org":  true,
		"someone":                       false,
		"":                              false,
		"Someone <someone@example.com>": false,
		" someone@example.com":          false,
		"someone@example.com, a@b.com":  false,
	} {
		if got := auth.ValidEmail(email); got != want {
			t.Errorf("ValidEmail(%q) = %v, want %v", email, got, want)
		}
	}
}
