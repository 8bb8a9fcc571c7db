package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/opst/grammarfab/pkg/auth"
	kdb "github.com/opst/grammarfab/pkg/db"
)

var epoch = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

var alice = kdb.User{
	Id:        1,
	UUID:      "5f0c7f0e-0c3e-4b8f-9c39-2f1a0a8f3b01",
	Email:     "alice@example.com",
	FullName:  "Alice",
	Role:      kdb.RoleUser,
	CreatedAt: epoch,
	UpdatedAt: epoch,
}

var admin = kdb.User{
	Id:        2,
	UUID:      "a1b2c3d4-0000-4000-8000-000000000002",
	Email:     "admin@example.com",
	FullName:  "Admin",
	Role:      kdb.RoleAdmin,
	CreatedAt: epoch,
	UpdatedAt: epoch,
}

// as does what auth middleware does for handlers.
func as(c echo.Context, user kdb.User) echo.Context {
	auth.SetCurrent(c, user, &auth.Claims{})
	return c
}

// status is the status code responded, or to be responded for err.
func status(t *testing.T, err error, resp *httptest.ResponseRecorder) int {
	t.Helper()
	if err == nil {
		return resp.Code
	}
	herr := new(echo.HTTPError)
	if !errors.As(err, &herr) {
		t.Fatalf("unexpected error: %+v", err)
	}
	return herr.Code
}

func decode[T any](t *testing.T, resp *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if ctype := resp.Header().Get("Content-Type"); !strings.HasPrefix(ctype, "application/json") {
		t.Fatalf("content type = %s", ctype)
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &v); err != nil {
		t.Fatalf("response is not json: %v\n%s", err, resp.Body.String())
	}
	return v
}

// fakeCorrector upper-cases text.
type fakeCorrector struct{}

func (fakeCorrector) Correct(_ context.Context, text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	return strings.ToUpper(text)
}

func (f fakeCorrector) CorrectAll(ctx context.Context, texts []string, _ int) []string {
	out := make([]string, len(texts))
	for i, t := range texts {
		out[i] = f.Correct(ctx, t)
	}
	return out
}

func jwtTime(t time.Time) *jwt.NumericDate {
	return jwt.NewNumericDate(t)
}
