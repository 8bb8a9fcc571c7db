package mocks

import (
	"context"
	"time"

	kdb "github.com/opst/grammarfab/pkg/db"
)

type MockRevocationInterface struct {
	Impl struct {
		Revoke    func(ctx context.Context, jti string, userId int64, expiresAt time.Time) error
		IsRevoked func(ctx context.Context, jti string) (bool, error)
		Sweep     func(ctx context.Context, now time.Time) (int, error)
	}

	Calls struct {
		Revoke CallLog[struct {
			Jti       string
			UserId    int64
			ExpiresAt time.Time
		}]
		IsRevoked CallLog[string]
		Sweep     CallLog[time.Time]
	}
}

func NewMockRevocationInterface() *MockRevocationInterface {
	return &MockRevocationInterface{}
}

var _ kdb.RevocationInterface = &MockRevocationInterface{}

func (m *MockRevocationInterface) Revoke(ctx context.Context, jti string, userId int64, expiresAt time.Time) error {
	m.Calls.Revoke = append(m.Calls.Revoke, struct {
		Jti       string
		UserId    int64
		ExpiresAt time.Time
	}{Jti: jti, UserId: userId, ExpiresAt: expiresAt})
	if m.Impl.Revoke == nil {
		return ErrNotImplemented
	}
	return m.Impl.Revoke(ctx, jti, userId, expiresAt)
}

func (m *MockRevocationInterface) IsRevoked(ctx context.Context, jti string) (bool, error) {
	m.Calls.IsRevoked = append(m.Calls.IsRevoked, jti)
	if m.Impl.IsRevoked == nil {
		return false, ErrNotImplemented
	}
	return m.Impl.IsRevoked(ctx, jti)
}

func (m *MockRevocationInterface) Sweep(ctx context.Context, now time.Time) (int, error) {
	m.Calls.Sweep = append(m.Calls.Sweep, now)
	if m.Impl.Sweep == nil {
		return 0, ErrNotImplemented
	}
	return m.Impl.Sweep(ctx, now)
}
