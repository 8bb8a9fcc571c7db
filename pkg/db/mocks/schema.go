package mocks

import (
	"context"

	kdb "github.com/opst/grammarfab/pkg/db"
)

type MockSchemaInterface struct {
	Impl struct {
		Version func(ctx context.Context) (int, error)
		Upgrade func(ctx context.Context) error
		Context func(ctx context.Context) (context.Context, context.CancelFunc)
	}
}

func NewMockSchemaInterface() *MockSchemaInterface {
	return &MockSchemaInterface{}
}

var _ kdb.SchemaInterface = &MockSchemaInterface{}

func (m *MockSchemaInterface) Version(ctx context.Context) (int, error) {
	if m.Impl.Version == nil {
		return -1, ErrNotImplemented
	}
	return m.Impl.Version(ctx)
}

func (m *MockSchemaInterface) Upgrade(ctx context.Context) error {
	if m.Impl.Upgrade == nil {
		return ErrNotImplemented
	}
	return m.Impl.Upgrade(ctx)
}

// Context returns ctx as is, unless Impl.Context is set.
func (m *MockSchemaInterface) Context(ctx context.Context) (context.Context, context.CancelFunc) {
	if m.Impl.Context == nil {
		return ctx, func() {}
	}
	return m.Impl.Context(ctx)
}
