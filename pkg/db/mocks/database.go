package mocks

import (
	"context"

	kdb "github.com/opst/grammarfab/pkg/db"
)

type MockDatabase struct {
	MockUsers       *MockUserInterface
	MockCorrections *MockCorrectionInterface
	MockRevocations *MockRevocationInterface
	MockAnalytics   *MockAnalyticsInterface
	MockSchema      *MockSchemaInterface

	Impl struct {
		Ping func(context.Context) error
	}
}

func NewMockDatabase() *MockDatabase {
	return &MockDatabase{
		MockUsers:       NewMockUserInterface(),
		MockCorrections: NewMockCorrectionInterface(),
		MockRevocations: NewMockRevocationInterface(),
		MockAnalytics:   NewMockAnalyticsInterface(),
		MockSchema:      NewMockSchemaInterface(),
	}
}

var _ kdb.Database = &MockDatabase{}

func (m *MockDatabase) Users() kdb.UserInterface {
	return m.MockUsers
}

func (m *MockDatabase) Corrections() kdb.CorrectionInterface {
	return m.MockCorrections
}

func (m *MockDatabase) Revocations() kdb.RevocationInterface {
	return m.MockRevocations
}

func (m *MockDatabase) Analytics() kdb.AnalyticsInterface {
	return m.MockAnalytics
}

func (m *MockDatabase) Schema() kdb.SchemaInterface {
	return m.MockSchema
}

func (m *MockDatabase) Ping(ctx context.Context) error {
	if m.Impl.Ping == nil {
		return ErrNotImplemented
	}
	return m.Impl.Ping(ctx)
}

func (m *MockDatabase) Close() error {
	return nil
}
