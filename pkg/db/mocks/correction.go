package mocks

import (
	"context"

	kdb "github.com/opst/grammarfab/pkg/db"
)

type MockCorrectionInterface struct {
	Impl struct {
		Create     func(ctx context.Context, correction kdb.NewCorrection) (kdb.Correction, error)
		CreateMany func(ctx context.Context, corrections []kdb.NewCorrection) ([]kdb.Correction, error)
		Get        func(ctx context.Context, id int64) (kdb.Correction, error)
		Find       func(ctx context.Context, query kdb.CorrectionQuery, page kdb.Page) ([]kdb.Correction, error)
		Count      func(ctx context.Context, query kdb.CorrectionQuery) (int, error)
		Delete     func(ctx context.Context, id int64) error
	}

	Calls struct {
		Create     CallLog[kdb.NewCorrection]
		CreateMany CallLog[[]kdb.NewCorrection]
		Get        CallLog[int64]
		Find       CallLog[struct {
			Query kdb.CorrectionQuery
			Page  kdb.Page
		}]
		Count  CallLog[kdb.CorrectionQuery]
		Delete CallLog[int64]
	}
}

func NewMockCorrectionInterface() *MockCorrectionInterface {
	return &MockCorrectionInterface{}
}

var _ kdb.CorrectionInterface = &MockCorrectionInterface{}

func (m *MockCorrectionInterface) Create(ctx context.Context, correction kdb.NewCorrection) (kdb.Correction, error) {
	m.Calls.Create = append(m.Calls.Create, correction)
	if m.Impl.Create == nil {
		return kdb.Correction{}, ErrNotImplemented
	}
	return m.Impl.Create(ctx, correction)
}

func (m *MockCorrectionInterface) CreateMany(ctx context.Context, corrections []kdb.NewCorrection) ([]kdb.Correction, error) {
	m.Calls.CreateMany = append(m.Calls.CreateMany, corrections)
	if m.Impl.CreateMany == nil {
		return nil, ErrNotImplemented
	}
	return m.Impl.CreateMany(ctx, corrections)
}

func (m *MockCorrectionInterface) Get(ctx context.Context, id int64) (kdb.Correction, error) {
	m.Calls.Get = append(m.Calls.Get, id)
	if m.Impl.Get == nil {
		return kdb.Correction{}, ErrNotImplemented
	}
	return m.Impl.Get(ctx, id)
}

func (m *MockCorrectionInterface) Find(ctx context.Context, query kdb.CorrectionQuery, page kdb.Page) ([]kdb.Correction, error) {
	m.Calls.Find = append(m.Calls.Find, struct {
		Query kdb.CorrectionQuery
		Page  kdb.Page
	}{Query: query, Page: page})
	if m.Impl.Find == nil {
		return nil, ErrNotImplemented
	}
	return m.Impl.Find(ctx, query, page)
}

func (m *MockCorrectionInterface) Count(ctx context.Context, query kdb.CorrectionQuery) (int, error) {
	m.Calls.Count = append(m.Calls.Count, query)
	if m.Impl.Count == nil {
		return 0, ErrNotImplemented
	}
	return m.Impl.Count(ctx, query)
}

func (m *MockCorrectionInterface) Delete(ctx context.Context, id int64) error {
	m.Calls.Delete = append(m.Calls.Delete, id)
	if m.Impl.Delete == nil {
		return ErrNotImplemented
	}
	return m.Impl.Delete(ctx, id)
}
