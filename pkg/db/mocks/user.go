package mocks

import (
	"context"

	kdb "github.com/opst/grammarfab/pkg/db"
)

type MockUserInterface struct {
	Impl struct {
		Create      func(ctx context.Context, user kdb.NewUser) (kdb.User, error)
		Get         func(ctx context.Context, id int64) (kdb.User, error)
		GetByEmail  func(ctx context.Context, email string) (kdb.User, error)
		GetByUUID   func(ctx context.Context, uuid string) (kdb.User, error)
		Update      func(ctx context.Context, id int64, change kdb.UserChange) (kdb.User, error)
		SetPassword func(ctx context.Context, id int64, hashedPassword string) error
		Delete      func(ctx context.Context, id int64) error
		List        func(ctx context.Context, page kdb.Page) ([]kdb.User, error)
		Count       func(ctx context.Context) (int, error)
	}

	Calls struct {
		Create     CallLog[kdb.NewUser]
		Get        CallLog[int64]
		GetByEmail CallLog[string]
		GetByUUID  CallLog[string]
		Update     CallLog[struct {
			Id     int64
			Change kdb.UserChange
		}]
		SetPassword CallLog[struct {
			Id             int64
			HashedPassword string
		}]
		Delete CallLog[int64]
		List   CallLog[kdb.Page]
		Count  CallLog[struct{}]
	}
}

func NewMockUserInterface() *MockUserInterface {
	return &MockUserInterface{}
}

var _ kdb.UserInterface = &MockUserInterface{}

func (m *MockUserInterface) Create(ctx context.Context, user kdb.NewUser) (kdb.User, error) {
	m.Calls.Create = append(m.Calls.Create, user)
	if m.Impl.Create == nil {
		return kdb.User{}, ErrNotImplemented
	}
	return m.Impl.Create(ctx, user)
}

func (m *MockUserInterface) Get(ctx context.Context, id int64) (kdb.User, error) {
	m.Calls.Get = append(m.Calls.Get, id)
	if m.Impl.Get == nil {
		return kdb.User{}, ErrNotImplemented
	}
	return m.Impl.Get(ctx, id)
}

func (m *MockUserInterface) GetByEmail(ctx context.Context, email string) (kdb.User, error) {
	m.Calls.GetByEmail = append(m.Calls.GetByEmail, email)
	if m.Impl.GetByEmail == nil {
		return kdb.User{}, ErrNotImplemented
	}
	return m.Impl.GetByEmail(ctx, email)
}

func (m *MockUserInterface) GetByUUID(ctx context.Context, uuid string) (kdb.User, error) {
	m.Calls.GetByUUID = append(m.Calls.GetByUUID, uuid)
	if m.Impl.GetByUUID == nil {
		return kdb.User{}, ErrNotImplemented
	}
	return m.Impl.GetByUUID(ctx, uuid)
}

func (m *MockUserInterface) Update(ctx context.Context, id int64, change kdb.UserChange) (kdb.User, error) {
	m.Calls.Update = append(m.Calls.Update, struct {
		Id     int64
		Change kdb.UserChange
	}{Id: id, Change: change})
	if m.Impl.Update == nil {
		return kdb.User{}, ErrNotImplemented
	}
	return m.Impl.Update(ctx, id, change)
}

func (m *MockUserInterface) SetPassword(ctx context.Context, id int64, hashedPassword string) error {
	m.Calls.SetPassword = append(m.Calls.SetPassword, struct {
		Id             int64
		HashedPassword string
	}{Id: id, HashedPassword: hashedPassword})
	if m.Impl.SetPassword == nil {
		return ErrNotImplemented
	}
	return m.Impl.SetPassword(ctx, id, hashedPassword)
}

func (m *MockUserInterface) Delete(ctx context.Context, id int64) error {
	m.Calls.Delete = append(m.Calls.Delete, id)
	if m.Impl.Delete == nil {
		return ErrNotImplemented
	}
	return m.Impl.Delete(ctx, id)
}

func (m *MockUserInterface) List(ctx context.Context, page kdb.Page) ([]kdb.User, error) {
	m.Calls.List = append(m.Calls.List, page)
	if m.Impl.List == nil {
		return nil, ErrNotImplemented
	}
	return m.Impl.List(ctx, page)
}

func (m *MockUserInterface) Count(ctx context.Context) (int, error) {
	m.Calls.Count = append(m.Calls.Count, struct{}{})
	if m.Impl.Count == nil {
		return 0, ErrNotImplemented
	}
	return m.Impl.Count(ctx)
}
