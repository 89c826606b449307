package api

import "context"

// MockCommandService is a CommandServiceAPI backed by a func field. A nil
// func returns zero values.
type MockCommandService struct {
	ListFunc func(ctx context.Context) ([]Command, error)
}

func (m *MockCommandService) List(ctx context.Context) ([]Command, error) {
	if m.ListFunc == nil {
		return nil, nil
	}
	return m.ListFunc(ctx)
}

type MockPartnerService struct {
	ListFunc func(ctx context.Context) ([]Partner, error)
}

func (m *MockPartnerService) List(ctx context.Context) ([]Partner, error) {
	if m.ListFunc == nil {
		return nil, nil
	}
	return m.ListFunc(ctx)
}

type MockUserService struct {
	GetFunc func(ctx context.Context, login string) (*TwitchUser, error)
}

func (m *MockUserService) Get(ctx context.Context, login string) (*TwitchUser, error) {
	if m.GetFunc == nil {
		return nil, nil
	}
	return m.GetFunc(ctx, login)
}

type MockHistoryService struct {
	GetFunc func(ctx context.Context, login string) (*HistoryResponse, error)
}

func (m *MockHistoryService) Get(ctx context.Context, login string) (*HistoryResponse, error) {
	if m.GetFunc == nil {
		return nil, nil
	}
	return m.GetFunc(ctx, login)
}

var (
	_ CommandServiceAPI = (*MockCommandService)(nil)
	_ PartnerServiceAPI = (*MockPartnerService)(nil)
	_ UserServiceAPI    = (*MockUserService)(nil)
	_ HistoryServiceAPI = (*MockHistoryService)(nil)
)

type MockAccountService struct {
	GetFunc func(ctx context.Context) (*UserState, error)
}

func (m *MockAccountService) Get(ctx context.Context) (*UserState, error) {
	if m.GetFunc == nil {
		return nil, nil
	}
	return m.GetFunc(ctx)
}
