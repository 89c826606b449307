package internal

import (
	"github.com/potatbotat/potat-tui/internal/api"
)

// Services holds the backend service interfaces shared by the views.
type Services struct {
	Commands api.CommandServiceAPI
	Partners api.PartnerServiceAPI
	Users    api.UserServiceAPI
	History  api.HistoryServiceAPI
}

// NewServices wires every service to the given client.
func NewServices(c *api.Client) *Services {
	return &Services{
		Commands: api.NewCommandService(c),
		Partners: api.NewPartnerService(c),
		Users:    api.NewUserService(c),
		History:  api.NewHistoryService(c),
	}
}

// NewMockServices returns Services backed by zero-value mocks, for tests and
// offline previews. Callers set the Func fields they need.
func NewMockServices() (*Services, *Mocks) {
	m := &Mocks{
		Commands: &api.MockCommandService{},
		Partners: &api.MockPartnerService{},
		Users:    &api.MockUserService{},
		History:  &api.MockHistoryService{},
	}
	return &Services{
		Commands: m.Commands,
		Partners: m.Partners,
		Users:    m.Users,
		History:  m.History,
	}, m
}

// Mocks exposes the concrete mocks behind NewMockServices.
type Mocks struct {
	Commands *api.MockCommandService
	Partners *api.MockPartnerService
	Users    *api.MockUserService
	History  *api.MockHistoryService
}
