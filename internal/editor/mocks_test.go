package editor

import (
	"context"

	"github.com/EO-DataHub/eodhp-directory-admin/internal/catalog"
	"github.com/EO-DataHub/eodhp-directory-admin/models"
	"github.com/stretchr/testify/mock"
)

type MockCatalog struct {
	mock.Mock
}

func (m *MockCatalog) GetUserDetails(ctx context.Context, id string) (*catalog.UserDetails, error) {
	args := m.Called(ctx, id)
	details, _ := args.Get(0).(*catalog.UserDetails)
	return details, args.Error(1)
}

func (m *MockCatalog) GetGroupList(ctx context.Context) ([]models.Group, error) {
	args := m.Called(ctx)
	groups, _ := args.Get(0).([]models.Group)
	return groups, args.Error(1)
}

func (m *MockCatalog) UpdateUser(ctx context.Context, input models.UpdateUserInput) error {
	args := m.Called(ctx, input)
	return args.Error(0)
}

func (m *MockCatalog) AddUserToGroup(ctx context.Context, userID string, groupID int) error {
	args := m.Called(ctx, userID, groupID)
	return args.Error(0)
}

func (m *MockCatalog) RemoveUserFromGroup(ctx context.Context, userID string, groupID int) error {
	args := m.Called(ctx, userID, groupID)
	return args.Error(0)
}
