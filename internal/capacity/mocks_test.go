package capacity

import (
	"context"

	"github.com/mockexam/booking-backend/internal/hubspot"
	"github.com/stretchr/testify/mock"
)

type MockAPI struct {
	mock.Mock
}

func (m *MockAPI) SearchObjects(ctx context.Context, objectType string, req hubspot.SearchRequest) (*hubspot.SearchResponse, error) {
	args := m.Called(ctx, objectType, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*hubspot.SearchResponse), args.Error(1)
}

func (m *MockAPI) GetObject(ctx context.Context, objectType, id string, properties []string) (*hubspot.Object, error) {
	args := m.Called(ctx, objectType, id, properties)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*hubspot.Object), args.Error(1)
}

func (m *MockAPI) BatchReadObjects(ctx context.Context, objectType string, ids []string, properties []string) ([]hubspot.Object, error) {
	args := m.Called(ctx, objectType, ids, properties)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]hubspot.Object), args.Error(1)
}

func (m *MockAPI) CreateObject(ctx context.Context, objectType string, properties map[string]string) (*hubspot.Object, error) {
	args := m.Called(ctx, objectType, properties)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*hubspot.Object), args.Error(1)
}

func (m *MockAPI) UpdateObject(ctx context.Context, objectType, id string, properties map[string]string) (*hubspot.Object, error) {
	args := m.Called(ctx, objectType, id, properties)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*hubspot.Object), args.Error(1)
}

func (m *MockAPI) DeleteObject(ctx context.Context, objectType, id string) error {
	return m.Called(ctx, objectType, id).Error(0)
}

func (m *MockAPI) CreateAssociation(ctx context.Context, fromType, fromID, toType, toID string) error {
	return m.Called(ctx, fromType, fromID, toType, toID).Error(0)
}

func (m *MockAPI) RemoveAssociation(ctx context.Context, fromType, fromID, toType, toID string) error {
	return m.Called(ctx, fromType, fromID, toType, toID).Error(0)
}

func (m *MockAPI) ListAssociations(ctx context.Context, fromType, fromID, toType string) ([]string, error) {
	args := m.Called(ctx, fromType, fromID, toType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
