package hubspot

import (
	"context"
)

// API is the set of CRM capabilities the booking core relies on.
type API interface {
	SearchObjects(ctx context.Context, objectType string, req SearchRequest) (*SearchResponse, error)
	GetObject(ctx context.Context, objectType, id string, properties []string) (*Object, error)
	BatchReadObjects(ctx context.Context, objectType string, ids []string, properties []string) ([]Object, error)
	CreateObject(ctx context.Context, objectType string, properties map[string]string) (*Object, error)
	UpdateObject(ctx context.Context, objectType, id string, properties map[string]string) (*Object, error)
	DeleteObject(ctx context.Context, objectType, id string) error
	CreateAssociation(ctx context.Context, fromType, fromID, toType, toID string) error
	RemoveAssociation(ctx context.Context, fromType, fromID, toType, toID string) error
	ListAssociations(ctx context.Context, fromType, fromID, toType string) ([]string, error)
}

var _ API = (*Client)(nil)
