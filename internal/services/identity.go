package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/mockexam/booking-backend/internal/apperror"
	"github.com/mockexam/booking-backend/internal/config"
	"github.com/mockexam/booking-backend/internal/credits"
	"github.com/mockexam/booking-backend/internal/hubspot"
	"github.com/mockexam/booking-backend/internal/models"
)

// IdentityResolver maps a (student_id, email) pair onto a HubSpot contact.
// Both values must match the same contact; there are no passwords.
type IdentityResolver struct {
	api     hubspot.API
	objects config.ObjectTypes
}

func NewIdentityResolver(api hubspot.API, objects config.ObjectTypes) *IdentityResolver {
	return &IdentityResolver{api: api, objects: objects}
}

// Resolve returns the contact owning studentID and email, or AUTH_FAILED.
func (r *IdentityResolver) Resolve(ctx context.Context, studentID, email string) (*models.Contact, error) {
	studentID = strings.TrimSpace(studentID)
	email = strings.ToLower(strings.TrimSpace(email))
	if studentID == "" || email == "" {
		return nil, apperror.AuthFailed()
	}

	resp, err := r.api.SearchObjects(ctx, r.objects.Contacts, hubspot.SearchRequest{
		FilterGroups: []hubspot.FilterGroup{{Filters: []hubspot.Filter{
			{PropertyName: "student_id", Operator: hubspot.OpEQ, Value: studentID},
			{PropertyName: "email", Operator: hubspot.OpEQ, Value: email},
		}}},
		Properties: models.ContactProperties,
		Limit:      1,
	})
	if err != nil {
		return nil, fmt.Errorf("search contact: %w", err)
	}
	if len(resp.Results) == 0 {
		return nil, apperror.AuthFailed()
	}
	return models.ContactFromObject(&resp.Results[0]), nil
}

// Balances re-reads the contact's credit buckets.
func (r *IdentityResolver) Balances(ctx context.Context, contactID string) (credits.Balances, error) {
	obj, err := r.api.GetObject(ctx, r.objects.Contacts, contactID, credits.Properties)
	if err != nil {
		return credits.Balances{}, fmt.Errorf("get credits of contact %s: %w", contactID, err)
	}
	return models.BalancesFromObject(obj), nil
}
