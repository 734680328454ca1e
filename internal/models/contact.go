package models

import (
	"strings"

	"github.com/mockexam/booking-backend/internal/credits"
	"github.com/mockexam/booking-backend/internal/hubspot"
)

// Contact is the authenticated student as stored on the HubSpot contact.
type Contact struct {
	ID        string           `json:"contact_id"`
	StudentID string           `json:"student_id"`
	Email     string           `json:"email"`
	FirstName string           `json:"firstname"`
	LastName  string           `json:"lastname"`
	Credits   credits.Balances `json:"credits"`
}

var ContactProperties = append([]string{"student_id", "email", "firstname", "lastname"}, credits.Properties...)

func ContactFromObject(obj *hubspot.Object) *Contact {
	return &Contact{
		ID:        obj.ID,
		StudentID: obj.Prop("student_id"),
		Email:     obj.Prop("email"),
		FirstName: obj.Prop("firstname"),
		LastName:  obj.Prop("lastname"),
		Credits:   BalancesFromObject(obj),
	}
}

// BalancesFromObject reads the credit buckets, clamping negatives to zero.
func BalancesFromObject(obj *hubspot.Object) credits.Balances {
	return credits.Balances{
		SJ:     max(0, obj.Int(credits.BucketSJ)),
		CS:     max(0, obj.Int(credits.BucketCS)),
		Mini:   max(0, obj.Int(credits.BucketMini)),
		Shared: max(0, obj.Int(credits.BucketShared)),
	}
}

func (c *Contact) Name() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}
