// Package credits decides which credit bucket a booking draws from or
// returns to. It performs no I/O; callers write the resulting Intent back
// to the contact record.
package credits

import (
	"errors"
	"fmt"
)

// Mock exam types.
const (
	SituationalJudgment = "Situational Judgment"
	ClinicalSkills      = "Clinical Skills"
	MiniMock            = "Mini-mock"
)

// Contact properties holding each balance.
const (
	BucketSJ     = "sj_credits"
	BucketCS     = "cs_credits"
	BucketMini   = "sjmini_credits"
	BucketShared = "shared_mock_credits"
)

var (
	ErrUnknownMockType     = errors.New("unknown mock type")
	ErrInsufficientCredits = errors.New("insufficient credits")
)

// Properties lists every bucket property, for CRM reads.
var Properties = []string{BucketSJ, BucketCS, BucketMini, BucketShared}

// Balances are a contact's current credit counters.
type Balances struct {
	SJ     int `json:"sj_credits"`
	CS     int `json:"cs_credits"`
	Mini   int `json:"sjmini_credits"`
	Shared int `json:"shared_mock_credits"`
}

// Get returns the balance of a bucket, 0 for unknown buckets.
func (b Balances) Get(bucket string) int {
	switch bucket {
	case BucketSJ:
		return b.SJ
	case BucketCS:
		return b.CS
	case BucketMini:
		return b.Mini
	case BucketShared:
		return b.Shared
	}
	return 0
}

// Availability is what a contact may spend on one mock type.
type Availability struct {
	Specific int `json:"specific_credits"`
	Shared   int `json:"shared_credits"`
	Total    int `json:"total_credits"`
}

// Intent is a single-bucket balance change.
type Intent struct {
	Bucket string `json:"credit_type"`
	Amount int    `json:"amount"`
	Before int    `json:"previous_balance"`
	After  int    `json:"new_balance"`
}

// Value returns the new balance as a CRM property value.
func (i Intent) Value() string {
	return fmt.Sprint(i.After)
}

func ValidMockType(mockType string) bool {
	_, err := SpecificBucket(mockType)
	return err == nil
}

// SpecificBucket returns the bucket dedicated to mockType.
func SpecificBucket(mockType string) (string, error) {
	switch mockType {
	case SituationalJudgment:
		return BucketSJ, nil
	case ClinicalSkills:
		return BucketCS, nil
	case MiniMock:
		return BucketMini, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMockType, mockType)
}

// UsesShared reports whether mockType may fall back to shared credits.
// Mini-mocks only ever draw from their own bucket.
func UsesShared(mockType string) bool {
	return mockType == SituationalJudgment || mockType == ClinicalSkills
}

// Available sums the balances a booking of mockType may draw from.
func Available(mockType string, b Balances) (Availability, error) {
	bucket, err := SpecificBucket(mockType)
	if err != nil {
		return Availability{}, err
	}
	a := Availability{Specific: max(0, b.Get(bucket))}
	if UsesShared(mockType) {
		a.Shared = max(0, b.Shared)
	}
	a.Total = a.Specific + a.Shared
	return a, nil
}

// SelectDebit picks the bucket to charge one credit to: the specific bucket
// while it is positive, otherwise the shared bucket where allowed.
func SelectDebit(mockType string, b Balances) (Intent, error) {
	bucket, err := chooseBucket(mockType, b)
	if err != nil {
		return Intent{}, err
	}
	before := b.Get(bucket)
	if before <= 0 {
		return Intent{}, ErrInsufficientCredits
	}
	return Intent{Bucket: bucket, Amount: -1, Before: before, After: max(0, before-1)}, nil
}

// SelectRestore mirrors SelectDebit from the current balances. It is only
// an approximation of the bucket actually charged; prefer Restore with the
// bucket recorded on the booking.
func SelectRestore(mockType string, b Balances) (Intent, error) {
	bucket, err := SpecificBucket(mockType)
	if err != nil {
		return Intent{}, err
	}
	if b.Get(bucket) <= 0 && UsesShared(mockType) {
		bucket = BucketShared
	}
	return Restore(bucket, b), nil
}

// Restore returns one credit to bucket.
func Restore(bucket string, b Balances) Intent {
	before := max(0, b.Get(bucket))
	return Intent{Bucket: bucket, Amount: 1, Before: before, After: before + 1}
}

// ValidRestoreBucket reports whether bucket may legitimately have paid for
// a booking of mockType.
func ValidRestoreBucket(mockType, bucket string) bool {
	specific, err := SpecificBucket(mockType)
	if err != nil {
		return false
	}
	return bucket == specific || (bucket == BucketShared && UsesShared(mockType))
}

func chooseBucket(mockType string, b Balances) (string, error) {
	bucket, err := SpecificBucket(mockType)
	if err != nil {
		return "", err
	}
	if b.Get(bucket) > 0 || !UsesShared(mockType) {
		return bucket, nil
	}
	return BucketShared, nil
}
