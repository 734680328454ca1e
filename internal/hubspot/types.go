package hubspot

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Search operators understood by the CRM search endpoint.
const (
	OpEQ          = "EQ"
	OpNEQ         = "NEQ"
	OpGT          = "GT"
	OpGTE         = "GTE"
	OpLT          = "LT"
	OpLTE         = "LTE"
	OpIN          = "IN"
	OpHasProperty = "HAS_PROPERTY"
)

// Object is a CRM record as returned by the v3 objects API. Null property
// values are dropped on decode.
type Object struct {
	ID         string            `json:"id"`
	Properties map[string]string `json:"properties"`
	CreatedAt  time.Time         `json:"createdAt"`
	UpdatedAt  time.Time         `json:"updatedAt"`
	Archived   bool              `json:"archived"`
}

func (o *Object) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID         string             `json:"id"`
		Properties map[string]*string `json:"properties"`
		CreatedAt  time.Time          `json:"createdAt"`
		UpdatedAt  time.Time          `json:"updatedAt"`
		Archived   bool               `json:"archived"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	o.ID = raw.ID
	o.CreatedAt = raw.CreatedAt
	o.UpdatedAt = raw.UpdatedAt
	o.Archived = raw.Archived
	o.Properties = make(map[string]string, len(raw.Properties))
	for k, v := range raw.Properties {
		if v != nil {
			o.Properties[k] = *v
		}
	}
	return nil
}

// Prop returns a property value or "" when unset.
func (o *Object) Prop(name string) string {
	if o == nil || o.Properties == nil {
		return ""
	}
	return o.Properties[name]
}

// Int parses a numeric property. Blank or malformed values read as 0;
// HubSpot sometimes serialises whole numbers as "3.0".
func (o *Object) Int(name string) int {
	v := strings.TrimSpace(o.Prop(name))
	if v == "" {
		return 0
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return int(f)
	}
	return 0
}

// Bool treats "true" (any case) as true.
func (o *Object) Bool(name string) bool {
	return strings.EqualFold(strings.TrimSpace(o.Prop(name)), "true")
}

type Filter struct {
	PropertyName string   `json:"propertyName"`
	Operator     string   `json:"operator"`
	Value        string   `json:"value,omitempty"`
	Values       []string `json:"values,omitempty"`
}

type FilterGroup struct {
	Filters []Filter `json:"filters"`
}

type Sort struct {
	PropertyName string `json:"propertyName"`
	Direction    string `json:"direction"`
}

type SearchRequest struct {
	FilterGroups []FilterGroup `json:"filterGroups"`
	Properties   []string      `json:"properties,omitempty"`
	Sorts        []Sort        `json:"sorts,omitempty"`
	Limit        int           `json:"limit,omitempty"`
	After        string        `json:"after,omitempty"`
}

type Paging struct {
	Next *struct {
		After string `json:"after"`
	} `json:"next,omitempty"`
}

type SearchResponse struct {
	Total   int      `json:"total"`
	Results []Object `json:"results"`
	Paging  *Paging  `json:"paging,omitempty"`
}

// Target names one side of an association.
type Target struct {
	ObjectType string
	ID         string
}
