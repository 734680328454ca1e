// Package hubspottest provides an in-memory hubspot.API for tests.
package hubspottest

import (
	"context"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/mockexam/booking-backend/internal/hubspot"
)

// Operation names recorded in Calls and passed to Fail.
const (
	OpSearch           = "search"
	OpGet              = "get"
	OpBatchRead        = "batchRead"
	OpCreate           = "create"
	OpUpdate           = "update"
	OpDelete           = "delete"
	OpAssociate        = "associate"
	OpDissociate       = "dissociate"
	OpListAssociations = "listAssociations"
)

type Call struct {
	Op         string
	ObjectType string
	ID         string
	ToType     string
	ToID       string
	Properties map[string]string
}

type record struct {
	props    map[string]string
	archived bool
	created  time.Time
	updated  time.Time
}

// Store keeps records and a symmetric association graph in memory.
// Fail, when set, is consulted before every call; a non-nil error is
// returned as-is and the call has no effect.
type Store struct {
	mu      sync.Mutex
	nextID  int
	objects map[string]map[string]*record
	assoc   map[string][]string
	calls   []Call

	Fail func(call Call) error
}

func New() *Store {
	return &Store{
		nextID:  1000,
		objects: make(map[string]map[string]*record),
		assoc:   make(map[string][]string),
	}
}

func assocKey(fromType, fromID, toType string) string {
	return fromType + "/" + fromID + "/" + toType
}

func notFound(objectType, id string) error {
	return &hubspot.RemoteError{
		Status:   http.StatusNotFound,
		Message:  "Object not found. objectId are usually numeric.",
		Category: "OBJECT_NOT_FOUND",
	}
}

// Seed inserts a record without going through failure injection.
func (s *Store) Seed(objectType string, props map[string]string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insert(objectType, props)
}

// Link associates two records without going through failure injection.
func (s *Store) Link(fromType, fromID, toType, toID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.link(fromType, fromID, toType, toID)
}

// Archive marks a record archived without going through failure injection.
func (s *Store) Archive(objectType, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.objects[objectType][id]; ok {
		r.archived = true
	}
}

// Props returns a copy of a record's properties, or nil if it does not exist.
func (s *Store) Props(objectType, id string) map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.objects[objectType][id]
	if !ok {
		return nil
	}
	return copyProps(r.props)
}

// Exists reports whether a record exists and is not archived.
func (s *Store) Exists(objectType, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.objects[objectType][id]
	return ok && !r.archived
}

// Linked returns the ids associated from the given record.
func (s *Store) Linked(fromType, fromID, toType string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.assoc[assocKey(fromType, fromID, toType)]...)
}

// Calls returns every call made through the hubspot.API surface.
func (s *Store) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// CountCalls counts calls of op against objectType ("" matches any type).
func (s *Store) CountCalls(op, objectType string) int {
	n := 0
	for _, c := range s.Calls() {
		if c.Op == op && (objectType == "" || c.ObjectType == objectType) {
			n++
		}
	}
	return n
}

func (s *Store) ResetCalls() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = nil
}

func (s *Store) record(call Call) error {
	s.calls = append(s.calls, call)
	if s.Fail != nil {
		return s.Fail(call)
	}
	return nil
}

func (s *Store) insert(objectType string, props map[string]string) string {
	s.nextID++
	id := strconv.Itoa(s.nextID)
	if s.objects[objectType] == nil {
		s.objects[objectType] = make(map[string]*record)
	}
	now := time.Now().UTC()
	s.objects[objectType][id] = &record{props: copyProps(props), created: now, updated: now}
	return id
}

func (s *Store) link(fromType, fromID, toType, toID string) {
	add := func(key, id string) {
		for _, existing := range s.assoc[key] {
			if existing == id {
				return
			}
		}
		s.assoc[key] = append(s.assoc[key], id)
	}
	add(assocKey(fromType, fromID, toType), toID)
	add(assocKey(toType, toID, fromType), fromID)
}

func (s *Store) unlink(fromType, fromID, toType, toID string) {
	drop := func(key, id string) {
		kept := s.assoc[key][:0]
		for _, existing := range s.assoc[key] {
			if existing != id {
				kept = append(kept, existing)
			}
		}
		s.assoc[key] = kept
	}
	drop(assocKey(fromType, fromID, toType), toID)
	drop(assocKey(toType, toID, fromType), fromID)
}

func (s *Store) live(objectType, id string) (*record, bool) {
	r, ok := s.objects[objectType][id]
	if !ok || r.archived {
		return nil, false
	}
	return r, true
}

func (s *Store) toObject(id string, r *record, properties []string) hubspot.Object {
	props := r.props
	if len(properties) > 0 {
		props = make(map[string]string, len(properties))
		for _, p := range properties {
			if v, ok := r.props[p]; ok {
				props[p] = v
			}
		}
	}
	return hubspot.Object{
		ID:         id,
		Properties: copyProps(props),
		CreatedAt:  r.created,
		UpdatedAt:  r.updated,
		Archived:   r.archived,
	}
}

func (s *Store) SearchObjects(ctx context.Context, objectType string, req hubspot.SearchRequest) (*hubspot.SearchResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record(Call{Op: OpSearch, ObjectType: objectType}); err != nil {
		return nil, err
	}

	var matches []hubspot.Object
	for id, r := range s.objects[objectType] {
		if r.archived || !matchesGroups(r.props, req.FilterGroups) {
			continue
		}
		matches = append(matches, s.toObject(id, r, req.Properties))
	}

	sort.Slice(matches, func(i, j int) bool {
		for _, srt := range req.Sorts {
			a, b := matches[i].Properties[srt.PropertyName], matches[j].Properties[srt.PropertyName]
			if a == b {
				continue
			}
			less := compareValues(a, b) < 0
			if strings.EqualFold(srt.Direction, "DESCENDING") {
				return !less
			}
			return less
		}
		return matches[i].ID < matches[j].ID
	})

	total := len(matches)
	if req.Limit > 0 && len(matches) > req.Limit {
		matches = matches[:req.Limit]
	}
	return &hubspot.SearchResponse{Total: total, Results: matches}, nil
}

func (s *Store) GetObject(ctx context.Context, objectType, id string, properties []string) (*hubspot.Object, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record(Call{Op: OpGet, ObjectType: objectType, ID: id}); err != nil {
		return nil, err
	}
	r, ok := s.live(objectType, id)
	if !ok {
		return nil, notFound(objectType, id)
	}
	obj := s.toObject(id, r, properties)
	return &obj, nil
}

func (s *Store) BatchReadObjects(ctx context.Context, objectType string, ids []string, properties []string) ([]hubspot.Object, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record(Call{Op: OpBatchRead, ObjectType: objectType}); err != nil {
		return nil, err
	}
	var out []hubspot.Object
	for _, id := range ids {
		if r, ok := s.live(objectType, id); ok {
			out = append(out, s.toObject(id, r, properties))
		}
	}
	return out, nil
}

func (s *Store) CreateObject(ctx context.Context, objectType string, properties map[string]string) (*hubspot.Object, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record(Call{Op: OpCreate, ObjectType: objectType, Properties: copyProps(properties)}); err != nil {
		return nil, err
	}
	id := s.insert(objectType, properties)
	obj := s.toObject(id, s.objects[objectType][id], nil)
	return &obj, nil
}

func (s *Store) UpdateObject(ctx context.Context, objectType, id string, properties map[string]string) (*hubspot.Object, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record(Call{Op: OpUpdate, ObjectType: objectType, ID: id, Properties: copyProps(properties)}); err != nil {
		return nil, err
	}
	r, ok := s.live(objectType, id)
	if !ok {
		return nil, notFound(objectType, id)
	}
	for k, v := range properties {
		r.props[k] = v
	}
	r.updated = time.Now().UTC()
	obj := s.toObject(id, r, nil)
	return &obj, nil
}

func (s *Store) DeleteObject(ctx context.Context, objectType, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record(Call{Op: OpDelete, ObjectType: objectType, ID: id}); err != nil {
		return err
	}
	r, ok := s.live(objectType, id)
	if !ok {
		return notFound(objectType, id)
	}
	r.archived = true
	return nil
}

func (s *Store) CreateAssociation(ctx context.Context, fromType, fromID, toType, toID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record(Call{Op: OpAssociate, ObjectType: fromType, ID: fromID, ToType: toType, ToID: toID}); err != nil {
		return err
	}
	if _, ok := s.live(fromType, fromID); !ok {
		return notFound(fromType, fromID)
	}
	if _, ok := s.live(toType, toID); !ok {
		return notFound(toType, toID)
	}
	s.link(fromType, fromID, toType, toID)
	return nil
}

func (s *Store) RemoveAssociation(ctx context.Context, fromType, fromID, toType, toID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record(Call{Op: OpDissociate, ObjectType: fromType, ID: fromID, ToType: toType, ToID: toID}); err != nil {
		return err
	}
	s.unlink(fromType, fromID, toType, toID)
	return nil
}

func (s *Store) ListAssociations(ctx context.Context, fromType, fromID, toType string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record(Call{Op: OpListAssociations, ObjectType: fromType, ID: fromID, ToType: toType}); err != nil {
		return nil, err
	}
	if _, ok := s.objects[fromType][fromID]; !ok {
		return nil, notFound(fromType, fromID)
	}
	return append([]string(nil), s.assoc[assocKey(fromType, fromID, toType)]...), nil
}

func matchesGroups(props map[string]string, groups []hubspot.FilterGroup) bool {
	if len(groups) == 0 {
		return true
	}
	for _, g := range groups {
		if matchesAll(props, g.Filters) {
			return true
		}
	}
	return false
}

func matchesAll(props map[string]string, filters []hubspot.Filter) bool {
	for _, f := range filters {
		v, has := props[f.PropertyName]
		switch f.Operator {
		case hubspot.OpEQ:
			if !strings.EqualFold(v, f.Value) {
				return false
			}
		case hubspot.OpNEQ:
			if strings.EqualFold(v, f.Value) {
				return false
			}
		case hubspot.OpGT:
			if !has || compareValues(v, f.Value) <= 0 {
				return false
			}
		case hubspot.OpGTE:
			if !has || compareValues(v, f.Value) < 0 {
				return false
			}
		case hubspot.OpLT:
			if !has || compareValues(v, f.Value) >= 0 {
				return false
			}
		case hubspot.OpLTE:
			if !has || compareValues(v, f.Value) > 0 {
				return false
			}
		case hubspot.OpIN:
			found := false
			for _, candidate := range f.Values {
				if strings.EqualFold(v, candidate) {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		case hubspot.OpHasProperty:
			if !has || v == "" {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// compareValues compares numerically when both sides parse, else lexically.
func compareValues(a, b string) int {
	fa, errA := strconv.ParseFloat(a, 64)
	fb, errB := strconv.ParseFloat(b, 64)
	if errA == nil && errB == nil {
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(a, b)
}

func copyProps(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

var _ hubspot.API = (*Store)(nil)
