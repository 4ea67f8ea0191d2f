package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"churchcms/access"
	"churchcms/models"
	"churchcms/store"
)

// Entity is implemented by pointers to the collection models via models.Document.
type Entity[T any] interface {
	*T
	DocumentID() primitive.ObjectID
	Stamp(now time.Time)
	Touch(now time.Time)
}

// Ops are the policy operations guarding a resource. An empty List or Get
// operation means the read is public. Create may also be public.
type Ops struct {
	List, Get, Create, Update, Delete access.Operation
}

// Hooks customise a Resource per entity. All are optional.
type Hooks[T any] struct {
	// Defaults prepares a new entity before the request body is decoded over it.
	Defaults func(v *T)
	// Sanitize runs after decoding; before is nil on create. It resets fields the
	// caller may not set and normalises input.
	Sanitize func(before, after *T) error
	// Validate runs after the struct tag validation.
	Validate func(ctx context.Context, v *T) error
	// BeforeWrite runs right before the entity is stored.
	BeforeWrite func(ctx context.Context, v *T) error
	// DeleteGuard may refuse a delete.
	DeleteGuard func(v *T) error
	// ListQuery adjusts the list query from request parameters.
	ListQuery func(ctx context.Context, p *access.Principal, params url.Values, q store.Query) (store.Query, error)
}

// Resource implements create/read/update/delete/list over one collection.
type Resource[T any, PT Entity[T]] struct {
	name   string
	coll   store.Collection
	ops    Ops
	unique []string
	sort   []store.SortField
	hooks  Hooks[T]
	log    *logrus.Logger
	now    func() time.Time
}

type ResourceConfig[T any] struct {
	Name       string // display name used in messages, "Sermon"
	Collection string
	Ops        Ops
	Unique     []string // bson field names that must be unique
	Sort       []store.SortField
	Hooks      Hooks[T]
}

func NewResource[T any, PT Entity[T]](s store.Store, cfg ResourceConfig[T], log *logrus.Logger) *Resource[T, PT] {
	return &Resource[T, PT]{
		name:   cfg.Name,
		coll:   s.Collection(cfg.Collection),
		ops:    cfg.Ops,
		unique: cfg.Unique,
		sort:   cfg.Sort,
		hooks:  cfg.Hooks,
		log:    log,
		now:    time.Now,
	}
}

func (r *Resource[T, PT]) Name() string { return r.name }

func (r *Resource[T, PT]) Collection() store.Collection { return r.coll }

// Indexes returns the unique indexes backing the resource's unique fields.
func (r *Resource[T, PT]) Indexes() []store.Index {
	out := make([]store.Index, 0, len(r.unique))
	for _, f := range r.unique {
		out = append(out, store.Index{Fields: []string{f}, Unique: true})
	}
	return out
}

func (r *Resource[T, PT]) check(p *access.Principal, op access.Operation) error {
	if op == "" {
		return nil
	}
	return access.Check(p, op)
}

// List returns the entities matching params ("limit", "offset" and per-entity filters).
// The result is never nil.
func (r *Resource[T, PT]) List(ctx context.Context, p *access.Principal, params url.Values) ([]T, error) {
	if err := r.check(p, r.ops.List); err != nil {
		return nil, err
	}
	q, err := pageQuery(params)
	if err != nil {
		return nil, err
	}
	q.Sort = r.sort
	if r.hooks.ListQuery != nil {
		if q, err = r.hooks.ListQuery(ctx, p, params, q); err != nil {
			return nil, err
		}
	}
	return r.Find(ctx, q)
}

// Find runs q without access checks.
func (r *Resource[T, PT]) Find(ctx context.Context, q store.Query) ([]T, error) {
	out := []T{}
	if err := r.coll.Find(ctx, q, &out); err != nil {
		return nil, models.NewInternalError(err)
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

func (r *Resource[T, PT]) Get(ctx context.Context, p *access.Principal, id string) (*T, error) {
	if err := r.check(p, r.ops.Get); err != nil {
		return nil, err
	}
	return r.load(ctx, id)
}

// FindOne returns the first match of q, or a NotFound error.
func (r *Resource[T, PT]) FindOne(ctx context.Context, q store.Query, what string) (*T, error) {
	v := new(T)
	err := r.coll.FindOne(ctx, q, v)
	if errors.Is(err, store.ErrNotFound) {
		return nil, models.NewNotFoundError(r.name, what)
	}
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return v, nil
}

func (r *Resource[T, PT]) Count(ctx context.Context, f store.Filter) (int64, error) {
	n, err := r.coll.Count(ctx, f)
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return n, nil
}

// Create decodes body into a new entity, validates and stores it.
func (r *Resource[T, PT]) Create(ctx context.Context, p *access.Principal, body []byte) (*T, error) {
	if err := r.check(p, r.ops.Create); err != nil {
		return nil, err
	}
	v := new(T)
	if r.hooks.Defaults != nil {
		r.hooks.Defaults(v)
	}
	if err := decodeStrict(body, v); err != nil {
		return nil, err
	}
	if r.hooks.Sanitize != nil {
		if err := r.hooks.Sanitize(nil, v); err != nil {
			return nil, err
		}
	}
	PT(v).Stamp(r.now().UTC().Truncate(time.Millisecond))
	if err := r.validate(ctx, v); err != nil {
		return nil, err
	}
	if err := r.ensureUnique(ctx, v); err != nil {
		return nil, err
	}
	if r.hooks.BeforeWrite != nil {
		if err := r.hooks.BeforeWrite(ctx, v); err != nil {
			return nil, err
		}
	}
	if err := r.coll.Insert(ctx, v); err != nil {
		return nil, r.writeError(err)
	}
	r.log.WithFields(logrus.Fields{"resource": r.name, "id": PT(v).DocumentID().Hex()}).Info("created")
	return v, nil
}

// Update decodes body over the stored entity. Fields absent from body keep their value.
func (r *Resource[T, PT]) Update(ctx context.Context, p *access.Principal, id string, body []byte) (*T, error) {
	if err := r.check(p, r.ops.Update); err != nil {
		return nil, err
	}
	v, err := r.load(ctx, id)
	if err != nil {
		return nil, err
	}
	before, err := clone(v)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if err := decodeStrict(body, v); err != nil {
		return nil, err
	}
	av := PT(v)
	if r.hooks.Sanitize != nil {
		if err := r.hooks.Sanitize(before, v); err != nil {
			return nil, err
		}
	}
	av.Touch(r.now().UTC().Truncate(time.Millisecond))
	if err := r.validate(ctx, v); err != nil {
		return nil, err
	}
	if err := r.ensureUnique(ctx, v); err != nil {
		return nil, err
	}
	if r.hooks.BeforeWrite != nil {
		if err := r.hooks.BeforeWrite(ctx, v); err != nil {
			return nil, err
		}
	}
	if err := r.coll.Replace(ctx, av.DocumentID(), v); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, models.NewNotFoundError(r.name, id)
		}
		return nil, r.writeError(err)
	}
	r.log.WithFields(logrus.Fields{"resource": r.name, "id": id}).Info("updated")
	return v, nil
}

func (r *Resource[T, PT]) Delete(ctx context.Context, p *access.Principal, id string) error {
	if err := r.check(p, r.ops.Delete); err != nil {
		return err
	}
	v, err := r.load(ctx, id)
	if err != nil {
		return err
	}
	if r.hooks.DeleteGuard != nil {
		if err := r.hooks.DeleteGuard(v); err != nil {
			return err
		}
	}
	if err := r.coll.Delete(ctx, PT(v).DocumentID()); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.NewNotFoundError(r.name, id)
		}
		return models.NewInternalError(err)
	}
	r.log.WithFields(logrus.Fields{"resource": r.name, "id": id}).Info("deleted")
	return nil
}

func (r *Resource[T, PT]) load(ctx context.Context, id string) (*T, error) {
	oid, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	v := new(T)
	err = r.coll.Get(ctx, oid, v)
	if errors.Is(err, store.ErrNotFound) {
		return nil, models.NewNotFoundError(r.name, id)
	}
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return v, nil
}

func (r *Resource[T, PT]) validate(ctx context.Context, v *T) error {
	if err := models.Validate(v); err != nil {
		return err
	}
	if r.hooks.Validate != nil {
		return r.hooks.Validate(ctx, v)
	}
	return nil
}

func (r *Resource[T, PT]) ensureUnique(ctx context.Context, v *T) error {
	if len(r.unique) == 0 {
		return nil
	}
	doc, err := store.ToDocument(v)
	if err != nil {
		return models.NewInternalError(err)
	}
	for _, field := range r.unique {
		value, _ := store.Lookup(doc, field)
		n, err := r.coll.Count(ctx, store.Where(store.Eq(field, value), store.Ne("_id", PT(v).DocumentID())))
		if err != nil {
			return models.NewInternalError(err)
		}
		if n > 0 {
			return models.NewConflictError(fmt.Sprintf("%s with this %s already exists", r.name, field))
		}
	}
	return nil
}

func (r *Resource[T, PT]) writeError(err error) error {
	if errors.Is(err, store.ErrDuplicate) {
		return models.NewConflictError(r.name + " already exists")
	}
	return models.NewInternalError(err)
}

// ParseID converts a hex identifier, rejecting malformed input as a validation error.
func ParseID(id string) (primitive.ObjectID, error) {
	if id == "" {
		return primitive.NilObjectID, models.NewValidationError("id is required")
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, models.NewValidationError("invalid id", fmt.Sprintf("%q is not a valid id", id))
	}
	return oid, nil
}

const maxPageSize = 100

func pageQuery(params url.Values) (store.Query, error) {
	var q store.Query
	if s := params.Get("limit"); s != "" {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil || n < 0 {
			return q, models.NewValidationError("invalid limit", "limit must be a non-negative integer")
		}
		q.Limit = n
	}
	if q.Limit > maxPageSize {
		q.Limit = maxPageSize
	}
	if s := params.Get("offset"); s != "" {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil || n < 0 {
			return q, models.NewValidationError("invalid offset", "offset must be a non-negative integer")
		}
		q.Skip = n
	}
	return q, nil
}

// bookkeepingKeys are echoed back by clients from earlier reads and never decoded.
var bookkeepingKeys = []string{"_id", "id", "createdAt", "updatedAt", "__v"}

// decodeStrict decodes a JSON object into v, ignoring bookkeeping keys and
// rejecting unknown fields.
func decodeStrict(body []byte, v interface{}) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return models.NewValidationError("request body must be a JSON object", err.Error())
	}
	for _, key := range bookkeepingKeys {
		delete(fields, key)
	}
	raw, err := json.Marshal(fields)
	if err != nil {
		return models.NewValidationError("invalid request body", err.Error())
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return models.NewValidationError("invalid request body", err.Error())
	}
	return nil
}

func clone[T any](v *T) (*T, error) {
	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, err
	}
	out := new(T)
	if err := bson.Unmarshal(raw, out); err != nil {
		return nil, err
	}
	return out, nil
}
