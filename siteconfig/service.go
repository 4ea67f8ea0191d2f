// Package siteconfig serves the singleton site configuration documents
// (settings, navbar, footer, homepage). Reads fall back to built-in defaults;
// writes are field-level merges applied in one upsert.
package siteconfig

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"

	"churchcms/access"
	"churchcms/models"
	"churchcms/store"
)

// CollectionName holds one document per kind, keyed by the kind name.
const CollectionName = "site_config"

// Keys a client may echo back from a previous read. They are never written.
var bookkeepingKeys = []string{"_id", "id", "createdAt", "updatedAt", "__v"}

type Service struct {
	coll  store.Collection
	cache Cache
	log   *logrus.Logger
	now   func() time.Time
}

// NewService builds the service; cache may be nil.
func NewService(s store.Store, cache Cache, log *logrus.Logger) *Service {
	return &Service{
		coll:  s.Collection(CollectionName),
		cache: cache,
		log:   log,
		now:   time.Now,
	}
}

// Read returns the stored value of kind, or its default when nothing is stored.
func (s *Service) Read(ctx context.Context, kind Kind) (interface{}, error) {
	ks, ok := kinds[kind]
	if !ok {
		return nil, models.NewNotFoundError("Config", kind)
	}
	out := ks.zero()
	if err := s.load(ctx, kind, ks, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Settings is Read(Settings) with a concrete type.
func (s *Service) Settings(ctx context.Context) (*models.Settings, error) {
	v, err := s.Read(ctx, Settings)
	if err != nil {
		return nil, err
	}
	return v.(*models.Settings), nil
}

func (s *Service) load(ctx context.Context, kind Kind, ks kindSpec, out interface{}) error {
	var version int64
	cacheable := s.cache != nil
	if cacheable {
		hit, v, err := s.cache.Get(ctx, kind, out)
		switch {
		case err != nil:
			s.log.WithError(err).WithField("kind", kind).Warn("config cache read failed")
			assign(out, ks.zero())
			cacheable = false
		case hit:
			return nil
		}
		version = v
	}

	err := s.coll.Get(ctx, string(kind), out)
	if errors.Is(err, store.ErrNotFound) {
		assign(out, ks.defaults())
		return nil
	}
	if err != nil {
		return models.NewInternalError(err)
	}

	if cacheable {
		if err := s.cache.Set(ctx, kind, out, version); err != nil {
			s.log.WithError(err).WithField("kind", kind).Warn("config cache write failed")
		}
	}
	return nil
}

// Write merges a JSON patch into kind on behalf of p and returns the merged value.
func (s *Service) Write(ctx context.Context, kind Kind, body []byte, p *access.Principal) (interface{}, error) {
	ks, ok := kinds[kind]
	if !ok {
		return nil, models.NewNotFoundError("Config", kind)
	}
	if err := access.Check(p, ks.write); err != nil {
		return nil, err
	}
	patch, err := decodePatch(body)
	if err != nil {
		return nil, err
	}
	return s.apply(ctx, kind, ks, patch)
}

// WriteSection merges only the allow-listed keys of section into kind. Other keys
// are dropped.
func (s *Service) WriteSection(ctx context.Context, kind Kind, section Section, body []byte, p *access.Principal) (interface{}, error) {
	sec, ok := sections[section]
	if !ok || sec.kind != kind {
		return nil, models.NewNotFoundError("Config section", string(kind)+"/"+string(section))
	}
	if err := access.Check(p, sec.write); err != nil {
		return nil, err
	}
	patch, err := decodePatch(body)
	if err != nil {
		return nil, err
	}
	for key := range patch {
		if !sec.keys[key] {
			delete(patch, key)
		}
	}
	return s.apply(ctx, kind, kinds[kind], patch)
}

func (s *Service) apply(ctx context.Context, kind Kind, ks kindSpec, patch map[string]interface{}) (interface{}, error) {
	typed, err := typeCheck(patch, ks.zero())
	if err != nil {
		return nil, err
	}
	if err := models.Validate(typed); err != nil {
		return nil, err
	}
	typedDoc, err := store.ToDocument(typed)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	// paths come from the patch, values from the typed decode
	set := bson.M{"updatedAt": s.now().UTC()}
	for path := range store.Flatten(patch) {
		v, ok := store.Lookup(typedDoc, path)
		if !ok {
			// encoding/json matches keys case-insensitively; stored paths must be exact
			return nil, models.NewValidationError("invalid configuration fields", "unknown field "+path)
		}
		set[path] = v
	}

	defaults, err := store.ToDocument(ks.defaults())
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	onInsert := bson.M{}
	for path, v := range store.Flatten(defaults) {
		if !overlapsAny(path, set) {
			onInsert[path] = v
		}
	}

	out := ks.zero()
	if err := s.coll.Upsert(ctx, string(kind), set, onInsert, out); err != nil {
		return nil, models.NewInternalError(err)
	}
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, kind); err != nil {
			s.log.WithError(err).WithField("kind", kind).Warn("config cache invalidation failed")
		}
	}
	s.log.WithFields(logrus.Fields{"kind": kind, "fields": len(set) - 1}).Info("site config updated")
	return out, nil
}

func decodePatch(body []byte) (map[string]interface{}, error) {
	var patch map[string]interface{}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&patch); err != nil {
		return nil, models.NewValidationError("request body must be a JSON object", err.Error())
	}
	if patch == nil {
		patch = map[string]interface{}{}
	}
	for _, key := range bookkeepingKeys {
		delete(patch, key)
	}
	return patch, nil
}

// typeCheck decodes patch into target, rejecting unknown and mistyped fields.
func typeCheck(patch map[string]interface{}, target interface{}) (interface{}, error) {
	raw, err := json.Marshal(patch)
	if err != nil {
		return nil, models.NewValidationError("invalid patch", err.Error())
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(target); err != nil {
		return nil, models.NewValidationError("invalid configuration fields", err.Error())
	}
	return target, nil
}

func overlapsAny(path string, set bson.M) bool {
	for p := range set {
		if store.Overlaps(path, p) {
			return true
		}
	}
	return false
}

// assign copies *src into *dst; both must be pointers to the same type.
func assign(dst, src interface{}) {
	reflect.ValueOf(dst).Elem().Set(reflect.ValueOf(src).Elem())
}
