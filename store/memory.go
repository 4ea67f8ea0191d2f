package store

import (
	"bytes"
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Memory is a process-local Store. Documents are kept as BSON maps so values
// round-trip through the same codecs as the MongoDB backend.
type Memory struct {
	mu          sync.Mutex
	collections map[string]*memCollection
}

func NewMemory() *Memory {
	return &Memory{collections: make(map[string]*memCollection)}
}

func (m *Memory) Collection(name string) Collection {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.collections[name]
	if !ok {
		c = &memCollection{name: name}
		m.collections[name] = c
	}
	return c
}

func (m *Memory) Ping(context.Context) error  { return nil }
func (m *Memory) Close(context.Context) error { return nil }

type memCollection struct {
	name    string
	mu      sync.RWMutex
	docs    []bson.M
	indexes []Index
}

func (c *memCollection) Name() string { return c.name }

func (c *memCollection) EnsureIndex(_ context.Context, idx Index) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, existing := range c.indexes {
		if reflect.DeepEqual(existing.Fields, idx.Fields) {
			return nil
		}
	}
	if idx.Unique {
		for i, doc := range c.docs {
			if c.violatesIndex(idx, doc, i) {
				return fmt.Errorf("%w: existing documents violate unique index on %s", ErrDuplicate, strings.Join(idx.Fields, ","))
			}
		}
	}
	c.indexes = append(c.indexes, idx)
	return nil
}

func (c *memCollection) Insert(_ context.Context, doc interface{}) error {
	m, err := toDoc(doc)
	if err != nil {
		return err
	}
	if id, ok := m["_id"]; !ok || id == nil || id == primitive.NilObjectID {
		m["_id"] = primitive.NewObjectID()
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.indexOf(m["_id"]) >= 0 {
		return fmt.Errorf("%w: _id %v", ErrDuplicate, m["_id"])
	}
	if err := c.checkUnique(m, -1); err != nil {
		return err
	}
	c.docs = append(c.docs, m)
	return nil
}

func (c *memCollection) Get(_ context.Context, id interface{}, out interface{}) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i := c.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}
	return decode(c.docs[i], out)
}

func (c *memCollection) FindOne(_ context.Context, q Query, out interface{}) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	q.Limit = 1
	docs, err := c.query(q)
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		return ErrNotFound
	}
	return decode(docs[0], out)
}

func (c *memCollection) Find(_ context.Context, q Query, out interface{}) error {
	c.mu.RLock()
	docs, err := c.query(q)
	c.mu.RUnlock()
	if err != nil {
		return err
	}
	sliceVal := reflect.ValueOf(out)
	if sliceVal.Kind() != reflect.Ptr || sliceVal.Elem().Kind() != reflect.Slice {
		return fmt.Errorf("find: out must be a pointer to a slice, got %T", out)
	}
	sliceVal = sliceVal.Elem()
	elemType := sliceVal.Type().Elem()
	result := reflect.MakeSlice(sliceVal.Type(), 0, len(docs))
	for _, doc := range docs {
		elem := reflect.New(elemType)
		if err := decode(doc, elem.Interface()); err != nil {
			return err
		}
		result = reflect.Append(result, elem.Elem())
	}
	sliceVal.Set(result)
	return nil
}

func (c *memCollection) Count(_ context.Context, f Filter) (int64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var n int64
	for _, doc := range c.docs {
		ok, err := matches(doc, f)
		if err != nil {
			return 0, err
		}
		if ok {
			n++
		}
	}
	return n, nil
}

func (c *memCollection) Replace(_ context.Context, id interface{}, doc interface{}) error {
	m, err := toDoc(doc)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}
	m["_id"] = c.docs[i]["_id"]
	if err := c.checkUnique(m, i); err != nil {
		return err
	}
	c.docs[i] = m
	return nil
}

func (c *memCollection) Set(_ context.Context, id interface{}, fields bson.M) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}
	updated, err := applySet(c.docs[i], fields)
	if err != nil {
		return err
	}
	if err := c.checkUnique(updated, i); err != nil {
		return err
	}
	c.docs[i] = updated
	return nil
}

func (c *memCollection) SetMany(_ context.Context, f Filter, fields bson.M) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var n int64
	for i, doc := range c.docs {
		ok, err := matches(doc, f)
		if err != nil {
			return n, err
		}
		if !ok {
			continue
		}
		updated, err := applySet(doc, fields)
		if err != nil {
			return n, err
		}
		if err := c.checkUnique(updated, i); err != nil {
			return n, err
		}
		c.docs[i] = updated
		n++
	}
	return n, nil
}

func (c *memCollection) Upsert(_ context.Context, id interface{}, set, onInsert bson.M, out interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.indexOf(id)
	var (
		updated bson.M
		err     error
	)
	if i < 0 {
		updated, err = applySet(bson.M{"_id": id}, onInsert)
		if err == nil {
			updated, err = applySet(updated, set)
		}
	} else {
		updated, err = applySet(c.docs[i], set)
	}
	if err != nil {
		return err
	}
	if err := c.checkUnique(updated, i); err != nil {
		return err
	}
	if i < 0 {
		c.docs = append(c.docs, updated)
	} else {
		c.docs[i] = updated
	}
	if out == nil {
		return nil
	}
	return decode(updated, out)
}

func (c *memCollection) Delete(_ context.Context, id interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}
	c.docs = append(c.docs[:i], c.docs[i+1:]...)
	return nil
}

func (c *memCollection) indexOf(id interface{}) int {
	want, err := normalize(id)
	if err != nil {
		return -1
	}
	for i, doc := range c.docs {
		if equalValues(doc["_id"], want) {
			return i
		}
	}
	return -1
}

func (c *memCollection) query(q Query) ([]bson.M, error) {
	var docs []bson.M
	for _, doc := range c.docs {
		ok, err := matches(doc, q.Filter)
		if err != nil {
			return nil, err
		}
		if ok {
			docs = append(docs, doc)
		}
	}
	if len(q.Sort) > 0 {
		sort.SliceStable(docs, func(i, j int) bool {
			for _, s := range q.Sort {
				a, _ := getPath(docs[i], s.Field)
				b, _ := getPath(docs[j], s.Field)
				cmp := orderValues(a, b)
				if cmp == 0 {
					continue
				}
				if s.Desc {
					return cmp > 0
				}
				return cmp < 0
			}
			return false
		})
	}
	if q.Skip > 0 {
		if q.Skip >= int64(len(docs)) {
			return nil, nil
		}
		docs = docs[q.Skip:]
	}
	if q.Limit > 0 && q.Limit < int64(len(docs)) {
		docs = docs[:q.Limit]
	}
	return docs, nil
}

func (c *memCollection) checkUnique(doc bson.M, self int) error {
	for _, idx := range c.indexes {
		if idx.Unique && c.violatesIndex(idx, doc, self) {
			return fmt.Errorf("%w: %s.%s", ErrDuplicate, c.name, strings.Join(idx.Fields, ","))
		}
	}
	return nil
}

func (c *memCollection) violatesIndex(idx Index, doc bson.M, self int) bool {
	for i, other := range c.docs {
		if i == self {
			continue
		}
		same := true
		for _, f := range idx.Fields {
			a, _ := getPath(doc, f)
			b, _ := getPath(other, f)
			if !equalValues(a, b) {
				same = false
				break
			}
		}
		if same {
			return true
		}
	}
	return false
}

func matches(doc bson.M, f Filter) (bool, error) {
	for _, cond := range f {
		want, err := normalize(cond.Value)
		if err != nil {
			return false, err
		}
		got, _ := getPath(doc, cond.Field)
		ok, err := compareCond(got, cond.Op, want)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

func compareCond(got interface{}, op string, want interface{}) (bool, error) {
	switch op {
	case OpEq:
		return equalOrContains(got, want), nil
	case OpNe:
		return !equalOrContains(got, want), nil
	}
	if got == nil || typeRank(got) != typeRank(want) {
		return false, nil
	}
	cmp := orderValues(got, want)
	switch op {
	case OpGt:
		return cmp > 0, nil
	case OpGte:
		return cmp >= 0, nil
	case OpLt:
		return cmp < 0, nil
	case OpLte:
		return cmp <= 0, nil
	}
	return false, fmt.Errorf("unsupported operator %q", op)
}

// equalOrContains mirrors MongoDB equality, which also matches array elements.
func equalOrContains(got, want interface{}) bool {
	if equalValues(got, want) {
		return true
	}
	if arr, ok := got.(primitive.A); ok {
		for _, v := range arr {
			if equalValues(v, want) {
				return true
			}
		}
	}
	return false
}

func equalValues(a, b interface{}) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if typeRank(a) != typeRank(b) {
		return false
	}
	switch typeRank(a) {
	case rankDocument, rankArray:
		return reflect.DeepEqual(a, b)
	}
	return orderValues(a, b) == 0
}

const (
	rankNull = iota
	rankNumber
	rankString
	rankDocument
	rankArray
	rankObjectID
	rankBool
	rankDate
	rankOther
)

// typeRank follows MongoDB's cross-type sort order.
func typeRank(v interface{}) int {
	switch v.(type) {
	case nil:
		return rankNull
	case int32, int64, float64, int:
		return rankNumber
	case string:
		return rankString
	case bson.M, primitive.D, map[string]interface{}:
		return rankDocument
	case primitive.A:
		return rankArray
	case primitive.ObjectID:
		return rankObjectID
	case bool:
		return rankBool
	case primitive.DateTime:
		return rankDate
	}
	return rankOther
}

func orderValues(a, b interface{}) int {
	ra, rb := typeRank(a), typeRank(b)
	if ra != rb {
		if ra < rb {
			return -1
		}
		return 1
	}
	switch ra {
	case rankNumber:
		fa, fb := toFloat(a), toFloat(b)
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		}
		return 0
	case rankString:
		return strings.Compare(a.(string), b.(string))
	case rankObjectID:
		oa, ob := a.(primitive.ObjectID), b.(primitive.ObjectID)
		return bytes.Compare(oa[:], ob[:])
	case rankBool:
		ba, bb := a.(bool), b.(bool)
		switch {
		case ba == bb:
			return 0
		case !ba:
			return -1
		}
		return 1
	case rankDate:
		da, db := a.(primitive.DateTime), b.(primitive.DateTime)
		switch {
		case da < db:
			return -1
		case da > db:
			return 1
		}
		return 0
	}
	return 0
}

func toFloat(v interface{}) float64 {
	switch n := v.(type) {
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case int:
		return float64(n)
	case float64:
		return n
	}
	return 0
}

// normalize converts a Go value to the form it takes after a BSON round trip
// (time.Time becomes primitive.DateTime, int becomes int32 or int64, ...).
func normalize(v interface{}) (interface{}, error) {
	if v == nil {
		return nil, nil
	}
	raw, err := bson.Marshal(bson.M{"v": v})
	if err != nil {
		return nil, fmt.Errorf("normalize %T: %w", v, err)
	}
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return m["v"], nil
}

func toDoc(v interface{}) (bson.M, error) {
	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return m, nil
}

func decode(doc bson.M, out interface{}) error {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return err
	}
	return bson.Unmarshal(raw, out)
}

// applySet returns a copy of doc with the dotted paths in fields assigned.
func applySet(doc bson.M, fields bson.M) (bson.M, error) {
	cp, err := toDoc(doc)
	if err != nil {
		return nil, err
	}
	for path, v := range fields {
		nv, err := normalize(v)
		if err != nil {
			return nil, err
		}
		setPath(cp, path, nv)
	}
	return cp, nil
}
