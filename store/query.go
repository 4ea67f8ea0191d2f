package store

import "go.mongodb.org/mongo-driver/bson"

// Comparison operators understood by both backends.
const (
	OpEq  = "$eq"
	OpNe  = "$ne"
	OpGt  = "$gt"
	OpGte = "$gte"
	OpLt  = "$lt"
	OpLte = "$lte"
)

// Cond compares one field against a value.
type Cond struct {
	Field string
	Op    string
	Value interface{}
}

func Eq(field string, v interface{}) Cond  { return Cond{Field: field, Op: OpEq, Value: v} }
func Ne(field string, v interface{}) Cond  { return Cond{Field: field, Op: OpNe, Value: v} }
func Gt(field string, v interface{}) Cond  { return Cond{Field: field, Op: OpGt, Value: v} }
func Gte(field string, v interface{}) Cond { return Cond{Field: field, Op: OpGte, Value: v} }
func Lt(field string, v interface{}) Cond  { return Cond{Field: field, Op: OpLt, Value: v} }
func Lte(field string, v interface{}) Cond { return Cond{Field: field, Op: OpLte, Value: v} }

// Filter is a conjunction of conditions. An empty filter matches everything.
type Filter []Cond

func Where(conds ...Cond) Filter { return Filter(conds) }

// BSON renders the filter as a MongoDB query document.
func (f Filter) BSON() bson.M {
	switch len(f) {
	case 0:
		return bson.M{}
	case 1:
		return bson.M{f[0].Field: bson.M{f[0].Op: f[0].Value}}
	}
	and := make(bson.A, 0, len(f))
	for _, c := range f {
		and = append(and, bson.M{c.Field: bson.M{c.Op: c.Value}})
	}
	return bson.M{"$and": and}
}

type SortField struct {
	Field string
	Desc  bool
}

// Query selects, orders and pages documents.
type Query struct {
	Filter Filter
	Sort   []SortField
	Skip   int64
	Limit  int64 // 0 means no limit
}

func (q Query) SortBy(field string, desc bool) Query {
	q.Sort = append(append([]SortField(nil), q.Sort...), SortField{Field: field, Desc: desc})
	return q
}

func (q Query) Page(skip, limit int64) Query {
	q.Skip = skip
	q.Limit = limit
	return q
}

func (q Query) sortBSON() bson.D {
	d := make(bson.D, 0, len(q.Sort))
	for _, s := range q.Sort {
		dir := 1
		if s.Desc {
			dir = -1
		}
		d = append(d, bson.E{Key: s.Field, Value: dir})
	}
	return d
}
