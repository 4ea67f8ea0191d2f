package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Mongo is a Store over one MongoDB database.
type Mongo struct {
	db *mongo.Database
}

func NewMongo(db *mongo.Database) *Mongo {
	return &Mongo{db: db}
}

func (m *Mongo) Database() *mongo.Database { return m.db }

func (m *Mongo) Collection(name string) Collection {
	return &mongoCollection{coll: m.db.Collection(name)}
}

func (m *Mongo) Ping(ctx context.Context) error {
	return m.db.Client().Ping(ctx, readpref.Primary())
}

func (m *Mongo) Close(ctx context.Context) error {
	return m.db.Client().Disconnect(ctx)
}

type mongoCollection struct {
	coll *mongo.Collection
}

func (c *mongoCollection) Name() string { return c.coll.Name() }

func (c *mongoCollection) EnsureIndex(ctx context.Context, idx Index) error {
	keys := make(bson.D, 0, len(idx.Fields))
	for _, f := range idx.Fields {
		keys = append(keys, bson.E{Key: f, Value: 1})
	}
	model := mongo.IndexModel{Keys: keys}
	if idx.Unique {
		model.Options = options.Index().SetUnique(true)
	}
	if _, err := c.coll.Indexes().CreateOne(ctx, model); err != nil {
		return translate(err)
	}
	return nil
}

func (c *mongoCollection) Insert(ctx context.Context, doc interface{}) error {
	_, err := c.coll.InsertOne(ctx, doc)
	return translate(err)
}

func (c *mongoCollection) Get(ctx context.Context, id interface{}, out interface{}) error {
	return translate(c.coll.FindOne(ctx, bson.M{"_id": id}).Decode(out))
}

func (c *mongoCollection) FindOne(ctx context.Context, q Query, out interface{}) error {
	opts := options.FindOne()
	if len(q.Sort) > 0 {
		opts.SetSort(q.sortBSON())
	}
	if q.Skip > 0 {
		opts.SetSkip(q.Skip)
	}
	return translate(c.coll.FindOne(ctx, q.Filter.BSON(), opts).Decode(out))
}

func (c *mongoCollection) Find(ctx context.Context, q Query, out interface{}) error {
	opts := options.Find()
	if len(q.Sort) > 0 {
		opts.SetSort(q.sortBSON())
	}
	if q.Skip > 0 {
		opts.SetSkip(q.Skip)
	}
	if q.Limit > 0 {
		opts.SetLimit(q.Limit)
	}
	cursor, err := c.coll.Find(ctx, q.Filter.BSON(), opts)
	if err != nil {
		return translate(err)
	}
	defer cursor.Close(ctx)
	return translate(cursor.All(ctx, out))
}

func (c *mongoCollection) Count(ctx context.Context, f Filter) (int64, error) {
	n, err := c.coll.CountDocuments(ctx, f.BSON())
	return n, translate(err)
}

func (c *mongoCollection) Replace(ctx context.Context, id interface{}, doc interface{}) error {
	res, err := c.coll.ReplaceOne(ctx, bson.M{"_id": id}, doc)
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (c *mongoCollection) Set(ctx context.Context, id interface{}, fields bson.M) error {
	res, err := c.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (c *mongoCollection) SetMany(ctx context.Context, f Filter, fields bson.M) (int64, error) {
	res, err := c.coll.UpdateMany(ctx, f.BSON(), bson.M{"$set": fields})
	if err != nil {
		return 0, translate(err)
	}
	return res.MatchedCount, nil
}

func (c *mongoCollection) Upsert(ctx context.Context, id interface{}, set, onInsert bson.M, out interface{}) error {
	update := bson.M{}
	if len(set) > 0 {
		update["$set"] = set
	}
	if len(onInsert) > 0 {
		update["$setOnInsert"] = onInsert
	}
	if len(update) == 0 {
		// an empty update document is rejected by the server
		update["$setOnInsert"] = bson.M{"_id": id}
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	res := c.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts)
	if out == nil {
		return translate(res.Err())
	}
	return translate(res.Decode(out))
}

func (c *mongoCollection) Delete(ctx context.Context, id interface{}) error {
	res, err := c.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return translate(err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// translate maps driver errors onto the package sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	}
	return err
}
