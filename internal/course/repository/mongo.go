package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/courseapi/course-service/internal/course"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepo stores the collection in a Mongo collection. Insertion order is
// the natural ObjectID order of _id, so every query sorts on it.
// The collection is reset on construction: contents live only as long as
// the process that seeded them.
type MongoRepo struct {
	col *mongo.Collection
}

// record is the stored shape; _id only carries ordering.
type record struct {
	OID  primitive.ObjectID `bson:"_id,omitempty"`
	ID   int                `bson:"id"`
	Name string             `bson:"name"`
}

func (r record) course() course.Course { return course.Course{ID: r.ID, Name: r.Name} }

var insertionOrder = bson.D{{Key: "_id", Value: 1}}

// NewMongoRepo drops the collection, reseeds it and indexes "id".
func NewMongoRepo(ctx context.Context, col *mongo.Collection, seed []course.Course) (*MongoRepo, error) {
	if err := col.Drop(ctx); err != nil {
		return nil, fmt.Errorf("reset courses collection: %w", err)
	}
	// not unique: len+1 ids may collide after deletes
	idxModel := mongo.IndexModel{Keys: bson.D{{Key: "id", Value: 1}}}
	if _, err := col.Indexes().CreateOne(ctx, idxModel); err != nil {
		return nil, fmt.Errorf("index courses: %w", err)
	}
	if len(seed) > 0 {
		docs := make([]interface{}, 0, len(seed))
		for _, c := range seed {
			docs = append(docs, record{ID: c.ID, Name: c.Name})
		}
		if _, err := col.InsertMany(ctx, docs, options.InsertMany().SetOrdered(true)); err != nil {
			return nil, fmt.Errorf("seed courses: %w", err)
		}
	}
	return &MongoRepo{col: col}, nil
}

func (m *MongoRepo) List(ctx context.Context) ([]course.Course, error) {
	cur, err := m.col.Find(ctx, bson.M{}, options.Find().SetSort(insertionOrder))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []course.Course{}
	for cur.Next(ctx) {
		var r record
		if err := cur.Decode(&r); err != nil {
			return nil, err
		}
		out = append(out, r.course())
	}
	return out, cur.Err()
}

func (m *MongoRepo) Get(ctx context.Context, id int) (course.Course, error) {
	r, err := m.first(ctx, id)
	if err != nil {
		return course.Course{}, err
	}
	return r.course(), nil
}

func (m *MongoRepo) Create(ctx context.Context, name string) (course.Course, error) {
	n, err := m.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return course.Course{}, err
	}
	r := record{ID: int(n) + 1, Name: name}
	if _, err := m.col.InsertOne(ctx, r); err != nil {
		return course.Course{}, err
	}
	return r.course(), nil
}

func (m *MongoRepo) UpdateName(ctx context.Context, id int, name string) (course.Course, error) {
	opts := options.FindOneAndUpdate().SetSort(insertionOrder).SetReturnDocument(options.After)
	var r record
	err := m.col.FindOneAndUpdate(ctx, bson.M{"id": id}, bson.M{"$set": bson.M{"name": name}}, opts).Decode(&r)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return course.Course{}, ErrNotFound
		}
		return course.Course{}, err
	}
	return r.course(), nil
}

func (m *MongoRepo) Delete(ctx context.Context, id int) (course.Course, error) {
	opts := options.FindOneAndDelete().SetSort(insertionOrder)
	var r record
	if err := m.col.FindOneAndDelete(ctx, bson.M{"id": id}, opts).Decode(&r); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return course.Course{}, ErrNotFound
		}
		return course.Course{}, err
	}
	return r.course(), nil
}

func (m *MongoRepo) Count(ctx context.Context) (int, error) {
	n, err := m.col.CountDocuments(ctx, bson.M{})
	return int(n), err
}

func (m *MongoRepo) first(ctx context.Context, id int) (record, error) {
	var r record
	err := m.col.FindOne(ctx, bson.M{"id": id}, options.FindOne().SetSort(insertionOrder)).Decode(&r)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return record{}, ErrNotFound
		}
		return record{}, err
	}
	return r, nil
}
