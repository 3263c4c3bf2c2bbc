package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/parisxmas/examapi/internal/metrics"
	"github.com/parisxmas/examapi/internal/models"
)

const (
	ExamsCollection = "exams"
	UsersCollection = "users"
)

// Collection stores free-form documents in one MongoDB collection.
type Collection struct {
	coll *mongo.Collection
	name string
	now  func() time.Time
}

func NewExamRepo(database *mongo.Database) *Collection {
	return newCollection(database, ExamsCollection)
}

func NewUserRepo(database *mongo.Database) *Collection {
	return newCollection(database, UsersCollection)
}

func newCollection(database *mongo.Database, name string) *Collection {
	return &Collection{coll: database.Collection(name), name: name, now: time.Now}
}

func (r *Collection) Name() string {
	return r.name
}

// EnsureUniqueIndex creates an ascending unique index on field.
func (r *Collection) EnsureUniqueIndex(ctx context.Context, field string) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: field, Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	metrics.DBOperations.WithLabelValues(r.name, "create_index", metrics.Outcome(err)).Inc()
	return err
}

// Create inserts doc with a fresh _id and returns the stored document. A
// client supplied _id is replaced; createdAt is stamped only when absent.
func (r *Collection) Create(ctx context.Context, doc models.Document) (models.Document, error) {
	stored := doc.Clone()
	stored["_id"] = primitive.NewObjectID()
	if _, ok := stored["createdAt"]; !ok {
		stored["createdAt"] = r.now().UTC().Format(time.RFC3339)
	}

	_, err := r.coll.InsertOne(ctx, map[string]any(stored))
	metrics.DBOperations.WithLabelValues(r.name, "insert", metrics.Outcome(err)).Inc()
	if err != nil {
		return nil, err
	}
	return toDocument(stored), nil
}

// FindAll returns every document in _id order.
func (r *Collection) FindAll(ctx context.Context) ([]models.Document, error) {
	cur, err := r.coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		metrics.DBOperations.WithLabelValues(r.name, "find", "error").Inc()
		return nil, err
	}

	var raw []bson.M
	err = cur.All(ctx, &raw)
	metrics.DBOperations.WithLabelValues(r.name, "find", metrics.Outcome(err)).Inc()
	if err != nil {
		return nil, err
	}

	docs := make([]models.Document, 0, len(raw))
	for _, m := range raw {
		docs = append(docs, toDocument(m))
	}
	return docs, nil
}
