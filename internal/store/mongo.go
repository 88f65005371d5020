package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ayush/exploring-space/internal/models"
)

// NewMongoClient connects and pings MongoDB.
func NewMongoClient(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return client, nil
}

// MongoArchive keeps generated articles in MongoDB.
type MongoArchive struct {
	col *mongo.Collection
	now func() time.Time
}

func NewMongoArchive(db *mongo.Database) *MongoArchive {
	return &MongoArchive{col: db.Collection("articles"), now: time.Now}
}

// Insert stores doc and returns its hex id.
func (s *MongoArchive) Insert(ctx context.Context, doc *models.ArchivedArticle) (string, error) {
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = s.now().UTC()
	}
	res, err := s.col.InsertOne(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("mongo insert: %w", err)
	}
	oid := res.InsertedID.(primitive.ObjectID)
	doc.ID = oid
	return oid.Hex(), nil
}

// List returns the newest limit documents.
func (s *MongoArchive) List(ctx context.Context, limit int64) ([]models.ArchivedArticle, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(limit)
	cur, err := s.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo find: %w", err)
	}
	defer cur.Close(ctx)

	docs := []models.ArchivedArticle{}
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongo decode: %w", err)
	}
	return docs, nil
}

func (s *MongoArchive) GetByID(ctx context.Context, id string) (*models.ArchivedArticle, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid id %q: %w", id, ErrNotFound)
	}
	var doc models.ArchivedArticle
	err = s.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("mongo find %s: %w", id, err)
	}
	return &doc, nil
}

func (s *MongoArchive) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid id %q: %w", id, ErrNotFound)
	}
	res, err := s.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("mongo delete %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
