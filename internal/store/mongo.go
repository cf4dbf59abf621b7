package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/miastoportal/harvester/internal/types"
)

// MongoStore persists articles in a MongoDB collection with the same
// capped-by-date semantics as the memory backend. It is the opt-in
// persistent alternative for deployments that need articles to survive a
// restart.
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
	cap        int
	logger     *slog.Logger
}

// NewMongoStore connects to MongoDB and prepares the article collection.
func NewMongoStore(ctx context.Context, uri, database, collection string, maxArticles int, logger *slog.Logger) (*MongoStore, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongodb connect: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		return nil, fmt.Errorf("mongodb ping: %w", err)
	}

	return &MongoStore{
		client:     client,
		collection: client.Database(database).Collection(collection),
		cap:        maxArticles,
		logger:     logger.With("component", "mongo_store"),
	}, nil
}

func (s *MongoStore) Name() string { return "mongo" }

// Append inserts the article and prunes everything beyond the cap, oldest
// by date first.
func (s *MongoStore) Append(ctx context.Context, article *types.Article) error {
	if _, err := s.collection.InsertOne(ctx, article); err != nil {
		return fmt.Errorf("mongodb insert: %w", err)
	}
	return s.prune(ctx)
}

// Articles returns up to cap articles, newest first.
func (s *MongoStore) Articles(ctx context.Context) ([]*types.Article, error) {
	return s.find(ctx, bson.M{})
}

// ArticlesByCategory filters by category ID.
func (s *MongoStore) ArticlesByCategory(ctx context.Context, categoryID string) ([]*types.Article, error) {
	return s.find(ctx, bson.M{"category_id": categoryID})
}

// ArticlesByTag filters by tag ID.
func (s *MongoStore) ArticlesByTag(ctx context.Context, tagID string) ([]*types.Article, error) {
	return s.find(ctx, bson.M{"tag_ids": tagID})
}

// FeaturedArticles returns articles flagged as featured.
func (s *MongoStore) FeaturedArticles(ctx context.Context) ([]*types.Article, error) {
	return s.find(ctx, bson.M{"featured": true})
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close(ctx context.Context) error {
	closeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.client.Disconnect(closeCtx)
}

func (s *MongoStore) find(ctx context.Context, filter bson.M) ([]*types.Article, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "date", Value: -1}}).
		SetLimit(int64(s.cap))

	cursor, err := s.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("mongodb find: %w", err)
	}
	defer cursor.Close(ctx)

	var out []*types.Article
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("mongodb decode: %w", err)
	}
	return out, nil
}

// prune deletes articles beyond the cap, oldest first.
func (s *MongoStore) prune(ctx context.Context) error {
	count, err := s.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("mongodb count: %w", err)
	}
	excess := count - int64(s.cap)
	if excess <= 0 {
		return nil
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "date", Value: 1}}).
		SetLimit(excess).
		SetProjection(bson.M{"_id": 1})

	cursor, err := s.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return fmt.Errorf("mongodb find oldest: %w", err)
	}
	defer cursor.Close(ctx)

	var oldest []struct {
		ID string `bson:"_id"`
	}
	if err := cursor.All(ctx, &oldest); err != nil {
		return fmt.Errorf("mongodb decode oldest: %w", err)
	}

	ids := make([]string, len(oldest))
	for i, doc := range oldest {
		ids[i] = doc.ID
	}
	if _, err := s.collection.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}}); err != nil {
		return fmt.Errorf("mongodb prune: %w", err)
	}

	s.logger.Debug("pruned articles beyond cap", "deleted", len(ids))
	return nil
}
