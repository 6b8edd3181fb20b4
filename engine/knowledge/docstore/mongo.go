package docstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type mongoSearcher struct {
	client     *mongo.Client
	collection *mongo.Collection
}

type mongoDocument struct {
	DocID    string         `bson:"doc_id"`
	Content  string         `bson:"content"`
	Metadata map[string]any `bson:"metadata"`
	Score    float64        `bson:"score"`
}

// NewMongoSearcher connects to MongoDB and searches the documents collection
// via its text index on the content field.
func NewMongoSearcher(ctx context.Context, cfg *Config) (Searcher, error) {
	if cfg == nil {
		return nil, errors.New("docstore: config is required")
	}
	if strings.TrimSpace(cfg.URI) == "" {
		return nil, errors.New("docstore: mongo uri is required")
	}
	clientOpts := options.Client().ApplyURI(cfg.URI)
	if cfg.Timeout > 0 {
		clientOpts.SetTimeout(cfg.Timeout)
	}
	client, err := mongo.Connect(clientOpts)
	if err != nil {
		return nil, fmt.Errorf("docstore: failed to connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("docstore: mongo ping failed: %w", err)
	}
	return &mongoSearcher{
		client:     client,
		collection: client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

func (m *mongoSearcher) Search(ctx context.Context, terms []string, k int) ([]Result, error) {
	if len(terms) == 0 {
		return nil, nil
	}
	filter := bson.D{{Key: "$text", Value: bson.D{{Key: "$search", Value: strings.Join(terms, " ")}}}}
	projection := bson.D{{Key: "score", Value: bson.D{{Key: "$meta", Value: "textScore"}}}}
	sort := bson.D{{Key: "score", Value: bson.D{{Key: "$meta", Value: "textScore"}}}}
	opts := options.Find().SetProjection(projection).SetSort(sort).SetLimit(int64(k))
	cursor, err := m.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("docstore: text search failed: %w", err)
	}
	defer cursor.Close(ctx)
	results := make([]Result, 0, k)
	for cursor.Next(ctx) {
		var doc mongoDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("docstore: decode document: %w", err)
		}
		results = append(results, Result{
			ID:       doc.DocID,
			Score:    doc.Score,
			Text:     doc.Content,
			Metadata: doc.Metadata,
		})
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("docstore: cursor error: %w", err)
	}
	return results, nil
}

func (m *mongoSearcher) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}
