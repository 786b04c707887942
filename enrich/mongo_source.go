package enrich

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"subsdesk/models"
)

// MongoSubscriberSource reads external subscribers from a document collection
type MongoSubscriberSource struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewMongoSubscriberSource connects to uri and binds the subscriber collection
func NewMongoSubscriberSource(ctx context.Context, uri, database, collection string) (*MongoSubscriberSource, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	return &MongoSubscriberSource{
		client:     client,
		collection: client.Database(database).Collection(collection),
	}, nil
}

// Name identifies the source in logs and warnings
func (s *MongoSubscriberSource) Name() string {
	return "mongo external subscribers"
}

// FetchSubscribers returns the active subscribers ordered by ID
func (s *MongoSubscriberSource) FetchSubscribers(ctx context.Context) ([]models.ExternalSubscriber, error) {
	opts := options.Find().SetSort(bson.D{{Key: "subscriber_id", Value: 1}})
	cur, err := s.collection.Find(ctx, bson.M{"active": true}, opts)
	if err != nil {
		return nil, mongoError("failed to query external subscribers", err)
	}

	var docs []models.ExternalSubscriberDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, mongoError("failed to decode external subscribers", err)
	}

	subs := make([]models.ExternalSubscriber, len(docs))
	for i, d := range docs {
		subs[i] = d.ExternalSubscriber
	}
	return subs, nil
}

// Close disconnects the client
func (s *MongoSubscriberSource) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func mongoError(msg string, err error) error {
	wrapped := fmt.Errorf("%s: %w", msg, err)
	if mongo.IsTimeout(err) || mongo.IsNetworkError(err) {
		return Transient(wrapped)
	}
	return wrapped
}
