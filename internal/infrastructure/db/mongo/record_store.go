package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/modela/identity-gateway/internal/core/domain"
)

const recordCollection = "identity_records"

// RecordStore keeps identity records as documents keyed by record key.
type RecordStore struct {
	coll *mongo.Collection
	ttl  time.Duration
	now  func() time.Time
}

// NewRecordStore returns a store over db. Documents older than ttl are reaped
// by the TTL index created in EnsureIndexes; zero disables expiry.
func NewRecordStore(db *mongo.Database, ttl time.Duration) *RecordStore {
	return &RecordStore{coll: db.Collection(recordCollection), ttl: ttl, now: time.Now}
}

type recordDocument struct {
	Key       string    `bson:"_id"`
	Value     string    `bson:"value"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func (r *RecordStore) Get(ctx context.Context, key string) (string, error) {
	var doc recordDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", domain.ErrRecordNotFound
		}
		return "", fmt.Errorf("find identity record: %w", err)
	}
	return doc.Value, nil
}

func (r *RecordStore) Set(ctx context.Context, key, value string) error {
	doc := recordDocument{Key: key, Value: value, UpdatedAt: r.now().UTC()}
	_, err := r.coll.ReplaceOne(ctx, bson.M{"_id": key}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert identity record: %w", err)
	}
	return nil
}

func (r *RecordStore) Delete(ctx context.Context, key string) error {
	if _, err := r.coll.DeleteOne(ctx, bson.M{"_id": key}); err != nil {
		return fmt.Errorf("delete identity record: %w", err)
	}
	return nil
}

func (r *RecordStore) Ping(ctx context.Context) error {
	return r.coll.Database().Client().Ping(ctx, nil)
}

// EnsureIndexes creates the expiry index on the records collection.
func (r *RecordStore) EnsureIndexes(ctx context.Context) error {
	if r.ttl <= 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "updated_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(int32(r.ttl / time.Second)),
	})
	return err
}
