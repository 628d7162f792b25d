package drafts

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/organogram/pkg/observability"
)

const (
	// DefaultMongoDatabase is used when no database name is configured.
	DefaultMongoDatabase = "organogram"
	// MongoCollection holds one document per structure id.
	MongoCollection = "drafts"
)

// MongoStore keeps drafts as documents keyed by structure_id. A TTL index
// on expires_at lets the server remove expired drafts.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
	logger *log.Logger
}

// OpenMongo connects to uri and ensures the collection's indexes.
func OpenMongo(ctx context.Context, uri, database string, logger *log.Logger) (*MongoStore, error) {
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}
	if database == "" {
		database = DefaultMongoDatabase
	}
	if logger == nil {
		logger = log.Default()
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, wrapBackend(BackendMongo, "connect", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, wrapBackend(BackendMongo, "ping", err)
	}

	s := &MongoStore{
		client: client,
		coll:   client.Database(database).Collection(MongoCollection),
		logger: logger,
	}
	if err := s.ensureIndexes(ctx); err != nil {
		logger.Warn("failed to create draft indexes", "error", err)
	}
	return s, nil
}

func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "structure_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "expires_at", Value: 1}},
			// Documents with a zero expires_at are omitted and never expire.
			Options: options.Index().SetExpireAfterSeconds(0),
		},
	})
	return err
}

// Get finds the draft document for structureID.
func (s *MongoStore) Get(ctx context.Context, structureID string) (*Draft, error) {
	var d Draft
	err := s.coll.FindOne(ctx, byStructure(structureID)).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		observability.Drafts().OnDraftLoad(ctx, BackendMongo, false)
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, wrapBackend(BackendMongo, "get", err)
	}
	// The TTL monitor runs about once a minute; don't serve what it hasn't reaped yet.
	if d.IsExpired() {
		observability.Drafts().OnDraftLoad(ctx, BackendMongo, false)
		return nil, ErrNotFound
	}
	observability.Drafts().OnDraftLoad(ctx, BackendMongo, true)
	return &d, nil
}

// Put upserts d keyed by structure id.
func (s *MongoStore) Put(ctx context.Context, d *Draft) error {
	if err := checkDraft(d); err != nil {
		return err
	}
	_, err := s.coll.ReplaceOne(ctx, byStructure(d.StructureID), d, options.Replace().SetUpsert(true))
	if err != nil {
		return wrapBackend(BackendMongo, "put", err)
	}
	size := 0
	if raw, err := bson.Marshal(d); err == nil {
		size = len(raw)
	}
	observability.Drafts().OnDraftSave(ctx, BackendMongo, size)
	return nil
}

// Delete removes the draft document, if any.
func (s *MongoStore) Delete(ctx context.Context, structureID string) error {
	if _, err := s.coll.DeleteOne(ctx, byStructure(structureID)); err != nil {
		return wrapBackend(BackendMongo, "delete", err)
	}
	return nil
}

// List returns unexpired drafts sorted by saved_at, newest first.
func (s *MongoStore) List(ctx context.Context) ([]*Draft, error) {
	filter := liveFilter(time.Now().UTC())
	opts := options.Find().SetSort(bson.D{{Key: "saved_at", Value: -1}, {Key: "structure_id", Value: 1}})
	cur, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, wrapBackend(BackendMongo, "list", err)
	}
	var out []*Draft
	if err := cur.All(ctx, &out); err != nil {
		return nil, wrapBackend(BackendMongo, "decode", err)
	}
	return out, nil
}

// Close disconnects the client, waiting at most five seconds.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func byStructure(structureID string) bson.M {
	return bson.M{"structure_id": structureID}
}

// liveFilter matches drafts that never expire or expire after now.
func liveFilter(now time.Time) bson.M {
	return bson.M{"$or": bson.A{
		bson.M{"expires_at": bson.M{"$exists": false}},
		bson.M{"expires_at": bson.M{"$gt": now}},
	}}
}

var _ Store = (*MongoStore)(nil)
