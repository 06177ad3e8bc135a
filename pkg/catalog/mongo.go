package catalog

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/scenegen/pkg/placement"
)

// DefaultMongoDatabase is used when the connection URI names no database.
const DefaultMongoDatabase = "scenegen"

// Mongo stores records in the "scenes" collection of a MongoDB database.
type Mongo struct {
	client *mongo.Client
	coll   *mongo.Collection
}

type mongoRecord struct {
	ID        string              `bson:"_id"`
	RunID     string              `bson:"run_id"`
	Test      int                 `bson:"test"`
	Seed      string              `bson:"seed"`
	Attempts  int                 `bson:"attempts"`
	Items     []placement.Item    `bson:"items"`
	Angles    []float64           `bson:"angles"`
	Outputs   []map[string]string `bson:"outputs"`
	CreatedAt time.Time           `bson:"created_at"`
}

// OpenMongo connects to uri and ensures the run index exists.
func OpenMongo(ctx context.Context, uri string) (*Mongo, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	coll := client.Database(mongoDatabase(uri)).Collection("scenes")
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "run_id", Value: 1}, {Key: "test", Value: 1}},
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("create index: %w", err)
	}
	return &Mongo{client: client, coll: coll}, nil
}

func mongoDatabase(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return DefaultMongoDatabase
	}
	if db := strings.Trim(u.Path, "/"); db != "" {
		return db
	}
	return DefaultMongoDatabase
}

// Put implements Store.
func (m *Mongo) Put(ctx context.Context, rec Record) error {
	doc := mongoRecord{
		ID:        rec.ID.String(),
		RunID:     rec.RunID.String(),
		Test:      rec.Test,
		Seed:      strconv.FormatUint(rec.Seed, 10),
		Attempts:  rec.Attempts,
		Items:     rec.Items,
		Angles:    rec.Angles,
		Outputs:   rec.Outputs,
		CreatedAt: rec.CreatedAt,
	}
	_, err := m.coll.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("insert scene %d: %w", rec.Test, err)
	}
	return nil
}

// List implements Store.
func (m *Mongo) List(ctx context.Context, runID uuid.UUID) ([]Record, error) {
	filter := bson.M{}
	if runID != uuid.Nil {
		filter["run_id"] = runID.String()
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "run_id", Value: 1}, {Key: "test", Value: 1}})

	cur, err := m.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("query scenes: %w", err)
	}
	var docs []mongoRecord
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode scenes: %w", err)
	}

	out := make([]Record, 0, len(docs))
	for _, d := range docs {
		rec := Record{
			Test:      d.Test,
			Attempts:  d.Attempts,
			Items:     d.Items,
			Angles:    d.Angles,
			Outputs:   d.Outputs,
			CreatedAt: d.CreatedAt.UTC(),
		}
		if rec.ID, err = uuid.Parse(d.ID); err != nil {
			return nil, fmt.Errorf("scene id: %w", err)
		}
		if rec.RunID, err = uuid.Parse(d.RunID); err != nil {
			return nil, fmt.Errorf("scene run id: %w", err)
		}
		if rec.Seed, err = strconv.ParseUint(d.Seed, 10, 64); err != nil {
			return nil, fmt.Errorf("scene seed: %w", err)
		}
		out = append(out, rec)
	}
	return out, nil
}

// Close disconnects the client.
func (m *Mongo) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.client.Disconnect(ctx)
}
