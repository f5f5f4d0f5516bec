package publish

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// mongoTarget publishes to a MongoDB collection, one document per
// slug.
type mongoTarget struct {
	client     *mongo.Client
	dbName     string
	collection string
}

func newMongoTarget(spec Spec) (*mongoTarget, error) {
	var uri string
	// A host that is already a full connection string (Atlas
	// mongodb+srv:// or standard mongodb://) is used directly.
	if strings.HasPrefix(spec.Host, "mongodb+srv://") || strings.HasPrefix(spec.Host, "mongodb://") {
		uri = spec.Host
		if spec.Password != "" {
			uri = strings.ReplaceAll(uri, "<password>", spec.Password)
		}
	} else {
		port := spec.Port
		if port == 0 {
			port = 27017
		}
		if spec.Username != "" {
			uri = fmt.Sprintf("mongodb://%s:%s@%s:%d", spec.Username, spec.Password, spec.Host, port)
		} else {
			uri = fmt.Sprintf("mongodb://%s:%d", spec.Host, port)
		}
	}

	dbName := spec.Database
	if dbName == "" {
		dbName = "pagegrid"
	}

	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	return &mongoTarget{client: client, dbName: dbName, collection: spec.table()}, nil
}

func (t *mongoTarget) Publish(ctx context.Context, rec *Record) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	coll := t.client.Database(t.dbName).Collection(t.collection)
	doc := bson.M{
		"slug":        rec.Slug,
		"pageId":      rec.PageID,
		"name":        rec.Name,
		"blocksJson":  rec.BlocksJSON,
		"publishedAt": rec.PublishedAt,
	}
	opts := options.Replace().SetUpsert(true)
	if _, err := coll.ReplaceOne(ctx, bson.M{"slug": rec.Slug}, doc, opts); err != nil {
		return fmt.Errorf("upsert page %s: %w", rec.Slug, err)
	}
	return nil
}

func (t *mongoTarget) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return t.client.Disconnect(ctx)
}
