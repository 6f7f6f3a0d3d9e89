// Package mongo implements the domain repositories on top of MongoDB.
//
// Products and orders live in two independent collections of one database.
// Documents are keyed by store-generated ObjectIDs, exposed to the rest of
// the application as opaque hex strings.
package mongo

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Collection names within the database.
const (
	productsCollection = "products"
	ordersCollection   = "orders"
)

const connectTimeout = 10 * time.Second

// Connect establishes a client connection to the MongoDB endpoint and
// verifies it with a ping.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(err, "connect")
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(err, "ping")
	}
	return client, nil
}

// EnsureIndexes creates the secondary indexes used by the catalog size filter
// and the per-user order listing. The default _id index covers everything
// else; the name filter is a substring regex and scans regardless.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(productsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "sizes.size", Value: 1}},
	})
	if err != nil {
		return errors.Wrap(err, "products sizes.size index")
	}

	_, err = db.Collection(ordersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}},
	})
	if err != nil {
		return errors.Wrap(err, "orders userId index")
	}
	return nil
}
