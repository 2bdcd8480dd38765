package mongodatabase

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoDBConn holds a collection handle and the client that owns it.
type MongoDBConn struct {
	Collection *mongo.Collection
	Client     *mongo.Client
}

// New connects and returns a handle on the named collection.
func (config *DBConfig) New(collectionName string) (*MongoDBConn, error) {
	clientOptions := options.Client().ApplyURI(config.Host).
		SetRetryReads(true).
		SetRetryWrites(true).
		SetConnectTimeout(30 * time.Second)

	client, err := mongo.Connect(context.TODO(), clientOptions)
	if err != nil {
		return nil, errors.Wrap(err, "unable to connect to mongo")
	}

	if err = client.Ping(context.TODO(), nil); err != nil {
		return nil, errors.Wrap(err, "unable to ping mongo")
	}

	collection := client.Database(config.DBName).Collection(collectionName)
	return &MongoDBConn{collection, client}, nil
}

// Close DB
func Close(c *mongo.Client) error {
	return c.Disconnect(context.TODO())
}
