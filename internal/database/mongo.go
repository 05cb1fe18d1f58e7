package database

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"chemmarket/internal/config"
	"chemmarket/internal/logger"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/contrib/instrumentation/go.mongodb.org/mongo-driver/mongo/otelmongo"
)

type Mongo struct {
	Client   *mongo.Client
	Database *mongo.Database
}

var (
	instance *Mongo
	once     sync.Once
)

// Instance connects once per process. Every command is traced through the
// otelmongo monitor so slow queries show up in the request trace.
func Instance(globalCtx context.Context, uri, dbName string) (*Mongo, error) {
	var err error

	once.Do(func() {
		cfg := config.Instance()
		log := logger.Instance()

		if uri == "" {
			uri = cfg.MongoURI
		}
		if dbName == "" {
			dbName = cfg.MongoDBName
		}

		opts := options.Client().
			ApplyURI(uri).
			SetMonitor(otelmongo.NewMonitor()).
			SetServerSelectionTimeout(10 * time.Second)

		client, connErr := mongo.Connect(globalCtx, opts)
		if connErr != nil {
			log.Error("Failed to connect to MongoDB", slog.String("error", connErr.Error()))
			err = connErr
			return
		}

		pingCtx, cancel := context.WithTimeout(globalCtx, 5*time.Second)
		defer cancel()
		if pingErr := client.Ping(pingCtx, nil); pingErr != nil {
			log.Error("MongoDB ping failed", slog.String("error", pingErr.Error()))
			err = pingErr
			return
		}

		log.Info("Connected to MongoDB", slog.String("database", dbName))

		instance = &Mongo{
			Client:   client,
			Database: client.Database(dbName),
		}
	})

	return instance, err
}
