package mongodb

import (
	"context"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.opentelemetry.io/contrib/instrumentation/go.mongodb.org/mongo-driver/mongo/otelmongo"
	"go.uber.org/zap"

	"todographql/pkg/tracing"
)

const TodosCollection = "todos"

type Config struct {
	Host string
	Port string
	Name string
	// URI overrides Host and Port when set.
	URI string
}

func (c Config) ConnectionString() string {
	if c.URI != "" {
		return c.URI
	}

	return "mongodb://" + net.JoinHostPort(c.Host, c.Port)
}

// DB owns the process-wide client. It is built once at startup and shared;
// nothing mutates it after NewDB returns.
type DB struct {
	Client   *mongo.Client
	Database *mongo.Database
	todos    *mongo.Collection
}

func NewDB(ctx context.Context, config Config, logger *zap.Logger) (*DB, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	queryLogger := zerolog.New(os.Stdout).With().Timestamp().Str("component", "mongodb").Logger()

	opts := options.Client().
		ApplyURI(config.ConnectionString()).
		SetMonitor(NewCommandMonitor(otelmongo.NewMonitor(), queryLogger))

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		logger.Error("Failed to connect to MongoDB", zap.Error(err))
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		logger.Error("Failed to connect to MongoDB", zap.Error(err))
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	logger.Info("Connected to MongoDB successfully",
		zap.String("database", config.Name))

	return NewDBFromClient(client, config.Name), nil
}

// NewDBFromClient wraps an already connected client.
func NewDBFromClient(client *mongo.Client, name string) *DB {
	database := client.Database(name)

	return &DB{
		Client:   client,
		Database: database,
		todos:    database.Collection(TodosCollection),
	}
}

// Todos returns the handle to the todos collection.
func (db *DB) Todos() *mongo.Collection {
	return db.todos
}

func (db *DB) Ping(ctx context.Context) error {
	return tracing.DatabaseSpanWrapper(ctx, TodosCollection, "ping", func(ctx context.Context) error {
		return db.Client.Ping(ctx, readpref.Primary())
	})
}

func (db *DB) Close(ctx context.Context) error {
	if db.Client == nil {
		return nil
	}

	return db.Client.Disconnect(ctx)
}
