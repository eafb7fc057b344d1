package mongodb

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/event"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestConfig_ConnectionString(t *testing.T) {
	t.Run("should build the uri from host and port", func(t *testing.T) {
		config := Config{Host: "localhost", Port: "27017", Name: "todo_db"}

		assert.Equal(t, "mongodb://localhost:27017", config.ConnectionString())
	})

	t.Run("should prefer an explicit uri", func(t *testing.T) {
		config := Config{Host: "localhost", Port: "27017", URI: "mongodb://user:pass@db:27017/?authSource=admin"}

		assert.Equal(t, "mongodb://user:pass@db:27017/?authSource=admin", config.ConnectionString())
	})
}

func TestNewDBFromClient_SharesCollectionHandle(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("same handle on every call", func(mt *mtest.T) {
		db := NewDBFromClient(mt.Client, "todo_db")

		first := db.Todos()
		second := db.Todos()

		assert.Same(mt, first, second)
		assert.Equal(mt, TodosCollection, first.Name())
		assert.Equal(mt, "todo_db", db.Database.Name())
	})
}

func TestNewCommandMonitor(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)

	var started, succeeded, failed int

	tracing := &event.CommandMonitor{
		Started:   func(context.Context, *event.CommandStartedEvent) { started++ },
		Succeeded: func(context.Context, *event.CommandSucceededEvent) { succeeded++ },
		Failed:    func(context.Context, *event.CommandFailedEvent) { failed++ },
	}

	monitor := NewCommandMonitor(tracing, logger)
	ctx := context.Background()

	monitor.Started(ctx, &event.CommandStartedEvent{CommandName: "find", DatabaseName: "todo_db"})
	monitor.Succeeded(ctx, &event.CommandSucceededEvent{CommandFinishedEvent: event.CommandFinishedEvent{CommandName: "find"}})
	monitor.Failed(ctx, &event.CommandFailedEvent{CommandFinishedEvent: event.CommandFinishedEvent{CommandName: "insert"}, Failure: "boom"})

	assert.Equal(t, 1, started)
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, failed)
	assert.Contains(t, buf.String(), "mongodb command failed")
	assert.Contains(t, buf.String(), "boom")
}

func TestNewCommandMonitor_WithoutTracing(t *testing.T) {
	monitor := NewCommandMonitor(nil, zerolog.Nop())

	assert.NotPanics(t, func() {
		monitor.Started(context.Background(), &event.CommandStartedEvent{CommandName: "ping"})
	})
}
