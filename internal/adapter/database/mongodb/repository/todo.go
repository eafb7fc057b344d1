package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"todographql/internal/core/domain"
	"todographql/internal/core/port"
	tel "todographql/internal/core/telemetry"
)

const entity = "todo"

type TodoRepository struct {
	collection *mongo.Collection
	telemetry  port.Telemetry
}

func NewTodoRepository(collection *mongo.Collection, telemetry port.Telemetry) port.TodoRepository {
	if telemetry == nil {
		telemetry = tel.NewNoOpProbe()
	}

	return &TodoRepository{
		collection: collection,
		telemetry:  telemetry,
	}
}

func (tr *TodoRepository) startSpan(ctx context.Context, operation string, attrs map[string]interface{}) (context.Context, port.Span) {
	base := map[string]interface{}{
		"db.system":     "mongodb",
		"db.collection": tr.collection.Name(),
	}

	for key, value := range attrs {
		base[key] = value
	}

	return tr.telemetry.StartRepositorySpan(ctx, operation, entity, base)
}

func (tr *TodoRepository) fail(ctx context.Context, span port.Span, operation string, startTime time.Time, err error) {
	span.SetStatus("error", err.Error())
	span.RecordError(err)
	tr.telemetry.RecordRepositoryOperation(ctx, operation, entity, time.Since(startTime), err)
}

func (tr *TodoRepository) succeed(ctx context.Context, span port.Span, operation string, startTime time.Time) {
	span.SetStatus("ok", "")
	tr.telemetry.RecordRepositoryOperation(ctx, operation, entity, time.Since(startTime), nil)
}

func (tr *TodoRepository) GetAll(ctx context.Context) ([]domain.Todo, error) {
	ctx, span := tr.startSpan(ctx, "GetAll", map[string]interface{}{
		"db.operation": "find",
		"db.sort":      "created_at desc",
	})
	defer span.End()

	startTime := time.Now()
	filter := bson.D{}

	tr.telemetry.RecordRepositoryQuery(ctx, "GetAll", entity, filter)

	cursor, err := tr.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		tr.fail(ctx, span, "GetAll", startTime, err)
		return []domain.Todo{}, fmt.Errorf("find todos: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []TodoDocument
	if err := cursor.All(ctx, &docs); err != nil {
		tr.fail(ctx, span, "GetAll", startTime, err)
		return []domain.Todo{}, fmt.Errorf("decode todos: %w", err)
	}

	todos := make([]domain.Todo, 0, len(docs))
	for _, doc := range docs {
		todos = append(todos, FromDocument(doc))
	}

	span.SetAttributes(map[string]interface{}{"db.rows_returned": len(todos)})
	tr.succeed(ctx, span, "GetAll", startTime)

	return todos, nil
}

func (tr *TodoRepository) GetByID(ctx context.Context, id string) (domain.Todo, error) {
	ctx, span := tr.startSpan(ctx, "GetByID", map[string]interface{}{
		"db.operation": "findOne",
		"todo.id":      id,
	})
	defer span.End()

	startTime := time.Now()

	oid, err := domain.ParseID(id)
	if err != nil {
		span.SetAttributes(map[string]interface{}{"todo.id_valid": false})
		tr.succeed(ctx, span, "GetByID", startTime)
		return domain.Todo{}, err
	}

	todo, err := tr.findByObjectID(ctx, oid)
	if err != nil {
		if errors.Is(err, domain.ErrTodoNotFound) {
			tr.succeed(ctx, span, "GetByID", startTime)
			return domain.Todo{}, err
		}

		tr.fail(ctx, span, "GetByID", startTime, err)
		return domain.Todo{}, err
	}

	tr.succeed(ctx, span, "GetByID", startTime)

	return todo, nil
}

func (tr *TodoRepository) findByObjectID(ctx context.Context, oid primitive.ObjectID) (domain.Todo, error) {
	filter := bson.M{"_id": oid}

	tr.telemetry.RecordRepositoryQuery(ctx, "findByObjectID", entity, filter)

	var doc TodoDocument
	err := tr.collection.FindOne(ctx, filter).Decode(&doc)

	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.Todo{}, domain.ErrTodoNotFound
	}

	if err != nil {
		return domain.Todo{}, fmt.Errorf("find todo %s: %w", oid.Hex(), err)
	}

	return FromDocument(doc), nil
}

// Save replaces the whole stored document when the todo already exists and
// inserts it otherwise. The returned flag reports whether the write took effect.
func (tr *TodoRepository) Save(ctx context.Context, todo *domain.Todo) (bool, error) {
	ctx, span := tr.startSpan(ctx, "Save", map[string]interface{}{
		"todo.id":    todo.IDString(),
		"todo.title": todo.Title,
	})
	defer span.End()

	startTime := time.Now()

	if todo.IsPersisted() {
		_, err := tr.findByObjectID(ctx, todo.ID)

		switch {
		case err == nil:
			return tr.replace(ctx, span, todo, startTime)
		case !errors.Is(err, domain.ErrTodoNotFound):
			tr.fail(ctx, span, "Save", startTime, err)
			return false, err
		}
	}

	return tr.insert(ctx, span, todo, startTime)
}

func (tr *TodoRepository) replace(ctx context.Context, span port.Span, todo *domain.Todo, startTime time.Time) (bool, error) {
	previous := todo.UpdatedAt
	todo.Touch()

	filter := bson.M{"_id": todo.ID}
	span.SetAttributes(map[string]interface{}{"db.operation": "replaceOne"})
	tr.telemetry.RecordRepositoryQuery(ctx, "Save", entity, filter)

	result, err := tr.collection.ReplaceOne(ctx, filter, ToDocument(*todo))
	if err != nil {
		todo.UpdatedAt = previous
		tr.fail(ctx, span, "Save", startTime, err)
		return false, fmt.Errorf("replace todo %s: %w", todo.ID.Hex(), err)
	}

	span.SetAttributes(map[string]interface{}{
		"db.rows_matched":  result.MatchedCount,
		"db.rows_modified": result.ModifiedCount,
	})

	if result.ModifiedCount == 0 {
		todo.UpdatedAt = previous
		tr.succeed(ctx, span, "Save", startTime)
		return false, nil
	}

	tr.telemetry.RecordBusinessEvent(ctx, "updated", entity, todo.ID.Hex(), map[string]interface{}{
		"completed":  todo.Completed,
		"updated_at": todo.UpdatedAt,
	})

	tr.succeed(ctx, span, "Save", startTime)

	return true, nil
}

func (tr *TodoRepository) insert(ctx context.Context, span port.Span, todo *domain.Todo, startTime time.Time) (bool, error) {
	span.SetAttributes(map[string]interface{}{"db.operation": "insertOne"})

	result, err := tr.collection.InsertOne(ctx, ToDocument(*todo))
	if err != nil {
		tr.fail(ctx, span, "Save", startTime, err)
		return false, fmt.Errorf("insert todo: %w", err)
	}

	oid, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		err := fmt.Errorf("insert todo: unexpected id type %T", result.InsertedID)
		tr.fail(ctx, span, "Save", startTime, err)
		return false, err
	}

	todo.ID = oid

	tr.telemetry.RecordBusinessEvent(ctx, "created", entity, oid.Hex(), map[string]interface{}{
		"title":      todo.Title,
		"created_at": todo.CreatedAt,
	})

	tr.succeed(ctx, span, "Save", startTime)

	return true, nil
}

// Delete removes the stored document. It reports true only when exactly one
// document was removed.
func (tr *TodoRepository) Delete(ctx context.Context, todo *domain.Todo) (bool, error) {
	if !todo.IsPersisted() {
		return false, domain.ErrTodoNotPersisted
	}

	ctx, span := tr.startSpan(ctx, "Delete", map[string]interface{}{
		"db.operation": "deleteOne",
		"todo.id":      todo.ID.Hex(),
	})
	defer span.End()

	startTime := time.Now()
	filter := bson.M{"_id": todo.ID}

	tr.telemetry.RecordRepositoryQuery(ctx, "Delete", entity, filter)

	result, err := tr.collection.DeleteOne(ctx, filter)
	if err != nil {
		tr.fail(ctx, span, "Delete", startTime, err)
		return false, fmt.Errorf("delete todo %s: %w", todo.ID.Hex(), err)
	}

	span.SetAttributes(map[string]interface{}{"db.rows_affected": result.DeletedCount})

	if result.DeletedCount == 1 {
		tr.telemetry.RecordBusinessEvent(ctx, "deleted", entity, todo.ID.Hex(), nil)
	}

	tr.succeed(ctx, span, "Delete", startTime)

	return result.DeletedCount == 1, nil
}
