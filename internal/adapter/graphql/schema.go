package graphql

import (
	"context"

	"github.com/graphql-go/graphql"

	"todographql/internal/core/domain"
	"todographql/internal/core/model/request"
	"todographql/internal/core/port"
)

var todoType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Todo",
	Fields: graphql.Fields{
		"id":          &graphql.Field{Type: graphql.ID},
		"title":       &graphql.Field{Type: graphql.String},
		"description": &graphql.Field{Type: graphql.String},
		"completed":   &graphql.Field{Type: graphql.Boolean},
		"createdAt":   &graphql.Field{Type: graphql.DateTime},
		"updatedAt":   &graphql.Field{Type: graphql.DateTime},
	},
})

func todoPayloadType(name string) *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: name,
		Fields: graphql.Fields{
			"todo":    &graphql.Field{Type: todoType},
			"success": &graphql.Field{Type: graphql.Boolean},
			"message": &graphql.Field{Type: graphql.String},
		},
	})
}

var (
	createTodoType = todoPayloadType("CreateTodo")
	updateTodoType = todoPayloadType("UpdateTodo")

	deleteTodoType = graphql.NewObject(graphql.ObjectConfig{
		Name: "DeleteTodo",
		Fields: graphql.Fields{
			"success": &graphql.Field{Type: graphql.Boolean},
			"message": &graphql.Field{Type: graphql.String},
		},
	})
)

type Resolver struct {
	svc port.TodoService
}

func NewResolver(svc port.TodoService) *Resolver {
	return &Resolver{svc: svc}
}

// NewSchema builds the executable schema around svc.
func NewSchema(svc port.TodoService) (graphql.Schema, error) {
	r := NewResolver(svc)

	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"todos": &graphql.Field{
				Type:    graphql.NewList(todoType),
				Resolve: r.Todos,
			},
			"todo": &graphql.Field{
				Type: todoType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: r.Todo,
			},
		},
	})

	mutation := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"createTodo": &graphql.Field{
				Type: createTodoType,
				Args: graphql.FieldConfigArgument{
					"title":       &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"description": &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: r.CreateTodo,
			},
			"updateTodo": &graphql.Field{
				Type: updateTodoType,
				Args: graphql.FieldConfigArgument{
					"id":          &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"title":       &graphql.ArgumentConfig{Type: graphql.String},
					"description": &graphql.ArgumentConfig{Type: graphql.String},
					"completed":   &graphql.ArgumentConfig{Type: graphql.Boolean},
				},
				Resolve: r.UpdateTodo,
			},
			"deleteTodo": &graphql.Field{
				Type: deleteTodoType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: r.DeleteTodo,
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    query,
		Mutation: mutation,
	})
}

func (r *Resolver) Todos(p graphql.ResolveParams) (interface{}, error) {
	todos := r.svc.ListTodos(p.Context)

	items := make([]interface{}, 0, len(todos))
	for i := range todos {
		items = append(items, todos[i].ToMap())
	}

	return items, nil
}

func (r *Resolver) Todo(p graphql.ResolveParams) (interface{}, error) {
	id, _ := p.Args["id"].(string)

	todo := r.svc.GetTodo(p.Context, id)
	if todo == nil {
		return nil, nil
	}

	return todo.ToMap(), nil
}

func (r *Resolver) CreateTodo(p graphql.ResolveParams) (interface{}, error) {
	req := request.CreateTodoRequest{}
	req.Title, _ = p.Args["title"].(string)
	req.Description, _ = p.Args["description"].(string)

	return r.svc.CreateTodo(p.Context, req).ToMap(), nil
}

// UpdateTodo only patches arguments present in the request. An explicit null
// is indistinguishable from an omitted argument.
func (r *Resolver) UpdateTodo(p graphql.ResolveParams) (interface{}, error) {
	id, _ := p.Args["id"].(string)

	return r.svc.UpdateTodo(p.Context, request.UpdateTodoRequest{
		ID:    id,
		Patch: patchFromArgs(p.Args),
	}).ToMap(), nil
}

func (r *Resolver) DeleteTodo(p graphql.ResolveParams) (interface{}, error) {
	id, _ := p.Args["id"].(string)

	return r.svc.DeleteTodo(p.Context, id).ToMap(), nil
}

func patchFromArgs(args map[string]interface{}) domain.TodoPatch {
	var patch domain.TodoPatch

	if title, ok := args["title"].(string); ok {
		patch.Title = &title
	}

	if description, ok := args["description"].(string); ok {
		patch.Description = &description
	}

	if completed, ok := args["completed"].(bool); ok {
		patch.Completed = &completed
	}

	return patch
}

// Execute runs a single GraphQL operation against schema.
func Execute(ctx context.Context, schema graphql.Schema, req request.GraphQLRequest) *graphql.Result {
	return graphql.Do(graphql.Params{
		Schema:         schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        ctx,
	})
}
