package graphql

import (
	"github.com/graphql-go/graphql/language/ast"
	"github.com/graphql-go/graphql/language/parser"

	"todographql/internal/core/model/request"
)

// OperationType returns the type of the operation req selects. ok is false
// when the document does not parse or the selection is ambiguous; execution
// reports those cases as GraphQL errors.
func OperationType(req request.GraphQLRequest) (string, bool) {
	doc, err := parser.Parse(parser.ParseParams{Source: req.Query})
	if err != nil {
		return "", false
	}

	var selected *ast.OperationDefinition

	for _, def := range doc.Definitions {
		op, isOperation := def.(*ast.OperationDefinition)
		if !isOperation {
			continue
		}

		if req.OperationName == "" {
			if selected != nil {
				return "", false
			}
			selected = op
			continue
		}

		if op.Name != nil && op.Name.Value == req.OperationName {
			selected = op
		}
	}

	if selected == nil {
		return "", false
	}

	return selected.Operation, true
}

func IsMutation(req request.GraphQLRequest) bool {
	operation, ok := OperationType(req)
	return ok && operation == ast.OperationTypeMutation
}
