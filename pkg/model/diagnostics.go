package model

import (
	"fmt"

	"go.uber.org/zap"
)

// Diagnostic is a non-fatal finding about a single entity of the instance
type Diagnostic struct {
	Entity  string // Kind of entity (event, resource, constraint, ...)
	Id      string
	Message string
}

func (diagnostic Diagnostic) String() string {
	if diagnostic.Id == "" {
		return fmt.Sprintf("%v: %v", diagnostic.Entity, diagnostic.Message)
	}
	return fmt.Sprintf("%v %q: %v", diagnostic.Entity, diagnostic.Id, diagnostic.Message)
}

type Diagnostics []Diagnostic

func (diagnostics *Diagnostics) warn(entity, id, message string) {
	*diagnostics = append(*diagnostics, Diagnostic{Entity: entity, Id: id, Message: message})
}

// Strings returns every diagnostic in its textual form
func (diagnostics Diagnostics) Strings() []string {
	result := make([]string, 0, len(diagnostics))
	for _, diagnostic := range diagnostics {
		result = append(result, diagnostic.String())
	}
	return result
}

func (diagnostics Diagnostics) log(logger *zap.Logger) {
	for _, diagnostic := range diagnostics {
		logger.Warn(diagnostic.Message,
			zap.String("entity", diagnostic.Entity),
			zap.String("id", diagnostic.Id),
		)
	}
}

// PreconditionError reports an instance that cannot be compiled at all
type PreconditionError struct {
	Reason string
}

func (err PreconditionError) Error() string {
	return fmt.Sprintf("precondition failed: %v", err.Reason)
}
