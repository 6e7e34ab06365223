package matching

import (
	"errors"
	"fmt"
)

var (
	// ErrSchemaValidation matches every *SchemaValidationError via errors.Is.
	ErrSchemaValidation = errors.New("schema validation failed")
	// ErrRankingService matches every *RankingServiceError via errors.Is.
	ErrRankingService = errors.New("ranking service failed")
	// ErrBusy is returned by an Exclusive ranker while another call is in flight.
	ErrBusy = errors.New("a ranking request is already in flight")
)

// SchemaValidationError reports a request that does not satisfy the declared shape.
// It is always raised before anything is sent to a ranking service.
type SchemaValidationError struct {
	Field  string
	Reason string
}

func (e *SchemaValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", ErrSchemaValidation, e.Reason)
	}
	return fmt.Sprintf("%s: %s %s", ErrSchemaValidation, e.Field, e.Reason)
}

func (e *SchemaValidationError) Is(target error) bool {
	return target == ErrSchemaValidation
}

// RankingServiceError covers transport failures, service-side errors, timeouts and replies
// that cannot be coerced into a MatchResponse. Callers cannot tell these causes apart.
type RankingServiceError struct {
	Err error
}

func (e *RankingServiceError) Error() string {
	if e.Err == nil {
		return ErrRankingService.Error()
	}
	return fmt.Sprintf("%s: %v", ErrRankingService, e.Err)
}

func (e *RankingServiceError) Unwrap() error {
	return e.Err
}

func (e *RankingServiceError) Is(target error) bool {
	return target == ErrRankingService
}

func schemaError(field, format string, args ...any) *SchemaValidationError {
	return &SchemaValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
