package graph

import (
	domainerrors "github.com/shelfgraph/shelfgraph-server/internal/errors"
)

// resolverError carries a machine-readable code (and, for validation
// failures, the offending arguments) into the GraphQL error extensions.
// The executor's error formatter picks the extensions up from the
// gqlerrors.ExtendedError interface.
type resolverError struct {
	err        *domainerrors.Error
	extensions map[string]interface{}
}

func (e *resolverError) Error() string {
	return e.err.Message
}

func (e *resolverError) Unwrap() error {
	return e.err
}

func (e *resolverError) Extensions() map[string]interface{} {
	return e.extensions
}

// asResolverError maps a domain error onto the wire taxonomy. Anything
// that is not a coded domain error is reported as an opaque internal
// fault so store or token internals never leak to clients.
func asResolverError(err error) error {
	var dErr *domainerrors.Error
	if !domainerrors.As(err, &dErr) {
		dErr = domainerrors.Internal("internal server error")
	}

	ext := map[string]interface{}{
		"code": string(dErr.Code),
	}
	if dErr.Code == domainerrors.CodeValidation && dErr.Details != nil {
		ext["invalidArgs"] = dErr.Details
	}

	return &resolverError{err: dErr, extensions: ext}
}
