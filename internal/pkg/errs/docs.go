// Package errs provides the shared error types of the dispatch service.
//
// Every type pairs a sentinel (ErrObjectNotFound, ErrValueIsInvalid,
// ErrValueIsOutOfRange, ErrValueIsRequired) with a struct carrying the
// offending parameter and an optional cause. Unwrap returns the sentinel, so
// callers classify failures with errors.Is and inspect details with errors.As:
//
//	var notFound *errs.ObjectNotFoundError
//	if errors.As(err, &notFound) {
//	    log.Printf("missing %s %v", notFound.ParamName, notFound.ID)
//	}
package errs
