package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores return these (optionally
// wrapped) so services can translate them into domain errors.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: entity does not exist in store
// - ErrConflict: entity is in a state that rejects the mutation (duplicate id)
//
// For validation errors (bad input, missing fields), use pkg/domain-errors
// directly. Store failures without a sentinel are wrapped as retryable
// unavailable errors by the services' mapStoreErr helpers.
var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)
