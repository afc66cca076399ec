package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and upstream clients return
// these (optionally wrapped) so services can translate them into domain errors.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: entity does not exist upstream or in a store
// - ErrTimeout: outbound call exceeded its deadline
// - ErrBadPayload: upstream responded with an unparseable body
// - ErrUnavailable: service or resource temporarily unavailable
//
// For validation errors (bad input, missing fields), use pkg/domain-errors directly.
var (
	ErrNotFound    = errors.New("not found")
	ErrTimeout     = errors.New("timeout")
	ErrBadPayload  = errors.New("bad payload")
	ErrUnavailable = errors.New("unavailable")
)
