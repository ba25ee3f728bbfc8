package entities

import "errors"

var ErrStoreEntityNotFound = errors.New("store resource not found")
var ErrUpstreamStatus = errors.New("upstream returned non-success status")
var ErrMalformedPayload = errors.New("malformed upstream payload")
var ErrNoBlock = errors.New("no block in upstream response")
