package authapi

import "errors"

// ErrNilClient indicates the API was constructed without a transport client.
var ErrNilClient = errors.New("authapi.nil_client")
