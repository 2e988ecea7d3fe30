package session

import "errors"

// ErrNilClient indicates the engine was built without a probe client.
var ErrNilClient = errors.New("session: client is required")
