package modelrouter

import "errors"

// ErrNoModelAvailable is returned when a cognitive tier has no healthy
// model tier, including after fallback.
var ErrNoModelAvailable = errors.New("modelrouter: no model available")
