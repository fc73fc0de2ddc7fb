package answer

import "errors"

// ErrModelUnavailable indicates the model backend returned nothing usable
// (empty response, unreachable host, or provider quota). Routed to the
// deterministic fallback, never surfaced to the end user.
var ErrModelUnavailable = errors.New("model unavailable")
