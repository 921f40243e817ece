package diag

// contextKey keeps request-scoped values private to this package.
type contextKey string

// requestIDKey carries the id minted or accepted by assignRequestID
// so error bodies and log lines can echo it.
const requestIDKey contextKey = "request_id"
