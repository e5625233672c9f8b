package contextkeys

type contextKey string

// DBContextKey is where DBMiddleware stores the *gorm.DB handle (the shared
// pool in production, a per-test transaction in integration tests).
const DBContextKey contextKey = "db"
