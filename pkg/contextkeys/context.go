package contextkeys

// Кастомный тип, чтобы избежать коллизий ключей.
type contextKey string

// DBContextKey - ключ, по которому в context хранится *gorm.DB
// (пул соединений или внешняя транзакция).
const DBContextKey = contextKey("db")
