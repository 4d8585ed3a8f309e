package domain

import "time"

// Store persists serialized query results under string keys.
// Reads are served from memory; writes may reach disk later.
type Store interface {
	// Get decodes the entry for key into dest and returns when it was written
	Get(key string, dest any) (updatedAt time.Time, ok bool)

	// Set records value for key with the given write time
	Set(key string, value any, updatedAt time.Time) error

	// Delete removes a single key
	Delete(key string)

	// DeletePrefix removes every key starting with prefix
	DeletePrefix(prefix string)

	// Flush writes pending entries to disk
	Flush() error

	Close() error
}
