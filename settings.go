package docwatch

import "context"

// SettingsService is a persistent key-value store for small pieces of
// operational state such as the scheduler state and the run lease.
type SettingsService interface {
	// Get retrieves the value for a key.
	// Returns ENOTFOUND if the key does not exist.
	Get(ctx context.Context, key string) (string, error)

	// Set stores the value for a key, overwriting any existing value.
	Set(ctx context.Context, key, value string) error

	// Delete removes a key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
