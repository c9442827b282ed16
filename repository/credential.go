package repository

// CredentialStore persists the bearer credential across process restarts.
// A single well-known slot; Get returns "" when the slot is empty.
type CredentialStore interface {
	Get() (string, error)
	Set(credential string) error
	Clear() error
}
