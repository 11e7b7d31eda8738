package naya

// Credential store keys. Absence of a key means "use default" or
// "logged out", never an error.
const (
	KeyAccessToken  = "token"
	KeyRefreshToken = "refresh-token"
	KeyAPIBase      = "api-base"
)

// CredentialStore persists small client secrets between invocations.
//
// Implementations must never return errors: any backing failure is
// logged and the store degrades to a no-op that reports every key as
// absent. The whole client stays usable without persistence — the
// session simply resets on the next run.
type CredentialStore interface {
	// Get returns the stored value and whether it was present.
	Get(key string) (string, bool)

	// Set stores a value. Failures are swallowed after logging.
	Set(key, value string)

	// Remove deletes a key. Removing an absent key is a no-op.
	Remove(key string)
}
