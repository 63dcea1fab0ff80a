// Package keyring is the external-collaborator seam for the OS
// credential store: the engine itself never refreshes or inspects a
// pre-signed URL's credential, but a companion component on top of it
// may need to cache a small opaque secret (e.g. a refresh token for the
// service that mints pre-signed URLs) between runs. Each platform
// implementation addresses secrets by the same (service, account)
// pair over an opaque byte blob; token refresh itself is out of scope
// here.
package keyring

// Keyring stores one opaque secret per (service, account) pair in the
// host OS's credential store.
type Keyring interface {
	Has(service, account string) (bool, error)
	Save(service, account string, secret []byte) error
	Load(service, account string) ([]byte, error)
	Remove(service, account string) error
}

// notFoundError (built by newNotFound) is returned by Load and Remove
// when no secret is stored under the given service/account.
type notFoundError struct{ service, account string }

func (e *notFoundError) Error() string {
	return "keyring: no secret cached for " + e.service + "/" + e.account
}

func newNotFound(service, account string) error {
	return &notFoundError{service: service, account: account}
}
