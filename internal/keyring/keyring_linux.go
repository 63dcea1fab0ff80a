//go:build linux

package keyring

import "github.com/wastore/keyctl"

// linuxKeyring backs Keyring with the kernel session keyring: a
// session-scoped key is inherited by processes spawned from the login
// session and recycled on logout, with no on-disk artifact to clean
// up.
type linuxKeyring struct{}

// New returns the session-keyring-backed Keyring.
func New() Keyring { return linuxKeyring{} }

func keyName(service, account string) string {
	return service + ":" + account
}

func (linuxKeyring) Has(service, account string) (bool, error) {
	kr, err := keyctl.SessionKeyring()
	if err != nil {
		return false, err
	}
	_, err = kr.Search(keyName(service, account))
	if err != nil {
		return false, nil
	}
	return true, nil
}

func (linuxKeyring) Save(service, account string, secret []byte) error {
	kr, err := keyctl.SessionKeyring()
	if err != nil {
		return err
	}
	_, err = kr.Add(keyName(service, account), secret)
	return err
}

func (linuxKeyring) Load(service, account string) ([]byte, error) {
	kr, err := keyctl.SessionKeyring()
	if err != nil {
		return nil, err
	}
	key, err := kr.Search(keyName(service, account))
	if err != nil {
		return nil, newNotFound(service, account)
	}
	return key.Get()
}

func (linuxKeyring) Remove(service, account string) error {
	kr, err := keyctl.SessionKeyring()
	if err != nil {
		return err
	}
	key, err := kr.Search(keyName(service, account))
	if err != nil {
		return newNotFound(service, account)
	}
	return key.Unlink()
}
