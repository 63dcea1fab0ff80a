//go:build windows

package keyring

import "github.com/danieljoos/wincred"

// winKeyring backs Keyring with the Windows Credential Manager's
// generic credential type: the store already gives per-user at-rest
// protection without hand-written DPAPI/syscall plumbing.
type winKeyring struct{}

// New returns the Windows Credential Manager-backed Keyring.
func New() Keyring { return winKeyring{} }

func targetName(service, account string) string {
	return service + ":" + account
}

func (winKeyring) Has(service, account string) (bool, error) {
	_, err := wincred.GetGenericCredential(targetName(service, account))
	if err != nil {
		return false, nil
	}
	return true, nil
}

func (winKeyring) Save(service, account string, secret []byte) error {
	cred := wincred.NewGenericCredential(targetName(service, account))
	cred.UserName = account
	cred.CredentialBlob = secret
	return cred.Write()
}

func (winKeyring) Load(service, account string) ([]byte, error) {
	cred, err := wincred.GetGenericCredential(targetName(service, account))
	if err != nil {
		return nil, newNotFound(service, account)
	}
	return cred.CredentialBlob, nil
}

func (winKeyring) Remove(service, account string) error {
	cred, err := wincred.GetGenericCredential(targetName(service, account))
	if err != nil {
		return newNotFound(service, account)
	}
	return cred.Delete()
}
