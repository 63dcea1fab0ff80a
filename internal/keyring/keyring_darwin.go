//go:build darwin

package keyring

import (
	"errors"

	"github.com/keybase/go-keychain"
)

// macKeyring backs Keyring with the login keychain's generic password
// item (SecClassGenericPassword).
type macKeyring struct{}

// New returns the macOS keychain-backed Keyring.
func New() Keyring { return macKeyring{} }

func (macKeyring) Has(service, account string) (bool, error) {
	query := keychain.NewItem()
	query.SetSecClass(keychain.SecClassGenericPassword)
	query.SetService(service)
	query.SetAccount(account)
	query.SetMatchLimit(keychain.MatchLimitOne)
	query.SetReturnAttributes(true)
	results, err := keychain.QueryItem(query)
	if err != nil {
		return false, err
	}
	return len(results) > 0, nil
}

func (macKeyring) Save(service, account string, secret []byte) error {
	_ = keychain.DeleteGenericPasswordItem(service, account)
	item := keychain.NewItem()
	item.SetSecClass(keychain.SecClassGenericPassword)
	item.SetService(service)
	item.SetAccount(account)
	item.SetData(secret)
	item.SetSynchronizable(keychain.SynchronizableNo)
	item.SetAccessible(keychain.AccessibleAfterFirstUnlockThisDeviceOnly)
	return keychain.AddItem(item)
}

func (macKeyring) Load(service, account string) ([]byte, error) {
	query := keychain.NewItem()
	query.SetSecClass(keychain.SecClassGenericPassword)
	query.SetService(service)
	query.SetAccount(account)
	query.SetMatchLimit(keychain.MatchLimitOne)
	query.SetReturnData(true)
	results, err := keychain.QueryItem(query)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, newNotFound(service, account)
	}
	return results[0].Data, nil
}

func (macKeyring) Remove(service, account string) error {
	err := keychain.DeleteGenericPasswordItem(service, account)
	if errors.Is(err, keychain.ErrorItemNotFound) {
		return newNotFound(service, account)
	}
	return err
}
