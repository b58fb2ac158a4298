// Package remote implements best-effort progress synchronization with a remote play-queue server.
package remote

import (
	"github.com/zalando/go-keyring"
)

const (
	keyringService = "halcyon"
	keyringUser    = "remote-queue-token"
)

// SetToken persists the remote-queue access token to the system keyring.
func SetToken(token string) error {
	return keyring.Set(keyringService, keyringUser, token)
}

// GetToken retrieves the remote-queue access token from the system keyring.
func GetToken() (string, error) {
	return keyring.Get(keyringService, keyringUser)
}

// DeleteToken removes the remote-queue access token from the system keyring.
func DeleteToken() error {
	return keyring.Delete(keyringService, keyringUser)
}
