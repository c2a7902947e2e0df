package cmd

import (
	"os"

	"github.com/mossgarden/wpnav/internal/api"
	"github.com/mossgarden/wpnav/internal/secrets"
)

// credentialStore is the slice of the secrets store the commands use.
// Tests substitute fakes through openSecretsStore.
type credentialStore interface {
	SetCredentials(site string, creds secrets.Credentials) error
	GetCredentials(site string) (secrets.Credentials, error)
	DeleteCredentials(site string) error
	Sites() ([]string, error)
}

var (
	openSecretsStore = func() (credentialStore, error) {
		return secrets.OpenDefault()
	}
	newClientFromCredsFunc = api.NewClientFromCredentials
	envGet                 = os.Getenv
)
