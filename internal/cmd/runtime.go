package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mossgarden/wpnav/internal/config"
	"github.com/mossgarden/wpnav/internal/secrets"
)

// loadConfigFromFlag loads config from --config if provided, otherwise from
// the default path.
func loadConfigFromFlag() (*config.Config, error) {
	if strings.TrimSpace(configFile) != "" {
		return config.Load(configFile)
	}
	return config.ReadConfig()
}

func flagChanged(cmd *cobra.Command, name string) bool {
	if cmd == nil {
		return false
	}
	if cmd.Flags().Changed(name) {
		return true
	}
	return cmd.InheritedFlags().Changed(name)
}

// resolveCredentials resolves site/user/password/mode with precedence:
// flags > environment > keyring > config.
func resolveCredentials(cmd *cobra.Command, cfg *config.Config) (site, user, password, mode string, err error) {
	site = strings.TrimSpace(siteURL)
	user = strings.TrimSpace(username)
	password = strings.TrimSpace(appPassword)

	// Flags count only when explicitly set.
	if !flagChanged(cmd, "site") {
		site = ""
	}
	if !flagChanged(cmd, "user") {
		user = ""
	}
	if !flagChanged(cmd, "password") {
		password = ""
	}

	// Environment
	if site == "" {
		site = strings.TrimSpace(envGet("WPNAV_SITE"))
	}
	if user == "" {
		user = strings.TrimSpace(envGet("WPNAV_USERNAME"))
	}
	if password == "" {
		password = strings.TrimSpace(envGet("WPNAV_APP_PASSWORD"))
	}

	// Config can still supply the site before we consult the keyring,
	// since stored credentials are keyed by site.
	if site == "" && cfg != nil {
		site = strings.TrimSpace(cfg.Site)
	}

	// Keyring (only if still missing)
	if site != "" && (user == "" || password == "") {
		store, storeErr := openSecretsStore()
		if storeErr == nil {
			creds, credErr := store.GetCredentials(site)
			if credErr == nil {
				if user == "" {
					user = creds.Username
				}
				if password == "" {
					password = creds.Password
				}
				mode = creds.Mode
			} else if !errors.Is(credErr, secrets.ErrNotFound) {
				return "", "", "", "", credErr
			}
		}
	}

	// Config fallback for the username and mode.
	if user == "" && cfg != nil {
		user = strings.TrimSpace(cfg.Username)
	}
	if mode == "" && cfg != nil {
		mode = strings.TrimSpace(cfg.AuthMode)
	}

	return site, user, password, mode, nil
}

func formatConfigLoadError(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("load config: %w", err)
}
