package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := NewFromViper(NewEmptyViper())

	require.Equal(t, "0.0.0.0:3000", cfg.GetServer().ListenAddress)

	storage := cfg.GetStorage()
	require.Equal(t, "sqlite", storage.Type)
	require.Equal(t, "./data/rfp_tracker.db", storage.SQLitePath)

	mail := cfg.GetMail()
	require.Equal(t, "cli", mail.Source)
	require.Equal(t, "himalaya", mail.Command)
	require.Empty(t, mail.Accounts)
	require.Equal(t, 100, mail.PageSize)

	alerts := cfg.GetAlerts()
	require.Equal(t, "log", alerts.Type)
	require.Empty(t, alerts.WebhookURL)

	auth := cfg.GetAuth()
	require.Equal(t, "demo@nichewaterproofing.com", auth.DemoEmail)
	require.Equal(t, "Demo User", auth.DemoName)
	require.Equal(t, "admin", auth.DemoRole)

	require.Equal(t, "info", cfg.GetString("logging.level"))
	require.Equal(t, "json", cfg.GetString("logging.format"))
}

func TestNewFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage:\n  type: memory\n"), 0o644))

	cfg, err := NewFromFile(path)
	require.NoError(t, err)
	require.Equal(t, path, cfg.GetViper().ConfigFileUsed())
	require.Equal(t, "memory", cfg.GetStorage().Type)
	// Defaults still back everything the file leaves out.
	require.Equal(t, "cli", cfg.GetMail().Source)

	_, err = NewFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestOverridesAndIMAPAccounts(t *testing.T) {
	v := NewEmptyViper()
	v.Set("storage.type", "mysql")
	v.Set("mail.source", "imap")
	v.Set("mail.accounts", []string{"work", "bids"})
	v.Set("mail.imap_accounts", map[string]interface{}{
		"work": map[string]interface{}{
			"server":   "imap.example.com:993",
			"username": "bids@example.com",
			"password": "secret",
			"mailbox":  "INBOX",
		},
	})
	cfg := NewFromViper(v)

	require.Equal(t, "mysql", cfg.GetStorage().Type)
	require.Equal(t, []string{"work", "bids"}, cfg.GetMail().Accounts)

	accounts, err := cfg.GetIMAPAccounts()
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	require.Equal(t, "imap.example.com:993", accounts["work"].Server)
	require.Equal(t, "bids@example.com", accounts["work"].Username)
	require.Equal(t, "INBOX", accounts["work"].Mailbox)
}
