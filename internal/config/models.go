package config

// ServerConfig represents the configuration for the HTTP API server
type ServerConfig struct {
	ListenAddress string
}

// StorageConfig represents the configuration for the record store
type StorageConfig struct {
	Type       string
	SQLitePath string
	MySQLDSN   string
}

// IMAPAccountConfig represents one IMAP account's connection settings
type IMAPAccountConfig struct {
	Server   string `mapstructure:"server"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Mailbox  string `mapstructure:"mailbox"`
}

// MailConfig represents the configuration for the ingestion mail source
type MailConfig struct {
	Source   string
	Command  string
	Accounts []string
	PageSize int
}

// AlertsConfig represents the configuration for alert delivery
type AlertsConfig struct {
	Type       string
	WebhookURL string
}

// AuthConfig represents the demo authentication identity
type AuthConfig struct {
	DemoEmail string
	DemoName  string
	DemoRole  string
}

// GetServer returns the HTTP server configuration
func (c *Config) GetServer() ServerConfig {
	return ServerConfig{
		ListenAddress: c.GetString("server.listen_address"),
	}
}

// GetStorage returns the record store configuration
func (c *Config) GetStorage() StorageConfig {
	return StorageConfig{
		Type:       c.GetString("storage.type"),
		SQLitePath: c.GetString("storage.sqlite_path"),
		MySQLDSN:   c.GetString("storage.mysql_dsn"),
	}
}

// GetMail returns the mail source configuration
func (c *Config) GetMail() MailConfig {
	return MailConfig{
		Source:   c.GetString("mail.source"),
		Command:  c.GetString("mail.command"),
		Accounts: c.GetStringSlice("mail.accounts"),
		PageSize: c.GetInt("mail.page_size"),
	}
}

// GetIMAPAccounts returns the per-account IMAP settings keyed by account name
func (c *Config) GetIMAPAccounts() (map[string]IMAPAccountConfig, error) {
	accounts := make(map[string]IMAPAccountConfig)
	if err := c.UnmarshalKey("mail.imap_accounts", &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

// GetAlerts returns the alert delivery configuration
func (c *Config) GetAlerts() AlertsConfig {
	return AlertsConfig{
		Type:       c.GetString("alerts.type"),
		WebhookURL: c.GetString("alerts.webhook_url"),
	}
}

// GetAuth returns the demo authentication identity
func (c *Config) GetAuth() AuthConfig {
	return AuthConfig{
		DemoEmail: c.GetString("auth.demo_email"),
		DemoName:  c.GetString("auth.demo_name"),
		DemoRole:  c.GetString("auth.demo_role"),
	}
}
