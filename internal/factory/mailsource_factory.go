package factory

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/niche/rfp-tracker/internal/adapters/mailsource"
	"github.com/niche/rfp-tracker/internal/config"
	"github.com/niche/rfp-tracker/internal/core"
)

// MailSourceFactory creates mail sources based on configuration
type MailSourceFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewMailSourceFactory creates a new mail source factory
func NewMailSourceFactory(cfg *config.Config, logger *zap.Logger) *MailSourceFactory {
	return &MailSourceFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateMailSource creates a mail source based on the configuration
func (f *MailSourceFactory) CreateMailSource() (core.MailSource, error) {
	mail := f.cfg.GetMail()

	switch mail.Source {
	case "cli":
		return mailsource.NewCLISource(mail.Command, f.logger), nil
	case "imap":
		accounts, err := f.cfg.GetIMAPAccounts()
		if err != nil {
			return nil, fmt.Errorf("invalid IMAP account configuration: %w", err)
		}
		if len(accounts) == 0 {
			return nil, fmt.Errorf("no IMAP accounts configured")
		}
		imapAccounts := make(map[string]mailsource.IMAPAccount, len(accounts))
		for name, a := range accounts {
			imapAccounts[name] = mailsource.IMAPAccount{
				Server:   a.Server,
				Username: a.Username,
				Password: a.Password,
				Mailbox:  a.Mailbox,
			}
		}
		return mailsource.NewIMAPSource(imapAccounts, f.logger), nil
	default:
		return nil, fmt.Errorf("unsupported mail source: %s", mail.Source)
	}
}
