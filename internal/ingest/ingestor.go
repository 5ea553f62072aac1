package ingest

import (
	"context"

	"go.uber.org/zap"

	"github.com/niche/rfp-tracker/internal/core"
	"github.com/niche/rfp-tracker/internal/extract"
)

// RFPCreator is the slice of the record store the driver needs.
type RFPCreator interface {
	Create(ctx context.Context, in core.CreateInput) (*core.RFP, error)
}

// AccountReport summarizes one account's pass.
type AccountReport struct {
	Account string
	Scanned int
	Found   int
}

// RunReport summarizes one ingestion run across all accounts.
type RunReport struct {
	Accounts []AccountReport
	Total    int
}

// Ingestor pulls envelopes from a mail source, runs each message through
// the extractor and persists accepted results. Per-message failures are
// logged and skipped; partial success is the expected steady state.
type Ingestor struct {
	source  core.MailSource
	creator RFPCreator
	logger  *zap.Logger
}

// NewIngestor creates a new ingestion driver.
func NewIngestor(source core.MailSource, creator RFPCreator, logger *zap.Logger) *Ingestor {
	return &Ingestor{
		source:  source,
		creator: creator,
		logger:  logger,
	}
}

// Run processes every account sequentially and reports per-account and
// total counts. A failing account contributes zero and does not abort the
// remaining accounts.
func (i *Ingestor) Run(ctx context.Context, accounts []string, pageSize int) *RunReport {
	report := &RunReport{}
	for _, account := range accounts {
		ar := i.processAccount(ctx, account, pageSize)
		report.Accounts = append(report.Accounts, ar)
		report.Total += ar.Found
	}
	return report
}

func (i *Ingestor) processAccount(ctx context.Context, account string, pageSize int) AccountReport {
	report := AccountReport{Account: account}

	i.logger.Info("Processing mail account", zap.String("account", account))

	envelopes, err := i.source.ListEnvelopes(ctx, account, pageSize)
	if err != nil {
		i.logger.Error("Failed to list envelopes",
			zap.String("account", account),
			zap.Error(err))
		return report
	}
	i.logger.Info("Found emails to analyze",
		zap.String("account", account),
		zap.Int("count", len(envelopes)))

	for _, env := range envelopes {
		report.Scanned++

		raw, err := i.source.ReadMessage(ctx, account, env.ID)
		if err != nil {
			i.logger.Error("Failed to read message",
				zap.String("account", account),
				zap.String("email_id", env.ID),
				zap.Error(err))
			continue
		}

		result := extract.Extract(extract.ParseMessage(raw), env.ID)
		if result == nil {
			continue
		}

		rfp, err := i.creator.Create(ctx, toCreateInput(result))
		if err != nil {
			i.logger.Error("Failed to save extracted rfp",
				zap.String("account", account),
				zap.String("email_id", env.ID),
				zap.String("name", result.Name),
				zap.Error(err))
			continue
		}

		i.logger.Info("Saved RFP",
			zap.String("account", account),
			zap.Int64("rfp_id", rfp.ID),
			zap.String("name", rfp.Name))
		report.Found++
	}

	i.logger.Info("Account pass complete",
		zap.String("account", account),
		zap.Int("scanned", report.Scanned),
		zap.Int("found", report.Found))
	return report
}

// toCreateInput maps an extraction result onto the store's create path.
// Imported records always start unread at medium priority.
func toCreateInput(r *extract.Result) core.CreateInput {
	return core.CreateInput{
		Name:            r.Name,
		Description:     r.Description,
		Deadline:        r.Deadline,
		WalkthroughDate: r.WalkthroughDate,
		Contact:         r.Contact,
		ContactPhone:    r.ContactPhone,
		Organization:    r.Organization,
		Status:          core.StatusUnread,
		Priority:        core.PriorityMedium,
		EstimatedValue:  r.EstimatedValue,
		Notes:           r.Notes,
		EmailSource:     r.EmailSource,
	}
}
