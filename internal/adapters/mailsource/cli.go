package mailsource

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"

	"go.uber.org/zap"

	"github.com/niche/rfp-tracker/internal/core"
)

// CLISource talks to an external himalaya-compatible mail client. Listing
// returns the client's JSON envelope output; reading returns the raw
// header-plus-body text the extractor consumes.
type CLISource struct {
	command string
	logger  *zap.Logger
}

// NewCLISource creates a mail source backed by the given client binary.
func NewCLISource(command string, logger *zap.Logger) *CLISource {
	if command == "" {
		command = "himalaya"
	}
	return &CLISource{command: command, logger: logger}
}

// cliEnvelope is the subset of the client's envelope JSON we rely on. The id
// may be emitted as a number or a string depending on the backend.
type cliEnvelope struct {
	ID      json.Number `json:"id"`
	Subject string      `json:"subject"`
	From    string      `json:"from"`
	Date    string      `json:"date"`
}

// ListEnvelopes lists up to pageSize envelopes for the account.
func (s *CLISource) ListEnvelopes(ctx context.Context, account string, pageSize int) ([]core.Envelope, error) {
	out, err := exec.CommandContext(ctx, s.command,
		"--account", account,
		"envelope", "list",
		"--page-size", strconv.Itoa(pageSize),
		"--output", "json").Output()
	if err != nil {
		return nil, fmt.Errorf("failed to list envelopes for account %s: %w", account, err)
	}

	var raw []cliEnvelope
	if err := json.Unmarshal(out, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode envelope listing for account %s: %w", account, err)
	}

	envelopes := make([]core.Envelope, 0, len(raw))
	for _, e := range raw {
		if e.ID.String() == "" {
			s.logger.Warn("Skipping envelope without id", zap.String("account", account))
			continue
		}
		envelopes = append(envelopes, core.Envelope{
			ID:      e.ID.String(),
			Subject: e.Subject,
			From:    e.From,
			Date:    e.Date,
		})
	}
	return envelopes, nil
}

// ReadMessage reads the full message by id.
func (s *CLISource) ReadMessage(ctx context.Context, account, id string) (string, error) {
	out, err := exec.CommandContext(ctx, s.command,
		"--account", account,
		"message", "read", id).Output()
	if err != nil {
		return "", fmt.Errorf("failed to read message %s for account %s: %w", id, account, err)
	}
	return string(out), nil
}
