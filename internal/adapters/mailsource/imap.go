package mailsource

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
	"github.com/emersion/go-message/mail"
	"go.uber.org/zap"

	"github.com/niche/rfp-tracker/internal/core"
)

// IMAPAccount holds the connection settings for one named mail account.
type IMAPAccount struct {
	Server   string
	Username string
	Password string
	Mailbox  string
}

// IMAPSource reads mail accounts directly over IMAP instead of shelling out
// to a CLI client. Connections are opened lazily per account and reused for
// the life of the source. Envelope ids are IMAP UIDs.
type IMAPSource struct {
	accounts map[string]IMAPAccount
	logger   *zap.Logger
	timeout  time.Duration

	mu    sync.Mutex
	conns map[string]*client.Client
}

// NewIMAPSource creates an IMAP-backed mail source.
func NewIMAPSource(accounts map[string]IMAPAccount, logger *zap.Logger) *IMAPSource {
	return &IMAPSource{
		accounts: accounts,
		logger:   logger,
		timeout:  30 * time.Second,
		conns:    make(map[string]*client.Client),
	}
}

// ListEnvelopes returns the newest pageSize messages of the account's
// mailbox; fetch order is whatever the server yields.
func (s *IMAPSource) ListEnvelopes(ctx context.Context, account string, pageSize int) ([]core.Envelope, error) {
	c, err := s.conn(account)
	if err != nil {
		return nil, err
	}

	mbox := c.Mailbox()
	if mbox == nil || mbox.Messages == 0 {
		return nil, nil
	}

	from := uint32(1)
	if mbox.Messages > uint32(pageSize) {
		from = mbox.Messages - uint32(pageSize) + 1
	}
	seqSet := new(imap.SeqSet)
	seqSet.AddRange(from, mbox.Messages)

	messages := make(chan *imap.Message, pageSize)
	done := make(chan error, 1)
	go func() {
		done <- c.Fetch(seqSet, []imap.FetchItem{imap.FetchEnvelope, imap.FetchUid}, messages)
	}()

	var envelopes []core.Envelope
	for msg := range messages {
		if msg.Envelope == nil {
			continue
		}
		envelopes = append(envelopes, core.Envelope{
			ID:      strconv.FormatUint(uint64(msg.Uid), 10),
			Subject: msg.Envelope.Subject,
			From:    formatAddress(msg.Envelope.From),
			Date:    msg.Envelope.Date.Format(time.RFC1123Z),
		})
	}
	if err := <-done; err != nil {
		return nil, fmt.Errorf("failed to fetch envelopes for account %s: %w", account, err)
	}
	return envelopes, nil
}

// ReadMessage fetches the message by UID and renders it into the
// header-plus-blank-line-plus-body shape the extractor parses.
func (s *IMAPSource) ReadMessage(ctx context.Context, account, id string) (string, error) {
	c, err := s.conn(account)
	if err != nil {
		return "", err
	}

	uid, err := strconv.ParseUint(id, 10, 32)
	if err != nil {
		return "", fmt.Errorf("invalid message uid %q: %w", id, err)
	}

	seqSet := new(imap.SeqSet)
	seqSet.AddNum(uint32(uid))
	section := &imap.BodySectionName{}

	messages := make(chan *imap.Message, 1)
	done := make(chan error, 1)
	go func() {
		done <- c.UidFetch(seqSet, []imap.FetchItem{section.FetchItem(), imap.FetchUid}, messages)
	}()

	msg := <-messages
	if err := <-done; err != nil {
		return "", fmt.Errorf("failed to fetch message %s for account %s: %w", id, account, err)
	}
	if msg == nil {
		return "", fmt.Errorf("no message returned for uid %s on account %s", id, account)
	}

	body := msg.GetBody(section)
	if body == nil {
		return "", fmt.Errorf("message %s on account %s has no body section", id, account)
	}
	return renderMessage(body)
}

// Close disconnects every open account connection.
func (s *IMAPSource) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for account, c := range s.conns {
		if err := c.Logout(); err != nil {
			s.logger.Warn("Failed to log out of IMAP account",
				zap.String("account", account),
				zap.Error(err))
		}
		delete(s.conns, account)
	}
}

// conn returns the account's connection, dialing and logging in on first use.
func (s *IMAPSource) conn(account string) (*client.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.conns[account]; ok {
		return c, nil
	}

	cfg, ok := s.accounts[account]
	if !ok {
		return nil, fmt.Errorf("unknown mail account: %s", account)
	}

	c, err := client.DialTLS(cfg.Server, nil)
	if err != nil {
		return nil, fmt.Errorf("IMAP connection error for account %s: %w", account, err)
	}
	c.Timeout = s.timeout

	if err := c.Login(cfg.Username, cfg.Password); err != nil {
		c.Logout()
		return nil, fmt.Errorf("IMAP login failed for account %s: %w", account, err)
	}

	mailbox := cfg.Mailbox
	if mailbox == "" {
		mailbox = "INBOX"
	}
	if _, err := c.Select(mailbox, true); err != nil {
		c.Logout()
		return nil, fmt.Errorf("failed to select mailbox %s for account %s: %w", mailbox, account, err)
	}

	s.conns[account] = c
	return c, nil
}

// renderMessage flattens a MIME message into Subject:/From:/Date: header
// lines, a blank line and the first text/plain part.
func renderMessage(r io.Reader) (string, error) {
	mr, err := mail.CreateReader(r)
	if err != nil {
		return "", fmt.Errorf("failed to parse message: %w", err)
	}

	var body string
	for {
		p, err := mr.NextPart()
		if err == io.EOF {
			break
		} else if err != nil {
			return "", fmt.Errorf("failed to read message part: %w", err)
		}

		if h, ok := p.Header.(*mail.InlineHeader); ok {
			contentType, _, err := h.ContentType()
			if err != nil {
				continue
			}
			if contentType == "text/plain" && body == "" {
				b, err := io.ReadAll(p.Body)
				if err != nil {
					continue
				}
				body = string(b)
			}
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Subject: %s\n", mr.Header.Get("Subject"))
	fmt.Fprintf(&sb, "From: %s\n", mr.Header.Get("From"))
	fmt.Fprintf(&sb, "Date: %s\n", mr.Header.Get("Date"))
	sb.WriteString("\n")
	sb.WriteString(body)
	return sb.String(), nil
}

func formatAddress(addrs []*imap.Address) string {
	if len(addrs) == 0 {
		return ""
	}
	a := addrs[0]
	addr := fmt.Sprintf("%s@%s", a.MailboxName, a.HostName)
	if a.PersonalName != "" {
		return fmt.Sprintf("%s <%s>", a.PersonalName, addr)
	}
	return addr
}
