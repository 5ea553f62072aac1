package extract

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseMessage(t *testing.T) {
	raw := "Subject: RFP for roof repairs\n" +
		"From: procurement@acme.com\n" +
		"Date: Mon, 14 Apr 2025 09:30:00 -0400\n" +
		"X-Mailer: ignored\n" +
		"\n" +
		"First paragraph.\n" +
		"\n" +
		"Second paragraph."

	msg := ParseMessage(raw)
	require.Equal(t, "RFP for roof repairs", msg.Subject)
	require.Equal(t, "procurement@acme.com", msg.From)
	require.Equal(t, "Mon, 14 Apr 2025 09:30:00 -0400", msg.Date)
	require.Equal(t, "First paragraph.\n\nSecond paragraph.\n", msg.Body)
}

func TestParseMessageLaterHeaderWins(t *testing.T) {
	raw := "Subject: first\nSubject: second\n\nbody"
	require.Equal(t, "second", ParseMessage(raw).Subject)
}

func TestKeywordScore(t *testing.T) {
	tests := []struct {
		name    string
		subject string
		body    string
		score   int
	}{
		{"no keywords", "Lunch on Friday", "See you at noon.", 0},
		{"one keyword", "Question", "Is the facade done yet?", 1},
		{"subject and body combine", "RFP announcement", "Waterproofing and masonry scope.", 3},
		{"case insensitive", "LOCAL LAW 11 NOTICE", "SEALANT replacement required.", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.score, KeywordScore(tt.subject, tt.body))
		})
	}
}

func TestExtractBelowThresholdReturnsNil(t *testing.T) {
	msg := Message{
		Subject: "Invoice attached",
		From:    "billing@vendor.com",
		Body:    "Please find the invoice for facade cleaning attached.",
	}
	require.Nil(t, Extract(msg, "1"))
}

func TestExtractFields(t *testing.T) {
	msg := Message{
		Subject: "RFP: Facade Restoration Project",
		From:    "Jane Doe <procurement@acme.com>",
		Body: "Project: Facade Restoration for 123 Main St\n\n" +
			"RFP due 5/1/2025. Contact bids@acme.com or (212) 555-0100. Budget $50,000.",
	}

	res := Extract(msg, "17")
	require.NotNil(t, res)

	require.Equal(t, "17", res.EmailID)
	require.Equal(t, "RFP: Facade Restoration Project", res.Name)
	require.Equal(t, "RFP due 5/1/2025. Contact bids@acme.com or (212) 555-0100. Budget $50,000.", res.Description)
	require.NotNil(t, res.Deadline)
	require.Equal(t, time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC), *res.Deadline)
	require.Nil(t, res.WalkthroughDate)
	require.Equal(t, "bids@acme.com", res.Contact)
	require.Equal(t, "(212) 555-0100", res.ContactPhone)
	require.Equal(t, "Acme", res.Organization)
	require.NotNil(t, res.EstimatedValue)
	require.Equal(t, 50000.0, *res.EstimatedValue)
	require.Equal(t, "17@Jane Doe <procurement@acme.com>", res.EmailSource)
	require.Equal(t, "Imported from email. Subject: RFP: Facade Restoration Project", res.Notes)
	require.Equal(t, msg.Body, res.RawContent)
}

func TestExtractSpelledOutDeadline(t *testing.T) {
	msg := Message{
		Subject: "Bid opportunity",
		From:    "office@midtownmgmt.com",
		Body:    "Proposal due May 1, 2025 for roofing work.",
	}

	res := Extract(msg, "2")
	require.NotNil(t, res)
	require.NotNil(t, res.Deadline)
	require.Equal(t, time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC), *res.Deadline)
}

func TestExtractWalkthroughDate(t *testing.T) {
	msg := Message{
		Subject: "Sealant replacement solicitation",
		From:    "office@midtownmgmt.com",
		Body:    "A site visit is scheduled for 4/15/2025 at the property.",
	}

	res := Extract(msg, "3")
	require.NotNil(t, res)
	require.Nil(t, res.Deadline)
	require.NotNil(t, res.WalkthroughDate)
	require.Equal(t, time.Date(2025, time.April, 15, 0, 0, 0, 0, time.UTC), *res.WalkthroughDate)
}

func TestExtractUnparsableDateDropped(t *testing.T) {
	msg := Message{
		Subject: "Waterproofing bid",
		From:    "office@midtownmgmt.com",
		Body:    "Proposal due 13/45/2025 for the building envelope scope.",
	}

	res := Extract(msg, "4")
	require.NotNil(t, res)
	require.Nil(t, res.Deadline)
}

func TestExtractInvalidValueDropped(t *testing.T) {
	msg := Message{
		Subject: "Masonry and sealant work",
		From:    "office@midtownmgmt.com",
		Body:    "Budget listed as $, pending board approval.",
	}

	res := Extract(msg, "5")
	require.NotNil(t, res)
	require.Nil(t, res.EstimatedValue)
}

func TestExtractFallbacks(t *testing.T) {
	msg := Message{
		Subject: "Bids",
		From:    "no-reply",
		Body:    "waterproofing bid due soon",
	}

	res := Extract(msg, "6")
	require.NotNil(t, res)
	require.Equal(t, "RFP Opportunity (Email Import)", res.Name)
	require.Equal(t, "RFP details extracted from email", res.Description)
	require.Equal(t, "Unknown Organization", res.Organization)
	require.Empty(t, res.Contact)
	require.Nil(t, res.Deadline)
}

func TestExtractProjectNameFromBody(t *testing.T) {
	msg := Message{
		Subject: "Bids",
		From:    "office@midtownmgmt.com",
		Body:    "Project: Roof membrane replacement at Lincoln Center\n\nMasonry and sealant work included.",
	}

	res := Extract(msg, "7")
	require.NotNil(t, res)
	require.Equal(t, "Roof membrane replacement at Lincoln Center", res.Name)
}

func TestExtractOrganizationFromMultiLabelDomain(t *testing.T) {
	msg := Message{
		Subject: "Restoration RFP",
		From:    "bids@capital.projects.nyc.gov",
		Body:    "Building envelope restoration scope to follow.",
	}

	res := Extract(msg, "8")
	require.NotNil(t, res)
	require.Equal(t, "Capital Projects Nyc", res.Organization)
}

func TestExtractTruncatesLongSubject(t *testing.T) {
	msg := Message{
		Subject: "RFP waterproofing " + strings.Repeat("x", 200),
		From:    "office@midtownmgmt.com",
		Body:    "Facade work.",
	}

	res := Extract(msg, "9")
	require.NotNil(t, res)
	require.Equal(t, 100, len(res.Name))
}

func TestTruncatePreservesUTF8(t *testing.T) {
	s := "héllo wörld"
	out := truncate(s, 6)
	require.LessOrEqual(t, len(out), 6)
	require.True(t, strings.HasPrefix(s, out))
}
