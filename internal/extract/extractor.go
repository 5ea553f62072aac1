package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Heuristic acceptance threshold: a message counts as an RFP opportunity
// when at least this many keywords appear.
const keywordThreshold = 2

const (
	maxNameLen        = 100
	maxDescriptionLen = 500
	maxRawContentLen  = 1000

	fallbackName         = "RFP Opportunity (Email Import)"
	fallbackDescription  = "RFP details extracted from email"
	fallbackOrganization = "Unknown Organization"
)

// rfpKeywords are the domain terms whose combined presence marks a message
// as an RFP opportunity.
var rfpKeywords = []string{
	"rfp", "request for proposal", "bid opportunity", "solicitation",
	"construction bid", "waterproofing", "facade", "roofing",
	"local law 11", "ll11", "nycha", "building envelope",
	"masonry", "caulking", "sealant", "restoration",
	"proposal due", "bid due", "submission deadline",
	"pre-bid", "walk through", "site visit",
}

// dateToken matches either a numeric M/D/YY(YY) date or a "Month D, YYYY"
// spelled-out date.
const dateToken = `\d{1,2}[/\-]\d{1,2}[/\-]\d{2,4}|\w+ \d{1,2},? \d{4}`

var (
	deadlineRe    = regexp.MustCompile(`(?i)(?:due|deadline|submit|proposal).*?(` + dateToken + `)`)
	walkthroughRe = regexp.MustCompile(`(?i)(?:walk[\s\-]?through|site visit|pre[\s\-]?bid).*?(` + dateToken + `)`)
	valueRe       = regexp.MustCompile(`\$[\d,]+(?:\.\d{2})?`)
	emailRe       = regexp.MustCompile(`[\w.\-]+@[\w.\-]+\.\w+`)
	phoneRe       = regexp.MustCompile(`\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`)
	domainRe      = regexp.MustCompile(`@([\w.\-]+)\.`)

	nameRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)project:?\s*([^\n]{10,100})`),
		regexp.MustCompile(`(?i)(?:rfp|bid|proposal).*?for\s+([^\n]{10,100})`),
		regexp.MustCompile(`(?i)solicitation.*?:\s*([^\n]{10,100})`),
	}
	orgRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:from|contact|organization):\s*([^\n]{5,50})`),
		regexp.MustCompile(`(?i)([\w\s&]{5,50})\s+(?:is requesting|requests|invites)`),
	}
)

// dateLayouts are tried in order against a matched date token.
var dateLayouts = []string{
	"1/2/2006",
	"1/2/06",
	"January 2, 2006",
	"January 2 2006",
	"Jan 2, 2006",
	"Jan 2 2006",
}

// Result is the structured RFP candidate extracted from one email. Missing
// fields stay zero-valued; extraction still succeeds without them.
type Result struct {
	EmailID         string
	Name            string
	Description     string
	Deadline        *time.Time
	WalkthroughDate *time.Time
	Contact         string
	ContactPhone    string
	Organization    string
	EstimatedValue  *float64
	EmailSource     string
	Notes           string
	RawContent      string
}

// Extract decides whether the message looks like an RFP opportunity and, if
// so, pulls structured fields out of it. A nil result means the message did
// not meet the keyword threshold; that is a normal outcome, not an error.
func Extract(msg Message, emailID string) *Result {
	if KeywordScore(msg.Subject, msg.Body) < keywordThreshold {
		return nil
	}

	deadlines := extractDates(msg.Body, deadlineRe)
	walkthroughs := extractDates(msg.Body, walkthroughRe)

	res := &Result{
		EmailID:      emailID,
		Name:         extractProjectName(msg.Subject, msg.Body),
		Description:  extractDescription(msg.Body),
		Contact:      extractContact(msg.Body, msg.From),
		ContactPhone: firstMatch(msg.Body, phoneRe),
		Organization: extractOrganization(msg.From, msg.Body),
		EmailSource:  fmt.Sprintf("%s@%s", emailID, msg.From),
		Notes:        "Imported from email. Subject: " + msg.Subject,
		RawContent:   truncate(msg.Body, maxRawContentLen),
	}
	if len(deadlines) > 0 {
		res.Deadline = &deadlines[0]
	}
	if len(walkthroughs) > 0 {
		res.WalkthroughDate = &walkthroughs[0]
	}
	if values := valueRe.FindAllString(msg.Body, -1); len(values) > 0 {
		res.EstimatedValue = parseValue(values[0])
	}

	return res
}

// KeywordScore counts how many RFP keywords appear in the subject and body.
func KeywordScore(subject, body string) int {
	text := strings.ToLower(subject + " " + body)
	score := 0
	for _, kw := range rfpKeywords {
		if strings.Contains(text, kw) {
			score++
		}
	}
	return score
}

// extractDates finds every trigger-phrase match of re, parses the captured
// date token and drops tokens that fail to parse.
func extractDates(text string, re *regexp.Regexp) []time.Time {
	var dates []time.Time
	for _, m := range re.FindAllStringSubmatch(text, -1) {
		if t, ok := parseDateToken(m[1]); ok {
			dates = append(dates, t)
		}
	}
	return dates
}

// parseDateToken parses a matched date token against the known layouts.
func parseDateToken(token string) (time.Time, bool) {
	token = strings.TrimSpace(token)
	normalized := strings.ReplaceAll(token, "-", "/")
	for _, layout := range dateLayouts {
		candidate := token
		if strings.Contains(layout, "/") {
			candidate = normalized
		}
		if t, err := time.Parse(layout, candidate); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func extractProjectName(subject, body string) string {
	if len(subject) > 10 {
		return truncate(subject, maxNameLen)
	}
	for _, re := range nameRes {
		if m := re.FindStringSubmatch(body); m != nil {
			return truncate(strings.TrimSpace(m[1]), maxNameLen)
		}
	}
	return fallbackName
}

// extractDescription takes the first body paragraph longer than 50
// characters; paragraphs are blocks separated by a blank line.
func extractDescription(body string) string {
	for _, p := range strings.Split(body, "\n\n") {
		if len(strings.TrimSpace(p)) > 50 {
			return truncate(p, maxDescriptionLen)
		}
	}
	return fallbackDescription
}

// extractContact prefers an address found in the body and falls back to one
// in the From header.
func extractContact(body, from string) string {
	if addr := firstMatch(body, emailRe); addr != "" {
		return addr
	}
	return firstMatch(from, emailRe)
}

// extractOrganization derives an organization name from the sender's email
// domain, dropping the TLD and title-casing the remaining labels. Without a
// domain it falls back to announcement phrasing in the body.
func extractOrganization(from, body string) string {
	if m := domainRe.FindStringSubmatch(from); m != nil {
		caser := cases.Title(language.English)
		labels := strings.Split(m[1], ".")
		for i, label := range labels {
			labels[i] = caser.String(label)
		}
		return strings.Join(labels, " ")
	}

	for _, re := range orgRes {
		if m := re.FindStringSubmatch(body); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return fallbackOrganization
}

// parseValue converts a $-prefixed token to a number. Invalid tokens yield
// nil rather than an error.
func parseValue(token string) *float64 {
	cleaned := strings.NewReplacer("$", "", ",", "").Replace(token)
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return nil
	}
	return &v
}

func firstMatch(text string, re *regexp.Regexp) string {
	return re.FindString(text)
}
