package extract

import "strings"

// Message is a raw email split into the header fields ingestion cares about
// and the plaintext body.
type Message struct {
	Subject string
	From    string
	Date    string
	Body    string
}

// ParseMessage splits a raw message into subject, from, date and body.
// Header lines are recognized by prefix and later occurrences overwrite
// earlier ones; the first blank line starts the body and every line after it
// belongs to the body.
func ParseMessage(raw string) Message {
	var msg Message
	inBody := false

	for _, line := range strings.Split(raw, "\n") {
		switch {
		case inBody:
			msg.Body += line + "\n"
		case strings.HasPrefix(line, "Subject:"):
			msg.Subject = strings.TrimSpace(strings.TrimPrefix(line, "Subject:"))
		case strings.HasPrefix(line, "From:"):
			msg.From = strings.TrimSpace(strings.TrimPrefix(line, "From:"))
		case strings.HasPrefix(line, "Date:"):
			msg.Date = strings.TrimSpace(strings.TrimPrefix(line, "Date:"))
		case strings.TrimSpace(line) == "":
			inBody = true
		}
	}

	return msg
}
