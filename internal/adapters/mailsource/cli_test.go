package mailsource

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const stubScript = `#!/bin/sh
case "$*" in
  *"envelope list"*)
    echo '[{"id":42,"subject":"RFP: Facade work","from":"bids@acme.com","date":"2025-04-14"},{"id":"43","subject":"Follow up","from":"office@acme.com","date":"2025-04-15"},{"subject":"no id"}]'
    ;;
  *"message read"*)
    printf 'Subject: RFP: Facade work\n\nProposal attached.'
    ;;
esac
`

func newStubSource(t *testing.T) *CLISource {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("stub mail client is a shell script")
	}
	path := filepath.Join(t.TempDir(), "mailclient")
	require.NoError(t, os.WriteFile(path, []byte(stubScript), 0o755))
	return NewCLISource(path, zap.NewNop())
}

func TestCLIListEnvelopes(t *testing.T) {
	source := newStubSource(t)

	envelopes, err := source.ListEnvelopes(context.Background(), "work", 100)
	require.NoError(t, err)
	// Numeric and string ids both decode; the entry without an id is skipped.
	require.Len(t, envelopes, 2)
	require.Equal(t, "42", envelopes[0].ID)
	require.Equal(t, "RFP: Facade work", envelopes[0].Subject)
	require.Equal(t, "bids@acme.com", envelopes[0].From)
	require.Equal(t, "43", envelopes[1].ID)
}

func TestCLIReadMessage(t *testing.T) {
	source := newStubSource(t)

	raw, err := source.ReadMessage(context.Background(), "work", "42")
	require.NoError(t, err)
	require.Equal(t, "Subject: RFP: Facade work\n\nProposal attached.", raw)
}

func TestCLIMissingClient(t *testing.T) {
	source := NewCLISource("/nonexistent/mailclient", zap.NewNop())

	_, err := source.ListEnvelopes(context.Background(), "work", 100)
	require.Error(t, err)

	_, err = source.ReadMessage(context.Background(), "work", "1")
	require.Error(t, err)
}

func TestCLIDefaultsToHimalaya(t *testing.T) {
	source := NewCLISource("", zap.NewNop())
	require.Equal(t, "himalaya", source.command)
}
