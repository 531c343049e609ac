package ocr

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExecRunnerLogsFailureToInjectedLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	r := execRunner{logger: logger}
	_, _, err := r.Run(context.Background(), "/nonexistent/dn-ocr-binary")
	require.Error(t, err)
	require.Contains(t, buf.String(), "ocr.exec.failed")
}

func TestTruncateCapsStderr(t *testing.T) {
	long := strings.Repeat("x", 100)
	got := truncate(long, 10)
	require.Equal(t, "xxxxxxxxxx...(truncated)", got)
	require.Equal(t, "short", truncate("short", 10))
}
