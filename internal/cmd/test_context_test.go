package cmd

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/cobra"

	"github.com/mossgarden/wpnav/internal/api"
	"github.com/mossgarden/wpnav/internal/output"
)

func withTestContext(t *testing.T, format output.Format) (*bytes.Buffer, *bytes.Buffer, func()) {
	t.Helper()
	in := &bytes.Buffer{}
	out := &bytes.Buffer{}
	errBuf := &bytes.Buffer{}

	ctx := withIO(context.Background(), in, out, errBuf)
	ctx = output.WithFormat(ctx, format)
	ctx = output.WithQuiet(ctx, true)
	rootCmd.SetContext(ctx)

	prevType := outputType
	prevFmt := outputFmt
	outputType = format
	outputFmt = string(format)

	return out, errBuf, func() {
		outputType = prevType
		outputFmt = prevFmt
		rootCmd.SetContext(context.Background())
	}
}

func withTestClient(t *testing.T, apiClient api.NavAPI) func() {
	t.Helper()
	prev := client
	client = apiClient
	return func() {
		client = prev
	}
}

func setCmdContext(cmd *cobra.Command) {
	if cmd == nil {
		return
	}
	cmd.SetContext(rootCmd.Context())
}
