package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"

	"github.com/mossgarden/wpnav/internal/api"
)

func TestCLIHarnessMenuListJSON(t *testing.T) {
	restore := snapshotCLIState()
	defer restore()

	out := &bytes.Buffer{}
	errBuf := &bytes.Buffer{}
	in := &bytes.Buffer{}

	rootCmd.SetOut(out)
	rootCmd.SetErr(errBuf)
	rootCmd.SetIn(in)
	rootCmd.SetContext(withIO(context.Background(), in, out, errBuf))

	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(cfgPath, []byte(""), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	prevEnvGet := envGet
	envGet = func(key string) string {
		return ""
	}
	defer func() { envGet = prevEnvGet }()

	var gotSite string
	var gotUser string
	var gotPassword string
	prevNewClient := newClientFromCredsFunc
	newClientFromCredsFunc = func(site, user, password, mode string, opts ...api.ClientOption) (api.NavAPI, error) {
		gotSite = site
		gotUser = user
		gotPassword = password
		return &fakeClient{
			ListMenusFunc: func(ctx context.Context) ([]api.Menu, error) {
				return []api.Menu{{ID: 2, Name: "Primary"}}, nil
			},
		}, nil
	}
	defer func() { newClientFromCredsFunc = prevNewClient }()

	rootCmd.SetArgs([]string{
		"--config", cfgPath, "--output", "json",
		"--site", "https://example.test", "--user", "admin", "--password", "secret",
		"menu", "list",
	})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}

	if gotSite != "https://example.test" {
		t.Fatalf("expected site passed through, got %q", gotSite)
	}
	if gotUser != "admin" || gotPassword != "secret" {
		t.Fatalf("unexpected credentials: %q %q", gotUser, gotPassword)
	}

	var menus []struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal(out.Bytes(), &menus); err != nil {
		t.Fatalf("parse output: %v", err)
	}
	if len(menus) != 1 {
		t.Fatalf("expected 1 menu, got %d", len(menus))
	}
	if menus[0].ID != 2 || menus[0].Name != "Primary" {
		t.Fatalf("unexpected menu output: %+v", menus[0])
	}
	if errBuf.Len() != 0 {
		t.Fatalf("expected empty stderr, got %q", errBuf.String())
	}
}

func TestCLIHarnessConvertEmptyNeedsNoSite(t *testing.T) {
	restore := snapshotCLIState()
	defer restore()

	out := &bytes.Buffer{}
	errBuf := &bytes.Buffer{}
	in := &bytes.Buffer{}

	rootCmd.SetOut(out)
	rootCmd.SetErr(errBuf)
	rootCmd.SetIn(in)
	rootCmd.SetContext(withIO(context.Background(), in, out, errBuf))

	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(cfgPath, []byte(""), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	prevEnvGet := envGet
	envGet = func(key string) string { return "" }
	defer func() { envGet = prevEnvGet }()

	rootCmd.SetArgs([]string{"--config", cfgPath, "--output", "json", "convert", "empty"})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}

	var blocks []interface{}
	if err := json.Unmarshal(out.Bytes(), &blocks); err != nil {
		t.Fatalf("parse output: %v", err)
	}
	if len(blocks) != 0 {
		t.Fatalf("expected empty block list, got %d", len(blocks))
	}
}

func TestCLIHarnessCreateFromEmptyNeedsNoSite(t *testing.T) {
	restore := snapshotCLIState()
	defer restore()

	out := &bytes.Buffer{}
	errBuf := &bytes.Buffer{}
	in := &bytes.Buffer{}

	rootCmd.SetOut(out)
	rootCmd.SetErr(errBuf)
	rootCmd.SetIn(in)
	rootCmd.SetContext(withIO(context.Background(), in, out, errBuf))

	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(cfgPath, []byte(""), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	prevEnvGet := envGet
	envGet = func(key string) string { return "" }
	defer func() { envGet = prevEnvGet }()

	prevNewClient := newClientFromCredsFunc
	newClientFromCredsFunc = func(site, user, password, mode string, opts ...api.ClientOption) (api.NavAPI, error) {
		t.Fatal("create --from empty must not build a client")
		return nil, nil
	}
	defer func() { newClientFromCredsFunc = prevNewClient }()

	rootCmd.SetArgs([]string{"--config", cfgPath, "--output", "json", "create", "--from", "empty"})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}

	var blocks []interface{}
	if err := json.Unmarshal(out.Bytes(), &blocks); err != nil {
		t.Fatalf("parse output: %v", err)
	}
	if len(blocks) != 0 {
		t.Fatalf("expected empty block list, got %d", len(blocks))
	}
}

func snapshotCLIState() func() {
	prevSite := siteURL
	prevUser := username
	prevPassword := appPassword
	prevAnonymous := anonymous
	prevOutputFmt := outputFmt
	prevOutputType := outputType
	prevDebug := debug
	prevConfig := configFile
	prevQueryExpr := queryExpr
	prevQueryFile := queryFile
	prevErrorFmt := errorFmt
	prevQuiet := quietFlag
	prevResultLimit := resultLimit
	prevConvertRender := convertRender
	prevCreateFrom := createFrom
	prevClient := client

	prevOut := rootCmd.OutOrStdout()
	prevErr := rootCmd.ErrOrStderr()
	prevIn := rootCmd.InOrStdin()
	prevCtx := rootCmd.Context()

	return func() {
		siteURL = prevSite
		username = prevUser
		appPassword = prevPassword
		anonymous = prevAnonymous
		outputFmt = prevOutputFmt
		outputType = prevOutputType
		debug = prevDebug
		configFile = prevConfig
		queryExpr = prevQueryExpr
		queryFile = prevQueryFile
		errorFmt = prevErrorFmt
		quietFlag = prevQuiet
		resultLimit = prevResultLimit
		convertRender = prevConvertRender
		createFrom = prevCreateFrom
		client = prevClient

		rootCmd.SetOut(prevOut)
		rootCmd.SetErr(prevErr)
		rootCmd.SetIn(prevIn)
		rootCmd.SetContext(prevCtx)
		rootCmd.SetArgs(nil)
		resetFlagChanges(rootCmd)
	}
}

func resetFlagChanges(cmdFlagSet interface {
	Flags() *pflag.FlagSet
	PersistentFlags() *pflag.FlagSet
	InheritedFlags() *pflag.FlagSet
},
) {
	if cmdFlagSet == nil {
		return
	}
	cmdFlagSet.Flags().VisitAll(func(f *pflag.Flag) {
		f.Changed = false
	})
	cmdFlagSet.PersistentFlags().VisitAll(func(f *pflag.Flag) {
		f.Changed = false
	})
	cmdFlagSet.InheritedFlags().VisitAll(func(f *pflag.Flag) {
		f.Changed = false
	})
}
