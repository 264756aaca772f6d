package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"videnc/internal/config"
	"videnc/internal/stats"
	"videnc/internal/testsupport"
)

func isolateHome(t *testing.T) {
	t.Helper()
	home := filepath.Join(t.TempDir(), "home")
	if err := os.MkdirAll(home, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
}

func runCLI(t *testing.T, args []string) (string, string, int) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	code := execute(context.Background(), cmd)
	return stdout.String(), stderr.String(), code
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func TestRootEncodesWithExecEngine(t *testing.T) {
	isolateHome(t)
	record := `{"type":"counter","table":"corner_point","key":[1],"delta":2}`
	cfg := testsupport.NewConfig(t,
		testsupport.WithStats(config.Stats{CornerPoint: true}),
		testsupport.WithExecEngine("/bin/sh", "-c", "printf '%s\\n' '"+record+"'"),
	)

	out, stderr, code := runCLI(t, testsupport.Args(cfg))
	if code != 0 {
		t.Fatalf("exit code = %d, stderr=%s", code, stderr)
	}
	requireContains(t, out, "videnc: Encoder Version [dev]")
	requireContains(t, out, "corner_point: \t0\t2\t0\t0\t0\t0\t\n")
	requireContains(t, out, "\n Total Time: ")
}

func TestRootParseFailureExitsOne(t *testing.T) {
	isolateHome(t)
	_, stderr, code := runCLI(t, []string{"--frames", "many"})
	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	requireContains(t, stderr, "Error parsing option \"frames\" with argument \"many\".")
	if strings.Contains(stderr, "exit status") {
		t.Fatalf("exit status leaked to stderr: %q", stderr)
	}
}

func TestRootHelpExitsZero(t *testing.T) {
	isolateHome(t)
	out, _, code := runCLI(t, []string{"--help"})
	if code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
	requireContains(t, out, "Usage: videnc [options]")
	requireContains(t, out, "--engine-binary")
}

func TestConfigInitAndValidate(t *testing.T) {
	isolateHome(t)
	target := filepath.Join(t.TempDir(), "videnc.toml")

	out, _, code := runCLI(t, []string{"config", "init", "--path", target})
	if code != 0 {
		t.Fatalf("config init exit %d", code)
	}
	requireContains(t, out, "Wrote sample configuration")

	_, stderr, code := runCLI(t, []string{"config", "init", "--path", target})
	if code != 1 {
		t.Fatalf("second init exit %d, want 1", code)
	}
	requireContains(t, stderr, "already exists")

	cfg := testsupport.NewConfig(t)
	args := append([]string{"config", "validate", "--config", target}, testsupport.Args(cfg)...)
	out, stderr, code = runCLI(t, args)
	if code != 0 {
		t.Fatalf("config validate exit %d: %s", code, stderr)
	}
	requireContains(t, out, "Config path: "+target)
	requireContains(t, out, "Configuration valid")
}

func TestConfigValidateReportsInvalidOption(t *testing.T) {
	isolateHome(t)
	_, stderr, code := runCLI(t, []string{"config", "validate", "--engine", "x264"})
	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	requireContains(t, stderr, "load config")
}

func TestConfigEnvListsKnownVariables(t *testing.T) {
	isolateHome(t)
	out, _, code := runCLI(t, []string{"config", "env", "--all"})
	if code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	requireContains(t, out, "VIDENC_HISTORY_DB")
}

func TestHistoryListsRecordedRuns(t *testing.T) {
	isolateHome(t)
	cfg := testsupport.NewConfig(t,
		testsupport.WithStats(config.Stats{CornerPoint: true}),
		testsupport.WithExecEngine("/bin/sh", "-c", "exit 0"),
		testsupport.WithHistoryDB(),
	)
	if _, stderr, code := runCLI(t, testsupport.Args(cfg)); code != 0 {
		t.Fatalf("encode exit %d: %s", code, stderr)
	}

	out, stderr, code := runCLI(t, []string{"history", "--db", cfg.Report.HistoryDB, "--limit", "5"})
	if code != 0 {
		t.Fatalf("history exit %d: %s", code, stderr)
	}
	requireContains(t, out, "exec")
	requireContains(t, out, "ok")

	store := testsupport.MustOpenHistory(t, cfg.Report.HistoryDB)
	runs, err := store.Recent(context.Background(), 1)
	if err != nil || len(runs) != 1 {
		t.Fatalf("Recent: %v %+v", err, runs)
	}
	cells, err := store.CellValues(context.Background(), runs[0].RunID, stats.TableCornerPoint)
	if err != nil || len(cells) != 6 {
		t.Fatalf("CellValues: %v %+v", err, cells)
	}
}

func TestHistoryMissingDatabase(t *testing.T) {
	isolateHome(t)
	t.Setenv("VIDENC_HISTORY_DB", "")
	missing := filepath.Join(t.TempDir(), "none.db")
	out, _, code := runCLI(t, []string{"history", "--db", missing})
	if code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	requireContains(t, out, "No history database")

	_, stderr, code := runCLI(t, []string{"history"})
	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	requireContains(t, stderr, "no history database")
}

func TestVersionCommand(t *testing.T) {
	out, _, code := runCLI(t, []string{"version"})
	if code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	requireContains(t, out, "videnc: Encoder Version [dev]")
}
