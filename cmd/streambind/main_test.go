package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/vango-dev/streambind/internal/config"
	"github.com/vango-dev/streambind/pkg/host"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func fixedClock(t *testing.T) {
	t.Helper()
	prev := clock
	clock = func() time.Time { return time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC) }
	t.Cleanup(func() { clock = prev })
}

func TestVersionShort(t *testing.T) {
	out, err := execute(t, "version", "--short")
	if err != nil {
		t.Fatalf("version error = %v", err)
	}
	if strings.TrimSpace(out) != version {
		t.Errorf("version --short = %q, want %q", out, version)
	}
}

func TestRender_TextFrames(t *testing.T) {
	fixedClock(t)

	out, err := execute(t, "render", "--ticks=2", "--streams=1", "--title=Headless")
	if err != nil {
		t.Fatalf("render error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	// mount + 2 ticks x (clock + 1 counter)
	if len(lines) != 5 {
		t.Fatalf("frames = %d, want 5:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "#1 mount ") {
		t.Errorf("line 0 = %q", lines[0])
	}
	if !strings.Contains(lines[0], "<h1>Headless</h1>") {
		t.Errorf("line 0 = %q, missing title", lines[0])
	}
	if !strings.HasPrefix(lines[4], "#5 force ") || !strings.Contains(lines[4], "counter0: 2") {
		t.Errorf("line 4 = %q", lines[4])
	}
	if !strings.Contains(lines[4], "07:08:11") {
		t.Errorf("line 4 = %q, want clock at 07:08:11", lines[4])
	}
}

func TestRender_JSONFrames(t *testing.T) {
	fixedClock(t)

	out, err := execute(t, "render", "--ticks=1", "--streams=0", "--json")
	if err != nil {
		t.Fatalf("render error = %v", err)
	}

	dec := json.NewDecoder(strings.NewReader(out))
	var frames []host.Frame
	for dec.More() {
		var f host.Frame
		if err := dec.Decode(&f); err != nil {
			t.Fatalf("Decode() error = %v", err)
		}
		frames = append(frames, f)
	}
	if len(frames) != 2 {
		t.Fatalf("frames = %d, want 2", len(frames))
	}
	if frames[0].Reason != host.ReasonMount || frames[1].Reason != host.ReasonForce {
		t.Errorf("reasons = %s, %s", frames[0].Reason, frames[1].Reason)
	}
	if frames[1].Root != "render" {
		t.Errorf("Root = %q, want render", frames[1].Root)
	}
}

func TestRender_ArchiveToDir(t *testing.T) {
	fixedClock(t)
	dir := t.TempDir()

	cfg := config.New()
	cfg.Snapshot.Backend = config.BackendDir
	cfg.Snapshot.Dir = filepath.Join(dir, "snaps")
	path := filepath.Join(dir, config.ConfigFileName)
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo() error = %v", err)
	}

	if _, err := execute(t, "render", "--config", path, "--ticks=1", "--streams=0", "--archive"); err != nil {
		t.Fatalf("render error = %v", err)
	}

	for _, seq := range []string{"000001", "000002"} {
		p := filepath.Join(dir, "snaps", "render", seq+".html")
		if _, err := os.Stat(p); err != nil {
			t.Errorf("snapshot %s missing: %v", p, err)
		}
	}
}

func TestLoadConfig_FlagOverrides(t *testing.T) {
	cfg, err := loadConfig(&globalFlags{debug: true, logFormat: "json"})
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if !cfg.Debug {
		t.Error("Debug = false, want true")
	}
	if cfg.Log.Format != "json" {
		t.Errorf("Log.Format = %q, want json", cfg.Log.Format)
	}
}

func TestLoadConfig_BadFormat(t *testing.T) {
	if _, err := loadConfig(&globalFlags{logFormat: "xml"}); err == nil {
		t.Error("loadConfig(xml) error = nil")
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := loadConfig(&globalFlags{configPath: filepath.Join(t.TempDir(), "nope.yaml")})
	if err == nil || !strings.Contains(err.Error(), "E141") {
		t.Errorf("loadConfig(missing) error = %v, want E141", err)
	}
}

func TestNewLogger(t *testing.T) {
	cfg := config.New()
	cfg.Log.Format = "json"
	cfg.Log.Level = "warn"

	var buf bytes.Buffer
	logger, err := newLogger(cfg, &buf)
	if err != nil {
		t.Fatalf("newLogger() error = %v", err)
	}
	logger.Info("hidden")
	logger.Warn("shown", "k", 1)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info logged at warn level: %s", out)
	}
	if !strings.Contains(out, `"msg":"shown"`) {
		t.Errorf("output = %s, want json warn line", out)
	}
}

func TestErrors_ListsCodes(t *testing.T) {
	out, err := execute(t, "--no-color", "errors")
	if err != nil {
		t.Fatalf("errors error = %v", err)
	}
	for _, want := range []string{"E001:", "E141: Configuration file not found", "E161: Unknown client operation"} {
		if !strings.Contains(out, want) {
			t.Errorf("errors output missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "E001") > strings.Index(out, "E161") {
		t.Errorf("codes not sorted:\n%s", out)
	}
}

func TestErrors_ExplainsOneCode(t *testing.T) {
	out, err := execute(t, "--no-color", "errors", "e161")
	if err != nil {
		t.Fatalf("errors e161 error = %v", err)
	}
	for _, want := range []string{"E161", "Unknown client operation", "add, clear or reset"} {
		if !strings.Contains(out, want) {
			t.Errorf("errors e161 missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\033[") {
		t.Errorf("--no-color output has ANSI codes:\n%q", out)
	}
}

func TestRunRoot_PrintsErrorToStderr(t *testing.T) {
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs([]string{"--no-color", "errors", "E999"})

	if code := runRoot(cmd); code != 1 {
		t.Errorf("runRoot() = %d, want 1", code)
	}
	if !strings.Contains(errOut.String(), `unknown error code "E999"`) {
		t.Errorf("stderr = %q, want unknown code message", errOut.String())
	}
	if !strings.Contains(errOut.String(), "streambind errors") {
		t.Errorf("stderr = %q, want suggestion", errOut.String())
	}
	if out.Len() != 0 {
		t.Errorf("stdout = %q, want empty", out.String())
	}
}
