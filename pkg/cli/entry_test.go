package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestTemplatesCommand(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := Run([]string{"templates"}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("templates exited %d: %s", code, stderr.String())
	}
	out := stdout.String()
	for _, want := range []string{
		"RequestHandler/2",
		"NotificationHandler/1",
		"StreamRequestHandler/2",
		"PipelineBehavior/2 (collector)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestTemplatesWithConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mediabind.yaml")
	cfg := "templates:\n  - name: CommandHandler\n    arity: 1\n"
	if err := os.WriteFile(path, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	code := Run([]string{"templates", "-config", path}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("templates exited %d: %s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "CommandHandler/1") {
		t.Errorf("configured template missing from output:\n%s", stdout.String())
	}
}

func TestUnknownCommand(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := Run([]string{"frobnicate"}, &stdout, &stderr); code != 2 {
		t.Fatalf("unknown command exited %d, want 2", code)
	}
	if !strings.Contains(stderr.String(), "unknown command") {
		t.Errorf("stderr missing error: %s", stderr.String())
	}
}

func TestScanMissingConfig(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := Run([]string{"scan", "-config", "does-not-exist.yaml"}, &stdout, &stderr); code != 1 {
		t.Fatalf("scan with missing config exited %d, want 1", code)
	}
}
