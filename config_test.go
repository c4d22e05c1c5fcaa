package richhtml

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/riverfjs/richhtml-go/internal/types"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "richhtml.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultConfig_Singleton(t *testing.T) {
	if DefaultConfig() != DefaultConfig() {
		t.Error("DefaultConfig() returned different instances")
	}
	if diff := cmp.Diff(types.DefaultRenderConfig(), DefaultConfig()); diff != "" {
		t.Errorf("DefaultConfig() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfig_Empty(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig(\"\") error = %v", err)
	}
	if cfg == DefaultConfig() {
		t.Error("LoadConfig returned the shared default")
	}
	if diff := cmp.Diff(types.DefaultRenderConfig(), cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}

	cfg, err = LoadConfig(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("LoadConfig(empty file) error = %v", err)
	}
	if diff := cmp.Diff(types.DefaultRenderConfig(), cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfig_Overrides(t *testing.T) {
	path := writeConfig(t, `
bullet:
  radius: 9
images:
  base_url: http://localhost:8181
  timeout: 3s
heading_scales: [2, 1.5]
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	want := types.DefaultRenderConfig()
	want.Bullet.Radius = 9
	want.Images.BaseURL = "http://localhost:8181"
	want.Images.Timeout = 3 * time.Second
	want.HeadingScales = []float64{2, 1.5}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
	if got := cfg.HeadingScale(3); got != 1 {
		t.Errorf("HeadingScale(3) = %v, want 1", got)
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing file: error = nil")
	}
	if _, err := LoadConfig(writeConfig(t, "bullet:\n  size: 3\n")); err == nil {
		t.Error("unknown key: error = nil")
	}
	if _, err := LoadConfig(writeConfig(t, "images:\n  timeout: soon\n")); err == nil {
		t.Error("bad duration: error = nil")
	}
}

func TestDumpConfig_RoundTrip(t *testing.T) {
	orig := types.DefaultRenderConfig()
	orig.Bullet.Color = "#336699"
	orig.Images.MaxWidth = 640

	data, err := DumpConfig(orig)
	if err != nil {
		t.Fatalf("DumpConfig() error = %v", err)
	}
	cfg, err := LoadConfig(writeConfig(t, string(data)))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v\n%s", err, data)
	}
	if diff := cmp.Diff(orig, cfg); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}
