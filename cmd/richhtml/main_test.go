package main

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/riverfjs/richhtml-go"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// run executes the command line with a fresh environment, as main does.
func run(t *testing.T, args ...string) error {
	t.Helper()
	env := &appEnv{log: zap.NewNop(), cfg: richhtml.DefaultConfig(), start: time.Now()}
	ctx := context.WithValue(context.Background(), envKey{}, env)
	t.Cleanup(func() { richhtml.SetLogger(nil) })
	return newApp().Run(ctx, append([]string{"richhtml"}, args...))
}

func readReport(t *testing.T, path string) renderReport {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var report renderReport
	if err := json.Unmarshal(data, &report); err != nil {
		t.Fatalf("bad JSON %s: %v", data, err)
	}
	return report
}

func TestRender_HTML(t *testing.T) {
	src := writeFile(t, "lesson.html", `<p>Hi <b>there</b></p><ul><li>one</li></ul>`)
	out := filepath.Join(t.TempDir(), "out.json")

	if err := run(t, "render", "--links", "-o", out, src); err != nil {
		t.Fatalf("render error = %v", err)
	}
	report := readReport(t, out)
	if report.Text != "Hi there\n\none" {
		t.Errorf("text = %q", report.Text)
	}
	if !report.LinksClickable {
		t.Error("links not enabled")
	}
	var kinds []string
	for _, e := range report.Entities {
		kinds = append(kinds, e.Type)
	}
	if got := strings.Join(kinds, ","); got != "bold,custom_bullet" {
		t.Errorf("entity types = %s", got)
	}
}

func TestRender_MarkdownWithConfig(t *testing.T) {
	cfg := writeFile(t, "cfg.yaml", "bullet:\n  radius: 11\n")
	src := writeFile(t, "lesson.md", "- first\n- second\n")
	out := filepath.Join(t.TempDir(), "out.json")

	if err := run(t, "--config", cfg, "render", "--markdown", "-o", out, src); err != nil {
		t.Fatalf("render error = %v", err)
	}
	report := readReport(t, out)
	bullets := 0
	for _, e := range report.Entities {
		if e.Type == "custom_bullet" {
			bullets++
			if e.Bullet == nil || e.Bullet.Radius != 11 {
				t.Errorf("bullet = %+v, want radius 11", e.Bullet)
			}
		}
	}
	if bullets != 2 {
		t.Errorf("bullets = %d, want 2", bullets)
	}
}

func TestRender_LoadImages(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 40, 20))
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		w.Write(buf.Bytes())
	}))
	defer srv.Close()

	cfg := writeFile(t, "cfg.yaml", "images:\n  base_url: "+srv.URL+"\n")
	src := writeFile(t, "lesson.html", `<p>x</p><oppia-noninteractive-image filepath-with-value="&amp;quot;pic.png&amp;quot;"></oppia-noninteractive-image>`)
	out := filepath.Join(t.TempDir(), "out.json")

	err := run(t, "-c", cfg, "render", "--ns", "bucket", "--entity-id", "exp1", "--width", "20", "--load-images", "-o", out, src)
	if err != nil {
		t.Fatalf("render error = %v", err)
	}
	report := readReport(t, out)
	if len(report.Images) != 1 {
		t.Fatalf("images = %+v", report.Images)
	}
	got := report.Images[0]
	if got.Source != "pic.png" || got.Width != 20 || got.Height != 10 || got.Format != "png" {
		t.Errorf("image = %+v", got)
	}
	if len(paths) != 1 || paths[0] != "/bucket/exploration/exp1/assets/image/pic.png" {
		t.Errorf("requested %v", paths)
	}
}

func TestRender_MissingSource(t *testing.T) {
	err := run(t, "render", filepath.Join(t.TempDir(), "missing.html"))
	if err == nil || !strings.Contains(err.Error(), "unable to read source") {
		t.Errorf("error = %v", err)
	}
}

func TestDumpConfig(t *testing.T) {
	cfg := writeFile(t, "cfg.yaml", "bullet:\n  color: \"#123456\"\n")
	out := filepath.Join(t.TempDir(), "dump.yaml")

	if err := run(t, "--config", cfg, "dumpconfig", out); err != nil {
		t.Fatalf("dumpconfig error = %v", err)
	}
	loaded, err := richhtml.LoadConfig(out)
	if err != nil {
		t.Fatalf("LoadConfig(dump) error = %v", err)
	}
	if loaded.Bullet.Color != "#123456" {
		t.Errorf("color = %q", loaded.Bullet.Color)
	}
}

func TestCreateOutput(t *testing.T) {
	w, closeOut, err := createOutput("")
	if err != nil || w != os.Stdout {
		t.Fatalf("createOutput(\"\") = %v, %v", w, err)
	}
	var none error
	closeOut(&none)
	if none != nil {
		t.Errorf("closing STDOUT reported %v", none)
	}

	if _, _, err := createOutput(filepath.Join(t.TempDir(), "no", "such", "dir", "x")); err == nil {
		t.Error("createOutput into missing directory: error = nil")
	}

	path := filepath.Join(t.TempDir(), "x.json")
	w, closeOut, err = createOutput(path)
	if err != nil {
		t.Fatal(err)
	}
	w.Write([]byte("ok"))
	var closeErr error
	closeOut(&closeErr)
	if closeErr != nil {
		t.Errorf("close error = %v", closeErr)
	}
	if data, _ := os.ReadFile(path); string(data) != "ok" {
		t.Errorf("file holds %q", data)
	}
}

func TestReadSource(t *testing.T) {
	path := writeFile(t, "in.html", "<p>x</p>")
	data, err := readSource(path)
	if err != nil || string(data) != "<p>x</p>" {
		t.Errorf("readSource() = %q, %v", data, err)
	}
	if _, err := readSource(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("missing file: error = nil")
	}
}
