package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/diaglot/diaglot/pkg/config"
)

func TestCacheDir(t *testing.T) {
	t.Run("config override wins", func(t *testing.T) {
		cfg := config.Config{}
		cfg.Cache.Dir = "/opt/diag-cache"
		dir, err := cacheDir(cfg)
		if err != nil {
			t.Fatal(err)
		}
		if dir != "/opt/diag-cache" {
			t.Errorf("cacheDir = %q", dir)
		}
	})

	t.Run("xdg cache home", func(t *testing.T) {
		t.Setenv("XDG_CACHE_HOME", "/tmp/xdg")
		dir, err := cacheDir(config.Config{})
		if err != nil {
			t.Fatal(err)
		}
		if dir != filepath.Join("/tmp/xdg", appName) {
			t.Errorf("cacheDir = %q", dir)
		}
	})

	t.Run("home fallback", func(t *testing.T) {
		t.Setenv("XDG_CACHE_HOME", "")
		dir, err := cacheDir(config.Config{})
		if err != nil {
			t.Fatal(err)
		}
		if !strings.HasSuffix(dir, filepath.Join(".cache", appName)) {
			t.Errorf("cacheDir = %q, want ~/.cache/%s suffix", dir, appName)
		}
	})
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{"svg"}},
		{"svg", []string{"svg"}},
		{"svg,json,dot", []string{"svg", "json", "dot"}},
	}
	for _, tt := range tests {
		if got := parseFormats(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("parseFormats(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		input  string
		format string
		want   string
	}{
		{"arch.diag", "svg", "arch.svg"},
		{"dir/nested/flow.mmd", "json", "flow.json"},
		{"noext", "dot", "noext.dot"},
		{"-", "svg", "diagram.svg"},
	}
	for _, tt := range tests {
		if got := outputPath(tt.input, tt.format); got != tt.want {
			t.Errorf("outputPath(%q, %q) = %q, want %q", tt.input, tt.format, got, tt.want)
		}
	}
}

func TestReadSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.diag")
	if err := os.WriteFile(path, []byte("a -> b\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	src, err := readSource(path)
	if err != nil {
		t.Fatal(err)
	}
	if src != "a -> b\n" {
		t.Errorf("readSource = %q", src)
	}

	if _, err := readSource(filepath.Join(t.TempDir(), "missing.diag")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoggerContext(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, log.InfoLevel)

	ctx := withLogger(context.Background(), l)
	if got := loggerFromContext(ctx); got != l {
		t.Error("loggerFromContext should return the attached logger")
	}
	if got := loggerFromContext(context.Background()); got == nil {
		t.Error("bare context should fall back to the default logger")
	}

	l.Info("hello")
	if !strings.Contains(buf.String(), "hello") {
		t.Errorf("log output = %q", buf.String())
	}
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	c := New(&bytes.Buffer{}, LogInfo, config.Config{})
	root := c.RootCommand()

	want := []string{"parse", "layout", "render", "inspect", "cache", "serve", "completion"}
	have := make(map[string]bool)
	for _, cmd := range root.Commands() {
		have[cmd.Name()] = true
	}
	for _, name := range want {
		if !have[name] {
			t.Errorf("root command missing %q", name)
		}
	}
}

func TestNewCacheDisabled(t *testing.T) {
	cfg := config.Config{}
	cfg.Cache.Disabled = true
	c := New(&bytes.Buffer{}, LogInfo, cfg)

	cc := c.newCache(false)
	defer cc.Close()
	if _, _, err := cc.Get(context.Background(), "k"); err != nil {
		t.Fatal(err)
	}
	if err := cc.Set(context.Background(), "k", []byte("v"), 0); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := cc.Get(context.Background(), "k"); hit {
		t.Error("disabled cache should never store")
	}
}
