package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/circuitview/pkg/circuit/synth"
	"github.com/matzehuels/circuitview/pkg/errors"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	s, _ := cfg.Settings()
	if s.Topology != synth.Linear || s.Reps != 2 {
		t.Errorf("default settings = %+v", s)
	}
	if cfg.API.Timeout.Duration != 10*time.Second {
		t.Errorf("default timeout = %v", cfg.API.Timeout)
	}
}

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(`
[api]
base_url = "https://qml.example.com"
timeout = "3s"

[defaults]
entanglement = "full"
reps = 4

[canvas]
width = 1200.0

[cache]
backend = "redis"
redis_addr = "cache:6379"
redis_db = 2

[store]
mongo_uri = "mongodb://db:27017/"
`))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	if cfg.API.BaseURL != "https://qml.example.com" || cfg.API.Timeout.Duration != 3*time.Second {
		t.Errorf("api = %+v", cfg.API)
	}
	if s, _ := cfg.Settings(); s.Topology != synth.Full || s.Reps != 4 {
		t.Errorf("settings = %+v", s)
	}
	if cfg.Canvas.Width != 1200 || cfg.Canvas.Height != 0 {
		t.Errorf("canvas = %+v", cfg.Canvas)
	}
	if cfg.Cache.Backend != CacheRedis || cfg.Cache.RedisAddr != "cache:6379" || cfg.Cache.RedisDB != 2 {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	// untouched sections keep defaults
	if cfg.Cache.TTL.Duration != 24*time.Hour || cfg.Server.Addr != ":8080" {
		t.Errorf("defaults lost: ttl=%v addr=%q", cfg.Cache.TTL, cfg.Server.Addr)
	}
	if cfg.Store.Database != "quantum_clinical_db" {
		t.Errorf("store database = %q", cfg.Store.Database)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		toml string
	}{
		{"syntax", `[api`},
		{"bad duration", "[api]\ntimeout = \"soon\""},
		{"unknown key", "[api]\nretries = 3"},
		{"bad reps", "[defaults]\nreps = 9"},
		{"bad topology", "[defaults]\nentanglement = \"star\""},
		{"bad url", "[api]\nbase_url = \"localhost:8001\""},
		{"bad backend", "[cache]\nbackend = \"memcached\""},
		{"negative width", "[canvas]\nwidth = -5.0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.toml)); err == nil {
				t.Errorf("Parse(%q) should fail", tt.toml)
			}
		})
	}
}

func TestParseOfflineSkipsURL(t *testing.T) {
	if _, err := Parse([]byte("[api]\noffline = true\nbase_url = \"\"")); err != nil {
		t.Errorf("offline config should not need a URL: %v", err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[server]\naddr = \":9090\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}

	if _, err := Load(filepath.Join(dir, "missing.toml")); err == nil {
		t.Error("missing explicit path should fail")
	}
}

func TestLoadDefaultPathMissing(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error: %v", err)
	}
	if cfg != Default() {
		t.Error("missing default file should yield defaults")
	}
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	p, err := DefaultPath()
	if err != nil || p != filepath.Join("/tmp/xdg", "circuitview", "config.toml") {
		t.Errorf("DefaultPath() = %q, %v", p, err)
	}
}

func TestParseErrorCode(t *testing.T) {
	_, err := Parse([]byte(`[api`))
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("error code = %s", errors.GetCode(err))
	}
}
