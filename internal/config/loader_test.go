package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadFromReaderYAML(t *testing.T) {
	t.Parallel()

	yamlContent := `
listeners:
  byte_stream:
    listen: "127.0.0.1:7300"
    server_id: "riot-1"
    enabled: true
  frame_stream:
    listen: "127.0.0.1:7301"
    path: "/ws"
    enabled: true
    enable_http2: false
policy:
  max_header_message_bytes: 4096
  max_header_total_bytes: 65536
  min_trigger_interval_ms: 10
  freeze_duration_ms: 30000
  keep_alive_ms: 60000
  rate_limiter:
    backend: "token_bucket"
    triggers_per_minute: 600
logging:
  level: "info"
  format: "json"
  output: "stdout"
`

	cfg, err := LoadFromReaderWithFormat(strings.NewReader(yamlContent), FormatYAML)
	if err != nil {
		t.Fatalf("LoadFromReaderWithFormat failed: %v", err)
	}

	if cfg.Listeners.ByteStream.Listen != "127.0.0.1:7300" {
		t.Errorf("Expected byte_stream.listen=127.0.0.1:7300, got %s", cfg.Listeners.ByteStream.Listen)
	}
	if !cfg.Listeners.ByteStream.Enabled {
		t.Error("Expected byte_stream.enabled=true, got false")
	}
	if cfg.Listeners.FrameStream.Path != "/ws" {
		t.Errorf("Expected frame_stream.path=/ws, got %s", cfg.Listeners.FrameStream.Path)
	}
	if cfg.Policy.RateLimiter.TriggersPerMinute != 600 {
		t.Errorf("Expected rate_limiter.triggers_per_minute=600, got %d", cfg.Policy.RateLimiter.TriggersPerMinute)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Expected logging.level=info, got %s", cfg.Logging.Level)
	}
}

func TestLoadFromReaderEnvExpansion(t *testing.T) {
	t.Parallel()

	const testValue = "test-server-id-from-env"
	t.Setenv("RIOTBROKER_SERVER_ID", testValue)

	yamlContent := `
listeners:
  byte_stream:
    listen: "127.0.0.1:7300"
    server_id: "${RIOTBROKER_SERVER_ID}"
    enabled: true
`

	cfg, err := LoadFromReaderWithFormat(strings.NewReader(yamlContent), FormatYAML)
	if err != nil {
		t.Fatalf("LoadFromReaderWithFormat failed: %v", err)
	}

	if cfg.Listeners.ByteStream.ServerID != testValue {
		t.Errorf("Expected server_id=%s, got %s", testValue, cfg.Listeners.ByteStream.ServerID)
	}
}

func TestLoadFromReaderEmptyListeners(t *testing.T) {
	t.Parallel()

	yamlContent := `
logging:
  level: "debug"
`

	cfg, err := LoadFromReaderWithFormat(strings.NewReader(yamlContent), FormatYAML)
	if err != nil {
		t.Fatalf("LoadFromReaderWithFormat failed: %v", err)
	}

	if cfg.Listeners.ByteStream.Enabled {
		t.Error("Expected byte_stream.enabled=false by default")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Expected logging.level=debug, got %s", cfg.Logging.Level)
	}
}

func TestLoadFromReaderTOML(t *testing.T) {
	t.Parallel()

	tomlContent := `
[listeners.byte_stream]
listen = "127.0.0.1:7300"
server_id = "riot-1"
enabled = true

[policy]
min_trigger_interval_ms = 5
`

	cfg, err := LoadFromReaderWithFormat(strings.NewReader(tomlContent), FormatTOML)
	if err != nil {
		t.Fatalf("LoadFromReaderWithFormat failed: %v", err)
	}

	if cfg.Listeners.ByteStream.Listen != "127.0.0.1:7300" {
		t.Errorf("Expected listen=127.0.0.1:7300, got %s", cfg.Listeners.ByteStream.Listen)
	}
	if cfg.Policy.MinTriggerIntervalMS != 5 {
		t.Errorf("Expected min_trigger_interval_ms=5, got %d", cfg.Policy.MinTriggerIntervalMS)
	}
}

func TestLoadFromFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
listeners:
  byte_stream:
    listen: "127.0.0.1:7300"
    enabled: true
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Listeners.ByteStream.Listen != "127.0.0.1:7300" {
		t.Errorf("Expected listen=127.0.0.1:7300, got %s", cfg.Listeners.ByteStream.Listen)
	}
}

func TestLoadFileNotFound(t *testing.T) {
	t.Parallel()

	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Fatal("Expected error for nonexistent file, got nil")
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	t.Parallel()

	yamlContent := `
listeners:
  byte_stream:
    listen: [this is not a valid scalar
`

	_, err := LoadFromReaderWithFormat(strings.NewReader(yamlContent), FormatYAML)
	if err == nil {
		t.Fatal("Expected error for invalid YAML, got nil")
	}
	if !strings.Contains(err.Error(), "failed to parse config YAML") {
		t.Errorf("Expected parse error message, got: %v", err)
	}
}

func TestLoadInvalidTOML(t *testing.T) {
	t.Parallel()

	tomlContent := `
[listeners.byte_stream]
listen = "127.0.0.1:7300
# Missing closing quote above
`

	_, err := LoadFromReaderWithFormat(strings.NewReader(tomlContent), FormatTOML)
	if err == nil {
		t.Fatal("Expected error for invalid TOML, got nil")
	}
	if !strings.Contains(err.Error(), "failed to parse config TOML") {
		t.Errorf("Expected parse error message, got: %v", err)
	}
}

func TestLoadUnsupportedFormat(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, []byte("{}"), 0o600); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	_, err := Load(path)
	if err == nil {
		t.Fatal("Expected error for unsupported format, got nil")
	}

	var unsupportedErr *UnsupportedFormatError
	if !errors.As(err, &unsupportedErr) {
		t.Fatalf("Expected UnsupportedFormatError, got %T: %v", err, err)
	}
	if unsupportedErr.Extension != ".json" {
		t.Errorf("Expected extension=.json, got %s", unsupportedErr.Extension)
	}
	if !strings.Contains(err.Error(), "unsupported config format") {
		t.Errorf("Expected unsupported format error message, got: %v", err)
	}
}

func TestLoadUnsupportedFormatNoExtension(t *testing.T) {
	t.Parallel()

	_, err := Load("/path/to/config")
	if err == nil {
		t.Fatal("Expected error for file without extension, got nil")
	}

	var unsupportedErr *UnsupportedFormatError
	if !errors.As(err, &unsupportedErr) {
		t.Fatalf("Expected UnsupportedFormatError, got %T: %v", err, err)
	}
	if unsupportedErr.Extension != "" {
		t.Errorf("Expected empty extension, got %s", unsupportedErr.Extension)
	}
}

func TestDetectFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path     string
		expected Format
		wantErr  bool
	}{
		{"config.yaml", FormatYAML, false},
		{"config.yml", FormatYAML, false},
		{"config.YAML", FormatYAML, false},
		{"config.YML", FormatYAML, false},
		{"config.toml", FormatTOML, false},
		{"config.TOML", FormatTOML, false},
		{"/path/to/config.yaml", FormatYAML, false},
		{"/path/to/config.toml", FormatTOML, false},
		{"config.json", "", true},
		{"config.xml", "", true},
		{"config", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()
			format, err := detectFormat(tt.path)
			if tt.wantErr {
				if err == nil {
					t.Errorf("detectFormat(%q) expected error, got nil", tt.path)
				}
				return
			}
			if err != nil {
				t.Errorf("detectFormat(%q) unexpected error: %v", tt.path, err)
			}
			if format != tt.expected {
				t.Errorf("detectFormat(%q) = %v, want %v", tt.path, format, tt.expected)
			}
		})
	}
}
