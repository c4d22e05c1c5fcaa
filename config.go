package richhtml

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	yaml "gopkg.in/yaml.v3"

	"github.com/riverfjs/richhtml-go/internal/types"
)

// 导出类型别名
type (
	RenderConfig = types.RenderConfig
	BulletStyle  = types.BulletStyle
	ImageConfig  = types.ImageConfig
)

var (
	defaultConfig     *RenderConfig
	defaultConfigOnce sync.Once
)

// DefaultConfig returns the default render configuration (singleton).
func DefaultConfig() *RenderConfig {
	defaultConfigOnce.Do(func() {
		defaultConfig = types.DefaultRenderConfig()
	})
	return defaultConfig
}

// LoadConfig reads a YAML configuration and lays it over the defaults. An empty path
// returns a fresh copy of the defaults. Unknown keys are rejected.
func LoadConfig(path string) (*RenderConfig, error) {
	cfg := types.DefaultRenderConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return unmarshalConfig(data, cfg)
}

func unmarshalConfig(data []byte, cfg *RenderConfig) (*RenderConfig, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	return cfg, nil
}

// DumpConfig marshals cfg to YAML.
func DumpConfig(cfg *RenderConfig) ([]byte, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %w", err)
	}
	return data, nil
}
