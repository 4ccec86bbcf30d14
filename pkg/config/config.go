package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/jguan/modelrun/pkg/infra/logger"
	"github.com/jguan/modelrun/pkg/unit/launch"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "MODELRUN_"

type Config struct {
	General  GeneralConfig  `toml:"general"`
	Logging  LoggingConfig  `toml:"logging"`
	Defaults DefaultsConfig `toml:"defaults"`
	Catalog  CatalogConfig  `toml:"catalog"`
	Server   ServerConfig   `toml:"server"`
}

type GeneralConfig struct {
	// Output is the default CLI output format (table, json, yaml).
	Output string `toml:"output"`
	// EnvFile is read before environment overrides are applied.
	EnvFile string `toml:"env_file"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// DefaultsConfig seeds the launch parameters before any recommendation or
// explicit value is applied.
type DefaultsConfig struct {
	BatchSize            int     `toml:"batch_size"`
	MaxSeqLen            int     `toml:"max_seq_len"`
	UseFP16              bool    `toml:"use_fp16"`
	GPUMemoryUtilization float64 `toml:"gpu_memory_utilization"`
	TensorParallelSize   int     `toml:"tensor_parallel_size"`
	Port                 int     `toml:"port"`
	ModelPath            string  `toml:"model_path"`
}

type CatalogConfig struct {
	// ExtraDir holds accelerators.yaml, models.yaml and engines.yaml that
	// extend the built-in catalog.
	ExtraDir string `toml:"extra_dir"`
}

type ServerConfig struct {
	ListenAddr      string        `toml:"listen_addr"`
	EnableCORS      bool          `toml:"enable_cors"`
	CORSOrigins     []string      `toml:"cors_origins"`
	RequestTimeout  string        `toml:"request_timeout"`
	RequestTimeoutD time.Duration `toml:"-"`
}

func Default() *Config {
	p := launch.DefaultParameters()

	return &Config{
		General: GeneralConfig{
			Output:  "table",
			EnvFile: ".env",
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "text",
		},
		Defaults: DefaultsFromParameters(p),
		Catalog: CatalogConfig{
			ExtraDir: "",
		},
		Server: ServerConfig{
			ListenAddr:     "127.0.0.1:8080",
			EnableCORS:     false,
			CORSOrigins:    []string{"*"},
			RequestTimeout: "30s",
		},
	}
}

// DefaultsFromParameters converts launch parameters to their config form.
func DefaultsFromParameters(p launch.Parameters) DefaultsConfig {
	return DefaultsConfig{
		BatchSize:            p.BatchSize,
		MaxSeqLen:            p.MaxSeqLen,
		UseFP16:              p.UseFP16,
		GPUMemoryUtilization: p.GPUMemoryUtilization,
		TensorParallelSize:   p.TensorParallelSize,
		Port:                 p.Port,
		ModelPath:            p.ModelPath,
	}
}

// Parameters returns the configured launch defaults.
func (d DefaultsConfig) Parameters() launch.Parameters {
	return launch.Parameters{
		BatchSize:            d.BatchSize,
		MaxSeqLen:            d.MaxSeqLen,
		UseFP16:              d.UseFP16,
		GPUMemoryUtilization: d.GPUMemoryUtilization,
		TensorParallelSize:   d.TensorParallelSize,
		Port:                 d.Port,
		ModelPath:            d.ModelPath,
	}
}

func LoadFromFile(path string) (*Config, error) {
	expandedPath, err := expandPath(path)
	if err != nil {
		return nil, fmt.Errorf("expand path: %w", err)
	}

	data, err := os.ReadFile(expandedPath)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()
	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, fmt.Errorf("decode TOML: %w", err)
	}

	if err := cfg.postProcess(); err != nil {
		return nil, fmt.Errorf("post process config: %w", err)
	}

	return cfg, nil
}

func (c *Config) postProcess() error {
	var err error

	if c.Server.RequestTimeoutD, err = time.ParseDuration(c.Server.RequestTimeout); err != nil {
		return fmt.Errorf("parse server.request_timeout: %w", err)
	}

	c.Catalog.ExtraDir, err = expandPath(c.Catalog.ExtraDir)
	if err != nil {
		return fmt.Errorf("expand catalog.extra_dir: %w", err)
	}

	c.General.EnvFile, err = expandPath(c.General.EnvFile)
	if err != nil {
		return fmt.Errorf("expand general.env_file: %w", err)
	}

	return nil
}

func (c *Config) Validate() error {
	validOutputs := map[string]bool{"table": true, "json": true, "yaml": true}
	if !validOutputs[strings.ToLower(c.General.Output)] {
		return fmt.Errorf("invalid general.output: %s (valid: table, json, yaml)", c.General.Output)
	}

	if _, err := logger.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("invalid logging level: %s (valid: debug, info, warn, error)", c.Logging.Level)
	}

	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		return fmt.Errorf("invalid logging format: %s (valid: json, text)", c.Logging.Format)
	}

	if err := c.Defaults.Parameters().Validate(); err != nil {
		return fmt.Errorf("invalid defaults: %w", err)
	}

	if c.Server.ListenAddr == "" {
		return fmt.Errorf("server.listen_addr must not be empty")
	}

	if c.Server.RequestTimeoutD <= 0 {
		return fmt.Errorf("server.request_timeout must be positive, got %s", c.Server.RequestTimeout)
	}

	return nil
}

// LoadEnvFile loads KEY=VALUE pairs from path into the process environment.
// Variables already set are left alone and a missing file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

func ApplyEnvOverrides(cfg *Config) {
	if v := os.Getenv(EnvPrefix + "OUTPUT"); v != "" {
		cfg.General.Output = v
	}
	if v := os.Getenv(EnvPrefix + "LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv(EnvPrefix + "LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv(EnvPrefix + "CATALOG_DIR"); v != "" {
		cfg.Catalog.ExtraDir = v
	}
	if v := os.Getenv(EnvPrefix + "LISTEN_ADDR"); v != "" {
		cfg.Server.ListenAddr = v
	}
	if v := os.Getenv(EnvPrefix + "ENABLE_CORS"); v != "" {
		cfg.Server.EnableCORS = strings.ToLower(v) == "true" || v == "1"
	}
	if v := os.Getenv(EnvPrefix + "CORS_ORIGINS"); v != "" {
		cfg.Server.CORSOrigins = splitList(v)
	}
	if v := os.Getenv(EnvPrefix + "REQUEST_TIMEOUT"); v != "" {
		cfg.Server.RequestTimeout = v
	}
	if v := os.Getenv(EnvPrefix + "MODEL_PATH"); v != "" {
		cfg.Defaults.ModelPath = v
	}
	if v := os.Getenv(EnvPrefix + "PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Defaults.Port = n
		}
	}
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func expandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}

	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("get user home directory: %w", err)
		}
		return filepath.Join(homeDir, path[2:]), nil
	}

	return path, nil
}

func Load(configPath string) (*Config, error) {
	var cfg *Config
	var err error

	if configPath != "" {
		cfg, err = LoadFromFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("load config from %s: %w", configPath, err)
		}
	} else {
		cfg = Default()
	}

	envFile := cfg.General.EnvFile
	if v := os.Getenv(EnvPrefix + "ENV_FILE"); v != "" {
		envFile = v
	}
	if err := LoadEnvFile(envFile); err != nil {
		return nil, err
	}

	ApplyEnvOverrides(cfg)

	if err := cfg.postProcess(); err != nil {
		return nil, fmt.Errorf("post process config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}
