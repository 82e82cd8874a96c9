package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"attendcli/pkg/contracts/domain"
)

// Config represents the complete application configuration
type Config struct {
	Server     ServerConfig     `yaml:"server" envconfig:"SERVER"`
	Security   SecurityConfig   `yaml:"security" envconfig:"SECURITY"`
	Logging    LoggingConfig    `yaml:"logging" envconfig:"LOGGING"`
	Paths      PathsConfig      `yaml:"paths" envconfig:"PATHS"`
	Processing ProcessingConfig `yaml:"processing" envconfig:"PROCESSING"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT"`
	MaxUploadBytes  int64         `yaml:"max_upload_bytes" envconfig:"MAX_UPLOAD_BYTES"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	AllowedOrigins []string        `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS"`
	EnableCORS     bool            `yaml:"enable_cors" envconfig:"ENABLE_CORS"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED"`
	RPS     float64 `yaml:"rps" envconfig:"RPS"`
	Burst   int     `yaml:"burst" envconfig:"BURST"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL"`
	Format   string `yaml:"format" envconfig:"FORMAT"`
	Output   string `yaml:"output" envconfig:"OUTPUT"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	DataDir    string `yaml:"data_dir" envconfig:"DATA_DIR"`
	UploadsDir string `yaml:"uploads_dir" envconfig:"UPLOADS_DIR"`
	ReportsDir string `yaml:"reports_dir" envconfig:"REPORTS_DIR"`
	LogsDir    string `yaml:"logs_dir" envconfig:"LOGS_DIR"`
}

// ProcessingConfig carries the attendance calculation parameters. The
// per-employee start times and the default fall-back form the effective
// EmployeeConfig for a pipeline run.
type ProcessingConfig struct {
	DefaultStartHour   int                         `yaml:"default_start_hour" envconfig:"DEFAULT_START_HOUR"`
	DefaultStartMinute int                         `yaml:"default_start_minute" envconfig:"DEFAULT_START_MINUTE"`
	BreakMinInterval   int                         `yaml:"break_min_interval" envconfig:"BREAK_MIN_INTERVAL"`
	BreakMaxInterval   int                         `yaml:"break_max_interval" envconfig:"BREAK_MAX_INTERVAL"`
	StandardHours      float64                     `yaml:"standard_hours" envconfig:"STANDARD_HOURS"`
	Employees          map[string]domain.StartTime `yaml:"employees"`
}

// Default returns the configuration used when neither the YAML file nor the
// environment overrides a value.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			MaxUploadBytes:  16 << 20,
			ShutdownTimeout: 30 * time.Second,
		},
		Security: SecurityConfig{
			AllowedOrigins: []string{"http://localhost:8080"},
			EnableCORS:     true,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     20,
				Burst:   10,
			},
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/app.log",
		},
		Paths: PathsConfig{
			DataDir:    DefaultDataDir,
			UploadsDir: DefaultUploadsDir,
			ReportsDir: DefaultReportsDir,
			LogsDir:    DefaultLogsDir,
		},
		Processing: ProcessingConfig{
			DefaultStartHour:   DefaultStartHour,
			DefaultStartMinute: DefaultStartMinute,
			BreakMinInterval:   DefaultBreakMinGap,
			BreakMaxInterval:   DefaultBreakMaxGap,
			StandardHours:      DefaultStandardHours,
		},
	}
}

// EmployeeConfig converts the processing parameters into the read-only
// mapping the pipeline consumes.
func (p ProcessingConfig) EmployeeConfig() domain.EmployeeConfig {
	cfg := domain.EmployeeConfig{
		Default: domain.StartTime{Hour: p.DefaultStartHour, Minute: p.DefaultStartMinute},
	}
	if len(p.Employees) > 0 {
		cfg.Overrides = make(map[string]domain.StartTime, len(p.Employees))
		for id, st := range p.Employees {
			cfg.Overrides[id] = st
		}
	}
	return cfg
}

// Load loads configuration from environment variables and config file
func Load() (*Config, error) {
	return LoadFrom(getConfigFilePath())
}

// LoadFrom loads configuration from the given YAML file, then applies
// environment overrides on top.
func LoadFrom(configFile string) (*Config, error) {
	cfg := Default()

	// File first so env vars keep precedence
	if configFile != "" {
		if _, err := os.Stat(configFile); err == nil {
			data, err := os.ReadFile(configFile)
			if err != nil {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	if err := envconfig.Process("ATTEND", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// getConfigFilePath returns the config file location, honoring the
// ATTEND_CONFIG_FILE override.
func getConfigFilePath() string {
	if path := os.Getenv("ATTEND_CONFIG_FILE"); path != "" {
		return path
	}
	return DefaultConfigFile
}

// validate checks configuration invariants
func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Processing.DefaultStartHour < 0 || c.Processing.DefaultStartHour > 23 {
		return fmt.Errorf("invalid default start hour: %d", c.Processing.DefaultStartHour)
	}
	if c.Processing.DefaultStartMinute < 0 || c.Processing.DefaultStartMinute > 59 {
		return fmt.Errorf("invalid default start minute: %d", c.Processing.DefaultStartMinute)
	}
	if c.Processing.BreakMinInterval < 1 {
		return fmt.Errorf("invalid break min interval: %d", c.Processing.BreakMinInterval)
	}
	if c.Processing.BreakMaxInterval < c.Processing.BreakMinInterval {
		return fmt.Errorf("break max interval %d below min interval %d",
			c.Processing.BreakMaxInterval, c.Processing.BreakMinInterval)
	}
	if c.Processing.StandardHours <= 0 {
		return fmt.Errorf("invalid standard hours: %v", c.Processing.StandardHours)
	}
	for id, st := range c.Processing.Employees {
		if st.Hour < 0 || st.Hour > 23 || st.Minute < 0 || st.Minute > 59 {
			return fmt.Errorf("invalid start time for employee %s: %02d:%02d", id, st.Hour, st.Minute)
		}
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}
	return nil
}
