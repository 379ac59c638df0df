package common

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"

	ProviderGemini  = "gemini"
	ProviderOpenAI  = "openai"
	ProviderHunyuan = "hunyuan"
	ProviderMock    = "mock"
)

// Config is built once at startup and handed to the store and the LLM client.
type Config struct {
	Port     int    `mapstructure:"port"`
	GinMode  string `mapstructure:"gin_mode"`
	LogLevel string `mapstructure:"log_level"`

	DB  DBConfig  `mapstructure:",squash"`
	LLM LLMConfig `mapstructure:",squash"`
}

type DBConfig struct {
	Driver   string        `mapstructure:"db_driver"`
	Host     string        `mapstructure:"db_host"`
	Port     int           `mapstructure:"db_port"`
	User     string        `mapstructure:"db_user"`
	Password string        `mapstructure:"db_password"`
	Name     string        `mapstructure:"db_name"`
	MaxIdle  int           `mapstructure:"db_max_idle"`
	MaxOpen  int           `mapstructure:"db_max_open"`
	MaxLife  time.Duration `mapstructure:"db_max_life"`
	// MySQLDSN overrides the host fields when set.
	MySQLDSN string `mapstructure:"mysql_dsn"`
}

type LLMConfig struct {
	Provider         string        `mapstructure:"llm_provider"`
	Model            string        `mapstructure:"llm_model"`
	Temperature      float64       `mapstructure:"llm_temperature"`
	BaseURL          string        `mapstructure:"llm_base_url"`
	MaxAttempts      int           `mapstructure:"llm_max_attempts"`
	BackoffUnit      time.Duration `mapstructure:"llm_backoff_unit"`
	GeminiAPIKey     string        `mapstructure:"gemini_api_key"`
	OpenAIAPIKey     string        `mapstructure:"openai_api_key"`
	TencentSecretID  string        `mapstructure:"tencentcloud_secretid"`
	TencentSecretKey string        `mapstructure:"tencentcloud_secretkey"`
}

var defaults = map[string]any{
	"port":      8080,
	"gin_mode":  "release",
	"log_level": "info",

	"db_driver":   DriverMySQL,
	"db_host":     "localhost",
	"db_port":     3306,
	"db_user":     "root",
	"db_password": "",
	"db_name":     "apisagro",
	"db_max_idle": 5,
	"db_max_open": 20,
	"db_max_life": time.Hour,
	"mysql_dsn":   "",

	"llm_provider":           ProviderGemini,
	"llm_model":              "",
	"llm_temperature":        0.7,
	"llm_base_url":           "",
	"llm_max_attempts":       3,
	"llm_backoff_unit":       time.Second,
	"gemini_api_key":         "",
	"openai_api_key":         "",
	"tencentcloud_secretid":  "",
	"tencentcloud_secretkey": "",
}

// LoadConfig reads an optional dotenv file and the environment. An empty
// envFile skips the file.
func LoadConfig(envFile string) (*Config, error) {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.AutomaticEnv()

	if envFile != "" {
		v.SetConfigFile(envFile)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, os.ErrNotExist) {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read %s: %w", envFile, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.DB.Driver = strings.ToLower(strings.TrimSpace(cfg.DB.Driver))
	cfg.LLM.Provider = strings.ToLower(strings.TrimSpace(cfg.LLM.Provider))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.GinMode {
	case "", "debug", "release", "test":
	default:
		return fmt.Errorf("unsupported GIN_MODE %q", c.GinMode)
	}

	switch c.DB.Driver {
	case DriverMySQL, DriverPostgres, DriverMemory:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DB.Driver)
	}

	switch c.LLM.Provider {
	case ProviderGemini:
		if c.LLM.GeminiAPIKey == "" {
			return errors.New("GEMINI_API_KEY is required for the gemini provider")
		}
	case ProviderOpenAI:
		if c.LLM.OpenAIAPIKey == "" {
			return errors.New("OPENAI_API_KEY is required for the openai provider")
		}
	case ProviderHunyuan:
		if c.LLM.TencentSecretID == "" || c.LLM.TencentSecretKey == "" {
			return errors.New("TENCENTCLOUD_SECRETID and TENCENTCLOUD_SECRETKEY are required for the hunyuan provider")
		}
	case ProviderMock:
	default:
		return fmt.Errorf("unsupported LLM_PROVIDER %q", c.LLM.Provider)
	}

	if c.LLM.MaxAttempts < 1 {
		return fmt.Errorf("LLM_MAX_ATTEMPTS must be at least 1, got %d", c.LLM.MaxAttempts)
	}
	if c.LLM.BackoffUnit < 0 {
		return fmt.Errorf("LLM_BACKOFF_UNIT must not be negative")
	}
	return nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Print 打印脱敏后的配置
func (c *Config) Print() {
	WithFields("db_driver", c.DB.Driver, "db_host", c.DB.Host, "db_name", c.DB.Name,
		"llm_provider", c.LLM.Provider, "llm_model", c.LLM.Model, "port", c.Port).
		Info("configuration loaded")
}
