package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"studyMate/internal/models/settings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const DefaultPath = "config.yml"

type Config struct {
	Server  ServerConfig     `yaml:"server"`
	Logging LoggingConfig    `yaml:"logging"`
	AI      AIConfig         `yaml:"ai"`
	Focus   FocusConfig      `yaml:"focus"`
	Worker  WorkerConfig     `yaml:"worker"`
	Profile settings.Profile `yaml:"profile"`
}

type ServerConfig struct {
	Port            string        `yaml:"port"`
	Host            string        `yaml:"host"`
	RequestTimeout  time.Duration `yaml:"request_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	CORSOrigins     []string      `yaml:"cors_origins"`
	RateLimitRPM    int           `yaml:"rate_limit_rpm"`
}

type LoggingConfig struct {
	Development bool `yaml:"development"`
}

type AIConfig struct {
	BaseURL    string        `yaml:"base_url"`
	Model      string        `yaml:"model"`
	APIKey     string        `yaml:"api_key"`
	UseKeyring bool          `yaml:"use_keyring"`
	Timeout    time.Duration `yaml:"timeout"` // 0 - без таймаута
}

type FocusConfig struct {
	TickInterval     time.Duration `yaml:"tick_interval"`
	DailyGoalMinutes int           `yaml:"daily_goal_minutes"`
}

type WorkerConfig struct {
	OverdueInterval time.Duration `yaml:"overdue_interval"`
}

// SecretGetter - источник ключа, если его нет ни в файле, ни в окружении
type SecretGetter interface {
	Get(key string) (string, error)
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "8080",
			Host:            "",
			RequestTimeout:  30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			CORSOrigins:     []string{"*"},
			RateLimitRPM:    100,
		},
		AI: AIConfig{
			BaseURL: "https://generativelanguage.googleapis.com/v1beta",
			Model:   "gemini-pro",
		},
		Focus: FocusConfig{
			TickInterval:     time.Second,
			DailyGoalMinutes: 240,
		},
		Worker: WorkerConfig{
			OverdueInterval: 5 * time.Minute,
		},
		Profile: settings.Profile{
			Name:  "Student",
			Email: "demo@mate-x.ai",
		},
	}
}

// Load читает конфиг поверх значений по умолчанию. Пустой path означает
// config.yml, и его отсутствие не ошибка. Затем применяются .env и окружение.
func Load(path string, secrets SecretGetter, secretKey string) (*Config, error) {
	cfg := Default()

	required := path != ""
	if !required {
		path = DefaultPath
	}

	if err := cfg.readFile(path); err != nil {
		if required || !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("ошибка чтения .env: %w", err)
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	if cfg.AI.APIKey == "" && cfg.AI.UseKeyring && secrets != nil {
		if key, err := secrets.Get(secretKey); err == nil {
			cfg.AI.APIKey = key
		}
	}

	cfg.fillDefaults()
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("не могу открыть %s: %w", path, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(c); err != nil {
		return fmt.Errorf("ошибка парсинга %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("GEMINI_API_KEY"); ok && v != "" {
		c.AI.APIKey = v
	}
	if v, ok := lookup("STUDYMATE_PORT"); ok && v != "" {
		c.Server.Port = v
	}
	if v, ok := lookup("STUDYMATE_DEV"); ok && v != "" {
		dev, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("STUDYMATE_DEV=%q: %w", v, err)
		}
		c.Logging.Development = dev
	}
	return nil
}

// fillDefaults чинит нулевые значения, оставленные пустыми секциями файла
func (c *Config) fillDefaults() {
	def := Default()
	if c.Server.Port == "" {
		c.Server.Port = def.Server.Port
	}
	if c.Server.ShutdownTimeout <= 0 {
		c.Server.ShutdownTimeout = def.Server.ShutdownTimeout
	}
	if c.Server.RateLimitRPM <= 0 {
		c.Server.RateLimitRPM = def.Server.RateLimitRPM
	}
	if c.Focus.TickInterval <= 0 {
		c.Focus.TickInterval = def.Focus.TickInterval
	}
	if c.Focus.DailyGoalMinutes <= 0 {
		c.Focus.DailyGoalMinutes = def.Focus.DailyGoalMinutes
	}
	if c.Worker.OverdueInterval <= 0 {
		c.Worker.OverdueInterval = def.Worker.OverdueInterval
	}
	if c.AI.BaseURL == "" {
		c.AI.BaseURL = def.AI.BaseURL
	}
	if c.AI.Model == "" {
		c.AI.Model = def.AI.Model
	}
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}
