package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config holds all application configuration
type Config struct {
	Store  StoreConfig  `toml:"store"`
	Server ServerConfig `toml:"server"`
	OCR    OCRConfig    `toml:"ocr"`
	LLM    LLMConfig    `toml:"llm"`
	Review ReviewConfig `toml:"review"`
}

// StoreConfig selects and tunes the review-run store.
type StoreConfig struct {
	Driver           string        `toml:"driver"` // sqlite | postgres
	DSN              string        `toml:"dsn"`
	MaxConns         int32         `toml:"max_conns"`
	MinConns         int32         `toml:"min_conns"`
	MaxConnLifetime  time.Duration `toml:"-"`
	MaxConnIdleTime  time.Duration `toml:"-"`
	DialTimeout      time.Duration `toml:"-"`
	StatementTimeout time.Duration `toml:"-"`
}

// ServerConfig holds daemon configuration
type ServerConfig struct {
	GRPCAddr   string        `toml:"grpc_addr"`
	Workers    int           `toml:"workers"`
	QueueSize  int           `toml:"queue_size"`
	JobTimeout time.Duration `toml:"-"`
}

// OCRConfig holds rendering, recognition and necessity-heuristic settings
type OCRConfig struct {
	Engine            string  `toml:"engine"` // cli | gosseract | http
	Pdftoppm          string  `toml:"pdftoppm"`
	Tesseract         string  `toml:"tesseract"`
	Lang              string  `toml:"lang"`
	TessdataDir       string  `toml:"tessdata_dir"`
	PSM               int     `toml:"psm"`
	HTTPEndpoint      string  `toml:"http_endpoint"`
	HTTPToken         string  `toml:"-"`
	HTTPRate          float64 `toml:"http_rate"`
	WorkingDPI        int     `toml:"working_dpi"`
	DensityDPI        int     `toml:"density_dpi"`
	Concurrency       int     `toml:"concurrency"`
	MinCharsPerPage   int     `toml:"min_chars_per_page"`
	SingleCharRatio   float64 `toml:"single_char_ratio"`
	PlaceholderRatio  float64 `toml:"placeholder_ratio"`
	DarkLumaThreshold int     `toml:"dark_luma_threshold"`
}

// LLMConfig holds opinion-prose client configuration
type LLMConfig struct {
	Model       string        `toml:"model"`
	BaseURL     string        `toml:"base_url"`
	APIKey      string        `toml:"-"`
	Temperature float32       `toml:"temperature"`
	Rate        float64       `toml:"rate"`
	Timeout     time.Duration `toml:"-"`
}

// ReviewConfig holds per-request defaults
type ReviewConfig struct {
	OCRMode        string `toml:"ocr_mode"`
	Strategy       string `toml:"strategy"`
	Budget         int    `toml:"budget"` // 0 or less OCRs every page
	DetectLanguage bool   `toml:"detect_language"`
}

// LoadConfig loads configuration from environment variables, then applies
// the TOML file named by DOCREVIEW_CONFIG when set.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Store: StoreConfig{
			Driver:           getEnv("STORE_DRIVER", "sqlite"),
			DSN:              getEnv("DB_URL", "file:docreview.db"),
			MaxConns:         getEnvAsInt32("DB_MAX_CONNS", 10),
			MinConns:         getEnvAsInt32("DB_MIN_CONNS", 1),
			MaxConnLifetime:  getEnvAsDuration("DB_MAX_CONN_LIFETIME", 30*time.Minute),
			MaxConnIdleTime:  getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 5*time.Minute),
			DialTimeout:      getEnvAsDuration("DB_DIAL_TIMEOUT", 3*time.Second),
			StatementTimeout: getEnvAsDuration("DB_STATEMENT_TIMEOUT", 0),
		},
		Server: ServerConfig{
			GRPCAddr:   getEnv("GRPC_ADDR", ":8080"),
			Workers:    getEnvAsInt("REVIEW_WORKERS", 2),
			QueueSize:  getEnvAsInt("REVIEW_QUEUE_SIZE", 64),
			JobTimeout: getEnvAsDuration("REVIEW_JOB_TIMEOUT", 5*time.Minute),
		},
		OCR: OCRConfig{
			Engine:            getEnv("OCR_ENGINE", "cli"),
			Pdftoppm:          getEnv("PDFTOPPM", "pdftoppm"),
			Tesseract:         getEnv("TESSERACT", "tesseract"),
			Lang:              getEnv("OCR_LANG", "kor+eng"),
			TessdataDir:       getEnv("TESSDATA_PREFIX", ""),
			PSM:               getEnvAsInt("OCR_PSM", 0),
			HTTPEndpoint:      getEnv("OCR_HTTP_ENDPOINT", ""),
			HTTPToken:         getEnv("OCR_HTTP_TOKEN", ""),
			HTTPRate:          getEnvAsFloat("OCR_HTTP_RATE", 0),
			WorkingDPI:        getEnvAsInt("OCR_DPI", 200),
			DensityDPI:        getEnvAsInt("OCR_DENSITY_DPI", 36),
			Concurrency:       getEnvAsInt("OCR_CONCURRENCY", 1),
			MinCharsPerPage:   getEnvAsInt("OCR_MIN_CHARS_PER_PAGE", 200),
			SingleCharRatio:   getEnvAsFloat("OCR_SINGLE_CHAR_RATIO", 0.35),
			PlaceholderRatio:  getEnvAsFloat("OCR_PLACEHOLDER_RATIO", 0.02),
			DarkLumaThreshold: getEnvAsInt("OCR_DARK_LUMA_THRESHOLD", 540),
		},
		LLM: LLMConfig{
			Model:       getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			BaseURL:     getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			APIKey:      getEnv("OPENAI_API_KEY", ""),
			Temperature: float32(getEnvAsFloat("OPENAI_TEMPERATURE", 0.2)),
			Rate:        getEnvAsFloat("OPENAI_RATE", 1),
			Timeout:     getEnvAsDuration("OPENAI_TIMEOUT", 45*time.Second),
		},
		Review: ReviewConfig{
			OCRMode:        getEnv("REVIEW_OCR_MODE", "auto"),
			Strategy:       getEnv("REVIEW_STRATEGY", "front_back"),
			Budget:         getEnvAsInt("REVIEW_BUDGET", 8),
			DetectLanguage: getEnvAsBool("REVIEW_DETECT_LANGUAGE", false),
		},
	}
	if path := getEnv("DOCREVIEW_CONFIG", ""); path != "" {
		if err := cfg.ApplyFile(path); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// ApplyFile overlays values present in a TOML file; absent keys keep their value.
func (c *Config) ApplyFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(b, c); err != nil {
		return NewAppError("CONFIG_ERROR", "parse "+path, err)
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt32(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intVal)
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate checks the settings the daemon cannot run without.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case "sqlite", "postgres":
	default:
		return NewAppError("CONFIG_ERROR", fmt.Sprintf("STORE_DRIVER must be sqlite or postgres, got %q", c.Store.Driver), ErrInvalidInput)
	}
	if c.Store.DSN == "" {
		return NewAppError("CONFIG_ERROR", "DB_URL is required", ErrInvalidInput)
	}
	if c.Store.Driver == "postgres" && !strings.HasPrefix(c.Store.DSN, "postgres") {
		return NewAppError("CONFIG_ERROR", "DB_URL must be a postgres:// URL for the postgres driver", ErrInvalidInput)
	}
	if c.Server.GRPCAddr == "" {
		return NewAppError("CONFIG_ERROR", "GRPC_ADDR is required", ErrInvalidInput)
	}
	if c.Server.Workers <= 0 {
		return NewAppError("CONFIG_ERROR", "REVIEW_WORKERS must be positive", ErrInvalidInput)
	}
	return NewValidator().
		Field("OCR_CONCURRENCY", c.OCR.Concurrency, NonNegative).
		Field("OCR_PSM", c.OCR.PSM, NonNegative).
		Error()
}
