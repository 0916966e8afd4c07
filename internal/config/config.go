package config

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Upload storage backends
const (
	UploadStorageNone  = "none"
	UploadStorageLocal = "local"
	UploadStorageAzure = "azure"
)

type Config struct {
	Host               string
	Port               string
	RequestTimeout     time.Duration
	AnalysisTimeout    time.Duration
	MaxRequestBodySize int64
	LogLevel           string
	AllowedURLHosts    []string

	DocIntel DocIntelConfig
	Upload   UploadConfig
}

// DocIntelConfig holds the document analysis service settings
type DocIntelConfig struct {
	Endpoint     string
	Key          string
	APIVersion   string
	PollInterval time.Duration
	AWBModel     string
	FinanceModel string
}

// UploadConfig selects where uploaded originals are kept
type UploadConfig struct {
	Storage        string
	Dir            string
	AzureAccount   string
	AzureKey       string
	AzureContainer string
}

func (c *Config) ServerAddress() string {
	host := strings.TrimSpace(c.Host)
	port := strings.TrimSpace(c.Port)
	return net.JoinHostPort(host, port)
}

// Load reads configuration from the environment and, when CONFIG_FILE is
// set, from that file. Environment values win over the file.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if file := strings.TrimSpace(v.GetString("CONFIG_FILE")); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", file, err)
		}
	}

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("HOST", "0.0.0.0")
	v.SetDefault("PORT", "8000")
	v.SetDefault("REQUEST_TIMEOUT", "2m")
	v.SetDefault("ANALYSIS_TIMEOUT", "90s")
	v.SetDefault("MAX_REQUEST_BODY_SIZE", 20*1024*1024) // 20MB
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("ALLOWED_URL_HOSTS", "")

	v.SetDefault("DOCINTEL_ENDPOINT", "")
	v.SetDefault("DOCINTEL_KEY", "")
	v.SetDefault("DOCINTEL_API_VERSION", "2023-07-31")
	v.SetDefault("DOCINTEL_POLL_INTERVAL", "1s")
	v.SetDefault("DOCINTEL_AWB_MODEL", "")
	v.SetDefault("DOCINTEL_FINANCE_MODEL", "")

	v.SetDefault("UPLOAD_STORAGE", UploadStorageLocal)
	v.SetDefault("UPLOAD_DIR", "uploads")
	v.SetDefault("AZURE_STORAGE_ACCOUNT", "")
	v.SetDefault("AZURE_STORAGE_KEY", "")
	v.SetDefault("AZURE_STORAGE_CONTAINER", "uploads")
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Host:               strings.TrimSpace(v.GetString("HOST")),
		Port:               strings.TrimSpace(v.GetString("PORT")),
		RequestTimeout:     v.GetDuration("REQUEST_TIMEOUT"),
		AnalysisTimeout:    v.GetDuration("ANALYSIS_TIMEOUT"),
		MaxRequestBodySize: v.GetInt64("MAX_REQUEST_BODY_SIZE"),
		LogLevel:           v.GetString("LOG_LEVEL"),
		AllowedURLHosts:    splitAndTrim(v.GetString("ALLOWED_URL_HOSTS")),
		DocIntel: DocIntelConfig{
			Endpoint:     strings.TrimRight(strings.TrimSpace(v.GetString("DOCINTEL_ENDPOINT")), "/"),
			Key:          strings.TrimSpace(v.GetString("DOCINTEL_KEY")),
			APIVersion:   strings.TrimSpace(v.GetString("DOCINTEL_API_VERSION")),
			PollInterval: v.GetDuration("DOCINTEL_POLL_INTERVAL"),
			AWBModel:     strings.TrimSpace(v.GetString("DOCINTEL_AWB_MODEL")),
			FinanceModel: strings.TrimSpace(v.GetString("DOCINTEL_FINANCE_MODEL")),
		},
		Upload: UploadConfig{
			Storage:        strings.ToLower(strings.TrimSpace(v.GetString("UPLOAD_STORAGE"))),
			Dir:            strings.TrimSpace(v.GetString("UPLOAD_DIR")),
			AzureAccount:   strings.TrimSpace(v.GetString("AZURE_STORAGE_ACCOUNT")),
			AzureKey:       strings.TrimSpace(v.GetString("AZURE_STORAGE_KEY")),
			AzureContainer: strings.TrimSpace(v.GetString("AZURE_STORAGE_CONTAINER")),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks ranges and required settings
func (c *Config) Validate() error {
	p, err := strconv.Atoi(c.Port)
	if err != nil || p < 1 || p > 65535 {
		return fmt.Errorf("invalid PORT: %q", c.Port)
	}
	if c.MaxRequestBodySize <= 0 {
		return fmt.Errorf("MAX_REQUEST_BODY_SIZE must be > 0 (got %d)", c.MaxRequestBodySize)
	}
	if c.RequestTimeout <= 0 || c.AnalysisTimeout <= 0 || c.DocIntel.PollInterval <= 0 {
		return fmt.Errorf("timeouts must be > 0 (got request=%s, analysis=%s, poll=%s)",
			c.RequestTimeout, c.AnalysisTimeout, c.DocIntel.PollInterval)
	}
	if c.DocIntel.Endpoint == "" || c.DocIntel.Key == "" {
		return fmt.Errorf("DOCINTEL_ENDPOINT and DOCINTEL_KEY are required")
	}
	if c.DocIntel.APIVersion == "" {
		return fmt.Errorf("DOCINTEL_API_VERSION must not be empty")
	}

	switch c.Upload.Storage {
	case UploadStorageNone:
	case UploadStorageLocal:
		if c.Upload.Dir == "" {
			return fmt.Errorf("UPLOAD_DIR is required for local upload storage")
		}
	case UploadStorageAzure:
		if c.Upload.AzureAccount == "" || c.Upload.AzureKey == "" || c.Upload.AzureContainer == "" {
			return fmt.Errorf("AZURE_STORAGE_ACCOUNT, AZURE_STORAGE_KEY and AZURE_STORAGE_CONTAINER are required for azure upload storage")
		}
	default:
		return fmt.Errorf("invalid UPLOAD_STORAGE: %q", c.Upload.Storage)
	}
	return nil
}

func splitAndTrim(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
