package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port           int      `yaml:"port"`
		AllowedOrigins []string `yaml:"allowedOrigins"`
	} `yaml:"server"`

	Database struct {
		// Driver "mysql" atau "postgres"; kosong berarti history dimatikan
		Driver   string `yaml:"driver"`
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Name     string `yaml:"name"`
	} `yaml:"database"`

	Minio struct {
		Enabled    bool   `yaml:"enabled"`
		Endpoint   string `yaml:"endpoint"`
		AccessKey  string `yaml:"accessKey"`
		SecretKey  string `yaml:"secretKey"`
		BucketName string `yaml:"bucketName"`
		Region     string `yaml:"region"`
		UseSSL     bool   `yaml:"useSSL"`
	} `yaml:"minio"`

	Groq struct {
		APIKey      string  `yaml:"apiKey"`
		BaseURL     string  `yaml:"baseURL"`
		Model       string  `yaml:"model"`
		MaxTokens   int     `yaml:"maxTokens"`
		Temperature float32 `yaml:"temperature"`
	} `yaml:"groq"`

	Classifier struct {
		Endpoint       string `yaml:"endpoint"`
		TimeoutSeconds int    `yaml:"timeoutSeconds"`
	} `yaml:"classifier"`

	Extract struct {
		Pdftotext string `yaml:"pdftotext"`
		Pdftoppm  string `yaml:"pdftoppm"`
		Tesseract string `yaml:"tesseract"`
		Lang      string `yaml:"lang"`
		DPI       int    `yaml:"dpi"`
		MaxPages  int    `yaml:"maxPages"`
	} `yaml:"extract"`

	Analysis struct {
		SalienceBudget  int  `yaml:"salienceBudget"`
		AlwaysBackupOCR bool `yaml:"alwaysBackupOcr"`
	} `yaml:"analysis"`

	Limits struct {
		// MaxFileSize dalam byte, 0 berarti pakai default
		MaxFileSize    int64 `yaml:"maxFileSize"`
		RateCapacity   int   `yaml:"rateCapacity"`
		RateRefillRate int   `yaml:"rateRefillRate"`
	} `yaml:"limits"`

	// Auth opsional: nama klien → API key. Kosong berarti endpoint terbuka.
	Auth struct {
		APIKeys map[string]string `yaml:"apiKeys"`
	} `yaml:"auth"`
}

// Load baca file config.yaml
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	// secret dari env menimpa file config
	if v := os.Getenv("GROQ_API_KEY"); v != "" {
		cfg.Groq.APIKey = v
	}
	if v := os.Getenv("CLASSIFIER_ENDPOINT"); v != "" {
		cfg.Classifier.Endpoint = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	return &cfg, nil
}

// Helper untuk build DSN MySQL
func (c *Config) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
	)
}

// Helper untuk build DSN Postgres
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
	)
}
