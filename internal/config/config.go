package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const DefaultSampleRows = 2

// AutoDelimiter is the delimiter value that asks for the separator to be
// sniffed from the header line.
const AutoDelimiter = "auto"

type Config struct {
	Sources    []SourceConfig `yaml:"sources"`
	SampleRows int            `yaml:"sampleRows"`
	HTTP       HTTPConfig     `yaml:"http"`
	S3         S3Config       `yaml:"s3"`
	Store      StoreConfig    `yaml:"store"`
	Kafka      KafkaConfig    `yaml:"kafka"`
}

type SourceConfig struct {
	Label     string `yaml:"label"`
	URL       string `yaml:"url"`
	Encoding  string `yaml:"encoding"`
	Delimiter string `yaml:"delimiter"`
}

type HTTPConfig struct {
	// Timeout of zero leaves the client without a deadline.
	Timeout Duration `yaml:"timeout"`
}

type S3Config struct {
	Endpoint  string `yaml:"endpoint"`
	Region    string `yaml:"region"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	UseSSL    bool   `yaml:"useSSL"`
}

// Enabled reports whether enough is set to build an S3 client.
func (c S3Config) Enabled() bool {
	return c.Endpoint != "" && c.AccessKey != "" && c.SecretKey != ""
}

type StoreConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
	Table  string `yaml:"table"`
}

type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

// Duration accepts Go duration strings ("30s", "2m") in YAML.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	if strings.TrimSpace(s) == "" {
		*d = 0
		return nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(v)
	return nil
}

// Default returns the built-in batch: the four vehicle detail exports.
func Default() *Config {
	return &Config{
		Sources: []SourceConfig{
			{Label: "main_details", URL: "https://hebbkx1anhila5yf.public.blob.vercel-storage.com/viaturasDetalhes_export_2025-09-16_155301-PR0LRCgL95J8B4Wa1XsRzebpRNu5tl.csv"},
			{Label: "oils_filters", URL: "https://hebbkx1anhila5yf.public.blob.vercel-storage.com/ViaturasDetalhesOilsFilters_export_2025-09-16_155233-fPLfQBBLctqs6DNHyAYGFIVz7oRcri.csv"},
			{Label: "tires", URL: "https://hebbkx1anhila5yf.public.blob.vercel-storage.com/ViaturasDetalhesPneus_export_2025-09-16_155239-LRBeuDIA1xXf3yjZcrGF9zJ8MHI0W1.csv"},
			{Label: "engine", URL: "https://hebbkx1anhila5yf.public.blob.vercel-storage.com/ViaturasDetalhesMotor_export_2025-09-16_155215-MehyweNVTA9n5r2q3FZ3htzqUKZO4X.csv"},
		},
		SampleRows: DefaultSampleRows,
		Store:      StoreConfig{Table: "csv_summaries"},
	}
}

// LoadConfig reads a YAML file on top of Default. Sources listed in the
// file replace the built-in batch entirely.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is required")
	}

	_, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("config file not found: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()
	defaults := cfg.Sources
	cfg.Sources = nil
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if len(cfg.Sources) == 0 {
		cfg.Sources = defaults
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv loads .env (if present) and lets the environment override
// credentials and endpoints that should not live in the YAML file.
func ApplyEnv(cfg *Config) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	if v := strings.TrimSpace(os.Getenv("CSVWATCH_S3_ENDPOINT")); v != "" {
		cfg.S3.Endpoint = v
	}
	if v := strings.TrimSpace(os.Getenv("CSVWATCH_S3_ACCESS_KEY")); v != "" {
		cfg.S3.AccessKey = v
	}
	if v := strings.TrimSpace(os.Getenv("CSVWATCH_S3_SECRET_KEY")); v != "" {
		cfg.S3.SecretKey = v
	}
	if v := strings.TrimSpace(os.Getenv("CSVWATCH_STORE_DSN")); v != "" {
		cfg.Store.DSN = v
	}
	if v := strings.TrimSpace(os.Getenv("CSVWATCH_KAFKA_BROKERS")); v != "" {
		cfg.Kafka.Brokers = nil
		for _, b := range strings.Split(v, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.Kafka.Brokers = append(cfg.Kafka.Brokers, b)
			}
		}
	}
	return nil
}

func (c *Config) Validate() error {
	if len(c.Sources) == 0 {
		return errors.New("at least one source is required")
	}
	seen := map[string]bool{}
	for _, src := range c.Sources {
		if strings.TrimSpace(src.Label) == "" {
			return errors.New("source.label is required")
		}
		if strings.TrimSpace(src.URL) == "" {
			return fmt.Errorf("source %s must define url", src.Label)
		}
		if seen[src.Label] {
			return fmt.Errorf("duplicate source label: %s", src.Label)
		}
		seen[src.Label] = true
		if err := validateDelimiter(src.Delimiter); err != nil {
			return fmt.Errorf("source %s: %w", src.Label, err)
		}
	}
	if c.SampleRows < 0 {
		return errors.New("sampleRows must not be negative")
	}
	if c.HTTP.Timeout < 0 {
		return errors.New("http.timeout must not be negative")
	}
	if c.Store.DSN != "" {
		switch c.Store.Driver {
		case "mysql", "pgx":
		default:
			return fmt.Errorf("store.driver must be mysql or pgx, got %q", c.Store.Driver)
		}
		if c.Store.Table == "" {
			return errors.New("store.table is required")
		}
	}
	if len(c.Kafka.Brokers) > 0 && c.Kafka.Topic == "" {
		return errors.New("kafka.topic is required when brokers are set")
	}
	return nil
}

// validateDelimiter accepts "", "auto", or one rune that encoding/csv can
// split on.
func validateDelimiter(d string) error {
	if d == "" || d == AutoDelimiter {
		return nil
	}
	if utf8.RuneCountInString(d) != 1 {
		return errors.New("delimiter must be a single character or auto")
	}
	r, _ := utf8.DecodeRuneInString(d)
	switch r {
	case '"', '\r', '\n', utf8.RuneError:
		return fmt.Errorf("delimiter %q is not usable", d)
	}
	return nil
}
