package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/labelprep/pkg/labelprep/internalerr"
	"github.com/cognicore/labelprep/pkg/labelprep/sink"
	"github.com/cognicore/labelprep/pkg/labelprep/source"
)

// DriverJSONL reads records from a JSONL file instead of a database.
const DriverJSONL = "jsonl"

// DefaultQuery pulls the indications section of every openFDA label.
const DefaultQuery = `SELECT
	id AS product_labels_id,
	indications_and_usage
FROM bronze.openfda_product_labels`

// DefaultProgressEvery is how often the run logs a progress line.
const DefaultProgressEvery = 20000

// Config is the full run configuration, loaded from YAML over Default().
type Config struct {
	Source        Source    `yaml:"source"`
	Output        Output    `yaml:"output"`
	Normalize     Normalize `yaml:"normalize"`
	ProgressEvery int64     `yaml:"progress_every"`
}

// Source describes where records come from.
type Source struct {
	Driver     string        `yaml:"driver"` // postgres, sqlite, jsonl
	DSN        string        `yaml:"dsn"`    // explicit DSN, sqlite path, or jsonl path
	Database   string        `yaml:"database"`
	Query      string        `yaml:"query"`
	Cursor     bool          `yaml:"cursor"` // postgres only
	CursorName string        `yaml:"cursor_name"`
	FetchSize  int           `yaml:"fetch_size"`
	SSLMode    string        `yaml:"sslmode"`
	Env        CredentialEnv `yaml:"env"`
}

// CredentialEnv names the environment variables holding database
// credentials.
type CredentialEnv struct {
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
}

// Output describes the CSV files.
type Output struct {
	Dir       string   `yaml:"dir"`
	Prefix    string   `yaml:"prefix"`
	BatchSize int64    `yaml:"batch_size"`
	Header    []string `yaml:"header"`
}

// Normalize tunes the text pipeline.
type Normalize struct {
	ExtraStoplist  string `yaml:"extra_stoplist"`
	ExtraNouns     string `yaml:"extra_nouns"`
	Lexicon        string `yaml:"lexicon"`
	KeepStopwords  bool   `yaml:"keep_stopwords"`
	BlankNone      bool   `yaml:"blank_none"`
	StripMarkup    bool   `yaml:"strip_markup"`
	KeepApostrophe bool   `yaml:"keep_apostrophe"`
}

// Default returns the settings of the legacy public_datasets export.
func Default() Config {
	return Config{
		Source: Source{
			Driver:     source.DriverPostgres,
			Database:   "public_datasets",
			Query:      DefaultQuery,
			Cursor:     true,
			CursorName: "server_side",
			FetchSize:  source.DefaultFetchSize,
			SSLMode:    "require",
			Env: CredentialEnv{
				User:     "AWS_DEV_POSTGRES_DB_USER",
				Password: "AWS_DEV_POSTGRES_DB_PASSWORD",
				Host:     "AWS_DEV_POSTGRES_DB_HOST",
				Port:     "AWS_DEV_POSTGRES_DB_PORT",
			},
		},
		Output: Output{
			Dir:       ".",
			Prefix:    "output",
			BatchSize: sink.DefaultBatchSize,
			Header:    append([]string(nil), sink.DefaultHeader...),
		},
		Normalize: Normalize{
			BlankNone: true,
		},
		ProgressEvery: DefaultProgressEvery,
	}
}

// Load reads a YAML config from path over the defaults. An empty path
// yields the defaults. The result is validated.
func Load(path string) (Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("%w: parse %s: %v", internalerr.ErrInvalidConfig, path, err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the configuration can drive a run.
func (c Config) Validate() error {
	var problems []string

	switch c.Source.Driver {
	case source.DriverPostgres:
		if c.Source.DSN == "" && c.Source.Database == "" {
			problems = append(problems, "source.database is required")
		}
	case source.DriverSQLite, DriverJSONL:
		if strings.TrimSpace(c.Source.DSN) == "" {
			problems = append(problems, fmt.Sprintf("source.dsn is required for driver %q", c.Source.Driver))
		}
	default:
		problems = append(problems, fmt.Sprintf("source.driver %q is not one of postgres, sqlite, jsonl", c.Source.Driver))
	}
	if c.Source.Driver != DriverJSONL && strings.TrimSpace(c.Source.Query) == "" {
		problems = append(problems, "source.query is required")
	}
	if c.Source.FetchSize <= 0 {
		problems = append(problems, "source.fetch_size must be positive")
	}
	if strings.TrimSpace(c.Output.Prefix) == "" {
		problems = append(problems, "output.prefix is required")
	}
	if c.Output.BatchSize <= 0 {
		problems = append(problems, "output.batch_size must be positive")
	}
	if c.ProgressEvery <= 0 {
		problems = append(problems, "progress_every must be positive")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", internalerr.ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}
