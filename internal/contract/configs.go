package contract

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/listinglab/asoscan/core"
	"github.com/listinglab/asoscan/core/formula"
	"github.com/listinglab/asoscan/schema"
)

// Default values for configuration.
const (
	DefaultResultLimit = 25
	MaxResultLimit     = 1000
	DefaultPrecision   = 1
)

// DefaultWorkers is the default number of concurrent workers to use.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// Config holds the runtime configuration for an audit.
// This struct remains the "final, validated" config.
type Config struct {
	Bundle   schema.ListingBundle
	AuditCtx schema.AuditContext

	ResultLimit int
	Workers     int
	Precision   int
	Output      schema.OutputMode
	OutputFile  string
	Width       int // Terminal width override (0 = auto-detect)

	Extraction     schema.ExtractionMode
	IncludeTriples bool
	MaxCombos      int
	BrandAliases   []string
	Stopwords      []string

	MinScore    int
	MissingOnly bool
	LongTail    bool

	HistoryBackend   schema.DatabaseBackend
	HistoryDBConnect string // Please use env var as this is plaintext

	// Registry is the validated formula registry for this process,
	// merged from the built-in definition plus any override document.
	Registry *schema.FormulaRegistry

	UseEmojis bool // Enable emojis in output headers
	UseColors bool // Enable colored labels in table output
}

// Clone returns a copy of the config suitable for per-request mutation.
// Slices are copied so callers cannot alias the base config.
func (c *Config) Clone() *Config {
	clone := *c
	clone.BrandAliases = append([]string(nil), c.BrandAliases...)
	clone.Stopwords = append([]string(nil), c.Stopwords...)
	return &clone
}

// EngineOptions builds the audit engine options from the validated
// config. The registry itself travels separately.
func (c *Config) EngineOptions() core.Options {
	opts := core.DefaultOptions()
	opts.Extraction = c.Extraction
	opts.Workers = c.Workers
	opts.Combos.IncludeTriples = c.IncludeTriples
	opts.Combos.BrandAliases = c.BrandAliases
	opts.Combos.Stopwords = c.Stopwords
	if c.MaxCombos > 0 {
		opts.Combos.MaxCombos = c.MaxCombos
	} else if c.Registry != nil {
		opts.Combos.MaxCombos = c.Registry.Limits.MaxCombosPerAudit
	}
	return opts
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Listing text inputs ---
	Title           string `mapstructure:"title"`
	Subtitle        string `mapstructure:"subtitle"`
	Keywords        string `mapstructure:"keywords"`
	Description     string `mapstructure:"description"`
	DescriptionFile string `mapstructure:"description-file"`

	// --- Audit context ---
	Vertical string `mapstructure:"vertical"`
	Market   string `mapstructure:"market"`
	Client   string `mapstructure:"client"`

	// --- Fields from rootCmd.PersistentFlags() ---
	Limit        int    `mapstructure:"limit"`
	Workers      int    `mapstructure:"workers"`
	Precision    int    `mapstructure:"precision"`
	Output       string `mapstructure:"output"`
	OutputFile   string `mapstructure:"output-file"`
	Width        int    `mapstructure:"width"`
	Extraction   string `mapstructure:"extraction"`
	Triples      string `mapstructure:"triples"`
	MaxCombos    int    `mapstructure:"max-combos"`
	BrandAliases string `mapstructure:"brand-aliases"`
	Emoji        string `mapstructure:"emoji"`
	Color        string `mapstructure:"color"`

	// --- Fields from combosCmd.Flags() ---
	MinScore    int  `mapstructure:"min-score"`
	MissingOnly bool `mapstructure:"missing-only"`
	LongTail    bool `mapstructure:"long-tail"`

	// --- History store settings ---
	HistoryBackend   string `mapstructure:"history-backend"`
	HistoryDBConnect string `mapstructure:"history-db-connect"`

	// --- Registry override document ---
	RegistryFile string `mapstructure:"registry-file"`

	// --- Registry overrides from the config file itself ---
	Registry formula.RegistryOverrides `mapstructure:"registry"`
}

// ProcessAndValidate performs all parsing and validation on the raw
// inputs and populates the final Config struct. The registry is loaded
// and validated here: a failing registry validation aborts setup.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processBundle(cfg, input); err != nil {
		return err
	}
	if err := processRegistry(cfg, input); err != nil {
		return err
	}
	return nil
}

// validateSimpleInputs processes and validates all non-bundle fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.MissingOnly = input.MissingOnly
	cfg.LongTail = input.LongTail
	cfg.MaxCombos = input.MaxCombos

	// Parse emoji flag
	emojis, err := ParseBoolString(input.Emoji)
	if err != nil {
		return fmt.Errorf("invalid --emoji value: %w", err)
	}
	cfg.UseEmojis = emojis

	// Parse color flag
	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// Parse triples flag
	triples, err := ParseBoolString(input.Triples)
	if err != nil {
		return fmt.Errorf("invalid --triples value: %w", err)
	}
	cfg.IncludeTriples = triples

	// --- ResultLimit Validation ---
	if input.Limit <= 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	// --- Workers Validation ---
	if input.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0 (received %d)", input.Workers)
	}
	cfg.Workers = input.Workers

	// --- Precision and Output Validation ---
	if input.Precision < 1 || input.Precision > 2 {
		return fmt.Errorf("precision must be 1 or 2 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}

	// --- Extraction Mode Validation ---
	cfg.Extraction = schema.ExtractionMode(strings.ToLower(input.Extraction))
	if _, ok := schema.ValidExtractionModes[cfg.Extraction]; !ok {
		return fmt.Errorf("invalid extraction mode '%s'. must be enabled, disabled", input.Extraction)
	}

	// --- MinScore Validation ---
	if input.MinScore < 0 || input.MinScore > 100 {
		return fmt.Errorf("min-score must be between 0 and 100 (received %d)", input.MinScore)
	}
	cfg.MinScore = input.MinScore

	// --- History Backend Validation ---
	cfg.HistoryBackend = schema.DatabaseBackend(strings.ToLower(input.HistoryBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.HistoryBackend]; !ok {
		return fmt.Errorf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", input.HistoryBackend)
	}
	cfg.HistoryDBConnect = input.HistoryDBConnect
	if err := ValidateDatabaseConnectionString(cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
		return err
	}

	// --- Brand Aliases ---
	cfg.BrandAliases = schema.DefaultBrandAliases
	if input.BrandAliases != "" {
		for p := range strings.SplitSeq(input.BrandAliases, ",") {
			trimmed := strings.ToLower(strings.TrimSpace(p))
			if trimmed != "" {
				cfg.BrandAliases = append(cfg.BrandAliases, trimmed)
			}
		}
	}
	cfg.Stopwords = schema.DefaultStopwords

	return nil
}

// processBundle assembles the listing bundle, reading the description
// from a file when one is provided.
func processBundle(cfg *Config, input *ConfigRawInput) error {
	cfg.Bundle = schema.ListingBundle{
		Title:        input.Title,
		Subtitle:     input.Subtitle,
		KeywordField: input.Keywords,
		Description:  input.Description,
	}

	if input.DescriptionFile != "" {
		data, err := os.ReadFile(input.DescriptionFile)
		if err != nil {
			return fmt.Errorf("failed to read description file %q: %w", input.DescriptionFile, err)
		}
		cfg.Bundle.Description = string(data)
	}

	cfg.AuditCtx = schema.AuditContext{
		Vertical: strings.TrimSpace(input.Vertical),
		Market:   strings.TrimSpace(input.Market),
		ClientID: strings.TrimSpace(input.Client),
	}
	return nil
}

// processRegistry merges the built-in registry with overrides from the
// config file and, when given, a standalone registry document. The
// merged registry is validated eagerly; failures abort startup.
func processRegistry(cfg *Config, input *ConfigRawInput) error {
	overrides := input.Registry
	if input.RegistryFile != "" {
		fileOverrides, err := formula.LoadOverridesFile(input.RegistryFile)
		if err != nil {
			return err
		}
		overrides = *fileOverrides
	}

	reg, err := formula.Load(&overrides)
	if err != nil {
		return err
	}
	cfg.Registry = reg
	return nil
}

// ValidateDatabaseConnectionString validates the format of database
// connection strings for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("history-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("history-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}
