package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"unicode/utf8"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Roster sources.
const (
	RosterSourceStatic   = "static"
	RosterSourcePostgres = "postgres"
)

// Supported export formats.
const (
	FormatCSV  = "csv"
	FormatPDF  = "pdf"
	FormatXLSX = "xlsx"
)

type Config struct {
	Env string

	Log      LogConfig
	Output   OutputConfig
	Roster   RosterConfig
	Database DatabaseConfig
	Metrics  MetricsConfig
}

type LogConfig struct {
	Level  string
	Format string
}

// OutputConfig controls where and how report views are written.
type OutputConfig struct {
	Dir       string
	Formats   []string
	Delimiter rune
}

// RosterConfig selects where student records are read from.
type RosterConfig struct {
	Source string
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

// MetricsConfig enables the Prometheus textfile dump of a run.
type MetricsConfig struct {
	TextfilePath string
}

// HasFormat reports whether the given export format is enabled.
func (c OutputConfig) HasFormat(format string) bool {
	for _, f := range c.Formats {
		if f == format {
			return true
		}
	}
	return false
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	cfg := &Config{}
	cfg.Env = v.GetString("ENV")

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	delimiter, err := parseDelimiter(v.GetString("CSV_DELIMITER"))
	if err != nil {
		return nil, err
	}
	formats, err := parseFormats(v.GetString("REPORT_FORMATS"))
	if err != nil {
		return nil, err
	}
	cfg.Output = OutputConfig{
		Dir:       v.GetString("OUTPUT_DIR"),
		Formats:   formats,
		Delimiter: delimiter,
	}

	source := strings.ToLower(strings.TrimSpace(v.GetString("ROSTER_SOURCE")))
	switch source {
	case RosterSourceStatic, RosterSourcePostgres:
	default:
		return nil, fmt.Errorf("unsupported roster source %q", source)
	}
	cfg.Roster = RosterConfig{Source: source}

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Metrics = MetricsConfig{
		TextfilePath: v.GetString("METRICS_TEXTFILE"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")

	v.SetDefault("OUTPUT_DIR", "student_analysis_output")
	v.SetDefault("REPORT_FORMATS", FormatCSV)
	v.SetDefault("CSV_DELIMITER", ",")

	v.SetDefault("ROSTER_SOURCE", RosterSourceStatic)

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "student_marks")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 4)
	v.SetDefault("DB_MAX_IDLE_CONNS", 2)

	v.SetDefault("METRICS_TEXTFILE", "")
}

func parseDelimiter(raw string) (rune, error) {
	if raw == "" {
		return ',', nil
	}
	if raw == `\t` {
		return '\t', nil
	}
	if utf8.RuneCountInString(raw) != 1 {
		return 0, fmt.Errorf("csv delimiter must be a single character, got %q", raw)
	}
	r, _ := utf8.DecodeRuneInString(raw)
	if r == utf8.RuneError || r == '"' || r == '\r' || r == '\n' {
		return 0, fmt.Errorf("invalid csv delimiter %q", raw)
	}
	return r, nil
}

func parseFormats(raw string) ([]string, error) {
	parts := splitAndTrim(strings.ToLower(raw))
	if len(parts) == 0 {
		return []string{FormatCSV}, nil
	}
	seen := make(map[string]bool, len(parts))
	result := make([]string, 0, len(parts)+1)
	// csv is always produced; the other formats are additive.
	result = append(result, FormatCSV)
	seen[FormatCSV] = true
	for _, part := range parts {
		switch part {
		case FormatCSV, FormatPDF, FormatXLSX:
		default:
			return nil, fmt.Errorf("unsupported report format %q", part)
		}
		if seen[part] {
			continue
		}
		seen[part] = true
		result = append(result, part)
	}
	return result, nil
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
