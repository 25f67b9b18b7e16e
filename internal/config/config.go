package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rohmanhakim/announcement-fetcher/pkg/fileutil"
	"github.com/rohmanhakim/announcement-fetcher/pkg/hashutil"
	"github.com/rohmanhakim/announcement-fetcher/pkg/urlutil"
	"gopkg.in/yaml.v3"
)

const (
	DefaultEndpointTemplate = "https://content.govdelivery.com/bulletins/gd/" + urlutil.IdentifierPlaceholder
	DefaultCacheDir         = "request_cache"
)

type OutputFormat string

const (
	FormatHTML     OutputFormat = "html"
	FormatMarkdown OutputFormat = "markdown"
	FormatText     OutputFormat = "text"
)

func ParseOutputFormat(name string) (OutputFormat, error) {
	switch format := OutputFormat(strings.ToLower(strings.TrimSpace(name))); format {
	case FormatHTML, FormatMarkdown, FormatText:
		return format, nil
	case "md":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("unsupported output format: %s", name)
	}
}

type Config struct {
	//===============
	// Fetch
	//===============
	// URL of a bulletin, with urlutil.IdentifierPlaceholder standing for the identifier
	endpointTemplate string
	// Maximum time of the fetch request. Zero means no timeout
	timeout time.Duration
	// User agent sent in the request header. Empty sends the client default
	userAgent string

	//===============
	// Cache
	//===============
	// Directory holding one <identifier>.html file per fetched bulletin.
	// Identifiers are joined to it unsanitized.
	cacheDir string
	// Whether a cached response is served instead of fetching
	cached bool
	// Algorithm used for the content hash of cache writes
	hashAlgo hashutil.HashAlgo

	//===============
	// Output
	//===============
	// Whether the document is narrowed to its main body cell
	filtered     bool
	outputFormat OutputFormat
	// Prometheus textfile written after each run. Empty disables it
	metricsTextfile string
	// Whether events are logged to stderr
	verbose bool
}

type configDTO struct {
	EndpointTemplate string `json:"endpointTemplate,omitempty" yaml:"endpointTemplate,omitempty"`
	Timeout          string `json:"timeout,omitempty" yaml:"timeout,omitempty"`
	UserAgent        string `json:"userAgent,omitempty" yaml:"userAgent,omitempty"`
	CacheDir         string `json:"cacheDir,omitempty" yaml:"cacheDir,omitempty"`
	Cached           *bool  `json:"cached,omitempty" yaml:"cached,omitempty"`
	HashAlgo         string `json:"hashAlgo,omitempty" yaml:"hashAlgo,omitempty"`
	Filtered         *bool  `json:"filtered,omitempty" yaml:"filtered,omitempty"`
	OutputFormat     string `json:"outputFormat,omitempty" yaml:"outputFormat,omitempty"`
	MetricsTextfile  string `json:"metricsTextfile,omitempty" yaml:"metricsTextfile,omitempty"`
	Verbose          bool   `json:"verbose,omitempty" yaml:"verbose,omitempty"`
}

func newConfigFromDTO(dto configDTO) (Config, error) {
	cfg := WithDefault()

	// only override when a value is provided
	if dto.EndpointTemplate != "" {
		cfg.WithEndpointTemplate(dto.EndpointTemplate)
	}
	if dto.Timeout != "" {
		timeout, err := time.ParseDuration(dto.Timeout)
		if err != nil {
			return Config{}, fmt.Errorf("%w: timeout: %s", ErrInvalidConfig, err.Error())
		}
		cfg.WithTimeout(timeout)
	}
	if dto.UserAgent != "" {
		cfg.WithUserAgent(dto.UserAgent)
	}
	if dto.CacheDir != "" {
		cfg.WithCacheDir(dto.CacheDir)
	}
	if dto.Cached != nil {
		cfg.WithCached(*dto.Cached)
	}
	if dto.HashAlgo != "" {
		cfg.WithHashAlgo(hashutil.HashAlgo(strings.ToLower(dto.HashAlgo)))
	}
	if dto.Filtered != nil {
		cfg.WithFiltered(*dto.Filtered)
	}
	if dto.OutputFormat != "" {
		format, err := ParseOutputFormat(dto.OutputFormat)
		if err != nil {
			return Config{}, fmt.Errorf("%w: %s", ErrInvalidConfig, err.Error())
		}
		cfg.WithOutputFormat(format)
	}
	if dto.MetricsTextfile != "" {
		cfg.WithMetricsTextfile(dto.MetricsTextfile)
	}
	cfg.WithVerbose(dto.Verbose)

	return cfg.Build()
}

// WithConfigFile loads a JSON (.json) or YAML (.yaml, .yml) file on top of the defaults.
func WithConfigFile(path string) (Config, error) {
	_, err := os.Stat(path)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrFileDoesNotExist, err.Error())
	}
	configContent, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrReadConfigFail, err.Error())
	}
	cfgDTO := configDTO{}

	switch ext := fileutil.GetFileExtension(path); ext {
	case "json":
		err = json.Unmarshal(configContent, &cfgDTO)
	case "yaml", "yml":
		err = yaml.Unmarshal(configContent, &cfgDTO)
	default:
		return Config{}, fmt.Errorf("%w: %q", ErrUnsupportedConfigFormat, ext)
	}
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrConfigParsingFail, err.Error())
	}

	return newConfigFromDTO(cfgDTO)
}

// WithDefault creates a Config that fetches from govDelivery, caches under
// request_cache and filters to the bulletin body.
func WithDefault() *Config {
	defaultConfig := Config{
		endpointTemplate: DefaultEndpointTemplate,
		timeout:          0,
		userAgent:        "",
		cacheDir:         DefaultCacheDir,
		cached:           true,
		hashAlgo:         hashutil.HashAlgoSHA256,
		filtered:         true,
		outputFormat:     FormatHTML,
		metricsTextfile:  "",
		verbose:          false,
	}
	return &defaultConfig
}

func (c *Config) WithEndpointTemplate(template string) *Config {
	c.endpointTemplate = template
	return c
}

func (c *Config) WithTimeout(timeout time.Duration) *Config {
	c.timeout = timeout
	return c
}

func (c *Config) WithUserAgent(agent string) *Config {
	c.userAgent = agent
	return c
}

func (c *Config) WithCacheDir(dir string) *Config {
	c.cacheDir = dir
	return c
}

func (c *Config) WithCached(cached bool) *Config {
	c.cached = cached
	return c
}

func (c *Config) WithHashAlgo(algo hashutil.HashAlgo) *Config {
	c.hashAlgo = algo
	return c
}

func (c *Config) WithFiltered(filtered bool) *Config {
	c.filtered = filtered
	return c
}

func (c *Config) WithOutputFormat(format OutputFormat) *Config {
	c.outputFormat = format
	return c
}

func (c *Config) WithMetricsTextfile(path string) *Config {
	c.metricsTextfile = path
	return c
}

func (c *Config) WithVerbose(verbose bool) *Config {
	c.verbose = verbose
	return c
}

func (c *Config) Build() (Config, error) {
	if err := urlutil.ValidateTemplate(c.endpointTemplate); err != nil {
		return Config{}, fmt.Errorf("%w: endpointTemplate: %s", ErrInvalidConfig, err.Error())
	}
	if strings.TrimSpace(c.cacheDir) == "" {
		return Config{}, fmt.Errorf("%w: cacheDir cannot be empty", ErrInvalidConfig)
	}
	if c.timeout < 0 {
		return Config{}, fmt.Errorf("%w: timeout cannot be negative", ErrInvalidConfig)
	}
	algo, err := hashutil.ParseHashAlgo(string(c.hashAlgo))
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrInvalidConfig, err.Error())
	}
	c.hashAlgo = algo
	if _, err := ParseOutputFormat(string(c.outputFormat)); err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrInvalidConfig, err.Error())
	}

	return *c, nil
}

func (c Config) EndpointTemplate() string {
	return c.endpointTemplate
}

func (c Config) Timeout() time.Duration {
	return c.timeout
}

func (c Config) UserAgent() string {
	return c.userAgent
}

func (c Config) CacheDir() string {
	return c.cacheDir
}

func (c Config) Cached() bool {
	return c.cached
}

func (c Config) HashAlgo() hashutil.HashAlgo {
	return c.hashAlgo
}

func (c Config) Filtered() bool {
	return c.filtered
}

func (c Config) OutputFormat() OutputFormat {
	return c.outputFormat
}

func (c Config) MetricsTextfile() string {
	return c.metricsTextfile
}

func (c Config) Verbose() bool {
	return c.verbose
}
