package cmd

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rohmanhakim/announcement-fetcher/internal/announcement"
	"github.com/rohmanhakim/announcement-fetcher/internal/build"
	"github.com/rohmanhakim/announcement-fetcher/internal/config"
	"github.com/rohmanhakim/announcement-fetcher/internal/fetcher"
	"github.com/rohmanhakim/announcement-fetcher/internal/mdconvert"
	"github.com/rohmanhakim/announcement-fetcher/internal/metadata"
	"github.com/rohmanhakim/announcement-fetcher/internal/metrics"
	"github.com/rohmanhakim/announcement-fetcher/internal/storage"
	"github.com/rohmanhakim/announcement-fetcher/pkg/hashutil"
	"github.com/spf13/cobra"
)

// Zero values mean "not set": the config file or the defaults apply.
var (
	cfgFile         string
	endpoint        string
	cacheDir        string
	noFilter        bool
	noCache         bool
	format          string
	timeout         time.Duration
	userAgent       string
	hashAlgo        string
	metricsTextfile string
	verbose         bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "announcement-fetcher <identifier>",
	Short: "Fetch a govDelivery bulletin and print its main body.",
	Long: `announcement-fetcher downloads a govDelivery press release by its bulletin
identifier, keeps the raw response in a local cache directory and prints the
announcement body.

Example:
  announcement-fetcher CALACOUNTY-29a2961 --format markdown`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := InitConfigWithError()
		if err != nil {
			return err
		}
		return RunGet(cmd.Context(), cfg, args[0], cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), build.Summary())
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := ExecuteWithArgs(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		os.Exit(1)
	}
}

// ExecuteWithArgs runs the root command with explicit arguments and streams.
func ExecuteWithArgs(ctx context.Context, args []string, stdout io.Writer, stderr io.Writer) error {
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config-file", "", "config file path, .json or .yaml (e.g., /home/myuser/config.yaml)")
	rootCmd.Flags().StringVar(&endpoint, "endpoint", "", "bulletin URL template, {id} is replaced by the identifier (default "+config.DefaultEndpointTemplate+")")
	rootCmd.Flags().StringVar(&cacheDir, "cache-dir", "", "directory of cached responses (default "+config.DefaultCacheDir+")")
	rootCmd.Flags().BoolVar(&noFilter, "no-filter", false, "print the whole document instead of the main-body cell")
	rootCmd.Flags().BoolVar(&noCache, "no-cache", false, "always fetch; the response is still written to the cache")
	rootCmd.Flags().StringVar(&format, "format", "", "output format: html, markdown or text (default html)")
	rootCmd.Flags().DurationVar(&timeout, "timeout", 0, "timeout for the HTTP request (0 for none)")
	rootCmd.Flags().StringVar(&userAgent, "user-agent", "", "user agent string for the HTTP request")
	rootCmd.Flags().StringVar(&hashAlgo, "hash-algo", "", "content hash of cache writes: sha256 or blake3 (default sha256)")
	rootCmd.Flags().StringVar(&metricsTextfile, "metrics-textfile", "", "write Prometheus metrics to this file after the run")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "log events to stderr in logfmt")

	rootCmd.AddCommand(versionCmd)
}

// InitConfigWithError loads the config file if one is given, then applies the
// flags that were set on top of it.
func InitConfigWithError() (config.Config, error) {
	configBuilder := config.WithDefault()

	if cfgFile != "" {
		fileCfg, err := config.WithConfigFile(cfgFile)
		if err != nil {
			return config.Config{}, fmt.Errorf("error initializing config from file: %w", err)
		}
		configBuilder = &fileCfg
	}

	if endpoint != "" {
		configBuilder = configBuilder.WithEndpointTemplate(endpoint)
	}

	if cacheDir != "" {
		configBuilder = configBuilder.WithCacheDir(cacheDir)
	}

	if noFilter {
		configBuilder = configBuilder.WithFiltered(false)
	}

	if noCache {
		configBuilder = configBuilder.WithCached(false)
	}

	if format != "" {
		outputFormat, err := config.ParseOutputFormat(format)
		if err != nil {
			return config.Config{}, fmt.Errorf("%w: %s", config.ErrInvalidConfig, err.Error())
		}
		configBuilder = configBuilder.WithOutputFormat(outputFormat)
	}

	if timeout > 0 {
		configBuilder = configBuilder.WithTimeout(timeout)
	}

	if userAgent != "" {
		configBuilder = configBuilder.WithUserAgent(userAgent)
	}

	if hashAlgo != "" {
		configBuilder = configBuilder.WithHashAlgo(hashutil.HashAlgo(strings.ToLower(hashAlgo)))
	}

	if metricsTextfile != "" {
		configBuilder = configBuilder.WithMetricsTextfile(metricsTextfile)
	}

	if verbose {
		configBuilder = configBuilder.WithVerbose(true)
	}

	return configBuilder.Build()
}

// RunGet fetches identifier according to cfg and writes it to out. A bulletin
// without a main-body cell prints a notice to errOut and is not an error.
func RunGet(
	ctx context.Context,
	cfg config.Config,
	identifier string,
	out io.Writer,
	errOut io.Writer,
) error {
	var sink metadata.MetadataSink = &metadata.NoopSink{}
	if cfg.Verbose() {
		sink = metadata.NewRecorder(errOut)
	}

	if cfg.MetricsTextfile() != "" {
		defer func() {
			if err := metrics.WriteTextfile(cfg.MetricsTextfile()); err != nil {
				fmt.Fprintf(errOut, "warning: could not write metrics textfile: %v\n", err)
				return
			}
			sink.RecordArtifact(metadata.ArtifactMetricsFile, cfg.MetricsTextfile(), nil)
		}()
	}

	remote := fetcher.NewAnnouncementFetcher(
		sink,
		&http.Client{Timeout: cfg.Timeout()},
		cfg.EndpointTemplate(),
		cfg.UserAgent(),
	)
	cache := storage.NewLocalCache(sink, cfg.CacheDir(), cfg.HashAlgo())
	service := announcement.NewService(sink, &remote, &cache)

	result, found, err := service.Get(ctx, identifier, announcement.GetParam{
		Filtered: cfg.Filtered(),
		Cached:   cfg.Cached(),
	})
	if err != nil {
		return err
	}
	if !found {
		fmt.Fprintf(errOut, "announcement %s has no main-body cell\n", identifier)
		return nil
	}

	rendered, renderErr := render(sink, cfg.OutputFormat(), result)
	if renderErr != nil {
		return renderErr
	}
	_, writeErr := fmt.Fprintln(out, rendered)
	return writeErr
}

func render(sink metadata.MetadataSink, outputFormat config.OutputFormat, result announcement.Announcement) (string, error) {
	switch outputFormat {
	case config.FormatMarkdown:
		converted, err := mdconvert.NewRule(sink).Convert(result.Identifier(), result.Node())
		if err != nil {
			return "", err
		}
		md := strings.TrimSpace(string(converted.GetMarkdownContent()))
		if refs := converted.ReferencesSection(); refs != "" {
			md += "\n\n" + refs
		}
		return md, nil
	case config.FormatText:
		return strings.TrimSpace(result.Text()), nil
	default:
		return result.HTML()
	}
}

func ResetFlags() {
	cfgFile = ""
	endpoint = ""
	cacheDir = ""
	noFilter = false
	noCache = false
	format = ""
	timeout = 0
	userAgent = ""
	hashAlgo = ""
	metricsTextfile = ""
	verbose = false
}

// Test helper functions to set flag values from tests
func SetConfigFileForTest(path string) {
	cfgFile = path
}

func SetEndpointForTest(template string) {
	endpoint = template
}

func SetCacheDirForTest(dir string) {
	cacheDir = dir
}

func SetNoFilterForTest(value bool) {
	noFilter = value
}

func SetNoCacheForTest(value bool) {
	noCache = value
}

func SetFormatForTest(value string) {
	format = value
}

func SetTimeoutForTest(t time.Duration) {
	timeout = t
}

func SetUserAgentForTest(agent string) {
	userAgent = agent
}

func SetHashAlgoForTest(algo string) {
	hashAlgo = algo
}

func SetMetricsTextfileForTest(path string) {
	metricsTextfile = path
}

func SetVerboseForTest(value bool) {
	verbose = value
}
