// treelate is an on-demand translation manager with tree-aware client tooling.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/ZaguanLabs/treelate"
	"github.com/ZaguanLabs/treelate/cache"
	"github.com/ZaguanLabs/treelate/config"
	"github.com/ZaguanLabs/treelate/provider"
	"github.com/ZaguanLabs/treelate/server"
	"github.com/ZaguanLabs/treelate/store"
)

// ANSI colors
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[0;31m"
	colorGreen  = "\033[0;32m"
	colorBlue   = "\033[0;34m"
)

func logInfo(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorBlue+"[INFO]"+colorReset+" "+format+"\n", args...)
}

func logSuccess(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorGreen+"[OK]"+colorReset+" "+format+"\n", args...)
}

func logError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorRed+"[ERROR]"+colorReset+" "+format+"\n", args...)
}

// ---------------------------------------------------------------------------
// Global flag
// ---------------------------------------------------------------------------

var configPath string

// ---------------------------------------------------------------------------
// Root command
// ---------------------------------------------------------------------------

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "treelate",
		Short: "On-demand translation manager with tree-aware client tooling",
		Long: `treelate is an on-demand translation manager.

Serves translations from a persistent file-backed store, fetching misses
from a configurable remote provider and persisting them for reuse. The
tree and html commands translate structured content against a running
server or a local store.

Commands:
  serve       Run the translation HTTP server
  translate   Translate a single text
  tree        Translate a JSON node tree
  html        Translate an HTML document
  version     Show version information`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global persistent flag, inherited by all subcommands
	root.PersistentFlags().StringVar(&configPath, "config", "treelate.yaml", "Config file path")

	root.AddCommand(
		newServeCmd(),
		newTranslateCmd(),
		newTreeCmd(),
		newHTMLCmd(),
		newVersionCmd(),
	)

	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logError("%v", err)
		os.Exit(1)
	}
}

// ---------------------------------------------------------------------------
// version
// ---------------------------------------------------------------------------

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(treelate.FullVersion())
		},
	}
}

// ---------------------------------------------------------------------------
// serve
// ---------------------------------------------------------------------------

func newServeCmd() *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the translation HTTP server",
		Long: `Run the translation HTTP server.

Exposes POST /translate and GET /healthz. Translations are answered from
the configured store when present and fetched from the provider
otherwise; new translations are persisted before the response is sent.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if listen != "" {
				cfg.Listen = listen
			}

			mgr, err := buildManager(cfg)
			if err != nil {
				return err
			}

			logInfo("store: %s", cfg.StorePath)
			logInfo("provider: %s", cfg.Provider.Kind)
			return server.New(mgr).Run(cfg.Listen)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "Listen address (overrides config)")

	return cmd
}

// ---------------------------------------------------------------------------
// translate (single text)
// ---------------------------------------------------------------------------

func newTranslateCmd() *cobra.Command {
	var (
		serverURL string
		lang      string
	)

	cmd := &cobra.Command{
		Use:   "translate <text>",
		Short: "Translate a single text",
		Long: `Translate one piece of text.

With --server the request goes to a running treelate server; otherwise
the store and provider from the config file are used directly.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if lang == "" {
				return fmt.Errorf("--lang is required")
			}

			ctx, cancel := signalContext()
			defer cancel()

			svc, err := buildTranslator(serverURL)
			if err != nil {
				return err
			}

			translated, err := svc.TranslateText(ctx, args[0], lang)
			if err != nil {
				return err
			}

			fmt.Println(translated)
			return nil
		},
	}

	cmd.Flags().StringVar(&serverURL, "server", "", "Base URL of a running treelate server")
	cmd.Flags().StringVar(&lang, "lang", "", "Target language code (required)")

	return cmd
}

// ---------------------------------------------------------------------------
// tree
// ---------------------------------------------------------------------------

func newTreeCmd() *cobra.Command {
	var (
		serverURL string
		lang      string
		output    string
	)

	cmd := &cobra.Command{
		Use:   "tree <file>",
		Short: "Translate a JSON node tree",
		Long: `Translate the text leaves of a JSON node tree.

The file holds a tree of strings and {"tag", "props", "children"}
objects. Text leaves are translated; elements whose props carry an
"ignore" key are left untouched along with their subtrees. Anything
else round-trips unchanged.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if lang == "" {
				return fmt.Errorf("--lang is required")
			}

			content, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			root, err := treelate.DecodeNode(content)
			if err != nil {
				return err
			}

			ctx, cancel := signalContext()
			defer cancel()

			svc, err := buildTranslator(serverURL)
			if err != nil {
				return err
			}

			tt := treelate.NewTreeTranslator(svc,
				treelate.WithSessionCache(cache.NewInMemoryCache(0)))

			res, err := tt.Translate(ctx, root, lang)
			if err != nil {
				return err
			}

			encoded, err := treelate.EncodeNode(res.Root)
			if err != nil {
				return err
			}

			if output == "" {
				fmt.Println(string(encoded))
			} else {
				if err := os.WriteFile(output, append(encoded, '\n'), 0o644); err != nil {
					return err
				}
				logSuccess("Wrote %s", output)
			}
			logInfo("%d texts, %d translated, %d from cache",
				res.TotalTexts, res.TranslatedCount, res.CachedCount)
			return nil
		},
	}

	cmd.Flags().StringVar(&serverURL, "server", "", "Base URL of a running treelate server")
	cmd.Flags().StringVar(&lang, "lang", "", "Target language code (required)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: stdout)")

	return cmd
}

// ---------------------------------------------------------------------------
// html
// ---------------------------------------------------------------------------

func newHTMLCmd() *cobra.Command {
	var (
		serverURL string
		lang      string
		output    string
	)

	cmd := &cobra.Command{
		Use:   "html <file>",
		Short: "Translate an HTML document",
		Long: `Translate the text content of an HTML document.

Element structure, attributes, scripts and styles are preserved;
elements marked data-no-translate are left untouched. Repeated text is
translated once per run.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if lang == "" {
				return fmt.Errorf("--lang is required")
			}

			content, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			ctx, cancel := signalContext()
			defer cancel()

			svc, err := buildTranslator(serverURL)
			if err != nil {
				return err
			}

			tt := treelate.NewTreeTranslator(svc,
				treelate.WithSessionCache(cache.NewInMemoryCache(0)))

			translated, err := tt.TranslateHTML(ctx, string(content), lang)
			if err != nil {
				return err
			}

			if output == "" {
				fmt.Print(translated)
				return nil
			}
			if err := os.WriteFile(output, []byte(translated), 0o644); err != nil {
				return err
			}
			logSuccess("Wrote %s", output)
			return nil
		},
	}

	cmd.Flags().StringVar(&serverURL, "server", "", "Base URL of a running treelate server")
	cmd.Flags().StringVar(&lang, "lang", "", "Target language code (required)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: stdout)")

	return cmd
}

// ---------------------------------------------------------------------------
// Wiring helpers
// ---------------------------------------------------------------------------

// buildTranslator returns a remote client when serverURL is set, and a
// locally wired Manager otherwise.
func buildTranslator(serverURL string) (treelate.TextTranslator, error) {
	if serverURL != "" {
		return treelate.NewClient(serverURL, 30*time.Second), nil
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	return buildManager(cfg)
}

func buildManager(cfg *config.Config) (*treelate.Manager, error) {
	prov, err := buildProvider(cfg)
	if err != nil {
		return nil, err
	}

	fs := store.NewFileStore(cfg.StorePath)
	return treelate.NewManager(fs, prov, treelate.WithSourceLang(cfg.SourceLang)), nil
}

func buildProvider(cfg *config.Config) (treelate.Provider, error) {
	var prov treelate.Provider

	switch cfg.Provider.Kind {
	case config.ProviderHTTP:
		prov = provider.NewHTTPProvider(provider.HTTPConfig{
			URL:    cfg.Provider.URL,
			APIKey: cfg.Provider.APIKey,
		})
	case config.ProviderOpenAI:
		if cfg.Provider.APIKey == "" {
			return nil, fmt.Errorf("openai provider requires an API key (config api_key or OPENAI_API_KEY)")
		}
		prov = provider.NewOpenAIProvider(provider.OpenAIConfig{
			APIKey: cfg.Provider.APIKey,
			Model:  cfg.Provider.Model,
		})
	case config.ProviderMock:
		prov = provider.NewMockProvider()
	default:
		return nil, fmt.Errorf("unknown provider kind %q", cfg.Provider.Kind)
	}

	if cfg.RateLimit.Enabled {
		prov = treelate.NewRateLimitedProvider(prov, treelate.RateLimitConfig{
			RequestsPerMinute: cfg.RateLimit.RequestsPerMinute,
		})
	}
	if cfg.Retry.Enabled {
		prov = treelate.NewRetryableProvider(prov, treelate.RetryConfig{
			MaxRetries: cfg.Retry.MaxAttempts,
			BaseDelay:  cfg.Retry.Delay(),
			MaxDelay:   30 * time.Second,
		})
	}

	return prov, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}
