package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joy-dx/noncenet"
	"github.com/joy-dx/noncenet/config"
	"github.com/joy-dx/noncenet/dto"
	"github.com/joy-dx/noncenet/metrics"
	"github.com/joy-dx/noncenet/relays"
	"github.com/spf13/cobra"
)

var (
	// Version information (set via ldflags during build)
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// headerFlags collects --header values; they override headers from the config file.
var headerFlags = dto.ExtraHeaders{}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "noncenet",
	Short: "HTTP client for WordPress sites with cookie nonce session recovery",
	Long: `noncenet performs HTTP requests against WordPress and WooCommerce sites.

When a site answers 401 because the cookie session expired, noncenet logs in
again, fetches a fresh REST nonce and replays the request once.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"noncenet version %s\nCommit: %s\nBuilt: %s\n",
		Version, Commit, BuildTime,
	))

	rootCmd.PersistentFlags().String("config", "", "YAML config file with site definitions")
	rootCmd.PersistentFlags().StringSlice("env-file", nil, ".env files loaded before the config (default .env)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("json-logs", false, "Write logs as JSON")
	rootCmd.PersistentFlags().Var(headerFlags, "header", "Extra request headers as key=value pairs, comma separated")
	rootCmd.PersistentFlags().String("metrics-addr", "", "Serve Prometheus metrics on this address, e.g. :9090")

	getCmd.Flags().String("site", "", "Site ref whose authenticated client is used")
	getCmd.Flags().Bool("retry", true, "Retry transient failures with backoff")
	loginCmd.Flags().String("site", "", "Site ref to log in to")
	_ = loginCmd.MarkFlagRequired("site")

	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(versionCmd)
}

var getCmd = &cobra.Command{
	Use:   "get <url>",
	Short: "GET a URL and print the response body",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		site, _ := cmd.Flags().GetString("site")
		retry, _ := cmd.Flags().GetBool("retry")

		ctx, svc, err := setup(cmd)
		if err != nil {
			return err
		}

		var out dto.Response
		if site != "" {
			out, err = svc.SiteGet(ctx, site, args[0], retry)
		} else {
			out, err = svc.Get(ctx, args[0], retry)
		}
		if err != nil {
			return fmt.Errorf("get %s: %w", args[0], err)
		}
		_, err = cmd.OutOrStdout().Write(out.Body)
		return err
	},
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to a configured site and fetch a REST nonce",
	Long: `Log in to a configured site and fetch a REST nonce.

The nonce itself is never printed, only whether one was obtained.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		site, _ := cmd.Flags().GetString("site")

		ctx, svc, err := setup(cmd)
		if err != nil {
			return err
		}
		if err := svc.Login(ctx, site); err != nil {
			return fmt.Errorf("login %s: %w", site, err)
		}

		auth, _ := svc.Authenticator(site)
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Logged in to %s (nonce: %d chars)\n", site, len(auth.Nonce()))
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "noncenet version %s\nCommit: %s\nBuilt: %s\n", Version, Commit, BuildTime)
	},
}

// setup loads config, builds the logging relay, hydrates the service and
// starts the metrics endpoint when asked to.
func setup(cmd *cobra.Command) (context.Context, *noncenet.NetSvc, error) {
	configPath, _ := cmd.Flags().GetString("config")
	envFiles, _ := cmd.Flags().GetStringSlice("env-file")
	logLevel, _ := cmd.Flags().GetString("log-level")
	jsonLogs, _ := cmd.Flags().GetBool("json-logs")
	metricsAddr, _ := cmd.Flags().GetString("metrics-addr")

	cfg := config.DefaultNetSvcConfig()
	if configPath != "" {
		loaded, err := config.NewLoader().WithDotEnv(true, envFiles...).Load(configPath)
		if err != nil {
			return nil, nil, err
		}
		cfg = *loaded
	}
	if cfg.ExtraHeaders == nil {
		cfg.ExtraHeaders = make(dto.ExtraHeaders, len(headerFlags))
	}
	for k, v := range headerFlags {
		cfg.ExtraHeaders[k] = v
	}

	relay := relays.NewZerologRelay(relays.LogConfig{
		Level:      relays.Level(logLevel),
		JSONOutput: jsonLogs,
		Output:     cmd.ErrOrStderr(),
	})
	cfg.WithRelay(relay)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	cobra.OnFinalize(stop)

	svc := noncenet.ProvideNetSvc(&cfg)
	if err := svc.Hydrate(ctx); err != nil {
		return nil, nil, fmt.Errorf("hydrate net service: %w", err)
	}

	if metricsAddr != "" {
		serveMetrics(ctx, metricsAddr, relay)
	}
	return ctx, svc, nil
}

func serveMetrics(ctx context.Context, addr string, relay *relays.ZerologRelay) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			relay.Error(relays.RlyNetLog{Msg: fmt.Sprintf("metrics server: %v", err)})
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	relay.Info(relays.RlyNetLog{Msg: "Serving metrics on " + addr + "/metrics"})
}
