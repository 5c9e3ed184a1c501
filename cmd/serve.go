package cmd

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tuananh/hyper-mcp/internal/config"
	"github.com/tuananh/hyper-mcp/internal/hostplugin"
	"github.com/tuananh/hyper-mcp/internal/router"
	"github.com/tuananh/hyper-mcp/internal/wasmsource"
	"github.com/tuananh/hyper-mcp/pkg/logging"

	mcpserver "github.com/mark3labs/mcp-go/server"
)

var (
	serveConfigPath          string
	serveLogLevel            string
	serveLogFormat           string
	serveInsecureSkipSig     bool
	serveUseSigstoreTUFData  bool
	serveRekorPublicKeysPath string
	serveFulcioCertsPath     string
)

// serveCmd starts the plugin host: it loads every configured plugin's
// Wasm module, sandboxes it, registers its aggregated tools/prompts/
// resources with the request router, and serves the result over stdio
// as a single MCP server.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the hyper-mcp plugin host",
	Long: `Starts hyper-mcp: loads the plugins named in the configuration file,
verifies and sandboxes each one, and exposes their aggregated tools,
prompts, and resources as a single Model Context Protocol server over
stdio.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "Path to the configuration file (.json, .yaml, or .toml); defaults to the platform config directory")
	serveCmd.Flags().StringVar(&serveLogLevel, "log-level", "info", "Log level: debug, info, warn, or error")
	serveCmd.Flags().StringVar(&serveLogFormat, "log-format", "text", "Log format: text or json")
	serveCmd.Flags().BoolVar(&serveInsecureSkipSig, "insecure-skip-signature", false, "Skip Sigstore signature verification for OCI-sourced plugins (overrides config)")
	serveCmd.Flags().BoolVar(&serveUseSigstoreTUFData, "use-sigstore-tuf-data", false, "Use the Sigstore public-good TUF trust root for signature verification (overrides config)")
	serveCmd.Flags().StringVar(&serveRekorPublicKeysPath, "rekor-public-keys", "", "Path to alternate Rekor public keys for signature verification (overrides config)")
	serveCmd.Flags().StringVar(&serveFulcioCertsPath, "fulcio-certs", "", "Path to alternate Fulcio CA certificates for signature verification (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	logging.Init(logging.ParseLevel(serveLogLevel), serveLogFormat, os.Stderr)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	path := serveConfigPath
	if path == "" {
		path = config.GetDefaultConfigPathOrPanic()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	applyOCIFlagOverrides(&cfg)

	svc := router.NewService(GetVersion())
	defer func() {
		if err := svc.Close(); err != nil {
			logging.Error("Serve", err, "error closing plugins during shutdown")
		}
	}()

	loader := wasmsource.NewLoader(cfg.OCI, cfg.Auths)

	for _, name := range cfg.PluginOrder {
		pc := cfg.Plugins[name]

		pluginURL, err := url.Parse(pc.URL)
		if err != nil {
			return fmt.Errorf("plugin %s: parsing url %q: %w", name, pc.URL, err)
		}

		wasmBytes, err := loader.Load(ctx, name, pluginURL, pc.RuntimeConfig)
		if err != nil {
			return fmt.Errorf("plugin %s: %w", name, err)
		}

		hostFuncs := svc.HostFunctions(name)
		plugin, err := hostplugin.New(ctx, name, wasmBytes, pc.RuntimeConfig, hostFuncs)
		if err != nil {
			return fmt.Errorf("plugin %s: starting sandbox: %w", name, err)
		}

		if err := svc.AddPlugin(ctx, name, plugin, pc.RuntimeConfig); err != nil {
			return fmt.Errorf("plugin %s: registering with router: %w", name, err)
		}
	}

	logging.Info("Serve", "hyper-mcp serving %d plugin(s) over stdio", len(cfg.PluginOrder))

	stdioServer := mcpserver.NewStdioServer(svc.MCPServer())
	if err := stdioServer.Listen(ctx, os.Stdin, os.Stdout); err != nil && ctx.Err() == nil {
		return fmt.Errorf("stdio server: %w", err)
	}
	return nil
}

// applyOCIFlagOverrides layers the --insecure-skip-signature,
// --use-sigstore-tuf-data, --rekor-public-keys, and --fulcio-certs
// flags on top of whatever OCI trust configuration was loaded from
// file, creating one if the file declared none.
func applyOCIFlagOverrides(cfg *config.Config) {
	f := serveCmd.Flags()
	if !f.Changed("insecure-skip-signature") && !f.Changed("use-sigstore-tuf-data") &&
		!f.Changed("rekor-public-keys") && !f.Changed("fulcio-certs") {
		return
	}

	if cfg.OCI == nil {
		cfg.OCI = &config.OciConfig{}
	}
	if f.Changed("insecure-skip-signature") {
		cfg.OCI.InsecureSkipSignature = serveInsecureSkipSig
	}
	if f.Changed("use-sigstore-tuf-data") {
		cfg.OCI.UseSigstoreTUFData = serveUseSigstoreTUFData
	}
	if f.Changed("rekor-public-keys") {
		cfg.OCI.RekorPublicKeysPath = serveRekorPublicKeysPath
	}
	if f.Changed("fulcio-certs") {
		cfg.OCI.FulcioCertsPath = serveFulcioCertsPath
	}
}
