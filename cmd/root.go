package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// Exit codes for CLI commands.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error (command failed, invalid arguments, fatal load error).
	ExitCodeError = 1
)

// rootCmd represents the base command for the hyper-mcp application.
// It is the entry point when the application is called without any
// subcommands.
var rootCmd = &cobra.Command{
	Use:   "hyper-mcp",
	Short: "Host a single MCP surface backed by sandboxed Wasm plugins",
	Long: `hyper-mcp loads one or more WebAssembly plugins and exposes their
tools, prompts, and resources as a single aggregated Model Context
Protocol server. Each plugin runs in its own sandbox with explicit
network, filesystem, and memory policy.`,
	SilenceUsage: true,
}

// SetVersion sets the version for the root command.
// This is called from main to inject the build-time version string.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current build version of the application.
func GetVersion() string {
	return rootCmd.Version
}

// Execute is the entry point for the CLI application.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "hyper-mcp version %s\n" .Version}}`)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(ExitCodeError)
	}
}

func init() {
	rootCmd.AddCommand(newVersionCmd())
}
