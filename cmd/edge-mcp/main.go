package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/ironsheep/edge-tools-mcp/internal/config"
	"github.com/ironsheep/edge-tools-mcp/internal/logger"
	"github.com/ironsheep/edge-tools-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	var configPath string

	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch arg := args[i]; {
		case arg == "--version" || arg == "-v" || arg == "version":
			fmt.Printf("edge-tools-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case arg == "--help" || arg == "-h" || arg == "help":
			printUsage()
			return
		case arg == "--config":
			if i+1 >= len(args) {
				fmt.Fprintln(os.Stderr, "--config requires a path")
				os.Exit(2)
			}
			i++
			configPath = args[i]
		case strings.HasPrefix(arg, "--config="):
			configPath = strings.TrimPrefix(arg, "--config=")
		default:
			fmt.Fprintf(os.Stderr, "unknown argument: %s\n", arg)
			printUsage()
			os.Exit(2)
		}
	}

	// stdout is for MCP protocol
	log := logger.NewConsoleLogger(os.Stderr, logger.ParseLevel(os.Getenv("EDGE_MCP_LOG_LEVEL")))

	var (
		defaults *config.Defaults
		err      error
	)
	if configPath != "" {
		defaults, err = config.Load(configPath)
	} else {
		defaults, err = config.LoadFromEnv()
	}
	if err != nil {
		log.Error("main", err, nil)
		os.Exit(1)
	}

	log.Info("main", "starting edge-tools-mcp", map[string]interface{}{
		"version":        Version,
		"build_time":     BuildTime,
		"commit":         GitCommit,
		"threshold_low":  defaults.ThresholdLow,
		"threshold_high": defaults.ThresholdHigh,
	})

	srv := server.New(defaults, log)
	if err := srv.Run(); err != nil {
		log.Error("main", fmt.Errorf("server error: %w", err), nil)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("edge-tools-mcp - MCP server for edge detection and line art")
	fmt.Println()
	fmt.Println("Usage: edge-tools-mcp [options]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --config <path>  JSON file with default tool arguments")
	fmt.Println("  --version, -v    Print version information")
	fmt.Println("  --help, -h       Print this help message")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Println("  EDGE_MCP_CONFIG=<path>       Same as --config")
	fmt.Println("  EDGE_MCP_LOG_LEVEL=debug     Log level: debug, info, warn, error")
	fmt.Println()
	fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
	fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
}
