// Package main runs the CyberXAI triggers from a terminal: the page menu
// (results in the page overlay) or the popup (results in a terminal panel).
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
)

const version = "0.1.0"

// CLIConfig holds command-line configuration
type CLIConfig struct {
	Command      string
	Action       string
	File         string
	URL          string
	Selection    string
	ConfigFile   string
	OverrideFile string
	Manifest     string
	LogDir       string
	Headless     bool
	InitConfig   bool
	ShowVersion  bool
}

func main() {
	// A missing .env is normal; the environment is used as is.
	_ = godotenv.Load()

	config := parseFlags(os.Args[1:])

	if config.ShowVersion {
		fmt.Printf("CyberXAI v%s\n", version)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	if err := run(ctx, config, os.Stdout); err != nil {
		cancel()
		log.Printf("cyberxai: %v", err)
		os.Exit(1)
	}
	cancel()
}

func parseFlags(args []string) *CLIConfig {
	config := &CLIConfig{}
	fs := flag.NewFlagSet("cyberxai", flag.ExitOnError)

	fs.StringVar(&config.Action, "action", "selection", "Menu action: selection or scan")
	fs.StringVar(&config.File, "file", "", "Local HTML file to open as the active tab")
	fs.StringVar(&config.URL, "url", "", "URL to open in Chromium as the active tab")
	fs.StringVar(&config.Selection, "select", "", "Text to select on the page before checking")
	fs.StringVar(&config.ConfigFile, "config", os.Getenv("CYBERXAI_CONFIG"), "Path to configuration file (JSON)")
	fs.StringVar(&config.OverrideFile, "override", "", "YAML file with configuration overrides")
	fs.StringVar(&config.Manifest, "manifest", os.Getenv("CYBERXAI_HOST_MANIFEST"), "Native host manifest path")
	fs.StringVar(&config.LogDir, "log-dir", os.Getenv("CYBERXAI_LOG_DIR"), "Log directory")
	fs.BoolVar(&config.Headless, "headless", true, "Run Chromium headless when -url is used")
	fs.BoolVar(&config.InitConfig, "init-config", false, "Write the effective configuration and exit")
	fs.BoolVar(&config.ShowVersion, "version", false, "Show version and exit")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "CyberXAI - cyberbullying checks for the page you are reading\n\n")
		fmt.Fprintf(os.Stderr, "Usage: cyberxai [options] <menu|popup>\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  # Check a selection through the page menu\n")
		fmt.Fprintf(os.Stderr, "  cyberxai -file thread.html -select \"you are worthless\" menu\n\n")
		fmt.Fprintf(os.Stderr, "  # Scan a live page from the popup\n")
		fmt.Fprintf(os.Stderr, "  cyberxai -url https://example.com popup\n\n")
	}

	_ = fs.Parse(args)
	config.Command = fs.Arg(0)
	return config
}
