// Package main sends one command to the native host and prints the reply.
// It is the quickest way to check that a host installation works.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/cyberxai/cyberxai/pkg/host"
	"github.com/cyberxai/cyberxai/pkg/logging"
	"github.com/cyberxai/cyberxai/pkg/protocol"
	"github.com/joho/godotenv"
)

type probeConfig struct {
	Manifest string
	Command  string
	Text     string
	Timeout  time.Duration
	LogDir   string
}

func main() {
	_ = godotenv.Load()

	cfg := parseFlags(os.Args[1:])
	if err := run(context.Background(), cfg, os.Stdout); err != nil {
		log.Printf("probe: %v", err)
		os.Exit(1)
	}
}

func parseFlags(args []string) probeConfig {
	cfg := probeConfig{}
	fs := flag.NewFlagSet("cyberxai-probe", flag.ExitOnError)
	fs.StringVar(&cfg.Manifest, "manifest", os.Getenv("CYBERXAI_HOST_MANIFEST"), "Native host manifest path")
	fs.StringVar(&cfg.Command, "cmd", "classify", "Host command: classify, scan or batch")
	fs.StringVar(&cfg.Text, "text", "you are such an idiot", "Text to send; batch splits it on '|'")
	fs.DurationVar(&cfg.Timeout, "timeout", host.DefaultResponseTimeout, "Response timeout")
	fs.StringVar(&cfg.LogDir, "log-dir", os.Getenv("CYBERXAI_LOG_DIR"), "Log directory")
	_ = fs.Parse(args)
	return cfg
}

// run returns instead of exiting so the log file is closed on every path.
func run(ctx context.Context, cfg probeConfig, w io.Writer) error {
	if cfg.LogDir != "" {
		logging.SetLogDirectory(cfg.LogDir)
	}
	logger := logging.MustLogger("probe")
	defer logger.Close()

	dialer, err := host.NewProcessDialer(cfg.Manifest, 2*time.Second, logger)
	if err != nil {
		logger.Errorf("probe: %v", err)
		return err
	}

	if err := probe(ctx, host.NewBridge(dialer, cfg.Timeout, logger), cfg, w); err != nil {
		logger.Errorf("probe: %v", err)
		return err
	}
	return nil
}

func probe(ctx context.Context, bridge *host.Bridge, cfg probeConfig, w io.Writer) error {
	cmd := protocol.Command(cfg.Command)
	if !cmd.Valid() {
		return fmt.Errorf("unknown command %q", cfg.Command)
	}

	s, err := bridge.Open(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	if cmd == protocol.CommandBatch {
		err = s.SendRequest(protocol.HostRequest{Cmd: cmd, Texts: strings.Split(cfg.Text, "|")})
	} else {
		err = s.Send(cmd, cfg.Text)
	}
	if err != nil {
		return err
	}

	resp, err := s.Await(ctx, cfg.Timeout)
	if resp != nil {
		out, _ := json.MarshalIndent(resp, "", "  ")
		fmt.Fprintf(w, "REPLY: %s\n", out)
	}
	return err
}
