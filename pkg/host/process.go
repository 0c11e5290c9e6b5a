package host

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/cyberxai/cyberxai/pkg/logging"
)

// ProcessDialer starts the host executable for every session, the way a
// browser launches a native messaging host per connectNative call.
type ProcessDialer struct {
	Path      string
	Args      []string
	KillGrace time.Duration
	Logger    *logging.Logger
}

// NewProcessDialer resolves the executable from a manifest.
func NewProcessDialer(manifestPath string, killGrace time.Duration, logger *logging.Logger) (*ProcessDialer, error) {
	m, err := LoadManifest(manifestPath)
	if err != nil {
		return nil, err
	}
	return &ProcessDialer{Path: m.Path, KillGrace: killGrace, Logger: logger}, nil
}

// Dial starts the host. The process is not tied to ctx; its lifetime is
// the returned channel's.
func (d *ProcessDialer) Dial(ctx context.Context) (Channel, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	logger := d.Logger
	if logger == nil {
		logger = logging.Discard("host")
	}

	cmd := exec.Command(d.Path, d.Args...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start host %s: %w", d.Path, err)
	}
	logger.Debugf("started host pid=%d", cmd.Process.Pid)

	stderrDone := make(chan struct{})
	go func() {
		defer close(stderrDone)
		scanner := bufio.NewScanner(stderr)
		for scanner.Scan() {
			logger.Debugf("host stderr: %s", scanner.Text())
		}
	}()

	exited := make(chan error, 1)
	killed := make(chan struct{})
	reap := func() error {
		go func() {
			// Wait closes the pipes, so stderr is drained first. A killed
			// host may have left a child holding stderr; skip the drain then.
			select {
			case <-stderrDone:
			case <-killed:
			}
			exited <- cmd.Wait()
		}()

		grace := d.KillGrace
		if grace <= 0 {
			grace = 2 * time.Second
		}
		timer := time.NewTimer(grace)
		defer timer.Stop()

		select {
		case err := <-exited:
			return exitError(err)
		case <-timer.C:
			logger.Warnf("host pid=%d did not exit within %v, killing", cmd.Process.Pid, grace)
			if err := cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
				close(killed)
				return fmt.Errorf("failed to kill host: %w", err)
			}
			close(killed)
			<-exited
			return nil
		}
	}

	return NewStreamChannel(stdout, stdin, reap), nil
}

func exitError(err error) error {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		// The host is told to stop by closing its input; any exit status
		// after that is not the caller's problem.
		return nil
	}
	return err
}
