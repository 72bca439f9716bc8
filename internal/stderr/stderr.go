//go:build unix

// Package stderr captures output that C libraries (ALSA through the audio
// backend) write directly to file descriptor 2, bypassing Go's os.Stderr.
// A full-screen TUI would be corrupted by it, so lines go to the log.
package stderr

import (
	"bufio"
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

// Capture redirects fd 2 into logger until restore is called. restore puts
// the original stderr back and returns once every captured line is logged.
func Capture(logger *zap.Logger) (restore func(), err error) {
	r, w, err := os.Pipe()
	if err != nil {
		return nil, err
	}

	fd := int(os.Stderr.Fd())
	orig, err := unix.Dup(fd)
	if err != nil {
		r.Close()
		w.Close()
		return nil, err
	}
	if err := unix.Dup2(int(w.Fd()), fd); err != nil {
		unix.Close(orig)
		r.Close()
		w.Close()
		return nil, err
	}

	logger = logger.With(zap.String("source", "stderr"))
	done := make(chan struct{})
	go func() {
		defer close(done)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			if line := strings.TrimSpace(scanner.Text()); line != "" {
				logger.Warn(line)
			}
		}
	}()

	return func() {
		_ = unix.Dup2(orig, fd)
		_ = unix.Close(orig)
		w.Close()
		<-done
		r.Close()
	}, nil
}
