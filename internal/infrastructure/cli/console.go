package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/doeshing/asoforge/internal/domain"
	"github.com/doeshing/asoforge/internal/ports"
)

// Console reads lines from stdin. A single background goroutine owns the
// reader; ReadLine races the next line against SIGINT and context
// cancellation, mapping SIGINT to domain.ErrInterrupted so the orchestrator
// can run its double-interrupt protocol.
type Console struct {
	out   io.Writer
	lines chan lineResult
	sigCh chan os.Signal
}

type lineResult struct {
	text string
	err  error
}

var _ ports.Console = (*Console)(nil)

// NewConsole starts the reader goroutine and installs the SIGINT handler.
func NewConsole() *Console {
	c := newConsole(os.Stdin, os.Stdout)
	signal.Notify(c.sigCh, syscall.SIGINT)
	return c
}

func newConsole(in io.Reader, out io.Writer) *Console {
	c := &Console{
		out:   out,
		lines: make(chan lineResult),
		sigCh: make(chan os.Signal, 1),
	}

	go func() {
		reader := bufio.NewReader(in)
		for {
			text, err := reader.ReadString('\n')
			if err != nil {
				c.lines <- lineResult{err: err}
				return
			}
			c.lines <- lineResult{text: trimNewline(text)}
		}
	}()
	return c
}

// ReadLine prints prompt and blocks for the next line, an interrupt, or
// context cancellation.
func (c *Console) ReadLine(ctx context.Context, prompt string) (string, error) {
	if prompt != "" {
		fmt.Fprint(c.out, prompt)
	}

	// A SIGINT delivered while no read was pending (for example during a
	// streaming call) must not replay as an interrupt at the next prompt.
	select {
	case <-c.sigCh:
	default:
	}

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-c.sigCh:
		fmt.Fprintln(c.out)
		return "", domain.ErrInterrupted
	case line := <-c.lines:
		if line.err != nil {
			if line.err == io.EOF {
				return "", io.EOF
			}
			return "", line.err
		}
		return line.text, nil
	}
}

// Close removes the signal handler.
func (c *Console) Close() {
	signal.Stop(c.sigCh)
}

func trimNewline(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}
	return s
}
