package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"
)

// ErrEmptyInput is returned when a required answer is blank.
var ErrEmptyInput = errors.New("empty input")

// Prompter asks questions on a terminal.
type Prompter struct {
	writer io.Writer
	reader *NonBlockingReader
	// fd is the terminal file descriptor for password input, or -1 when
	// input is not a terminal.
	fd int
}

// NewPrompter creates a prompter over reader and writer. Nil values mean
// stdin and stdout; only stdin can read passwords without echo.
func NewPrompter(reader io.Reader, writer io.Writer) *Prompter {
	fd := -1
	if reader == nil {
		reader = os.Stdin
		if term.IsTerminal(int(os.Stdin.Fd())) {
			fd = int(os.Stdin.Fd())
		}
	}
	if writer == nil {
		writer = os.Stdout
	}
	return &Prompter{
		reader: NewNonBlockingReader(reader),
		writer: writer,
		fd:     fd,
	}
}

// Ask reads a line. An empty answer yields def.
func (p *Prompter) Ask(ctx context.Context, label, def string) (string, error) {
	prompt := label
	if def != "" {
		prompt += " " + SubtleStyle.Render("["+def+"]")
	}
	if _, err := fmt.Fprint(p.writer, FormatPrompt(prompt)); err != nil {
		return "", fmt.Errorf("failed to write prompt: %w", err)
	}

	answer, err := p.reader.ReadLine(ctx)
	if err != nil {
		return "", err
	}
	if answer == "" {
		return def, nil
	}
	return answer, nil
}

// Require reads a non-empty line.
func (p *Prompter) Require(ctx context.Context, label string) (string, error) {
	answer, err := p.Ask(ctx, label, "")
	if err != nil {
		return "", err
	}
	if answer == "" {
		return "", fmt.Errorf("%s: %w", label, ErrEmptyInput)
	}
	return answer, nil
}

// Confirm asks a yes/no question. Anything but s/sim/y/yes is no.
func (p *Prompter) Confirm(ctx context.Context, question string) (bool, error) {
	answer, err := p.Ask(ctx, question+" (s/N)", "")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "s", "sim", "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// Password reads a secret without echo when input is a terminal.
func (p *Prompter) Password(ctx context.Context, label string) (string, error) {
	if p.fd < 0 {
		return p.Require(ctx, label)
	}

	if _, err := fmt.Fprint(p.writer, FormatPrompt(label)); err != nil {
		return "", fmt.Errorf("failed to write prompt: %w", err)
	}
	secret, err := term.ReadPassword(p.fd)
	_, _ = fmt.Fprintln(p.writer)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	if len(secret) == 0 {
		return "", fmt.Errorf("%s: %w", label, ErrEmptyInput)
	}
	return string(secret), nil
}

// NewProgress creates a progress bar for total steps.
func NewProgress(w io.Writer, total int, description string) *progressbar.ProgressBar {
	if w == nil {
		w = os.Stderr
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[green][bold]"+description+"[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]█[reset]",
			SaucerHead:    "[green]█[reset]",
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionOnCompletion(func() {
			_, _ = fmt.Fprintln(w)
		}),
	)
}
