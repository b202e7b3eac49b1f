package spice

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ErrSimulatorFailed wraps every failure of the external simulator process.
var ErrSimulatorFailed = errors.New("external simulator failed")

// LogFileName is the simulator log written next to the deck.
const LogFileName = "tb.log"

// An Executor launches the external simulator on a deck stored in a work
// directory.
type Executor interface {
	Execute(ctx context.Context, workDir, deckFile string) error
}

// NgspiceExecutor runs ngspice in batch mode.
type NgspiceExecutor struct {
	Binary    string
	ExtraArgs []string
}

// NewNgspiceExecutor creates an executor for the given binary. An empty
// binary means "ngspice" from PATH.
func NewNgspiceExecutor(binary string) *NgspiceExecutor {
	if binary == "" {
		binary = "ngspice"
	}

	return &NgspiceExecutor{Binary: binary}
}

// Execute runs the simulator and waits for it to exit.
func (e *NgspiceExecutor) Execute(
	ctx context.Context,
	workDir, deckFile string,
) error {
	args := append([]string{"-b", "-o", LogFileName}, e.ExtraArgs...)
	args = append(args, deckFile)

	cmd := exec.CommandContext(ctx, e.Binary, args...)
	cmd.Dir = workDir

	output, err := cmd.CombinedOutput()
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("%w: %s: %w", ErrSimulatorFailed, e.Binary, ctx.Err())
		}

		return fmt.Errorf("%w: %s: %v\n%s", ErrSimulatorFailed, e.Binary, err,
			logTail(workDir, output))
	}

	return nil
}

func logTail(workDir string, fallback []byte) string {
	const maxLines = 20

	content, err := os.ReadFile(filepath.Join(workDir, LogFileName))
	if err != nil || len(content) == 0 {
		content = fallback
	}

	lines := strings.Split(strings.TrimRight(string(content), "\n"), "\n")
	if len(lines) > maxLines {
		lines = lines[len(lines)-maxLines:]
	}

	return strings.Join(lines, "\n")
}
