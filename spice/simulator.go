package spice

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/xid"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/filterkit/sim"
)

// A Simulator prepares work directories, renders decks, runs an Executor and
// imports the extracted waveforms.
type Simulator struct {
	executor Executor
	workRoot string
}

// NewSimulator creates a Simulator. Work directories are created under
// workRoot, or under the system temporary directory when workRoot is empty.
func NewSimulator(executor Executor, workRoot string) *Simulator {
	if workRoot == "" {
		workRoot = os.TempDir()
	}

	return &Simulator{
		executor: executor,
		workRoot: workRoot,
	}
}

// WorkRoot returns the directory that holds the per-run work directories.
func (s *Simulator) WorkRoot() string {
	return s.workRoot
}

// Run simulates the configuration and returns the extracted data keyed by
// IO file name.
func (s *Simulator) Run(
	ctx context.Context,
	cfg *Config,
) (map[string]*sim.IO, error) {
	workDir := filepath.Join(s.workRoot, "filterkit_spice_"+xid.New().String())
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating work directory: %w", err)
	}
	defer s.cleanup(cfg, workDir)

	if err := s.writeDeck(cfg, workDir); err != nil {
		return nil, err
	}

	if err := s.executor.Execute(ctx, workDir, DeckFileName); err != nil {
		return nil, err
	}

	return s.importOutputs(cfg, workDir)
}

func (s *Simulator) writeDeck(cfg *Config, workDir string) error {
	file, err := os.Create(filepath.Join(workDir, DeckFileName))
	if err != nil {
		return fmt.Errorf("creating deck: %w", err)
	}
	defer file.Close()

	if err := cfg.WriteDeck(file); err != nil {
		return fmt.Errorf("rendering deck: %w", err)
	}

	return nil
}

func (s *Simulator) importOutputs(
	cfg *Config,
	workDir string,
) (map[string]*sim.IO, error) {
	outputs := make(map[string]*sim.IO)

	for _, f := range cfg.OutputFiles() {
		io, err := s.importOutput(f, workDir)
		if err != nil {
			return nil, err
		}

		outputs[f.Name] = io
	}

	return outputs, nil
}

func (s *Simulator) importOutput(f IOFile, workDir string) (*sim.IO, error) {
	file, err := os.Open(filepath.Join(workDir, f.FileName()))
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrNoOutput, f.FileName())
	} else if err != nil {
		return nil, err
	}
	defer file.Close()

	return ReadWaveform(file, f)
}

func (s *Simulator) cleanup(cfg *Config, workDir string) {
	if cfg.PreserveSpiceFiles || cfg.PreserveIOFiles {
		fmt.Fprintf(os.Stderr, "Simulation files preserved in %s\n", workDir)
		atexit.Register(func() { s.prune(cfg, workDir) })

		return
	}

	os.RemoveAll(workDir)
}

// prune removes the files that were not asked to be preserved.
func (s *Simulator) prune(cfg *Config, workDir string) {
	if !cfg.PreserveSpiceFiles {
		os.Remove(filepath.Join(workDir, DeckFileName))
		os.Remove(filepath.Join(workDir, LogFileName))
	}

	if !cfg.PreserveIOFiles {
		for _, f := range cfg.IOFiles {
			os.Remove(filepath.Join(workDir, f.FileName()))
		}
	}
}
