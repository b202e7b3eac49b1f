package filter

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sarchlab/filterkit/spice"
)

// ErrUnknownModel is returned by ParseModel for names it does not know.
var ErrUnknownModel = errors.New("unknown model")

// A Model decides how a filter computes its outputs. The set of models is
// closed: SoftwareModel, BehavioralModel and SpiceModel.
type Model interface {
	Name() string

	execute(ctx context.Context, f *Filter) error
}

// SoftwareModel runs the designer supplied Main. A nil Main does nothing.
//
// Main should read the input ports into local variables, process them, and
// only then assign the outputs, so that processing stays isolated from the
// IO assignments.
type SoftwareModel struct {
	Main func(ctx context.Context, f *Filter) error
}

// Name returns "software".
func (SoftwareModel) Name() string {
	return "software"
}

func (m SoftwareModel) execute(ctx context.Context, f *Filter) error {
	if m.Main == nil {
		return nil
	}

	return m.Main(ctx, f)
}

// ParseModel returns the model with the given name. The spice model uses the
// given simulator, which may be nil for the other models.
func ParseModel(name string, simulator *spice.Simulator) (Model, error) {
	switch strings.ToLower(name) {
	case "software", "py":
		return SoftwareModel{}, nil
	case "behavioral":
		return BehavioralModel{}, nil
	case "spice", "ngspice", "spectre":
		return SpiceModel{Simulator: simulator}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownModel, name)
	}
}

// ModelNames lists the canonical model names accepted by ParseModel.
func ModelNames() []string {
	return []string{"software", "behavioral", "spice"}
}
