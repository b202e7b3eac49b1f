package spice

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseSimCmd reads a simulation command such as ".ac dec 10 1k 100g",
// ".tran 1n 1u" or ".op". The leading dot is optional.
func ParseSimCmd(line string) (SimCmd, error) {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) < 1 {
		return SimCmd{}, fmt.Errorf("empty simulation command")
	}

	var (
		cmd SimCmd
		err error
	)

	switch strings.TrimPrefix(fields[0], ".") {
	case "op":
		cmd.Analysis = AnalysisOP

	case "tran":
		cmd.Analysis = AnalysisTran
		if len(fields) < 3 {
			return SimCmd{}, fmt.Errorf(
				"insufficient tran parameters, need tstep and tstop")
		}
		if cmd.TStep, err = ParseValue(fields[1]); err != nil {
			return SimCmd{}, fmt.Errorf("invalid tstep: %w", err)
		}
		if cmd.TStop, err = ParseValue(fields[2]); err != nil {
			return SimCmd{}, fmt.Errorf("invalid tstop: %w", err)
		}

	case "ac":
		cmd.Analysis = AnalysisAC
		if len(fields) < 5 {
			return SimCmd{}, fmt.Errorf("insufficient ac parameters, " +
				"need sweep type, points, fstart and fstop")
		}

		cmd.Sweep = fields[1]
		if cmd.Points, err = strconv.Atoi(fields[2]); err != nil {
			return SimCmd{}, fmt.Errorf("invalid points number: %w", err)
		}
		if cmd.FStart, err = ParseValue(fields[3]); err != nil {
			return SimCmd{}, fmt.Errorf("invalid fstart: %w", err)
		}
		if cmd.FStop, err = ParseValue(fields[4]); err != nil {
			return SimCmd{}, fmt.Errorf("invalid fstop: %w", err)
		}

	default:
		return SimCmd{}, fmt.Errorf("unsupported analysis type: %s", fields[0])
	}

	if _, err := cmd.Line(); err != nil {
		return SimCmd{}, err
	}

	return cmd, nil
}
