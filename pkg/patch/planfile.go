package patch

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// PlanVersion is the plan file format version this build reads.
const PlanVersion = 1

// planFile mirrors the YAML document shape.
type planFile struct {
	Version int  `yaml:"version"`
	Ops     []Op `yaml:"ops"`
}

// LoadPlan reads and parses a plan file.
func LoadPlan(path string) (Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Plan{}, fmt.Errorf("read plan %s: %w", path, err)
	}
	plan, err := ParsePlan(data)
	if err != nil {
		return Plan{}, fmt.Errorf("%s: %w", path, err)
	}
	return plan, nil
}

// ParsePlan parses plan YAML. Unknown fields and unknown kinds are load
// errors: a typo in a plan file should fail loudly before any file is
// touched, not silently change what the run does.
func ParsePlan(data []byte) (Plan, error) {
	var pf planFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&pf); err != nil {
		if errors.Is(err, io.EOF) {
			return Plan{}, fmt.Errorf("%w: empty plan file", ErrPlanInvalid)
		}
		return Plan{}, fmt.Errorf("%w: %v", ErrPlanInvalid, err)
	}

	if pf.Version != 0 && pf.Version != PlanVersion {
		return Plan{}, fmt.Errorf("%w: unsupported plan version %d (this build reads version %d)",
			ErrPlanInvalid, pf.Version, PlanVersion)
	}

	plan := Plan{Ops: make([]Op, 0, len(pf.Ops))}
	for i, op := range pf.Ops {
		if op.Kind == "" {
			return Plan{}, fmt.Errorf("%w: op %d: missing kind", ErrPlanInvalid, i+1)
		}
		kind, err := ParseKind(string(op.Kind))
		if err != nil {
			return Plan{}, fmt.Errorf("%w: op %d: %v", ErrPlanInvalid, i+1, err)
		}
		op.Kind = kind
		if err := op.Validate(); err != nil {
			return Plan{}, fmt.Errorf("%w: op %d: %v", ErrPlanInvalid, i+1, err)
		}
		plan.Ops = append(plan.Ops, op)
	}

	return plan, nil
}
