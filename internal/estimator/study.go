package estimator

import (
	"fmt"
	"strings"
)

// StudyKind identifies one of the power-system studies that can be priced.
type StudyKind int

const (
	LoadFlow StudyKind = iota
	ShortCircuit
	ProtectiveDeviceCoordination
	ArcFlash
	Harmonics
	Transient
)

var studyTable = [...]struct {
	id                string
	name              string
	hoursPerBus       float64
	reportCost        float64
	includedByDefault bool
}{
	LoadFlow:                     {"load_flow", "Load Flow Study", 0.8, 15000, true},
	ShortCircuit:                 {"short_circuit", "Short Circuit Study", 1.0, 15000, true},
	ProtectiveDeviceCoordination: {"pdc", "Protective Device Coordination", 1.5, 20000, true},
	ArcFlash:                     {"arc_flash", "Arc Flash Study", 1.2, 20000, true},
	Harmonics:                    {"harmonics", "Harmonic Analysis", 1.0, 15000, false},
	Transient:                    {"transient", "Transient Stability Analysis", 1.4, 18000, false},
}

// AllStudyKinds lists every study kind in display order.
func AllStudyKinds() []StudyKind {
	return []StudyKind{LoadFlow, ShortCircuit, ProtectiveDeviceCoordination, ArcFlash, Harmonics, Transient}
}

func (k StudyKind) valid() bool {
	return k >= LoadFlow && k <= Transient
}

// ID is the stable key used in configuration files.
func (k StudyKind) ID() string {
	if !k.valid() {
		return fmt.Sprintf("study_%d", int(k))
	}
	return studyTable[k].id
}

func (k StudyKind) String() string {
	if !k.valid() {
		return k.ID()
	}
	return studyTable[k].name
}

// BaseHoursPerBus is the default engineering effort per bus.
func (k StudyKind) BaseHoursPerBus() float64 {
	if !k.valid() {
		return 0
	}
	return studyTable[k].hoursPerBus
}

// DefaultReportCost is the flat report cost before the format multiplier.
func (k StudyKind) DefaultReportCost() float64 {
	if !k.valid() {
		return 0
	}
	return studyTable[k].reportCost
}

// ParseStudyKind resolves a configuration key such as "arc_flash" or "PDC".
func ParseStudyKind(value string) (StudyKind, error) {
	key := strings.ToLower(strings.TrimSpace(value))
	key = strings.NewReplacer("-", "_", " ", "_").Replace(key)
	for _, kind := range AllStudyKinds() {
		if studyTable[kind].id == key {
			return kind, nil
		}
	}
	switch key {
	case "loadflow", "lf":
		return LoadFlow, nil
	case "shortcircuit", "sc":
		return ShortCircuit, nil
	case "protective_device_coordination", "coordination":
		return ProtectiveDeviceCoordination, nil
	case "arcflash", "af":
		return ArcFlash, nil
	case "harmonic":
		return Harmonics, nil
	case "transients", "transient_stability":
		return Transient, nil
	}
	return 0, fmt.Errorf("unknown study %q", value)
}

// StudySpec configures one study line.
type StudySpec struct {
	Kind             StudyKind
	BaseHoursPerBus  float64
	ComplexityFactor float64
	ReportCost       float64
	Included         bool
}

// NewStudySpec returns the default spec for kind.
func NewStudySpec(kind StudyKind, included bool) StudySpec {
	return StudySpec{
		Kind:             kind,
		BaseHoursPerBus:  kind.BaseHoursPerBus(),
		ComplexityFactor: 1.0,
		ReportCost:       kind.DefaultReportCost(),
		Included:         included,
	}
}

// DefaultStudies returns all six studies with load flow, short circuit, PDC
// and arc flash included.
func DefaultStudies() []StudySpec {
	specs := make([]StudySpec, 0, len(studyTable))
	for _, kind := range AllStudyKinds() {
		specs = append(specs, NewStudySpec(kind, studyTable[kind].includedByDefault))
	}
	return specs
}

// IncludedCount returns how many specs are selected.
func IncludedCount(specs []StudySpec) int {
	n := 0
	for _, s := range specs {
		if s.Included {
			n++
		}
	}
	return n
}
