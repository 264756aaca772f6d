package stats

import "sort"

// Table names of the built-in catalog.
const (
	TableRegionDepth  = "region_depth"
	TableCornerPoint  = "corner_point"
	TableDmmModes     = "dmm_modes"
	TableDmmModeOne   = "dmm_mode_one"
	TableDmmTime      = "dmm_time"
	TableEngineEvents = "engine_events"
	TableValidation   = "validation"
	TableEncodeTime   = "encode_time"
)

// DefaultRegionDepthFile is the well-known append target of the region/depth table.
const DefaultRegionDepthFile = "LCUAnalysis.xls"

// Region axis indexes.
const (
	RegionCorner = iota
	RegionNonCorner
)

// Engine event axis indexes.
const (
	EventHardware = iota
	EventInitialization
	EventStageProgress
	EventCropResult
	EventEncodingConfig
	EventEncodingStarted
	EventEncodingProgress
	EventValidation
	EventEncodingComplete
	EventWarning
	EventError
	EventOperationComplete
)

// Validation outcome axis indexes.
const (
	OutcomePassed = iota
	OutcomeFailed
)

var engineEventLabels = []string{
	"hardware",
	"initialization",
	"stage_progress",
	"crop_result",
	"encoding_config",
	"encoding_started",
	"encoding_progress",
	"validation",
	"encoding_complete",
	"warning",
	"error",
	"operation_complete",
}

// Flags selects which groups of built-in tables exist for a run.
type Flags struct {
	RegionDepth  bool
	CornerPoint  bool
	DmmModes     bool
	DmmTiming    bool
	EngineEvents bool
}

// Any reports whether at least one table group is enabled.
func (f Flags) Any() bool {
	return f.RegionDepth || f.CornerPoint || f.DmmModes || f.DmmTiming || f.EngineEvents
}

// Definition describes a catalog table and the flag that enables it.
type Definition struct {
	Name    string
	Kind    Kind
	Axes    []Axis
	Sink    SinkSpec
	enabled func(Flags) bool
}

// Enabled reports whether the definition is switched on by flags.
func (d Definition) Enabled(flags Flags) bool {
	return d.enabled != nil && d.enabled(flags)
}

// Catalog returns the built-in table definitions in report order.
func Catalog() []Definition {
	return []Definition{
		{
			Name: TableRegionDepth,
			Kind: KindCount,
			Axes: []Axis{
				{Name: "region", Labels: []string{"corner", "non-corner"}},
				IndexedAxis("predictor", 4),
				IndexedAxis("depth", 4),
			},
			Sink:    SinkSpec{Target: TargetFile, Path: DefaultRegionDepthFile},
			enabled: func(f Flags) bool { return f.RegionDepth },
		},
		{
			Name:    TableCornerPoint,
			Kind:    KindCount,
			Axes:    []Axis{IndexedAxis("layer", 6)},
			Sink:    SinkSpec{Target: TargetStdout},
			enabled: func(f Flags) bool { return f.CornerPoint },
		},
		{
			Name: TableDmmModeOne,
			Kind: KindCount,
			Sink: SinkSpec{Target: TargetStdout},
			enabled: func(f Flags) bool {
				return f.DmmModes
			},
		},
		{
			Name: TableDmmModes,
			Kind: KindCount,
			Axes: []Axis{
				{Name: "stage", Labels: []string{"original", "candidate", "ob1", "final"}},
				IndexedAxis("mode", 4),
			},
			Sink:    SinkSpec{Target: TargetStdout},
			enabled: func(f Flags) bool { return f.DmmModes },
		},
		{
			Name:    TableDmmTime,
			Kind:    KindDuration,
			Sink:    SinkSpec{Target: TargetStdout},
			enabled: func(f Flags) bool { return f.DmmTiming },
		},
		{
			Name:    TableEngineEvents,
			Kind:    KindCount,
			Axes:    []Axis{{Name: "event", Labels: append([]string(nil), engineEventLabels...)}},
			Sink:    SinkSpec{Target: TargetStdout},
			enabled: func(f Flags) bool { return f.EngineEvents },
		},
		{
			Name:    TableValidation,
			Kind:    KindCount,
			Axes:    []Axis{{Name: "outcome", Labels: []string{"passed", "failed"}}},
			Sink:    SinkSpec{Target: TargetStdout},
			enabled: func(f Flags) bool { return f.EngineEvents },
		},
		{
			Name:    TableEncodeTime,
			Kind:    KindDuration,
			Sink:    SinkSpec{Target: TargetStdout},
			enabled: func(f Flags) bool { return f.EngineEvents },
		},
	}
}

// IsKnownTable reports whether name is part of the built-in catalog.
func IsKnownTable(name string) bool {
	for _, def := range Catalog() {
		if def.Name == name {
			return true
		}
	}
	return false
}

// TableNames returns the catalog table names sorted alphabetically.
func TableNames() []string {
	defs := Catalog()
	names := make([]string, 0, len(defs))
	for _, def := range defs {
		names = append(names, def.Name)
	}
	sort.Strings(names)
	return names
}
