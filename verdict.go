package memcheck

import "fmt"

// Level is the severity reported to the monitoring system.
type Level int

const (
	LevelOK Level = iota
	LevelWarning
	LevelCritical
)

func (l Level) String() string {
	switch l {
	case LevelOK:
		return "OK"
	case LevelWarning:
		return "WARNING"
	case LevelCritical:
		return "CRITICAL"
	default:
		return fmt.Sprintf("Level(%d)", int(l))
	}
}

// ExitCode returns the process exit status for the level: 0, 1 or 2.
// Unknown levels map to 2.
func (l Level) ExitCode() int {
	switch l {
	case LevelOK:
		return 0
	case LevelWarning:
		return 1
	default:
		return 2
	}
}

// Verdict is the outcome of one probe run.
type Verdict struct {
	Level   Level
	Message string

	// Snapshot is set when memory figures were obtained.
	Snapshot *MemorySnapshot

	// Err is the failure that forced a CRITICAL verdict, if any.
	Err error
}

// ExitCode returns the process exit status for the verdict.
func (v Verdict) ExitCode() int {
	return v.Level.ExitCode()
}

func (v Verdict) String() string {
	return v.Message
}

// Thresholds are usage percentages above which a level is raised.
type Thresholds struct {
	Warn     float64
	Critical float64
}

// Evaluate classifies snap against t.
//
// Levels use strict comparisons, critical first: a usage exactly equal to a
// threshold does not raise that level. A zero limit returns
// *ConfiguredLimitError.
func Evaluate(snap MemorySnapshot, t Thresholds) (Verdict, error) {
	if snap.LimitBytes == 0 {
		return Verdict{}, &ConfiguredLimitError{}
	}

	pct := snap.UsedPercent()

	level := LevelOK
	switch {
	case pct > t.Critical:
		level = LevelCritical
	case pct > t.Warn:
		level = LevelWarning
	}

	return Verdict{
		Level:    level,
		Message:  fmt.Sprintf("%s: %s memory usage is %s", level, subsystem, snap),
		Snapshot: &snap,
	}, nil
}

const subsystem = "Redis"
