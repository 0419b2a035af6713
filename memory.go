package memcheck

import (
	"fmt"
	"strconv"
)

// INFO fields read by the probe
const (
	FieldUsedMemoryRSS = "used_memory_rss"
	FieldUsedMemory    = "used_memory"
	FieldMaxMemory     = "maxmemory"
)

const bytesPerMB = 1024 * 1024

// MemorySnapshot is the memory usage extracted from a StatusReport.
type MemorySnapshot struct {
	UsedBytes  uint64
	LimitBytes uint64
	UsedField  string // field UsedBytes was taken from
}

// SnapshotFromReport extracts memory usage from report.
//
// UsedBytes prefers the resident set size and falls back to the allocator
// figure when RSS is absent or not a number. LimitBytes is 0 when maxmemory
// is absent or not a number; Evaluate rejects a zero limit.
func SnapshotFromReport(report StatusReport) (MemorySnapshot, error) {
	var snap MemorySnapshot

	if v, ok := parseField(report, FieldUsedMemoryRSS); ok {
		snap.UsedBytes = v
		snap.UsedField = FieldUsedMemoryRSS
	} else {
		raw, present := report.Lookup(FieldUsedMemory)
		if !present {
			return snap, &MissingFieldError{Field: FieldUsedMemory}
		}
		v, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return snap, &InvalidFieldError{Field: FieldUsedMemory, Value: raw, Err: err}
		}
		snap.UsedBytes = v
		snap.UsedField = FieldUsedMemory
	}

	if v, ok := parseField(report, FieldMaxMemory); ok {
		snap.LimitBytes = v
	}

	return snap, nil
}

func parseField(report StatusReport, field string) (uint64, bool) {
	raw, ok := report.Lookup(field)
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// UsedMB returns UsedBytes in whole megabytes, rounded down.
func (s MemorySnapshot) UsedMB() uint64 {
	return s.UsedBytes / bytesPerMB
}

// LimitMB returns LimitBytes in whole megabytes, rounded down.
func (s MemorySnapshot) LimitMB() uint64 {
	return s.LimitBytes / bytesPerMB
}

// UsedPercent returns 100 * UsedBytes / LimitBytes.
// It is only meaningful when LimitBytes is not 0.
func (s MemorySnapshot) UsedPercent() float64 {
	// Multiply first so whole percentages come out exact
	return float64(s.UsedBytes) * 100 / float64(s.LimitBytes)
}

func (s MemorySnapshot) String() string {
	return fmt.Sprintf("%dMB / %dMB (%.2f%%)", s.UsedMB(), s.LimitMB(), s.UsedPercent())
}
