package memcheck

import "strings"

// StatusReport is the flat key/value view of an INFO reply.
type StatusReport map[string]string

// ParseStatusReport builds a StatusReport from INFO text.
//
// Each line is split at its first ':'; further colons stay in the value.
// Lines without a colon (section headers, blank lines) are skipped and a
// repeated key keeps its last value. It never fails: bad input simply
// yields fewer fields.
func ParseStatusReport(text string) StatusReport {
	report := make(StatusReport)

	for line := range strings.Lines(text) {
		line = strings.TrimSuffix(line, "\n")
		line = strings.TrimSuffix(line, "\r")

		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		report[key] = value
	}

	return report
}

// Lookup returns the value of key and whether it was present.
func (r StatusReport) Lookup(key string) (string, bool) {
	v, ok := r[key]
	return v, ok
}
