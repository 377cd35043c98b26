// SPDX-FileCopyrightText: 2026 rereserve contributors
// SPDX-License-Identifier: Apache-2.0

package domain

import (
	"regexp"
	"sync"
	"time"
)

// conflictTimeLayout matches the backend diagnostic's timestamp rendering,
// e.g. "2021-01-01 12:00:00+00".
const conflictTimeLayout = "2006-01-02 15:04:05-07"

var (
	conflictRegexOnce sync.Once
	conflictRegex     *regexp.Regexp
)

func getConflictRegex() *regexp.Regexp {
	conflictRegexOnce.Do(func() {
		conflictRegex = regexp.MustCompile(
			`\(resource_id, timespan\)=\((\w+), \["([\d-]+\s[\d:+]+)","([\d-]+\s[\d:+]+)"\)\)`,
		)
	})
	return conflictRegex
}

// ConflictWindow is one side of a parsed conflict diagnostic.
type ConflictWindow struct {
	ResourceID string
	Start      time.Time
	End        time.Time
}

// ConflictInfo is the result of parsing a persistence-layer exclusion-index
// violation diagnostic: either a structured Parsed pair (the attempted-new
// window and the pre-existing one it collided with), or the original text
// when the diagnostic grammar didn't match. This is a best-effort
// classifier; a reserve call must never fail because parsing failed (spec
// §9 design note).
type ConflictInfo struct {
	Parsed bool
	New    ConflictWindow
	Old    ConflictWindow
	Raw    string
}

// ParseConflict extracts two occurrences of the pattern
// `(resource_id, timespan)=(<id>, ["<ts1>","<ts2>"))` from a free-form
// diagnostic string. The first match is the attempted-new window; the
// second is the pre-existing one. Any parse failure degrades to Raw.
func ParseConflict(diagnostic string) ConflictInfo {
	matches := getConflictRegex().FindAllStringSubmatch(diagnostic, 2)
	if len(matches) != 2 {
		return ConflictInfo{Raw: diagnostic}
	}

	newWindow, ok := parseConflictWindow(matches[0])
	if !ok {
		return ConflictInfo{Raw: diagnostic}
	}
	oldWindow, ok := parseConflictWindow(matches[1])
	if !ok {
		return ConflictInfo{Raw: diagnostic}
	}

	return ConflictInfo{Parsed: true, New: newWindow, Old: oldWindow}
}

func parseConflictWindow(m []string) (ConflictWindow, bool) {
	start, err := time.Parse(conflictTimeLayout, m[2])
	if err != nil {
		return ConflictWindow{}, false
	}
	end, err := time.Parse(conflictTimeLayout, m[3])
	if err != nil {
		return ConflictWindow{}, false
	}
	return ConflictWindow{
		ResourceID: m[1],
		Start:      start.UTC(),
		End:        end.UTC(),
	}, true
}
