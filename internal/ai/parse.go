// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ai

import (
	"strings"

	"github.com/sciencetwins/twin-engine/pkg/types"
)

// ParseVerdict interprets the three-line verdict format:
//
//	Yes|No
//	<scientific domain>
//	<justification>
//
// The upstream format is a fragile service contract, so the parse is
// tolerant: blank lines are skipped, and a response with fewer than three
// usable lines yields a negative verdict rather than an error.
func ParseVerdict(raw string) types.DoppelgangerVerdict {
	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) < 3 {
		return types.DoppelgangerVerdict{}
	}
	return types.DoppelgangerVerdict{
		IsMatch: strings.EqualFold(lines[0], "yes"),
		Domain:  lines[1],
		Reason:  lines[2],
	}
}
