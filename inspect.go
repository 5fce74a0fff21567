package dbg

import (
	"strings"

	"github.com/davecgh/go-spew/spew"
)

// inspectConfig renders structural values. Pointer addresses and capacities
// are left out so the same value always renders the same text; spew marks
// circular references instead of following them.
var inspectConfig = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// Inspect returns a human readable structural dump of v. With singleLine the
// dump is collapsed to one line: every line is trimmed and the lines are
// joined with single spaces.
func Inspect(v any, singleLine bool) string {
	dump := strings.TrimRight(inspectConfig.Sdump(v), "\n")
	if !singleLine {
		return dump
	}
	lines := strings.Split(dump, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return strings.Join(lines, " ")
}
