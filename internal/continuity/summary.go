package continuity

import (
	"fmt"
	"strings"
)

// Summary renders a human-readable breakdown of the shot grouping, used in
// logs and plan reports.
func Summary(annotations []Annotation) string {
	if len(annotations) == 0 {
		return "no scenes"
	}

	var b strings.Builder
	currentGroup := 0
	for _, a := range annotations {
		if a.GroupID != currentGroup {
			currentGroup = a.GroupID
			count := 0
			for _, other := range annotations {
				if other.GroupID == currentGroup {
					count++
				}
			}
			fmt.Fprintf(&b, "shot group %d (%d shots)\n", currentGroup, count)
		}
		fmt.Fprintf(&b, "  shot %d: %s -> %s\n", a.Scene.Number, a.Scene.Description, strings.ToUpper(string(a.Transition)))
	}
	return strings.TrimRight(b.String(), "\n")
}
