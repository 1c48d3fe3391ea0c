package views

import (
	"sort"
	"strings"

	"github.com/GregMSThompson/widget-dashboard/internal/models"
)

// Filter keeps widgets whose name contains query, ignoring case and
// surrounding whitespace, and returns them sorted by Order. Widgets without a
// name never match a non-empty query.
func Filter(widgets []models.Widget, query string) []models.Widget {
	q := strings.ToLower(strings.TrimSpace(query))

	out := make([]models.Widget, 0, len(widgets))
	for _, w := range widgets {
		if q != "" && (w.Name == nil || !strings.Contains(strings.ToLower(*w.Name), q)) {
			continue
		}
		out = append(out, w.Clone())
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}
