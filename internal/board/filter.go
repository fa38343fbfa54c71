package board

import (
	"strings"

	"github.com/daniswara/board/internal/models"
)

// AllDivisions disables the division filter.
const AllDivisions = "All"

// Filter narrows the tasks shown on the Gantt chart. It never affects
// numbering, which is computed over every task.
type Filter struct {
	// Division matches case-insensitively after trimming; "" or "All" shows
	// every division. Tasks without a division count as General.
	Division string `json:"division,omitempty"`
	// ShowCompleted keeps completed and finalized tasks.
	ShowCompleted bool `json:"show_completed"`
}

// Apply returns the tasks passing f, in their original order.
func (f Filter) Apply(tasks []models.Task) []models.Task {
	want := strings.ToLower(strings.TrimSpace(f.Division))
	all := want == "" || want == strings.ToLower(AllDivisions)

	out := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if !f.ShowCompleted && t.IsDone() {
			continue
		}
		if !all && strings.ToLower(string(t.Division.OrGeneral())) != want {
			continue
		}
		out = append(out, t)
	}
	return out
}
