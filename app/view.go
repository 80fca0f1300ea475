package app

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"task-manager/models"
)

// Collation is the locale descriptions are ordered in.
var Collation = language.Und

// Visible applies filter, then search, then sort to the local task list.
func (s State) Visible() []models.Task {
	term := strings.ToLower(s.Search)
	out := make([]models.Task, 0, len(s.Tasks))
	for _, t := range s.Tasks {
		if !s.Filter.Match(t) {
			continue
		}
		if !strings.Contains(strings.ToLower(t.Description), term) {
			continue
		}
		out = append(out, t)
	}
	SortTasks(out, s.SortBy)
	return out
}

// SortTasks orders tasks in place. Unknown keys leave the order unchanged.
func SortTasks(tasks []models.Task, key SortKey) {
	var less func(a, b models.Task) bool
	switch key {
	case SortCreatedAsc:
		less = func(a, b models.Task) bool { return a.CreatedAt.Before(b.CreatedAt) }
	case SortCreatedDesc:
		less = func(a, b models.Task) bool { return b.CreatedAt.Before(a.CreatedAt) }
	case SortDescriptionAsc, SortDescriptionDesc:
		col := collate.New(Collation)
		desc := key == SortDescriptionDesc
		less = func(a, b models.Task) bool {
			c := col.CompareString(a.Description, b.Description)
			if desc {
				return c > 0
			}
			return c < 0
		}
	default:
		return
	}
	sort.SliceStable(tasks, func(i, j int) bool { return less(tasks[i], tasks[j]) })
}

// EmptyMessage is shown when nothing is visible and no request is running.
func (s State) EmptyMessage() string {
	if s.Search != "" {
		return "No tasks found for this query."
	}
	switch s.Filter {
	case FilterCompleted:
		return "No completed tasks."
	case FilterIncomplete:
		return "No active tasks."
	default:
		return "No tasks. Add the first one!"
	}
}
