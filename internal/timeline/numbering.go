package timeline

import (
	"sort"
	"strconv"
	"strings"

	"github.com/daniswara/board/internal/models"
)

// GeneralGroup is the group number used for tasks without a known project.
const GeneralGroup = 0

// ProjectIndex returns the 1-based position of every project ordered by
// creation time. Ties keep their input order. A repeated id keeps its first
// position and takes no slot of its own.
func ProjectIndex(projects []models.Project) map[string]int {
	sorted := make([]models.Project, len(projects))
	copy(sorted, projects)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})

	index := make(map[string]int, len(sorted))
	next := 1
	for _, p := range sorted {
		if _, dup := index[p.ID]; dup {
			continue
		}
		index[p.ID] = next
		next++
	}
	return index
}

// AssignNumbers labels every task "<group>.<seq>". Tasks whose project is
// missing from projects fall into group 0 with the unassigned tasks. Within
// a group tasks are ordered by creation time, ties by input order.
func AssignNumbers(tasks []models.Task, projects []models.Project) map[string]string {
	projectNums := ProjectIndex(projects)

	groups := make(map[int][]models.Task)
	for _, t := range tasks {
		g := GeneralGroup
		if n, ok := projectNums[t.ProjectID]; ok && t.ProjectID != "" {
			g = n
		}
		groups[g] = append(groups[g], t)
	}

	numbers := make(map[string]string, len(tasks))
	for g, group := range groups {
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].CreatedAt.Before(group[j].CreatedAt)
		})
		prefix := strconv.Itoa(g) + "."
		for i, t := range group {
			numbers[t.ID] = prefix + strconv.Itoa(i+1)
		}
	}
	return numbers
}

// FindByNumber returns the id of the task labelled number.
func FindByNumber(numbers map[string]string, number string) (string, bool) {
	number = strings.TrimSpace(number)
	for id, n := range numbers {
		if n == number {
			return id, true
		}
	}
	return "", false
}

// CompareNumbers orders display numbers numerically by group, then sequence.
// Malformed numbers sort last.
func CompareNumbers(a, b string) int {
	ag, as, aok := splitNumber(a)
	bg, bs, bok := splitNumber(b)
	switch {
	case !aok && !bok:
		return strings.Compare(a, b)
	case !aok:
		return 1
	case !bok:
		return -1
	case ag != bg:
		return ag - bg
	default:
		return as - bs
	}
}

func splitNumber(n string) (group, seq int, ok bool) {
	g, s, found := strings.Cut(n, ".")
	if !found {
		return 0, 0, false
	}
	group, err := strconv.Atoi(g)
	if err != nil {
		return 0, 0, false
	}
	seq, err = strconv.Atoi(s)
	if err != nil {
		return 0, 0, false
	}
	return group, seq, true
}
