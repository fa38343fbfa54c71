package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/daniswara/board/internal/board"
	"github.com/daniswara/board/internal/controlplane"
	"github.com/daniswara/board/internal/models"
	"github.com/daniswara/board/internal/timeline"
	"github.com/spf13/cobra"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage tasks",
}

var taskAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a new task",
	RunE:  runTaskAdd,
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks in board order",
	RunE:  runTaskList,
}

var taskShowCmd = &cobra.Command{
	Use:   "show [task]",
	Short: "Show task details",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskShow,
}

var taskDoneCmd = &cobra.Command{
	Use:   "done [task]",
	Short: "Mark a task completed",
	Args:  cobra.ExactArgs(1),
	RunE:  func(cmd *cobra.Command, args []string) error { return setCompleted(args[0], true) },
}

var taskUndoneCmd = &cobra.Command{
	Use:   "undone [task]",
	Short: "Reopen a completed task",
	Args:  cobra.ExactArgs(1),
	RunE:  func(cmd *cobra.Command, args []string) error { return setCompleted(args[0], false) },
}

var taskStatusCmd = &cobra.Command{
	Use:   "status [task] [draft|eksekusi|review|finalisasi]",
	Short: "Move a task through the workflow",
	Args:  cobra.ExactArgs(2),
	RunE:  runTaskStatus,
}

var taskRmCmd = &cobra.Command{
	Use:   "rm [task]",
	Short: "Delete a task",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskRm,
}

var (
	taskTitle     string
	taskDesc      string
	taskProject   string
	taskDivision  string
	taskAssignees []string
	taskStart     string
	taskEnd       string
	taskStatus    string
	listAll       bool
)

func init() {
	taskCmd.AddCommand(taskAddCmd, taskListCmd, taskShowCmd, taskDoneCmd, taskUndoneCmd, taskStatusCmd, taskRmCmd)

	taskAddCmd.Flags().StringVar(&taskTitle, "title", "", "Task title (required)")
	taskAddCmd.Flags().StringVar(&taskDesc, "desc", "", "Task description")
	taskAddCmd.Flags().StringVar(&taskProject, "project", "", "Project ID")
	taskAddCmd.Flags().StringVar(&taskDivision, "division", "", "Owning division (default General)")
	taskAddCmd.Flags().StringSliceVar(&taskAssignees, "assignee", nil, "Assignee, repeatable")
	taskAddCmd.Flags().StringVar(&taskStart, "start", "", "Start date YYYY-MM-DD (default today)")
	taskAddCmd.Flags().StringVar(&taskEnd, "end", "", "End date YYYY-MM-DD (default start)")
	taskAddCmd.Flags().StringVar(&taskStatus, "status", "", "Initial status")
	taskAddCmd.MarkFlagRequired("title")

	taskListCmd.Flags().StringVar(&taskDivision, "division", "", "Filter by division")
	taskListCmd.Flags().BoolVar(&listAll, "all", false, "Include completed tasks")
}

func runTaskAdd(cmd *cobra.Command, args []string) error {
	in := controlplane.CreateTaskInput{
		ProjectID:   taskProject,
		Title:       taskTitle,
		Description: taskDesc,
		Division:    taskDivision,
		Assignees:   taskAssignees,
		StartDate:   taskStart,
		EndDate:     taskEnd,
		Status:      taskStatus,
	}

	resp, err := apiPost("/tasks", in)
	if err != nil {
		return err
	}

	var task models.Task
	if err := json.Unmarshal(resp, &task); err != nil {
		return err
	}

	fmt.Printf("Created task: %s (%s..%s)\n", task.ID, task.StartDate, task.EndDate)
	return nil
}

// boardData fetches tasks and projects and numbers them.
func boardData(path string) ([]models.Task, []models.Project, map[string]string, error) {
	resp, err := apiGet(path)
	if err != nil {
		return nil, nil, nil, err
	}
	var tasks []models.Task
	if err := json.Unmarshal(resp, &tasks); err != nil {
		return nil, nil, nil, err
	}

	resp, err = apiGet("/projects")
	if err != nil {
		return nil, nil, nil, err
	}
	var projects []models.Project
	if err := json.Unmarshal(resp, &projects); err != nil {
		return nil, nil, nil, err
	}

	return tasks, projects, timeline.AssignNumbers(tasks, projects), nil
}

func runTaskList(cmd *cobra.Command, args []string) error {
	// Numbers are assigned over the whole board, so filter locally.
	all, projects, numbers, err := boardData("/tasks")
	if err != nil {
		return err
	}
	tasks := board.Filter{Division: taskDivision, ShowCompleted: listAll}.Apply(all)

	if len(tasks) == 0 {
		fmt.Println("No tasks found")
		return nil
	}

	sort.SliceStable(tasks, func(i, j int) bool {
		return timeline.CompareNumbers(numbers[tasks[i].ID], numbers[tasks[j].ID]) < 0
	})

	names := make(map[string]string, len(projects))
	for _, p := range projects {
		names[p.ID] = p.Name
	}

	today := timeline.Today()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NO\tTITLE\tPROJECT\tDIVISION\tDATES\tSTATUS\tHEALTH")
	for i := range tasks {
		t := &tasks[i]
		project := names[t.ProjectID]
		if project == "" {
			project = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s..%s\t%s\t%s\n",
			numbers[t.ID], truncate(t.Title, 40), truncate(project, 20), t.Division.OrGeneral(),
			t.StartDate, t.EndDate, statusLabel(t), timeline.Classify(t, today))
	}
	w.Flush()
	return nil
}

func runTaskShow(cmd *cobra.Command, args []string) error {
	task, number, err := resolveTask(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("No:          %s\n", number)
	fmt.Printf("ID:          %s\n", task.ID)
	fmt.Printf("Title:       %s\n", task.Title)
	if task.Description != "" {
		fmt.Printf("Description: %s\n", task.Description)
	}
	fmt.Printf("Division:    %s\n", task.Division.OrGeneral())
	if len(task.Assignees) > 0 {
		fmt.Printf("Assignees:   %s\n", strings.Join(task.Assignees, ", "))
	}
	fmt.Printf("Dates:       %s..%s\n", task.StartDate, task.EndDate)
	fmt.Printf("Status:      %s\n", statusLabel(task))
	fmt.Printf("Health:      %s\n", timeline.Classify(task, timeline.Today()))
	for _, m := range []struct{ label, date string }{
		{"Started", task.StartedAt},
		{"Reviewed", task.ReviewedAt},
		{"Finalized", task.FinalizedAt},
	} {
		if m.date != "" {
			fmt.Printf("%-13s%s\n", m.label+":", m.date)
		}
	}
	fmt.Printf("Created:     %s\n", task.CreatedAt.Format("2006-01-02 15:04"))
	return nil
}

func setCompleted(ref string, completed bool) error {
	task, number, err := resolveTask(ref)
	if err != nil {
		return err
	}
	if _, err := apiPost("/tasks/"+task.ID+"/complete", map[string]bool{"completed": completed}); err != nil {
		return err
	}
	if completed {
		fmt.Printf("Completed %s %s\n", number, task.Title)
	} else {
		fmt.Printf("Reopened %s %s\n", number, task.Title)
	}
	return nil
}

func runTaskStatus(cmd *cobra.Command, args []string) error {
	task, number, err := resolveTask(args[0])
	if err != nil {
		return err
	}
	resp, err := apiPost("/tasks/"+task.ID+"/status", map[string]string{"status": args[1]})
	if err != nil {
		return err
	}
	var updated models.Task
	if err := json.Unmarshal(resp, &updated); err != nil {
		return err
	}
	fmt.Printf("%s %s is now %s\n", number, updated.Title, statusLabel(&updated))
	return nil
}

func runTaskRm(cmd *cobra.Command, args []string) error {
	task, number, err := resolveTask(args[0])
	if err != nil {
		return err
	}
	if err := apiDelete("/tasks/" + task.ID); err != nil {
		return err
	}
	fmt.Printf("Deleted %s %s\n", number, task.Title)
	return nil
}

// resolveTask accepts a task ID or a board number such as "1.2".
func resolveTask(ref string) (*models.Task, string, error) {
	tasks, _, numbers, err := boardData("/tasks")
	if err != nil {
		return nil, "", err
	}
	id := ref
	if found, ok := timeline.FindByNumber(numbers, ref); ok {
		id = found
	}
	for i := range tasks {
		if tasks[i].ID == id {
			return &tasks[i], numbers[id], nil
		}
	}
	return nil, "", fmt.Errorf("task %q not found", ref)
}

// --- Helpers ---

func statusLabel(t *models.Task) string {
	s := string(t.Status)
	if s == "" {
		s = string(models.TaskStatusDraft)
	}
	if t.Completed {
		s += " (done)"
	}
	return s
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
