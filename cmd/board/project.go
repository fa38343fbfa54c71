package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/daniswara/board/internal/controlplane"
	"github.com/daniswara/board/internal/models"
	"github.com/daniswara/board/internal/timeline"
	"github.com/spf13/cobra"
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage projects",
}

var projectAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a new project",
	RunE:  runProjectAdd,
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects with their board group",
	RunE:  runProjectList,
}

var (
	projectName     string
	projectDivision string
	projectStart    string
	projectEnd      string
)

func init() {
	projectCmd.AddCommand(projectAddCmd, projectListCmd)

	projectAddCmd.Flags().StringVar(&projectName, "name", "", "Project name (required)")
	projectAddCmd.Flags().StringVar(&projectDivision, "division", "", "Owning division (default General)")
	projectAddCmd.Flags().StringVar(&projectStart, "start", "", "Start date YYYY-MM-DD")
	projectAddCmd.Flags().StringVar(&projectEnd, "end", "", "End date YYYY-MM-DD")
	projectAddCmd.MarkFlagRequired("name")
}

func runProjectAdd(cmd *cobra.Command, args []string) error {
	resp, err := apiPost("/projects", controlplane.CreateProjectInput{
		Name:      projectName,
		Division:  projectDivision,
		StartDate: projectStart,
		EndDate:   projectEnd,
	})
	if err != nil {
		return err
	}

	var p models.Project
	if err := json.Unmarshal(resp, &p); err != nil {
		return err
	}
	fmt.Printf("Created project: %s\n", p.ID)
	return nil
}

func runProjectList(cmd *cobra.Command, args []string) error {
	resp, err := apiGet("/projects")
	if err != nil {
		return err
	}
	var projects []models.Project
	if err := json.Unmarshal(resp, &projects); err != nil {
		return err
	}
	if len(projects) == 0 {
		fmt.Println("No projects found")
		return nil
	}

	index := timeline.ProjectIndex(projects)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "GROUP\tID\tNAME\tDIVISION\tDATES")
	for _, p := range projects {
		dates := "-"
		if p.StartDate != "" || p.EndDate != "" {
			dates = p.StartDate + ".." + p.EndDate
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", index[p.ID], p.ID, truncate(p.Name, 40), p.Division.OrGeneral(), dates)
	}
	w.Flush()
	return nil
}
