package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/daniswara/board/internal/models"
	"github.com/daniswara/board/internal/timeline"
	"github.com/spf13/cobra"
)

var holidayCmd = &cobra.Command{
	Use:   "holiday",
	Short: "Inspect and refresh the holiday calendar",
}

var holidayListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored holidays",
	RunE:  runHolidayList,
}

var holidaySyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Fetch holidays from the configured source now",
	RunE:  runHolidaySync,
}

var holidayYear int

func init() {
	holidayCmd.AddCommand(holidayListCmd, holidaySyncCmd)
	holidayListCmd.Flags().IntVar(&holidayYear, "year", 0, "Only show this year")
}

func runHolidayList(cmd *cobra.Command, args []string) error {
	resp, err := apiGet("/holidays")
	if err != nil {
		return err
	}
	var list []models.Holiday
	if err := json.Unmarshal(resp, &list); err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tDAY\tNAME")
	n := 0
	for _, h := range list {
		d, ok := timeline.ParseDay(h.Date)
		if !ok || (holidayYear != 0 && d.Time().Year() != holidayYear) {
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", h.Date, d.Weekday().String()[:3], h.Name)
		n++
	}
	if n == 0 {
		fmt.Println("No holidays found")
		return nil
	}
	w.Flush()
	return nil
}

func runHolidaySync(cmd *cobra.Command, args []string) error {
	resp, err := apiPost("/holidays/sync", struct{}{})
	if err != nil {
		return err
	}
	var result struct {
		Synced int `json:"synced"`
	}
	if err := json.Unmarshal(resp, &result); err != nil {
		return err
	}
	fmt.Printf("Synced %d holidays\n", result.Synced)
	return nil
}
