package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "List stored job records",
	Long:  "Reads the record store and prints a table of every stored posting in insertion order.",
	RunE:  runJobs,
}

func init() {
	rootCmd.AddCommand(jobsCmd)
}

func runJobs(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	records, err := loadStoredRecords(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read store: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%-12s %-16s %-20s %-8s %s\n", "ID", "Posted", "City", "Status", "Title")
	fmt.Println(strings.Repeat("─", 80))

	pending, sent := 0, 0
	for _, r := range records {
		status := "sent"
		if !r.BotProcessed {
			status = "pending"
			pending++
		} else {
			sent++
		}
		fmt.Printf("%-12s %-16s %-20s %-8s %s\n",
			truncate(r.ID, 12), r.PostedAt().Format("02/01/2006 15:04"), truncate(r.City, 20), status, r.Title)
	}

	fmt.Printf("\nTotal: %d jobs (%d pending, %d sent)\n", len(records), pending, sent)
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
