package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "icalexpand <file.ics>",
	Short: "Lazily expand the occurrences of a recurring iCalendar event",
	Long: "icalexpand reads an iCalendar file, expands the first VEVENT's recurrence\n" +
		"(RRULE/RDATE/EXDATE) into occurrence instants and prints them. With\n" +
		"--snapshot the expansion state is persisted, so repeated runs continue\n" +
		"where the previous one stopped.",
	Args: cobra.ExactArgs(1),
	RunE: runExpand,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().IntP("count", "n", 10, "maximum number of occurrences to print")
	rootCmd.Flags().StringP("snapshot", "s", "", "snapshot file to resume from and write back to")
	rootCmd.Flags().StringP("format", "f", "text", "output format: text, json or xml")
	rootCmd.Flags().BoolP("verbose", "v", false, "log expansion progress to stderr")
}
