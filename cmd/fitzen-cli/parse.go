package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/2beens/fitzen/internal/workouts"
	"github.com/2beens/fitzen/pkg"

	"github.com/spf13/cobra"
)

var parseAsJSON bool

var parseCmd = &cobra.Command{
	Use:   "parse <file|->",
	Short: "Parse a workout submission and print the entries with estimated calories",
	Long: `Reads a raw workout submission from a file (or stdin with "-"), runs it through
the same parser the service uses and prints every entry. Nothing is stored.`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().BoolVar(&parseAsJSON, "json", false, "print entries as JSON")
	rootCmd.AddCommand(parseCmd)
}

type parsedEntry struct {
	workouts.Entry
	CaloriesBurned float64 `json:"caloriesBurned"`
}

func runParse(cmd *cobra.Command, args []string) error {
	var (
		raw []byte
		err error
	)
	if args[0] == "-" {
		raw, err = io.ReadAll(cmd.InOrStdin())
	} else {
		exists, statErr := pkg.PathExists(args[0], false)
		if statErr != nil {
			return statErr
		}
		if !exists {
			return fmt.Errorf("file %s not found", args[0])
		}
		raw, err = os.ReadFile(args[0])
	}
	if err != nil {
		return fmt.Errorf("read submission: %w", err)
	}

	entries, err := workouts.Parse(string(raw))
	if err != nil {
		return err
	}

	parsed := make([]parsedEntry, 0, len(entries))
	for _, e := range entries {
		parsed = append(parsed, parsedEntry{Entry: e, CaloriesBurned: workouts.EstimateCalories(e)})
	}

	out := cmd.OutOrStdout()
	if parseAsJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(parsed)
	}

	fmt.Fprintf(out, "%-12s  %-20s  %4s  %4s  %8s  %8s  %10s\n", "Category", "Workout", "Sets", "Reps", "Kg", "Min", "Calories")
	fmt.Fprintln(out, "------------------------------------------------------------------------------")
	var total float64
	for _, p := range parsed {
		fmt.Fprintf(out, "%-12s  %-20s  %4d  %4d  %8.2f  %8.2f  %10.0f\n",
			p.Category, p.Name, p.Sets, p.Reps, p.WeightKg, p.DurationMin, p.CaloriesBurned)
		total += p.CaloriesBurned
	}
	fmt.Fprintln(out, "------------------------------------------------------------------------------")
	fmt.Fprintf(out, "Total: %.0f calories (%d workouts)\n", total, len(parsed))

	return nil
}
