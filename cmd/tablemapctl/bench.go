package main

import (
	"fmt"
	"reflect"
	"time"

	"github.com/spf13/cobra"

	"github.com/user/tablemap/pkg/mapping"
	"github.com/user/tablemap/pkg/rowset"
)

var (
	benchRows     int
	benchDuration int
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Benchmark mapping throughput on synthetic rows",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("Benchmarking ToSlice over %d rows for %d seconds...\n", benchRows, benchDuration)

		tbl := rowset.New("bench")
		tbl.AddColumn("id", reflect.TypeOf(0))
		tbl.AddColumn("name", reflect.TypeOf(""))
		tbl.AddColumn("score", reflect.TypeOf(float64(0)))
		for i := 0; i < benchRows; i++ {
			tbl.AddValues(i, fmt.Sprintf("row-%d", i), float64(i)*1.5)
		}
		tbl.AcceptChanges()

		type record struct {
			ID    int     `map:"id"`
			Name  string  `map:"name"`
			Score float64 `map:"score"`
		}

		start := time.Now()
		passes := 0
		rows := 0
		failed := 0
		timeout := time.After(time.Duration(benchDuration) * time.Second)

	loop:
		for {
			select {
			case <-timeout:
				break loop
			default:
				var out []record
				if err := mapping.ToSlice(tbl, &out); err != nil {
					failed++
					continue
				}
				passes++
				rows += len(out)
			}
		}

		elapsed := time.Since(start)
		fmt.Printf("\nBenchmark Results:\n")
		fmt.Printf("  Passes:      %d\n", passes)
		fmt.Printf("  Failed:      %d\n", failed)
		fmt.Printf("  Rows Mapped: %d\n", rows)
		fmt.Printf("  Duration:    %v\n", elapsed)
		fmt.Printf("  Throughput:  %.0f rows/s\n", float64(rows)/elapsed.Seconds())
	},
}

func init() {
	benchCmd.Flags().IntVarP(&benchRows, "rows", "r", 1000, "Number of synthetic rows per pass")
	benchCmd.Flags().IntVarP(&benchDuration, "duration", "d", 5, "Duration of benchmark in seconds")
	rootCmd.AddCommand(benchCmd)
}
