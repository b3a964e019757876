package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/user/tablemap/pkg/mapping"
	"github.com/user/tablemap/pkg/rowset"
	"github.com/user/tablemap/pkg/sqlrows"
	"github.com/user/tablemap/pkg/sqlutil"
)

var (
	queryTable  string
	queryLimit  int
	queryFormat string
)

var queryCmd = &cobra.Command{
	Use:   "query [sql]",
	Short: "Run a query and print the result set",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		db, driver, err := openDB(viper.GetString("db-type"), viper.GetString("db-conn"))
		if err != nil {
			log.Fatalf("%v", err)
		}
		defer db.Close()

		q := ""
		switch {
		case len(args) == 1:
			q = args[0]
		case queryTable != "":
			if q, err = sqlutil.BuildSelect(driver, queryTable, nil, queryLimit); err != nil {
				log.Fatalf("%v", err)
			}
		default:
			log.Fatal("provide a SQL statement or --table")
		}

		tbl, err := loadTable(db, q, queryTable)
		if err != nil {
			log.Fatalf("%v", err)
		}

		if err := writeTable(os.Stdout, tbl, queryFormat); err != nil {
			log.Fatalf("%v", err)
		}
	},
}

func init() {
	queryCmd.Flags().StringVarP(&queryTable, "table", "t", "", "Table to select from instead of raw SQL")
	queryCmd.Flags().IntVarP(&queryLimit, "limit", "n", 0, "Maximum number of rows to fetch with --table")
	queryCmd.Flags().StringVarP(&queryFormat, "format", "f", "table", "Output format: table, json, csv")
	rootCmd.AddCommand(queryCmd)
}

// loadTable runs the query and materializes the whole result set.
func loadTable(db *sql.DB, query, name string) (*rowset.Table, error) {
	rows, err := db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	rd, err := sqlrows.Wrap(rows)
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = "result"
	}
	tbl := rowset.New(name)
	if err := mapping.ReadTable(rd, tbl); err != nil {
		return nil, err
	}
	return tbl, nil
}
