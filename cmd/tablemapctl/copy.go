package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/user/tablemap/pkg/rowset"
	"github.com/user/tablemap/pkg/sqlutil"
)

var (
	copyDestType  string
	copyDestConn  string
	copyDestTable string
	copyRenames   string
)

var copyCmd = &cobra.Command{
	Use:   "copy [table]",
	Short: "Copy a table to another database",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		srcTable := args[0]

		src, srcDriver, err := openDB(viper.GetString("db-type"), viper.GetString("db-conn"))
		if err != nil {
			log.Fatalf("%v", err)
		}
		defer src.Close()

		dst, dstDriver, err := openDB(copyDestType, copyDestConn)
		if err != nil {
			log.Fatalf("%v", err)
		}
		defer dst.Close()

		renames, err := sqlutil.ParseRenames(copyRenames)
		if err != nil {
			log.Fatalf("%v", err)
		}

		q, err := sqlutil.BuildSelect(srcDriver, srcTable, nil, 0)
		if err != nil {
			log.Fatalf("%v", err)
		}
		tbl, err := loadTable(src, q, srcTable)
		if err != nil {
			log.Fatalf("%v", err)
		}

		destTable := copyDestTable
		if destTable == "" {
			destTable = srcTable
		}

		n, err := insertTable(dst, dstDriver, destTable, tbl, renames)
		if err != nil {
			log.Fatalf("%v", err)
		}
		fmt.Printf("Copied %d rows from %s to %s\n", n, srcTable, destTable)
	},
}

func init() {
	copyCmd.Flags().StringVar(&copyDestType, "dest-type", "sqlite", "Destination database type")
	copyCmd.Flags().StringVar(&copyDestConn, "dest-conn", "", "Destination connection string")
	copyCmd.Flags().StringVar(&copyDestTable, "dest-table", "", "Destination table name (defaults to the source name)")
	copyCmd.Flags().StringVar(&copyRenames, "rename", "", "Column renames as source=target pairs, comma separated")
	rootCmd.AddCommand(copyCmd)
}

// insertTable writes every row of tbl into the named table inside one
// transaction and reports the row count.
func insertTable(db *sql.DB, driver, table string, tbl *rowset.Table, renames map[string]string) (int, error) {
	cols := make([]string, tbl.NumColumns())
	for i := range cols {
		name := tbl.Column(i).Name()
		if to, ok := renames[name]; ok {
			name = to
		}
		cols[i] = name
	}

	stmt, err := sqlutil.BuildInsert(driver, table, cols)
	if err != nil {
		return 0, err
	}

	ctx := context.Background()
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}

	count := 0
	for i := 0; i < tbl.NumRows(); i++ {
		row := tbl.Row(i)
		args := make([]any, len(cols))
		for j := range args {
			args[j] = row.Value(j)
		}
		if _, err := tx.ExecContext(ctx, stmt, args...); err != nil {
			tx.Rollback()
			return 0, fmt.Errorf("insert failed on row %d: %w", i, err)
		}
		count++
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit: %w", err)
	}
	return count, nil
}
