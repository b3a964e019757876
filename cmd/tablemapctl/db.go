package main

import (
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/microsoft/go-mssqldb"
	_ "modernc.org/sqlite"
)

// driverFor maps a database type name to the registered sql driver.
func driverFor(dbType string) (string, error) {
	switch dbType {
	case "sqlite":
		return "sqlite", nil
	case "postgres":
		return "pgx", nil
	case "mysql", "mariadb":
		return "mysql", nil
	case "mssql", "sqlserver":
		return "sqlserver", nil
	default:
		return "", fmt.Errorf("unsupported database type: %s", dbType)
	}
}

func openDB(dbType, conn string) (*sql.DB, string, error) {
	if conn == "" {
		return nil, "", fmt.Errorf("missing connection string for %s", dbType)
	}
	driver, err := driverFor(dbType)
	if err != nil {
		return nil, "", err
	}
	db, err := sql.Open(driver, conn)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open database: %w", err)
	}
	return db, driver, nil
}
