package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "tablemapctl",
	Short: "tablemapctl is a CLI for inspecting and moving tabular data",
	Long:  `A developer-focused terminal tool for querying databases, copying tables between them and benchmarking the mapper.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.tablemapctl.yaml)")
	rootCmd.PersistentFlags().String("db-type", "sqlite", "database type: sqlite, postgres, mysql, mariadb, mssql")
	rootCmd.PersistentFlags().String("db-conn", "", "database connection string")
	viper.BindPFlag("db-type", rootCmd.PersistentFlags().Lookup("db-type"))
	viper.BindPFlag("db-conn", rootCmd.PersistentFlags().Lookup("db-conn"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, _ := os.UserHomeDir()
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".tablemapctl")
	}

	viper.AutomaticEnv()
	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}
}
