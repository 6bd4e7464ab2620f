package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/jsau/apiserver/cmd/api/commands"
)

// @title jsau-apiserver
// @version 1.0.0
// @description Recipe catalog and favorites API

// @host localhost:8080
// @BasePath /

func main() {
	rootCmd := &cobra.Command{
		Use:   "jsau-apiserver",
		Short: "Recipe catalog API server",
		Long:  `jsau-apiserver serves a read-only recipe catalog with its HTML documents and keeps a list of favorite documents.`,
	}

	// Add commands
	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())
	rootCmd.AddCommand(commands.NewFavoritesCommand())

	// Execute root command
	if err := rootCmd.Execute(); err != nil {
		log.Printf("Command execution failed: %v", err)
		os.Exit(1)
	}
}
