package main

import (
	"os"

	"travel-journal/cmd/edit"
	"travel-journal/cmd/migrate"
	"travel-journal/cmd/server"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:          "travel-journal",
		Short:        "Travel journal backend and tools",
		SilenceUsage: true,
	}
	root.AddCommand(server.NewServerCommand())
	root.AddCommand(migrate.NewMigrateCommand())
	root.AddCommand(edit.NewEditCommand())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
