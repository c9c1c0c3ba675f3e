package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/promotoria-nhamunda/controle-prazos/internal/cli"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "controle-prazos",
		Short: "Deadline, hearing and administrative process control for the prosecutor's office",
		Long: `controle-prazos keeps the judicial deadlines, hearings and administrative
processes of the Promotoria de Justiça de Nhamundá in a local database and
serves them to the web front end.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(cli.ServeCmd())
	rootCmd.AddCommand(cli.MigrateCmd())
	rootCmd.AddCommand(cli.ImportCmd())
	rootCmd.AddCommand(cli.ListCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
