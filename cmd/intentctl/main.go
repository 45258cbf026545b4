package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"intent/internal/buildinfo"
)

var (
	flagAddr   string
	flagEntity string
)

func main() {
	root := &cobra.Command{
		Use:           "intentctl",
		Short:         "Command line client for the purchase-intent service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flagAddr, "addr", "127.0.0.1:8787", "service address")
	root.PersistentFlags().StringVar(&flagEntity, "entity", "default", "entity id")

	root.AddCommand(
		newCollectCmd(),
		newPredictCmd(),
		newAccuracyCmd(),
		newSeedCmd(),
		newVersionCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s %s %s\n", buildinfo.Info.Name(), buildinfo.Info.Tag(), buildinfo.Info.Time())
		},
	}
}
