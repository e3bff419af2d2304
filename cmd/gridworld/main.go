package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/CodeStranger-Fred/gridworld-pi/config"
)

func main() {
	if err := rootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "gridworld: %v\n", err)
		os.Exit(1)
	}
}

func rootCommand() *cobra.Command {
	cfg, err := config.Load()
	root := &cobra.Command{
		Use:           "gridworld",
		Short:         "Solve a deterministic gridworld MDP by policy iteration",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return err
		},
	}
	root.AddCommand(solveCommand(cfg), demoCommand(cfg))
	return root
}
