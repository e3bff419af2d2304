package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/CodeStranger-Fred/gridworld-pi/config"
	"github.com/CodeStranger-Fred/gridworld-pi/gridworld"
	"github.com/CodeStranger-Fred/gridworld-pi/logging"
	"github.com/CodeStranger-Fred/gridworld-pi/mdp"
)

func demoCommand(cfg config.Config) *cobra.Command {
	var f envFlags
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Step the environment by hand: reset, DOWN, RIGHT, LEFT, UP and an invalid action",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(cmd.OutOrStdout(), f)
		},
	}
	f.register(cmd, cfg)
	return cmd
}

func runDemo(out io.Writer, f envFlags) error {
	level := f.level()
	envCfg, err := f.config()
	if err != nil {
		return err
	}
	env, err := gridworld.New(envCfg, logging.New("ENV", logging.ColorEnv, os.Stderr, level))
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "reset -> %s\n", env.Reset().Key())
	for _, a := range []mdp.Action{mdp.Down, mdp.Right, mdp.Left, mdp.Up, mdp.Action(4)} {
		res, err := env.Step(a)
		switch {
		case errors.Is(err, mdp.ErrInvalidAction), errors.Is(err, mdp.ErrEpisodeOver):
			fmt.Fprintf(out, "%v -> %v\n", a, err)
			continue
		case err != nil:
			return err
		}
		fmt.Fprintf(out, "%v -> obs %s reward %v done %t turns %d\n", a, res.State.Key(), res.Reward, res.Done, res.Turns)
	}
	return nil
}
