package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/CodeStranger-Fred/gridworld-pi/config"
	"github.com/CodeStranger-Fred/gridworld-pi/gridworld"
	"github.com/CodeStranger-Fred/gridworld-pi/logging"
	"github.com/CodeStranger-Fred/gridworld-pi/policyiter"
	"github.com/CodeStranger-Fred/gridworld-pi/report"
)

type solveOptions struct {
	env            envFlags
	gamma          float64
	threshold      float64
	maxValueIters  int
	maxPolicyIters int
	maxSteps       int
	episodes       int
	seed           int64
	evaluation     string
	chartPath      string
	scoresPath     string
}

func solveCommand(cfg config.Config) *cobra.Command {
	var o solveOptions
	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Run policy iteration and score the converged policy",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSolve(cmd.OutOrStdout(), o)
		},
	}
	o.env.register(cmd, cfg)
	fs := cmd.Flags()
	fs.Float64Var(&o.gamma, "gamma", cfg.Solver.Gamma, "discount factor in (0,1)")
	fs.Float64Var(&o.threshold, "threshold", cfg.Solver.Threshold, "L1 convergence threshold on values")
	fs.IntVar(&o.maxValueIters, "max-value-iters", cfg.Solver.MaxValueIters, "sweep cap of the value loop")
	fs.IntVar(&o.maxPolicyIters, "max-policy-iters", cfg.Solver.MaxPolicyIters, "cap on policy iterations")
	fs.IntVar(&o.maxSteps, "max-episode-steps", cfg.Solver.MaxEpisodeSteps, "truncate episodes after this many steps")
	fs.IntVar(&o.episodes, "episodes", cfg.Episodes, "episodes used to score the policy")
	fs.Int64Var(&o.seed, "seed", cfg.Solver.Seed, "seed of the initial random policy")
	fs.StringVar(&o.evaluation, "evaluation", string(cfg.Solver.Evaluation), "value backup: optimality or policy")
	fs.StringVar(&o.chartPath, "chart", "", "write an HTML convergence chart to this path")
	fs.StringVar(&o.scoresPath, "scores", "", "write episode scores as parquet to this path")
	return cmd
}

func runSolve(out io.Writer, o solveOptions) error {
	level := o.env.level()
	envCfg, err := o.env.config()
	if err != nil {
		return err
	}
	evaluation, err := policyiter.ParseEvaluation(o.evaluation)
	if err != nil {
		return err
	}

	env, err := gridworld.New(envCfg, logging.New("ENV", logging.ColorEnv, os.Stderr, level))
	if err != nil {
		return err
	}
	solver, err := policyiter.New(env, policyiter.Config{
		Gamma:           o.gamma,
		Threshold:       o.threshold,
		MaxValueIters:   o.maxValueIters,
		MaxPolicyIters:  o.maxPolicyIters,
		MaxEpisodeSteps: o.maxSteps,
		Seed:            o.seed,
		Evaluation:      evaluation,
	}, logging.New("SOLVER", logging.ColorSolver, os.Stderr, level))
	if err != nil {
		return err
	}

	score, err := solver.SolveMDP(o.episodes)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "run %s\n", solver.RunID())
	for _, it := range solver.Iterations() {
		fmt.Fprintf(out, "iteration %d: sweeps=%d converged=%t changed=%d\n",
			it.Iteration, it.Sweeps, it.Converged, it.PolicyChanges)
	}
	policy := solver.Policy()
	for i, s := range env.States() {
		fmt.Fprintf(out, "%s %v\n", s.Key(), policy[i])
	}
	fmt.Fprintf(out, "policy evaluation score = %v\n", score)

	if o.chartPath != "" {
		if err := report.WriteConvergenceChartFile(o.chartPath, solver.Iterations(), solver.Episodes()); err != nil {
			return err
		}
		fmt.Fprintf(out, "chart written to %s\n", o.chartPath)
	}
	if o.scoresPath != "" {
		if err := report.WriteEpisodeScores(o.scoresPath, solver.RunID(), solver.Episodes()); err != nil {
			return err
		}
		fmt.Fprintf(out, "scores written to %s\n", o.scoresPath)
	}
	return nil
}
