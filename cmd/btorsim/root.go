package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// newRootCmd builds the single btorsim command, mirroring netrix's
// RootCmd()-returns-a-*cobra.Command pattern but with no subcommands: the
// CLI surface here is flat (model and witness are positional arguments,
// not subcommands).
func newRootCmd() *cobra.Command {
	cfg := defaultConfig()
	var seed int64

	cmd := &cobra.Command{
		Use:           "btorsim [model] [witness]",
		Short:         "Simulate or check a BTOR2 sequential model",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.Seed = uint32(seed)
			cfg.Verbosity = verbosityCount
			switch len(args) {
			case 1:
				cfg.ModelPath = args[0]
			case 2:
				cfg.ModelPath = args[0]
				cfg.WitnessPath = args[1]
			}
			if cfg.WitnessPath != "" {
				for _, name := range []string{"r", "s", "b", "j"} {
					if cmd.Flags().Changed(name) {
						return errors.Errorf("flag -%s cannot be combined with a witness argument", name)
					}
				}
			}
			return run(cfg)
		},
	}
	cmd.CompletionOptions.DisableDefaultCmd = true
	flags := cmd.Flags()
	flags.BoolVarP(&cfg.Checking, "check", "c", false, "checking mode: suppress trace emission (verify only)")
	flags.CountVarP(&verbosityCount, "verbose", "v", "increase diagnostic verbosity (repeatable)")
	flags.Int64VarP(&cfg.Steps, "steps", "r", 20, "random mode: number of transitions to generate")
	flags.Int64VarP(&seed, "seed", "s", 0, "random seed")
	flags.Int64VarP(&cfg.FakeBad, "fake-bad", "b", NoFakeIndex, "pre-declare a fake bad index in the random-mode trace header")
	flags.Int64VarP(&cfg.FakeJustice, "fake-justice", "j", NoFakeIndex, "pre-declare a fake justice index (recognised, rejected at use)")
	flags.BoolVar(&cfg.States, "states", false, "in random mode, print state assignments at every cycle")
	return cmd
}

var verbosityCount int
