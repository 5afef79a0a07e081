package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

// invocationError is printed when herd is not given exactly one command string.
const invocationError = "Failing to process user input."

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "herd [command]",
	Short: "Query and update people on a task board",
	Long: "herd runs text commands against a task board.\n" +
		"Pass the whole command as one argument, e.g. herd \"?info (Bob)\".\n" +
		"Run herd \"?help\" for the command list.\n\n" +
		"The words init, shell, version and help are herd subcommands, and\n" +
		"--config, --verbose and -h/--help are herd flags; they are never sent\n" +
		"to the board. Any other single argument is run as a command.",
	Args:         cobra.ArbitraryArgs,
	SilenceUsage: true,
	RunE:         runCommand,
}

// Execute runs the root command. ctx bounds every board call.
func Execute(ctx context.Context) error {
	return run(ctx, os.Args[1:])
}

func run(ctx context.Context, args []string) error {
	rootCmd.SetArgs(guardCommandArg(args))
	return rootCmd.ExecuteContext(ctx)
}

// guardCommandArg puts "--" in front of the positional arguments when one of
// them starts with "-", so the flag parser hands them to the root command
// untouched. Herd's own flags stay in front. Subcommand invocations and
// argument lists without a dashed word are returned as is.
func guardCommandArg(args []string) []string {
	var flags, rest []string
	for i := 0; i < len(args); i++ {
		a := args[i]
		switch {
		case a == "--":
			rest = append(rest, args[i+1:]...)
			i = len(args)
		case isRootFlag(a):
			flags = append(flags, a)
			if takesValue(a) && i+1 < len(args) {
				i++
				flags = append(flags, args[i])
			}
		default:
			rest = append(rest, a)
		}
	}
	if len(rest) == 0 || isSubcommand(rest[0]) || !anyDashed(rest) {
		return args
	}
	return append(append(flags, "--"), rest...)
}

func isSubcommand(name string) bool {
	if name == "help" || name == "completion" {
		return true
	}
	for _, c := range rootCmd.Commands() {
		if c.Name() == name || c.HasAlias(name) {
			return true
		}
	}
	return false
}

func anyDashed(args []string) bool {
	for _, a := range args {
		if strings.HasPrefix(a, "-") {
			return true
		}
	}
	return false
}

// lookupRootFlag resolves "--name", "--name=value" or "-x" against the root
// command's flags.
func lookupRootFlag(arg string) *pflag.Flag {
	if name, ok := strings.CutPrefix(arg, "--"); ok {
		name, _, _ = strings.Cut(name, "=")
		if name == "" {
			return nil
		}
		if f := rootCmd.PersistentFlags().Lookup(name); f != nil {
			return f
		}
		return rootCmd.Flags().Lookup(name)
	}
	if len(arg) == 2 && arg[0] == '-' && arg[1] != '-' {
		return rootCmd.Flags().ShorthandLookup(arg[1:])
	}
	return nil
}

func isRootFlag(arg string) bool {
	return lookupRootFlag(arg) != nil
}

// takesValue reports whether arg is a flag whose value is the next argument.
func takesValue(arg string) bool {
	f := lookupRootFlag(arg)
	return f != nil && f.NoOptDefVal == "" && !strings.Contains(arg, "=")
}

func init() {
	// No shorthands: a command string like "-v" must reach the router.
	rootCmd.PersistentFlags().StringVar(&configPath, "config", herdPath("config.yaml"), "Path to config file")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Debug logging on stderr")
	rootCmd.InitDefaultHelpFlag()

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(shellCmd)
	rootCmd.AddCommand(versionCmd)
}

func runCommand(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		fmt.Fprintln(cmd.OutOrStdout(), invocationError)
		return nil
	}

	env, err := setup()
	if err != nil {
		return err
	}
	defer env.close()

	env.log.Debug("running command", zap.Int("length", len(args[0])))
	fmt.Fprintln(cmd.OutOrStdout(), env.router.Execute(cmd.Context(), args[0]))
	return nil
}
