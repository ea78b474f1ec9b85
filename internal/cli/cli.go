package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/hnrobert/suexrs/internal/accounts"
	"github.com/hnrobert/suexrs/internal/auth"
	"github.com/hnrobert/suexrs/internal/launch"
	"github.com/hnrobert/suexrs/internal/logger"
	"github.com/hnrobert/suexrs/internal/target"
	"github.com/hnrobert/suexrs/internal/transition"
)

var (
	// Build info - set via -ldflags at build time
	ProjectName = "suexrs"
	Version     = "dev"
	CommitID    = "unknown"
	BuildDate   = "unknown"
)

var ErrUsage = errors.New("usage error")

type Options struct {
	DryRun     bool
	Verbose    bool
	IdentityDB string
}

// App holds the collaborators of one invocation. The zero value is not
// usable; start from NewApp and replace fields in tests.
type App struct {
	Stdout io.Writer
	Stderr io.Writer

	OpenDB func(source string) (accounts.Database, error)
	// Getuid overrides the caller's real UID when set.
	Getuid func() int
	// Syscalls overrides the credential syscalls when set.
	Syscalls transition.Syscalls
	Runner   *launch.Runner
}

func NewApp() *App {
	return &App{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		OpenDB: accounts.Open,
		Runner: launch.New(),
	}
}

// Main runs the launcher with args (without the program name) and returns
// the process exit code.
func Main(args []string) int {
	return NewApp().Main(args)
}

func (a *App) Main(args []string) int {
	cmd := a.Command()
	cmd.SetArgs(args)
	err := cmd.Execute()
	if err == nil {
		return 0
	}
	if msg := Message(err); msg != "" {
		fmt.Fprintf(a.Stderr, "%s: %s\n", ProjectName, msg)
	}
	if errors.Is(err, ErrUsage) {
		fmt.Fprint(a.Stderr, cmd.UsageString())
	}
	return ExitCode(err)
}

// Command builds the root command. Flags must come before USER[:GROUP];
// everything after it belongs to COMMAND.
func (a *App) Command() *cobra.Command {
	var opts Options
	cmd := &cobra.Command{
		Use:   ProjectName + " [flags] USER[:GROUP] COMMAND [ARGS...]",
		Short: "Run a command as another user",
		Long: ProjectName + ` switches to USER (and optionally GROUP) and runs COMMAND.

USER and GROUP may be names or numeric IDs. Supplementary groups are those of
USER. Only root and members of the '` + auth.GroupName + `' group may use it.`,
		Version:       fmt.Sprintf("%s (%s) built %s", Version, CommitID, BuildDate),
		SilenceErrors: true,
		SilenceUsage:  true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 2 {
				return fmt.Errorf("%w: expected USER[:GROUP] and COMMAND", ErrUsage)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.Run(opts, args)
		},
	}
	cmd.SetOut(a.Stdout)
	cmd.SetErr(a.Stderr)
	cmd.SetVersionTemplate("{{.Name}} {{.Version}}\n")
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	})

	flags := cmd.Flags()
	flags.SetInterspersed(false)
	flags.BoolVarP(&opts.DryRun, "dry-run", "n", false, "print the resolved identity and exit without switching")
	flags.BoolVarP(&opts.Verbose, "verbose", "v", false, "log each step on standard error")
	flags.StringVar(&opts.IdentityDB, "identity-db", accounts.SourceNSS,
		fmt.Sprintf("identity database: %s (system resolver) or %s (/etc/passwd and /etc/group)", accounts.SourceNSS, accounts.SourceFiles))
	return cmd
}

// Run performs one launch: authorize the caller, resolve the target, switch
// identity and run the command. args[0] is USER[:GROUP].
func (a *App) Run(opts Options, args []string) error {
	if opts.Verbose {
		logger.Init(logger.Options{Level: logger.LevelDebug})
	}

	spec, err := target.Parse(args[0])
	if err != nil {
		return err
	}
	command := args[1:]

	db, err := a.OpenDB(opts.IdentityDB)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	logger.Debug("identity database: %s", db.Name())

	checker := auth.NewChecker(db)
	if a.Getuid != nil {
		checker.Getuid = a.Getuid
	}
	grant, err := checker.Authorize()
	if err != nil {
		return err
	}
	logger.Debug("uid %d authorized", grant.CallerUID())

	id, err := target.NewResolver(db).Resolve(spec)
	if err != nil {
		return err
	}

	if opts.DryRun {
		return WritePlan(a.Stdout, NewPlan(db, grant, spec, id, command))
	}

	engine := transition.New()
	if a.Syscalls != nil {
		engine = transition.NewWithSyscalls(a.Syscalls)
	}
	if err := engine.Apply(grant, id); err != nil {
		return err
	}

	runner := *a.Runner
	runner.Env = launch.WithHome(runner.Env, id.Home)
	return runner.Run(command)
}
