package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"app-time-tracker/internal/api"
	"app-time-tracker/internal/config"
	"app-time-tracker/internal/logging"
)

// APIFactory opens the API for a loaded configuration. The closer releases
// whatever the API holds open and may be nil.
type APIFactory func(cfg *config.Config, logger *slog.Logger) (api.API, io.Closer, error)

// skipAPI marks commands that only touch configuration.
const skipAPI = "skip-api"

// RootCommand represents the base command when called without any subcommands
type RootCommand struct {
	cmd     *cobra.Command
	factory APIFactory
	api     api.API
	closer  io.Closer
	config  *config.Config
	loader  *config.Loader
	logger  *slog.Logger
}

// NewRootCommand creates the root cobra command. The API is opened lazily
// after configuration has been loaded, so config commands work without a
// database.
func NewRootCommand(factory APIFactory) *RootCommand {
	root := &RootCommand{factory: factory}

	root.cmd = &cobra.Command{
		Use:   "att",
		Short: "Track time spent in each application, per project",
		Long: `App Time Tracker (att) watches which application has focus and records
how long you spend in each one against the project you are working on.

Sessions shorter than the threshold (default 30s) are not recorded, so
quick switches do not clutter reports.

EXAMPLES:
  att project create "Album Mix"            # Create a project
  att project list                          # Projects with tracked totals
  att track "Album Mix"                     # Track until Ctrl+C
  att report "Album Mix" --sessions         # Per-app breakdown and sessions
  att rescale "Album Mix" Reaper 2h         # Correct one app's total
  att config set-timezone Europe/Berlin     # Persist display timezone

CONFIGURATION:
  Priority order: command-line flags > environment variables > config file > defaults
  Config file: ` + config.ConfigFileEnvVar + ` or ~/.att/config.yaml

  ATT_DB_DIR, ATT_DB_FILENAME               Database location (default: ~/.att/att.db)
  ATT_TRACK_THRESHOLD                       Minimum session length (default: 30s)
  ATT_TRACK_INTERVAL                        Poll interval (default: 2s)
  ATT_TRACK_IDLE_POLICY                     ignore or track (default: ignore)
  ATT_PROBE_COMMAND, ATT_PROBE_OUTPUT       Focused window probe (default: xdotool, pid)
  ATT_TIMEZONE                              Display timezone (default: Local)
  ATT_APP_VERBOSE, ATT_DEBUG                Debug logging`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return root.setup(cmd)
		},
	}

	config.RegisterFlags(root.cmd.PersistentFlags())
	root.addSubcommands()

	return root
}

// NewRootCommandWithAPI creates a root command around an existing API
func NewRootCommandWithAPI(apiInstance api.API) *RootCommand {
	return NewRootCommand(func(*config.Config, *slog.Logger) (api.API, io.Closer, error) {
		return apiInstance, nil, nil
	})
}

// Command exposes the cobra command, mainly for tests
func (r *RootCommand) Command() *cobra.Command {
	return r.cmd
}

// Execute runs the root command and releases the API afterwards
func (r *RootCommand) Execute(ctx context.Context) error {
	err := r.cmd.ExecuteContext(ctx)
	if r.closer != nil {
		if closeErr := r.closer.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close database: %w", closeErr)
		}
		r.closer = nil
	}
	return err
}

// setup loads configuration, builds the logger and opens the API
func (r *RootCommand) setup(cmd *cobra.Command) error {
	flags := cmd.Flags()

	overrides, err := config.OverridesFromFlags(flags)
	if err != nil {
		return err
	}
	path, err := flags.GetString(config.FlagConfig)
	if err != nil {
		return err
	}

	r.loader = config.NewLoader(path)
	r.config, err = r.loader.LoadWithOverrides(overrides)
	if err != nil {
		return err
	}

	r.logger = logging.New(logging.Options{
		Verbose: r.config.Application.Verbose,
		Format:  r.config.Display.LogFormat,
		Writer:  cmd.ErrOrStderr(),
	})

	if cmd.Annotations[skipAPI] == "true" || r.api != nil {
		return nil
	}
	if r.factory == nil {
		return fmt.Errorf("no API configured")
	}
	r.api, r.closer, err = r.factory(r.config, r.logger)
	if err != nil {
		return fmt.Errorf("failed to open time tracker: %w", err)
	}
	return nil
}

// app builds the handler context for cmd
func (r *RootCommand) app(cmd *cobra.Command) *App {
	return NewAppWithConfig(r.api, r.config).
		WithOutput(cmd.OutOrStdout()).
		WithLoader(r.loader).
		WithLogger(r.logger)
}

// run executes a handler under the application timeout
func (r *RootCommand) run(cmd *cobra.Command, handler Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), r.getAppTimeout())
	defer cancel()
	return handler.Execute(ctx, args)
}

// addSubcommands adds all CLI subcommands to the root command
func (r *RootCommand) addSubcommands() {
	r.cmd.AddCommand(
		r.projectCommand(),
		r.trackCommand(),
		r.reportCommand(),
		r.rescaleCommand(),
		r.configCommand(),
	)
}

func (r *RootCommand) projectCommand() *cobra.Command {
	projectCmd := &cobra.Command{
		Use:   "project",
		Short: "Create, list and update projects",
	}

	var status string
	createCmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a project",
		Long: `Create a project to track time against. Projects start as WIP
unless --status is given.

Statuses: WIP, Waitlist, On Hold, Finished`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(cmd, NewProjectCreateCommand(r.app(cmd), status), args)
		},
	}
	createCmd.Flags().StringVar(&status, "status", "", "Initial status (default WIP)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List projects with their tracked totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(cmd, NewProjectListCommand(r.app(cmd)), args)
		},
	}

	statusCmd := &cobra.Command{
		Use:     "status <project> <status>",
		Short:   "Change a project's status",
		Example: "  att project status \"Album Mix\" on hold",
		Args:    cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(cmd, NewProjectStatusCommand(r.app(cmd)), args)
		},
	}

	renameCmd := &cobra.Command{
		Use:   "rename <project> <new name>",
		Short: "Rename a project",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(cmd, NewProjectRenameCommand(r.app(cmd)), args)
		},
	}

	projectCmd.AddCommand(createCmd, listCmd, statusCmd, renameCmd)
	return projectCmd
}

func (r *RootCommand) trackCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "track <project>",
		Short: "Record focused applications for a project until interrupted",
		Long: `Poll the focused window and record how long each application keeps
focus. Stop with Ctrl+C; a summary of the project is printed on exit.

The project may be given by ID or by name.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Runs until interrupted, so no application timeout.
			return NewTrackCommand(r.app(cmd)).Execute(cmd.Context(), args)
		},
	}
}

func (r *RootCommand) reportCommand() *cobra.Command {
	var showSessions bool
	reportCmd := &cobra.Command{
		Use:   "report <project>",
		Short: "Show a project's total and per-application breakdown",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(cmd, NewReportCommand(r.app(cmd), showSessions), args)
		},
	}
	reportCmd.Flags().BoolVarP(&showSessions, "sessions", "s", false, "Also list individual sessions")
	return reportCmd
}

func (r *RootCommand) rescaleCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rescale <project> <app> <new total>",
		Short: "Correct the recorded total of one application",
		Long: `Scale every session of an application in a project so its total
matches the given value. The total is a duration (1h30m) or a number
of hours (1.5). Applications with no recorded time are left alone.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(cmd, NewRescaleCommand(r.app(cmd)), args)
		},
	}
}

func (r *RootCommand) configCommand() *cobra.Command {
	annotations := map[string]string{skipAPI: "true"}

	configCmd := &cobra.Command{
		Use:         "config",
		Short:       "Show or change configuration",
		Annotations: annotations,
	}

	showCmd := &cobra.Command{
		Use:         "show",
		Short:       "Print the effective configuration as YAML",
		Args:        cobra.NoArgs,
		Annotations: annotations,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(cmd, NewConfigShowCommand(r.app(cmd)), args)
		},
	}

	setTimezoneCmd := &cobra.Command{
		Use:         "set-timezone <zone>",
		Short:       "Persist the display timezone in the config file",
		Example:     "  att config set-timezone America/New_York",
		Args:        cobra.ExactArgs(1),
		Annotations: annotations,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(cmd, NewConfigSetTimezoneCommand(r.app(cmd)), args)
		},
	}

	configCmd.AddCommand(showCmd, setTimezoneCmd)
	return configCmd
}

// getAppTimeout returns the configured application timeout
func (r *RootCommand) getAppTimeout() time.Duration {
	if r.config != nil && r.config.Application.Timeout > 0 {
		return r.config.Application.Timeout
	}
	return 60 * time.Second
}
