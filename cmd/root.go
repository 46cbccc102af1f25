package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/s0up4200/staffeli/canvas"
	"github.com/s0up4200/staffeli/config"
	"github.com/s0up4200/staffeli/lms"
	"github.com/s0up4200/staffeli/workspace"
)

var (
	cfgFile string
	verbose bool
	cfg     *config.Config
	logger  zerolog.Logger
	client  *canvas.Client
	session *lms.Session
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "staffeli",
	Short: "Course administration for Canvas from the command line",
	Long: `staffeli keeps a local, git-friendly working copy of a Canvas course.

Clone a course into a directory, then fetch students, groups and submissions
into it. Commands run inside the clone find the course by looking for the
nearest .staffeli.yml in the working directory or its parents.

The access token is read from canvas.token in staffeli.yaml, from
STAFFELI_CANVAS_TOKEN, or from the closest file named token, token.txt or
.token.`,
	PersistentPreRunE: initializeApp,
	SilenceUsage:      true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./staffeli.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log every Canvas request")
}

// initializeApp initializes the configuration and clients
func initializeApp(cmd *cobra.Command, args []string) error {
	// Load configuration
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if verbose {
		cfg.Logging.Level = "debug"
	}

	// Setup logger
	logger = setupLogger(cfg.Logging)

	creds, err := config.ResolveCredentials(config.DefaultSources(cfg)...)
	if err != nil {
		return err
	}
	logger.Debug().Str("source", creds.Source).Msg("Using Canvas token")

	// Create Canvas client
	client, err = canvas.NewClient(cfg.Canvas.URL, creds.Token, logger,
		canvas.WithPageSize(cfg.Canvas.PageSize),
		canvas.WithTimeout(cfg.Canvas.Timeout),
		canvas.WithUserAgent("staffeli/"+version),
	)
	if err != nil {
		return fmt.Errorf("failed to create Canvas client: %w", err)
	}

	session = lms.NewSession(client, logger, lms.WithAccountID(cfg.Canvas.AccountID))
	return nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	// Set log level
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	// Configure output format
	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	fd := os.Stderr.Fd()
	tty := isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)

	// Console format
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.Kitchen,
		NoColor:    !cfg.Color || !tty,
	}

	return zerolog.New(output).With().Timestamp().Logger()
}

// currentCourse loads the course cached in the working directory or above
// and returns it with the root directory of the clone.
func currentCourse(ctx context.Context) (*lms.Course, string, error) {
	course, err := session.Course(ctx, lms.Cached())
	if err != nil {
		if errors.Is(err, workspace.ErrNotFound) {
			return nil, "", fmt.Errorf("not inside a course clone, run \"staffeli clone\" first: %w", err)
		}
		return nil, "", err
	}
	return course, course.Dir(), nil
}

// courseStudents loads the roster cached by "fetch students".
func courseStudents(root string) (*lms.StudentList, error) {
	students, err := session.Students(filepath.Join(root, "students"), false)
	if err != nil {
		return nil, fmt.Errorf("no cached student list, run \"staffeli fetch students\" first: %w", err)
	}
	return students, nil
}

// normalizePathname makes an entity name usable as a single path element.
func normalizePathname(name string) string {
	return strings.ReplaceAll(name, string(filepath.Separator), "_")
}
