package cmd

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"log"
	"os"

	"github.com/ex11-team/simplesh/core"
	"github.com/ex11-team/simplesh/core/config"
	"github.com/ex11-team/simplesh/core/logger"
	"github.com/ex11-team/simplesh/core/vos"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	cfgPath    string
	lineToRun  string
	exitStatus int
)

func loadConfig() (*config.Configuration, error) {
	if cfgPath == "" {
		return config.Default(), nil
	}

	configuration, err := config.Load(cfgPath)

	if errors.Is(err, fs.ErrNotExist) {
		log.Println("Couldn't load config: did you run init?")
	}

	return configuration, err
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// openEvents opens the configured event log, the returned closer is never
// nil.
func openEvents(cfg *config.Configuration) (*logger.Logger, io.Closer, error) {
	fd, err := cfg.OpenEventLog()
	switch {
	case errors.Is(err, config.ErrNoEventLog):
		return logger.NewNopLogger(), io.NopCloser(nil), nil
	case err != nil:
		return nil, nil, err
	}
	return logger.NewJsonLinesLogRecorder(fd), fd, nil
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "simplesh",
	Short: "A small interactive command interpreter",
	Long: `Reads one line at a time and runs a builtin or an external program.
End a line with & to run the program in the background.`,
	Args: cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		events, eventsCloser, err := openEvents(cfg)
		if err != nil {
			return err
		}
		defer eventsCloser.Close()

		color.NoColor = !cfg.ShouldColor(isTerminal(os.Stdout))

		hostOS := vos.NewHostOS(nil)
		reader := core.NewLineReader(hostOS, isTerminal(os.Stdin), cfg.HistoryLimit)
		shell := core.NewShell(cfg, hostOS, reader, events.NewSession())
		shell.Color = !color.NoColor
		defer shell.Close()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		shell.Signals.Start(ctx)

		if cmd.Flags().Changed("command") {
			shell.RunLine(lineToRun)
			exitStatus = 0
			return nil
		}

		exitStatus = shell.Run()
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	log.SetPrefix("[simplesh] ")
	log.SetFlags(0)

	cobra.CheckErr(rootCmd.Execute())
	os.Exit(exitStatus)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config directory or config.yaml path, built-in defaults if empty")
	rootCmd.Flags().StringVarP(&lineToRun, "command", "c", "", "run a single line and exit")
}
