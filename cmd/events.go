package cmd

import (
	"encoding/json"
	"io"

	"github.com/ex11-team/simplesh/core/config"
	"github.com/ex11-team/simplesh/core/logger"
	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"
)

var (
	eventsSession string
	eventsJSON    bool
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Inspect the interpreter's event log.",
}

var eventsReportCmd = &cobra.Command{
	Use:   "report",
	Short: "Summarize recorded sessions.",
	Long: `Summarize the event log named by event_log in the configuration.

Use --session to restrict the summary to a single interpreter session.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		report, err := summarizeEvents(cfg, eventsSession)
		if err != nil {
			return err
		}

		return writeReport(cmd.OutOrStdout(), report, eventsJSON)
	},
}

// summarizeEvents folds the configured event log into a report, skipping
// entries from other sessions when session is set.
func summarizeEvents(cfg *config.Configuration, session string) (*logger.Report, error) {
	fd, err := cfg.ReadEventLog()
	if err != nil {
		return nil, err
	}
	defer fd.Close()

	report := logger.NewReport()
	err = logger.ReadJSONLinesLog(fd, func(le *logger.LogEntry) {
		if session != "" && le.SessionID != session {
			return
		}
		report.Update(le)
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

func writeReport(w io.Writer, report *logger.Report, asJSON bool) error {
	var (
		out []byte
		err error
	)
	if asJSON {
		out, err = json.MarshalIndent(report, "", "  ")
		out = append(out, '\n')
	} else {
		out, err = yaml.Marshal(report)
	}
	if err != nil {
		return err
	}

	_, err = w.Write(out)
	return err
}

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsCmd.AddCommand(eventsReportCmd)

	eventsReportCmd.Flags().StringVar(&eventsSession, "session", "", "only count events from this session ID")
	eventsReportCmd.Flags().BoolVar(&eventsJSON, "json", false, "print the report as JSON instead of YAML")
}
