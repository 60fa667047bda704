package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"drishti-cli/internal/client"
	"drishti-cli/internal/monitor"
	"drishti-cli/internal/poller"
	"drishti-cli/internal/view"
	"drishti-cli/pkg/models"
)

type feedStatus struct {
	Feed    client.Feed `json:"feed" yaml:"feed"`
	OK      bool        `json:"ok" yaml:"ok"`
	Error   string      `json:"error,omitempty" yaml:"error,omitempty"`
	Latency string      `json:"latency" yaml:"latency"`
}

type statusReport struct {
	BaseURL      string                  `json:"base_url" yaml:"base_url"`
	Health       *models.HealthResponse  `json:"health,omitempty" yaml:"health,omitempty"`
	HealthError  string                  `json:"health_error,omitempty" yaml:"health_error,omitempty"`
	Feeds        []feedStatus            `json:"feeds" yaml:"feeds"`
	AlertCounts  map[models.Severity]int `json:"alert_counts" yaml:"alert_counts"`
	StatusCounts map[models.Status]int   `json:"status_counts" yaml:"status_counts"`
}

// healthSource is the part of the client that status needs.
type healthSource interface {
	poller.Source
	Health(ctx context.Context) (*models.HealthResponse, error)
}

// probeBackend checks /health and fetches every feed once. A failing health
// endpoint does not stop the feed probes.
func probeBackend(ctx context.Context, api healthSource, baseURL string, logger zerolog.Logger) (statusReport, view.View) {
	report := statusReport{BaseURL: baseURL}

	health, err := api.Health(ctx)
	if err != nil {
		report.HealthError = err.Error()
	} else {
		report.Health = health
	}

	sess := monitor.New(monitor.Config{}, logger)
	for _, u := range poller.Once(ctx, api) {
		fs := feedStatus{Feed: u.Feed, OK: u.Err == nil, Latency: u.Took.Round(time.Millisecond).String()}
		if u.Err != nil {
			fs.Error = u.Err.Error()
		}
		report.Feeds = append(report.Feeds, fs)
		sess.Apply(ctx, u)
	}

	v := sess.View(time.Now())
	report.AlertCounts = v.AlertCounts
	report.StatusCounts = v.StatusCounts
	return report, v
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show backend health and probe every feed once",
	Long: `Checks the backend health endpoint and fetches every feed once.
Exits non-zero when the health check or any feed fails.`,
	Run: func(cmd *cobra.Command, args []string) {
		s := mustSettings()
		report, v := probeBackend(context.Background(), newClient(s), s.BaseURL, newLogger(s))

		if !printStructured(os.Stdout, report) {
			renderStatus(os.Stdout, report, v)
		}

		if !report.healthy() {
			os.Exit(1)
		}
	},
}

func (r statusReport) healthy() bool {
	return r.HealthError == "" && lo.EveryBy(r.Feeds, func(fs feedStatus) bool { return fs.OK })
}

func renderStatus(out io.Writer, report statusReport, v view.View) {
	fmt.Fprintf(out, "Backend: %s\n", report.BaseURL)
	if report.Health != nil {
		fmt.Fprintf(out, "Status:  %s (as of %s)\n\n", report.Health.Status, time.Unix(int64(report.Health.Timestamp), 0).Format(time.RFC3339))
	} else {
		fmt.Fprintf(out, "Status:  unavailable (%s)\n\n", report.HealthError)
	}

	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	if report.Health != nil {
		names := lo.Keys(report.Health.Services)
		sort.Strings(names)

		fmt.Fprintln(w, "SERVICE\tSTATE")
		fmt.Fprintln(w, "-------\t-----")
		for _, name := range names {
			fmt.Fprintf(w, "%s\t%s\n", name, report.Health.Services[name])
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w, "FEED\tRESULT\tLATENCY")
	fmt.Fprintln(w, "----\t------\t-------")
	for _, fs := range report.Feeds {
		result := "ok"
		if !fs.OK {
			result = fs.Error
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", fs.Feed, result, fs.Latency)
	}
	w.Flush()

	fmt.Fprintln(out)
	renderCounts(out, v)
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
