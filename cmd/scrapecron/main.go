package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

// logEntry is one line of the run log.
type logEntry struct {
	Timestamp time.Time       `json:"timestamp"`
	Source    string          `json:"source,omitempty"`
	Status    string          `json:"status"`
	Response  json.RawMessage `json:"response,omitempty"`
	Error     string          `json:"error,omitempty"`
}

const maxLogEntries = 100

var (
	endpoint string
	source   string
	logPath  string
	timeout  time.Duration
)

// scrapecron is the external trigger for scheduled scraping. It is meant
// to run from crontab or a systemd timer: it calls the harvester's
// trigger endpoint, appends the outcome to a bounded run log, and exits
// non-zero when the trigger fails so the scheduler's own alerting fires.
func main() {
	rootCmd := &cobra.Command{
		Use:   "scrapecron",
		Short: "Trigger a harvester scrape cycle over HTTP",
		RunE:  run,
	}

	rootCmd.Flags().StringVarP(&endpoint, "endpoint", "e", "http://localhost:8080", "harvester base URL")
	rootCmd.Flags().StringVarP(&source, "source", "s", "", "scrape only the named source")
	rootCmd.Flags().StringVarP(&logPath, "log-file", "l", "scrapecron.log", "run log file path")
	rootCmd.Flags().DurationVar(&timeout, "timeout", 5*time.Minute, "request timeout")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	entry := logEntry{Timestamp: time.Now(), Source: source}

	body, err := trigger()
	if err != nil {
		entry.Status = "error"
		entry.Error = err.Error()
	} else {
		entry.Status = "ok"
		entry.Response = body
	}

	if err == nil {
		// The trigger answers 200 even when sources fail; per-source
		// errors live in the body and must still fail the cron run.
		if failures := sourceFailures(body); len(failures) > 0 {
			entry.Status = "error"
			entry.Error = strings.Join(failures, "; ")
			err = fmt.Errorf("%d source(s) failed: %s", len(failures), entry.Error)
		}
	}

	if logErr := appendLog(logPath, entry); logErr != nil {
		fmt.Fprintf(os.Stderr, "scrapecron: write log: %v\n", logErr)
	}

	if err != nil {
		return fmt.Errorf("trigger scrape: %w", err)
	}
	fmt.Printf("scrape triggered: %s\n", body)
	return nil
}

// sourceFailures pulls per-source error messages out of the trigger
// response.
func sourceFailures(body json.RawMessage) []string {
	var resp struct {
		Results []struct {
			Source string `json:"source"`
			Error  string `json:"error"`
		} `json:"results"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil
	}
	var out []string
	for _, r := range resp.Results {
		if r.Error != "" {
			out = append(out, r.Source+": "+r.Error)
		}
	}
	return out
}

// trigger calls GET /api/scrape and returns the raw JSON response.
func trigger() (json.RawMessage, error) {
	reqURL := strings.TrimRight(endpoint, "/") + "/api/scrape"
	if source != "" {
		reqURL += "?source=" + url.QueryEscape(source)
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(reqURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("non-JSON response: %s", strings.TrimSpace(string(body)))
	}
	return body, nil
}

// appendLog appends the entry as one JSON line and truncates the file to
// the most recent entries so an unattended cron job never grows it
// unbounded.
func appendLog(path string, entry logEntry) error {
	line, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	existing, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}

	var lines []string
	for _, l := range strings.Split(string(existing), "\n") {
		if strings.TrimSpace(l) != "" {
			lines = append(lines, l)
		}
	}
	lines = append(lines, string(line))
	if len(lines) > maxLogEntries {
		lines = lines[len(lines)-maxLogEntries:]
	}

	return os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644)
}
