package main

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"cydwatch/internal/core/stopwatch"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newStatsCmd() *cobra.Command {
	var addr string
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print the session statistics of a running stopwatch",
		Long:  `Query the web monitor of a running stopwatch and print its session statistics as JSON.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			stats, err := fetchStats(ctx, addr)
			if err != nil {
				return err
			}
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			return encoder.Encode(stats)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "localhost:8080", "Address of the web monitor")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Second, "Request timeout")
	return cmd
}

func fetchStats(ctx context.Context, addr string) (stopwatch.Stats, error) {
	var stats stopwatch.Stats
	url := addr
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		url = "http://" + url
	}
	url = strings.TrimSuffix(url, "/") + "/api"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return stats, errors.Wrap(err, "build stats request")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return stats, errors.Wrapf(err, "query %s", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return stats, errors.Errorf("query %s: %s", url, resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		return stats, errors.Wrap(err, "decode stats")
	}
	return stats, nil
}
