package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var (
	recentLimit int
	exportPath  string
)

func init() {
	recentCmd.Flags().IntVar(&recentLimit, "limit", 0, "Number of matches to show (server default when 0)")
	exportCmd.Flags().StringVarP(&exportPath, "output", "o", "trio-snapshot.msgpack", "File to write the snapshot to")

	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(playersCmd)
	rootCmd.AddCommand(addPlayerCmd)
	rootCmd.AddCommand(deletePlayerCmd)
	rootCmd.AddCommand(recordCmd)
	rootCmd.AddCommand(leaderboardCmd)
	rootCmd.AddCommand(mostActiveCmd)
	rootCmd.AddCommand(recentCmd)
	rootCmd.AddCommand(streaksCmd)
	rootCmd.AddCommand(weeklyCmd)
	rootCmd.AddCommand(podiumCmd)
	rootCmd.AddCommand(weeklyReportCmd)
	rootCmd.AddCommand(countersCmd)
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(exportCmd)
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/health")
	},
}

var playersCmd = &cobra.Command{
	Use:   "players",
	Short: "List all players",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/api/players")
	},
}

var addPlayerCmd = &cobra.Command{
	Use:   "add-player <name>",
	Short: "Add a player",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performJSONRequest(http.MethodPost, "/api/players", map[string]string{"name": args[0]})
	},
}

var deletePlayerCmd = &cobra.Command{
	Use:   "delete-player <id>",
	Short: "Delete a player and the matches they won",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid player id %q", args[0])
		}
		return performJSONRequest(http.MethodDelete, fmt.Sprintf("/api/players/%d", id), nil)
	},
}

var recordCmd = &cobra.Command{
	Use:   "record <winner-id> <participant-id>...",
	Short: "Record a match. The winner must be among the participants",
	Args:  cobra.MinimumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids := make([]int64, 0, len(args))
		for _, raw := range args {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid player id %q", raw)
			}
			ids = append(ids, id)
		}
		body := map[string]any{
			"winner_id":       ids[0],
			"participant_ids": ids[1:],
		}
		return performJSONRequest(http.MethodPost, "/api/matches", body)
	},
}

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Show the all-time leaderboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/api/leaderboard")
	},
}

var mostActiveCmd = &cobra.Command{
	Use:   "most-active",
	Short: "Show players by matches played",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/api/most-active")
	},
}

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "Show the latest matches",
	RunE: func(cmd *cobra.Command, args []string) error {
		if recentLimit > 0 {
			return performGetRequest(fmt.Sprintf("/api/recent?limit=%d", recentLimit))
		}
		return performGetRequest("/api/recent")
	},
}

var streaksCmd = &cobra.Command{
	Use:   "streaks",
	Short: "Show current win streaks",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/api/streaks")
	},
}

var weeklyCmd = &cobra.Command{
	Use:   "weekly",
	Short: "Show this work week's leaderboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/api/weekly")
	},
}

var podiumCmd = &cobra.Command{
	Use:   "podium",
	Short: "Show podium days per player",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/api/podium-days")
	},
}

var weeklyReportCmd = &cobra.Command{
	Use:   "weekly-report",
	Short: "Post the weekly leaderboard to Slack now",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performJSONRequest(http.MethodPost, "/api/weekly-report", nil)
	},
}

var countersCmd = &cobra.Command{
	Use:   "counters",
	Short: "Get the persisted activity counters",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/api/counters")
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/metrics")
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Download a snapshot of all players and matches",
	RunE: func(cmd *cobra.Command, args []string) error {
		url := host + "/api/export"
		fmt.Printf("Making request to %s\n", url)

		resp, err := http.Get(url)
		if err != nil {
			return fmt.Errorf("failed to make request: %w", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(resp.Body)
			return fmt.Errorf("export failed with status %d: %s", resp.StatusCode, body)
		}

		f, err := os.Create(exportPath)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", exportPath, err)
		}
		defer f.Close()
		n, err := io.Copy(f, resp.Body)
		if err != nil {
			return fmt.Errorf("failed to write snapshot: %w", err)
		}
		fmt.Printf("Wrote %d bytes to %s\n", n, exportPath)
		return nil
	},
}

func endpointURL(endpoint string) string {
	url := host + endpoint
	if dryRun {
		sep := "?"
		if strings.Contains(endpoint, "?") {
			sep = "&"
		}
		url += sep + "dry_run=true"
	}
	return url
}

func performGetRequest(endpoint string) error {
	return performJSONRequest(http.MethodGet, endpoint, nil)
}

func performJSONRequest(method, endpoint string, payload any) error {
	url := endpointURL(endpoint)
	fmt.Printf("Making request to %s\n", url)

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, url, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(respBody))

	return nil
}
