package seed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/courtiq/skillrank/internal/domain/types"
	"github.com/courtiq/skillrank/pkg/logger"
)

// Run executes the complete seed-and-verify flow.
func Run(ctx context.Context, config *Config) error {
	log := logger.Get()
	stats := &Stats{StartTime: time.Now()}

	log.Info(ctx, "starting seed run",
		logger.String("venue", config.VenueID),
		logger.String("baseURL", config.BaseURL),
		logger.Int("players", config.NumPlayers))

	ds, err := Generate(ctx, config, stats)
	if err != nil {
		return fmt.Errorf("dataset generation failed: %w", err)
	}

	if err := Load(ctx, config, ds, stats); err != nil {
		return fmt.Errorf("dataset load failed: %w", err)
	}

	// Without a service URL the run is load-only.
	if config.BaseURL != "" {
		lb, err := recomputeLeaderboard(ctx, config)
		if err != nil {
			return fmt.Errorf("leaderboard recompute failed: %w", err)
		}
		stats.BoardEntries = len(lb.Entries)

		if err := Verify(ctx, config, ds, lb); err != nil {
			return fmt.Errorf("verification failed: %w", err)
		}
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	log.Info(ctx, "seed run completed",
		logger.Int("playersGenerated", stats.PlayersGenerated),
		logger.Int("rowsInserted", stats.RowsInserted),
		logger.Int("boardEntries", stats.BoardEntries),
		logger.String("duration", stats.Duration.String()))
	return nil
}

// recomputeLeaderboard checks service health, forces a recompute and
// returns the freshly served board.
func recomputeLeaderboard(ctx context.Context, config *Config) (*types.Leaderboard, error) {
	client := &http.Client{Timeout: config.Timeout}

	if err := checkHealth(ctx, client, config.BaseURL); err != nil {
		return nil, err
	}

	url := config.BaseURL + "/venues/" + config.VenueID + "/leaderboard:recompute"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(nil))
	if err != nil {
		return nil, fmt.Errorf("create recompute request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("recompute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read recompute response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("recompute returned status %d: %s", resp.StatusCode, string(body))
	}

	var lb types.Leaderboard
	if err := json.Unmarshal(body, &lb); err != nil {
		return nil, fmt.Errorf("decode leaderboard: %w", err)
	}
	return &lb, nil
}

func checkHealth(ctx context.Context, client *http.Client, baseURL string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/healthz", nil)
	if err != nil {
		return fmt.Errorf("create health request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("service unreachable: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("service health check returned status %d", resp.StatusCode)
	}
	return nil
}
