package osuapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	json "github.com/goccy/go-json"
)

const defaultBaseURL = "https://osu.ppy.sh"

// ErrBeatmapNotFound is returned when the API knows no beatmap with the id.
var ErrBeatmapNotFound = errors.New("beatmap not found")

// Beatmap is the subset of beatmap metadata used for display names.
type Beatmap struct {
	BeatmapID string `json:"beatmap_id"`
	Artist    string `json:"artist"`
	Title     string `json:"title"`
	Version   string `json:"version"`
	Creator   string `json:"creator"`
}

// Client talks to the osu! v1 API.
type Client struct {
	httpClient *http.Client
	apiKey     string
	BaseURL    string
}

// NewClient creates a client authenticated with the given legacy API key.
func NewClient(apiKey string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		apiKey:     apiKey,
		BaseURL:    defaultBaseURL,
	}
}

// Beatmap fetches metadata for a single difficulty.
func (c *Client) Beatmap(ctx context.Context, id int) (Beatmap, error) {
	q := url.Values{}
	q.Set("k", c.apiKey)
	q.Set("b", strconv.Itoa(id))
	endpoint := c.BaseURL + "/api/get_beatmaps?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Beatmap{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "osu-autoref/1.0")

	log.Debug("Requesting beatmap from osu! API", "beatmapID", id)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Beatmap{}, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		log.Error("Received non-OK HTTP status from osu! API", "status", resp.StatusCode, "body", string(body))
		return Beatmap{}, fmt.Errorf("received non-OK HTTP status: %d", resp.StatusCode)
	}

	var maps []Beatmap
	if err := json.NewDecoder(resp.Body).Decode(&maps); err != nil {
		return Beatmap{}, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(maps) == 0 {
		return Beatmap{}, fmt.Errorf("%w: %d", ErrBeatmapNotFound, id)
	}
	return maps[0], nil
}
