// Package hub lists model repository refs from a Hugging Face-compatible API.
package hub

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"sort"
	"strconv"
	"time"
)

// DefaultEndpoint is the public Hugging Face API host.
const DefaultEndpoint = "https://huggingface.co"

// Client queries the refs API. Endpoint is overridable for tests and mirrors.
type Client struct {
	Endpoint   string
	HTTPClient *http.Client
}

func NewClient(endpoint string) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{
		Endpoint:   endpoint,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type refsResponse struct {
	Branches []struct {
		Name string `json:"name"`
	} `json:"branches"`
}

// StepRevisions returns the branch names of modelID matching
// "<revision>-step-N", sorted ascending by step number.
func (c *Client) StepRevisions(ctx context.Context, modelID, revision string) ([]string, error) {
	url := fmt.Sprintf("%s/api/models/%s/refs", c.Endpoint, modelID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list refs for %s: %w", modelID, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("list refs for %s: unexpected status %s", modelID, resp.Status)
	}
	var refs refsResponse
	if err := json.NewDecoder(resp.Body).Decode(&refs); err != nil {
		return nil, fmt.Errorf("decode refs for %s: %w", modelID, err)
	}

	pattern := regexp.MustCompile(regexp.QuoteMeta(revision) + `-step-(\d+)$`)
	type match struct {
		name string
		step int
	}
	var matches []match
	for _, b := range refs.Branches {
		m := pattern.FindStringSubmatch(b.Name)
		if m == nil {
			continue
		}
		step, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		matches = append(matches, match{name: b.Name, step: step})
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].step < matches[j].step })

	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, m.name)
	}
	return names, nil
}
