// Package sync talks to the sync collaborator service: it polls remote
// broadcast and telemetry state and pushes local acknowledgments back up.
package sync

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fieldops/gridtrack/pkg/core"
)

// Client handles communication with the sync collaborator.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a new sync client.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Healthcheck checks if the sync collaborator is reachable.
func (c *Client) Healthcheck() error {
	resp, err := c.do(http.MethodGet, "/healthcheck", nil)
	if err != nil {
		return fmt.Errorf("healthcheck request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("healthcheck returned status %d", resp.StatusCode)
	}
	return nil
}

// FetchBroadcasts retrieves the remote broadcast set for reconciliation.
func (c *Client) FetchBroadcasts() ([]core.Broadcast, error) {
	resp, err := c.do(http.MethodGet, "/api/v1/broadcasts", nil)
	if err != nil {
		return nil, fmt.Errorf("broadcast poll failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("broadcast poll returned status %d", resp.StatusCode)
	}

	var wire []wireBroadcast
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return nil, fmt.Errorf("decoding broadcasts: %w", err)
	}

	out := make([]core.Broadcast, 0, len(wire))
	for _, w := range wire {
		out = append(out, w.toBroadcast())
	}
	return out, nil
}

// FetchTelemetry retrieves pending agent position reports.
func (c *Client) FetchTelemetry() ([]core.Telemetry, error) {
	resp, err := c.do(http.MethodGet, "/api/v1/telemetry", nil)
	if err != nil {
		return nil, fmt.Errorf("telemetry poll failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("telemetry poll returned status %d", resp.StatusCode)
	}

	var reports []core.Telemetry
	if err := json.NewDecoder(resp.Body).Decode(&reports); err != nil {
		return nil, fmt.Errorf("decoding telemetry: %w", err)
	}
	return reports, nil
}

// PushAcknowledgment uploads one local acknowledgment.
func (c *Client) PushAcknowledgment(ack core.Acknowledgment) error {
	body, err := json.Marshal(ack)
	if err != nil {
		return fmt.Errorf("encoding acknowledgment: %w", err)
	}

	resp, err := c.do(http.MethodPost, "/api/v1/acknowledgments", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("acknowledgment push failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("acknowledgment push returned status %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) do(method, path string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequest(method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.httpClient.Do(req)
}

// wireBroadcast is the collaborator's JSON shape. Expiry travels as
// milliseconds and ack responses may use legacy aliases.
type wireBroadcast struct {
	ID           string    `json:"id"`
	Message      string    `json:"message"`
	Priority     string    `json:"priority,omitempty"`
	IssuedBy     string    `json:"issuedBy"`
	IssuedAt     time.Time `json:"issuedAt"`
	TargetAgents []string  `json:"targetAgents"`
	RequiresAck  bool      `json:"requiresAck"`
	AutoExpireMs int64     `json:"autoExpireMs"`
	Acks         []wireAck `json:"acknowledgments"`
}

type wireAck struct {
	TargetID        string    `json:"targetId"`
	AgentID         string    `json:"agentId"`
	AgentCallsign   string    `json:"agentCallsign"`
	AcknowledgedAt  time.Time `json:"acknowledgedAt"`
	Response        string    `json:"response"`
	ResponseMessage string    `json:"responseMessage,omitempty"`
}

func (w wireBroadcast) toBroadcast() core.Broadcast {
	b := core.Broadcast{
		ID:           w.ID,
		Message:      w.Message,
		Priority:     w.Priority,
		IssuedBy:     w.IssuedBy,
		IssuedAt:     w.IssuedAt,
		TargetAgents: w.TargetAgents,
		RequiresAck:  w.RequiresAck,
		AutoExpire:   time.Duration(w.AutoExpireMs) * time.Millisecond,
	}
	for _, a := range w.Acks {
		response, ok := core.NormalizeAckResponse(a.Response)
		if !ok {
			continue
		}
		b.Acks = append(b.Acks, core.Acknowledgment{
			TargetID:        a.TargetID,
			AgentID:         a.AgentID,
			AgentCallsign:   a.AgentCallsign,
			AcknowledgedAt:  a.AcknowledgedAt,
			Response:        response,
			ResponseMessage: a.ResponseMessage,
		})
	}
	return b
}
