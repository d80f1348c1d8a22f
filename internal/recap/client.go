package recap

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

const (
	submitPath = "/api/recap"
	jobPath    = "/api/job/"
	streamPath = "/stream"
)

// Client talks to a classwrapd instance.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Submit queues a recap build and returns the queued job.
func (c *Client) Submit(req *Request) (*Job, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}
	resp, err := c.httpClient.Post(c.baseURL+submitPath, "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("submitting recap: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusAccepted {
		return nil, statusError("submit", resp)
	}
	var job Job
	if err := json.NewDecoder(resp.Body).Decode(&job); err != nil {
		return nil, fmt.Errorf("decoding job: %w", err)
	}
	return &job, nil
}

// Job fetches the current state of one job.
func (c *Client) Job(id string) (*Job, error) {
	resp, err := c.httpClient.Get(c.baseURL + jobPath + id)
	if err != nil {
		return nil, fmt.Errorf("fetching job: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, statusError("job", resp)
	}
	var job Job
	if err := json.NewDecoder(resp.Body).Decode(&job); err != nil {
		return nil, fmt.Errorf("decoding job: %w", err)
	}
	return &job, nil
}

// Stream follows the job's status websocket, invoking onUpdate for every
// pushed state, and returns the terminal job.
func (c *Client) Stream(id string, onUpdate func(*Job)) (*Job, error) {
	wsURL := "ws" + strings.TrimPrefix(c.baseURL, "http") + jobPath + id + streamPath
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("opening stream: %w", err)
	}
	if resp != nil {
		resp.Body.Close()
	}
	defer conn.Close()

	for {
		var job Job
		if err := conn.ReadJSON(&job); err != nil {
			return nil, fmt.Errorf("reading stream: %w", err)
		}
		if onUpdate != nil {
			onUpdate(&job)
		}
		if job.Status.Terminal() {
			return &job, nil
		}
	}
}

// statusError folds the response body into the error so a 400's reason
// reaches the caller.
func statusError(op string, resp *http.Response) error {
	msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	if text := strings.TrimSpace(string(msg)); text != "" {
		return fmt.Errorf("%s returned status %d: %s", op, resp.StatusCode, text)
	}
	return fmt.Errorf("%s returned status %d", op, resp.StatusCode)
}
