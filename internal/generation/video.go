package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// VideoStatus is the decoded state of a video long-running operation.
type VideoStatus struct {
	Done          bool
	VideoURL      string
	FilterReasons []string
	Progress      int
}

// Failed reports whether the operation finished without usable media.
func (s VideoStatus) Failed() bool {
	return s.Done && s.VideoURL == ""
}

// StartVideoGeneration kicks off a predictLongRunning call and returns the
// operation name to poll.
func (c *Client) StartVideoGeneration(ctx context.Context, prompt, aspectRatio string) (string, error) {
	body := map[string]any{
		"instances": []map[string]any{{"prompt": prompt}},
	}
	if aspectRatio != "" {
		body["parameters"] = map[string]any{"aspectRatio": aspectRatio}
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:predictLongRunning?key=%s", c.endpoint, c.videoModel, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("video generation request failed: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("video generation request failed: %s: %s", resp.Status, truncate(payload, 300))
	}

	var decoded struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(payload, &decoded); err != nil || decoded.Name == "" {
		return "", fmt.Errorf("video generation response had no operation name")
	}
	return decoded.Name, nil
}

// PollVideoOperation fetches the operation state once and best-effort
// extracts either the media reference or the safety-filter reasons from
// the nested response.
func (c *Client) PollVideoOperation(ctx context.Context, operationName string) (*VideoStatus, error) {
	url := fmt.Sprintf("%s/v1beta/%s?key=%s", c.endpoint, strings.TrimPrefix(operationName, "/"), c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("operation poll failed: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("operation poll failed: %s: %s", resp.Status, truncate(payload, 300))
	}

	var decoded map[string]any
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return nil, fmt.Errorf("operation response is not JSON: %w", err)
	}
	return decodeVideoOperation(decoded), nil
}

// decodeVideoOperation turns one decoded operation payload into a status.
// Split out so the fragile extraction path is testable without a server.
func decodeVideoOperation(decoded map[string]any) *VideoStatus {
	status := &VideoStatus{}
	if done, ok := decoded["done"].(bool); ok {
		status.Done = done
	}
	if progress, ok := FindString(decoded, func(k string) bool { return k == "progressPercent" }); ok {
		fmt.Sscanf(progress, "%d", &status.Progress)
	} else if meta, ok := decoded["metadata"].(map[string]any); ok {
		if p, ok := meta["progressPercent"].(float64); ok {
			status.Progress = int(p)
		}
	}
	if !status.Done {
		return status
	}
	if uri, ok := FindMediaURI(decoded); ok {
		status.VideoURL = uri
		status.Progress = 100
		return status
	}
	status.FilterReasons = FilterReasons(decoded)
	return status
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
