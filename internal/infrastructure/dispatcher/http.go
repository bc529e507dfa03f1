package dispatcher

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mitchellh/mapstructure"

	"github.com/orris-inc/saasportal/internal/domain/command"
	"github.com/orris-inc/saasportal/internal/shared/logger"
)

const maxResponseBytes = 1 << 20

// HTTPDispatcher posts commands to provisioning servers.
type HTTPDispatcher struct {
	httpClient *http.Client
	logger     logger.Interface
}

func NewHTTPDispatcher(timeout time.Duration, log logger.Interface) *HTTPDispatcher {
	return &HTTPDispatcher{
		httpClient: &http.Client{Timeout: timeout},
		logger:     log,
	}
}

func (d *HTTPDispatcher) Send(ctx context.Context, req *command.Request) (*command.Result, error) {
	status, reason, body, err := d.post(ctx, req)
	if err != nil {
		return nil, err
	}

	if status < 200 || status >= 300 {
		return nil, &command.ServerCommandFailedError{URL: req.URL, Status: status, Reason: reason, Body: string(body)}
	}

	result, err := decodeResult(body)
	if err != nil {
		d.logger.Errorw("failed to parse server response",
			"url", req.URL,
			"client_id", req.ClientID,
			"body", string(body),
			"error", err,
		)
		return nil, &command.MalformedResponseError{URL: req.URL, Body: string(body), Err: err}
	}
	return result, nil
}

func (d *HTTPDispatcher) SendDelete(ctx context.Context, req *command.Request) error {
	status, _, body, err := d.post(ctx, req)
	if err != nil {
		return err
	}
	if status == http.StatusInternalServerError {
		return fmt.Errorf("%w: %s", command.ErrDeletionUnconfirmed, string(body))
	}
	return nil
}

func (d *HTTPDispatcher) post(ctx context.Context, req *command.Request) (int, string, []byte, error) {
	start := time.Now()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, req.URL, bytes.NewReader(req.Body))
	if err != nil {
		return 0, "", nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := d.httpClient.Do(httpReq)
	if err != nil {
		d.logger.Warnw("server command transport failure",
			"path", req.Path,
			"url", req.URL,
			"client_id", req.ClientID,
			"duration", time.Since(start),
			"error", err,
		)
		return 0, "", nil, fmt.Errorf("failed to send %s: %w", req.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return 0, "", nil, fmt.Errorf("failed to read response from %s: %w", req.URL, err)
	}

	d.logger.Infow("server command sent",
		"path", req.Path,
		"url", req.URL,
		"client_id", req.ClientID,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	return resp.StatusCode, http.StatusText(resp.StatusCode), body, nil
}

func decodeResult(body []byte) (*command.Result, error) {
	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, errors.New("response is not a JSON object")
	}

	var result command.Result
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &result,
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, err
	}
	return &result, nil
}

var _ command.Dispatcher = (*HTTPDispatcher)(nil)
