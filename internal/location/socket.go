package location

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/specialistvlad/assetgraph/internal/ctxlog"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// Events exchanged with a location server. Every request event is answered
// by the same event name suffixed with ResultSuffix.
const (
	EventListRepositories = "list_repositories"
	EventSubsetPipeline   = "subset_pipeline"
	ResultSuffix          = "_result"
)

// SocketDialer opens locations served over socket.io.
type SocketDialer struct {
	// Timeout bounds the connection and every request. Zero means 15s.
	Timeout            time.Duration
	InsecureSkipVerify bool
}

func (d *SocketDialer) timeout() time.Duration {
	if d.Timeout > 0 {
		return d.Timeout
	}
	return 15 * time.Second
}

// Dial connects to origin.URL and waits for the connection to be confirmed.
func (d *SocketDialer) Dial(ctx context.Context, origin Origin) (Location, error) {
	logger := ctxlog.FromContext(ctx).With("location", origin.Location, "url", origin.URL)

	if origin.URL == "" {
		return nil, fmt.Errorf("location '%s' has no URL", origin.Location)
	}
	parsedURL, err := url.Parse(origin.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}

	opts := socket.DefaultOptions()
	opts.SetPath(parsedURL.Path)
	if d.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	connectChan := make(chan error, 1)

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket(origin.Namespace, opts)

	io.Once(types.EventName("connect"), func(...any) {
		logger.Debug("Dial: Connected.", "sid", io.Id())
		connectChan <- nil
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		err := errors.New("connection refused")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = e
			}
		}
		connectChan <- err
	})

	io.Connect()

	timeout := d.timeout()
	select {
	case err := <-connectChan:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("socket.io connection failed: %w", err)
		}
		return &socketLocation{io: io, timeout: timeout}, nil
	case <-ctx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("context cancelled while waiting for socket.io connection: %w", ctx.Err())
	case <-time.After(timeout):
		io.Disconnect()
		return nil, fmt.Errorf("timed out after %v waiting for socket.io connection", timeout)
	}
}

// socketLocation is a Location backed by a connected socket. Requests are
// serialized because responses carry no correlation id.
type socketLocation struct {
	mu      sync.Mutex
	io      *socket.Socket
	timeout time.Duration
}

// response is the envelope of every result event.
type response struct {
	Error        string            `json:"error,omitempty"`
	Repositories []string          `json:"repositories,omitempty"`
	Pipeline     *ExternalPipeline `json:"pipeline,omitempty"`
}

func (l *socketLocation) Repositories(ctx context.Context) ([]string, error) {
	resp, err := l.request(ctx, EventListRepositories, map[string]any{})
	if err != nil {
		return nil, err
	}
	return resp.Repositories, nil
}

func (l *socketLocation) Pipeline(ctx context.Context, sel Selector) (*ExternalPipeline, error) {
	resp, err := l.request(ctx, EventSubsetPipeline, sel)
	if err != nil {
		return nil, err
	}
	if resp.Pipeline == nil {
		return nil, fmt.Errorf("location returned no pipeline for '%s'", sel.Pipeline)
	}
	return resp.Pipeline, nil
}

func (l *socketLocation) Close() error {
	l.io.Disconnect()
	return nil
}

type result struct {
	resp *response
	err  error
}

func (l *socketLocation) request(ctx context.Context, event string, payload any) (*response, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.io.Connected() {
		return nil, fmt.Errorf("socket is not connected")
	}
	logger := ctxlog.FromContext(ctx).With("sid", l.io.Id(), "event", event)

	data, err := toPlain(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode '%s' request: %w", event, err)
	}

	done := make(chan result, 1)
	opCtx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	l.io.Once(types.EventName(event+ResultSuffix), func(args ...any) {
		var raw any
		if len(args) > 0 {
			raw = args[0]
		}
		resp, err := decodeResponse(raw)
		done <- result{resp: resp, err: err}
	})

	logger.Debug("request: Emitting.")
	l.io.Emit(event, data)

	select {
	case <-opCtx.Done():
		return nil, fmt.Errorf("timed out after %v waiting for event '%s'", l.timeout, event+ResultSuffix)
	case res := <-done:
		if res.err != nil {
			return nil, res.err
		}
		logger.Debug("request: Response received.")
		return res.resp, nil
	}
}

// toPlain converts a payload into the map form socket.io serializes.
func toPlain(payload any) (any, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// decodeResponse converts the decoded JSON of a result event into a
// response. A non-empty error field becomes an error.
func decodeResponse(raw any) (*response, error) {
	if raw == nil {
		return nil, errors.New("empty response from location")
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to re-encode response: %w", err)
	}
	var resp response
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("location error: %s", resp.Error)
	}
	return &resp, nil
}
