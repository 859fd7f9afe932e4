package rtdb

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/techxplorers/portfolio/internal/adapter/driven/wire"
	"github.com/techxplorers/portfolio/internal/domain/model"
	"github.com/techxplorers/portfolio/internal/domain/port/driven"
)

const maxEventSize = 4 << 20

var (
	errStreamCanceled = errors.New("stream canceled by security rules")
	errAuthRevoked    = errors.New("stream credential revoked")
)

// Subscribe streams path and emits the full collection after every server
// event. Connection failures are reported as events carrying
// model.ErrStoreUnavailable and the stream reconnects after the retry
// delay. A subscriber that falls behind receives only the newest state.
func (c *Client) Subscribe(ctx context.Context, path string) (<-chan driven.CatalogEvent, func(), error) {
	if strings.Trim(path, "/") == "" {
		return nil, nil, errors.New("subscribe: path is required")
	}

	ctx, cancel := context.WithCancel(ctx)
	out := make(chan driven.CatalogEvent, 1)
	done := make(chan struct{})

	go func() {
		defer close(done)
		defer close(out)
		c.streamLoop(ctx, path, out)
	}()

	var once sync.Once
	dispose := func() {
		once.Do(func() {
			cancel()
			<-done
		})
	}
	return out, dispose, nil
}

func (c *Client) streamLoop(ctx context.Context, path string, out chan driven.CatalogEvent) {
	for {
		err := c.streamOnce(ctx, path, out)
		if ctx.Err() != nil {
			return
		}

		c.logger.Warn("catalog stream interrupted", "path", path, "error", err, "retry_in", c.retryDelay)
		emit(ctx, out, driven.CatalogEvent{Err: fmt.Errorf("stream %s: %w: %w", path, model.ErrStoreUnavailable, err)})

		select {
		case <-ctx.Done():
			return
		case <-time.After(c.retryDelay):
		}
	}
}

// streamOnce holds one connection open until it fails or ctx ends. The
// local tree starts empty on every connection; the server's first put
// carries the full state.
func (c *Client) streamOnce(ctx context.Context, path string, out chan driven.CatalogEvent) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(ctx, path), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.stream.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError(resp, false)
	}

	c.logger.Info("catalog stream connected", "path", path)

	var local tree
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64<<10), maxEventSize)

	var name string
	var data bytes.Buffer
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case line == "":
			if name != "" {
				if err := c.handleEvent(ctx, path, &local, name, data.Bytes(), out); err != nil {
					return err
				}
			}
			name = ""
			data.Reset()
		case strings.HasPrefix(line, "event:"):
			name = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			if data.Len() > 0 {
				data.WriteByte('\n')
			}
			data.WriteString(strings.TrimSpace(strings.TrimPrefix(line, "data:")))
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read stream: %w", err)
	}
	return errors.New("stream closed by server")
}

type streamPayload struct {
	Path string `json:"path"`
	Data any    `json:"data"`
}

func (c *Client) handleEvent(ctx context.Context, path string, local *tree, name string, data []byte, out chan driven.CatalogEvent) error {
	switch name {
	case "keep-alive":
		return nil
	case "cancel":
		return errStreamCanceled
	case "auth_revoked":
		return errAuthRevoked
	case "put", "patch":
	default:
		c.logger.Debug("ignoring stream event", "event", name)
		return nil
	}

	var p streamPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("decode %s event: %w", name, err)
	}

	if name == "put" {
		local.set(p.Path, p.Data)
	} else {
		children, ok := p.Data.(map[string]any)
		if !ok {
			return fmt.Errorf("patch event at %q carried no object", p.Path)
		}
		local.merge(p.Path, children)
	}

	raw, err := json.Marshal(local.root)
	if err != nil {
		return fmt.Errorf("encode local tree: %w", err)
	}
	records, skipped, err := wire.DecodeCollection(raw)
	if err != nil {
		return err
	}
	c.logSkipped(path, skipped)

	emit(ctx, out, driven.CatalogEvent{Records: records})
	return nil
}

// emit replaces any undelivered event with ev. Only the stream goroutine
// sends on out.
func emit(ctx context.Context, out chan driven.CatalogEvent, ev driven.CatalogEvent) {
	select {
	case <-out:
	default:
	}
	select {
	case out <- ev:
	case <-ctx.Done():
	}
}
