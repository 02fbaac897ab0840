package goxlr

import (
	"encoding/json"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	DEFAULT_PORT   = 14564
	WEBSOCKET_PATH = "/api/websocket"
)

type StatusReader interface {
	Open() error
	Close() error
	GetStatus() (*DaemonStatus, error)
	Execute(serial string, cmd Command) error
}

type Instrument struct {
	RecordTime func(fnName string, elapsed time.Duration, err error)
}

// WebsocketClient talks to the GoXLR Utility daemon over its websocket API.
// Requests are serialized; push messages from the daemon whose id does not
// match the pending request are discarded.
type WebsocketClient struct {
	url        string
	timeout    time.Duration
	logger     *zap.Logger
	instrument []Instrument

	mu     sync.Mutex
	conn   *websocket.Conn
	nextId uint64
}

func CreateWebsocketReader(host string, port uint, timeout time.Duration, logger *zap.Logger, instrument []Instrument) (*WebsocketClient, error) {
	if host == "" {
		return nil, fmt.Errorf("goxlr: empty host")
	}
	if port == 0 {
		port = DEFAULT_PORT
	}
	u := url.URL{
		Scheme: "ws",
		Host:   net.JoinHostPort(host, strconv.FormatUint(uint64(port), 10)),
		Path:   WEBSOCKET_PATH,
	}
	return &WebsocketClient{
		url:        u.String(),
		timeout:    timeout,
		logger:     logger.With(zap.String("component", "goxlr")),
		instrument: instrument,
	}, nil
}

func (c *WebsocketClient) URL() string {
	return c.url
}

func (c *WebsocketClient) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn != nil {
		return nil
	}
	dialer := websocket.Dialer{HandshakeTimeout: c.timeout}
	conn, _, err := dialer.Dial(c.url, nil)
	if err != nil {
		return fmt.Errorf("goxlr: dial %s: %w", c.url, err)
	}
	c.logger.Debug("connected", zap.String("url", c.url))
	c.conn = conn
	return nil
}

func (c *WebsocketClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

func (c *WebsocketClient) GetStatus() (status *DaemonStatus, err error) {
	defer RecordTimer("GetStatus", c.instrument)(&err)
	data, err := c.roundTrip(func(id uint64) request { return newStatusRequest(id) })
	if err != nil {
		return nil, err
	}
	return decodeStatus(data)
}

func (c *WebsocketClient) Execute(serial string, cmd Command) (err error) {
	defer RecordTimer(cmd.Name, c.instrument)(&err)
	data, err := c.roundTrip(func(id uint64) request { return newCommandRequest(id, serial, cmd) })
	if err != nil {
		return err
	}
	return decodeAck(data)
}

func (c *WebsocketClient) roundTrip(build func(id uint64) request) (json.RawMessage, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil, ErrNotConnected
	}

	c.nextId++
	req := build(c.nextId)

	deadline := time.Now().Add(c.timeout)
	if err := c.conn.SetWriteDeadline(deadline); err != nil {
		return nil, c.fail(err)
	}
	if err := c.conn.WriteJSON(req); err != nil {
		return nil, c.fail(err)
	}
	if err := c.conn.SetReadDeadline(deadline); err != nil {
		return nil, c.fail(err)
	}
	for {
		var resp response
		if err := c.conn.ReadJSON(&resp); err != nil {
			return nil, c.fail(err)
		}
		if resp.Id != req.Id {
			c.logger.Debug("discarding message", zap.Uint64("id", resp.Id))
			continue
		}
		return resp.Data, nil
	}
}

// fail drops a broken connection so the next Open dials again.
func (c *WebsocketClient) fail(err error) error {
	c.conn.Close()
	c.conn = nil
	return fmt.Errorf("goxlr: %w", err)
}

func RecordTimer(name string, instrument []Instrument) func(*error) {
	if instrument == nil {
		return func(*error) {}
	}

	start := time.Now()
	return func(err *error) {
		duration := time.Since(start)
		var e error
		if err != nil {
			e = *err
		}
		for i := range instrument {
			instrument[i].RecordTime(name, duration, e)
		}
	}
}

// ensure interface compliance
var _ StatusReader = (*WebsocketClient)(nil)
