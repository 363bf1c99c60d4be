package client

import (
	"crypto/tls"
	"fmt"
	"net"

	"github.com/sirupsen/logrus"

	"github.com/pubsubviewer/kafka"
	"github.com/pubsubviewer/kafka/api"
	"github.com/pubsubviewer/kafka/frame"
	"github.com/pubsubviewer/kafka/metrics"
)

// Connect dials the broker and starts the background reader. Idempotent: a
// connected client stays connected. Dial, TLS handshake, and configuration
// failures leave the client fully disconnected.
func (c *Client) Connect() error {
	addr, err := c.config.Addr()
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn != nil {
		return nil
	}
	var conn net.Conn
	if c.config.Secure() {
		tlsConfig := c.config.TLS
		if tlsConfig == nil {
			tlsConfig = &tls.Config{}
		}
		conn, err = tls.DialWithDialer(&net.Dialer{Timeout: kafka.DialTimeout}, "tcp", addr, tlsConfig)
	} else {
		conn, err = net.DialTimeout("tcp", addr, kafka.DialTimeout)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", kafka.ErrConnectionFailed, err)
	}
	c.conn = conn
	c.waiters = make(map[int32]chan []byte)
	go c.readLoop(conn)
	c.log.WithFields(logrus.Fields{"addr": addr, "client.id": c.config.ClientId()}).Info("connected")
	return nil
}

// Disconnect tears down, in order: the reader (by closing the socket), the
// poll loop, every pending waiter (resolved with a connection-closed
// failure), every subscription (finished), and the metadata cache (cleared).
// Safe to call twice.
func (c *Client) Disconnect() {
	c.teardown("disconnect")
}

func (c *Client) teardown(reason string) {
	c.mu.Lock()
	conn := c.conn
	waiters := c.waiters
	c.conn = nil
	c.waiters = nil
	c.mu.Unlock()
	if conn == nil && waiters == nil {
		return
	}
	if conn != nil {
		conn.Close() // stops the reader
	}
	c.stopPoller()
	for _, ch := range waiters {
		close(ch) // callers read the closed channel as ErrConnectionClosed
	}
	c.finishSubscriptions()
	c.clearMetadata()
	c.log.WithField("reason", reason).Info("disconnected")
}

// nextCorrelationId returns a strictly increasing id. The counter has its
// own lock so the hot reader path never contends with it.
func (c *Client) nextCorrelationId() int32 {
	c.idMu.Lock()
	defer c.idMu.Unlock()
	c.lastCorrelationId++
	return c.lastCorrelationId
}

// send stamps a correlation id, registers the response waiter, and writes
// the request. The waiter is registered before the bytes hit the wire so a
// fast response cannot arrive unmatched.
func (c *Client) send(req *api.Request) (chan []byte, error) {
	req.CorrelationId = c.nextCorrelationId()
	if req.ClientId == "" {
		req.ClientId = c.config.ClientId()
	}
	b := req.Bytes()
	ch := make(chan []byte, 1)
	c.mu.Lock()
	conn := c.conn
	if conn == nil {
		c.mu.Unlock()
		return nil, kafka.ErrNotConnected
	}
	c.waiters[req.CorrelationId] = ch
	c.mu.Unlock()
	if _, err := conn.Write(b); err != nil {
		c.mu.Lock()
		if c.waiters != nil {
			delete(c.waiters, req.CorrelationId)
		}
		c.mu.Unlock()
		return nil, fmt.Errorf("error sending %s request: %w", api.Keys[req.ApiKey], err)
	}
	metrics.RequestsSent.WithLabelValues(api.Keys[req.ApiKey]).Inc()
	return ch, nil
}

// call does one request-response round trip, blocking the caller until its
// correlation id resolves or the connection goes away. Responses pair with
// requests by correlation id only; arrival order means nothing.
func (c *Client) call(req *api.Request, v interface{}) error {
	ch, err := c.send(req)
	if err != nil {
		return err
	}
	body, ok := <-ch
	if !ok {
		return fmt.Errorf("%s: %w", api.Keys[req.ApiKey], kafka.ErrConnectionClosed)
	}
	if err := api.Unmarshal(body, v); err != nil {
		return fmt.Errorf("error unmarshaling %s response: %w", api.Keys[req.ApiKey], err)
	}
	return nil
}

// readLoop owns the receive side of the socket for the connection's
// lifetime: it feeds chunks to the frame decoder and resolves waiters as
// frames complete. When the socket dies, remotely or via Disconnect, it
// runs the same idempotent teardown.
func (c *Client) readLoop(conn net.Conn) {
	defer c.teardown("reader exit")
	d := &frame.Decoder{}
	buf := make([]byte, 32<<10)
	for {
		n, err := conn.Read(buf)
		if n > 0 {
			resets := d.Resets
			for _, f := range d.Feed(buf[:n]) {
				metrics.FramesDecoded.Inc()
				c.resolve(f)
			}
			if d.Resets > resets {
				metrics.BufferResets.Inc()
				c.log.Warn("corrupt frame length, receive buffer discarded")
			}
		}
		if err != nil {
			c.log.WithError(err).Debug("reader stopped")
			return
		}
	}
}

// resolve fulfills the waiter registered under the frame's correlation id.
// A frame with no waiter was abandoned by its caller; it is dropped.
func (c *Client) resolve(f frame.Frame) {
	c.mu.Lock()
	ch, ok := c.waiters[f.CorrelationId]
	if ok {
		delete(c.waiters, f.CorrelationId)
	}
	c.mu.Unlock()
	if !ok {
		metrics.FramesDropped.Inc()
		c.log.WithField("correlation_id", f.CorrelationId).Debug("dropped frame with no waiter")
		return
	}
	ch <- f.Body()
}

// Connected reports whether the client currently holds a live connection.
func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}
