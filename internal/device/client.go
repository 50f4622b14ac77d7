// Package device talks to the miner's line-delimited JSON API.
//
// Every request uses its own TCP connection. The miner does not close the
// connection after replying, so a reply ends either when the peer closes the
// stream or when no new bytes arrive within the idle timeout.
package device

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net"
	"strings"
	"time"

	"github.com/rileyhilliard/rigmon/internal/errors"
	"github.com/rileyhilliard/rigmon/internal/logger"
)

// Command is a request id understood by the miner API.
type Command string

const (
	CommandChipInfo   Command = "getchipinfo"
	CommandBoardPower Command = "boardpow"
	CommandFans       Command = "fan"
	CommandState      Command = "state"
)

// Commands returns the commands issued every refresh cycle, in order.
func Commands() []Command {
	return []Command{CommandChipInfo, CommandBoardPower, CommandFans, CommandState}
}

// Default timeouts for a single request.
const (
	DefaultIdleTimeout = 2 * time.Second
	DefaultDialTimeout = 5 * time.Second
)

// readChunk matches the miner firmware's send buffer.
const readChunk = 1024

// Fetcher sends one command to the device and returns the raw reply.
// The real Client and test fakes both satisfy this interface.
type Fetcher interface {
	Request(ctx context.Context, cmd Command) ([]byte, error)
}

// Client issues requests to one miner.
type Client struct {
	Addr        string        // host:port of the miner API
	DialTimeout time.Duration // 0 uses DefaultDialTimeout
	IdleTimeout time.Duration // 0 uses DefaultIdleTimeout

	log logger.Logger
}

// NewClient creates a client for the miner at addr.
func NewClient(addr string, dialTimeout, idleTimeout time.Duration) *Client {
	return &Client{
		Addr:        addr,
		DialTimeout: dialTimeout,
		IdleTimeout: idleTimeout,
		log:         logger.New("[device]"),
	}
}

// SetLogger replaces the client's logger.
func (c *Client) SetLogger(l logger.Logger) {
	c.log = l
}

// EncodeRequest returns the wire form of cmd: a JSON object terminated by CRLF.
func EncodeRequest(cmd Command) []byte {
	body, _ := json.Marshal(struct {
		ID string `json:"id"`
	}{ID: string(cmd)})
	return append(body, '\r', '\n')
}

// Request opens a fresh connection, sends cmd and reads the reply.
//
// The returned bytes may be empty. A read that stops because the idle timeout
// elapsed is a complete reply, not an error. Connection and write failures
// are returned as ErrTransport errors. Requests are never retried.
func (c *Client) Request(ctx context.Context, cmd Command) ([]byte, error) {
	start := time.Now()

	dialer := net.Dialer{Timeout: c.dialTimeout()}
	conn, err := dialer.DialContext(ctx, "tcp", c.Addr)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, errors.WrapWithCode(err, errors.ErrTransport,
			fmt.Sprintf("Can't reach miner at %s", c.Addr),
			suggestionForDialError(err))
	}
	defer conn.Close()

	// Unblock the read loop if the caller gives up.
	stop := context.AfterFunc(ctx, func() {
		_ = conn.SetDeadline(time.Now())
	})
	defer stop()

	if _, err := conn.Write(EncodeRequest(cmd)); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrTransport,
			fmt.Sprintf("Couldn't send '%s' to %s", cmd, c.Addr),
			"The miner dropped the connection. Check it is still online.")
	}

	reply, err := c.readReply(conn)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrTransport,
			fmt.Sprintf("Reading '%s' reply from %s failed", cmd, c.Addr),
			"The miner reset the connection. Check it is still online.")
	}

	c.logger().Debug("%s: %d bytes in %s", cmd, len(reply), time.Since(start).Round(time.Millisecond))
	return reply, nil
}

// readReply reads until EOF or until the idle timeout passes without data.
func (c *Client) readReply(conn net.Conn) ([]byte, error) {
	var reply []byte
	buf := make([]byte, readChunk)
	idle := c.idleTimeout()

	for {
		if err := conn.SetReadDeadline(time.Now().Add(idle)); err != nil {
			return reply, err
		}
		n, err := conn.Read(buf)
		reply = append(reply, buf[:n]...)
		if err == nil {
			continue
		}
		if stderrors.Is(err, io.EOF) {
			return reply, nil
		}
		var netErr net.Error
		if stderrors.As(err, &netErr) && netErr.Timeout() {
			return reply, nil
		}
		return reply, err
	}
}

func (c *Client) dialTimeout() time.Duration {
	if c.DialTimeout <= 0 {
		return DefaultDialTimeout
	}
	return c.DialTimeout
}

func (c *Client) idleTimeout() time.Duration {
	if c.IdleTimeout <= 0 {
		return DefaultIdleTimeout
	}
	return c.IdleTimeout
}

func (c *Client) logger() logger.Logger {
	if c.log == nil {
		return logger.Noop()
	}
	return c.log
}

func suggestionForDialError(err error) string {
	errStr := err.Error()
	if strings.Contains(errStr, "connection refused") {
		return "Nothing is listening on that port. Check the miner API port."
	}
	if strings.Contains(errStr, "no such host") {
		return "Can't resolve the hostname. Try the miner's IP address instead."
	}
	if strings.Contains(errStr, "no route to host") || strings.Contains(errStr, "network is unreachable") {
		return "Can't route to the miner. Check your network connection."
	}
	if strings.Contains(errStr, "timeout") {
		return "Connection timed out. The miner might be offline or blocked by a firewall."
	}
	return "Make sure the miner is reachable: ping <ip>"
}
