// Package testing provides test doubles for the device package.
package testing

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/rileyhilliard/rigmon/internal/device"
	"gopkg.in/yaml.v3"
)

//go:embed testdata/*.yaml
var fixtures embed.FS

// Response configures how the fake device answers one command.
type Response struct {
	Body  string        `yaml:"body"`
	Close bool          `yaml:"close"` // Close right after replying instead of holding the connection open
	Delay time.Duration `yaml:"delay"` // Wait before replying
}

type fixtureFile struct {
	Responses map[string]Response `yaml:"responses"`
}

// Fixture loads a canned set of replies from testdata/<name>.yaml.
func Fixture(name string) (map[device.Command]Response, error) {
	data, err := fixtures.ReadFile("testdata/" + name + ".yaml")
	if err != nil {
		return nil, err
	}
	return ParseFixture(data)
}

// ParseFixture decodes a YAML fixture document.
func ParseFixture(data []byte) (map[device.Command]Response, error) {
	var f fixtureFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}
	out := make(map[device.Command]Response, len(f.Responses))
	for cmd, resp := range f.Responses {
		out[device.Command(cmd)] = resp
	}
	return out, nil
}

// FakeDevice is an in-process TCP server speaking the miner protocol.
// Unknown commands get no reply, so the client falls back to its idle timeout.
type FakeDevice struct {
	ln        net.Listener
	responses map[device.Command]Response

	mu       sync.Mutex
	requests []string
	wg       sync.WaitGroup
}

// NewFakeDevice starts a fake device on a random loopback port.
func NewFakeDevice(responses map[device.Command]Response) (*FakeDevice, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, err
	}
	d := &FakeDevice{ln: ln, responses: responses}
	d.wg.Add(1)
	go d.serve()
	return d, nil
}

// Addr returns the host:port the fake device listens on.
func (d *FakeDevice) Addr() string {
	return d.ln.Addr().String()
}

// Requests returns the raw request lines received so far, CRLF included.
func (d *FakeDevice) Requests() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, len(d.requests))
	copy(out, d.requests)
	return out
}

// Close stops the listener and waits for open connections to finish.
func (d *FakeDevice) Close() error {
	err := d.ln.Close()
	d.wg.Wait()
	return err
}

func (d *FakeDevice) serve() {
	defer d.wg.Done()
	for {
		conn, err := d.ln.Accept()
		if err != nil {
			return
		}
		d.wg.Add(1)
		go d.handle(conn)
	}
}

func (d *FakeDevice) handle(conn net.Conn) {
	defer d.wg.Done()
	defer conn.Close()

	line, err := readLine(conn)
	if err != nil {
		return
	}
	d.mu.Lock()
	d.requests = append(d.requests, line)
	d.mu.Unlock()

	cmd, ok := parseCommand(line)
	resp, known := d.responses[cmd]
	if ok && known {
		if resp.Delay > 0 {
			time.Sleep(resp.Delay)
		}
		if _, err := io.WriteString(conn, resp.Body); err != nil {
			return
		}
		if resp.Close {
			return
		}
	}

	// Hold the connection like the real firmware until the client hangs up.
	_, _ = io.Copy(io.Discard, conn)
}

// readLine reads up to and including the CRLF terminator.
func readLine(conn net.Conn) (string, error) {
	var line []byte
	b := make([]byte, 1)
	for {
		n, err := conn.Read(b)
		if n > 0 {
			line = append(line, b[0])
			if len(line) >= 2 && line[len(line)-2] == '\r' && line[len(line)-1] == '\n' {
				return string(line), nil
			}
		}
		if err != nil {
			return string(line), err
		}
	}
}

func parseCommand(line string) (device.Command, bool) {
	var req struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal([]byte(line), &req); err != nil || req.ID == "" {
		return "", false
	}
	return device.Command(req.ID), true
}

// FakeFetcher is an in-memory device.Fetcher with canned replies and errors.
type FakeFetcher struct {
	mu      sync.Mutex
	Replies map[device.Command][]byte
	Errors  map[device.Command]error
	Calls   []device.Command
}

// NewFakeFetcher creates a fetcher answering with the given reply bodies.
func NewFakeFetcher(replies map[device.Command]string) *FakeFetcher {
	f := &FakeFetcher{
		Replies: make(map[device.Command][]byte),
		Errors:  make(map[device.Command]error),
	}
	for cmd, body := range replies {
		f.Replies[cmd] = []byte(body)
	}
	return f
}

// FetcherFromFixture builds a FakeFetcher from a named YAML fixture.
func FetcherFromFixture(name string) (*FakeFetcher, error) {
	responses, err := Fixture(name)
	if err != nil {
		return nil, err
	}
	replies := make(map[device.Command]string, len(responses))
	for cmd, resp := range responses {
		replies[cmd] = resp.Body
	}
	return NewFakeFetcher(replies), nil
}

// Request implements device.Fetcher.
func (f *FakeFetcher) Request(ctx context.Context, cmd device.Command) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, cmd)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err, ok := f.Errors[cmd]; ok {
		return nil, err
	}
	return f.Replies[cmd], nil
}

// CallCount returns how many requests were made.
func (f *FakeFetcher) CallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Calls)
}
