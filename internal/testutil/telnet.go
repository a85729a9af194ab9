package testutil

import (
	"bufio"
	"fmt"
	"net"
	"strings"
	"testing"
	"time"
)

// DefaultReadTimeout bounds how long Expect waits for server output.
const DefaultReadTimeout = 5 * time.Second

// TelnetClient is a line-oriented client for driving a telnet frontend in tests.
type TelnetClient struct {
	conn   net.Conn
	reader *bufio.Reader
	t      testing.TB
}

// NewTelnetClient dials addr and returns a test client.
//
// Precondition: addr must be a "host:port" with a listening server.
// Postcondition: Returns a connected TelnetClient or fails the test.
func NewTelnetClient(t testing.TB, addr string) *TelnetClient {
	t.Helper()
	conn, err := net.DialTimeout("tcp", addr, 5*time.Second)
	if err != nil {
		t.Fatalf("connecting to %s: %v", addr, err)
	}
	return WrapTelnetConn(t, conn)
}

// WrapTelnetConn adapts an already-open connection, such as one end of
// net.Pipe, into a TelnetClient.
//
// Postcondition: conn is closed when the test finishes.
func WrapTelnetConn(t testing.TB, conn net.Conn) *TelnetClient {
	t.Cleanup(func() { conn.Close() })
	return &TelnetClient{conn: conn, reader: bufio.NewReader(conn), t: t}
}

// ReadUntil reads until substr appears in the accumulated output, failing the
// test on timeout. Returns everything read, including the match.
//
// Precondition: substr must be non-empty.
func (c *TelnetClient) ReadUntil(substr string, timeout time.Duration) string {
	c.t.Helper()
	_ = c.conn.SetReadDeadline(time.Now().Add(timeout))

	var buf strings.Builder
	for {
		b, err := c.reader.ReadByte()
		if err != nil {
			c.t.Fatalf("reading until %q: got %q, error: %v", substr, buf.String(), err)
		}
		buf.WriteByte(b)
		if strings.HasSuffix(buf.String(), substr) {
			return buf.String()
		}
	}
}

// Expect is ReadUntil with DefaultReadTimeout.
func (c *TelnetClient) Expect(substr string) string {
	c.t.Helper()
	return c.ReadUntil(substr, DefaultReadTimeout)
}

// Send writes text followed by CRLF.
//
// Precondition: text should not contain trailing newline characters.
func (c *TelnetClient) Send(text string) {
	c.t.Helper()
	_ = c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	if _, err := fmt.Fprintf(c.conn, "%s\r\n", text); err != nil {
		c.t.Fatalf("sending %q: %v", text, err)
	}
}

// Close closes the underlying connection.
func (c *TelnetClient) Close() {
	c.conn.Close()
}
