package telnet

import (
	"bufio"
	"bytes"
	"net"
	"strings"
	"sync"
	"time"
)

// Telnet command and option bytes (RFC 854, RFC 858).
const (
	IAC  byte = 255
	DONT byte = 254
	DO   byte = 253
	WONT byte = 252
	WILL byte = 251
	SB   byte = 250
	SE   byte = 240

	OptEcho            byte = 1
	OptSuppressGoAhead byte = 3
)

// MaxLineLength caps a single input line. Longer input is truncated.
const MaxLineLength = 512

// Conn is a line-oriented Telnet session over a network connection.
// Writes are safe for concurrent use; reads are not.
type Conn struct {
	raw    net.Conn
	reader *bufio.Reader

	wmu          sync.Mutex
	readTimeout  time.Duration
	writeTimeout time.Duration
}

// NewConn wraps raw. Zero timeouts disable the corresponding deadline.
//
// Precondition: raw must be open.
func NewConn(raw net.Conn, readTimeout, writeTimeout time.Duration) *Conn {
	return &Conn{
		raw:          raw,
		reader:       bufio.NewReaderSize(raw, 1024),
		readTimeout:  readTimeout,
		writeTimeout: writeTimeout,
	}
}

// Negotiate offers to suppress go-ahead so clients run in character-at-a-time
// friendly line mode.
func (c *Conn) Negotiate() error {
	return c.write([]byte{IAC, WILL, OptSuppressGoAhead})
}

// ReadLine returns the next line of input without its terminator.
// Telnet commands and control characters other than tab are dropped.
//
// Postcondition: len(result) <= MaxLineLength; err is non-nil at end of input.
func (c *Conn) ReadLine() (string, error) {
	if c.readTimeout > 0 {
		_ = c.raw.SetReadDeadline(time.Now().Add(c.readTimeout))
	}

	var line bytes.Buffer
	for {
		b, err := c.reader.ReadByte()
		if err != nil {
			return line.String(), err
		}
		switch {
		case b == IAC:
			if err := c.skipCommand(); err != nil {
				return line.String(), err
			}
		case b == '\n':
			return line.String(), nil
		case b == '\r':
			if next, err := c.reader.Peek(1); err == nil && next[0] == '\n' {
				_, _ = c.reader.ReadByte()
			}
			return line.String(), nil
		case b < 32 && b != '\t':
		case line.Len() < MaxLineLength:
			line.WriteByte(b)
		}
	}
}

// skipCommand consumes the rest of a command after its IAC byte.
func (c *Conn) skipCommand() error {
	cmd, err := c.reader.ReadByte()
	if err != nil {
		return err
	}
	switch cmd {
	case WILL, WONT, DO, DONT:
		_, err = c.reader.ReadByte()
		return err
	case SB:
		var prev byte
		for {
			b, err := c.reader.ReadByte()
			if err != nil {
				return err
			}
			if prev == IAC && b == SE {
				return nil
			}
			prev = b
		}
	}
	return nil
}

func (c *Conn) write(data []byte) error {
	c.wmu.Lock()
	defer c.wmu.Unlock()
	if c.writeTimeout > 0 {
		_ = c.raw.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	}
	_, err := c.raw.Write(data)
	return err
}

// WriteLine sends text followed by CRLF.
func (c *Conn) WriteLine(text string) error {
	return c.write([]byte(text + "\r\n"))
}

// WriteLines sends every line in one write so concurrent writers never
// interleave inside a block.
func (c *Conn) WriteLines(lines ...string) error {
	if len(lines) == 0 {
		return nil
	}
	return c.write([]byte(strings.Join(lines, "\r\n") + "\r\n"))
}

// WritePrompt sends prompt without a line terminator.
func (c *Conn) WritePrompt(prompt string) error {
	return c.write([]byte(prompt))
}

// Close closes the underlying connection.
func (c *Conn) Close() error {
	return c.raw.Close()
}

// RemoteAddr returns the peer address.
func (c *Conn) RemoteAddr() net.Addr {
	return c.raw.RemoteAddr()
}

// FilterIAC strips Telnet commands from input, keeping escaped 0xFF bytes.
//
// Postcondition: the result contains no IAC command sequences.
func FilterIAC(input []byte) []byte {
	out := make([]byte, 0, len(input))
	for i := 0; i < len(input); i++ {
		if input[i] != IAC || i+1 >= len(input) {
			out = append(out, input[i])
			continue
		}
		switch cmd := input[i+1]; cmd {
		case WILL, WONT, DO, DONT:
			i += 2
		case SB:
			j := i + 2
			for j+1 < len(input) && !(input[j] == IAC && input[j+1] == SE) {
				j++
			}
			i = j + 1
		case IAC:
			out = append(out, IAC)
			i++
		default:
			i++
		}
	}
	return out
}
