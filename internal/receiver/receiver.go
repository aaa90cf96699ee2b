// Package receiver owns the UDP endpoint the wall controllers send their
// heartbeats to. Reads never block: when nothing is queued the caller gets
// ErrWouldBlock and moves on.
package receiver

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"syscall"
	"time"

	hberrors "github.com/barnwall/hbmon/internal/errors"
)

const (
	// DefaultPort is the STATUS_PORT the firmware sends heartbeats to.
	DefaultPort = 49700
	// DefaultBufferSize bounds a single datagram read.
	DefaultBufferSize = 1024
	// DefaultHost binds every IPv4 interface.
	DefaultHost = "0.0.0.0"
)

// ErrWouldBlock means no datagram is queued right now. It is the normal
// end of a drain, not a failure.
var ErrWouldBlock = errors.New("no datagram available")

// Datagram is one received packet.
type Datagram struct {
	Payload    []byte
	From       net.Addr
	ReceivedAt time.Time
}

// Options configures Listen.
type Options struct {
	Host       string
	Port       int
	BufferSize int
}

// Receiver is a bound UDP socket with a non-blocking read.
type Receiver struct {
	conn *net.UDPConn
	raw  syscall.RawConn
	buf  []byte
	now  func() time.Time
}

// Listen binds the UDP endpoint. A bind failure comes back as a structured
// ErrBind error meant to end the process.
func Listen(opts Options) (*Receiver, error) {
	if opts.Host == "" {
		opts.Host = DefaultHost
	}
	if opts.BufferSize <= 0 {
		opts.BufferSize = DefaultBufferSize
	}
	addr := net.JoinHostPort(opts.Host, strconv.Itoa(opts.Port))

	udpAddr, err := net.ResolveUDPAddr("udp4", addr)
	if err != nil {
		return nil, hberrors.WrapWithCode(err, hberrors.ErrBind,
			fmt.Sprintf("Can't resolve listen address %s", addr),
			"Use an IPv4 address and a port between 1 and 65535.")
	}

	conn, err := net.ListenUDP("udp4", udpAddr)
	if err != nil {
		return nil, hberrors.WrapWithCode(err, hberrors.ErrBind,
			fmt.Sprintf("Can't listen on UDP %s", addr),
			"Another process may already hold the port. Stop it or pick a different one with --port.")
	}

	raw, err := conn.SyscallConn()
	if err != nil {
		conn.Close()
		return nil, hberrors.WrapWithCode(err, hberrors.ErrBind,
			fmt.Sprintf("Can't access the socket for %s", addr),
			"")
	}

	return &Receiver{
		conn: conn,
		raw:  raw,
		buf:  make([]byte, opts.BufferSize),
		now:  time.Now,
	}, nil
}

// TryReceive returns the next queued datagram, ErrWouldBlock when none is
// queued, or an ErrNetwork error wrapping the read failure.
func (r *Receiver) TryReceive() (Datagram, error) {
	n, from, err := r.readNonBlocking(r.buf)
	if errors.Is(err, ErrWouldBlock) {
		return Datagram{}, err
	}
	if err != nil {
		return Datagram{}, hberrors.Wrap(err, "UDP receive failed")
	}

	payload := make([]byte, n)
	copy(payload, r.buf[:n])
	return Datagram{Payload: payload, From: from, ReceivedAt: r.now()}, nil
}

// LocalAddr returns the bound address, useful when listening on port 0.
func (r *Receiver) LocalAddr() *net.UDPAddr {
	addr, _ := r.conn.LocalAddr().(*net.UDPAddr)
	return addr
}

// Close releases the socket.
func (r *Receiver) Close() error {
	return r.conn.Close()
}
