//go:build !unix

package receiver

import (
	"errors"
	"net"
	"os"
	"time"
)

// pollGrace is how long a read may wait when no MSG_DONTWAIT is available.
// The runtime refuses to read at all once a deadline has passed, so a tiny
// future deadline stands in for a true non-blocking read.
const pollGrace = time.Millisecond

func (r *Receiver) readNonBlocking(buf []byte) (int, net.Addr, error) {
	if err := r.conn.SetReadDeadline(time.Now().Add(pollGrace)); err != nil {
		return 0, nil, err
	}

	n, from, err := r.conn.ReadFromUDP(buf)
	if err != nil {
		if errors.Is(err, os.ErrDeadlineExceeded) {
			return 0, nil, ErrWouldBlock
		}
		return 0, nil, err
	}
	return n, from, nil
}
