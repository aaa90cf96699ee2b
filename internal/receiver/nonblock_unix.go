//go:build unix

package receiver

import (
	"errors"
	"net"
	"os"

	"golang.org/x/sys/unix"
)

// readNonBlocking issues a single recvfrom with MSG_DONTWAIT. Returning true
// from the RawConn callback keeps the runtime poller from parking us.
func (r *Receiver) readNonBlocking(buf []byte) (int, net.Addr, error) {
	var (
		n       int
		from    unix.Sockaddr
		readErr error
	)

	err := r.raw.Read(func(fd uintptr) bool {
		n, from, readErr = unix.Recvfrom(int(fd), buf, unix.MSG_DONTWAIT)
		return true
	})
	if err != nil {
		return 0, nil, err
	}

	if readErr != nil {
		if errors.Is(readErr, unix.EAGAIN) || errors.Is(readErr, unix.EWOULDBLOCK) || errors.Is(readErr, unix.EINTR) {
			return 0, nil, ErrWouldBlock
		}
		return 0, nil, os.NewSyscallError("recvfrom", readErr)
	}

	return n, sockaddrToUDP(from), nil
}

func sockaddrToUDP(sa unix.Sockaddr) net.Addr {
	switch a := sa.(type) {
	case *unix.SockaddrInet4:
		return &net.UDPAddr{IP: net.IP(a.Addr[:]).To16(), Port: a.Port}
	case *unix.SockaddrInet6:
		return &net.UDPAddr{IP: net.IP(a.Addr[:]), Port: a.Port}
	default:
		return nil
	}
}
