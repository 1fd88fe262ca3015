package netutil

import (
	"net"

	"github.com/pkg/errors"
)

// GetAvailablePortForAddress returns a port on address that was free at the
// time of the call.
func GetAvailablePortForAddress(address string) (int32, error) {
	listener, err := net.Listen("tcp", net.JoinHostPort(address, "0"))
	if err != nil {
		return 0, err
	}
	defer listener.Close()

	tcpAddr, ok := listener.Addr().(*net.TCPAddr)
	if !ok {
		return 0, errors.Errorf("unexpected listener address type %T", listener.Addr())
	}
	return int32(tcpAddr.Port), nil
}
