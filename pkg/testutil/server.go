package testutil

import (
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/code-payments/code-actions/pkg/netutil"
)

// Server provides a local HTTP server on a free port that can be used for
// testing with no external dependencies.
type Server struct {
	closeFunc sync.Once

	URL        string
	listener   net.Listener
	httpServer *http.Server
}

// NewServer starts serving handler on localhost and waits until the listener
// accepts connections.
func NewServer(handler http.Handler) (*Server, error) {
	port, err := netutil.GetAvailablePortForAddress("localhost")
	if err != nil {
		return nil, errors.Wrapf(err, "failed to find free port")
	}

	listener, err := net.Listen("tcp", fmt.Sprintf("localhost:%d", port))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to start listener")
	}

	s := &Server{
		URL:      fmt.Sprintf("http://localhost:%d", port),
		listener: listener,
		httpServer: &http.Server{
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			logrus.StandardLogger().WithError(err).Warn("test server stopped")
		}
	}()

	err = WaitFor(time.Second, 10*time.Millisecond, func() bool {
		conn, err := net.Dial("tcp", listener.Addr().String())
		if err != nil {
			return false
		}
		conn.Close()
		return true
	})
	if err != nil {
		s.Stop()
		return nil, err
	}

	return s, nil
}

// Stop stops the server.
func (s *Server) Stop() {
	s.closeFunc.Do(func() {
		s.httpServer.Close()
	})
}
