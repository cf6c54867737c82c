package common

import (
	"errors"
	"net"
	"time"
)

var ErrStoppedListener = errors.New("listener stopped")

// StoppableListener sets TCP keep-alive timeouts on accepted
// connections and stops listening when stopc is closed.
type StoppableListener struct {
	*net.TCPListener
	stopc <-chan struct{}
}

func NewStoppableListener(addr string, stopc <-chan struct{}) (*StoppableListener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &StoppableListener{ln.(*net.TCPListener), stopc}, nil
}

func (ln StoppableListener) Accept() (c net.Conn, err error) {
	connc := make(chan *net.TCPConn, 1)
	errc := make(chan error, 1)
	go func() {
		tc, err := ln.AcceptTCP()
		if err != nil {
			errc <- err
			return
		}
		connc <- tc
	}()
	select {
	case <-ln.stopc:
		ln.TCPListener.Close()
		return nil, ErrStoppedListener
	case err := <-errc:
		return nil, err
	case tc := <-connc:
		tc.SetKeepAlive(true)
		tc.SetKeepAlivePeriod(3 * time.Minute)
		return tc, nil
	}
}
