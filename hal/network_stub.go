package hal

import "io"

type nullNetwork struct{}

func (nullNetwork) Listen(addr string) (io.Closer, error) {
	_ = addr
	return nil, ErrNotImplemented
}
