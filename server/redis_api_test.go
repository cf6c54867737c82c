package server

import (
	"errors"
	"net"
	"strconv"

	"github.com/absolute8511/redcon"
)

func buildCommand(args [][]byte) redcon.Command {
	// build a pipeline command
	buf := make([]byte, 0, 128)
	buf = append(buf, '*')
	buf = append(buf, strconv.FormatInt(int64(len(args)), 10)...)
	buf = append(buf, '\r', '\n')

	poss := make([]int, 0, len(args)*2)
	for _, arg := range args {
		buf = append(buf, '$')
		buf = append(buf, strconv.FormatInt(int64(len(arg)), 10)...)
		buf = append(buf, '\r', '\n')
		poss = append(poss, len(buf), len(buf)+len(arg))
		buf = append(buf, arg...)
		buf = append(buf, '\r', '\n')
	}

	// reformat a new command
	var ncmd redcon.Command
	ncmd.Raw = buf
	ncmd.Args = make([][]byte, len(poss)/2)
	for i, j := 0, 0; i < len(poss); i, j = i+2, j+1 {
		ncmd.Args[j] = ncmd.Raw[poss[i]:poss[i+1]]
	}
	return ncmd
}

type fakeRedisConn struct {
	rsp []interface{}
	err error
}

func (c *fakeRedisConn) GetError() error { return c.err }
func (c *fakeRedisConn) Reset() {
	c.err = nil
	c.rsp = nil
}

func (c *fakeRedisConn) RemoteAddr() string { return "" }

func (c *fakeRedisConn) Close() error { return nil }

func (c *fakeRedisConn) WriteError(msg string) { c.err = errors.New(msg) }

func (c *fakeRedisConn) WriteString(str string) { c.rsp = append(c.rsp, str) }

func (c *fakeRedisConn) WriteBulk(bulk []byte) {
	tmp := make([]byte, len(bulk))
	copy(tmp, bulk)
	c.rsp = append(c.rsp, tmp)
}

func (c *fakeRedisConn) WriteBulkString(bulk string) { c.rsp = append(c.rsp, bulk) }

func (c *fakeRedisConn) WriteInt(num int) { c.rsp = append(c.rsp, num) }

func (c *fakeRedisConn) WriteInt64(num int64) { c.rsp = append(c.rsp, num) }

func (c *fakeRedisConn) WriteArray(count int) { c.rsp = append(c.rsp, count) }

func (c *fakeRedisConn) WriteNull() { c.rsp = append(c.rsp, nil) }

func (c *fakeRedisConn) WriteRaw(data []byte) {
	tmp := make([]byte, len(data))
	copy(tmp, data)
	c.rsp = append(c.rsp, tmp)
}

func (c *fakeRedisConn) Context() interface{} { return nil }

func (c *fakeRedisConn) SetContext(v interface{}) {}

func (c *fakeRedisConn) SetReadBuffer(bytes int) {}

func (c *fakeRedisConn) Detach() redcon.DetachedConn { return nil }

func (c *fakeRedisConn) ReadPipeline() []redcon.Command { return nil }

func (c *fakeRedisConn) PeekPipeline() []redcon.Command { return nil }
func (c *fakeRedisConn) NetConn() net.Conn              { return nil }
func (c *fakeRedisConn) Flush() error                   { return nil }
