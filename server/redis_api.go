package server

import (
	"encoding/json"
	"runtime"
	"strconv"
	"time"

	"github.com/absolute8511/redcon"
	ps "github.com/prometheus/client_golang/prometheus"

	"github.com/clarkcb/redis-h3/metric"
)

// qcmdlower returns the ascii lowercase of the command name, avoiding
// an alloc for names that are already lowercase.
func qcmdlower(n []byte) string {
	for i := 0; i < len(n); i++ {
		if n[i] >= 'A' && n[i] <= 'Z' {
			b := make([]byte, len(n))
			copy(b, n)
			for ; i < len(b); i++ {
				if b[i] >= 'A' && b[i] <= 'Z' {
					b[i] += 'a' - 'A'
				}
			}
			return string(b)
		}
	}
	return string(n)
}

func (s *Server) serverRedis(conn redcon.Conn, cmd redcon.Command) {
	defer func() {
		if e := recover(); e != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			buf = buf[0:n]
			sLog.Infof("handle redis command %v panic: %s:%v", string(cmd.Args[0]), buf, e)
			conn.Close()
		}
	}()

	cmdName := qcmdlower(cmd.Args[0])
	switch cmdName {
	case "ping":
		conn.WriteString("PONG")
	case "auth":
		conn.WriteString("OK")
	case "quit":
		conn.WriteString("OK")
		conn.Close()
	case "info":
		d, _ := json.MarshalIndent(s.GetStats(), "", " ")
		conn.WriteBulkString(string(d))
	default:
		start := time.Now()
		h, _, ok := s.h3Node.Router().GetCmdHandler(cmdName)
		if !ok {
			conn.WriteError("ERR unknown command '" + cmdName + "'")
			metric.ErrorCnt.With(ps.Labels{"error_info": "unknown_command"}).Inc()
			return
		}
		h(conn, cmd)
		metric.CmdCnt.With(ps.Labels{"cmd": cmdName}).Inc()
		cost := time.Since(start)
		metric.CmdLatency.With(ps.Labels{"cmd": cmdName}).Observe(float64(cost.Milliseconds()))
		if cost >= time.Second {
			sLog.Infof("slow command %v cost %v", cmdName, cost)
		}
	}
}

func (s *Server) serveRedisAPI(port int, stopC <-chan struct{}) {
	redisS := redcon.NewServer(
		":"+strconv.Itoa(port),
		s.serverRedis,
		func(conn redcon.Conn) bool {
			metric.ConnNum.Inc()
			return true
		},
		func(conn redcon.Conn, err error) {
			metric.ConnNum.Dec()
			if err != nil {
				sLog.Infof("closed: %s, err: %v", conn.RemoteAddr(), err)
			}
		},
	)
	go func() {
		err := redisS.ListenAndServe()
		if err != nil {
			sLog.Fatalf("failed to start the redis server: %v", err)
		}
	}()
	<-stopC
	redisS.Close()
	sLog.Infof("redis api server exit\n")
}
