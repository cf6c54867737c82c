package server

import (
	"path"
	"sync"
	"time"

	"github.com/clarkcb/redis-h3/common"
	"github.com/clarkcb/redis-h3/node"
	"github.com/clarkcb/redis-h3/zsetstore"

	"github.com/julienschmidt/httprouter"
)

var sLog = common.NewLevelLogger(common.LOG_INFO, common.NewDefaultLogger("server"))

func SetLogger(level int32, logger common.Logger) {
	sLog.SetLevel(level)
	sLog.Logger = logger
}

type Server struct {
	h3Node    *node.H3Node
	store     *zsetstore.Store
	conf      ServerConfig
	router    *httprouter.Router
	startTime time.Time
	stopC     chan struct{}
	wg        sync.WaitGroup
}

func NewServer(conf ServerConfig) (*Server, error) {
	store, err := zsetstore.Open(path.Join(conf.DataDir, "zsetstore"))
	if err != nil {
		return nil, err
	}
	s := &Server{
		h3Node:    node.NewH3Node(store),
		store:     store,
		conf:      conf,
		startTime: time.Now(),
		stopC:     make(chan struct{}),
	}
	return s, nil
}

func (s *Server) Start() {
	s.wg.Add(2)
	go func() {
		defer s.wg.Done()
		s.serveRedisAPI(s.conf.RedisAPIPort, s.stopC)
	}()
	go func() {
		defer s.wg.Done()
		s.serveHttpAPI(s.conf.HttpAPIPort, s.stopC)
	}()
	sLog.Infof("server started: redis api on :%v, http api on :%v",
		s.conf.RedisAPIPort, s.conf.HttpAPIPort)
}

func (s *Server) Stop() {
	close(s.stopC)
	s.wg.Wait()
	if err := s.store.Close(); err != nil {
		sLog.Errorf("failed to close store: %v", err)
	}
	sLog.Infof("server stopped")
}

type ServerStats struct {
	Version      string `json:"version"`
	UpTime       int64  `json:"up_time"`
	RedisAPIPort int    `json:"redis_api_port"`
	HttpAPIPort  int    `json:"http_api_port"`
	DataDir      string `json:"data_dir"`
}

func (s *Server) GetStats() ServerStats {
	return ServerStats{
		Version:      common.VerBinary,
		UpTime:       int64(time.Since(s.startTime).Seconds()),
		RedisAPIPort: s.conf.RedisAPIPort,
		HttpAPIPort:  s.conf.HttpAPIPort,
		DataDir:      s.conf.DataDir,
	}
}
