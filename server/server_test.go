package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func getTestServer(t *testing.T) *Server {
	conf := ServerConfig{
		RedisAPIPort: 0,
		HttpAPIPort:  0,
		DataDir:      t.TempDir(),
	}
	s, err := NewServer(conf)
	assert.Nil(t, err)
	t.Cleanup(func() {
		s.store.Close()
	})
	s.initHttpHandler()
	return s
}

func TestQcmdlower(t *testing.T) {
	assert.Equal(t, "h3.add", qcmdlower([]byte("h3.add")))
	assert.Equal(t, "h3.add", qcmdlower([]byte("H3.ADD")))
	assert.Equal(t, "h3.cells", qcmdlower([]byte("H3.Cells")))
	assert.Equal(t, "ping", qcmdlower([]byte("PING")))
}

func TestHttpAPI(t *testing.T) {
	s := getTestServer(t)

	req := httptest.NewRequest("GET", "/ping", nil)
	w := httptest.NewRecorder()
	s.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())

	req = httptest.NewRequest("GET", "/status", nil)
	w = httptest.NewRecorder()
	s.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	var stats ServerStats
	assert.Nil(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, s.conf.DataDir, stats.DataDir)

	req = httptest.NewRequest("POST", "/loglevel/set?loglevel=3", nil)
	w = httptest.NewRecorder()
	s.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int32(3), sLog.Level())

	req = httptest.NewRequest("POST", "/loglevel/set", nil)
	w = httptest.NewRecorder()
	s.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req = httptest.NewRequest("GET", "/metrics", nil)
	w = httptest.NewRecorder()
	s.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestServerRedisDispatch(t *testing.T) {
	s := getTestServer(t)

	c := &fakeRedisConn{}
	s.serverRedis(c, buildCommand([][]byte{[]byte("PING")}))
	assert.Nil(t, c.GetError())
	assert.Equal(t, "PONG", c.rsp[0])
	c.Reset()

	s.serverRedis(c, buildCommand([][]byte{[]byte("H3.STATUS")}))
	assert.Nil(t, c.GetError())
	assert.Equal(t, "Ok", c.rsp[0])
	c.Reset()

	s.serverRedis(c, buildCommand([][]byte{[]byte("nosuchcmd"), []byte("k")}))
	assert.NotNil(t, c.GetError())
}
