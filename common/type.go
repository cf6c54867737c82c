package common

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/absolute8511/redcon"
)

// set by the build with -ldflags
var (
	VerBinary = "unset"
	BuildTime = "unset"
	Commit    = "unset"
)

func VerString(app string) string {
	return fmt.Sprintf("%s v%s (%s, built %s, commit %s)",
		app, VerBinary, runtime.Version(), BuildTime, Commit)
}

var (
	ErrInvalidArgs    = errors.New("invalid command arguments")
	ErrInvalidCommand = errors.New("invalid command")
	ErrStopped        = errors.New("the node stopped")
)

// ScorePair is a zset member together with its score.
type ScorePair struct {
	Score  float64
	Member []byte
}

type CommandFunc func(redcon.Conn, redcon.Command)

type CmdRouter struct {
	wcmds map[string]CommandFunc
	rcmds map[string]CommandFunc
}

func NewCmdRouter() *CmdRouter {
	return &CmdRouter{
		wcmds: make(map[string]CommandFunc),
		rcmds: make(map[string]CommandFunc),
	}
}

func (r *CmdRouter) RegisterRead(name string, f CommandFunc) bool {
	return r.register(false, name, f)
}

func (r *CmdRouter) RegisterWrite(name string, f CommandFunc) bool {
	return r.register(true, name, f)
}

func (r *CmdRouter) register(isWrite bool, name string, f CommandFunc) bool {
	cmds := r.wcmds
	if !isWrite {
		cmds = r.rcmds
	}
	if _, ok := cmds[strings.ToLower(name)]; ok {
		return false
	}
	cmds[strings.ToLower(name)] = f
	return true
}

// return handler, iswrite, isexist
func (r *CmdRouter) GetCmdHandler(name string) (CommandFunc, bool, bool) {
	v, ok := r.rcmds[strings.ToLower(name)]
	if ok {
		return v, false, ok
	}
	v, ok = r.wcmds[strings.ToLower(name)]
	return v, true, ok
}
