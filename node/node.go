package node

import (
	"github.com/clarkcb/redis-h3/common"
)

// ZSetStore is the ordered member store the H3 commands are layered on.
// Scores are the encoded form of resolution 15 cell indices; the store
// itself only ever sees opaque doubles.
type ZSetStore interface {
	ZAdd(key []byte, args ...common.ScorePair) (int64, error)
	ZScore(key []byte, member []byte) (float64, error)
	ZCount(key []byte, min float64, max float64) (int64, error)
	ZRangeByScore(key []byte, min float64, max float64, offset int, count int) ([]common.ScorePair, error)
	ZRem(key []byte, members ...[]byte) (int64, error)
	ZScan(key []byte, cursor []byte, count int, match string) ([]common.ScorePair, error)
}

type H3Node struct {
	store  ZSetStore
	router *common.CmdRouter
}

func NewH3Node(store ZSetStore) *H3Node {
	nd := &H3Node{
		store:  store,
		router: common.NewCmdRouter(),
	}
	nd.registerHandlers()
	return nd
}

func (nd *H3Node) Router() *common.CmdRouter {
	return nd.router
}

func (nd *H3Node) registerHandlers() {
	nd.router.RegisterRead("h3.status", nd.h3statusCommand)
	nd.router.RegisterWrite("h3.add", nd.h3addCommand)
	nd.router.RegisterWrite("h3.addbyindex", nd.h3addByIndexCommand)
	nd.router.RegisterRead("h3.index", nd.h3indexCommand)
	nd.router.RegisterRead("h3.pos", nd.h3posCommand)
	nd.router.RegisterRead("h3.dist", nd.h3distCommand)
	nd.router.RegisterRead("h3.cells", nd.h3cellsCommand)
	nd.router.RegisterRead("h3.count", nd.h3countCommand)
	nd.router.RegisterWrite("h3.remcells", nd.h3remCellsCommand)
	nd.router.RegisterRead("h3.scan", nd.h3scanCommand)
	// proximity search by radius is intentionally absent: there is no
	// equivalent of the geohash neighbor boxes for hexagonal cells yet
}
