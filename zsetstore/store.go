// Package zsetstore implements the sorted member set used for H3
// scores on top of badger. The member, score and size indexes follow
// the same three-table layout rockredis uses for zsets, with badger's
// lexicographic key order standing in for the storage engine's.
package zsetstore

import (
	"errors"

	"github.com/dgraph-io/badger"

	"github.com/clarkcb/redis-h3/common"
)

var (
	ErrKeySize         = errors.New("invalid zset key size")
	ErrMemberSize      = errors.New("invalid zset member size")
	ErrMemberNotExist  = errors.New("zset member does not exist")
	errInvalidMetaData = errors.New("invalid zset meta data")
)

const (
	MaxKeySize    = 1024
	MaxMemberSize = 1024
)

var dbLog = common.NewLevelLogger(common.LOG_INFO, common.NewDefaultLogger("zsetstore"))

func SetLogger(level int32, logger common.Logger) {
	dbLog.SetLevel(level)
	dbLog.Logger = logger
}

func SetLogLevel(level int32) {
	dbLog.SetLevel(level)
}

type Store struct {
	db *badger.DB
}

func Open(dataDir string) (*Store, error) {
	opts := badger.DefaultOptions(dataDir)
	opts.Logger = nil
	opts.SyncWrites = false
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	dbLog.Infof("zset store opened at %v", dataDir)
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
