package zsetstore

import (
	"bytes"

	"github.com/dgraph-io/badger"
	"github.com/gobwas/glob"

	"github.com/clarkcb/redis-h3/common"
)

const defaultScanCount = 1000

// ZAdd upserts the score/member pairs and returns the number of members
// newly added (updated members do not count).
func (s *Store) ZAdd(key []byte, args ...common.ScorePair) (int64, error) {
	if len(args) == 0 {
		return 0, nil
	}
	var added int64
	err := s.db.Update(func(txn *badger.Txn) error {
		added = 0
		for _, pair := range args {
			if err := checkZSetKMSize(key, pair.Member); err != nil {
				return err
			}
			mk := zEncodeMemberKey(key, pair.Member)
			item, err := txn.Get(mk)
			if err == nil {
				v, err := item.ValueCopy(nil)
				if err != nil {
					return err
				}
				oldScore, err := decodeScoreValue(v)
				if err != nil {
					return err
				}
				if oldScore == pair.Score {
					continue
				}
				if err := txn.Delete(zEncodeScoreKey(key, oldScore, pair.Member)); err != nil {
					return err
				}
			} else if err == badger.ErrKeyNotFound {
				added++
			} else {
				return err
			}
			if err := txn.Set(mk, encodeScoreValue(pair.Score)); err != nil {
				return err
			}
			if err := txn.Set(zEncodeScoreKey(key, pair.Score, pair.Member), nil); err != nil {
				return err
			}
		}
		if added != 0 {
			n, err := getCount(txn, key)
			if err != nil {
				return err
			}
			return txn.Set(zEncodeSizeKey(key), encodeCount(n+added))
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return added, nil
}

func getCount(txn *badger.Txn, key []byte) (int64, error) {
	item, err := txn.Get(zEncodeSizeKey(key))
	if err == badger.ErrKeyNotFound {
		return 0, nil
	} else if err != nil {
		return 0, err
	}
	v, err := item.ValueCopy(nil)
	if err != nil {
		return 0, err
	}
	return decodeCount(v)
}

func (s *Store) ZCard(key []byte) (int64, error) {
	var n int64
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		n, err = getCount(txn, key)
		return err
	})
	return n, err
}

// ZScore returns the score of member, or ErrMemberNotExist.
func (s *Store) ZScore(key []byte, member []byte) (float64, error) {
	var score float64
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(zEncodeMemberKey(key, member))
		if err == badger.ErrKeyNotFound {
			return ErrMemberNotExist
		} else if err != nil {
			return err
		}
		v, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		score, err = decodeScoreValue(v)
		return err
	})
	return score, err
}

// ZRangeByScore returns members with min <= score <= max in ascending
// score order. A negative count means no limit.
func (s *Store) ZRangeByScore(key []byte, min float64, max float64,
	offset int, count int) ([]common.ScorePair, error) {
	vlist := make([]common.ScorePair, 0, 32)
	err := s.db.View(func(txn *badger.Txn) error {
		prefix := zEncodeScorePrefix(key)
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		skipped := 0
		for it.Seek(zEncodeStartScoreKey(key, min)); it.ValidForPrefix(prefix); it.Next() {
			ek := it.Item().KeyCopy(nil)
			score, member := zDecodeScoreKey(key, ek)
			if score > max {
				break
			}
			if skipped < offset {
				skipped++
				continue
			}
			if count >= 0 && len(vlist) >= count {
				break
			}
			vlist = append(vlist, common.ScorePair{Score: score, Member: member})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return vlist, nil
}

// ZCount returns the number of members with min <= score <= max.
func (s *Store) ZCount(key []byte, min float64, max float64) (int64, error) {
	var n int64
	err := s.db.View(func(txn *badger.Txn) error {
		prefix := zEncodeScorePrefix(key)
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(zEncodeStartScoreKey(key, min)); it.ValidForPrefix(prefix); it.Next() {
			score, _ := zDecodeScoreKey(key, it.Item().Key())
			if score > max {
				break
			}
			n++
		}
		return nil
	})
	return n, err
}

// ZRem removes the members and returns how many existed.
func (s *Store) ZRem(key []byte, members ...[]byte) (int64, error) {
	var removed int64
	err := s.db.Update(func(txn *badger.Txn) error {
		removed = 0
		for _, member := range members {
			if err := checkZSetKMSize(key, member); err != nil {
				return err
			}
			mk := zEncodeMemberKey(key, member)
			item, err := txn.Get(mk)
			if err == badger.ErrKeyNotFound {
				continue
			} else if err != nil {
				return err
			}
			v, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			score, err := decodeScoreValue(v)
			if err != nil {
				return err
			}
			if err := txn.Delete(mk); err != nil {
				return err
			}
			if err := txn.Delete(zEncodeScoreKey(key, score, member)); err != nil {
				return err
			}
			removed++
		}
		if removed != 0 {
			n, err := getCount(txn, key)
			if err != nil {
				return err
			}
			if n-removed <= 0 {
				return txn.Delete(zEncodeSizeKey(key))
			}
			return txn.Set(zEncodeSizeKey(key), encodeCount(n-removed))
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

// ZScan pages through members in member order. The cursor is the last
// member of the previous page (exclusive), empty to start from the
// beginning.
func (s *Store) ZScan(key []byte, cursor []byte, count int, match string) ([]common.ScorePair, error) {
	if count <= 0 {
		count = defaultScanCount
	}
	var matcher glob.Glob
	if len(match) > 0 {
		var err error
		matcher, err = glob.Compile(match)
		if err != nil {
			return nil, err
		}
	}

	vlist := make([]common.ScorePair, 0, 16)
	err := s.db.View(func(txn *badger.Txn) error {
		prefix := zEncodeMemberPrefix(key)
		start := prefix
		if len(cursor) > 0 {
			start = append(zEncodeMemberPrefix(key), cursor...)
		}
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		it.Seek(start)
		// the cursor member itself was returned by the previous page
		if len(cursor) > 0 && it.ValidForPrefix(prefix) && bytes.Equal(it.Item().Key(), start) {
			it.Next()
		}
		for ; it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			member := zDecodeMemberKey(key, item.KeyCopy(nil))
			if matcher != nil && !matcher.Match(string(member)) {
				continue
			}
			v, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			score, err := decodeScoreValue(v)
			if err != nil {
				return err
			}
			vlist = append(vlist, common.ScorePair{Score: score, Member: member})
			if len(vlist) >= count {
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return vlist, nil
}

// ZClear drops every member of the zset and returns how many there were.
func (s *Store) ZClear(key []byte) (int64, error) {
	members := make([][]byte, 0, 16)
	err := s.db.View(func(txn *badger.Txn) error {
		prefix := zEncodeMemberPrefix(key)
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			members = append(members, zDecodeMemberKey(key, it.Item().KeyCopy(nil)))
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	if len(members) == 0 {
		return 0, nil
	}
	return s.ZRem(key, members...)
}
