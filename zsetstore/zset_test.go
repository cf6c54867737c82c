package zsetstore

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/clarkcb/redis-h3/common"
)

func getTestStore(t *testing.T) *Store {
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		s.Close()
	})
	return s
}

func TestZAddZScore(t *testing.T) {
	s := getTestStore(t)
	key := []byte("test:zadd")

	n, err := s.ZAdd(key,
		common.ScorePair{Score: 1, Member: []byte("a")},
		common.ScorePair{Score: 2, Member: []byte("b")})
	assert.Nil(t, err)
	assert.Equal(t, int64(2), n)

	score, err := s.ZScore(key, []byte("a"))
	assert.Nil(t, err)
	assert.Equal(t, float64(1), score)

	// update is not an add
	n, err = s.ZAdd(key, common.ScorePair{Score: 5, Member: []byte("a")})
	assert.Nil(t, err)
	assert.Equal(t, int64(0), n)
	score, err = s.ZScore(key, []byte("a"))
	assert.Nil(t, err)
	assert.Equal(t, float64(5), score)

	card, err := s.ZCard(key)
	assert.Nil(t, err)
	assert.Equal(t, int64(2), card)

	_, err = s.ZScore(key, []byte("missing"))
	assert.Equal(t, ErrMemberNotExist, err)
}

func TestZRangeByScore(t *testing.T) {
	s := getTestStore(t)
	key := []byte("test:zrange")

	pairs := make([]common.ScorePair, 0, 10)
	for i := 0; i < 10; i++ {
		pairs = append(pairs, common.ScorePair{
			Score:  float64(i * 10),
			Member: []byte(fmt.Sprintf("m%02d", i)),
		})
	}
	_, err := s.ZAdd(key, pairs...)
	assert.Nil(t, err)

	// inclusive on both ends
	vlist, err := s.ZRangeByScore(key, 20, 50, 0, -1)
	assert.Nil(t, err)
	assert.Equal(t, 4, len(vlist))
	assert.Equal(t, []byte("m02"), vlist[0].Member)
	assert.Equal(t, []byte("m05"), vlist[3].Member)
	assert.Equal(t, float64(20), vlist[0].Score)

	// ascending by score
	for i := 1; i < len(vlist); i++ {
		assert.True(t, vlist[i-1].Score <= vlist[i].Score)
	}

	// offset and count
	vlist, err = s.ZRangeByScore(key, 0, 90, 2, 3)
	assert.Nil(t, err)
	assert.Equal(t, 3, len(vlist))
	assert.Equal(t, []byte("m02"), vlist[0].Member)
	assert.Equal(t, []byte("m04"), vlist[2].Member)

	// a zero count returns nothing, it is not unlimited
	vlist, err = s.ZRangeByScore(key, 0, 90, 0, 0)
	assert.Nil(t, err)
	assert.Equal(t, 0, len(vlist))

	// empty range
	vlist, err = s.ZRangeByScore(key, 91, 1000, 0, -1)
	assert.Nil(t, err)
	assert.Equal(t, 0, len(vlist))

	n, err := s.ZCount(key, 20, 50)
	assert.Nil(t, err)
	assert.Equal(t, int64(4), n)

	n, err = s.ZCount(key, 91, 1000)
	assert.Nil(t, err)
	assert.Equal(t, int64(0), n)
}

func TestZRangeByScoreLargeScores(t *testing.T) {
	s := getTestStore(t)
	key := []byte("test:zrange:large")

	// scores in the 52 bit integer range used by H3 cell scores
	base := float64(uint64(1) << 51)
	for i := 0; i < 5; i++ {
		_, err := s.ZAdd(key, common.ScorePair{
			Score:  base + float64(i),
			Member: []byte(fmt.Sprintf("c%d", i)),
		})
		assert.Nil(t, err)
	}

	vlist, err := s.ZRangeByScore(key, base+1, base+3, 0, -1)
	assert.Nil(t, err)
	assert.Equal(t, 3, len(vlist))
	assert.Equal(t, base+1, vlist[0].Score)
	assert.Equal(t, base+3, vlist[2].Score)
}

func TestZRem(t *testing.T) {
	s := getTestStore(t)
	key := []byte("test:zrem")

	_, err := s.ZAdd(key,
		common.ScorePair{Score: 1, Member: []byte("a")},
		common.ScorePair{Score: 2, Member: []byte("b")},
		common.ScorePair{Score: 3, Member: []byte("c")})
	assert.Nil(t, err)

	n, err := s.ZRem(key, []byte("a"), []byte("missing"))
	assert.Nil(t, err)
	assert.Equal(t, int64(1), n)

	card, err := s.ZCard(key)
	assert.Nil(t, err)
	assert.Equal(t, int64(2), card)

	_, err = s.ZScore(key, []byte("a"))
	assert.Equal(t, ErrMemberNotExist, err)

	// the score index entry is gone as well
	vlist, err := s.ZRangeByScore(key, 1, 1, 0, -1)
	assert.Nil(t, err)
	assert.Equal(t, 0, len(vlist))

	n, err = s.ZClear(key)
	assert.Nil(t, err)
	assert.Equal(t, int64(2), n)
	card, err = s.ZCard(key)
	assert.Nil(t, err)
	assert.Equal(t, int64(0), card)
}

func TestZScan(t *testing.T) {
	s := getTestStore(t)
	key := []byte("test:zscan")

	for i := 0; i < 10; i++ {
		_, err := s.ZAdd(key, common.ScorePair{
			Score:  float64(i),
			Member: []byte(fmt.Sprintf("m%02d", i)),
		})
		assert.Nil(t, err)
	}

	// first page
	ay, err := s.ZScan(key, nil, 4, "")
	assert.Nil(t, err)
	assert.Equal(t, 4, len(ay))
	assert.Equal(t, []byte("m00"), ay[0].Member)
	assert.Equal(t, []byte("m03"), ay[3].Member)

	// next page resumes after the cursor
	ay, err = s.ZScan(key, ay[len(ay)-1].Member, 4, "")
	assert.Nil(t, err)
	assert.Equal(t, 4, len(ay))
	assert.Equal(t, []byte("m04"), ay[0].Member)

	// last page is short
	ay, err = s.ZScan(key, ay[len(ay)-1].Member, 4, "")
	assert.Nil(t, err)
	assert.Equal(t, 2, len(ay))
	assert.Equal(t, []byte("m09"), ay[1].Member)

	// match pattern
	ay, err = s.ZScan(key, nil, 0, "m0[0-2]")
	assert.Nil(t, err)
	assert.Equal(t, 3, len(ay))

	// keys do not leak across zsets
	other := []byte("test:zscan2")
	_, err = s.ZAdd(other, common.ScorePair{Score: 1, Member: []byte("x")})
	assert.Nil(t, err)
	ay, err = s.ZScan(key, nil, 0, "")
	assert.Nil(t, err)
	assert.Equal(t, 10, len(ay))
}
