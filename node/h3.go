package node

import (
	"errors"
	"strconv"
	"strings"

	"github.com/absolute8511/redcon"

	"github.com/clarkcb/redis-h3/common"
	"github.com/clarkcb/redis-h3/h3util"
	"github.com/clarkcb/redis-h3/zsetstore"
)

const defaultScanCount = 1000

var (
	// a stored score that does not decode to a valid cell means some
	// producer wrote garbage; the whole query fails rather than
	// silently dropping the entry
	errInvalidIndexScore = errors.New("ERR invalid H3 index score in zset")
)

/* usage:
H3.STATUS
*/
func (nd *H3Node) h3statusCommand(conn redcon.Conn, cmd redcon.Command) {
	conn.WriteString("Ok")
}

/* usage:
H3.ADD key lon0 lat0 elem0 lon1 lat1 elem1 ...
*/
func (nd *H3Node) h3addCommand(conn redcon.Conn, cmd redcon.Command) {
	if len(cmd.Args) < 5 || (len(cmd.Args)-2)%3 != 0 {
		conn.WriteError("ERR wrong number of arguments for 'h3.add' command")
		return
	}

	pairs := make([]common.ScorePair, 0, (len(cmd.Args)-2)/3)
	for i := 0; i < (len(cmd.Args)-2)/3; i++ {
		lon, err := strconv.ParseFloat(string(cmd.Args[i*3+2]), 64)
		if err != nil {
			conn.WriteError("ERR value is not a valid float")
			return
		}
		lat, err := strconv.ParseFloat(string(cmd.Args[i*3+3]), 64)
		if err != nil {
			conn.WriteError("ERR value is not a valid float")
			return
		}

		idx := h3util.FromLonLat(lon, lat)
		pairs = append(pairs, common.ScorePair{
			Score:  idx.Score(),
			Member: cmd.Args[i*3+4],
		})
	}

	n, err := nd.store.ZAdd(cmd.Args[1], pairs...)
	if err != nil {
		conn.WriteError("Err " + err.Error())
		return
	}
	conn.WriteInt64(n)
}

/* usage:
H3.ADDBYINDEX key h3idx0 elem0 h3idx1 elem1 ...

alternate to H3.ADD that takes pre-computed leaf cell indices
*/
func (nd *H3Node) h3addByIndexCommand(conn redcon.Conn, cmd redcon.Command) {
	if len(cmd.Args) < 4 || len(cmd.Args)%2 != 0 {
		conn.WriteError("ERR wrong number of arguments for 'h3.addbyindex' command")
		return
	}

	pairs := make([]common.ScorePair, 0, (len(cmd.Args)-2)/2)
	for i := 2; i < len(cmd.Args); i += 2 {
		idx, err := h3util.ParseIndex(string(cmd.Args[i]))
		if err != nil {
			conn.WriteError("ERR " + err.Error())
			return
		}
		if idx.Resolution() != h3util.LeafResolution {
			conn.WriteError("ERR " + h3util.ErrNotLeafResolution.Error())
			return
		}
		pairs = append(pairs, common.ScorePair{
			Score:  idx.Score(),
			Member: cmd.Args[i+1],
		})
	}

	n, err := nd.store.ZAdd(cmd.Args[1], pairs...)
	if err != nil {
		conn.WriteError("Err " + err.Error())
		return
	}
	conn.WriteInt64(n)
}

// look up the members' stored scores and decode them back to leaf cell
// indices; a member with no entry yields a nil slot
func (nd *H3Node) indicesOfMembers(key []byte, members [][]byte) ([]h3util.Index, []bool, error) {
	indices := make([]h3util.Index, len(members))
	present := make([]bool, len(members))
	for i, member := range members {
		score, err := nd.store.ZScore(key, member)
		if err == zsetstore.ErrMemberNotExist {
			// only a truly absent member becomes a null slot, a
			// failing store read must not look like a miss
			continue
		} else if err != nil {
			return nil, nil, err
		}
		idx := h3util.ScoreToIndex(score)
		if !idx.Valid() {
			return nil, nil, errInvalidIndexScore
		}
		indices[i] = idx
		present[i] = true
	}
	return indices, present, nil
}

func writeLookupError(conn redcon.Conn, err error) {
	if err == errInvalidIndexScore {
		conn.WriteError(err.Error())
		return
	}
	conn.WriteError("Err " + err.Error())
}

/* usage:
H3.INDEX key elem0 elem1 ... elemN

returns the canonical H3 index strings for the members' positions
*/
func (nd *H3Node) h3indexCommand(conn redcon.Conn, cmd redcon.Command) {
	if len(cmd.Args) < 3 {
		conn.WriteError("ERR wrong number of arguments for 'h3.index' command")
		return
	}

	indices, present, err := nd.indicesOfMembers(cmd.Args[1], cmd.Args[2:])
	if err != nil {
		writeLookupError(conn, err)
		return
	}

	conn.WriteArray(len(indices))
	for i, idx := range indices {
		if !present[i] {
			conn.WriteNull()
		} else {
			conn.WriteBulk([]byte(idx.String()))
		}
	}
}

/* usage:
H3.POS key elem0 elem1 ... elemN

returns lon/lat pairs of the members' cell centroids
*/
func (nd *H3Node) h3posCommand(conn redcon.Conn, cmd redcon.Command) {
	if len(cmd.Args) < 3 {
		conn.WriteError("ERR wrong number of arguments for 'h3.pos' command")
		return
	}

	indices, present, err := nd.indicesOfMembers(cmd.Args[1], cmd.Args[2:])
	if err != nil {
		writeLookupError(conn, err)
		return
	}

	conn.WriteArray(len(indices))
	for i, idx := range indices {
		if !present[i] {
			conn.WriteNull()
		} else {
			lon, lat := idx.ToLonLat()
			conn.WriteArray(2)
			conn.WriteBulk([]byte(strconv.FormatFloat(lon, 'g', -1, 64)))
			conn.WriteBulk([]byte(strconv.FormatFloat(lat, 'g', -1, 64)))
		}
	}
}

/* usage:
H3.DIST key elem0 elem1 [unit]
*/
func (nd *H3Node) h3distCommand(conn redcon.Conn, cmd redcon.Command) {
	if len(cmd.Args) != 4 && len(cmd.Args) != 5 {
		conn.WriteError("ERR wrong number of arguments for 'h3.dist' command")
		return
	}

	var toMeters float64 = 1.0
	var err error

	if len(cmd.Args) == 5 {
		toMeters, err = extractUnit(cmd.Args[4])
		if err != nil {
			conn.WriteError(err.Error())
			return
		}
	}

	indices, present, err := nd.indicesOfMembers(cmd.Args[1], cmd.Args[2:4])
	if err != nil {
		writeLookupError(conn, err)
		return
	}
	if !present[0] || !present[1] {
		conn.WriteNull()
		return
	}

	distance := h3util.DistBetweenH3(indices[0], indices[1]) / toMeters

	conn.WriteBulk([]byte(strconv.FormatFloat(distance, 'g', -1, 64)))
}

/* Compute the inclusive zset score range [min, max] that covers every
 * resolution 15 descendant of the given cell, so containment becomes a
 * single range scan. */
func scoresOfCell(idx h3util.Index) (min, max float64) {
	return idx.MinChild().Score(), idx.MaxChild().Score()
}

/* usage:
H3.CELLS key h3idx [WITHINDICES] [LIMIT offset count]

returns the members stored inside the cell, at any resolution
*/
func (nd *H3Node) h3cellsCommand(conn redcon.Conn, cmd redcon.Command) {
	if len(cmd.Args) < 3 {
		conn.WriteError("ERR wrong number of arguments for 'h3.cells' command")
		return
	}

	idx, err := h3util.ParseIndex(string(cmd.Args[2]))
	if err != nil {
		conn.WriteError("ERR " + err.Error())
		return
	}

	withIndices := false
	offset := 0
	count := -1

	opts := cmd.Args[3:]
	for i := 0; i < len(opts); i++ {
		switch strings.ToLower(string(opts[i])) {
		case "withindices":
			withIndices = true
		case "limit":
			if i+2 >= len(opts) {
				conn.WriteError(common.ErrInvalidArgs.Error())
				return
			}
			if offset, err = strconv.Atoi(string(opts[i+1])); err != nil {
				conn.WriteError(common.ErrInvalidArgs.Error())
				return
			}
			if count, err = strconv.Atoi(string(opts[i+2])); err != nil {
				conn.WriteError(common.ErrInvalidArgs.Error())
				return
			}
			i += 2
		default:
			conn.WriteError("ERR syntax error")
			return
		}
	}

	min, max := scoresOfCell(idx)
	vlist, err := nd.store.ZRangeByScore(cmd.Args[1], min, max, offset, count)
	if err != nil {
		conn.WriteError("Err " + err.Error())
		return
	}

	if withIndices {
		keys := make([]string, len(vlist))
		for i, v := range vlist {
			entry := h3util.ScoreToIndex(v.Score)
			if !entry.Valid() {
				conn.WriteError(errInvalidIndexScore.Error())
				return
			}
			keys[i] = entry.String()
		}
		conn.WriteArray(len(vlist) * 2)
		for i, v := range vlist {
			conn.WriteBulk(v.Member)
			conn.WriteBulk([]byte(keys[i]))
		}
	} else {
		conn.WriteArray(len(vlist))
		for _, v := range vlist {
			conn.WriteBulk(v.Member)
		}
	}
}

/* usage:
H3.COUNT key h3idx
*/
func (nd *H3Node) h3countCommand(conn redcon.Conn, cmd redcon.Command) {
	if len(cmd.Args) != 3 {
		conn.WriteError("ERR wrong number of arguments for 'h3.count' command")
		return
	}

	idx, err := h3util.ParseIndex(string(cmd.Args[2]))
	if err != nil {
		conn.WriteError("ERR " + err.Error())
		return
	}

	min, max := scoresOfCell(idx)
	n, err := nd.store.ZCount(cmd.Args[1], min, max)
	if err != nil {
		conn.WriteError("Err " + err.Error())
		return
	}
	conn.WriteInt64(n)
}

/* usage:
H3.REMCELLS key h3idx

removes every member stored inside the cell. The read and the remove
are two separate store calls, a member added concurrently in between
escapes removal.
*/
func (nd *H3Node) h3remCellsCommand(conn redcon.Conn, cmd redcon.Command) {
	if len(cmd.Args) != 3 {
		conn.WriteError("ERR wrong number of arguments for 'h3.remcells' command")
		return
	}

	idx, err := h3util.ParseIndex(string(cmd.Args[2]))
	if err != nil {
		conn.WriteError("ERR " + err.Error())
		return
	}

	min, max := scoresOfCell(idx)
	vlist, err := nd.store.ZRangeByScore(cmd.Args[1], min, max, 0, -1)
	if err != nil {
		conn.WriteError("Err " + err.Error())
		return
	}
	if len(vlist) == 0 {
		conn.WriteInt64(0)
		return
	}

	members := make([][]byte, len(vlist))
	for i, v := range vlist {
		members[i] = v.Member
	}
	n, err := nd.store.ZRem(cmd.Args[1], members...)
	if err != nil {
		conn.WriteError("Err " + err.Error())
		return
	}
	nodeLog.Debugf("removed %v members contained in cell %v", n, idx.String())
	conn.WriteInt64(n)
}

func parseScanArgs(args [][]byte) (cursor []byte, match string, count int, err error) {
	if len(args) == 0 {
		return
	}
	cursor = args[0]
	args = args[1:]
	count = 0

	for i := 0; i < len(args); {
		switch strings.ToLower(string(args[i])) {
		case "match":
			if i+1 >= len(args) {
				err = common.ErrInvalidArgs
				return
			}
			match = string(args[i+1])
			i++
		case "count":
			if i+1 >= len(args) {
				err = common.ErrInvalidArgs
				return
			}
			count, err = strconv.Atoi(string(args[i+1]))
			if err != nil {
				return
			}
			i++
		default:
			err = common.ErrInvalidArgs
			return
		}
		i++
	}
	return
}

/* usage:
H3.SCAN key cursor [MATCH match] [COUNT count]

pages through the whole zset, rewriting each stored score back to its
canonical index string. The cursor is the last member of the previous
page, empty when the scan is done.
*/
func (nd *H3Node) h3scanCommand(conn redcon.Conn, cmd redcon.Command) {
	if len(cmd.Args) < 3 {
		conn.WriteError("ERR wrong number of arguments for 'h3.scan' command")
		return
	}
	args := cmd.Args[1:]
	key := args[0]

	cursor, match, count, err := parseScanArgs(args[1:])
	if err != nil {
		conn.WriteError(err.Error())
		return
	}
	if count <= 0 {
		count = defaultScanCount
	}

	ay, err := nd.store.ZScan(key, cursor, count, match)
	if err != nil {
		conn.WriteError(err.Error())
		return
	}

	keys := make([]string, len(ay))
	for i, v := range ay {
		entry := h3util.ScoreToIndex(v.Score)
		if !entry.Valid() {
			conn.WriteError(errInvalidIndexScore.Error())
			return
		}
		keys[i] = entry.String()
	}

	var nextCursor []byte
	if len(ay) < count {
		nextCursor = []byte("")
	} else {
		nextCursor = ay[len(ay)-1].Member
	}

	conn.WriteArray(2)
	conn.WriteBulk(nextCursor)
	conn.WriteArray(len(ay) * 2)
	for i, v := range ay {
		conn.WriteBulk(v.Member)
		conn.WriteBulk([]byte(keys[i]))
	}
}

func extractUnit(unit []byte) (float64, error) {
	switch string(unit) {
	case "m":
		return 1, nil
	case "km":
		return 1000, nil
	case "ft":
		return 0.3048, nil
	case "mi":
		return 1609.34, nil
	default:
		return -1, errors.New("Unsupported unit provided. please use m, km, ft, mi")
	}
}
