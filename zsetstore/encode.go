package zsetstore

import (
	"encoding/binary"
	"math"
)

const (
	// key table type prefixes
	ZSetType   byte = 'z' // {key, member} -> score
	ZScoreType byte = 'q' // {key, score, member} -> nil
	ZSizeType  byte = 'Z' // {key} -> member count

	zsetMemSep byte = ':'
)

func checkZSetKMSize(key []byte, member []byte) error {
	if len(key) > MaxKeySize || len(key) == 0 {
		return ErrKeySize
	} else if len(member) > MaxMemberSize || len(member) == 0 {
		return ErrMemberSize
	}
	return nil
}

// encodeSortableScore maps a float64 to a uint64 whose unsigned order
// equals the float order, so big endian score keys iterate ascending.
func encodeSortableScore(score float64) uint64 {
	b := math.Float64bits(score)
	if b&(1<<63) != 0 {
		b = ^b
	} else {
		b |= 1 << 63
	}
	return b
}

func decodeSortableScore(b uint64) float64 {
	if b&(1<<63) != 0 {
		b &^= 1 << 63
	} else {
		b = ^b
	}
	return math.Float64frombits(b)
}

func zEncodeSizeKey(key []byte) []byte {
	buf := make([]byte, len(key)+1)
	buf[0] = ZSizeType
	copy(buf[1:], key)
	return buf
}

func zEncodeMemberPrefix(key []byte) []byte {
	buf := make([]byte, 0, len(key)+4)
	buf = append(buf, ZSetType)
	buf = binary.BigEndian.AppendUint16(buf, uint16(len(key)))
	buf = append(buf, key...)
	buf = append(buf, zsetMemSep)
	return buf
}

func zEncodeMemberKey(key []byte, member []byte) []byte {
	return append(zEncodeMemberPrefix(key), member...)
}

// member starts after {type, keylen, key, sep}
func zDecodeMemberKey(key []byte, ek []byte) []byte {
	return ek[4+len(key):]
}

func zEncodeScorePrefix(key []byte) []byte {
	buf := make([]byte, 0, len(key)+3)
	buf = append(buf, ZScoreType)
	buf = binary.BigEndian.AppendUint16(buf, uint16(len(key)))
	buf = append(buf, key...)
	return buf
}

func zEncodeStartScoreKey(key []byte, score float64) []byte {
	buf := zEncodeScorePrefix(key)
	buf = binary.BigEndian.AppendUint64(buf, encodeSortableScore(score))
	return buf
}

func zEncodeScoreKey(key []byte, score float64, member []byte) []byte {
	buf := zEncodeStartScoreKey(key, score)
	buf = append(buf, zsetMemSep)
	buf = append(buf, member...)
	return buf
}

// score and member positions inside a score key for a known zset key
func zDecodeScoreKey(key []byte, ek []byte) (float64, []byte) {
	pos := 3 + len(key)
	score := decodeSortableScore(binary.BigEndian.Uint64(ek[pos : pos+8]))
	return score, ek[pos+8+1:]
}

func encodeScoreValue(score float64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, math.Float64bits(score))
	return buf
}

func decodeScoreValue(buf []byte) (float64, error) {
	if len(buf) != 8 {
		return 0, errInvalidMetaData
	}
	return math.Float64frombits(binary.BigEndian.Uint64(buf)), nil
}

func encodeCount(n int64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(n))
	return buf
}

func decodeCount(buf []byte) (int64, error) {
	if len(buf) != 8 {
		return 0, errInvalidMetaData
	}
	return int64(binary.BigEndian.Uint64(buf)), nil
}
