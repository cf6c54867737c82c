package h3util

import (
	"errors"
	"regexp"
	"strconv"

	h3 "github.com/uber/h3-go/v4"
)

// H3 cell index representation
// 1) 1 bit reserved and set to 0,
// 2) 4 bits to indicate the index mode,
// 3) 3 bits reserved and set to 0,
// 4) 4 bits to indicate the cell resolution 0-15,
// 5) 7 bits to indicate the base cell 0-121, and
// 6) 3 bits to indicate each subsequent digit 0-6 from resolution 1 up to the
//    resolution of the cell (45 bits total are reserved for resolutions 1-15)
//
// see: https://h3geo.org/docs/core-library/h3indexing

const (
	MinResolution = 0
	// LeafResolution is the finest H3 resolution. Indices used as zset
	// scores must be at this resolution.
	LeafResolution = 15
)

const (
	resOffset = 52
	resMask   = uint64(15) << resOffset

	// masks out the top 12 bits (reserved/mode/reserved/resolution)
	low52Mask = uint64(0x000FFFFFFFFFFFFF)

	// assumes mode == 1 and resolution == 15
	high12Bits = uint64(0x08F0000000000000)
)

var (
	ErrInvalidIndexString = errors.New("invalid H3 index string")
	ErrNotLeafResolution  = errors.New("H3 index must be at resolution 15")
)

// accepts the canonical 15 hex digit key form, with optional 0x prefix
var h3KeyRegex = regexp.MustCompile("^(0x)?[0-9a-fA-F]{15}$")

// Index is a 64-bit H3 cell index. It is kept as a plain integer so the
// score codec and the child bound computations stay allocation-free and
// never round-trip through the H3 library's richer cell type.
type Index uint64

func (idx Index) Resolution() int {
	return int((uint64(idx) & resMask) >> resOffset)
}

func (idx Index) setResolution(res int) Index {
	return Index((uint64(idx) &^ resMask) | uint64(res)<<resOffset)
}

// Valid reports whether idx is a valid H3 cell index.
func (idx Index) Valid() bool {
	return h3.Cell(idx).IsValid()
}

// String returns the canonical hex key form, e.g. 8f2830828052d25.
func (idx Index) String() string {
	return strconv.FormatUint(uint64(idx), 16)
}

// Score converts a leaf resolution index to its zset score.
//
// Only the bottom 52 bits of the index are kept: the reserved bit, the
// index mode and the resolution are constant for every stored entry
// (mode == 1, resolution == 15), so the score fits a double exactly and
// its numeric order matches the nesting order of the digit groups.
//
// A discussion of why double is used instead of long long for zset
// scores: https://github.com/antirez/redis/issues/6209
func (idx Index) Score() float64 {
	return float64(uint64(idx) & low52Mask)
}

// ScoreToIndex converts a zset score back to a leaf resolution index,
// restoring the fixed mode/resolution header bits.
func ScoreToIndex(score float64) Index {
	return Index(uint64(score) | high12Bits)
}

// MinChild returns the lowest valued resolution 15 descendant of idx.
func (idx Index) MinChild() Index {
	res := idx.Resolution()
	// if res == 15 it's already a leaf (has no children)
	if res == LeafResolution {
		return idx
	}

	minChild := idx.setResolution(LeafResolution)

	// shift down and back up to zero out the unset child digit bits,
	// 0 being the lowest digit at every level
	childBitLen := uint((LeafResolution - res) * 3)
	minChild = minChild >> childBitLen << childBitLen

	return minChild
}

// MaxChild returns the highest valued resolution 15 descendant of idx.
func (idx Index) MaxChild() Index {
	res := idx.Resolution()
	if res == LeafResolution {
		return idx
	}

	maxChild := idx.setResolution(LeafResolution)

	childBitLen := uint((LeafResolution - res) * 3)
	maxChild = maxChild >> childBitLen << childBitLen

	// set every unset child digit to the highest digit (6)
	var childBits uint64
	for nextRes := res + 1; nextRes <= LeafResolution; nextRes++ {
		childBits |= 6 << uint(3*(LeafResolution-nextRes))
	}

	return maxChild | Index(childBits)
}

// FromLonLat encodes a geographic point as a leaf resolution cell index.
func FromLonLat(lon, lat float64) Index {
	return Index(h3.LatLngToCell(h3.NewLatLng(lat, lon), LeafResolution))
}

// ToLonLat decodes the centroid of the cell.
func (idx Index) ToLonLat() (float64, float64) {
	ll := h3.CellToLatLng(h3.Cell(idx))
	return ll.Lng, ll.Lat
}

// ParseIndex converts a string to an Index. The string can be either the
// canonical hex key form or a decimal u64 value.
func ParseIndex(h3str string) (Index, error) {
	if h3KeyRegex.MatchString(h3str) {
		s := h3str
		if len(s) == 17 {
			s = s[2:]
		}
		v, err := strconv.ParseUint(s, 16, 64)
		if err != nil {
			return 0, ErrInvalidIndexString
		}
		idx := Index(v)
		if !idx.Valid() {
			return 0, ErrInvalidIndexString
		}
		return idx, nil
	}
	v, err := strconv.ParseUint(h3str, 10, 64)
	if err != nil {
		return 0, ErrInvalidIndexString
	}
	idx := Index(v)
	if !idx.Valid() {
		return 0, ErrInvalidIndexString
	}
	return idx, nil
}
