package addrmap

import (
	"math/bits"
	"strconv"
	"strings"

	"github.com/sarchlab/dramthermal/thermalconfig"
)

// Remapper reshuffles the bits of an Address according to a compiled
// loc_mapping string. A nil *Remapper, or one compiled from an empty
// string, is the identity mapping.
type Remapper struct {
	// destination bit positions, MSB-first, one slice per field in
	// channel,rank,bankgroup,bank,row,column order.
	destPos      [numFields][]int
	columnOffset uint
	identity     bool
}

// Compile parses a loc_mapping string (comma-separated list of exactly
// six dash-separated token lists; each token is an integer or an
// inclusive, possibly-descending start:end range) into a Remapper.
//
// An empty locMapping compiles to the identity mapping. Field count != 6
// or an unparseable token is a *thermalconfig.ConfigError.
func Compile(locMapping string, burstLength int) (*Remapper, error) {
	if locMapping == "" {
		return &Remapper{identity: true}, nil
	}

	rawFields := strings.Split(locMapping, ",")
	if len(rawFields) != numFields {
		return nil, thermalconfig.NewConfigError("loc_mapping",
			"must have exactly 6 comma-separated fields (channel,rank,bankgroup,bank,row,column)")
	}

	var r Remapper
	for i, raw := range rawFields {
		positions, err := parseField(raw)
		if err != nil {
			return nil, err
		}
		r.destPos[i] = positions
	}

	if burstLength <= 0 || burstLength&(burstLength-1) != 0 {
		return nil, thermalconfig.NewConfigError("burst_length", "must be a positive power of two to derive a column bit offset")
	}
	r.columnOffset = uint(bits.Len(uint(burstLength)) - 1)

	return &r, nil
}

func parseField(raw string) ([]int, error) {
	var positions []int
	for _, tok := range strings.Split(raw, "-") {
		if tok == "" {
			continue
		}
		if colon := strings.IndexByte(tok, ':'); colon >= 0 {
			start, err := strconv.Atoi(tok[:colon])
			if err != nil {
				return nil, thermalconfig.NewConfigError("loc_mapping", "non-integer range start in token "+tok)
			}
			end, err := strconv.Atoi(tok[colon+1:])
			if err != nil {
				return nil, thermalconfig.NewConfigError("loc_mapping", "non-integer range end in token "+tok)
			}
			if start > end {
				for k := start; k >= end; k-- {
					positions = append(positions, k)
				}
			} else {
				for k := start; k <= end; k++ {
					positions = append(positions, k)
				}
			}
			continue
		}

		pos, err := strconv.Atoi(tok)
		if err != nil {
			return nil, thermalconfig.NewConfigError("loc_mapping", "non-integer token "+tok)
		}
		positions = append(positions, pos)
	}
	return positions, nil
}

// Remap applies the compiled bit placement. Destination bit collisions
// across fields are not detected or rejected — per spec.md §9's Open
// Question, colliding writes are silently OR'd together into the shared
//64-bit accumulator, exactly as the source does. This is documented
// undefined behavior, not a bug to fix.
func (r *Remapper) Remap(a Address) Address {
	if r == nil || r.identity {
		return a
	}

	origin := a.values()
	var acc uint64
	for i := 0; i < numFields; i++ {
		width := len(r.destPos[i])
		for j := 0; j < width; j++ {
			bit := (uint64(origin[i]) >> uint(width-1-j)) & 1
			acc |= bit << uint(r.destPos[i][j])
		}
	}

	var out [numFields]int
	pos := r.columnOffset
	for i := numFields - 1; i >= 0; i-- {
		width := uint(len(r.destPos[i]))
		mask := uint64(1)<<width - 1
		out[i] = int((acc >> pos) & mask)
		pos += width
	}

	return fromValues(out)
}
