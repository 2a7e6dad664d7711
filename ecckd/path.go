package ecckd

import (
	"strconv"
	"strings"
)

// ParsePath parses a derivation path such as m/44'/0'/0'/0/1 into child
// indices.  Hardened indices may be marked with ', h or H.  The leading m is
// optional and a path of just m names the key itself.
func ParsePath(path string) ([]uint32, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, ErrInvalidPath
	}

	parts := strings.Split(path, "/")
	if parts[0] == "m" || parts[0] == "M" {
		parts = parts[1:]
	}

	res := make([]uint32, 0, len(parts))
	for _, part := range parts {
		hardened := false
		if n := len(part); n > 0 {
			switch part[n-1] {
			case '\'', 'h', 'H':
				hardened = true
				part = part[:n-1]
			}
		}

		idx, err := strconv.ParseUint(part, 10, 32)
		if err != nil || uint32(idx)&HardenedBit != 0 {
			return nil, ErrInvalidPath
		}
		if hardened {
			idx |= uint64(HardenedBit)
		}
		res = append(res, uint32(idx))
	}
	return res, nil
}
