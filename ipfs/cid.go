package ipfs

import (
	"encoding/base32"
	"fmt"
	"strings"

	"github.com/mr-tron/base58"

	"github.com/0xAtelerix/talentgraph/library"
)

const (
	cidV0Len     = 34 // sha2-256 multihash: code, length, 32-byte digest
	sha256Code   = 0x12
	sha256Length = 0x20
	cidV1Version = 0x01
)

//nolint:gochecknoglobals // multibase "b": rfc4648 base32, lower case, no padding
var multibase32 = base32.NewEncoding("abcdefghijklmnopqrstuvwxyz234567").WithPadding(base32.NoPadding)

// NormalizeCID strips URI prefixes and checks the remainder is a CIDv0
// (base58 sha2-256 multihash) or a base32 CIDv1.
func NormalizeCID(raw string) (string, error) {
	cid := strings.TrimSpace(raw)
	cid = strings.TrimPrefix(cid, "ipfs://")
	cid = strings.TrimPrefix(cid, "/ipfs/")

	switch {
	case strings.HasPrefix(cid, "Qm"):
		b, err := base58.Decode(cid)
		if err != nil {
			return "", fmt.Errorf("%w: %q: %w", library.ErrInvalidCID, raw, err)
		}

		if len(b) != cidV0Len || b[0] != sha256Code || b[1] != sha256Length {
			return "", fmt.Errorf("%w: %q: not a sha2-256 multihash", library.ErrInvalidCID, raw)
		}

		return cid, nil

	case strings.HasPrefix(cid, "b"):
		b, err := multibase32.DecodeString(cid[1:])
		if err != nil {
			return "", fmt.Errorf("%w: %q: %w", library.ErrInvalidCID, raw, err)
		}

		if len(b) < 2 || b[0] != cidV1Version {
			return "", fmt.Errorf("%w: %q: not a CIDv1", library.ErrInvalidCID, raw)
		}

		return cid, nil

	default:
		return "", fmt.Errorf("%w: %q", library.ErrInvalidCID, raw)
	}
}
