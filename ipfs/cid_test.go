package ipfs

import (
	"testing"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/0xAtelerix/talentgraph/library"
)

const sampleV0 = "QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG"

func TestNormalizeCID(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		in, want string
	}{
		{sampleV0, sampleV0},
		{"ipfs://" + sampleV0, sampleV0},
		{"/ipfs/" + sampleV0, sampleV0},
		{"  " + sampleV0 + "\n", sampleV0},
		{
			"bafybeigdyrzt5sfp7udm7hu76uh7y26nf3efuylqabf3oclgtqy55fbzdi",
			"bafybeigdyrzt5sfp7udm7hu76uh7y26nf3efuylqabf3oclgtqy55fbzdi",
		},
	} {
		got, err := NormalizeCID(tc.in)
		require.NoError(t, err, tc.in)
		require.Equal(t, tc.want, got)
	}

	for _, bad := range []string{
		"",
		"hello",
		"Qm0OIl",               // not base58
		"QmYwAPJzv5CZsnA625s3", // too short
		"bAFY!",
		"https://example.com/x.json",
	} {
		_, err := NormalizeCID(bad)
		require.ErrorIs(t, err, library.ErrInvalidCID, bad)
	}
}

func TestNormalizeCIDv0RoundTrip(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(tr *rapid.T) {
		digest := rapid.SliceOfN(rapid.Byte(), 32, 32).Draw(tr, "digest")
		cid := base58.Encode(append([]byte{sha256Code, sha256Length}, digest...))

		got, err := NormalizeCID("ipfs://" + cid)
		if err != nil {
			tr.Fatalf("valid cid %s rejected: %v", cid, err)
		}

		if got != cid {
			tr.Fatalf("got %s want %s", got, cid)
		}
	})
}

func TestNormalizeCIDv1RoundTrip(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(tr *rapid.T) {
		rest := rapid.SliceOfN(rapid.Byte(), 1, 64).Draw(tr, "rest")
		cid := "b" + multibase32.EncodeToString(append([]byte{cidV1Version}, rest...))

		got, err := NormalizeCID("/ipfs/" + cid)
		if err != nil {
			tr.Fatalf("valid cid %s rejected: %v", cid, err)
		}

		if got != cid {
			tr.Fatalf("got %s want %s", got, cid)
		}
	})
}
