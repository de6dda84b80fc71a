package repository

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"

	"github.com/parcelhq/parcel/internal/domain"
)

// verifyChecksum reports whether data matches want. An empty want (no
// checksum published, the common case for local-store packages) is
// treated as "nothing to verify" rather than a failure. crypto/sha256,
// crypto/sha1, and crypto/md5 are stdlib: these are the one-true-obvious
// implementation of each digest, not a concern a third-party library
// would meaningfully replace.
func verifyChecksum(data []byte, want domain.Checksum) error {
	if want.IsZero() {
		return nil
	}

	var sum string
	switch want.Algorithm {
	case domain.ChecksumSHA256:
		h := sha256.Sum256(data)
		sum = hex.EncodeToString(h[:])
	case domain.ChecksumSHA1:
		h := sha1.Sum(data)
		sum = hex.EncodeToString(h[:])
	case domain.ChecksumMD5:
		h := md5.Sum(data)
		sum = hex.EncodeToString(h[:])
	default:
		h := sha256.Sum256(data)
		sum = hex.EncodeToString(h[:])
	}

	if sum != want.Hex {
		return domain.ErrChecksumMismatch{Expected: want.Hex, Actual: sum}
	}
	return nil
}
