package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parcelhq/parcel/internal/domain"
)

func TestVerifyChecksum_ZeroChecksumAlwaysPasses(t *testing.T) {
	err := verifyChecksum([]byte("anything"), domain.Checksum{})
	assert.NoError(t, err)
}

func TestVerifyChecksum_SHA256Match(t *testing.T) {
	data := []byte("hello world")
	// sha256("hello world")
	want := domain.Checksum{
		Algorithm: domain.ChecksumSHA256,
		Hex:       "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9",
	}
	assert.NoError(t, verifyChecksum(data, want))
}

func TestVerifyChecksum_Mismatch(t *testing.T) {
	want := domain.Checksum{Algorithm: domain.ChecksumSHA256, Hex: "deadbeef"}
	err := verifyChecksum([]byte("hello world"), want)
	require.Error(t, err)

	var mismatch domain.ErrChecksumMismatch
	assert.ErrorAs(t, err, &mismatch)
}
