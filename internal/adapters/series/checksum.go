package series

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/regiontrack/internal/core/domain"
)

// Checksum computes the XXHash of an image's dimensions and pixels.
func Checksum(img *domain.LabelImage) uint64 {
	hasher := xxhash.New()

	var buf [8]byte
	writeInt := func(v int) {
		binary.LittleEndian.PutUint64(buf[:], uint64(v)) //nolint:gosec // two's complement is fine for hashing
		_, _ = hasher.Write(buf[:])
	}

	writeInt(img.Width)
	writeInt(img.Height)
	for _, l := range img.Pixels {
		writeInt(int(l))
	}

	return hasher.Sum64()
}
