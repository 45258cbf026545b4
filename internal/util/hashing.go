package util

import (
	"crypto/sha256"
	"strconv"
)

// HashVector returns a digest of the vector's full-precision decimal form.
// Components are separated so adjacent values cannot run together, and two
// vectors hash equal only when every component is bit-equal.
func HashVector(vec []float64) [32]byte {
	buffer := GetBytesBuffer()
	defer PutBytesBuffer(buffer)

	for i := range vec {
		if i > 0 {
			buffer.WriteByte('|')
		}
		buffer.WriteString(strconv.FormatFloat(vec[i], 'g', 17, 64))
	}
	return sha256.Sum256(buffer.Bytes())
}
