package common

// WipeByteArray overwrites the contents of b with zeros so that
// sensitive material does not linger in memory longer than needed.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
