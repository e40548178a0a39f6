package checksum

// Sum returns the complemented end-around-carry byte sum of b. A frame whose
// checksum slot already holds Sum of the frame (computed with that slot
// zeroed) sums to 0.
func Sum(b []byte) byte {
	sum := 0
	for _, v := range b {
		sum += int(v)
		if sum&0x100 != 0 {
			sum &= 0xFF
			sum++
		}
	}
	return ^byte(sum & 0xFF)
}

// Valid reports whether a frame carrying its own checksum verifies.
func Valid(b []byte) bool {
	return Sum(b) == 0
}
