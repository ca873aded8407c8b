package distance

import (
	"encoding/binary"
	"math/bits"
)

func dotGeneric(a, b []float32) float32 {
	var ret float32
	for i := range a {
		ret += a[i] * b[i]
	}
	return ret
}

func squaredL2Generic(a, b []float32) float32 {
	var distance float32
	for i := range a {
		d := a[i] - b[i]
		distance += d * d
	}
	return distance
}

func hammingGeneric(a, b []byte) int64 {
	var sum int64
	n := len(a)
	for n >= 8 {
		v1 := binary.LittleEndian.Uint64(a)
		v2 := binary.LittleEndian.Uint64(b)
		sum += int64(bits.OnesCount64(v1 ^ v2))
		a = a[8:]
		b = b[8:]
		n -= 8
	}
	for i := range a {
		sum += int64(bits.OnesCount8(a[i] ^ b[i]))
	}
	return sum
}

// andOrCounts returns popcount(a&b) and popcount(a|b).
func andOrCounts(a, b []byte) (inter, union int) {
	n := len(a)
	for n >= 8 {
		v1 := binary.LittleEndian.Uint64(a)
		v2 := binary.LittleEndian.Uint64(b)
		inter += bits.OnesCount64(v1 & v2)
		union += bits.OnesCount64(v1 | v2)
		a = a[8:]
		b = b[8:]
		n -= 8
	}
	for i := range a {
		inter += bits.OnesCount8(a[i] & b[i])
		union += bits.OnesCount8(a[i] | b[i])
	}
	return inter, union
}
