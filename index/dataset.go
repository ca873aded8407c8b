package index

import (
	"fmt"
)

// Dataset is a batch of row-major vectors of one dimension.
//
// Float datasets hold dim float32 components per row. Binary datasets hold
// dim bits per row packed into dim/8 bytes.
type Dataset struct {
	dim    int
	rows   int
	binary bool
	floats []float32
	bits   []byte
}

// NewFloatDataset wraps row-major float data of the given dimension.
func NewFloatDataset(dim int, data []float32) (*Dataset, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("dataset: dimension must be positive, got %d", dim)
	}
	if len(data)%dim != 0 {
		return nil, fmt.Errorf("dataset: %d components is not a multiple of dimension %d", len(data), dim)
	}
	return &Dataset{dim: dim, rows: len(data) / dim, floats: data}, nil
}

// NewBinaryDataset wraps packed binary data of dimBits bits per row.
func NewBinaryDataset(dimBits int, data []byte) (*Dataset, error) {
	if dimBits <= 0 || dimBits%8 != 0 {
		return nil, fmt.Errorf("dataset: binary dimension must be a positive multiple of 8, got %d", dimBits)
	}
	width := dimBits / 8
	if len(data)%width != 0 {
		return nil, fmt.Errorf("dataset: %d bytes is not a multiple of row width %d", len(data), width)
	}
	return &Dataset{dim: dimBits, rows: len(data) / width, binary: true, bits: data}, nil
}

// Rows returns the number of vectors.
func (d *Dataset) Rows() int { return d.rows }

// Dim returns the vector dimension (bits for binary datasets).
func (d *Dataset) Dim() int { return d.dim }

// IsBinary reports whether the dataset holds packed binary vectors.
func (d *Dataset) IsBinary() bool { return d.binary }

// Width returns the number of stored components per row.
func (d *Dataset) Width() int {
	if d.IsBinary() {
		return d.dim / 8
	}
	return d.dim
}

// Floats returns the row-major float data.
func (d *Dataset) Floats() []float32 { return d.floats }

// Bits returns the packed binary data.
func (d *Dataset) Bits() []byte { return d.bits }

// FloatRow returns row i of a float dataset.
func (d *Dataset) FloatRow(i int) []float32 {
	off := i * d.dim
	return d.floats[off : off+d.dim : off+d.dim]
}

// BinaryRow returns row i of a binary dataset.
func (d *Dataset) BinaryRow(i int) []byte {
	w := d.dim / 8
	off := i * w
	return d.bits[off : off+w : off+w]
}

// FloatRows returns all rows of a float dataset.
func (d *Dataset) FloatRows() [][]float32 {
	rows := make([][]float32, d.rows)
	for i := range rows {
		rows[i] = d.FloatRow(i)
	}
	return rows
}

// BinaryRows returns all rows of a binary dataset.
func (d *Dataset) BinaryRows() [][]byte {
	rows := make([][]byte, d.rows)
	for i := range rows {
		rows[i] = d.BinaryRow(i)
	}
	return rows
}
