package slab

// Block is an opaque handle to a single fixed-size allocation. A Block remembers the class
// it was drawn from, so Release always returns it to the free list it belongs to regardless
// of the size the caller originally requested.
type Block struct {
	data  []byte
	class int
}

// Bytes returns the block's backing memory. Its length is the class size, which may be
// larger than the size passed to Acquire
func (b Block) Bytes() []byte {
	return b.data
}

// Size returns the block's class size in bytes
func (b Block) Size() int {
	return len(b.data)
}

// Class returns the index of the size class this block was drawn from
func (b Block) Class() int {
	return b.class
}

// IsZero reports whether this is the zero Block, which does not refer to any allocation
func (b Block) IsZero() bool {
	return b.data == nil
}
