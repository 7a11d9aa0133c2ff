// Package sizeclass maps allocation request sizes onto a fixed table of
// power-of-two block sizes, doubling from MinSize up to MaxSize.
package sizeclass

import (
	"math/bits"

	cerrors "github.com/cockroachdb/errors"
)

const (
	// MinSize is the block size in bytes of the smallest class
	MinSize = 4
	// MaxSize is the block size in bytes of the largest class. Requests above it
	// cannot be served and fail with InvalidSizeError
	MaxSize = 65536
	// Count is the number of classes between MinSize and MaxSize inclusive. Class i
	// holds blocks of MinSize << i bytes
	Count = 15

	minShift = 2 // log2(MinSize)
)

// Index returns the class of the smallest block size that can hold size bytes.
// Sizes that are already a class size map to exactly that class; everything
// else rounds up to the next power of two.
func Index(size int) (int, error) {
	if size <= 0 {
		return 0, cerrors.Wrapf(InvalidSizeError, "requested size is %d", size)
	}
	if size > MaxSize {
		return 0, cerrors.Wrapf(InvalidSizeError, "requested size %d exceeds the largest class size %d", size, MaxSize)
	}
	if size <= MinSize {
		return 0, nil
	}

	return bits.Len(uint(size-1)) - minShift, nil
}

// SizeOf returns the block size in bytes of the provided class. It panics if
// class is outside [0, Count).
func SizeOf(class int) int {
	if class < 0 || class >= Count {
		panic("sizeclass: class index out of range")
	}

	return MinSize << class
}

// Sizes returns a fresh copy of the class size table in ascending order.
func Sizes() []int {
	sizes := make([]int, Count)
	for class := range sizes {
		sizes[class] = MinSize << class
	}

	return sizes
}
