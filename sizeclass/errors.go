package sizeclass

import "github.com/pkg/errors"

// InvalidSizeError is the error returned from Index or other methods if the requested size
// cannot be mapped to any class. Zero, negative, and sizes above MaxSize all fail with this error
var InvalidSizeError error = errors.New("requested size cannot be served by any size class")

// PowerOfTwoError is the error returned from CheckPow2 or other methods if the number being tested is not a power of two
var PowerOfTwoError error = errors.New("number must be a power of two")
