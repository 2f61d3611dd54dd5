package memutils

import "github.com/pkg/errors"

// InsufficientMemoryError is returned when the total size of the segments to be placed exceeds the
// capacity of main memory. It is not retryable with the same inputs.
var InsufficientMemoryError error = errors.New("required memory for segment allocation exceeds main memory size")

// InvalidCapacityError is returned when a memory capacity is not a positive integer
var InvalidCapacityError error = errors.New("memory capacity must be a positive integer")

// InvalidSizeError is returned when a segment size is not a positive integer
var InvalidSizeError error = errors.New("segment size must be a positive integer")

// InconsistentTotalError is returned when a caller-supplied required total does not match the sum
// of the segment sizes it was supplied with
var InconsistentTotalError error = errors.New("required total does not match the sum of segment sizes")

// NilSegmentError is returned when a segment table contains a nil entry
var NilSegmentError error = errors.New("segment table contains a nil segment")

// OverlapError is returned when two placed segments share any address
var OverlapError error = errors.New("placed segments overlap")

// OutOfRangeError is returned when a placed segment extends outside of main memory
var OutOfRangeError error = errors.New("placed segment lies outside of main memory")
