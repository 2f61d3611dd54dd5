package memutils

import (
	cerrors "github.com/cockroachdb/errors"
)

type Number interface {
	~int | ~int32 | ~int64 | ~uint
}

// CheckPositive returns InvalidSizeError, annotated with the name of the value, if number is not
// greater than zero
func CheckPositive[T Number](number T, name string) error {
	if number <= 0 {
		return cerrors.Wrapf(InvalidSizeError, "%s is %d", name, number)
	}
	return nil
}

// CheckCapacity returns InvalidCapacityError if capacity is not greater than zero
func CheckCapacity[T Number](capacity T) error {
	if capacity <= 0 {
		return cerrors.Wrapf(InvalidCapacityError, "capacity is %d", capacity)
	}
	return nil
}

// RoundToMultiple rounds value to the nearest multiple of step. Values exactly halfway between two
// multiples are rounded away from zero.
func RoundToMultiple(value int, step int) int {
	if step <= 1 {
		return value
	}

	quotient := value / step
	remainder := value % step
	if remainder < 0 {
		remainder = -remainder
	}

	if remainder*2 >= step {
		if value < 0 {
			quotient--
		} else {
			quotient++
		}
	}

	return quotient * step
}

// RoundToMultipleEven rounds value to the nearest multiple of step. Values exactly halfway between
// two multiples are rounded to the even multiple.
func RoundToMultipleEven(value int, step int) int {
	if step <= 1 {
		return value
	}

	quotient := value / step
	remainder := value % step
	if remainder < 0 {
		remainder = -remainder
	}

	doubled := remainder * 2
	if doubled > step || (doubled == step && quotient%2 != 0) {
		if value < 0 {
			quotient--
		} else {
			quotient++
		}
	}

	return quotient * step
}
