package rewind

import (
	"math"
	"unicode/utf8"
)

// Increase returns value + amount, refusing a zero amount and any sum that
// does not fit in a uint32
func Increase(value, amount uint32) (uint32, error) {
	if amount == 0 {
		return value, ErrCannotIncreaseByZero
	}
	if amount > math.MaxUint32-value {
		return value, ErrIntegerOverflow
	}
	return value + amount, nil
}

// Decrease returns value - amount, refusing a zero amount and any amount
// larger than value
func Decrease(value, amount uint32) (uint32, error) {
	if amount == 0 {
		return value, ErrCannotDecreaseByZero
	}
	if amount > value {
		return value, ErrIntegerUnderflow
	}
	return value - amount, nil
}

// Append returns value with text concatenated to its end
func Append(value, text string) (string, error) {
	if text == "" {
		return value, ErrInputStringIsEmpty
	}
	return value + text, nil
}

// Cut removes the last amount characters from value and returns both the
// shortened value and the exact suffix that was removed. Characters are
// counted as runes, so multi-byte text is never split
func Cut(value string, amount uint32) (string, string, error) {
	if amount == 0 {
		return value, "", ErrCannotRemoveZeroCharacters
	}
	if uint64(amount) > uint64(utf8.RuneCountInString(value)) {
		return value, "", ErrAmountLargerThanString
	}
	i := len(value)
	for range amount {
		_, size := utf8.DecodeLastRuneInString(value[:i])
		i -= size
	}
	return value[:i], value[i:], nil
}
