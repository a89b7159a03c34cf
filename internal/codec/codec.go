// Package codec maps raw hourly counts to base-N digit symbols and groups of
// those symbols back to base-36 message characters.
//
// A producer hides one message character in ChunkSize consecutive hours. Each
// hour's count becomes one base-N digit:
//
//	count 0      -> Sentinel (no signal)
//	count c > 0  -> digit (c-1) mod base
//
// The shift by one reserves a count of zero for "no signal", so a quiet hour
// can never be mistaken for the digit 0.
//
// On the read side the digit sequence is cut into chunks of ChunkSize digits,
// each chunk is parsed as a base-N integer and the value indexes the output
// alphabet 0-9A-Z. A chunk that contains the sentinel anywhere decodes to a
// single sentinel; a hole is never partially decoded.
package codec

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// Sentinel marks a missing or zero-count hour, and a message gap.
	Sentinel byte = ' '

	// MinBase and MaxBase bound the supported digit radix.
	MinBase = 2
	MaxBase = 36

	// OutputBase is the size of the message alphabet.
	OutputBase = 36
)

// digits is the full 36-symbol alphabet; a base-N alphabet is its prefix.
const digits = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

var (
	// ErrInvalidBase indicates a radix outside [MinBase, MaxBase].
	ErrInvalidBase = errors.New("invalid base")

	// ErrUnknownSymbol indicates a character outside the active alphabet.
	ErrUnknownSymbol = errors.New("unknown symbol")
)

// Codec converts between counts, base-N digits and base-36 characters for
// one fixed base. A Codec is immutable and safe for concurrent use.
type Codec struct {
	base      int
	alphabet  string
	chunkSize int
}

// New returns a Codec for base, which must be in [2, 36].
func New(base int) (*Codec, error) {
	if err := ValidateBase(base); err != nil {
		return nil, err
	}
	return &Codec{
		base:      base,
		alphabet:  digits[:base],
		chunkSize: chunkSize(base),
	}, nil
}

// ValidateBase checks that base is a supported radix.
func ValidateBase(base int) error {
	if base < MinBase || base > MaxBase {
		return fmt.Errorf("%w: %d must be in [%d, %d]", ErrInvalidBase, base, MinBase, MaxBase)
	}
	return nil
}

// chunkSize returns the smallest k with base^k >= 36, i.e. the number of
// base digits needed to express every value 0..35. Integer arithmetic keeps
// exact powers (base 6) from rounding up.
func chunkSize(base int) int {
	k, span := 1, base
	for span < OutputBase {
		span *= base
		k++
	}
	return k
}

// NonNegativeMod returns n mod m in [0, m), for negative n as well.
func NonNegativeMod(n, m int64) int64 {
	return ((n % m) + m) % m
}

// Base returns the radix of c.
func (c *Codec) Base() int { return c.base }

// Alphabet returns the digit symbols 0-9A-Z truncated to the base.
func (c *Codec) Alphabet() string { return c.alphabet }

// ChunkSize returns how many base-N digits encode one message character.
func (c *Codec) ChunkSize() int { return c.chunkSize }

// ZeroDigit returns the symbol of digit 0.
func (c *Codec) ZeroDigit() byte { return c.alphabet[0] }

// EncodeDigit maps a raw count to its digit symbol and digit index.
// A zero count yields the Sentinel with index 0; the index of a sentinel is
// never used for decoding.
func (c *Codec) EncodeDigit(rawCount int64) (symbol byte, digitIndex int) {
	if rawCount == 0 {
		return Sentinel, 0
	}
	// Reduce before shifting so rawCount-1 cannot overflow at MinInt64.
	base := int64(c.base)
	idx := int((NonNegativeMod(rawCount, base) - 1 + base) % base)
	return c.alphabet[idx], idx
}

// DigitIndex returns the value of a digit symbol, or ErrUnknownSymbol.
func (c *Codec) DigitIndex(symbol byte) (int, error) {
	idx := strings.IndexByte(c.alphabet, symbol)
	if idx < 0 {
		return 0, fmt.Errorf("%w: %q is not a base-%d digit", ErrUnknownSymbol, symbol, c.base)
	}
	return idx, nil
}

// DecodeChunk converts a chunk of base-N digits to one base-36 character.
//
// A chunk containing the Sentinel decodes to one Sentinel. A value that does
// not fit the 36-symbol output alphabet also decodes to the Sentinel rather
// than failing; the message simply shows a gap there.
func (c *Codec) DecodeChunk(chunk string) (byte, error) {
	if strings.IndexByte(chunk, Sentinel) >= 0 {
		return Sentinel, nil
	}
	value := 0
	for i := 0; i < len(chunk); i++ {
		d, err := c.DigitIndex(chunk[i])
		if err != nil {
			return 0, err
		}
		// Once out of range the value only grows; stop accumulating.
		if value < OutputBase {
			value = value*c.base + d
		}
	}
	if value >= OutputBase {
		return Sentinel, nil
	}
	return digits[value], nil
}

// EncodeChar converts a base-36 character to its chunk of ChunkSize digits,
// left-padded with the zero digit. The Sentinel encodes as all zero digits.
func (c *Codec) EncodeChar(ch byte) (string, error) {
	out := make([]byte, c.chunkSize)
	for i := range out {
		out[i] = c.ZeroDigit()
	}
	if ch == Sentinel {
		return string(out), nil
	}

	value := strings.IndexByte(digits, ch)
	if value < 0 {
		return "", fmt.Errorf("%w: %q is not a base-36 character", ErrUnknownSymbol, ch)
	}
	for i := c.chunkSize - 1; i >= 0 && value > 0; i-- {
		out[i] = c.alphabet[value%c.base]
		value /= c.base
	}
	return string(out), nil
}

// DecodeSymbols splits a per-hour symbol sequence into chunks, right-pads a
// short final chunk with the zero digit and decodes every chunk.
func (c *Codec) DecodeSymbols(symbols string) (string, error) {
	var b strings.Builder
	b.Grow(len(symbols)/c.chunkSize + 1)

	for start := 0; start < len(symbols); start += c.chunkSize {
		end := min(start+c.chunkSize, len(symbols))
		chunk := symbols[start:end]
		if pad := c.chunkSize - len(chunk); pad > 0 {
			chunk += strings.Repeat(string(c.ZeroDigit()), pad)
		}
		ch, err := c.DecodeChunk(chunk)
		if err != nil {
			return "", err
		}
		b.WriteByte(ch)
	}
	return b.String(), nil
}
