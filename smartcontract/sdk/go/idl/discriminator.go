package idl

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"strings"
	"unicode"
)

const DiscriminatorSize = 8

var ErrInvalidDiscriminator = errors.New("invalid discriminator")

// InstructionDiscriminator is the Anchor sighash of a global instruction.
func InstructionDiscriminator(name string) [8]byte {
	return sha256First8("global:" + ToSnakeCase(name))
}

func AccountDiscriminator(name string) [8]byte {
	return sha256First8("account:" + name)
}

func EventDiscriminator(name string) [8]byte {
	return sha256First8("event:" + name)
}

func sha256First8(s string) [8]byte {
	h := sha256.Sum256([]byte(s))
	var disc [8]byte
	copy(disc[:], h[:8])
	return disc
}

// ValidateDiscriminator checks that data starts with the expected discriminator.
func ValidateDiscriminator(data []byte, expected [8]byte) error {
	if len(data) < DiscriminatorSize {
		return fmt.Errorf("%w: data too short", ErrInvalidDiscriminator)
	}
	var got [8]byte
	copy(got[:], data[:DiscriminatorSize])
	if got != expected {
		return fmt.Errorf("%w: got %x, want %x", ErrInvalidDiscriminator, got, expected)
	}
	return nil
}

// ToSnakeCase converts an IDL identifier such as "addToDeposit" to
// "add_to_deposit". Names that are already snake_case are returned as is.
func ToSnakeCase(name string) string {
	var b strings.Builder
	b.Grow(len(name) + 4)
	runes := []rune(name)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 && runes[i-1] != '_' && (unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1]) ||
				(i+1 < len(runes) && unicode.IsLower(runes[i+1]))) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
