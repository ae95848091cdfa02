package utils

import (
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// referenceAlphabet omits characters that are easy to misread (0/O, 1/I/L)
const referenceAlphabet = "23456789ABCDEFGHJKMNPQRSTUVWXYZ"

// NewSwapReference generates the short human-readable code attached to a swap
// request, so notifications and support conversations can name a proposal
// without quoting UUIDs.
func NewSwapReference() string {
	id, err := gonanoid.Generate(referenceAlphabet, 8)
	if err != nil {
		return ""
	}
	return "SW-" + id
}
