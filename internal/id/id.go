// Package id generates the prefixed NanoID identifiers used for every
// stored entity, e.g. "book-V1StGXR8_Z5jdHi6B-myT".
package id

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Generate creates a prefixed unique ID. The prefix makes an ID readable on
// its own in logs and event payloads (book, author, person, user, sub).
//
// Returns an error only when the system cannot supply secure randomness.
func Generate(prefix string) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + id, nil
}

// MustGenerate is like Generate but panics on failure. For seeding and
// startup paths where a failed entropy read should crash the process.
func MustGenerate(prefix string) string {
	id, err := Generate(prefix)
	if err != nil {
		panic(fmt.Sprintf("failed to generate ID: %v", err))
	}
	return id
}
