// Package testutil provides deterministic helpers for randomized tests.
//
// Tests that sweep random offsets, lengths, and word patterns use a seeded
// RNG so failures reproduce; the seed is part of the failure message.
package testutil
