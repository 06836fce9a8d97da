package persist

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFingerprintKnownVectors(t *testing.T) {
	assert.Equal(t, "4e77dc05", Fingerprint("", 0, "", "", false))
	assert.Equal(t, "1e367211", Fingerprint("hello<br>", 1, "base", "pt", false))
}

func TestFingerprintDeterministic(t *testing.T) {
	a := Fingerprint("line one<br>line two<br>", 2, "small", "pt", true)
	b := Fingerprint("line one<br>line two<br>", 2, "small", "pt", true)
	assert.Equal(t, a, b)
}

func TestFingerprintSensitivity(t *testing.T) {
	base := Fingerprint("text<br>", 1, "base", "pt", false)

	assert.NotEqual(t, base, Fingerprint("other<br>", 1, "base", "pt", false))
	assert.NotEqual(t, base, Fingerprint("text<br>", 2, "base", "pt", false))
	assert.NotEqual(t, base, Fingerprint("text<br>", 1, "small", "pt", false))
	assert.NotEqual(t, base, Fingerprint("text<br>", 1, "base", "en", false))
	assert.NotEqual(t, base, Fingerprint("text<br>", 1, "base", "pt", true))
}

func TestFingerprintLowercaseHex(t *testing.T) {
	h := Fingerprint("ABC<br>", 3, "Large-V3", "EN", true)
	assert.Regexp(t, `^[0-9a-f]{1,8}$`, h)
}
