package persist

import "strconv"

const (
	fnvSeed  uint32 = 0x811c9dc5
	fnvPrime uint32 = 0x01000193
)

// Fingerprint computes a 32-bit FNV-1a hash over the concatenated host
// state, rendered as lowercase hex. It only detects "nothing changed" to
// skip redundant writes; collisions merely cost one missed write that the
// next genuinely different state corrects.
func Fingerprint(transcriptHTML string, nLines int, model, language string, recording bool) string {
	rec := "0"
	if recording {
		rec = "1"
	}
	s := transcriptHTML + "|" + strconv.Itoa(nLines) + "|" + model + "|" + language + "|" + rec

	h := fnvSeed
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= fnvPrime
	}
	return strconv.FormatUint(uint64(h), 16)
}
