package room

import "math/rand"

const codeLength = 4

// codeAlphabet omits I, O and Q, which read ambiguously when a code is
// shared out loud or typed from a screenshot.
const codeAlphabet = "ABCDEFGHJKLMNPRSTUVWXYZ"

// GenerateCode creates a random join code, retrying on collision with
// existing codes. With 23^4 combinations a collision streak long enough to
// exhaust the retries is practically impossible.
func GenerateCode(existing map[string]bool) string {
	for attempt := 0; attempt < 100; attempt++ {
		code := randomCode()
		if !existing[code] {
			return code
		}
	}
	return randomCode()
}

func randomCode() string {
	b := make([]byte, codeLength)
	for i := range b {
		b[i] = codeAlphabet[rand.Intn(len(codeAlphabet))]
	}
	return string(b)
}
