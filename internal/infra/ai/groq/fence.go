package groq

import (
	"regexp"
	"strings"
)

var (
	reFencedJSON = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")
	reFenced     = regexp.MustCompile("(?s)```\\s*(.*?)\\s*```")
)

// StripCodeFence buang pagar markdown yang kadang ikut di respons model.
// Tanpa pagar, string dikembalikan apa adanya.
func StripCodeFence(s string) string {
	if m := reFencedJSON.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	if m := reFenced.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return strings.TrimSpace(s)
}
