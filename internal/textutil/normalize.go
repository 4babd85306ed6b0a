package textutil

import (
	"crypto/md5"
	"encoding/hex"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// typographicReplacer maps the typographic variants seen in shipped sound
// lists to their canonical ASCII forms. The em-dash expands to "- " so the
// synthesizer keeps the pause the dash implied.
var typographicReplacer = strings.NewReplacer(
	"…", "...", // horizontal ellipsis
	"’", "'", // right single quotation mark
	"‑", "-", // non-breaking hyphen
	"—", "- ", // em-dash
)

// Normalize canonicalizes voice-line text: Unicode NFC, the fixed
// typographic replacements above, then whitespace trimming.
func Normalize(text string) string {
	text = norm.NFC.String(text)
	text = typographicReplacer.Replace(text)
	return strings.TrimSpace(text)
}

// ContentHash returns the lowercase hex MD5 digest of the UTF-8 encoding of
// text. Artifact filenames embed this digest, so the same normalized text
// must always produce the same value across runs and processes.
func ContentHash(text string) string {
	sum := md5.Sum([]byte(text))
	return hex.EncodeToString(sum[:])
}
