package artifact

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// ExtWav is the raw audio produced by the speech endpoint.
	ExtWav = ".wav"
	// ExtOgg is the compressed artifact the release consumes.
	ExtOgg = ".ogg"
)

// Extensions lists every extension the pipeline may leave in the output
// directory, in the order reconciliation scans them.
var Extensions = []string{ExtOgg, ExtWav}

// Name builds the canonical artifact filename for an (index, hash) pair.
func Name(index int, hash, ext string) string {
	return fmt.Sprintf("%d-%s%s", index, hash, ext)
}

// ParseName splits an artifact filename into its index, embedded hash, and
// extension. The hash is the substring between the first '-' and the last
// '.'. ok is false when the name does not follow the convention; callers
// treat such files as stale.
func ParseName(name string) (index int, hash, ext string, ok bool) {
	dash := strings.Index(name, "-")
	dot := strings.LastIndex(name, ".")
	if dash == -1 || dot == -1 || dot <= dash+1 {
		return 0, "", "", false
	}
	index, err := strconv.Atoi(name[:dash])
	if err != nil || index < 0 {
		return 0, "", "", false
	}
	return index, name[dash+1 : dot], name[dot:], true
}
