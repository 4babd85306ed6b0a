package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"voicepack/internal/logging"
	"voicepack/internal/textutil"
)

// Item is one voice line to synthesize: a non-negative index and its
// normalized text. Items are immutable once loaded.
type Item struct {
	Index int
	Text  string
}

// indexPattern accepts "12", "003", and filename forms like "12.ogg".
var indexPattern = regexp.MustCompile(`^\s*(\d+)(?:\.[A-Za-z0-9]+)?\s*$`)

// Load reads the sound list at path. Rows that cannot be parsed are skipped
// with a warning; an empty result is the caller's problem to report.
func Load(path string, logger *slog.Logger) ([]Item, error) {
	logger = logging.NewComponentLogger(logger, "catalog")

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sound list: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var items []Item
	for row := 1; ; row++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			logger.Warn("skipping unreadable row",
				logging.Int("row", row),
				logging.Error(err))
			continue
		}
		if len(record) == 0 {
			continue
		}
		if len(record) < 2 {
			logger.Warn("skipping row: expected 2 columns",
				logging.Int("row", row),
				logging.Int("columns", len(record)))
			continue
		}

		index, ok := parseIndexField(record[0])
		if !ok {
			logger.Warn("skipping row: unparseable index",
				logging.Int("row", row),
				logging.String("field", record[0]))
			continue
		}
		text := textutil.Normalize(record[1])
		if text == "" {
			logger.Warn("skipping row: empty text", logging.Int("row", row))
			continue
		}

		items = append(items, Item{Index: index, Text: text})
	}
	return items, nil
}

// parseIndexField extracts the integer index from the first column, which
// may be a bare number or a filename-like value. The UTF-8 BOM some editors
// prepend is stripped first.
func parseIndexField(field string) (int, bool) {
	field = strings.TrimPrefix(field, "\uFEFF")
	match := indexPattern.FindStringSubmatch(field)
	if match == nil {
		return 0, false
	}
	index, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, false
	}
	return index, true
}

// DuplicateIndices returns the sorted set of indices appearing more than
// once. Duplicates are warned about, not rejected: two workers on the same
// index may archive each other's in-flight files.
func DuplicateIndices(items []Item) []int {
	seen := make(map[int]int, len(items))
	for _, item := range items {
		seen[item.Index]++
	}
	var dups []int
	for index, count := range seen {
		if count > 1 {
			dups = append(dups, index)
		}
	}
	sort.Ints(dups)
	return dups
}
