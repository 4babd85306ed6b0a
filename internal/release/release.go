package release

import (
	"archive/tar"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/klauspost/compress/gzip"

	"voicepack/internal/logging"
	"voicepack/internal/services"
)

// ErrNoArtifacts reports an output directory with nothing to package.
var ErrNoArtifacts = errors.New("no compressed artifacts to package")

// namePattern matches hashed compressed artifacts such as "12-a0b1...ff.ogg".
var namePattern = regexp.MustCompile(`^(\d+)-([0-9a-fA-F]{32})\.ogg$`)

// README replacement patterns. Group 1 and 3 are the surrounding text kept
// verbatim; group 2 is the value being refreshed.
var (
	readmeMD5Block = regexp.MustCompile("(?i)(MD5 sum of the prepackaged\\s*`voice_pack\\.tar\\.gz`:\\s*\r?\n\\s*`)([0-9a-fA-F]{32})(`)")
	readmeHashLine = regexp.MustCompile("(?i)(-\\s*Hash:\\s*`)([0-9a-fA-F]{32})(`)")
	readmeSizeLine = regexp.MustCompile("(?i)(-\\s*File size:\\s*`)(\\d+)(`\\s*bytes)")
	readmeURLLine  = regexp.MustCompile("(?i)(-\\s*URL:\\s*`)([^`]+)(`)")
)

// Entry is one artifact selected for packaging.
type Entry struct {
	Index int
	Path  string
}

// Info describes a finished archive.
type Info struct {
	MD5  string
	Size int64
	URL  string
}

// HumanSize renders the archive size for display.
func (i Info) HumanSize() string {
	return humanize.Bytes(uint64(i.Size))
}

// Packager builds the voice pack archive and refreshes the README.
type Packager struct {
	outputDir   string
	archivePath string
	readmePath  string
	releaseURL  string
	logger      *slog.Logger
}

// NewPackager constructs a packager. readmePath and releaseURL may be empty,
// in which case the README update is skipped or leaves the URL untouched.
func NewPackager(outputDir, archivePath, readmePath, releaseURL string, logger *slog.Logger) *Packager {
	return &Packager{
		outputDir:   outputDir,
		archivePath: archivePath,
		readmePath:  readmePath,
		releaseURL:  releaseURL,
		logger:      logging.NewComponentLogger(logger, "release"),
	}
}

// Run packages the output directory and updates the README, returning the
// archive checksum and size.
func (p *Packager) Run() (Info, error) {
	entries, err := Collect(p.outputDir)
	if err != nil {
		return Info{}, err
	}
	if len(entries) == 0 {
		return Info{}, fmt.Errorf("%w: %s", ErrNoArtifacts, p.outputDir)
	}

	p.logger.Info("packaging artifacts",
		logging.Int("count", len(entries)),
		logging.String("archive", p.archivePath))
	if err := p.create(entries); err != nil {
		return Info{}, err
	}

	info, err := describe(p.archivePath)
	if err != nil {
		return Info{}, err
	}
	info.URL = p.releaseURL

	if p.readmePath != "" {
		if err := p.updateReadme(info); err != nil {
			return Info{}, err
		}
	}

	p.logger.Info("archive ready",
		logging.String("md5", info.MD5),
		logging.String("size", info.HumanSize()))
	return info, nil
}

// Collect scans dir for hashed compressed artifacts and returns them sorted
// by index. Two hashed files for the same index is a packaging error: the
// pack format has no room for both.
func Collect(dir string) ([]Entry, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.ogg"))
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "release", "scan", dir, err)
	}

	byIndex := make(map[int]string)
	for _, path := range matches {
		groups := namePattern.FindStringSubmatch(filepath.Base(path))
		if groups == nil {
			continue
		}
		index, err := strconv.Atoi(groups[1])
		if err != nil {
			continue
		}
		if prior, ok := byIndex[index]; ok {
			return nil, services.Wrap(services.ErrValidation, "release", "scan",
				fmt.Sprintf("duplicate index %d: %s and %s", index, filepath.Base(prior), filepath.Base(path)), nil)
		}
		byIndex[index] = path
	}

	entries := make([]Entry, 0, len(byIndex))
	for index, path := range byIndex {
		entries = append(entries, Entry{Index: index, Path: path})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Index < entries[j].Index })
	return entries, nil
}

// create writes the gzipped tarball. Entries are stored under their
// hash-free names so consumers address sounds purely by index.
func (p *Packager) create(entries []Entry) (err error) {
	if err := os.MkdirAll(filepath.Dir(p.archivePath), 0o755); err != nil {
		return services.Wrap(services.ErrConfiguration, "release", "create", "ensure archive dir", err)
	}

	out, err := os.Create(p.archivePath)
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "release", "create", p.archivePath, err)
	}
	defer func() {
		if closeErr := out.Close(); err == nil && closeErr != nil {
			err = closeErr
		}
	}()

	gz := gzip.NewWriter(out)
	tw := tar.NewWriter(gz)

	for _, entry := range entries {
		if addErr := addEntry(tw, entry); addErr != nil {
			return addErr
		}
	}

	if err := tw.Close(); err != nil {
		return services.Wrap(services.ErrExternalTool, "release", "create", "finalize tar", err)
	}
	if err := gz.Close(); err != nil {
		return services.Wrap(services.ErrExternalTool, "release", "create", "finalize gzip", err)
	}
	return nil
}

func addEntry(tw *tar.Writer, entry Entry) error {
	f, err := os.Open(entry.Path)
	if err != nil {
		return services.Wrap(services.ErrNotFound, "release", "add", entry.Path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return services.Wrap(services.ErrNotFound, "release", "add", entry.Path, err)
	}
	header, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return services.Wrap(services.ErrValidation, "release", "add", entry.Path, err)
	}
	header.Name = fmt.Sprintf("%d.ogg", entry.Index)

	if err := tw.WriteHeader(header); err != nil {
		return services.Wrap(services.ErrExternalTool, "release", "add", entry.Path, err)
	}
	if _, err := io.Copy(tw, f); err != nil {
		return services.Wrap(services.ErrExternalTool, "release", "add", entry.Path, err)
	}
	return nil
}

// describe computes the checksum and size of the finished archive.
func describe(path string) (Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return Info{}, services.Wrap(services.ErrNotFound, "release", "describe", path, err)
	}
	defer f.Close()

	h := md5.New()
	size, err := io.Copy(h, f)
	if err != nil {
		return Info{}, services.Wrap(services.ErrValidation, "release", "describe", path, err)
	}
	return Info{MD5: hex.EncodeToString(h.Sum(nil)), Size: size}, nil
}

// updateReadme refreshes the checksum, size and URL recorded in the README.
// Patterns that cannot be found produce warnings, not failures, so a
// restructured README never blocks a release.
func (p *Packager) updateReadme(info Info) error {
	original, err := os.ReadFile(p.readmePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			p.logger.Warn("readme not found, skipping update", logging.String("path", p.readmePath))
			return nil
		}
		return services.Wrap(services.ErrConfiguration, "release", "readme", p.readmePath, err)
	}

	text := string(original)
	text = p.replace(text, readmeMD5Block, info.MD5, "prepackaged checksum block")
	text = p.replace(text, readmeHashLine, info.MD5, "hash line")
	text = p.replace(text, readmeSizeLine, strconv.FormatInt(info.Size, 10), "file size line")
	if info.URL != "" {
		text = p.replace(text, readmeURLLine, info.URL, "url line")
	}

	if text == string(original) {
		p.logger.Info("readme unchanged", logging.String("path", p.readmePath))
		return nil
	}
	if err := os.WriteFile(p.readmePath, []byte(text), 0o644); err != nil {
		return services.Wrap(services.ErrConfiguration, "release", "readme", p.readmePath, err)
	}
	p.logger.Info("readme updated", logging.String("path", p.readmePath))
	return nil
}

func (p *Packager) replace(text string, re *regexp.Regexp, value, label string) string {
	if !re.MatchString(text) {
		p.logger.Warn("readme pattern not found", logging.String("pattern", label))
		return text
	}
	// Escape $ so a literal value never triggers template expansion.
	value = strings.ReplaceAll(value, "$", "$$")
	return re.ReplaceAllString(text, "${1}"+value+"${3}")
}
