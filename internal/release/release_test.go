package release

import (
	"archive/tar"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"

	"voicepack/internal/logging"
	"voicepack/internal/services"
	"voicepack/internal/testsupport"
)

func writeArtifact(t *testing.T, dir, name, content string) string {
	t.Helper()
	return testsupport.WriteFile(t, filepath.Join(dir, name), []byte(content))
}

const (
	hashA = "0123456789abcdef0123456789abcdef"
	hashB = "fedcba9876543210fedcba9876543210"
)

func TestCollectSortsByIndex(t *testing.T) {
	dir := t.TempDir()
	writeArtifact(t, dir, "10-"+hashA+".ogg", "ten")
	writeArtifact(t, dir, "2-"+hashB+".ogg", "two")
	writeArtifact(t, dir, "notes.txt", "ignored")
	writeArtifact(t, dir, "plain.ogg", "ignored, no hash")
	writeArtifact(t, dir, "3-deadbeef.ogg", "ignored, short hash")

	entries, err := Collect(dir)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	if entries[0].Index != 2 || entries[1].Index != 10 {
		t.Fatalf("order = [%d %d], want [2 10]", entries[0].Index, entries[1].Index)
	}
}

func TestCollectRejectsDuplicateIndex(t *testing.T) {
	dir := t.TempDir()
	writeArtifact(t, dir, "5-"+hashA+".ogg", "a")
	writeArtifact(t, dir, "5-"+hashB+".ogg", "b")

	_, err := Collect(dir)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("err = %v, want validation error", err)
	}
	if !strings.Contains(err.Error(), "duplicate index 5") {
		t.Fatalf("err = %v, want duplicate index detail", err)
	}
}

func TestRunBuildsArchiveWithHashFreeNames(t *testing.T) {
	dir := t.TempDir()
	writeArtifact(t, dir, "0-"+hashA+".ogg", "zero audio")
	writeArtifact(t, dir, "12-"+hashB+".ogg", "twelve audio")

	archivePath := filepath.Join(t.TempDir(), "voice_pack.tar.gz")
	p := NewPackager(dir, archivePath, "", "", logging.NewNop())
	info, err := p.Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	names, contents := readArchive(t, archivePath)
	if len(names) != 2 || names[0] != "0.ogg" || names[1] != "12.ogg" {
		t.Fatalf("entry names = %v", names)
	}
	if contents["0.ogg"] != "zero audio" || contents["12.ogg"] != "twelve audio" {
		t.Fatalf("entry contents = %v", contents)
	}

	stat, err := os.Stat(archivePath)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size != stat.Size() {
		t.Fatalf("size = %d, want %d", info.Size, stat.Size())
	}

	raw, err := os.ReadFile(archivePath)
	if err != nil {
		t.Fatal(err)
	}
	sum := md5.Sum(raw)
	if info.MD5 != hex.EncodeToString(sum[:]) {
		t.Fatalf("md5 = %s, want %s", info.MD5, hex.EncodeToString(sum[:]))
	}
}

func TestRunFailsOnEmptyOutputDir(t *testing.T) {
	p := NewPackager(t.TempDir(), filepath.Join(t.TempDir(), "out.tar.gz"), "", "", logging.NewNop())
	_, err := p.Run()
	if !errors.Is(err, ErrNoArtifacts) {
		t.Fatalf("err = %v, want ErrNoArtifacts", err)
	}
}

func TestUpdateReadmeRewritesKnownPatterns(t *testing.T) {
	dir := t.TempDir()
	writeArtifact(t, dir, "0-"+hashA+".ogg", "audio")

	readme := filepath.Join(t.TempDir(), "README.md")
	original := strings.Join([]string{
		"# Voice pack",
		"",
		"MD5 sum of the prepackaged `voice_pack.tar.gz`:",
		"`aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa`",
		"",
		"- URL: `https://example.com/old.tar.gz`",
		"- Hash: `bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb`",
		"- File size: `123` bytes",
		"",
	}, "\n")
	if err := os.WriteFile(readme, []byte(original), 0o644); err != nil {
		t.Fatal(err)
	}

	archivePath := filepath.Join(t.TempDir(), "voice_pack.tar.gz")
	p := NewPackager(dir, archivePath, readme, "https://example.com/new.tar.gz", logging.NewNop())
	info, err := p.Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	updated, err := os.ReadFile(readme)
	if err != nil {
		t.Fatal(err)
	}
	text := string(updated)
	if !strings.Contains(text, "`"+info.MD5+"`") {
		t.Fatalf("readme missing new checksum:\n%s", text)
	}
	if strings.Contains(text, "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa") || strings.Contains(text, "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb") {
		t.Fatalf("readme still carries old checksums:\n%s", text)
	}
	if !strings.Contains(text, "- File size: `"+strconv.FormatInt(info.Size, 10)+"` bytes") {
		t.Fatalf("readme missing new size:\n%s", text)
	}
	if !strings.Contains(text, "- URL: `https://example.com/new.tar.gz`") {
		t.Fatalf("readme missing new url:\n%s", text)
	}
}

func TestUpdateReadmeMissingPatternsWarnOnly(t *testing.T) {
	dir := t.TempDir()
	writeArtifact(t, dir, "0-"+hashA+".ogg", "audio")

	readme := filepath.Join(t.TempDir(), "README.md")
	if err := os.WriteFile(readme, []byte("nothing to see here\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	archivePath := filepath.Join(t.TempDir(), "voice_pack.tar.gz")
	p := NewPackager(dir, archivePath, readme, "https://example.com/pack.tar.gz", logging.NewNop())
	if _, err := p.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	updated, err := os.ReadFile(readme)
	if err != nil {
		t.Fatal(err)
	}
	if string(updated) != "nothing to see here\n" {
		t.Fatalf("readme should be untouched, got:\n%s", updated)
	}
}

func TestUpdateReadmeMissingFileIsSkipped(t *testing.T) {
	dir := t.TempDir()
	writeArtifact(t, dir, "0-"+hashA+".ogg", "audio")

	archivePath := filepath.Join(t.TempDir(), "voice_pack.tar.gz")
	readme := filepath.Join(t.TempDir(), "absent", "README.md")
	p := NewPackager(dir, archivePath, readme, "", logging.NewNop())
	if _, err := p.Run(); err != nil {
		t.Fatalf("Run should tolerate a missing readme: %v", err)
	}
}

func readArchive(t *testing.T, path string) ([]string, map[string]string) {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		t.Fatal(err)
	}
	defer gz.Close()

	var names []string
	contents := make(map[string]string)
	tr := tar.NewReader(gz)
	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
		data, err := io.ReadAll(tr)
		if err != nil {
			t.Fatal(err)
		}
		names = append(names, header.Name)
		contents[header.Name] = string(data)
	}
	return names, contents
}

