// Copyright 2026 The Pacsub Authors
// SPDX-License-Identifier: Apache-2.0

package staging

import (
	"archive/tar"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(t.TempDir())
}

func stageFile(t *testing.T, s *Store, name string, content []byte) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(s.dir, name), content, 0o644); err != nil {
		t.Fatalf("staging %s: %v", name, err)
	}
}

func TestValidateFileName(t *testing.T) {
	for _, name := range []string{"pkg-1.0-1-x86_64.pkg.tar.zst", "notes.txt"} {
		if err := ValidateFileName(name); err != nil {
			t.Errorf("ValidateFileName(%q) = %v, want nil", name, err)
		}
	}
	for _, name := range []string{"", ".manifest", "..", "a/b", "../escape", "a b"} {
		if ValidateFileName(name) == nil {
			t.Errorf("ValidateFileName(%q) = nil, want error", name)
		}
	}
}

func TestList_SkipsManifestAndSorts(t *testing.T) {
	s := newStore(t)
	stageFile(t, s, "beta.txt", []byte("b"))
	stageFile(t, s, "alpha.txt", []byte("a"))
	stageFile(t, s, ".manifest", []byte("not a real manifest"))

	files, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(files) != 2 || files[0].Name != "alpha.txt" || files[1].Name != "beta.txt" {
		t.Fatalf("List = %v", files)
	}
	if files[0].Size != 1 {
		t.Errorf("Size = %d, want 1", files[0].Size)
	}
}

func TestList_MissingDirectoryIsEmpty(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "absent"))
	files, err := s.List()
	if err != nil || files != nil {
		t.Fatalf("List = %v, %v; want nil, nil", files, err)
	}
}

func TestDigest_StableAndContentSensitive(t *testing.T) {
	s := newStore(t)
	stageFile(t, s, "one.txt", []byte("payload"))
	stageFile(t, s, "two.txt", []byte("payload"))
	stageFile(t, s, "other.txt", []byte("different"))

	first, err := s.Digest("one.txt")
	if err != nil {
		t.Fatalf("Digest: %v", err)
	}
	if len(first) != 64 {
		t.Errorf("digest length = %d, want 64 hex chars", len(first))
	}
	second, err := s.Digest("two.txt")
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Error("identical content produced different digests")
	}
	other, err := s.Digest("other.txt")
	if err != nil {
		t.Fatal(err)
	}
	if other == first {
		t.Error("different content produced identical digests")
	}
}

func TestRecord_RoundTrip(t *testing.T) {
	s := newStore(t)
	stageFile(t, s, "pkg.txt", []byte("payload"))

	recorded, err := s.Record("pkg.txt")
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if recorded.Digest == "" || recorded.Size != int64(len("payload")) {
		t.Fatalf("Record = %+v", recorded)
	}

	// A fresh Store over the same directory sees the persisted record.
	stat, err := NewStore(s.dir).Stat("pkg.txt")
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if stat.Digest != recorded.Digest {
		t.Errorf("Stat digest = %q, want %q", stat.Digest, recorded.Digest)
	}

	files, err := s.List()
	if err != nil || len(files) != 1 {
		t.Fatalf("List = %v, %v", files, err)
	}
	if files[0].Digest != recorded.Digest {
		t.Errorf("List digest = %q, want %q", files[0].Digest, recorded.Digest)
	}
}

func TestRemove_DropsManifestRecord(t *testing.T) {
	s := newStore(t)
	stageFile(t, s, "pkg.txt", []byte("payload"))
	if _, err := s.Record("pkg.txt"); err != nil {
		t.Fatal(err)
	}

	if err := s.Remove("pkg.txt"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := s.Remove("pkg.txt"); err == nil {
		t.Fatal("removing an absent file should fail")
	}
	if _, err := os.Stat(s.manifestPath()); !os.IsNotExist(err) {
		t.Error("empty manifest sidecar should be removed")
	}
}

// buildPackage assembles a minimal package tarball with the given
// compressor wrapped around the tar stream.
func buildPackage(t *testing.T, pkginfo string, compress func(io.Writer) io.WriteCloser) []byte {
	t.Helper()
	var buffer bytes.Buffer
	compressor := compress(&buffer)
	archive := tar.NewWriter(compressor)

	files := []struct {
		name    string
		content string
	}{
		{".PKGINFO", pkginfo},
		{"usr/bin/tool", "#!/bin/sh\n"},
	}
	for _, file := range files {
		header := &tar.Header{
			Name: file.name,
			Mode: 0o644,
			Size: int64(len(file.content)),
		}
		if err := archive.WriteHeader(header); err != nil {
			t.Fatalf("writing tar header: %v", err)
		}
		if _, err := archive.Write([]byte(file.content)); err != nil {
			t.Fatalf("writing tar entry: %v", err)
		}
	}
	if err := archive.Close(); err != nil {
		t.Fatalf("closing tar: %v", err)
	}
	if err := compressor.Close(); err != nil {
		t.Fatalf("closing compressor: %v", err)
	}
	return buffer.Bytes()
}

const testPKGINFO = `# Generated by makepkg
pkgname = vim
pkgver = 9.1.0-2
pkgdesc = Vi Improved
arch = x86_64
packager = Alice Example <alice@example.org>
size = 40960
`

func TestInspect_AllCompressions(t *testing.T) {
	cases := []struct {
		name     string
		file     string
		compress func(io.Writer) io.WriteCloser
	}{
		{"zstd", "vim-9.1.0-2-x86_64.pkg.tar.zst", func(w io.Writer) io.WriteCloser {
			encoder, err := zstd.NewWriter(w)
			if err != nil {
				t.Fatalf("zstd writer: %v", err)
			}
			return encoder
		}},
		{"gzip", "vim-9.1.0-2-x86_64.pkg.tar.gz", func(w io.Writer) io.WriteCloser {
			return gzip.NewWriter(w)
		}},
		{"lz4", "vim-9.1.0-2-x86_64.pkg.tar.lz4", func(w io.Writer) io.WriteCloser {
			return lz4.NewWriter(w)
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := newStore(t)
			stageFile(t, s, tc.file, buildPackage(t, testPKGINFO, tc.compress))

			info, err := s.Inspect(tc.file)
			if err != nil {
				t.Fatalf("Inspect: %v", err)
			}
			if info.Name != "vim" || info.Version != "9.1.0-2" {
				t.Errorf("info = %+v", info)
			}
			if info.Architecture != "x86_64" {
				t.Errorf("Architecture = %q", info.Architecture)
			}
			if info.Packager != "Alice Example <alice@example.org>" {
				t.Errorf("Packager = %q", info.Packager)
			}
			if info.InstalledSize != 40960 {
				t.Errorf("InstalledSize = %d", info.InstalledSize)
			}
		})
	}
}

func TestInspect_Errors(t *testing.T) {
	s := newStore(t)
	stageFile(t, s, "readme.txt", []byte("hello"))
	if _, err := s.Inspect("readme.txt"); err == nil {
		t.Error("unrecognized extension should fail")
	}
	if _, err := s.Inspect("missing.pkg.tar.gz"); err == nil {
		t.Error("missing file should fail")
	}

	noInfo := buildPackage(t, "", func(w io.Writer) io.WriteCloser { return gzip.NewWriter(w) })

	// Strip the .PKGINFO entry by rebuilding without it.
	var buffer bytes.Buffer
	compressor := gzip.NewWriter(&buffer)
	archive := tar.NewWriter(compressor)
	header := &tar.Header{Name: "usr/bin/tool", Mode: 0o644, Size: 3}
	if err := archive.WriteHeader(header); err != nil {
		t.Fatal(err)
	}
	if _, err := archive.Write([]byte("abc")); err != nil {
		t.Fatal(err)
	}
	archive.Close()
	compressor.Close()

	stageFile(t, s, "bare.pkg.tar.gz", buffer.Bytes())
	if _, err := s.Inspect("bare.pkg.tar.gz"); err == nil {
		t.Error("tarball without .PKGINFO should fail")
	}

	stageFile(t, s, "empty-info.pkg.tar.gz", noInfo)
	if _, err := s.Inspect("empty-info.pkg.tar.gz"); err == nil {
		t.Error(".PKGINFO without pkgname should fail")
	}
}
