// Copyright 2026 The Pacsub Authors
// SPDX-License-Identifier: Apache-2.0

package staging

import (
	"archive/tar"
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// PackageInfo is the .PKGINFO metadata carried by a package tarball.
type PackageInfo struct {
	Name         string
	Version      string
	Description  string
	Architecture string
	Packager     string

	// InstalledSize is the unpacked size in bytes, when declared.
	InstalledSize int64
}

// Inspect opens a staged package tarball, picks the decompressor from
// the file extension, and returns the .PKGINFO metadata. The archive
// is streamed; nothing is unpacked to disk.
func (s *Store) Inspect(name string) (*PackageInfo, error) {
	path, err := s.Path(name)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("no staged file %q", name)
		}
		return nil, fmt.Errorf("opening staged file %q: %w", name, err)
	}
	defer file.Close()

	reader, closeReader, err := decompressor(name, file)
	if err != nil {
		return nil, err
	}
	defer closeReader()

	archive := tar.NewReader(reader)
	for {
		header, err := archive.Next()
		if err == io.EOF {
			return nil, fmt.Errorf("package %q carries no .PKGINFO", name)
		}
		if err != nil {
			return nil, fmt.Errorf("reading package %q: %w", name, err)
		}
		if header.Name == ".PKGINFO" {
			info, err := parsePackageInfo(archive)
			if err != nil {
				return nil, fmt.Errorf("reading package %q: %w", name, err)
			}
			return info, nil
		}
	}
}

// decompressor returns a reader over the decompressed archive, chosen
// by file extension.
func decompressor(name string, file io.Reader) (io.Reader, func(), error) {
	switch {
	case strings.HasSuffix(name, ".pkg.tar.zst"):
		decoder, err := zstd.NewReader(file)
		if err != nil {
			return nil, nil, fmt.Errorf("opening zstd stream: %w", err)
		}
		return decoder, decoder.Close, nil
	case strings.HasSuffix(name, ".pkg.tar.gz"):
		reader, err := gzip.NewReader(file)
		if err != nil {
			return nil, nil, fmt.Errorf("opening gzip stream: %w", err)
		}
		return reader, func() { reader.Close() }, nil
	case strings.HasSuffix(name, ".pkg.tar.lz4"):
		return lz4.NewReader(file), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("%q is not a recognized package tarball", name)
	}
}

// parsePackageInfo reads "key = value" lines; unknown keys and
// comments are skipped.
func parsePackageInfo(r io.Reader) (*PackageInfo, error) {
	info := &PackageInfo{}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		switch key {
		case "pkgname":
			info.Name = value
		case "pkgver":
			info.Version = value
		case "pkgdesc":
			info.Description = value
		case "arch":
			info.Architecture = value
		case "packager":
			info.Packager = value
		case "size":
			fmt.Sscanf(value, "%d", &info.InstalledSize)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if info.Name == "" {
		return nil, fmt.Errorf(".PKGINFO declares no pkgname")
	}
	return info, nil
}
