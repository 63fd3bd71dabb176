// Copyright 2026 The Pacsub Authors
// SPDX-License-Identifier: Apache-2.0

package staging

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/zeebo/blake3"
)

// Store wraps one user's uploads directory.
type Store struct {
	dir string
}

// NewStore returns a Store over the given uploads directory.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// File is one staged upload.
type File struct {
	// Name is the file name within the staging directory.
	Name string

	// Size is the file size in bytes.
	Size int64

	// Modified is the file modification time.
	Modified time.Time

	// Digest is the recorded BLAKE3 digest, empty when the file was
	// never recorded in the manifest.
	Digest string
}

// ValidateFileName rejects names that could escape the staging
// directory or collide with the manifest sidecar.
func ValidateFileName(name string) error {
	if name == "" {
		return fmt.Errorf("empty file name")
	}
	if strings.HasPrefix(name, ".") {
		return fmt.Errorf("file name %q may not start with a dot", name)
	}
	if name != filepath.Base(name) {
		return fmt.Errorf("file name %q may not contain path separators", name)
	}
	if strings.ContainsAny(name, " \t\n") {
		return fmt.Errorf("file name %q may not contain whitespace", name)
	}
	return nil
}

// Path returns the absolute path of a staged file after validating
// its name.
func (s *Store) Path(name string) (string, error) {
	if err := ValidateFileName(name); err != nil {
		return "", err
	}
	return filepath.Join(s.dir, name), nil
}

// List returns the staged files in sorted order, merged with any
// recorded manifest digests. A missing directory is an empty store.
func (s *Store) List() ([]File, error) {
	entries, err := os.ReadDir(s.dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading staging directory: %w", err)
	}
	manifest, err := s.readManifest()
	if err != nil {
		return nil, err
	}

	var files []File
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("reading staging directory: %w", err)
		}
		file := File{
			Name:     entry.Name(),
			Size:     info.Size(),
			Modified: info.ModTime(),
		}
		if record, ok := manifest[file.Name]; ok {
			file.Digest = record.Digest
		}
		files = append(files, file)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

// Stat returns one staged file, with its manifest digest when
// recorded.
func (s *Store) Stat(name string) (*File, error) {
	path, err := s.Path(name)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("no staged file %q", name)
	}
	if err != nil {
		return nil, fmt.Errorf("reading staged file %q: %w", name, err)
	}
	file := File{Name: name, Size: info.Size(), Modified: info.ModTime()}

	manifest, err := s.readManifest()
	if err != nil {
		return nil, err
	}
	if record, ok := manifest[name]; ok {
		file.Digest = record.Digest
	}
	return &file, nil
}

// Remove deletes a staged file and drops its manifest record.
func (s *Store) Remove(name string) error {
	path, err := s.Path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("no staged file %q", name)
		}
		return fmt.Errorf("removing staged file %q: %w", name, err)
	}
	return s.dropRecord(name)
}

// Digest streams the staged file through BLAKE3 and returns the hex
// digest.
func (s *Store) Digest(name string) (string, error) {
	path, err := s.Path(name)
	if err != nil {
		return "", err
	}
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening staged file %q: %w", name, err)
	}
	defer file.Close()

	hasher := blake3.New()
	if _, err := io.Copy(hasher, file); err != nil {
		return "", fmt.Errorf("digesting staged file %q: %w", name, err)
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// Record computes the file's digest and stores it in the manifest.
func (s *Store) Record(name string) (*File, error) {
	digest, err := s.Digest(name)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(filepath.Join(s.dir, name))
	if err != nil {
		return nil, fmt.Errorf("reading staged file %q: %w", name, err)
	}

	manifest, err := s.readManifest()
	if err != nil {
		return nil, err
	}
	manifest[name] = manifestRecord{
		Digest:   digest,
		Size:     info.Size(),
		Recorded: time.Now().UTC(),
	}
	if err := s.writeManifest(manifest); err != nil {
		return nil, err
	}
	return &File{Name: name, Size: info.Size(), Modified: info.ModTime(), Digest: digest}, nil
}
