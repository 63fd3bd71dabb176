// Copyright 2026 The Pacsub Authors
// SPDX-License-Identifier: Apache-2.0

package staging

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fxamacker/cbor/v2"
)

// manifestName is the sidecar holding recorded digests. The leading
// dot keeps it out of List.
const manifestName = ".manifest"

// manifestRecord is one recorded upload.
type manifestRecord struct {
	Digest   string    `cbor:"digest"`
	Size     int64     `cbor:"size"`
	Recorded time.Time `cbor:"recorded"`
}

func (s *Store) manifestPath() string {
	return filepath.Join(s.dir, manifestName)
}

// readManifest loads the sidecar; a missing file is an empty
// manifest.
func (s *Store) readManifest() (map[string]manifestRecord, error) {
	data, err := os.ReadFile(s.manifestPath())
	if os.IsNotExist(err) {
		return map[string]manifestRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading staging manifest: %w", err)
	}
	manifest := map[string]manifestRecord{}
	if err := cbor.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("decoding staging manifest: %w", err)
	}
	return manifest, nil
}

// writeManifest replaces the sidecar atomically, removing it outright
// when the manifest is empty.
func (s *Store) writeManifest(manifest map[string]manifestRecord) error {
	if len(manifest) == 0 {
		err := os.Remove(s.manifestPath())
		if err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing staging manifest: %w", err)
		}
		return nil
	}

	data, err := cbor.Marshal(manifest)
	if err != nil {
		return fmt.Errorf("encoding staging manifest: %w", err)
	}
	temp, err := os.CreateTemp(s.dir, ".manifest-*")
	if err != nil {
		return fmt.Errorf("writing staging manifest: %w", err)
	}
	tempPath := temp.Name()

	_, writeErr := temp.Write(data)
	if closeErr := temp.Close(); writeErr == nil {
		writeErr = closeErr
	}
	if writeErr == nil {
		writeErr = os.Rename(tempPath, s.manifestPath())
	}
	if writeErr != nil {
		os.Remove(tempPath)
		return fmt.Errorf("writing staging manifest: %w", writeErr)
	}
	return nil
}

// Forget drops a file's manifest record without touching the file.
// Used when a staged file leaves the staging area by other means, such
// as being published into a repository.
func (s *Store) Forget(name string) error {
	if err := ValidateFileName(name); err != nil {
		return err
	}
	return s.dropRecord(name)
}

// dropRecord removes one name from the manifest if present.
func (s *Store) dropRecord(name string) error {
	manifest, err := s.readManifest()
	if err != nil {
		return err
	}
	if _, ok := manifest[name]; !ok {
		return nil
	}
	delete(manifest, name)
	return s.writeManifest(manifest)
}
