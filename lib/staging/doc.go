// Copyright 2026 The Pacsub Authors
// SPDX-License-Identifier: Apache-2.0

// Package staging manages a user's uploaded files before they are
// added to a repository. A Store wraps one uploads directory: it
// enumerates staged files, computes BLAKE3 content digests, records
// them in a CBOR manifest sidecar, and inspects package tarballs
// (.pkg.tar.zst, .pkg.tar.gz, .pkg.tar.lz4) to surface the .PKGINFO
// metadata without unpacking anything to disk.
package staging
