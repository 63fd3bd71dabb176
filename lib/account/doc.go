// Copyright 2026 The Pacsub Authors
// SPDX-License-Identifier: Apache-2.0

// Package account manages the per-user state on a pacsub host: the
// user directory layout (staged uploads and a GPG keyring directory
// under the users root), the shared authorized_keys file that maps SSH
// keys to pacsub subjects, and GPG trust material.
//
// All uploaders share one OS account; identity comes from the SSH key
// used to connect. Every authorized_keys entry pacsub writes carries a
// forced command ("pacsub --subject NAME shell") plus the usual
// lockdown options, so a connecting key can only ever reach the pacsub
// dispatcher under its registered subject. Keys are parsed and
// fingerprinted with golang.org/x/crypto/ssh; the file is rewritten
// atomically on every change.
//
// GPG keyrings are one directory per user, operated exclusively
// through the external gpg binary with --homedir. pacsub never parses
// OpenPGP data itself.
package account
