// Copyright 2025 The SpectraFrame Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package store manages the on-device image cache.
//
// The cache holds at most one image, stored under the canonical name
// local_image with its original extension, plus the validation token of
// the last successful download. A cached image always wins over the
// network: the frame renders it without going online until it is removed.
package store

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// baseName is the canonical cached image name, extension excluded.
const baseName = "local_image"

// tokenFile holds the validation token of the last download.
const tokenFile = "etag"

// extensions is the fixed lookup order for the cached image.
var extensions = []string{".bmp", ".jpg", ".jpeg", ".png"}

// preferredNames are tried on an imported card before scanning for any
// image, giving predictable priority when a card holds several.
var preferredNames = []string{
	"image.jpg", "image.jpeg", "image.png", "image.bmp",
	"IMAGE.JPG", "IMAGE.JPEG", "IMAGE.PNG", "IMAGE.BMP",
}

// Store is a directory-backed image cache.
type Store struct {
	dir    string
	logger *log.Logger
}

// New returns a Store rooted at dir, creating it if needed.
func New(dir string, logger *log.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Store{dir: dir, logger: logger}, nil
}

// CachedPath returns the path of the cached image, trying each supported
// extension in order. ok is false when the cache is empty.
func (s *Store) CachedPath() (path string, ok bool) {
	for _, ext := range extensions {
		p := filepath.Join(s.dir, baseName+ext)
		if fi, err := os.Stat(p); err == nil && !fi.IsDir() {
			return p, true
		}
	}
	return "", false
}

// OpenCached opens the cached image for streamed decoding. It returns
// os.ErrNotExist when the cache is empty.
func (s *Store) OpenCached() (io.ReadCloser, error) {
	p, ok := s.CachedPath()
	if !ok {
		return nil, os.ErrNotExist
	}
	s.logger.Printf("store: using cached image %s", p)
	return os.Open(p)
}

// Token returns the stored validation token, or "" when none is stored.
func (s *Store) Token() string {
	data, err := os.ReadFile(filepath.Join(s.dir, tokenFile))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// SetToken persists the validation token for the next wake cycle.
func (s *Store) SetToken(token string) error {
	return os.WriteFile(filepath.Join(s.dir, tokenFile), []byte(token), 0o644)
}

// removeStale deletes every cached image variant before an import so the
// extension lookup cannot resolve to an old file.
func (s *Store) removeStale() {
	for _, ext := range extensions {
		p := filepath.Join(s.dir, baseName+ext)
		if err := os.Remove(p); err == nil {
			s.logger.Printf("store: removed stale %s", p)
		}
	}
}

// isImageName reports whether name carries a supported image extension.
func isImageName(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// findImport picks the image to import from srcDir: preferred names first,
// then the first image found scanning the directory.
func (s *Store) findImport(srcDir string) (string, error) {
	for _, name := range preferredNames {
		p := filepath.Join(srcDir, name)
		if fi, err := os.Stat(p); err == nil && !fi.IsDir() {
			s.logger.Printf("store: found preferred file %s", p)
			return p, nil
		}
	}
	entries, err := os.ReadDir(srcDir)
	if err != nil {
		return "", err
	}
	for _, e := range entries {
		if !e.IsDir() && isImageName(e.Name()) {
			p := filepath.Join(srcDir, e.Name())
			s.logger.Printf("store: found by scan %s", p)
			return p, nil
		}
	}
	return "", fmt.Errorf("store: no image file in %s", srcDir)
}

// Import copies an image from a mounted card directory into the cache,
// replacing any previous cached image. The copy is verified by size.
func (s *Store) Import(srcDir string) error {
	src, err := s.findImport(srcDir)
	if err != nil {
		return err
	}

	s.removeStale()

	dst := filepath.Join(s.dir, baseName+strings.ToLower(filepath.Ext(src)))
	n, err := copyFile(src, dst)
	if err != nil {
		return fmt.Errorf("store: importing %s: %w", src, err)
	}

	fi, err := os.Stat(src)
	if err != nil {
		return err
	}
	if n != fi.Size() {
		return fmt.Errorf("store: size mismatch after import: copied %d of %d bytes", n, fi.Size())
	}
	s.logger.Printf("store: imported %s -> %s (%d bytes)", src, dst, n)
	return nil
}

func copyFile(src, dst string) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return 0, err
	}
	n, err := io.Copy(out, in)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	return n, err
}
