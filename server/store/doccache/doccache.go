// Copyright VuDL Contributors (https://github.com/vudl)
// SPDX-License-Identifier: Apache-2.0

// Package doccache keeps derived search documents on disk so an index can be
// rebuilt without walking the repository again.
package doccache

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"

	"github.com/spf13/afero"
	"github.com/vudl/hierarchy/utils/logging"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const groupDigits = 9

var logger = logging.Logger("store/doccache")

type Cache struct {
	fs   afero.Fs
	root string
}

// New creates a document cache rooted at root. An empty root disables the cache.
func New(fsys afero.Fs, root string) *Cache {
	return &Cache{fs: fsys, root: strings.TrimSuffix(root, "/")}
}

func (c *Cache) Enabled() bool {
	return c != nil && c.root != ""
}

// Path returns the file of pid: "vudl:123" maps to "<root>/vudl/000/000/123/123.json".
// It returns an empty path when the cache is disabled.
func (c *Cache) Path(pid string) (string, error) {
	if !c.Enabled() {
		return "", nil
	}

	namespace, number, ok := strings.Cut(pid, ":")
	if !ok || namespace == "" || number == "" || strings.ContainsAny(pid, `/\.`) {
		return "", status.Errorf(codes.InvalidArgument, "invalid pid for document cache: %q", pid)
	}

	padded := strings.Repeat("0", groupDigits) + number
	padded = padded[len(padded)-groupDigits:]

	return path.Join(c.root, namespace, padded[0:3], padded[3:6], padded[6:9], number+".json"), nil
}

// Write stores the document of pid. It is a no-op when the cache is disabled.
func (c *Cache) Write(pid string, data []byte) error {
	file, err := c.Path(pid)
	if err != nil || file == "" {
		return err
	}

	if err := c.fs.MkdirAll(path.Dir(file), 0o755); err != nil { //nolint:mnd
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	if err := afero.WriteFile(c.fs, file, data, 0o644); err != nil { //nolint:mnd
		return fmt.Errorf("failed to write cached document: %w", err)
	}

	logger.Debug("Cached document", "pid", pid, "path", file)

	return nil
}

// Read returns the cached document of pid, or nil when there is none.
func (c *Cache) Read(pid string) ([]byte, error) {
	file, err := c.Path(pid)
	if err != nil || file == "" {
		return nil, err
	}

	data, err := afero.ReadFile(c.fs, file)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read cached document: %w", err)
	}

	return data, nil
}

// Purge removes the document of pid if it exists.
func (c *Cache) Purge(pid string) error {
	file, err := c.Path(pid)
	if err != nil || file == "" {
		return err
	}

	exists, err := afero.Exists(c.fs, file)
	if err != nil || !exists {
		return err
	}

	if err := c.fs.Remove(file); err != nil {
		return fmt.Errorf("failed to purge cached document: %w", err)
	}

	return nil
}

// List returns the paths of every cached document in lexical order, or nil when
// the cache is disabled.
func (c *Cache) List() ([]string, error) {
	if !c.Enabled() {
		return nil, nil
	}

	var files []string

	err := afero.Walk(c.fs, c.root, func(file string, info fs.FileInfo, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}

			return err
		}

		if !info.IsDir() && strings.EqualFold(path.Ext(file), ".json") {
			files = append(files, file)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list cached documents: %w", err)
	}

	slices.Sort(files)

	return files, nil
}
