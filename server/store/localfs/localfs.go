// Copyright VuDL Contributors (https://github.com/vudl)
// SPDX-License-Identifier: Apache-2.0

package localfs

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	mh "github.com/multiformats/go-multihash"
	"github.com/spf13/afero"
	corev1 "github.com/vudl/hierarchy/api/core/v1"
	"github.com/vudl/hierarchy/server/store/localfs/config"
	"github.com/vudl/hierarchy/server/types"
	"github.com/vudl/hierarchy/utils/logging"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const thumbnailDatastream = "THUMBNAIL"

var logger = logging.Logger("store/localfs")

// thumbnailHashes lists the digests reported for thumbnails.
var thumbnailHashes = []uint64{mh.MD5, mh.SHA2_256}

// document is the on-disk payload of one object.
type document struct {
	corev1.ObjectData

	Extra *corev1.ExtraDetails `json:"extra,omitempty"`
}

// Store is a repository backed by a directory tree. Object "ns:123" lives in
// "<dir>/ns/123.json" and its optional thumbnail in "<dir>/ns/123/THUMBNAIL".
type Store struct {
	fs  afero.Fs
	dir string
}

func New(cfg config.Config) (*Store, error) {
	return NewWithFs(afero.NewOsFs(), cfg)
}

func NewWithFs(fsys afero.Fs, cfg config.Config) (*Store, error) {
	logger.Debug("Creating local repository", "config", cfg)

	if cfg.LocalDir == "" {
		return nil, errors.New("repository directory is required")
	}

	if err := fsys.MkdirAll(cfg.LocalDir, 0o755); err != nil { //nolint:mnd
		return nil, fmt.Errorf("failed to create repository directory: %w", err)
	}

	return &Store{fs: fsys, dir: cfg.LocalDir}, nil
}

func (s *Store) FetchObject(_ context.Context, pid string) (*corev1.ObjectData, error) {
	doc, err := s.read(pid)
	if err != nil {
		return nil, err
	}

	data := doc.ObjectData
	if data.Pid == "" {
		data.Pid = pid
	}

	return &data, nil
}

func (s *Store) FetchExtraDetails(_ context.Context, pid string) (*corev1.ExtraDetails, error) {
	doc, err := s.read(pid)
	if err != nil {
		return nil, err
	}

	details := &corev1.ExtraDetails{}
	if doc.Extra != nil {
		*details = *doc.Extra
	}

	hashes, err := s.thumbnailHashes(pid)
	if err != nil {
		return nil, err
	}

	details.ThumbnailHashes = append(details.ThumbnailHashes, hashes...)

	return details, nil
}

// Put writes the payload of an object, replacing any previous one.
func (s *Store) Put(_ context.Context, data *corev1.ObjectData, extra *corev1.ExtraDetails) error {
	objectPath, err := s.objectPath(data.GetPid())
	if err != nil {
		return err
	}

	raw, err := json.MarshalIndent(document{ObjectData: *data, Extra: extra}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode object: %w", err)
	}

	if err := s.fs.MkdirAll(path.Dir(objectPath), 0o755); err != nil { //nolint:mnd
		return fmt.Errorf("failed to create object directory: %w", err)
	}

	if err := afero.WriteFile(s.fs, objectPath, raw, 0o644); err != nil { //nolint:mnd
		return fmt.Errorf("failed to write object: %w", err)
	}

	return nil
}

// PutThumbnail stores the thumbnail datastream of an object.
func (s *Store) PutThumbnail(_ context.Context, pid string, content []byte) error {
	thumbPath, err := s.thumbnailPath(pid)
	if err != nil {
		return err
	}

	if err := s.fs.MkdirAll(path.Dir(thumbPath), 0o755); err != nil { //nolint:mnd
		return fmt.Errorf("failed to create datastream directory: %w", err)
	}

	if err := afero.WriteFile(s.fs, thumbPath, content, 0o644); err != nil { //nolint:mnd
		return fmt.Errorf("failed to write thumbnail: %w", err)
	}

	return nil
}

func (s *Store) read(pid string) (*document, error) {
	objectPath, err := s.objectPath(pid)
	if err != nil {
		return nil, err
	}

	raw, err := afero.ReadFile(s.fs, objectPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, types.NotFoundError(pid)
		}

		return nil, types.UpstreamError("failed to read %s: %v", pid, err)
	}

	doc := &document{}
	if err := json.Unmarshal(raw, doc); err != nil {
		return nil, types.UpstreamError("failed to decode %s: %v", pid, err)
	}

	return doc, nil
}

func (s *Store) thumbnailHashes(pid string) ([]string, error) {
	thumbPath, err := s.thumbnailPath(pid)
	if err != nil {
		return nil, err
	}

	content, err := afero.ReadFile(s.fs, thumbPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}

		return nil, types.UpstreamError("failed to read thumbnail of %s: %v", pid, err)
	}

	hashes := make([]string, 0, len(thumbnailHashes))
	for _, code := range thumbnailHashes {
		sum, err := mh.Sum(content, code, -1)
		if err != nil {
			return nil, fmt.Errorf("failed to hash thumbnail: %w", err)
		}

		decoded, err := mh.Decode(sum)
		if err != nil {
			return nil, fmt.Errorf("failed to decode thumbnail hash: %w", err)
		}

		hashes = append(hashes, fmt.Sprintf("urn:%s:%s", decoded.Name, hex.EncodeToString(decoded.Digest)))
	}

	return hashes, nil
}

func (s *Store) objectPath(pid string) (string, error) {
	base, err := s.pidPath(pid)
	if err != nil {
		return "", err
	}

	return base + ".json", nil
}

func (s *Store) thumbnailPath(pid string) (string, error) {
	base, err := s.pidPath(pid)
	if err != nil {
		return "", err
	}

	return path.Join(base, thumbnailDatastream), nil
}

func (s *Store) pidPath(pid string) (string, error) {
	if pid == "" || strings.Contains(pid, "..") || strings.ContainsAny(pid, `/\`) {
		return "", status.Errorf(codes.InvalidArgument, "invalid pid: %q", pid)
	}

	return path.Join(s.dir, strings.ReplaceAll(pid, ":", "/")), nil
}
