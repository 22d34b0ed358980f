/*
Copyright © 2021 the CGFDM3D authors.
This file is part of terrain.

terrain is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

terrain is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with terrain.  If not, see <http://www.gnu.org/licenses/>.
*/

package terrain

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path/filepath"
	"strings"

	"gocloud.dev/blob"
	"gocloud.dev/blob/fileblob"
	"gocloud.dev/gcerrors"

	// URL openers for the supported storage providers.
	_ "gocloud.dev/blob/gcsblob"
	_ "gocloud.dev/blob/memblob"
	_ "gocloud.dev/blob/s3blob"
)

// TileStore is the location the simulator wrote its tiles to.
type TileStore struct {
	bucket *blob.Bucket
}

// NewTileStore wraps an already open bucket.
func NewTileStore(b *blob.Bucket) *TileStore {
	return &TileStore{bucket: b}
}

// IsBlob returns whether the given location represents a blob bucket
// (i.e., if it starts with 'gs://', 's3://', 'file://' or 'mem://').
func IsBlob(path string) bool {
	for _, p := range []string{"gs://", "s3://", "file://", "mem://"} {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// OpenTileStore opens the simulator output location out, which is either
// a local directory or a bucket URL in the format 'provider://name/path'.
// For the "gs" (Google Cloud Storage) and "s3" (AWS S3) providers, path is
// used as a key prefix within bucket name. For the "file" provider the
// whole URL path is the directory.
func OpenTileStore(ctx context.Context, out string) (*TileStore, error) {
	if !IsBlob(out) {
		dir, err := filepath.Abs(out)
		if err != nil {
			return nil, fmt.Errorf("terrain: opening tile directory: %w", err)
		}
		b, err := fileblob.OpenBucket(dir, nil)
		if err != nil {
			return nil, fmt.Errorf("terrain: opening tile directory: %w", err)
		}
		return NewTileStore(b), nil
	}
	u, err := url.Parse(out)
	if err != nil {
		return nil, fmt.Errorf("terrain: parsing tile location: %w", err)
	}
	switch u.Scheme {
	case "gs", "s3":
		bucketURL := u.Scheme + "://" + u.Host
		if u.RawQuery != "" {
			bucketURL += "?" + u.RawQuery
		}
		b, err := blob.OpenBucket(ctx, bucketURL)
		if err != nil {
			return nil, fmt.Errorf("terrain: opening tile bucket: %w", err)
		}
		if prefix := strings.Trim(u.Path, "/"); prefix != "" {
			b = blob.PrefixedBucket(b, prefix+"/")
		}
		return NewTileStore(b), nil
	default:
		b, err := blob.OpenBucket(ctx, out)
		if err != nil {
			return nil, fmt.Errorf("terrain: opening tile bucket: %w", err)
		}
		return NewTileStore(b), nil
	}
}

// ReadAll reads the whole blob stored at key.
func (s *TileStore) ReadAll(ctx context.Context, key string) ([]byte, error) {
	r, err := s.bucket.NewReader(ctx, key, nil)
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil, fmt.Errorf("%w: %s", ErrTileNotFound, key)
		}
		return nil, fmt.Errorf("terrain: opening tile %s: %w", key, err)
	}
	defer r.Close()
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("terrain: reading tile %s: %w", key, err)
	}
	return b, nil
}

// Close releases the underlying bucket.
func (s *TileStore) Close() error {
	return s.bucket.Close()
}
