// Copyright 2024 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cache

import "io"

// nopCloser adapts MemoryCache (which owns no resource worth releasing) to
// io.Closer so Open always returns something closeable.
type nopCloser struct{ PomCache }

func (nopCloser) Close() error { return nil }

// Open selects a PomCache backend the way a CLI entry point does: a
// workspace directory, when given, always wins and gets the persistent
// bbolt-backed backend. Without one, the cache falls back to in-memory,
// bounded to maxCacheStoreSize entries per store if positive, or unbounded
// if maxCacheStoreSize is zero — the absence of both inputs must not
// silently disable caching.
//
// The returned io.Closer must be closed to release the workspace's
// exclusive file lock; it is a no-op for the in-memory backend.
func Open(workspace string, maxCacheStoreSize int, opts ...Option) (PomCache, io.Closer, error) {
	if workspace != "" {
		bc, err := OpenBoltCache(workspace, opts...)
		if err != nil {
			return nil, nil, err
		}
		return bc, bc, nil
	}
	mc := NewBoundedMemoryCache(maxCacheStoreSize)
	return mc, nopCloser{mc}, nil
}
