// Package cache persists small JSON documents, such as extractor HTTP
// responses, under the cache directory.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
	"github.com/vidscout/vidscout/filesystem"
	"github.com/vidscout/vidscout/where"
)

// TTL is how long an entry stays valid.
const TTL = 24 * time.Hour

func dir() string {
	path := filepath.Join(where.Cache(), "http")
	_ = filesystem.API().MkdirAll(path, os.ModePerm)
	return path
}

// Key derives a stable identifier from a request and its namespace.
func Key(request, namespace string) string {
	sanitized := strings.ToLower(strings.ReplaceAll(request, " ", "")) + namespace
	hash := sha256.Sum256([]byte(sanitized))
	return hex.EncodeToString(hash[:])
}

// Read decodes the entry into target if it exists and has not expired.
func Read(key string, target any) bool {
	path := filepath.Join(dir(), key)

	info, err := filesystem.API().Stat(path)
	if err != nil || time.Since(info.ModTime()) > TTL {
		return false
	}

	f, err := filesystem.API().Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	return json.NewDecoder(f).Decode(target) == nil
}

// Write stores data as JSON, swapping the file in atomically.
func Write(key string, data any) error {
	path := filepath.Join(dir(), key)
	tmpPath := path + ".tmp"

	f, err := filesystem.API().Create(tmpPath)
	if err != nil {
		return err
	}

	if err := json.NewEncoder(f).Encode(data); err != nil {
		f.Close()
		return err
	}
	f.Close()

	return filesystem.API().Rename(tmpPath, path)
}

// CollectGarbage removes expired entries. It returns how many were removed.
func CollectGarbage() int {
	var removed int
	_ = afero.Walk(filesystem.API(), dir(), func(path string, info fs.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return nil
		}
		if time.Since(info.ModTime()) > TTL && filesystem.API().Remove(path) == nil {
			removed++
		}
		return nil
	})
	return removed
}
