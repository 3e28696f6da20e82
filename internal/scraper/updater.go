package scraper

import (
	"context"
	"crypto/sha256"
	"fmt"
	"net/http"
	"time"

	"github.com/vidscout/vidscout/filesystem"
	"github.com/vidscout/vidscout/network"
)

const updateTimeout = 10 * time.Second

// Update downloads remoteURL and swaps it in at localPath when the content
// differs. The script must compile before it replaces the old one.
// It reports whether the file changed.
func Update(ctx context.Context, client *http.Client, remoteURL, localPath string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, updateTimeout)
	defer cancel()

	body, status, err := network.Do(ctx, client, http.MethodGet, remoteURL, nil, "")
	if err != nil {
		return false, err
	}

	if status != http.StatusOK {
		return false, fmt.Errorf("fetch %s: unexpected status %d", remoteURL, status)
	}

	remote := []byte(body)
	if local, err := filesystem.API().ReadFile(localPath); err == nil && sha256.Sum256(local) == sha256.Sum256(remote) {
		return false, nil
	}

	if _, err := Compile(remote, remoteURL); err != nil {
		return false, fmt.Errorf("compile %s: %w", remoteURL, err)
	}

	tmpPath := localPath + ".tmp"
	if err := filesystem.API().WriteFile(tmpPath, remote, 0644); err != nil {
		return false, err
	}

	if err := filesystem.API().Rename(tmpPath, localPath); err != nil {
		_ = filesystem.API().Remove(tmpPath)
		return false, err
	}

	return true, nil
}
