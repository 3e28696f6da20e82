// Package version checks whether a newer release is published.
package version

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/metafates/gache"
	"github.com/vidscout/vidscout/filesystem"
	"github.com/vidscout/vidscout/network"
	"github.com/vidscout/vidscout/where"
)

const (
	releasesURL  = "https://api.github.com/repos/vidscout/vidscout/releases/latest"
	checkTimeout = 3 * time.Second
)

var latestCache = gache.New[string](&gache.Options{
	Path:       filepath.Join(where.Cache(), "version.json"),
	Lifetime:   48 * time.Hour,
	FileSystem: &filesystem.GacheFs{},
})

// Latest returns the newest released version without the v prefix. Answers
// are cached for two days.
func Latest() (string, error) {
	if cached, expired, err := latestCache.Get(); err == nil && !expired && cached != "" {
		return cached, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
	defer cancel()

	body, status, err := network.Do(ctx, network.Client, http.MethodGet, releasesURL, map[string]string{
		"Accept": "application/vnd.github+json",
	}, "")
	if err != nil {
		return "", err
	}
	if status != http.StatusOK {
		return "", fmt.Errorf("latest release: unexpected status %d", status)
	}

	var release struct {
		TagName string `json:"tag_name"`
	}
	if err := json.Unmarshal([]byte(body), &release); err != nil {
		return "", fmt.Errorf("latest release: %w", err)
	}

	latest := strings.TrimPrefix(release.TagName, "v")
	if latest == "" {
		return "", errors.New("latest release: empty tag name")
	}

	_ = latestCache.Set(latest)
	return latest, nil
}
