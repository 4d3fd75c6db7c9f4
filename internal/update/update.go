// Package update replaces the running executable with the newest GitHub
// release asset.
package update

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
)

// Updater checks one repository's latest release for one asset.
type Updater struct {
	// APIURL is the "latest release" endpoint.
	APIURL string
	// Asset is the release asset name, matched case-insensitively.
	Asset string
	// Current is the running version; "" and "dev" never update.
	Current string
	Client  *http.Client
}

// New returns an Updater for github.com/<repo>.
func New(repo, asset, current string) *Updater {
	return &Updater{
		APIURL:  "https://api.github.com/repos/" + repo + "/releases/latest",
		Asset:   asset,
		Current: current,
		Client:  http.DefaultClient,
	}
}

type ghRelease struct {
	TagName string    `json:"tag_name"`
	Assets  []ghAsset `json:"assets"`
}

type ghAsset struct {
	Name               string `json:"name"`
	BrowserDownloadURL string `json:"browser_download_url"`
}

// Run checks, downloads and stages an update next to exe. Failures are
// logged; the app keeps running on the current version.
func (u *Updater) Run(ctx context.Context, exe string) {
	latestVer, url, err := u.Check(ctx)
	if err != nil {
		log.Printf("update: check failed: %v", err)
		return
	}
	if url == "" {
		log.Printf("update: none available (current=%s)", u.Current)
		return
	}
	log.Printf("update: v%s available", latestVer)
	tmpPath, err := u.Download(ctx, url, exe)
	if err != nil {
		log.Printf("update: download failed: %v", err)
		return
	}
	if err := Apply(exe, tmpPath); err != nil {
		log.Printf("update: apply failed: %v", err)
	}
}

// Check returns the latest version and its asset URL if it is newer than
// Current. An empty URL means up to date.
func (u *Updater) Check(ctx context.Context) (latestVer, downloadURL string, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.APIURL, nil)
	if err != nil {
		return "", "", err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := u.Client.Do(req)
	if err != nil {
		return "", "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("GitHub API returned %d", resp.StatusCode)
	}

	var rel ghRelease
	if err := json.NewDecoder(resp.Body).Decode(&rel); err != nil {
		return "", "", err
	}

	latestVer = strings.TrimPrefix(rel.TagName, "v")
	if !IsNewer(latestVer, u.Current) {
		return "", "", nil
	}
	for _, a := range rel.Assets {
		if strings.EqualFold(a.Name, u.Asset) {
			return latestVer, a.BrowserDownloadURL, nil
		}
	}
	return "", "", fmt.Errorf("no %s asset in release %s", u.Asset, rel.TagName)
}

// Download fetches url into exe+".tmp".
func (u *Updater) Download(ctx context.Context, url, exe string) (tmpPath string, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := u.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download returned %d", resp.StatusCode)
	}

	tmpPath = exe + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		_ = f.Close()
		_ = os.Remove(tmpPath)
		return "", err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return "", err
	}
	log.Printf("update: downloaded %s", tmpPath)
	return tmpPath, nil
}

// Apply moves exe aside to exe+".old" and puts tmpPath in its place. Windows
// allows renaming a running executable but not overwriting it. The new
// version takes effect on next launch.
func Apply(exe, tmpPath string) error {
	old := exe + ".old"
	if err := os.Rename(exe, old); err != nil {
		return fmt.Errorf("rename current to .old: %w", err)
	}
	if err := os.Rename(tmpPath, exe); err != nil {
		_ = os.Rename(old, exe)
		return fmt.Errorf("rename .tmp to exe: %w", err)
	}
	log.Printf("update: applied, new version ready on next launch")
	return nil
}

// CleanOld removes the .old file a previous Apply left behind.
func CleanOld(exe string) {
	old := exe + ".old"
	if err := os.Remove(old); err == nil {
		log.Printf("update: removed old binary %s", old)
	}
}

// IsNewer reports whether latest is a higher semver than current.
// Versions are "X.Y.Z" without a "v" prefix.
func IsNewer(latest, current string) bool {
	if current == "" || current == "dev" {
		return false
	}
	lp := parseSemver(latest)
	cp := parseSemver(current)
	if lp == nil || cp == nil {
		return false
	}
	for i := 0; i < 3; i++ {
		if lp[i] != cp[i] {
			return lp[i] > cp[i]
		}
	}
	return false
}

func parseSemver(s string) []int {
	parts := strings.SplitN(s, ".", 3)
	if len(parts) != 3 {
		return nil
	}
	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil
		}
		nums[i] = n
	}
	return nums
}
