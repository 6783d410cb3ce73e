package connector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/conn-castle/engagectl/internal/messages"
	"github.com/conn-castle/engagectl/internal/version"
)

var httpClient = &http.Client{Timeout: 10 * time.Second}

const userAgent = "engagectl"

// RealSystem keeps versioned connector copies under Dir and downloads release
// artifacts from Repository.
type RealSystem struct {
	// Dir is the install root; each version lives in its own subdirectory.
	Dir string
	// Repository is the release repository base URL.
	Repository string
	// Client overrides the default HTTP client when non-nil.
	Client *http.Client
}

// InstalledVersions lists the version subdirectories under Dir that contain a
// connector executable. A missing Dir means nothing is installed.
func (s RealSystem) InstalledVersions() ([]string, error) {
	entries, err := os.ReadDir(s.Dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	versions := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		normalized, err := version.Normalize(entry.Name())
		if err != nil {
			continue
		}
		if _, err := os.Stat(s.executablePath(normalized)); err != nil {
			continue
		}
		versions = append(versions, normalized)
	}
	return versions, nil
}

type latestReleaseResponse struct {
	Version string `json:"version"`
}

// LatestVersion queries the release repository for the newest published
// connector version.
func (s RealSystem) LatestVersion(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.Repository+"/latest.json", nil)
	if err != nil {
		return "", fmt.Errorf(messages.ConnectorCreateRequestFmt, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client().Do(req)
	if err != nil {
		return "", fmt.Errorf(messages.ConnectorFetchLatestErrFmt, err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf(messages.ConnectorLatestStatusFmt, resp.Status)
	}
	var payload latestReleaseResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf(messages.ConnectorDecodeLatestErrFmt, err)
	}
	return version.Normalize(payload.Version)
}

// Install downloads the artifact for ver and places it under Dir.
func (s RealSystem) Install(ctx context.Context, ver string) error {
	normalized, err := version.Normalize(ver)
	if err != nil {
		return err
	}
	artifact := fmt.Sprintf("%s/v%s/%s-%s-%s", s.Repository, normalized, Name, runtime.GOOS, runtime.GOARCH)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, artifact, nil)
	if err != nil {
		return fmt.Errorf(messages.ConnectorCreateRequestFmt, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client().Do(req)
	if err != nil {
		return fmt.Errorf(messages.ConnectorDownloadErrFmt, normalized, err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf(messages.ConnectorDownloadStatusFmt, normalized, resp.Status)
	}

	dest := s.executablePath(normalized)
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf(messages.ConnectorWriteArtifactFmt, err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(dest), Name+".tmp-*")
	if err != nil {
		return fmt.Errorf(messages.ConnectorWriteArtifactFmt, err)
	}
	tmpPath := tmp.Name()
	if _, err := io.Copy(tmp, resp.Body); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf(messages.ConnectorWriteArtifactFmt, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf(messages.ConnectorWriteArtifactFmt, err)
	}
	if err := os.Chmod(tmpPath, 0o755); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf(messages.ConnectorWriteArtifactFmt, err)
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf(messages.ConnectorWriteArtifactFmt, err)
	}
	return nil
}

// Load verifies the installed copy for ver exists and is executable.
func (s RealSystem) Load(ver string) (Connector, error) {
	path := s.executablePath(ver)
	info, err := os.Stat(path)
	if err != nil {
		return Connector{}, err
	}
	if info.Mode()&0o111 == 0 {
		return Connector{}, fmt.Errorf(messages.ConnectorNotExecutableFmt, ver, path)
	}
	return Connector{Version: ver, Path: path}, nil
}

func (s RealSystem) executablePath(ver string) string {
	return filepath.Join(s.Dir, ver, Name)
}

func (s RealSystem) client() *http.Client {
	if s.Client != nil {
		return s.Client
	}
	return httpClient
}
