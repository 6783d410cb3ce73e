package connector

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conn-castle/engagectl/internal/faults"
)

type fakeSystem struct {
	installed  []string
	latest     string
	latestErr  error
	installErr error
	loadErr    error

	installedCalls int
	installCalls   []string
	loadedVersion  string
}

func (f *fakeSystem) InstalledVersions() ([]string, error) {
	f.installedCalls++
	return f.installed, nil
}

func (f *fakeSystem) LatestVersion(context.Context) (string, error) {
	if f.latestErr != nil {
		return "", f.latestErr
	}
	return f.latest, nil
}

func (f *fakeSystem) Install(_ context.Context, ver string) error {
	if f.installErr != nil {
		return f.installErr
	}
	f.installCalls = append(f.installCalls, ver)
	f.installed = append(f.installed, ver)
	return nil
}

func (f *fakeSystem) Load(ver string) (Connector, error) {
	if f.loadErr != nil {
		return Connector{}, f.loadErr
	}
	f.loadedVersion = ver
	return Connector{Version: ver, Path: "/fake/" + ver + "/" + Name}, nil
}

func ensureWith(t *testing.T, sys *fakeSystem, mutate func(*Options)) (Connector, string, string, error) {
	t.Helper()
	var warn, verbose bytes.Buffer
	opts := Options{System: sys, WarnWriter: &warn, VerboseWriter: &verbose}
	if mutate != nil {
		mutate(&opts)
	}
	conn, err := Ensure(context.Background(), opts)
	return conn, warn.String(), verbose.String(), err
}

func TestEnsureMissingWithoutAutoInstallFails(t *testing.T) {
	sys := &fakeSystem{latest: "2.4.0"}
	_, _, _, err := ensureWith(t, sys, nil)
	require.Error(t, err)
	assert.True(t, faults.IsResourceUnavailable(err))
	assert.Contains(t, err.Error(), "--auto-install")
	assert.Empty(t, sys.installCalls)
}

func TestEnsureMissingWithAutoInstallInstallsLatest(t *testing.T) {
	sys := &fakeSystem{latest: "2.4.0"}
	conn, _, verbose, err := ensureWith(t, sys, func(o *Options) { o.AutoInstall = true })
	require.NoError(t, err)
	assert.Equal(t, []string{"2.4.0"}, sys.installCalls)
	assert.Equal(t, "2.4.0", conn.Version)
	assert.Contains(t, verbose, "Installed connector 2.4.0")
}

func TestEnsureMissingWithAutoInstallFallsBackToMinimum(t *testing.T) {
	sys := &fakeSystem{latestErr: errors.New("repository offline")}
	conn, _, verbose, err := ensureWith(t, sys, func(o *Options) { o.AutoInstall = true })
	require.NoError(t, err)
	assert.Equal(t, []string{MinVersion}, sys.installCalls)
	assert.Equal(t, MinVersion, conn.Version)
	assert.Contains(t, verbose, "repository offline")
}

func TestEnsureSelectsHighestInstalled(t *testing.T) {
	sys := &fakeSystem{installed: []string{"2.1.0", "2.4.0", "2.3.2"}, latest: "2.4.0"}
	conn, warn, _, err := ensureWith(t, sys, nil)
	require.NoError(t, err)
	assert.Equal(t, "2.4.0", conn.Version)
	assert.Empty(t, warn)
}

func TestEnsureNewerAvailableWithoutAutoUpdateWarns(t *testing.T) {
	sys := &fakeSystem{installed: []string{"2.3.0"}, latest: "2.5.0"}
	conn, warn, _, err := ensureWith(t, sys, nil)
	require.NoError(t, err)
	assert.Equal(t, "2.3.0", conn.Version)
	assert.Empty(t, sys.installCalls)
	assert.Contains(t, warn, "update available: 2.5.0")
}

func TestEnsureNewerAvailableWithAutoUpdateInstalls(t *testing.T) {
	sys := &fakeSystem{installed: []string{"2.3.0"}, latest: "2.5.0"}
	conn, warn, _, err := ensureWith(t, sys, func(o *Options) { o.AutoUpdate = true })
	require.NoError(t, err)
	assert.Equal(t, []string{"2.5.0"}, sys.installCalls)
	assert.Equal(t, "2.5.0", conn.Version)
	assert.Empty(t, warn)
}

func TestEnsureRepositoryFailureSuppressesUpdatePath(t *testing.T) {
	sys := &fakeSystem{installed: []string{"2.3.0"}, latestErr: errors.New("repository offline")}
	conn, warn, verbose, err := ensureWith(t, sys, func(o *Options) { o.AutoUpdate = true })
	require.NoError(t, err)
	assert.Equal(t, "2.3.0", conn.Version)
	assert.Empty(t, sys.installCalls)
	assert.Contains(t, verbose, "repository offline")
	assert.NotContains(t, warn, "update available")
}

func TestEnsureBelowRecommendedWarns(t *testing.T) {
	sys := &fakeSystem{installed: []string{"2.2.0"}, latest: "2.2.0"}
	conn, warn, _, err := ensureWith(t, sys, nil)
	require.NoError(t, err)
	assert.Equal(t, "2.2.0", conn.Version)
	assert.Contains(t, warn, "recommended version "+RecommendedVersion)
}

func TestEnsureBelowMinimumLoadsWithWarning(t *testing.T) {
	sys := &fakeSystem{installed: []string{"2.0.0"}, latest: "2.0.0"}
	conn, warn, _, err := ensureWith(t, sys, func(o *Options) { o.MinVersion = "2.1.0" })
	require.NoError(t, err)
	assert.Equal(t, "2.0.0", conn.Version)
	assert.Equal(t, "2.0.0", sys.loadedVersion)
	assert.Contains(t, warn, "below the requested minimum 2.1.0")
}

func TestEnsureLoadFailureIsFatal(t *testing.T) {
	sys := &fakeSystem{installed: []string{"2.4.0"}, latest: "2.4.0", loadErr: errors.New("corrupt artifact")}
	_, _, _, err := ensureWith(t, sys, nil)
	require.Error(t, err)
	assert.True(t, faults.IsResourceUnavailable(err))
	assert.Contains(t, err.Error(), "corrupt artifact")
}

func TestEnsureInstallFailureIsFatal(t *testing.T) {
	sys := &fakeSystem{latest: "2.4.0", installErr: errors.New("disk full")}
	_, _, _, err := ensureWith(t, sys, func(o *Options) { o.AutoInstall = true })
	require.Error(t, err)
	assert.True(t, faults.IsResourceUnavailable(err))
}
