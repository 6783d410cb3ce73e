// Package connector ensures the policy service connector is installed, at a
// compatible version, and loadable before any remote call is attempted.
package connector

import (
	"context"
	"fmt"
	"io"

	"github.com/conn-castle/engagectl/internal/faults"
	"github.com/conn-castle/engagectl/internal/messages"
	"github.com/conn-castle/engagectl/internal/version"
)

// Name is the connector executable name.
const Name = "engage-connector"

// MinVersion is the oldest connector engagectl is tested against. A downlevel
// copy is still loaded, with a warning.
const MinVersion = "2.1.0"

// RecommendedVersion is the support floor recommended by the service team,
// independent of MinVersion.
const RecommendedVersion = "2.3.0"

// Connector is a loaded, ready-to-use connector copy.
type Connector struct {
	Version string
	Path    string
}

// System abstracts the side effects of inspecting, installing, and loading
// connector copies so tests can run against fakes.
type System interface {
	// InstalledVersions lists the locally installed connector versions.
	InstalledVersions() ([]string, error)
	// LatestVersion queries the release repository for the newest version.
	LatestVersion(ctx context.Context) (string, error)
	// Install downloads and installs the given version.
	Install(ctx context.Context, ver string) error
	// Load verifies the given installed version is usable and returns it.
	Load(ver string) (Connector, error)
}

// Options controls Ensure.
type Options struct {
	MinVersion  string
	AutoInstall bool
	AutoUpdate  bool
	System      System
	// WarnWriter receives non-fatal warnings; VerboseWriter receives
	// best-effort diagnostics. Either may be nil.
	WarnWriter    io.Writer
	VerboseWriter io.Writer
}

// Ensure makes sure a connector copy is installed and loadable, installing or
// updating it when permitted. Version problems below the fatal bar are
// reported as warnings and the run proceeds.
func Ensure(ctx context.Context, opts Options) (Connector, error) {
	warn := writerOrDiscard(opts.WarnWriter)
	verbose := writerOrDiscard(opts.VerboseWriter)
	minVersion := opts.MinVersion
	if minVersion == "" {
		minVersion = MinVersion
	}

	installedList, err := opts.System.InstalledVersions()
	if err != nil {
		return Connector{}, faults.Wrap(faults.KindResourceUnavailable, "connector_inspect_failed", err, "inspect installed connectors")
	}
	installed := version.Highest(installedList)

	// A failed repository query only suppresses the update path.
	latest, latestErr := opts.System.LatestVersion(ctx)
	if latestErr != nil {
		fprintf(verbose, messages.ConnectorVerboseLatestFailedFmt, latestErr)
		latest = ""
	}

	if installed == "" {
		if !opts.AutoInstall {
			return Connector{}, faults.New(faults.KindResourceUnavailable, "connector_missing", messages.ConnectorMissingFmt, Name)
		}
		target := latest
		if target == "" {
			target = minVersion
		}
		if err := opts.System.Install(ctx, target); err != nil {
			return Connector{}, faults.Wrap(faults.KindResourceUnavailable, "connector_install_failed", err, "install connector %s", target)
		}
		fprintf(verbose, messages.ConnectorVerboseInstalledFmt, target)
		installed = target
	} else if latest != "" {
		if cmp, err := version.Compare(latest, installed); err == nil && cmp > 0 {
			if opts.AutoUpdate {
				if err := opts.System.Install(ctx, latest); err != nil {
					return Connector{}, faults.Wrap(faults.KindResourceUnavailable, "connector_update_failed", err, "install connector %s", latest)
				}
				fprintf(verbose, messages.ConnectorVerboseInstalledFmt, latest)
				installed = latest
			} else {
				fprintf(warn, messages.ConnectorWarnUpdateAvailableFmt, latest, installed)
			}
		}
	}

	if cmp, err := version.Compare(installed, RecommendedVersion); err == nil && cmp < 0 {
		fprintf(warn, messages.ConnectorWarnBelowRecommendFmt, installed, RecommendedVersion)
	}
	if cmp, err := version.Compare(installed, minVersion); err == nil && cmp < 0 {
		fprintf(warn, messages.ConnectorWarnBelowMinimumFmt, installed, minVersion)
	}

	conn, err := opts.System.Load(installed)
	if err != nil {
		return Connector{}, faults.Wrap(faults.KindResourceUnavailable, "connector_load_failed", err, "load connector %s", installed)
	}
	return conn, nil
}

func writerOrDiscard(w io.Writer) io.Writer {
	if w == nil {
		return io.Discard
	}
	return w
}

func fprintf(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
