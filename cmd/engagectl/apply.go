package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/conn-castle/engagectl/internal/config"
	"github.com/conn-castle/engagectl/internal/connector"
	"github.com/conn-castle/engagectl/internal/engage"
	"github.com/conn-castle/engagectl/internal/messages"
	"github.com/conn-castle/engagectl/internal/policy"
)

// loadConfigFunc and ensureConnectorFunc are seams for tests.
var loadConfigFunc = config.Load
var ensureConnectorFunc = connector.Ensure

func newApplyCmd() *cobra.Command {
	var (
		mode          string
		assistant     bool
		summarization bool
		everyone      bool
		groups        []string
		users         []string
		prefix        string
		optInDefault  bool
		autoInstall   bool
		autoUpdate    bool
		yes           bool
		dryRun        bool
		verbose       bool
		configPath    string
	)

	cmd := &cobra.Command{
		Use:   messages.ApplyUse,
		Short: messages.ApplyShort,
		Long:  messages.ApplyLong,
		RunE: func(cmd *cobra.Command, args []string) error {
			runMode, err := parseMode(mode)
			if err != nil {
				return err
			}

			path := configPath
			if path == "" {
				path, err = config.DefaultPath()
				if err != nil {
					return err
				}
			}
			cfg, err := loadConfigFunc(path)
			if err != nil {
				return err
			}

			warnWriter := warningWriter(cmd.ErrOrStderr())
			verboseWriter := io.Discard
			if verbose {
				verboseWriter = cmd.ErrOrStderr()
			}

			var optIn *bool
			if cmd.Flags().Changed("opt-in-default") {
				value := optInDefault
				optIn = &value
			}

			system := connector.RealSystem{Dir: cfg.ConnectorDir, Repository: cfg.ConnectorRepository}
			orchestrator := &policy.Orchestrator{
				EnsureConnector: func(ctx context.Context) (connector.Connector, error) {
					return ensureConnectorFunc(ctx, connector.Options{
						AutoInstall:   autoInstall,
						AutoUpdate:    autoUpdate,
						System:        system,
						WarnWriter:    warnWriter,
						VerboseWriter: verboseWriter,
					})
				},
				NewAPI: func(conn connector.Connector) (policy.API, error) {
					var tokens engage.TokenSource
					if cfg.Token != "" {
						tokens = engage.StaticToken(cfg.Token)
					} else {
						tokens = connector.TokenSource{Connector: conn, Tenant: cfg.Tenant}
					}
					return engage.NewClient(engage.Config{
						BaseURL: cfg.ServiceURL,
						Tenant:  cfg.Tenant,
						Tokens:  tokens,
					})
				},
				Tenant:  cfg.Tenant,
				Warn:    warnWriter,
				Verbose: verboseWriter,
			}

			var confirm policy.ConfirmFunc
			if !yes {
				confirm = newConfirmFunc(cmd.InOrStdin(), cmd.OutOrStdout())
			}

			summaries, err := orchestrator.Run(cmd.Context(), policy.RunOptions{
				Mode:           runMode,
				Assistant:      assistant,
				Summarization:  summarization,
				Prefix:         prefix,
				Scope:          policy.Scope{Everyone: everyone, GroupIDs: groups, UserIDs: users},
				OptInByDefault: optIn,
				DryRun:         dryRun,
				Confirm:        confirm,
			})
			if errors.Is(err, policy.ErrAborted) {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), messages.ApplyAborted)
				return nil
			}
			if err != nil {
				return err
			}
			printSummaries(cmd.OutOrStdout(), summaries, dryRun)
			return nil
		},
	}

	cmd.Flags().StringVar(&mode, "mode", string(policy.ModeDisable), messages.ApplyFlagMode)
	cmd.Flags().BoolVar(&assistant, "assistant", false, messages.ApplyFlagAssistant)
	cmd.Flags().BoolVar(&summarization, "summarization", false, messages.ApplyFlagSummarization)
	cmd.Flags().BoolVar(&everyone, "everyone", false, messages.ApplyFlagEveryone)
	cmd.Flags().StringSliceVar(&groups, "group", nil, messages.ApplyFlagGroups)
	cmd.Flags().StringSliceVar(&users, "user", nil, messages.ApplyFlagUsers)
	cmd.Flags().StringVar(&prefix, "prefix", "Engage", messages.ApplyFlagPrefix)
	cmd.Flags().BoolVar(&optInDefault, "opt-in-default", false, messages.ApplyFlagOptInDefault)
	cmd.Flags().BoolVar(&autoInstall, "auto-install", false, messages.ApplyFlagAutoInstall)
	cmd.Flags().BoolVar(&autoUpdate, "auto-update", false, messages.ApplyFlagAutoUpdate)
	cmd.Flags().BoolVar(&yes, "yes", false, messages.ApplyFlagYes)
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, messages.ApplyFlagDryRun)
	cmd.Flags().BoolVar(&verbose, "verbose", false, messages.ApplyFlagVerbose)
	cmd.Flags().StringVar(&configPath, "config", "", messages.ApplyFlagConfig)
	return cmd
}

// parseMode validates the --mode flag.
func parseMode(mode string) (policy.Mode, error) {
	switch policy.Mode(mode) {
	case policy.ModeEnable:
		return policy.ModeEnable, nil
	case policy.ModeDisable:
		return policy.ModeDisable, nil
	}
	return "", fmt.Errorf(messages.ApplyInvalidModeFmt, mode)
}

// printSummaries writes the per-policy outcome report.
func printSummaries(out io.Writer, summaries []policy.Summary, dryRun bool) {
	if dryRun {
		_, _ = fmt.Fprintln(out, messages.ApplyDryRunHeader)
		for _, s := range summaries {
			if s.Preview != "" {
				_, _ = fmt.Fprint(out, s.Preview)
			}
		}
		return
	}
	if len(summaries) == 0 {
		_, _ = fmt.Fprintln(out, messages.ApplyNoChanges)
		return
	}
	for _, s := range summaries {
		_, _ = fmt.Fprintf(out, messages.ApplySummaryLineFmt, s.Name, s.FeatureID, s.Enabled, s.Access, s.PolicyID)
		if s.OptInByDefault != nil {
			_, _ = fmt.Fprintf(out, messages.ApplySummaryOptInFmt, *s.OptInByDefault)
		}
	}
}

// warningWriter tints warning output yellow.
func warningWriter(w io.Writer) io.Writer {
	return &colorWriter{color: color.New(color.FgYellow), w: w}
}

type colorWriter struct {
	color *color.Color
	w     io.Writer
}

func (c *colorWriter) Write(p []byte) (int, error) {
	if _, err := c.color.Fprint(c.w, string(p)); err != nil {
		return 0, err
	}
	return len(p), nil
}
