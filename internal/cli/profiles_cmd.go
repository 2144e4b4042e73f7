// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jeranaias/loom/internal/config"
	"github.com/jeranaias/loom/internal/util"
)

func (a *app) profilesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profiles",
		Short: "List, export and import connection profiles",
		Long: `Manage connection profiles.

Profile files are TOML documents with one [[profiles]] table per profile,
the same shape as the profiles section of config.toml. Passwords are never
written.

Subcommands:
  list    - List configured profiles
  export  - Write profiles to a file
  import  - Merge profiles from a file into the config`,
	}
	cmd.AddCommand(a.profilesListCmd(), a.profilesExportCmd(), a.profilesImportCmd())
	return cmd
}

func (a *app) profilesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List configured profiles",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			active, hasActive := a.cfg.ActiveProfile()

			if a.jsonOut {
				rows := make([]ProfileData, len(a.cfg.Profiles))
				for i, p := range a.cfg.Profiles {
					rows[i] = ProfileData{
						Name: p.Name, URL: p.URL(), Security: p.Security, BaseDN: p.BaseDN,
						BindDN: p.BindDN, Default: hasActive && p.Name == active.Name,
					}
				}
				return NewJSONResponse(cmd.CommandPath(), rows).Write(out)
			}

			if len(a.cfg.Profiles) == 0 {
				fmt.Fprintln(out, DimStyle.Render("No profiles configured. Import some with: loom profiles import FILE"))
				return nil
			}
			nameW, urlW := len("NAME"), len("URL")
			for _, p := range a.cfg.Profiles {
				nameW = max(nameW, util.StringWidth(p.Name))
				urlW = max(urlW, util.StringWidth(p.URL()))
			}
			header := fmt.Sprintf("  %s  %s  %s", util.PadRight("NAME", nameW), util.PadRight("URL", urlW), "BASE DN")
			fmt.Fprintln(out, HeaderStyle.Render(header))
			fmt.Fprintln(out, RenderSeparator(min(terminalWidth(out), util.StringWidth(header)+20)))
			for _, p := range a.cfg.Profiles {
				mark := " "
				if hasActive && p.Name == active.Name {
					mark = "*"
				}
				fmt.Fprintf(out, "%s %s  %s  %s\n", mark, util.PadRight(p.Name, nameW),
					util.PadRight(p.URL(), urlW), ValueStyle.Render(p.BaseDN))
			}
			return nil
		},
	}
}

// selectProfiles returns the named profiles in the order given, or all of
// from when names is empty.
func selectProfiles(from []config.Profile, names []string) ([]config.Profile, error) {
	if len(names) == 0 {
		return from, nil
	}
	out := make([]config.Profile, 0, len(names))
	for _, name := range names {
		found := false
		for _, p := range from {
			if p.Name == name {
				out = append(out, p)
				found = true
				break
			}
		}
		if !found {
			return nil, &NotFoundError{Resource: "profile", ID: name}
		}
	}
	return out, nil
}

func (a *app) profilesExportCmd() *cobra.Command {
	var names []string
	cmd := &cobra.Command{
		Use:   "export [FILE]",
		Short: "Write profiles to a TOML file",
		Long: `Write configured profiles to FILE (default profiles.toml).

Examples:
  loom profiles export
  loom profiles export team.toml --name corp,lab`,
		Args: usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "profiles.toml"
			if len(args) == 1 {
				path = util.ExpandTilde(args[0])
			}
			if len(a.cfg.Profiles) == 0 {
				return &CommandError{Command: "profiles export", Reason: "no profiles configured"}
			}
			selected, err := selectProfiles(a.cfg.Profiles, names)
			if err != nil {
				return err
			}
			content, err := config.ExportProfiles(selected)
			if err != nil {
				return err
			}
			if err := util.AtomicWriteFile(path, []byte(content), 0600); err != nil {
				return &CommandError{Command: "profiles export", Reason: "cannot write " + path, Err: err}
			}
			fmt.Fprintln(cmd.OutOrStdout(), SuccessStyle.Render(fmt.Sprintf("Exported %d profile(s) to %s", len(selected), path)))
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&names, "name", nil, "profiles to export (default: all)")
	return cmd
}

func (a *app) profilesImportCmd() *cobra.Command {
	var names []string
	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Merge profiles from a TOML file into the config",
		Long: `Read profiles from FILE and add them to the config. A profile with the
same name as an existing one replaces it.

Examples:
  loom profiles import team.toml
  loom profiles import team.toml --name lab`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := util.ExpandTilde(args[0])
			data, err := os.ReadFile(path)
			if err != nil {
				if os.IsNotExist(err) {
					return &NotFoundError{Resource: "file", ID: path}
				}
				return &CommandError{Command: "profiles import", Reason: "cannot read " + path, Err: err}
			}
			parsed, err := config.ImportProfiles(string(data))
			if err != nil {
				return &CommandError{Command: "profiles import", Reason: path, Err: err}
			}
			selected, err := selectProfiles(parsed, names)
			if err != nil {
				return err
			}

			cfg := a.cfg.Clone()
			merged, added, replaced := config.MergeProfiles(cfg.Profiles, selected)
			cfg.Profiles = merged
			if err := a.saveConfig(cfg); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), SuccessStyle.Render(fmt.Sprintf(
				"Imported %d profile(s) (%d new, %d replaced)", len(selected), added, replaced)))
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&names, "name", nil, "profiles to import (default: all)")
	return cmd
}
