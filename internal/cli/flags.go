// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/jeranaias/loom/internal/directory"
	"github.com/jeranaias/loom/internal/export"
)

// formatValue is a --format flag accepting the export format names.
type formatValue struct {
	format export.Format
}

var _ pflag.Value = (*formatValue)(nil)

func (v *formatValue) String() string {
	return strings.ToLower(v.format.String())
}

func (v *formatValue) Set(s string) error {
	f, ok := export.ParseFormat(s)
	if !ok {
		return fmt.Errorf("unknown format %q (want ldif, json, csv or xlsx)", s)
	}
	v.format = f
	return nil
}

func (v *formatValue) Type() string {
	return "format"
}

// scopeValue is a --scope flag: base, one or sub.
type scopeValue struct {
	scope directory.Scope
}

var _ pflag.Value = (*scopeValue)(nil)

func (v *scopeValue) String() string {
	switch v.scope {
	case directory.ScopeBase:
		return "base"
	case directory.ScopeOneLevel:
		return "one"
	default:
		return "sub"
	}
}

func (v *scopeValue) Set(s string) error {
	switch strings.ToLower(s) {
	case "base":
		v.scope = directory.ScopeBase
	case "one", "onelevel":
		v.scope = directory.ScopeOneLevel
	case "sub", "subtree":
		v.scope = directory.ScopeSubtree
	default:
		return fmt.Errorf("unknown scope %q (want base, one or sub)", s)
	}
	return nil
}

func (v *scopeValue) Type() string {
	return "scope"
}

// usageErrors wraps every flag parse failure so it maps to ExitUsageError.
func usageErrors(_ *cobra.Command, err error) error {
	return &UsageError{Err: err}
}

// usageArgs wraps a positional argument check the same way.
func usageArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return &UsageError{Err: err}
		}
		return nil
	}
}
