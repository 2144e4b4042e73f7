// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides the reusable pieces of the loom terminal UI.

Every component follows the Bubble Tea shape used across the program:
a pointer type with Update(msg) returning itself and a tea.Cmd, and a
View() string. Dialogs report their outcome as messages rather than
touching program state.

# Key Types

  - LayoutBar: top line, "[Browser]  Connections "
  - StatusBar: bottom line with source, position and the newest toast
  - ToastManager: transient status, success and error messages
  - ExportDialog: path and attribute selection, emits ExportRequestMsg
  - ProfileExportDialog: checkbox list plus filename, writes a TOML file
  - ProfileImportDialog: file path, then checkbox list, emits ProfilesImportedMsg
  - Preview: chroma-highlighted JSON export in a viewport
  - Help: glamour-rendered key reference

# Messages

	StatusMsg{Text}           // show as a status toast
	ErrorMsg{Text}            // show as an error toast
	CloseDialogMsg{}          // the active dialog closed itself
	ExportRequestMsg{...}     // run an export
	ExportDoneMsg{...}        // result of an export command
	ProfilesImportedMsg{...}  // merge these profiles into the config
*/
package components
