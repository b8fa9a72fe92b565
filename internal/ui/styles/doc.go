// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the colours and lipgloss styles of the TUI.

All colours are lipgloss AdaptiveColor values. NewTheme picks the light or
dark half from the terminal background, or from the configured mode:

	theme := styles.NewTheme(cfg.UI.Theme)
	header := theme.Header.Render("ProSkillify")

Status lines carry an ASCII marker next to the colour so they stay
readable without colour:

	fmt.Println(styles.RenderError("login failed"))
*/
package styles
