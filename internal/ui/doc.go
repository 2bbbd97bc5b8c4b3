// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI has two views:
//  1. [DashboardView] : profile, the 15 and 3 track trendlines, and top tracks per term
//  2. [BuilderView] : seed search, the selection, audio feature sliders, and the create button
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// It is the only owner of application state: the selection, the search results, and the slider targets change in Update only.
// Statistics panels flow through a channel from the [stats.Loader] and are applied in completion order.
//
// Keyboard navigation uses vim-style bindings (j/k, h/l, enter, tab, esc, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
