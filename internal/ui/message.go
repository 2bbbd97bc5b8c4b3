package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/moodify/internal/models"
	"github.com/desertthunder/moodify/internal/seeds"
	"github.com/desertthunder/moodify/internal/stats"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgPanelLoaded MsgKind = iota
	MsgStatsDone
	MsgDefaultsLoaded
	MsgSearchDone
	MsgPlaylistCreated
	MsgButtonReset
)

// panelLoadedMsg is the constructor for [MsgPanelLoaded]
func panelLoadedMsg(p stats.Panel) Msg {
	return Msg{kind: MsgPanelLoaded, data: p}
}

// statsDoneMsg is the constructor for [MsgStatsDone]
func statsDoneMsg() Msg {
	return Msg{kind: MsgStatsDone}
}

type defaultsLoaded struct {
	items []models.SeedItem
	err   error
}

// defaultsLoadedMsg is the constructor for [MsgDefaultsLoaded]
func defaultsLoadedMsg(items []models.SeedItem, err error) Msg {
	return Msg{kind: MsgDefaultsLoaded, data: defaultsLoaded{items, err}}
}

type searchDone struct {
	results seeds.Results
	err     error
}

// searchDoneMsg is the constructor for [MsgSearchDone]
func searchDoneMsg(results seeds.Results, err error) Msg {
	return Msg{kind: MsgSearchDone, data: searchDone{results, err}}
}

// playlistCreatedMsg is the constructor for [MsgPlaylistCreated]
func playlistCreatedMsg(err error) Msg {
	return Msg{kind: MsgPlaylistCreated, data: err}
}

// buttonResetMsg is the constructor for [MsgButtonReset]
func buttonResetMsg() Msg {
	return Msg{kind: MsgButtonReset}
}
