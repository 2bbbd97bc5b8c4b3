package ui

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/moodify/internal/models"
)

var (
	_ list.Item = seedItem{}
)

// seedItem wraps [models.SeedItem] to implement [list.Item].
type seedItem struct {
	item models.SeedItem
}

func (i seedItem) FilterValue() string { return i.item.Name }
func (i seedItem) Title() string       { return i.item.Name }
func (i seedItem) Description() string {
	if i.item.Kind == models.KindTrack && i.item.Extra != "" {
		return "track • " + i.item.Extra
	}
	return string(i.item.Kind)
}

func newResultsList(width, height int) list.Model {
	l := list.New(nil, list.NewDefaultDelegate(), width, height)
	l.Title = "Search results"
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	return l
}

// resultItems lists artists first, then tracks.
func resultItems(artists, tracks []models.SeedItem) []list.Item {
	items := make([]list.Item, 0, len(artists)+len(tracks))
	for _, a := range artists {
		items = append(items, seedItem{item: a})
	}
	for _, t := range tracks {
		items = append(items, seedItem{item: t})
	}
	return items
}
