package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/sift/internal/models"
)

var (
	_ list.Item = swipeItem{}
)

// swipeItem wraps [models.SwipeRecord] to implement [list.Item].
type swipeItem struct {
	record *models.SwipeRecord
}

func (i swipeItem) FilterValue() string { return i.record.Title() }
func (i swipeItem) Title() string {
	verdict := "✓"
	if !i.record.Liked() {
		verdict = "✗"
	}
	return fmt.Sprintf("%s %s", verdict, i.record.Title())
}
func (i swipeItem) Description() string {
	desc := i.record.Artist()
	if i.record.Album() != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.record.Album())
	}
	return desc
}
