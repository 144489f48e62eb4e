package ui

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestMenuWraps(t *testing.T) {
	m := NewMenu("Pick", []MenuItem{{"a", "a"}, {"b", "b"}, {"c", "c"}})
	m.moveUp()
	assert.Equal(t, 2, m.Selected)
	m.moveDown()
	assert.Equal(t, 0, m.Selected)
	m.moveDown()
	assert.Equal(t, 1, m.Selected)
}

func TestMenuCenterText(t *testing.T) {
	m := NewMenu("Pick", nil)
	got := m.centerText("► Full screen", m.Width)
	assert.Equal(t, m.Width-4, utf8.RuneCountInString(got))
	assert.Equal(t, m.Width, utf8.RuneCountInString(m.border("╔", "╗")))
}
