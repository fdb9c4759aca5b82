package main

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/wasm-memory/errors"
	"github.com/wippyai/wasm-memory/memory"
	"github.com/wippyai/wasm-memory/runtime"
	"github.com/wippyai/wasm-memory/view"
)

func newTestModel(t *testing.T, opts ...memory.Option) (*tuiModel, *memory.Linear) {
	t.Helper()
	lin, err := memory.New(1, opts...)
	require.NoError(t, err)
	m := newTUIModel(&session{mem: runtime.NewMemory(lin), file: "test"}, 4)
	return m, lin
}

func press(m *tuiModel, keys ...string) {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		case "right":
			msg = tea.KeyMsg{Type: tea.KeyRight}
		case "pgdown":
			msg = tea.KeyMsg{Type: tea.KeyPgDown}
		case "pgup":
			msg = tea.KeyMsg{Type: tea.KeyPgUp}
		case "ctrl+u":
			msg = tea.KeyMsg{Type: tea.KeyCtrlU}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		m.Update(msg)
	}
}

func TestTUI_SwitchKindKeepsByteAddress(t *testing.T) {
	m, _ := newTestModel(t)

	press(m, "right", "right", "right", "right")
	assert.Equal(t, 4, m.cursor)

	press(m, "5")
	assert.Equal(t, view.Uint32, m.kind)
	assert.Equal(t, 1, m.cursor)
	assert.Equal(t, view.Uint32, m.acc.Kind())

	press(m, "1")
	assert.Equal(t, view.Uint8, m.kind)
	assert.Equal(t, 4, m.cursor)
}

func TestTUI_Navigation(t *testing.T) {
	m, lin := newTestModel(t)

	press(m, "down")
	assert.Equal(t, 16, m.cursor)

	press(m, "up", "up")
	assert.Equal(t, 0, m.cursor, "cursor stays inside the view")

	press(m, "pgdown")
	assert.Equal(t, 64, m.cursor)
	assert.Equal(t, 64, m.top)

	press(m, "pgup")
	assert.Equal(t, 0, m.cursor)
	assert.Equal(t, 0, m.top)

	press(m, "end")
	assert.Equal(t, int(lin.Size())-1, m.cursor)
	assert.LessOrEqual(t, m.top, m.cursor)
	assert.Greater(t, m.top+m.pageSize(), m.cursor)

	press(m, "home")
	assert.Equal(t, 0, m.cursor)
	assert.Equal(t, 0, m.top)
}

func TestTUI_Edit(t *testing.T) {
	m, lin := newTestModel(t)

	press(m, "4", "right", "e")
	require.Equal(t, modeEdit, m.mode)
	assert.Equal(t, "0", m.input.Value())

	press(m, "ctrl+u", "-", "2", "enter")
	assert.Equal(t, modeBrowse, m.mode)
	require.NoError(t, m.err)
	assert.Equal(t, "s16[1] set to -2", m.status)

	x, err := lin.ReadU16(2)
	require.NoError(t, err)
	assert.Equal(t, uint16(0xfffe), x)

	press(m, "3", "e", "ctrl+u", "-", "2", "enter")
	assert.True(t, errors.Is(m.err, errors.ErrValueOutOfRange), "u16 rejects -2")
}

func TestTUI_EditRejectsOutOfRange(t *testing.T) {
	m, lin := newTestModel(t)

	press(m, "e", "ctrl+u", "3", "0", "0", "enter")
	require.Error(t, m.err)
	assert.True(t, errors.Is(m.err, errors.ErrValueOutOfRange))

	b, err := lin.ReadU8(0)
	require.NoError(t, err)
	assert.Equal(t, uint8(0), b)

	press(m, "e", "ctrl+u", "x", "enter")
	assert.ErrorContains(t, m.err, "not an integer")

	press(m, "e", "esc")
	assert.Equal(t, modeBrowse, m.mode)
}

func TestTUI_Grow(t *testing.T) {
	m, lin := newTestModel(t, memory.WithMaxPages(2))

	press(m, "g")
	require.NoError(t, m.err)
	assert.Equal(t, uint32(2), lin.Pages())
	assert.Contains(t, m.status, "grew memory from 1 to 2 pages")
	assert.Equal(t, 2*65536, m.acc.Len(), "existing view sees growth")

	press(m, "g")
	assert.True(t, errors.Is(m.err, errors.ErrGrowFailed))
	assert.Equal(t, uint32(2), lin.Pages())
}

func TestTUI_Offset(t *testing.T) {
	m, _ := newTestModel(t)

	press(m, "o", "ctrl+u", "6", "5", "5", "3", "0", "enter")
	require.NoError(t, m.err)
	assert.Equal(t, uint32(65530), m.offset)
	assert.Equal(t, 6, m.acc.Len())

	press(m, "o", "ctrl+u", "z", "enter")
	assert.ErrorContains(t, m.err, "not a byte offset")
}

func TestTUI_View(t *testing.T) {
	m, lin := newTestModel(t)
	require.NoError(t, lin.WriteU8(0, 200))

	out := m.View()
	assert.Contains(t, out, "Memory View")
	assert.Contains(t, out, "00000000:")
	assert.Contains(t, out, "200")
	assert.Contains(t, out, "pages 1/none")

	press(m, "e")
	assert.Contains(t, m.View(), "u8[0] = ")
}

func TestTUI_WindowSize(t *testing.T) {
	m, _ := newTestModel(t)
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 30})
	assert.Equal(t, 25, m.rows)

	m.Update(tea.WindowSizeMsg{Width: 80, Height: 2})
	assert.Equal(t, 1, m.rows)
}
