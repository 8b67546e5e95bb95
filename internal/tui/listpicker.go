package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const listPickerVisible = 15

type listPickerModel struct {
	widgetID string
	lists    []string
	filtered []int // indices into lists
	cursor   int
	filter   textinput.Model
	chosen   int
	done     bool
	canceled bool
}

// ListPickerResult holds the list the user bound the widget to.
type ListPickerResult struct {
	List     string
	Canceled bool
}

// ListPickerApp wraps listPickerModel for standalone use with tea.NewProgram.
type ListPickerApp struct {
	picker listPickerModel
	result *ListPickerResult
}

func NewListPickerApp(widgetID string, lists []string) *ListPickerApp {
	return &ListPickerApp{
		picker: newListPicker(widgetID, lists),
	}
}

func (a *ListPickerApp) Init() tea.Cmd {
	return a.picker.Init()
}

func (a *ListPickerApp) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m, cmd := a.picker.Update(msg)
	a.picker = m.(listPickerModel)

	if a.picker.done || a.picker.canceled {
		a.result = a.picker.Result()
		return a, tea.Quit
	}

	return a, cmd
}

func (a *ListPickerApp) View() string {
	return a.picker.View()
}

func (a *ListPickerApp) GetResult() *ListPickerResult {
	return a.result
}

func newListPicker(widgetID string, lists []string) listPickerModel {
	ti := textinput.New()
	ti.Placeholder = "Filter lists..."
	ti.Focus()

	filtered := make([]int, len(lists))
	for i := range lists {
		filtered[i] = i
	}

	return listPickerModel{
		widgetID: widgetID,
		lists:    lists,
		filtered: filtered,
		filter:   ti,
		chosen:   -1,
	}
}

func (m listPickerModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m listPickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.canceled = true
			return m, nil
		case "enter":
			if len(m.filtered) > 0 {
				m.chosen = m.filtered[m.cursor]
				m.done = true
			}
			return m, nil
		case "up", "ctrl+p":
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		case "down", "ctrl+n":
			if m.cursor < len(m.filtered)-1 {
				m.cursor++
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	prevFilter := m.filter.Value()
	m.filter, cmd = m.filter.Update(msg)

	if m.filter.Value() != prevFilter {
		m.applyFilter()
	}

	return m, cmd
}

func (m *listPickerModel) applyFilter() {
	query := strings.ToLower(m.filter.Value())
	m.filtered = m.filtered[:0]
	for i, name := range m.lists {
		if query == "" || strings.Contains(strings.ToLower(name), query) {
			m.filtered = append(m.filtered, i)
		}
	}
	if m.cursor >= len(m.filtered) {
		m.cursor = max(0, len(m.filtered)-1)
	}
}

func (m listPickerModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("Select a list for widget %s", m.widgetID)))
	b.WriteString("\n")

	if len(m.lists) == 0 {
		b.WriteString(warningStyle.Render("No lists found. Sync your tracker first."))
		b.WriteString(helpStyle.Render("\nCtrl+C: cancel"))
		return b.String()
	}

	b.WriteString(m.filter.View())
	b.WriteString("\n\n")

	if len(m.filtered) == 0 {
		b.WriteString(dimStyle.Render("  No lists match filter"))
		b.WriteString("\n")
	} else {
		start := 0
		if m.cursor >= listPickerVisible {
			start = m.cursor - listPickerVisible + 1
		}
		end := min(start+listPickerVisible, len(m.filtered))

		for vi := start; vi < end; vi++ {
			name := m.lists[m.filtered[vi]]
			if vi == m.cursor {
				b.WriteString(highlightStyle.Render("> (•) ") + name)
			} else {
				b.WriteString("  ( ) " + name)
			}
			b.WriteString("\n")
		}
	}

	b.WriteString(helpStyle.Render("↑/↓: move • Enter: bind • Esc: cancel"))

	return b.String()
}

func (m listPickerModel) Result() *ListPickerResult {
	if m.canceled || m.chosen < 0 {
		return &ListPickerResult{Canceled: true}
	}
	return &ListPickerResult{List: m.lists[m.chosen]}
}
