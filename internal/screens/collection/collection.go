// Package collection shows owned souvenirs and snacks and the award log.
package collection

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/wheninja/wheninja/internal/category"
	"github.com/wheninja/wheninja/internal/locale"
	"github.com/wheninja/wheninja/internal/rewards"
	"github.com/wheninja/wheninja/internal/router"
	"github.com/wheninja/wheninja/internal/screen"
	"github.com/wheninja/wheninja/internal/session"
	"github.com/wheninja/wheninja/internal/store"
	"github.com/wheninja/wheninja/internal/ui/layout"
	"github.com/wheninja/wheninja/internal/ui/theme"
)

// Tab is a collection page.
type Tab int

const (
	TabSouvenirs Tab = iota
	TabSnacks
	TabHistory
	tabCount
)

const historyLimit = 50

type historyLoadedMsg struct {
	Records []store.RewardEventRecord
	Err     error
}

// CollectionScreen displays the player's collectibles.
type CollectionScreen struct {
	ctrl         *session.Controller
	eventRepo    store.EventRepo
	tab          Tab
	history      []store.RewardEventRecord
	scrollOffset int
	loaded       bool
	errMsg       string
}

var _ screen.Screen = (*CollectionScreen)(nil)
var _ screen.KeyHintProvider = (*CollectionScreen)(nil)

// New creates a CollectionScreen. eventRepo may be nil, which hides the
// history tab contents.
func New(ctrl *session.Controller, eventRepo store.EventRepo) *CollectionScreen {
	return &CollectionScreen{ctrl: ctrl, eventRepo: eventRepo}
}

func (s *CollectionScreen) Init() tea.Cmd {
	if s.eventRepo == nil {
		s.loaded = true
		return nil
	}
	repo := s.eventRepo
	return func() tea.Msg {
		records, err := repo.QueryRewardEvents(context.Background(), store.QueryOpts{Limit: historyLimit})
		return historyLoadedMsg{Records: records, Err: err}
	}
}

func (s *CollectionScreen) lang() locale.Language { return s.ctrl.Language() }

func (s *CollectionScreen) Title() string {
	return s.lang().Pick("コレクション", "Collection")
}

func (s *CollectionScreen) KeyHints() []layout.KeyHint {
	l := s.lang()
	return []layout.KeyHint{
		{Key: "Tab", Description: l.Pick("切り替え", "Switch tab")},
		{Key: "↑↓", Description: l.Pick("スクロール", "Scroll")},
		{Key: "Esc", Description: l.Pick("戻る", "Back")},
	}
}

func (s *CollectionScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.history = msg.Records
		}
		s.loaded = true
		return s, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "tab", "right", "l":
			s.tab = (s.tab + 1) % tabCount
			s.scrollOffset = 0
		case "shift+tab", "left", "h":
			s.tab = (s.tab - 1 + tabCount) % tabCount
			s.scrollOffset = 0
		case "up", "k":
			if s.scrollOffset > 0 {
				s.scrollOffset--
			}
		case "down", "j":
			if s.scrollOffset < s.rowCount()-1 {
				s.scrollOffset++
			}
		}
	}
	return s, nil
}

// Tab returns the selected tab.
func (s *CollectionScreen) Tab() Tab { return s.tab }

func (s *CollectionScreen) rowCount() int {
	switch s.tab {
	case TabSouvenirs:
		return category.Count
	case TabHistory:
		return len(s.history)
	default:
		return 0
	}
}

func (s *CollectionScreen) View(width, height int) string {
	l := s.lang()
	p := s.ctrl.Progress()
	var b strings.Builder

	b.WriteString(layout.Centered(fmt.Sprintf("\n%s %s %d   %s %s %d\n",
		rewards.Souvenir.Icon(), rewards.Souvenir.DisplayName(l), len(p.Souvenirs),
		rewards.Snack.Icon(), rewards.Snack.DisplayName(l), len(p.Snacks)),
		width, lipgloss.NewStyle().Foreground(theme.Text)))
	b.WriteString("\n")

	labels := []string{
		rewards.Souvenir.DisplayName(l),
		rewards.Snack.DisplayName(l),
		l.Pick("履歴", "History"),
	}
	var tabs []string
	for i, label := range labels {
		if Tab(i) == s.tab {
			tabs = append(tabs, lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("[ "+label+" ]"))
		} else {
			tabs = append(tabs, lipgloss.NewStyle().Foreground(theme.TextDim).Render("  "+label+"  "))
		}
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, strings.Join(tabs, "   ")))
	b.WriteString("\n\n")

	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", min(width-8, 60)))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
	b.WriteString("\n\n")

	maxVisible := max(height-10, 3)
	switch s.tab {
	case TabSouvenirs:
		b.WriteString(s.renderSouvenirs(width, maxVisible))
	case TabSnacks:
		b.WriteString(s.renderSnacks(width))
	case TabHistory:
		b.WriteString(s.renderHistory(width, maxVisible))
	}
	return b.String()
}

func (s *CollectionScreen) renderSouvenirs(width, maxVisible int) string {
	l := s.lang()
	p := s.ctrl.Progress()
	cats := category.All()

	var b strings.Builder
	end := min(s.scrollOffset+maxVisible, len(cats))
	for _, info := range cats[s.scrollOffset:end] {
		var cells []string
		owned := 0
		for _, it := range rewards.SouvenirPool(info.ID) {
			if p.HasSouvenir(it.ID) {
				cells = append(cells, it.ID)
				owned++
			} else {
				cells = append(cells, "・")
			}
		}
		name := fmt.Sprintf("%s %-14s", info.Icon, truncate(info.Name.In(l), 14))
		line := fmt.Sprintf("%s  %s  %d/%d", name, strings.Join(cells, " "), owned, len(cells))
		style := lipgloss.NewStyle().Foreground(theme.Text)
		if owned == len(cells) {
			style = style.Foreground(theme.Success)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")
	}
	return b.String()
}

func (s *CollectionScreen) renderSnacks(width int) string {
	l := s.lang()
	p := s.ctrl.Progress()

	var b strings.Builder
	for _, it := range rewards.SnackPool() {
		line := "・  ???"
		style := lipgloss.NewStyle().Foreground(theme.TextDim)
		if p.HasSnack(it.ID) {
			line = it.ID + "  " + it.Name.In(l)
			style = lipgloss.NewStyle().Foreground(theme.Accent)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Width(24).Render(line)))
		b.WriteString("\n")
	}
	return b.String()
}

func (s *CollectionScreen) renderHistory(width, maxVisible int) string {
	l := s.lang()
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)
	if s.errMsg != "" {
		return layout.Centered("Error: "+s.errMsg, width, lipgloss.NewStyle().Foreground(theme.Error))
	}
	if !s.loaded {
		return layout.Centered(l.Pick("読み込み中…", "Loading..."), width, dim)
	}
	if len(s.history) == 0 {
		return layout.Centered(l.Pick("まだ記録がありません", "Nothing collected yet"), width, dim.Italic(true))
	}

	var b strings.Builder
	end := min(s.scrollOffset+maxVisible, len(s.history))
	for _, rec := range s.history[s.scrollOffset:end] {
		kind := rewards.Kind(rec.Kind)
		name := rec.ItemID
		if it, ok := rewards.Lookup(kind, rec.ItemID); ok {
			name = it.ID + " " + it.Name.In(l)
		}
		where := ""
		if info, ok := category.Lookup(category.ID(rec.Category)); ok {
			where = info.Icon
		}
		line := fmt.Sprintf("%s  %-24s %2s  %s", kind.Icon(), truncate(name, 24), where, rec.Timestamp.Local().Format("2006-01-02 15:04"))
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, lipgloss.NewStyle().Foreground(theme.Text).Render(line)))
		b.WriteString("\n")
	}
	if end < len(s.history) {
		b.WriteString("\n")
		b.WriteString(layout.Centered(fmt.Sprintf("... %d more", len(s.history)-end), width, dim))
	}
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
