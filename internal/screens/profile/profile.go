// Package profile shows player stats and settings, and hosts backup,
// restore and reset.
package profile

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/wheninja/wheninja/internal/category"
	"github.com/wheninja/wheninja/internal/locale"
	"github.com/wheninja/wheninja/internal/progress"
	"github.com/wheninja/wheninja/internal/progression"
	"github.com/wheninja/wheninja/internal/router"
	"github.com/wheninja/wheninja/internal/screen"
	"github.com/wheninja/wheninja/internal/session"
	"github.com/wheninja/wheninja/internal/ui/components"
	"github.com/wheninja/wheninja/internal/ui/layout"
	"github.com/wheninja/wheninja/internal/ui/theme"
)

type mode int

const (
	modeView mode = iota
	modeImport
	modeConfirmReset
)

// ProfileScreen implements screen.Screen for the profile page.
type ProfileScreen struct {
	ctrl      *session.Controller
	logger    *zap.Logger
	exportDir string
	now       func() time.Time

	mode   mode
	input  components.PathInput
	notice string
	isErr  bool
}

var _ screen.Screen = (*ProfileScreen)(nil)
var _ screen.KeyHintProvider = (*ProfileScreen)(nil)
var _ screen.EscapeHandler = (*ProfileScreen)(nil)

// New creates a ProfileScreen. Backups are written to exportDir.
func New(ctrl *session.Controller, logger *zap.Logger, exportDir string) *ProfileScreen {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfileScreen{ctrl: ctrl, logger: logger, exportDir: exportDir, now: time.Now}
}

func (s *ProfileScreen) Init() tea.Cmd {
	return nil
}

func (s *ProfileScreen) lang() locale.Language { return s.ctrl.Language() }

func (s *ProfileScreen) Title() string {
	return s.lang().Pick("プロフィール", "Profile")
}

// HandlesEscape keeps Esc inside the import and reset dialogs.
func (s *ProfileScreen) HandlesEscape() bool {
	return s.mode != modeView
}

func (s *ProfileScreen) KeyHints() []layout.KeyHint {
	l := s.lang()
	switch s.mode {
	case modeImport:
		return []layout.KeyHint{
			{Key: "Enter", Description: l.Pick("読み込む", "Restore")},
			{Key: "Esc", Description: l.Pick("キャンセル", "Cancel")},
		}
	case modeConfirmReset:
		return []layout.KeyHint{
			{Key: "Y", Description: l.Pick("リセット", "Reset")},
			{Key: "N", Description: l.Pick("キャンセル", "Cancel")},
		}
	}
	return []layout.KeyHint{
		{Key: "L", Description: l.Pick("言語", "Language")},
		{Key: "T", Description: l.Pick("テーマ", "Theme")},
		{Key: "E", Description: l.Pick("書き出し", "Export")},
		{Key: "I", Description: l.Pick("読み込み", "Import")},
		{Key: "R", Description: l.Pick("リセット", "Reset")},
		{Key: "Esc", Description: l.Pick("戻る", "Back")},
	}
}

func (s *ProfileScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch s.mode {
	case modeImport:
		return s.updateImport(msg)
	case modeConfirmReset:
		return s.updateConfirm(msg)
	}

	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return s, nil
	}
	ctx := context.Background()
	l := s.lang()

	switch kmsg.String() {
	case "l":
		s.ctrl.ToggleLanguage(ctx)
		s.setNotice(s.lang().Pick("表示言語: 日本語", "Language: English"), false)
	case "t":
		s.ctrl.ToggleTheme(ctx)
		s.setNotice(l.Pick("テーマを切り替えました", "Theme switched"), false)
	case "e":
		s.export()
	case "i":
		s.mode = modeImport
		s.input = components.NewPathInput(l.Pick("バックアップファイルのパス", "Path to backup file"))
		s.notice = ""
		return s, s.input.Init()
	case "r":
		s.mode = modeConfirmReset
		s.notice = ""
	case "esc":
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}
	return s, nil
}

func (s *ProfileScreen) updateImport(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyPressMsg); ok {
		switch kmsg.String() {
		case "esc":
			s.mode = modeView
			return s, nil
		case "enter":
			if err := s.restore(strings.TrimSpace(s.input.Path())); err != nil {
				s.input.Reject(s.notice)
				s.notice = ""
				return s, nil
			}
			s.mode = modeView
			return s, nil
		}
	}
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *ProfileScreen) updateConfirm(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return s, nil
	}
	switch kmsg.String() {
	case "y", "Y":
		s.mode = modeView
		if err := s.ctrl.Reset(context.Background()); err != nil {
			s.logger.Error("reset progress", zap.Error(err))
			s.setNotice(s.lang().Pick("リセットに失敗しました: ", "Reset failed: ")+err.Error(), true)
			return s, nil
		}
		return s, func() tea.Msg { return router.PopToRootMsg{} }
	case "n", "N", "esc":
		s.mode = modeView
	}
	return s, nil
}

func (s *ProfileScreen) export() {
	l := s.lang()
	path := filepath.Join(s.exportDir, progress.BackupFileName(s.now()))
	err := writeBackup(path, s.ctrl.Progress(), s.now())
	if err != nil {
		s.logger.Error("export backup", zap.String("path", path), zap.Error(err))
		s.setNotice(l.Pick("書き出しに失敗しました: ", "Export failed: ")+err.Error(), true)
		return
	}
	s.logger.Info("backup exported", zap.String("path", path))
	s.setNotice(l.Pick("書き出しました: ", "Exported to ")+path, false)
}

func writeBackup(path string, p *progress.UserProgress, now time.Time) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create backup: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close backup: %w", cerr)
		}
	}()
	return progress.WriteBackup(f, p, now)
}

func (s *ProfileScreen) restore(path string) error {
	l := s.lang()
	path = expandHome(path)
	f, err := os.Open(path)
	if err != nil {
		s.setNotice(l.Pick("ファイルを開けません: ", "Cannot open file: ")+err.Error(), true)
		return err
	}
	defer f.Close()

	if err := s.ctrl.Restore(context.Background(), f); err != nil {
		s.logger.Warn("restore backup", zap.String("path", path), zap.Error(err))
		if errors.Is(err, progress.ErrInvalidBackup) {
			s.setNotice(l.Pick("無効なバックアップファイルです", "Invalid backup file"), true)
		} else {
			s.setNotice(l.Pick("復元に失敗しました: ", "Restore failed: ")+err.Error(), true)
		}
		return err
	}
	s.logger.Info("backup restored", zap.String("path", path))
	s.setNotice(s.lang().Pick("復元しました", "Progress restored"), false)
	return nil
}

func expandHome(path string) string {
	if rest, ok := strings.CutPrefix(path, "~/"); ok {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, rest)
		}
	}
	return path
}

func (s *ProfileScreen) setNotice(msg string, isErr bool) {
	s.notice = msg
	s.isErr = isErr
}

func (s *ProfileScreen) View(width, height int) string {
	l := s.lang()
	p := s.ctrl.Progress()
	cw := components.ContentWidth(width)
	label := lipgloss.NewStyle().Foreground(theme.TextDim).Width(16)
	value := lipgloss.NewStyle().Foreground(theme.Text)
	row := func(k, v string) string { return label.Render(k) + value.Render(v) }

	charName := l.Pick("未選択", "Not chosen")
	if ch, ok := progress.LookupCharacter(p.CharacterID()); ok {
		charName = ch.Icon + " " + ch.Name.In(l)
	}

	correct := 0
	for _, a := range p.AnsweredQuestions {
		if a.Correct {
			correct++
		}
	}

	next := l.Pick("最高レベル", "Max level")
	if pts, ok := progression.PointsForNextLevel(p.CurrentLevel); ok {
		next = fmt.Sprintf("%d / %d", p.TotalPoints, pts)
	}
	themeName := l.Pick("ライト", "Light")
	if p.Settings.Theme == progress.Dark {
		themeName = l.Pick("ダーク", "Dark")
	}

	rows := []string{
		row(l.Pick("キャラクター", "Guide"), charName),
		row(l.Pick("レベル", "Level"), fmt.Sprintf("Lv.%d %s", p.CurrentLevel, progression.LevelTitle(p.CurrentLevel, l))),
		row(l.Pick("ポイント", "Points"), fmt.Sprintf("★ %d", p.TotalPoints)),
		row(l.Pick("次のレベル", "Next level"), next),
		components.Gauge(progression.LevelProgress(p), cw-6, true),
		"",
		row(l.Pick("回答数", "Answered"), fmt.Sprintf("%d (%d %s)", len(p.AnsweredQuestions), correct, l.Pick("正解", "correct"))),
		row(l.Pick("制覇", "Completed"), fmt.Sprintf("%d / %d", len(p.CompletedCategories), category.Count)),
		row(l.Pick("おみやげ", "Souvenirs"), fmt.Sprint(len(p.Souvenirs))),
		row(l.Pick("おやつ", "Snacks"), fmt.Sprint(len(p.Snacks))),
		"",
		row(l.Pick("言語", "Language"), l.Label()),
		row(l.Pick("テーマ", "Theme"), themeName),
	}
	card := components.Card(lipgloss.NewStyle().Align(lipgloss.Left).Render(strings.Join(rows, "\n")), cw)

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, card))
	b.WriteString("\n\n")

	switch s.mode {
	case modeImport:
		b.WriteString(layout.Centered(l.Pick("バックアップファイルを指定してください", "Enter the path of a backup file"), width, value))
		b.WriteString("\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.input.View()))
		b.WriteString("\n")
	case modeConfirmReset:
		b.WriteString(layout.Centered(l.Pick("すべての進捗を削除しますか？", "Delete all progress?"), width, theme.Incorrect))
		b.WriteString("\n")
		b.WriteString(layout.Centered(l.Pick("この操作は取り消せません。 [Y] はい  [N] いいえ", "This cannot be undone. [Y] Yes  [N] No"), width, theme.Hint))
		b.WriteString("\n")
	}

	if s.notice != "" {
		style := lipgloss.NewStyle().Foreground(theme.Success)
		if s.isErr {
			style = lipgloss.NewStyle().Foreground(theme.Error)
		}
		b.WriteString("\n")
		b.WriteString(layout.Centered(s.notice, width, style))
	}
	return b.String()
}
