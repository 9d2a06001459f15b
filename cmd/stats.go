package cmd

import (
	"fmt"
	"io"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/spf13/cobra"

	"github.com/wheninja/wheninja/internal/catalog"
	"github.com/wheninja/wheninja/internal/category"
	"github.com/wheninja/wheninja/internal/progress"
	"github.com/wheninja/wheninja/internal/progression"
	"github.com/wheninja/wheninja/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show progress and play history",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		ctx := cmd.Context()
		rt, err := setup(cmd, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer func() {
			if cerr := rt.Close(); err == nil {
				err = cerr
			}
		}()

		cat, err := rt.catalog(cmd)
		if err != nil {
			return err
		}
		loaded := rt.progress.Load(ctx)

		events := rt.db.EventRepo()
		answers, err := events.QueryAnswerEvents(ctx, store.QueryOpts{})
		if err != nil {
			return fmt.Errorf("query answer events: %w", err)
		}
		rewards, err := events.QueryRewardEvents(ctx, store.QueryOpts{})
		if err != nil {
			return fmt.Errorf("query reward events: %w", err)
		}

		writeStats(cmd.OutOrStdout(), loaded.Progress, cat, answers, rewards)
		return nil
	},
}

func writeStats(w io.Writer, p *progress.UserProgress, cat *catalog.Catalog, answers []store.AnswerEventRecord, rewards []store.RewardEventRecord) {
	lang := p.Settings.Language
	guide := "-"
	if ch, ok := progress.LookupCharacter(p.CharacterID()); ok {
		guide = ch.Icon + " " + ch.Name.In(lang)
	}

	fmt.Fprintf(w, "Guide:     %s\n", guide)
	fmt.Fprintf(w, "Level:     %d (%s)\n", p.CurrentLevel, progression.LevelTitle(p.CurrentLevel, lang))
	if next, ok := progression.PointsForNextLevel(p.CurrentLevel); ok {
		fmt.Fprintf(w, "Points:    %d / %d\n", p.TotalPoints, next)
	} else {
		fmt.Fprintf(w, "Points:    %d\n", p.TotalPoints)
	}
	fmt.Fprintf(w, "Souvenirs: %d   Snacks: %d\n\n", len(p.Souvenirs), len(p.Snacks))

	var rows [][]string
	for _, info := range category.All() {
		prog := cat.CategoryProgress(info.ID, p)
		done := ""
		if p.HasCompleted(info.ID) {
			done = "✓"
		}
		rows = append(rows, []string{
			info.Icon + " " + info.Name.In(lang),
			fmt.Sprintf("%d/%d", prog.Answered, prog.Total),
			fmt.Sprintf("%d%%", prog.Percentage),
			done,
		})
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderHeader(true).
		BorderRow(false).
		Headers("Category", "Answered", "%", "Done").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Bold(true).Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
	fmt.Fprintln(w, t.Render())

	correct := 0
	for _, a := range answers {
		if a.Correct {
			correct++
		}
	}
	fmt.Fprintf(w, "\nHistory:   %d answers logged (%d correct), %d rewards\n", len(answers), correct, len(rewards))
	if len(answers) > 0 {
		fmt.Fprintf(w, "Last play: %s\n", answers[0].Timestamp.Local().Format("2006-01-02 15:04"))
	}
}
