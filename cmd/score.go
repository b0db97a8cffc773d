package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/ksasanka/ai-newsletter/internal/content"
	"github.com/ksasanka/ai-newsletter/internal/model"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// scoreCmd scores items from a YAML file against every category, for
// debugging keyword lists and ranking weights without a live run.
var scoreCmd = &cobra.Command{
	Use:   "score <items.yaml>",
	Short: "Categorize and score items from a YAML file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		b, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		var items []model.ContentItem
		if err := yaml.Unmarshal(b, &items); err != nil {
			return fmt.Errorf("parse items: %w", err)
		}
		if len(items) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No items in file.")
			return nil
		}

		cats := cfg.OrderedCategories()
		priorities := make(map[string]int, len(cats))
		for _, c := range cats {
			priorities[c.Name] = c.Priority
		}
		categorizer := content.NewCategorizer(cats)
		ranker := content.NewRanker(cfg.Ranking)

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "TITLE\tCATEGORY\tSCORE")
		for _, it := range items {
			names := categorizer.Categorize(it)
			if len(names) == 0 {
				fmt.Fprintf(tw, "%s\t-\t-\n", truncate(it.Title, 48))
				continue
			}
			title := truncate(it.Title, 48)
			for _, name := range names {
				fmt.Fprintf(tw, "%s\t%s\t%.1f\n", title, name, ranker.Score(it, priorities[name]))
				title = ""
			}
		}
		return tw.Flush()
	},
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func init() {
	rootCmd.AddCommand(scoreCmd)
}
