package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// sourcesCmd lists the available sources and how they are configured.
var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List content sources and their enabled state",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		rows := []struct {
			name    string
			enabled bool
			detail  string
		}{
			{"company_blogs", cfg.Sources.CompanyBlogs.Enabled,
				fmt.Sprintf("%d blogs", len(cfg.Sources.CompanyBlogs.Blogs))},
			{"research", cfg.Sources.Research.Enabled,
				fmt.Sprintf("%d feeds", len(cfg.Sources.Research.Sources))},
			{"reddit", cfg.Sources.Reddit.Enabled,
				fmt.Sprintf("%d subreddits, min %d upvotes", len(cfg.Sources.Reddit.Subreddits), cfg.Sources.Reddit.MinUpvotes)},
			{"hackernews", cfg.Sources.HackerNews.Enabled,
				fmt.Sprintf("%s, min score %d", strings.Join(cfg.Sources.HackerNews.Lists, "+"), cfg.Sources.HackerNews.MinScore)},
			{"producthunt", cfg.Sources.ProductHunt.Enabled,
				fmt.Sprintf("topics %s, min %d upvotes", strings.Join(cfg.Sources.ProductHunt.Topics, "+"), cfg.Sources.ProductHunt.MinUpvotes)},
			{"github", cfg.Sources.GitHub.Enabled,
				fmt.Sprintf("trending %s", cfg.Sources.GitHub.Period)},
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "SOURCE\tENABLED\tDETAIL")
		for _, r := range rows {
			fmt.Fprintf(tw, "%s\t%v\t%s\n", r.name, r.enabled, r.detail)
		}
		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(sourcesCmd)
}
