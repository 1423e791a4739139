package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/vorn-digital/adlens/internal/chart"
	"github.com/vorn-digital/adlens/internal/export"
	"github.com/vorn-digital/adlens/internal/model"
	"github.com/vorn-digital/adlens/internal/session"
)

var (
	askFrom          string
	askTo            string
	askMedia         []string
	askCampaigns     []string
	askApplyDate     bool
	askApplyMedia    bool
	askApplyCampaign bool
	askFormat        string
	askOut           string
)

const askDateLayout = "2006-01-02"

var askCmd = &cobra.Command{
	Use:   "ask <instruction>",
	Short: "Run one natural-language analysis instruction",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initAnalysis(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		sess := session.NewSessionWith(env.SessionOptions)
		if err := applyAskFilters(sess); err != nil {
			return err
		}

		result, err := env.Analyzer.Run(ctx, sess, args[0])
		if err != nil {
			if result != nil && result.SQL != "" {
				fmt.Fprintf(os.Stderr, "最後に実行したSQL:\n%s\n", result.SQL)
			}
			return err
		}

		printResult(result)

		if askFormat != "" {
			return exportResult(result, askFormat, askOut)
		}
		return nil
	},
}

func applyAskFilters(sess *session.Session) error {
	if askFrom != "" {
		from, err := time.Parse(askDateLayout, askFrom)
		if err != nil {
			return eris.Wrapf(err, "parse --from %q", askFrom)
		}
		sess.Filters.StartDate = from
	}
	if askTo != "" {
		to, err := time.Parse(askDateLayout, askTo)
		if err != nil {
			return eris.Wrapf(err, "parse --to %q", askTo)
		}
		sess.Filters.EndDate = to
	}
	sess.Filters.Media = askMedia
	sess.Filters.Campaigns = askCampaigns
	sess.Apply = model.FilterFlags{
		Date:     askApplyDate,
		Media:    askApplyMedia,
		Campaign: askApplyCampaign,
	}
	return nil
}

func printResult(result *model.AnalysisResult) {
	fmt.Printf("SQL:\n%s\n\n", result.SQL)

	if result.Warning != "" {
		fmt.Printf("⚠️ %s\n", result.Warning)
		return
	}

	printTable(result.Table)

	fmt.Printf("\nグラフ: %s (X: %s, Y: %s)\n", result.Chart.Kind, result.Chart.XAxis, result.Chart.YLeft)
	if fig, err := chart.Render(result.Table, result.Chart); err == nil {
		if blob, err := json.Marshal(fig); err == nil {
			fmt.Println(string(blob))
		}
	}
	if result.Comment != "" {
		fmt.Printf("\n%s\n", result.Comment)
	}
}

func printTable(t *model.Table) {
	fmt.Println(strings.Join(t.ColumnNames(), "\t"))
	for _, row := range t.Rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = model.CellString(cell)
		}
		fmt.Println(strings.Join(cells, "\t"))
	}
}

func exportResult(result *model.AnalysisResult, format, out string) error {
	if out == "" {
		out = export.Filename(format, time.Now())
	}

	f, err := os.Create(out)
	if err != nil {
		return eris.Wrapf(err, "create %s", out)
	}
	defer f.Close()

	switch format {
	case "csv":
		err = export.WriteCSV(f, result.Table)
	case "xlsx":
		err = export.WriteXLSX(f, result.Table)
	default:
		return eris.Errorf("unknown export format %q (csv or xlsx)", format)
	}
	if err != nil {
		return err
	}

	fmt.Printf("結果を %s に保存しました。\n", out)
	return nil
}

func init() {
	askCmd.Flags().StringVar(&askFrom, "from", "", "start date (YYYY-MM-DD, default 30 days ago)")
	askCmd.Flags().StringVar(&askTo, "to", "", "end date (YYYY-MM-DD, default today)")
	askCmd.Flags().StringSliceVar(&askMedia, "media", nil, "media filter values")
	askCmd.Flags().StringSliceVar(&askCampaigns, "campaign", nil, "campaign filter values")
	askCmd.Flags().BoolVar(&askApplyDate, "apply-date", true, "apply the date range filter")
	askCmd.Flags().BoolVar(&askApplyMedia, "apply-media", true, "apply the media filter")
	askCmd.Flags().BoolVar(&askApplyCampaign, "apply-campaign", true, "apply the campaign filter")
	askCmd.Flags().StringVar(&askFormat, "export", "", "export format: csv or xlsx")
	askCmd.Flags().StringVar(&askOut, "out", "", "export file path (default timestamped name)")
	rootCmd.AddCommand(askCmd)
}
