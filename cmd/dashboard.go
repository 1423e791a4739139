package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/vorn-digital/adlens/internal/dashboard"
	"github.com/vorn-digital/adlens/internal/session"
)

var (
	dashboardSheet     string
	dashboardNoSummary bool
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Print the embed URL and AI summary for a dashboard sheet",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if cfg.Looker.ReportID == "" {
			return eris.New("looker.report_id is required for the dashboard (ADLENS_LOOKER_REPORT_ID)")
		}
		if _, ok := dashboard.LookupSheet(dashboardSheet); !ok {
			return eris.Errorf("unknown sheet %q (see: adlens dashboard sheets)", dashboardSheet)
		}

		sess := session.NewSessionWith(session.Options{LookbackDays: cfg.Session.LookbackDays})
		if err := applyAskFilters(sess); err != nil {
			return err
		}

		url, err := dashboard.EmbedURL(cfg.Looker.ReportID, dashboardSheet, sess.Filters, sess.Apply)
		if err != nil {
			return err
		}
		fmt.Println(url)

		if dashboardNoSummary {
			return nil
		}

		env, err := initAnalysis(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		fmt.Printf("\n%s\n", env.Summarizer.Summarize(ctx, dashboardSheet, sess.Filters, sess.Apply))
		return nil
	},
}

var dashboardSheetsCmd = &cobra.Command{
	Use:   "sheets",
	Short: "List the available dashboard sheets",
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range dashboard.SheetNames() {
			fmt.Println(name)
		}
	},
}

func init() {
	dashboardCmd.Flags().StringVar(&dashboardSheet, "sheet", dashboard.DefaultSheet, "dashboard sheet name")
	dashboardCmd.Flags().BoolVar(&dashboardNoSummary, "no-summary", false, "skip the AI summary")
	dashboardCmd.Flags().StringVar(&askFrom, "from", "", "start date (YYYY-MM-DD)")
	dashboardCmd.Flags().StringVar(&askTo, "to", "", "end date (YYYY-MM-DD)")
	dashboardCmd.Flags().StringSliceVar(&askMedia, "media", nil, "media filter values")
	dashboardCmd.Flags().StringSliceVar(&askCampaigns, "campaign", nil, "campaign filter values")
	dashboardCmd.Flags().BoolVar(&askApplyDate, "apply-date", true, "apply the date range filter")
	dashboardCmd.Flags().BoolVar(&askApplyMedia, "apply-media", true, "apply the media filter")
	dashboardCmd.Flags().BoolVar(&askApplyCampaign, "apply-campaign", true, "apply the campaign filter")
	dashboardCmd.AddCommand(dashboardSheetsCmd)
	rootCmd.AddCommand(dashboardCmd)
}
