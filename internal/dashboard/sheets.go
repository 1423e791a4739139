// Package dashboard exposes the embedded-report collaborator surface:
// the sheet registry with its aggregation queries and URL parameter
// sets, embed URL construction, and the cached AI summary of what the
// dashboard currently displays.
package dashboard

import (
	"fmt"
	"sort"

	"github.com/vorn-digital/adlens/internal/model"
	"github.com/vorn-digital/adlens/internal/query"
)

// SheetProfile describes one dashboard sheet: its embed page, the
// aggregation query that approximates what the sheet displays, and the
// URL parameter names its data sources accept per filter kind.
//
// SupportedFilters is derived from the parameter sets: a sheet with no
// campaign parameters must never receive a campaign filter fragment,
// even when the user selected one.
type SheetProfile struct {
	Name   string
	PageID string
	Table  string

	// QueryTemplate has two indexed slots: %[1]s table, %[2]s filter
	// fragment.
	QueryTemplate string
	// FixedWhere marks templates that already carry a WHERE condition;
	// injected fragments then lead with AND instead of WHERE.
	FixedWhere bool

	DateParams     []string
	MediaParams    []string
	CampaignParams []string
}

// Supports reports whether the sheet accepts the given filter kind.
func (s SheetProfile) Supports(kind model.FilterKind) bool {
	switch kind {
	case model.FilterDate:
		return len(s.DateParams) > 0
	case model.FilterMedia:
		return len(s.MediaParams) > 0
	case model.FilterCampaign:
		return len(s.CampaignParams) > 0
	default:
		return false
	}
}

// AnalysisSQL renders the sheet's aggregation query with the session
// filters applied. Filter kinds the sheet does not support are masked
// out before compilation.
func (s SheetProfile) AnalysisSQL(f model.FilterSet, apply model.FilterFlags) string {
	masked := model.FilterFlags{
		Date:     apply.Date && s.Supports(model.FilterDate),
		Media:    apply.Media && s.Supports(model.FilterMedia),
		Campaign: apply.Campaign && s.Supports(model.FilterCampaign),
	}

	clause := query.ClauseWhere
	if s.FixedWhere {
		clause = query.ClauseAnd
	}
	fragment := query.CompileFilters(f, masked, clause)
	return fmt.Sprintf(s.QueryTemplate, s.Table, fragment)
}

// DefaultSheet is the sheet selected for new sessions.
const DefaultSheet = "メディア"

const (
	campaignTable = "vorn-digi-mktg-poc-635a.toki_air.LookerStudio_report_campaign"
	deviceTable   = "vorn-digi-mktg-poc-635a.toki_air.LookerStudio_report_campaign_device"
	budgetTable   = "vorn-digi-mktg-poc-635a.toki_air.LookerStudio_report_budget"
	adGroupTable  = "vorn-digi-mktg-poc-635a.toki_air.LookerStudio_report_ad_group"
	adTable       = "vorn-digi-mktg-poc-635a.toki_air.LookerStudio_report_ad"
	keywordTable  = "vorn-digi-mktg-poc-635a.toki_air.LookerStudio_report_keyword"
	finalURLTable = "vorn-digi-mktg-poc-635a.toki_air.LookerStudio_report_final_url"
	areaTable     = "vorn-digi-mktg-poc-635a.toki_air.LookerStudio_report_area"
	hourlyTable   = "vorn-digi-mktg-poc-635a.toki_air.LookerStudio_report_hourly"
	genderTable   = "vorn-digi-mktg-poc-635a.toki_air.LookerStudio_report_gender"
	ageTable      = "vorn-digi-mktg-poc-635a.toki_air.LookerStudio_report_age_group"
)

func params(prefix string) ([]string, []string, []string) {
	return []string{prefix + ".p_start_date", prefix + ".p_end_date"},
		[]string{prefix + ".p_media"},
		[]string{prefix + ".p_campaign"}
}

// multiSourceParams combines the parameter sets of several data
// sources for sheets whose charts draw from more than one table.
func multiSourceParams(prefixes ...string) (date, media, campaign []string) {
	for _, p := range prefixes {
		d, m, c := params(p)
		date = append(date, d...)
		media = append(media, m...)
		campaign = append(campaign, c...)
	}
	return date, media, campaign
}

func newSheet(name, pageID, table, template, paramPrefix string) SheetProfile {
	date, media, campaign := params(paramPrefix)
	return SheetProfile{
		Name:           name,
		PageID:         pageID,
		Table:          table,
		QueryTemplate:  template,
		DateParams:     date,
		MediaParams:    media,
		CampaignParams: campaign,
	}
}

const dailyKPITemplate = `SELECT
	FORMAT_DATE('%%Y-%%m-%%d', Date) AS Date,
	SUM(CostIncludingFees) AS Cost,
	SUM(Impressions) AS Impressions,
	SUM(Clicks) AS Clicks,
	SUM(Conversions) AS Conversions,
	SAFE_DIVIDE(SUM(CostIncludingFees), SUM(Conversions)) AS CPA,
	SAFE_DIVIDE(SUM(Conversions), SUM(Clicks)) AS CVR
FROM ` + "`%[1]s`" + `%[2]s
GROUP BY Date
ORDER BY Date ASC`

// sheets is the registry of dashboard sheets keyed by display name.
var sheets = map[string]SheetProfile{
	"予算管理": newSheet("予算管理", "Gcf9", budgetTable, `SELECT
	FORMAT_DATE('%%Y-%%m-%%d', Date) AS Date,
	PromotionName,
	SUM(CostIncludingFees) AS ActualCost,
	AVG(PromotionBudgetIncludingFees) AS PromotionBudget
FROM `+"`%[1]s`"+`%[2]s
GROUP BY Date, PromotionName
ORDER BY Date DESC`, "budget"),

	"サマリー01": newSheet("サマリー01", "6HI9", campaignTable, dailyKPITemplate, "campaign"),

	// サマリー02 charts read from six data sources, so its embed URL
	// must set every source's parameter set.
	"サマリー02": func() SheetProfile {
		s := newSheet("サマリー02", "IH29", campaignTable, dailyKPITemplate, "campaign")
		s.DateParams, s.MediaParams, s.CampaignParams = multiSourceParams(
			"campaign", "device", "geo", "gender", "campaign_hourly", "age_range")
		return s
	}(),

	"メディア": newSheet("メディア", "GTrk", campaignTable, `SELECT
	ServiceNameJA_Media,
	SUM(CostIncludingFees) AS Cost,
	SUM(Conversions) AS Conversions,
	SAFE_DIVIDE(SUM(CostIncludingFees), SUM(Conversions)) AS CPA,
	SAFE_DIVIDE(SUM(Conversions), SUM(Clicks)) AS CVR
FROM `+"`%[1]s`"+`%[2]s
GROUP BY ServiceNameJA_Media ORDER BY Cost DESC`, "campaign"),

	"デバイス": newSheet("デバイス", "kovk", deviceTable, `SELECT DeviceCategory, SUM(CostIncludingFees) AS Cost, SUM(Conversions) AS Conversions, SAFE_DIVIDE(SUM(CostIncludingFees), SUM(Conversions)) AS CPA
FROM `+"`%[1]s`"+`%[2]s
GROUP BY DeviceCategory ORDER BY Cost DESC`, "device"),

	"月別": newSheet("月別", "Bsvk", campaignTable, `SELECT FORMAT_DATE('%%Y-%%m', Date) AS YearMonth, SUM(CostIncludingFees) AS Cost, SUM(Conversions) AS Conversions
FROM `+"`%[1]s`"+`%[2]s
GROUP BY YearMonth ORDER BY YearMonth ASC`, "campaign"),

	"日別": newSheet("日別", "40vk", campaignTable, `SELECT FORMAT_DATE('%%Y-%%m-%%d', Date) AS Date, SUM(CostIncludingFees) AS Cost, SUM(Conversions) AS Conversions
FROM `+"`%[1]s`"+`%[2]s
GROUP BY Date ORDER BY Date ASC`, "campaign"),

	"曜日": newSheet("曜日", "hsv3", campaignTable, `SELECT DayOfWeekJA, SUM(CostIncludingFees) AS Cost, SUM(Conversions) AS Conversions, SAFE_DIVIDE(SUM(CostIncludingFees), SUM(Conversions)) AS CPA
FROM `+"`%[1]s`"+`%[2]s
GROUP BY DayOfWeekJA`, "campaign"),

	"キャンペーン": newSheet("キャンペーン", "cYwk", campaignTable, `SELECT CampaignName, SUM(CostIncludingFees) AS Cost, SUM(Conversions) AS Conversions, SAFE_DIVIDE(SUM(CostIncludingFees), SUM(Conversions)) AS CPA
FROM `+"`%[1]s`"+`%[2]s
GROUP BY CampaignName ORDER BY Cost DESC LIMIT 15`, "campaign"),

	"広告グループ": newSheet("広告グループ", "1ZWq", adGroupTable, `SELECT AdGroupName_unified, SUM(CostIncludingFees) AS Cost, SUM(Conversions) AS Conversions, SAFE_DIVIDE(SUM(CostIncludingFees), SUM(Conversions)) AS CPA
FROM `+"`%[1]s`"+`%[2]s
GROUP BY AdGroupName_unified ORDER BY Cost DESC LIMIT 15`, "adgroup"),

	"テキストCR": func() SheetProfile {
		s := newSheet("テキストCR", "NfWq", adTable, `SELECT AdName, Headline, SUM(Impressions) AS Impressions, SUM(Clicks) AS Clicks, SUM(Conversions) AS Conversions, SAFE_DIVIDE(SUM(Clicks), SUM(Impressions)) AS CTR
FROM `+"`%[1]s`"+`
WHERE AdTypeJA = 'テキスト'%[2]s
GROUP BY AdName, Headline ORDER BY Clicks DESC LIMIT 15`, "ad")
		s.FixedWhere = true
		return s
	}(),

	"ディスプレイCR": func() SheetProfile {
		s := newSheet("ディスプレイCR", "p_grkcjbbytd", adTable, `SELECT AdName, SUM(Impressions) AS Impressions, SUM(Clicks) AS Clicks, SUM(Conversions) AS Conversions, SAFE_DIVIDE(SUM(Clicks), SUM(Impressions)) AS CTR
FROM `+"`%[1]s`"+`
WHERE AdTypeJA != 'テキスト'%[2]s
GROUP BY AdName ORDER BY Clicks DESC LIMIT 15`, "ad")
		s.FixedWhere = true
		return s
	}(),

	"キーワード": newSheet("キーワード", "imWq", keywordTable, `SELECT Keyword, SUM(CostIncludingFees) AS Cost, SUM(Conversions) AS Conversions, AVG(QualityScore) AS AvgQualityScore
FROM `+"`%[1]s`"+`%[2]s
GROUP BY Keyword ORDER BY Cost DESC LIMIT 20`, "keyword"),

	"地域": newSheet("地域", "ZNdq", areaTable, `SELECT RegionJA, SUM(CostIncludingFees) AS Cost, SUM(Conversions) AS Conversions, SAFE_DIVIDE(SUM(CostIncludingFees), SUM(Conversions)) AS CPA
FROM `+"`%[1]s`"+`%[2]s
GROUP BY RegionJA ORDER BY Cost DESC`, "geo"),

	"時間": newSheet("時間", "bXdq", hourlyTable, `SELECT HourOfDay, SUM(CostIncludingFees) AS Cost, SUM(Conversions) AS Conversions
FROM `+"`%[1]s`"+`%[2]s
GROUP BY HourOfDay ORDER BY HourOfDay ASC`, "campaign_hourly"),

	"最終ページURL": newSheet("最終ページURL", "7xXq", finalURLTable, `SELECT EffectiveFinalUrl, SUM(CostIncludingFees) AS Cost, SUM(Conversions) AS Conversions, SAFE_DIVIDE(SUM(Conversions), SUM(Clicks)) AS CVR
FROM `+"`%[1]s`"+`%[2]s
GROUP BY EffectiveFinalUrl ORDER BY Cost DESC LIMIT 15`, "final_url"),

	"性別": newSheet("性別", "ctdq", genderTable, `SELECT UnifiedGenderJA, SUM(CostIncludingFees) AS Cost, SUM(Conversions) AS Conversions, SAFE_DIVIDE(SUM(CostIncludingFees), SUM(Conversions)) AS CPA
FROM `+"`%[1]s`"+`%[2]s
GROUP BY UnifiedGenderJA ORDER BY Cost DESC`, "gender"),

	"年齢": newSheet("年齢", "fX53", ageTable, `SELECT AgeRange, SUM(CostIncludingFees) AS Cost, SUM(Conversions) AS Conversions, SAFE_DIVIDE(SUM(CostIncludingFees), SUM(Conversions)) AS CPA
FROM `+"`%[1]s`"+`%[2]s
GROUP BY AgeRange ORDER BY Cost DESC`, "age_range"),
}

// defaultAnalysis is used when a sheet has no registered aggregation
// query of its own.
var defaultAnalysis = SheetProfile{
	Name:  "default",
	Table: campaignTable,
	QueryTemplate: `SELECT Date, SUM(CostIncludingFees) AS TotalCost, SUM(Conversions) AS TotalConversions
FROM ` + "`%[1]s`" + `%[2]s
GROUP BY Date ORDER BY Date DESC LIMIT 7`,
	DateParams:     []string{"campaign.p_start_date", "campaign.p_end_date"},
	MediaParams:    []string{"campaign.p_media"},
	CampaignParams: []string{"campaign.p_campaign"},
}

// LookupSheet returns the registered sheet profile for a display name.
func LookupSheet(name string) (SheetProfile, bool) {
	s, ok := sheets[name]
	return s, ok
}

// AnalysisProfile returns the aggregation profile for a sheet, falling
// back to the campaign-level default for unknown names.
func AnalysisProfile(name string) SheetProfile {
	if s, ok := sheets[name]; ok {
		return s
	}
	return defaultAnalysis
}

// SheetNames lists the registered sheet display names.
func SheetNames() []string {
	names := make([]string, 0, len(sheets))
	for n := range sheets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
