// Package profile holds the static registry of analyzable data sources
// and the keyword router that maps a free-text instruction to one of
// them. Profiles are defined at compile time; the registry is read-only
// and safe to share across sessions.
package profile

import (
	"fmt"
	"strings"
)

// Key identifies a registered data-source profile. The set is closed:
// adding a profile means adding a constant and a registry entry.
type Key string

const (
	KeyCampaign    Key = "campaign"
	KeyAgeGroup    Key = "age_group"
	KeyKeyword     Key = "keyword"
	KeyFinalURL    Key = "final_url"
	KeyHourly      Key = "hourly"
	KeyAd          Key = "ad"
	KeyAdGroup     Key = "ad_group"
	KeyArea        Key = "area"
	KeyBudget      Key = "budget"
	KeyDevice      Key = "device"
	KeyGender      Key = "gender"
	KeyInterest    Key = "interest"
	KeyPlacement   Key = "placement"
	KeySearchQuery Key = "search_query"
)

// DefaultKey is the routing fallback when no keyword rule matches.
const DefaultKey = KeyCampaign

const defaultMetrics = "CTR=Clicks/Impressions, CPA=CostIncludingFees/Conversions, CPC=CostIncludingFees/Clicks, CVR=Conversions/Clicks"

// Profile is one registered data source: a fully-qualified table, its
// column manifest, and the instruction framing used to synthesize SQL
// against it.
type Profile struct {
	Key         Key
	Description string
	Table       string

	// Persona is the expert framing line for the generation prompt.
	Persona string
	// Columns is the ordered manifest of result columns available in
	// the table.
	Columns []string
	// Metrics lists the domain metric formulas, empty when the table
	// has no rate metrics (budget).
	Metrics string
	// Priority states which analysis axis SQL generation should favor.
	Priority string
}

// Prompt formats the profile's instructional template with the user's
// instruction. The output asks for exactly one executable SQL statement
// and nothing else; the synthesizer still strips code fences from the
// response.
func (p Profile) Prompt(instruction string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# あなたは%sです。\n", p.Persona)
	fmt.Fprintf(&b, "# ユーザー指示: %s\n", instruction)
	fmt.Fprintf(&b, "# 分析対象: `%s`\n", p.Table)
	fmt.Fprintf(&b, "# カラム: %s\n", strings.Join(p.Columns, ", "))
	if p.Metrics != "" {
		fmt.Fprintf(&b, "# 指標: %s\n", p.Metrics)
	}
	b.WriteString("# ルール: ユーザーの指示に最も関連性の高い指標を選択してSQLを生成してください。CostはCostIncludingFeesを使用してください。")
	if p.Priority != "" {
		fmt.Fprintf(&b, "%sを優先してください。", p.Priority)
	}
	b.WriteString("\n# 出力: 実行可能な BigQuery SQL だけ返す（説明なし）")
	return b.String()
}

// registry is the closed set of data-source profiles. Table identifiers
// and column manifests mirror the warehouse report tables.
var registry = map[Key]Profile{
	KeyCampaign: {
		Key:         KeyCampaign,
		Description: "キャンペーン単位での広告実績を分析",
		Table:       "vorn-digi-mktg-poc-635a.toki_air.LookerStudio_report_campaign",
		Persona:     "広告分析の専門家",
		Columns: []string{
			"Impressions", "Clicks", "CostIncludingFees", "Conversions",
			"ServiceNameJA", "PromotionName", "AccountName", "CampaignName",
			"Date", "DayOfWeekJA", "AllConversions", "Cost", "VideoViews",
			"ConversionValue", "AllConversionValue",
		},
		Metrics: defaultMetrics,
	},
	KeyAgeGroup: {
		Key:         KeyAgeGroup,
		Description: "年齢区分ごとの広告パフォーマンス分析",
		Table:       "vorn-digi-mktg-poc-635a.toki_air.LookerStudio_report_age_group",
		Persona:     "広告分析の専門家",
		Columns: []string{
			"Impressions", "Clicks", "CostIncludingFees", "Conversions",
			"AgeRange", "ServiceNameJA", "PromotionName", "AccountName",
			"CampaignName", "AdGroupName", "Date", "AllConversions", "Cost", "VideoViews",
		},
		Metrics:  defaultMetrics,
		Priority: "AgeRangeでの比較",
	},
	KeyKeyword: {
		Key:         KeyKeyword,
		Description: "検索キーワードごとの広告パフォーマンス分析",
		Table:       "vorn-digi-mktg-poc-635a.toki_air.LookerStudio_report_keyword",
		Persona:     "検索連動型広告の分析専門家",
		Columns: []string{
			"Impressions", "Clicks", "CostIncludingFees", "Conversions",
			"Keyword", "QualityScore", "ServiceNameJA", "PromotionName",
			"AccountName", "CampaignName", "AdGroupName", "Date",
			"AllConversions", "Cost", "VideoViews",
		},
		Metrics:  defaultMetrics,
		Priority: "Keyword単位の分析",
	},
	KeyFinalURL: {
		Key:         KeyFinalURL,
		Description: "ランディングページ単位の広告パフォーマンス分析",
		Table:       "vorn-digi-mktg-poc-635a.toki_air.LookerStudio_report_final_url",
		Persona:     "ランディングページ最適化の専門家",
		Columns: []string{
			"Impressions", "Clicks", "CostIncludingFees", "Conversions",
			"EffectiveFinalUrl", "ServiceNameJA", "PromotionName",
			"AccountName", "CampaignName", "AdGroupName", "Date",
			"AllConversions", "Cost", "VideoViews",
		},
		Metrics:  defaultMetrics,
		Priority: "EffectiveFinalUrlごとのパフォーマンス分析",
	},
	KeyHourly: {
		Key:         KeyHourly,
		Description: "時間帯ごとの広告パフォーマンス分析",
		Table:       "vorn-digi-mktg-poc-635a.toki_air.LookerStudio_report_hourly",
		Persona:     "広告配信最適化の専門家",
		Columns: []string{
			"Impressions", "Clicks", "CostIncludingFees", "Conversions",
			"HourOfDay", "ServiceNameJA", "PromotionName", "AccountName",
			"CampaignName", "Date", "AllConversions", "Cost", "VideoViews",
		},
		Metrics:  defaultMetrics,
		Priority: "HourOfDayごとのパフォーマンス傾向",
	},
	KeyAd: {
		Key:         KeyAd,
		Description: "広告クリエイティブ別のパフォーマンスを分析",
		Table:       "vorn-digi-mktg-poc-635a.toki_air.LookerStudio_report_ad",
		Persona:     "広告クリエイティブの分析専門家",
		Columns: []string{
			"Impressions", "Clicks", "CostIncludingFees", "Conversions",
			"Headline", "AdName", "AdTypeJA", "HeadlineByAdType",
			"Description1ByAdType", "Description2ByAdType", "ServiceNameJA",
			"PromotionName", "AccountName", "CampaignName", "AdGroupName", "Date",
		},
		Metrics:  defaultMetrics,
		Priority: "HeadlineやAdNameなど広告クリエイティブ単位での分析",
	},
	KeyAdGroup: {
		Key:         KeyAdGroup,
		Description: "広告グループ単位での広告実績を分析",
		Table:       "vorn-digi-mktg-poc-635a.toki_air.LookerStudio_report_ad_group",
		Persona:     "広告運用専門家",
		Columns: []string{
			"Impressions", "Clicks", "CostIncludingFees", "Conversions",
			"AdGroupName_unified", "ServiceNameJA", "PromotionName",
			"AccountName", "CampaignName", "Date",
		},
		Metrics:  defaultMetrics,
		Priority: "AdGroupName_unified単位での分析",
	},
	KeyArea: {
		Key:         KeyArea,
		Description: "地域（都道府県）ごとの広告パフォーマンス分析",
		Table:       "vorn-digi-mktg-poc-635a.toki_air.LookerStudio_report_area",
		Persona:     "エリアマーケティングの専門家",
		Columns: []string{
			"Impressions", "Clicks", "CostIncludingFees", "Conversions",
			"RegionJA", "ServiceNameJA", "PromotionName", "AccountName",
			"CampaignName", "Date",
		},
		Metrics:  defaultMetrics,
		Priority: "RegionJAごとのパフォーマンス分析",
	},
	KeyBudget: {
		Key:         KeyBudget,
		Description: "予算の消費状況とコストを分析",
		Table:       "vorn-digi-mktg-poc-635a.toki_air.LookerStudio_report_budget",
		Persona:     "広告予算管理の専門家",
		Columns: []string{
			"CostIncludingFees", "AccountBudgetIncludingFees",
			"PromotionBudgetIncludingFees", "AccountName", "PromotionName",
			"ServiceNameJA", "Date",
		},
		Priority: "CostIncludingFees（実績コスト）とPromotionBudgetIncludingFees（プロモーション予算）、AccountBudgetIncludingFees（アカウント予算）の比較や集計",
	},
	KeyDevice: {
		Key:         KeyDevice,
		Description: "デバイス（PC、スマホなど）ごとの広告パフォーマンス分析",
		Table:       "vorn-digi-mktg-poc-635a.toki_air.LookerStudio_report_campaign_device",
		Persona:     "広告配信最適化の専門家",
		Columns: []string{
			"Impressions", "Clicks", "CostIncludingFees", "Conversions",
			"DeviceCategory", "ServiceNameJA", "PromotionName", "AccountName",
			"CampaignName", "Date",
		},
		Metrics:  defaultMetrics,
		Priority: "DeviceCategoryごとのパフォーマンス比較",
	},
	KeyGender: {
		Key:         KeyGender,
		Description: "性別ごとの広告パフォーマンス分析",
		Table:       "vorn-digi-mktg-poc-635a.toki_air.LookerStudio_report_gender",
		Persona:     "ターゲット分析の専門家",
		Columns: []string{
			"Impressions", "Clicks", "CostIncludingFees", "Conversions",
			"UnifiedGenderJA", "ServiceNameJA", "PromotionName", "AccountName",
			"CampaignName", "AdGroupName", "Date",
		},
		Metrics:  defaultMetrics,
		Priority: "UnifiedGenderJAごとのパフォーマンス分析",
	},
	KeyInterest: {
		Key:         KeyInterest,
		Description: "ユーザーの興味関心ごとの広告パフォーマンス分析",
		Table:       "vorn-digi-mktg-poc-635a.toki_air.LookerStudio_report_gender",
		Persona:     "オーディエンスターゲティングの専門家",
		Columns: []string{
			"Impressions", "Clicks", "CostIncludingFees", "Conversions",
			"InterestName", "ServiceNameJA", "PromotionName", "AccountName",
			"CampaignName", "AdGroupName", "Date",
		},
		Metrics:  defaultMetrics,
		Priority: "InterestNameごとのパフォーマンス分析",
	},
	KeyPlacement: {
		Key:         KeyPlacement,
		Description: "広告の掲載元（流入元）サイト別のパフォーマンス分析",
		Table:       "vorn-digi-mktg-poc-635a.toki_air.LookerStudio_report_placement",
		Persona:     "ディスプレイ広告の分析専門家",
		Columns: []string{
			"Impressions", "Clicks", "CostIncludingFees", "Conversions",
			"Placement", "ServiceNameJA", "PromotionName", "AccountName",
			"CampaignName", "AdGroupName", "Date",
		},
		Metrics:  defaultMetrics,
		Priority: "Placementごとのパフォーマンス分析",
	},
	KeySearchQuery: {
		Key:         KeySearchQuery,
		Description: "ユーザーが実際に検索した語句（検索クエリ）ごとのパフォーマンス分析",
		Table:       "vorn-digi-mktg-poc-635a.toki_air.LookerStudio_report_search_query",
		Persona:     "検索連動型広告の分析専門家",
		Columns: []string{
			"Impressions", "Clicks", "CostIncludingFees", "Conversions",
			"Query", "UnifiedQueryMatchTypeWithVariantJA", "ServiceNameJA",
			"PromotionName", "AccountName", "CampaignName", "AdGroupName", "Date",
		},
		Metrics:  defaultMetrics,
		Priority: "Queryごとのパフォーマンス分析",
	},
}

// Lookup returns the profile for a key. ok is false for unknown keys.
func Lookup(key Key) (Profile, bool) {
	p, ok := registry[key]
	return p, ok
}

// Default returns the fallback profile used when routing matches nothing.
func Default() Profile {
	return registry[DefaultKey]
}

// Keys returns all registered profile keys.
func Keys() []Key {
	keys := make([]Key, 0, len(registry))
	for k := range registry {
		keys = append(keys, k)
	}
	return keys
}
