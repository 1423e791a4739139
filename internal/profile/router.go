package profile

import (
	"strings"

	"golang.org/x/text/width"
)

// routeRule maps a keyword set to a profile key. Rules are evaluated in
// order and the first match wins, so narrow or exclusive vocabulary must
// come before broader overlapping vocabulary.
type routeRule struct {
	key      Key
	keywords []string
}

// routeRules encodes the routing priority policy:
//  1. "検索クエリ" style phrases are exclusive to search_query and are
//     checked before the generic keyword vocabulary would swallow them.
//  2. Budget-specific vocabulary ("予算", "費用") is checked early. The
//     generic "コスト" is a budget trigger of last resort only: cost
//     shows up in instructions about every dimension ("デバイス別の
//     コスト"), so it must not shadow the dimension rules.
//  3. "広告グループ" is checked before the bare "広告" rule (most
//     specific first within the hierarchy).
//  4. No match falls through to the campaign profile.
var routeRules = []routeRule{
	{KeySearchQuery, []string{"検索クエリ", "検索語句", "検索した言葉"}},
	{KeyBudget, []string{"予算", "費用"}},
	{KeyKeyword, []string{"キーワード", "検索"}},
	{KeyArea, []string{"地域", "エリア", "場所", "都道府県", "市区町村"}},
	{KeyDevice, []string{"デバイス", "端末", "スマートフォン", "スマホ", "PC", "モバイル", "タブレット"}},
	{KeyGender, []string{"性別", "男女", "男性", "女性"}},
	{KeyInterest, []string{"興味", "関心", "オーディエンス"}},
	{KeyPlacement, []string{"流入元", "プレースメント", "掲載面", "配信先"}},
	{KeyAgeGroup, []string{"年齢", "Age", "ターゲット"}},
	{KeyFinalURL, []string{"URL", "ランディングページ", "LP"}},
	{KeyHourly, []string{"時間帯", "時間別"}},
	{KeyAdGroup, []string{"広告グループ"}},
	{KeyAd, []string{"広告", "クリエイティブ", "見出し", "ディスクリプション"}},
	{KeyBudget, []string{"コスト"}},
}

// Route resolves a free-text instruction to a data-source profile. It is
// total: any input, including the empty string, resolves to a profile,
// falling back to the campaign profile when no rule matches. Matching is
// pure substring containment after width folding, so full-width latin
// like "ＰＣ" matches the same as "PC".
func Route(instruction string) Profile {
	folded := width.Fold.String(instruction)
	for _, rule := range routeRules {
		for _, kw := range rule.keywords {
			if strings.Contains(folded, kw) {
				return registry[rule.key]
			}
		}
	}
	return registry[DefaultKey]
}
