package chart

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/vorn-digital/adlens/internal/model"
	"github.com/vorn-digital/adlens/pkg/genai"
)

// commentSampleRows caps how many result rows are serialized into the
// commentary prompt.
const commentSampleRows = 10

const commentMaxTokens = 1024

// chartKindJA maps chart kinds to the Japanese labels used in prompts.
var chartKindJA = map[model.ChartKind]string{
	model.ChartBar:     "棒グラフ",
	model.ChartLine:    "折れ線グラフ",
	model.ChartArea:    "面グラフ",
	model.ChartScatter: "散布図",
	model.ChartPie:     "円グラフ",
	model.ChartCombo:   "組合せグラフ",
}

// Commentator derives natural-language commentary for analysis results.
type Commentator struct {
	gen genai.Generator
}

// NewCommentator returns a Commentator backed by the given generator.
func NewCommentator(gen genai.Generator) *Commentator {
	return &Commentator{gen: gen}
}

// Summarize samples the result table, describes the chart configuration
// and asks the generation service for a short business commentary. Any
// failure yields a fallback warning string; Summarize never errors.
func (c *Commentator) Summarize(ctx context.Context, table *model.Table, cfg model.ChartConfig) string {
	sample, err := json.Marshal(table.Records(commentSampleRows))
	if err != nil {
		return fmt.Sprintf("⚠️ AIコメント生成でエラー: %v", err)
	}

	focus := fmt.Sprintf("「%s」で可視化しています。", chartKindLabel(cfg.Kind))
	if cfg.HasLegend() {
		focus += fmt.Sprintf(" 「%s」でグループ化しています。", cfg.Legend)
	}

	prompt := fmt.Sprintf(`以下のデータサンプルとグラフ設定に基づき、ビジネス上の示唆を含む簡潔な分析コメントを出してください。
[データサンプル]
%s
[グラフ設定]
%s`, sample, focus)

	comment, err := c.gen.Generate(ctx, prompt, genai.Options{MaxTokens: commentMaxTokens})
	if err != nil {
		zap.L().Warn("commentary generation failed", zap.Error(err))
		return fmt.Sprintf("⚠️ AIコメント生成でエラー: %v", err)
	}
	return comment
}

func chartKindLabel(kind model.ChartKind) string {
	if ja, ok := chartKindJA[kind]; ok {
		return ja
	}
	return "未選択"
}
