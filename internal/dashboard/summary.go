package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vorn-digital/adlens/internal/model"
	"github.com/vorn-digital/adlens/internal/store"
	"github.com/vorn-digital/adlens/pkg/genai"
)

const (
	summarySampleRows = 20
	summaryMaxTokens  = 1024

	mediaColumn    = "ServiceNameJA_Media"
	campaignColumn = "CampaignName"
)

const (
	msgNoData       = "分析対象のデータが見つかりませんでした。フィルタ条件を変更してお試しください。"
	msgQueryFailed  = "データの取得中にエラーが発生しました。しばらくしてから再度お試しください。"
	msgCommentError = "コメントの生成中にエラーが発生しました。"
)

const summaryPrompt = `# あなたは広告運用データアナリストです。
# 現在表示中のダッシュボード: %s
# 以下の集計データを読み、重要なポイントを3つ、日本語の箇条書きで簡潔に述べてください。
# 数値の根拠を示し、データにない推測は避けてください。

[集計データ]
%s`

// Summarizer produces the AI commentary shown next to an embedded
// dashboard sheet. Summaries and filter option lists are cached with
// independent TTLs so repeated sheet switches do not re-run the
// aggregation query or the model.
type Summarizer struct {
	store store.Store
	gen   genai.Generator
	cache *ttlCache

	summaryTTL time.Duration
	optionsTTL time.Duration
}

func NewSummarizer(st store.Store, gen genai.Generator, summaryTTL, optionsTTL time.Duration) *Summarizer {
	return &Summarizer{
		store:      st,
		gen:        gen,
		cache:      newTTLCache(),
		summaryTTL: summaryTTL,
		optionsTTL: optionsTTL,
	}
}

func summaryKey(sheet string, f model.FilterSet, apply model.FilterFlags) string {
	blob, _ := json.Marshal(struct {
		F model.FilterSet
		A model.FilterFlags
	}{f, apply})
	return "summary:" + sheet + ":" + string(blob)
}

// Summarize runs the sheet's aggregation query and asks the model for
// a short commentary on the result. It never returns an error: query
// and generation failures degrade to fixed fallback messages, which
// are not cached.
func (s *Summarizer) Summarize(ctx context.Context, sheetName string, f model.FilterSet, apply model.FilterFlags) string {
	key := summaryKey(sheetName, f, apply)
	if v, ok := s.cache.get(key); ok {
		return v.(string)
	}

	profile := AnalysisProfile(sheetName)
	table, err := s.store.Query(ctx, profile.AnalysisSQL(f, apply))
	if err != nil {
		zap.L().Warn("dashboard summary query failed",
			zap.String("sheet", sheetName), zap.Error(err))
		return msgQueryFailed
	}
	if table.Empty() {
		return msgNoData
	}

	sample, err := json.Marshal(table.Records(summarySampleRows))
	if err != nil {
		zap.L().Warn("dashboard summary sample encoding failed", zap.Error(err))
		return msgCommentError
	}

	prompt := fmt.Sprintf(summaryPrompt, sheetName, sample)
	comment, err := s.gen.Generate(ctx, prompt, genai.Options{MaxTokens: summaryMaxTokens})
	if err != nil {
		zap.L().Warn("dashboard summary generation failed",
			zap.String("sheet", sheetName), zap.Error(err))
		return msgCommentError
	}

	s.cache.put(key, comment, s.summaryTTL)
	return comment
}

// FilterOptions loads the selectable media and campaign values for the
// filter controls. Both lists come from the campaign report table and
// are fetched concurrently, then cached.
func (s *Summarizer) FilterOptions(ctx context.Context) (media, campaigns []string, err error) {
	if m, ok := s.cache.get("options:media"); ok {
		if c, ok := s.cache.get("options:campaign"); ok {
			return m.([]string), c.([]string), nil
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		media, err = s.store.DistinctValues(ctx, campaignTable, mediaColumn)
		return eris.Wrap(err, "dashboard: load media options")
	})
	g.Go(func() error {
		var err error
		campaigns, err = s.store.DistinctValues(ctx, campaignTable, campaignColumn)
		return eris.Wrap(err, "dashboard: load campaign options")
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	s.cache.put("options:media", media, s.optionsTTL)
	s.cache.put("options:campaign", campaigns, s.optionsTTL)
	return media, campaigns, nil
}
