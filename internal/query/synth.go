package query

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/vorn-digital/adlens/internal/profile"
	"github.com/vorn-digital/adlens/pkg/genai"
)

// sqlMaxTokens bounds generated SQL length.
const sqlMaxTokens = 1024

const correctionPrompt = `以下のSQLはエラーになりました。エラーメッセージを参考に修正してください。
# SQL:
%s
# エラー:
%s
# 出力は修正後のSQLのみ`

const modifyPrompt = `# あなたはSQLのエキスパートです。
# 以下の「元のSQL」を、「修正指示」に基づいて修正してください。

# 元のSQL:
%s

# 修正指示:
%s

# ルール:
# - BigQueryで実行可能なSQLクエリのみを生成してください。
# - SQL以外の説明やコメントは一切含めないでください。
# - 元のSQLの分析目的を維持しつつ、指示内容を正確に反映してください。

# 出力: 修正後のSQL`

// Synthesizer composes prompts from profile templates and filter
// fragments and turns generation responses into executable SQL text. It
// never validates SQL syntax; the repair engine owns execution outcomes.
type Synthesizer struct {
	gen genai.Generator
}

// NewSynthesizer returns a Synthesizer backed by the given generator.
func NewSynthesizer(gen genai.Generator) *Synthesizer {
	return &Synthesizer{gen: gen}
}

// Synthesize generates SQL for the user instruction against the routed
// profile. A non-empty filter fragment is attached with a directive to
// include it verbatim.
func (s *Synthesizer) Synthesize(ctx context.Context, p profile.Profile, instruction, filterFragment string) (string, error) {
	prompt := p.Prompt(instruction)
	if filterFragment != "" {
		prompt = fmt.Sprintf("%s\n#追加のフィルタ条件:\n#以下のWHERE句を必ずSQLに含めてください。\n#`%s`", prompt, filterFragment)
	}
	return s.generateSQL(ctx, prompt)
}

// Correct asks the generation service to repair a failing query given
// the raw store error message. Used by the repair engine between
// attempts.
func (s *Synthesizer) Correct(ctx context.Context, sql, errMsg string) (string, error) {
	return s.generateSQL(ctx, fmt.Sprintf(correctionPrompt, sql, errMsg))
}

// Modify rewrites an existing query according to a user's modification
// instruction, preserving the original analysis intent.
func (s *Synthesizer) Modify(ctx context.Context, sql, instruction string) (string, error) {
	return s.generateSQL(ctx, fmt.Sprintf(modifyPrompt, sql, instruction))
}

func (s *Synthesizer) generateSQL(ctx context.Context, prompt string) (string, error) {
	raw, err := s.gen.Generate(ctx, prompt, genai.Options{
		MaxTokens:   sqlMaxTokens,
		Temperature: 0,
	})
	if err != nil {
		return "", eris.Wrap(err, "query: generate sql")
	}
	return StripFences(raw), nil
}

// StripFences removes markdown code-fence artifacts the generation
// service tends to wrap SQL in, plus surrounding whitespace.
func StripFences(raw string) string {
	out := strings.TrimSpace(raw)
	out = strings.ReplaceAll(out, "```sql", "")
	out = strings.ReplaceAll(out, "```", "")
	return strings.TrimSpace(out)
}
