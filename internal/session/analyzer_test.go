package session

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vorn-digital/adlens/internal/chart"
	"github.com/vorn-digital/adlens/internal/model"
	"github.com/vorn-digital/adlens/internal/query"
	"github.com/vorn-digital/adlens/internal/store"
	"github.com/vorn-digital/adlens/pkg/genai"
)

type mockGenerator struct {
	mock.Mock
}

func (m *mockGenerator) Generate(ctx context.Context, prompt string, opts genai.Options) (string, error) {
	args := m.Called(ctx, prompt, opts)
	return args.String(0), args.Error(1)
}

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Query(ctx context.Context, sql string) (*model.Table, error) {
	args := m.Called(ctx, sql)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Table), args.Error(1)
}

func (m *mockStore) DistinctValues(ctx context.Context, table, column string) ([]string, error) {
	args := m.Called(ctx, table, column)
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockStore) Close() error {
	return m.Called().Error(0)
}

func newAnalyzer(gen *mockGenerator, st *mockStore) *Analyzer {
	synth := query.NewSynthesizer(gen)
	return NewAnalyzer(synth, query.NewEngine(st, synth), chart.NewCommentator(gen))
}

func deviceTable() *model.Table {
	return &model.Table{
		Columns: []model.Column{
			{Name: "DeviceCategory", Kind: model.KindString},
			{Name: "Cost", Kind: model.KindFloat},
		},
		Rows: []model.Row{
			{"PC", 100.0},
			{"Mobile", 200.0},
		},
	}
}

// isSQLPrompt separates SQL-generation prompts from commentary prompts.
func isSQLPrompt(prompt string) bool {
	return strings.Contains(prompt, "分析対象")
}

func TestRun_DeviceInstructionEndToEnd(t *testing.T) {
	gen := new(mockGenerator)
	st := new(mockStore)

	gen.On("Generate", mock.Anything, mock.MatchedBy(isSQLPrompt), mock.Anything).
		Return("SELECT DeviceCategory, SUM(Cost) AS Cost FROM report GROUP BY DeviceCategory", nil).Once()
	st.On("Query", mock.Anything, mock.Anything).Return(deviceTable(), nil).Once()
	gen.On("Generate", mock.Anything, mock.MatchedBy(func(p string) bool { return !isSQLPrompt(p) }), mock.Anything).
		Return("モバイルのコストがPCの2倍です。", nil).Once()

	sess := NewSession()
	a := newAnalyzer(gen, st)

	result, err := a.Run(context.Background(), sess, "デバイス別のコストを教えて")
	require.NoError(t, err)

	// Routed to the device profile: the SQL prompt names the device table.
	sqlPrompt := gen.Calls[0].Arguments.String(1)
	assert.Contains(t, sqlPrompt, "LookerStudio_report_campaign_device")

	assert.Equal(t, model.ChartBar, result.Chart.Kind)
	assert.Equal(t, "DeviceCategory", result.Chart.XAxis)
	assert.Equal(t, "Cost", result.Chart.YLeft)
	assert.Equal(t, model.AxisNone, result.Chart.Legend)
	assert.Equal(t, "モバイルのコストがPCの2倍です。", result.Comment)

	require.Equal(t, 1, sess.History.Len())
	assert.Same(t, result, sess.Current)
	gen.AssertExpectations(t)
	st.AssertExpectations(t)
}

func TestRun_SecondAttemptCorrections(t *testing.T) {
	gen := new(mockGenerator)
	st := new(mockStore)

	// SQL generation, then two corrections, then commentary.
	gen.On("Generate", mock.Anything, mock.MatchedBy(isSQLPrompt), mock.Anything).
		Return("SELECT v1", nil).Once()
	st.On("Query", mock.Anything, "SELECT v1").Return(nil, errors.New("bad column a")).Once()
	gen.On("Generate", mock.Anything, mock.MatchedBy(func(p string) bool {
		return strings.Contains(p, "エラー")
	}), mock.Anything).Return("SELECT v2", nil).Once()
	st.On("Query", mock.Anything, "SELECT v2").Return(nil, errors.New("bad column b")).Once()
	gen.On("Generate", mock.Anything, mock.MatchedBy(func(p string) bool {
		return strings.Contains(p, "エラー")
	}), mock.Anything).Return("SELECT v3", nil).Once()
	st.On("Query", mock.Anything, "SELECT v3").Return(deviceTable(), nil).Once()
	gen.On("Generate", mock.Anything, mock.MatchedBy(func(p string) bool {
		return strings.Contains(p, "データサンプル")
	}), mock.Anything).Return("comment", nil).Once()

	sess := NewSession()
	a := newAnalyzer(gen, st)

	result, err := a.Run(context.Background(), sess, "デバイス別のクリック数")
	require.NoError(t, err)
	assert.Equal(t, "SELECT v3", result.SQL)
	st.AssertNumberOfCalls(t, "Query", 3)
}

func TestRun_PermissionDeniedFailsFast(t *testing.T) {
	gen := new(mockGenerator)
	st := new(mockStore)

	gen.On("Generate", mock.Anything, mock.MatchedBy(isSQLPrompt), mock.Anything).
		Return("SELECT secret", nil).Once()
	st.On("Query", mock.Anything, "SELECT secret").
		Return(nil, &store.PermissionError{Err: errors.New("report_campaign")}).Once()

	sess := NewSession()
	a := newAnalyzer(gen, st)

	result, err := a.Run(context.Background(), sess, "デバイス別のクリック数")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "アクセス権限")
	require.NotNil(t, result)
	assert.Equal(t, "SELECT secret", result.SQL)
	assert.True(t, result.Table.Empty())
	assert.Equal(t, 0, sess.History.Len())
	// No correction prompt was sent.
	gen.AssertNumberOfCalls(t, "Generate", 1)
	st.AssertNumberOfCalls(t, "Query", 1)
}

func TestRun_CorrectionGenerationFailureIsDistinct(t *testing.T) {
	gen := new(mockGenerator)
	st := new(mockStore)

	gen.On("Generate", mock.Anything, mock.MatchedBy(isSQLPrompt), mock.Anything).
		Return("SELECT v1", nil).Once()
	st.On("Query", mock.Anything, "SELECT v1").Return(nil, errors.New("bad column a")).Once()
	gen.On("Generate", mock.Anything, mock.MatchedBy(func(p string) bool {
		return strings.Contains(p, "エラー")
	}), mock.Anything).Return("", errors.New("api quota exhausted")).Once()

	sess := NewSession()
	a := newAnalyzer(gen, st)

	result, err := a.Run(context.Background(), sess, "デバイス別のクリック数")
	require.Error(t, err)
	// The run died generating a correction, not by exhausting attempts.
	assert.Contains(t, err.Error(), "生成中にエラー")
	assert.NotContains(t, err.Error(), "3回")
	require.NotNil(t, result)
	assert.Equal(t, "SELECT v1", result.SQL)
	assert.Equal(t, 0, sess.History.Len())
	st.AssertNumberOfCalls(t, "Query", 1)
}

func TestRun_GenerationErrorAbortsWithoutState(t *testing.T) {
	gen := new(mockGenerator)
	st := new(mockStore)

	gen.On("Generate", mock.Anything, mock.Anything, mock.Anything).
		Return("", errors.New("api quota exhausted")).Once()

	sess := NewSession()
	a := newAnalyzer(gen, st)

	result, err := a.Run(context.Background(), sess, "コストの推移")
	require.Error(t, err)
	assert.Nil(t, result)
	assert.Nil(t, sess.Current)
	assert.Equal(t, 0, sess.History.Len())
	st.AssertNotCalled(t, "Query", mock.Anything, mock.Anything)
}

func TestRun_EmptyResultWarnsWithoutHistory(t *testing.T) {
	gen := new(mockGenerator)
	st := new(mockStore)

	gen.On("Generate", mock.Anything, mock.MatchedBy(isSQLPrompt), mock.Anything).
		Return("SELECT none", nil).Once()
	st.On("Query", mock.Anything, "SELECT none").
		Return(&model.Table{Columns: []model.Column{{Name: "Cost", Kind: model.KindFloat}}}, nil).Once()

	sess := NewSession()
	a := newAnalyzer(gen, st)

	result, err := a.Run(context.Background(), sess, "コストの推移")
	require.NoError(t, err)
	assert.Contains(t, result.Warning, "0件")
	assert.Empty(t, result.Comment)
	assert.Equal(t, 0, sess.History.Len())
}

func TestRun_NoNumericDataWarns(t *testing.T) {
	gen := new(mockGenerator)
	st := new(mockStore)

	table := &model.Table{
		Columns: []model.Column{{Name: "CampaignName", Kind: model.KindString}},
		Rows:    []model.Row{{"Brand"}},
	}

	gen.On("Generate", mock.Anything, mock.MatchedBy(isSQLPrompt), mock.Anything).
		Return("SELECT CampaignName FROM report", nil).Once()
	st.On("Query", mock.Anything, mock.Anything).Return(table, nil).Once()

	sess := NewSession()
	a := newAnalyzer(gen, st)

	result, err := a.Run(context.Background(), sess, "キャンペーン名の一覧")
	require.NoError(t, err)
	assert.Contains(t, result.Warning, "数値データ")
	assert.Equal(t, 0, sess.History.Len())
}

func TestModifyAndRun(t *testing.T) {
	gen := new(mockGenerator)
	st := new(mockStore)

	gen.On("Generate", mock.Anything, mock.MatchedBy(func(p string) bool {
		return strings.Contains(p, "修正指示")
	}), mock.Anything).Return("SELECT DeviceCategory, Cost FROM report LIMIT 5", nil).Once()
	st.On("Query", mock.Anything, "SELECT DeviceCategory, Cost FROM report LIMIT 5").
		Return(deviceTable(), nil).Once()
	gen.On("Generate", mock.Anything, mock.MatchedBy(func(p string) bool {
		return strings.Contains(p, "データサンプル")
	}), mock.Anything).Return("comment", nil).Once()

	sess := NewSession()
	a := newAnalyzer(gen, st)

	result, err := a.ModifyAndRun(context.Background(), sess, "SELECT DeviceCategory, Cost FROM report", "上位5件に絞って")
	require.NoError(t, err)
	assert.Equal(t, "SELECT DeviceCategory, Cost FROM report LIMIT 5", result.SQL)
	// Modifications refine the current result without a history entry.
	assert.Equal(t, 0, sess.History.Len())
	assert.Same(t, result, sess.Current)
}

func TestModifyAndRun_EmptyInstruction(t *testing.T) {
	sess := NewSession()
	a := newAnalyzer(new(mockGenerator), new(mockStore))

	_, err := a.ModifyAndRun(context.Background(), sess, "SELECT 1", "")
	require.Error(t, err)
}

func TestRerun_UserEditedSQL(t *testing.T) {
	gen := new(mockGenerator)
	st := new(mockStore)

	st.On("Query", mock.Anything, "SELECT DeviceCategory, Cost FROM report").
		Return(deviceTable(), nil).Once()
	gen.On("Generate", mock.Anything, mock.Anything, mock.Anything).Return("comment", nil).Once()

	sess := NewSession()
	a := newAnalyzer(gen, st)

	result, err := a.Rerun(context.Background(), sess, "SELECT DeviceCategory, Cost FROM report")
	require.NoError(t, err)
	assert.Equal(t, model.ChartBar, result.Chart.Kind)
	assert.Equal(t, 0, sess.History.Len())
}
