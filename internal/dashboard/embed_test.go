package dashboard

import (
	"encoding/json"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vorn-digital/adlens/internal/model"
)

const testReportID = "0a1b2c3d-test-report"

func decodeParams(t *testing.T, raw string) map[string]string {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	blob := u.Query().Get("params")
	require.NotEmpty(t, blob)
	var values map[string]string
	require.NoError(t, json.Unmarshal([]byte(blob), &values))
	return values
}

func TestEmbedURL_AllFiltersApplied(t *testing.T) {
	raw, err := EmbedURL(testReportID, "デバイス", testFilters(), model.AllFilters())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(raw,
		"https://lookerstudio.google.com/embed/reporting/"+testReportID+"/page/kovk?"))
	assert.Contains(t, raw, "hideFilters=true")

	values := decodeParams(t, raw)
	assert.Equal(t, "20260801", values["device.p_start_date"])
	assert.Equal(t, "20260831", values["device.p_end_date"])
	assert.Equal(t, "Google広告", values["device.p_media"])
	assert.Equal(t, "夏セール", values["device.p_campaign"])
}

func TestEmbedURL_MultiSourceSheetSetsAllSources(t *testing.T) {
	raw, err := EmbedURL(testReportID, "サマリー02", testFilters(), model.AllFilters())
	require.NoError(t, err)

	values := decodeParams(t, raw)
	for _, prefix := range []string{"campaign", "device", "geo", "gender", "campaign_hourly", "age_range"} {
		assert.Equal(t, "20260801", values[prefix+".p_start_date"], prefix)
		assert.Equal(t, "20260831", values[prefix+".p_end_date"], prefix)
		assert.Equal(t, "Google広告", values[prefix+".p_media"], prefix)
		assert.Equal(t, "夏セール", values[prefix+".p_campaign"], prefix)
	}
}

func TestEmbedURL_MultipleSelectionsJoined(t *testing.T) {
	f := testFilters()
	f.Media = []string{"Google広告", "Yahoo!広告"}

	raw, err := EmbedURL(testReportID, "メディア", f, model.AllFilters())
	require.NoError(t, err)
	assert.Equal(t, "Google広告,Yahoo!広告", decodeParams(t, raw)["campaign.p_media"])
}

func TestEmbedURL_NoFilters(t *testing.T) {
	raw, err := EmbedURL(testReportID, DefaultSheet, model.FilterSet{}, model.FilterFlags{})
	require.NoError(t, err)

	assert.NotContains(t, raw, "params=")
	assert.Contains(t, raw, "hideFilters=false")
}

func TestEmbedURL_UnknownSheet(t *testing.T) {
	_, err := EmbedURL(testReportID, "存在しないシート", model.FilterSet{}, model.FilterFlags{})
	assert.Error(t, err)
}

func TestEmbedURL_MissingReportID(t *testing.T) {
	_, err := EmbedURL("", DefaultSheet, model.FilterSet{}, model.FilterFlags{})
	assert.Error(t, err)
}

func TestEmbedURL_DateOnlyWithoutRange(t *testing.T) {
	f := model.FilterSet{Media: []string{"Google広告"}}

	raw, err := EmbedURL(testReportID, DefaultSheet, f, model.AllFilters())
	require.NoError(t, err)

	values := decodeParams(t, raw)
	assert.NotContains(t, values, "campaign.p_start_date")
	assert.Equal(t, "Google広告", values["campaign.p_media"])
}
