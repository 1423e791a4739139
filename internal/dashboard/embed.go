package dashboard

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/vorn-digital/adlens/internal/model"
)

const embedBase = "https://lookerstudio.google.com/embed/reporting"

const paramDateLayout = "20060102"

// EmbedURL builds the iframe URL for a dashboard sheet. Session
// filters are passed through the report's URL parameters as a
// JSON-encoded params blob; only the parameter names the sheet's data
// sources declare are populated. With apply disabled no parameters are
// sent and the report's own filter controls stay visible.
func EmbedURL(reportID, sheetName string, f model.FilterSet, apply model.FilterFlags) (string, error) {
	if reportID == "" {
		return "", eris.New("dashboard: report ID is not configured")
	}
	sheet, ok := LookupSheet(sheetName)
	if !ok {
		return "", eris.Errorf("dashboard: unknown sheet %q", sheetName)
	}

	base := fmt.Sprintf("%s/%s/page/%s", embedBase, reportID, sheet.PageID)

	values := map[string]string{}
	if apply.Date && sheet.Supports(model.FilterDate) && f.HasDateRange() {
		// Date params are keyed by name, not position: multi-source
		// sheets interleave start and end names per source.
		for _, name := range sheet.DateParams {
			switch {
			case strings.HasSuffix(name, "p_start_date"):
				values[name] = f.StartDate.Format(paramDateLayout)
			case strings.HasSuffix(name, "p_end_date"):
				values[name] = f.EndDate.Format(paramDateLayout)
			}
		}
	}
	if apply.Media && sheet.Supports(model.FilterMedia) && len(f.Media) > 0 {
		for _, name := range sheet.MediaParams {
			values[name] = strings.Join(f.Media, ",")
		}
	}
	if apply.Campaign && sheet.Supports(model.FilterCampaign) && len(f.Campaigns) > 0 {
		for _, name := range sheet.CampaignParams {
			values[name] = strings.Join(f.Campaigns, ",")
		}
	}

	hideFilters := apply.Date || apply.Media || apply.Campaign
	if len(values) == 0 {
		return fmt.Sprintf("%s?hideFilters=%t", base, hideFilters), nil
	}

	blob, err := json.Marshal(values)
	if err != nil {
		return "", eris.Wrap(err, "dashboard: encode params")
	}
	return fmt.Sprintf("%s?params=%s&hideFilters=%t", base, url.QueryEscape(string(blob)), hideFilters), nil
}
