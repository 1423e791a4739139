// Package query turns user instructions into executable SQL: it compiles
// filter fragments, synthesizes SQL through the generation service, and
// runs the result against the analytic store with AI-driven repair.
package query

import (
	"strings"

	"github.com/vorn-digital/adlens/internal/model"
)

// Clause selects the keyword a compiled filter fragment leads with:
// WHERE when the target query has no condition yet, AND when it is
// appended to an existing one.
type Clause string

const (
	ClauseWhere Clause = "WHERE"
	ClauseAnd   Clause = "AND"
)

const dateLayout = "2006-01-02"

// CompileFilters builds a SQL condition fragment from the session's
// filter selections. Fragments are emitted in a fixed order (date range,
// media list, campaign list) and joined with AND. The empty string is
// returned when nothing applies, with no clause keyword.
//
// Category values are interpolated as quoted literals without escaping.
// That mirrors the warehouse-side behavior this replaces: the values
// come from DistinctValues lookups against the same warehouse, and the
// escaping policy is an open product question, not something to harden
// silently here.
func CompileFilters(f model.FilterSet, apply model.FilterFlags, clause Clause) string {
	var conditions []string

	if apply.Date && f.HasDateRange() {
		conditions = append(conditions,
			"Date BETWEEN '"+f.StartDate.Format(dateLayout)+"' AND '"+f.EndDate.Format(dateLayout)+"'")
	}

	if apply.Media && len(f.Media) > 0 {
		conditions = append(conditions, "ServiceNameJA_Media IN ("+quoteList(f.Media)+")")
	}

	if apply.Campaign && len(f.Campaigns) > 0 {
		conditions = append(conditions, "CampaignName IN ("+quoteList(f.Campaigns)+")")
	}

	if len(conditions) == 0 {
		return ""
	}

	return " " + string(clause) + " " + strings.Join(conditions, " AND ")
}

func quoteList(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = "'" + v + "'"
	}
	return strings.Join(quoted, ", ")
}
