package stats

import (
	"strconv"
	"strings"
)

// Summarize describes the column in one line, given the row count of the
// whole sheet.
func (p *Profile) Summarize(totalRowCount int) string {
	if p.isTag {
		yes := totalRowCount - p.blankCount
		percent := 0.0
		if totalRowCount > 0 {
			// one decimal place, truncated
			percent = float64(yes*1000/totalRowCount) / 10
		}
		return "(tag) " + strconv.Itoa(yes) + " (" + formatNumber(percent) + "%) rows tagged"
	}

	if p.blankCount == totalRowCount {
		return "(empty)"
	}
	if len(p.uniques) == totalRowCount {
		return "(all unique)"
	}

	var text string
	if len(p.uniques) > p.summaryLine {
		if p.isNumeric {
			text = "Number in range (" + formatNumber(p.min) + "," + formatNumber(p.max) + ")"
		} else {
			text = strconv.Itoa(len(p.uniques)) + " total unique values"
		}
	} else {
		text = strings.Join(p.FrequencyLabels(), ",")
	}

	if p.blankCount > 0 {
		text += " (" + strconv.Itoa(p.blankCount) + " blank)"
	} else if len(p.uniques) == 1 {
		text += " (constant)"
	}
	return text
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
