package sources

import (
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/briefing-monitor/internal/types"
)

// MinMetricsColumns is the column count a row needs: date plus six counters.
const MinMetricsColumns = 7

// ParseMetricsRow converts one sheet row. rowNum is the 1-based sheet row, used in errors.
func ParseMetricsRow(rowNum int, row []string) (types.MetricsRecord, error) {
	if len(row) < MinMetricsColumns {
		return types.MetricsRecord{}, &RowError{
			Row:     rowNum,
			Message: "expected at least 7 columns, got " + strconv.Itoa(len(row)),
		}
	}

	record := types.MetricsRecord{
		Date:   strings.TrimSpace(row[0]),
		Counts: make(map[string]int, len(types.MetricsCounters)),
	}
	for i, name := range types.MetricsCounters {
		cell := strings.TrimSpace(row[i+1])
		if cell == "" {
			record.Counts[name] = 0
			continue
		}
		n, err := strconv.Atoi(cell)
		if err != nil {
			return types.MetricsRecord{}, &RowError{Row: rowNum, Message: "invalid " + name, Cause: err}
		}
		record.Counts[name] = n
	}
	if len(row) > MinMetricsColumns {
		record.Notes = strings.TrimSpace(row[MinMetricsColumns])
	}
	return record, nil
}

// ParseMetricsRows drops the header row and converts the rest. Rows that fail to
// convert are logged and skipped.
func ParseMetricsRows(rows [][]string, logger *zap.Logger) []types.MetricsRecord {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(rows) <= 1 {
		return nil
	}

	records := make([]types.MetricsRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		record, err := ParseMetricsRow(i+2, row)
		if err != nil {
			logger.Warn("skipping invalid row", zap.Strings("row", row), zap.Error(err))
			continue
		}
		records = append(records, record)
	}
	return records
}
