package export

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"ecgdigitize/internal/core"
)

// ReadSignals reads a delimited signal file back into one core.Signal
// per column, auto-detecting whether rows are separated by tabs,
// commas, or spaces (in that preference order, matching the project's
// loader scripts). Blank or malformed rows are skipped.
func ReadSignals(r io.Reader) ([]core.Signal, error) {
	scanner := bufio.NewScanner(r)

	var rows [][]float64
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		fields := splitRow(line)
		values := make([]float64, 0, len(fields))
		ok := true
		for _, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				ok = false
				break
			}
			values = append(values, v)
		}
		if !ok {
			continue
		}
		rows = append(rows, values)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, core.NewFailure("no valid rows found in signal file")
	}

	leadCount := len(rows[0])
	signals := make([]core.Signal, leadCount)
	for i := range signals {
		signals[i] = make(core.Signal, len(rows))
	}

	for t, row := range rows {
		for lead := 0; lead < leadCount && lead < len(row); lead++ {
			signals[lead][t] = row[lead]
		}
	}

	return signals, nil
}

func splitRow(line string) []string {
	switch {
	case strings.Contains(line, "\t"):
		return strings.Split(line, "\t")
	case strings.Contains(line, ","):
		return strings.Split(line, ",")
	default:
		return strings.Fields(line)
	}
}
