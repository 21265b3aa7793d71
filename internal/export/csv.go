package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
)

// WriteSeries writes values as two columns with a header row. The first
// column is start + i*step.
func WriteSeries(w io.Writer, xName, yName string, values []float64, start, step float64) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{xName, yName}); err != nil {
		return err
	}
	for i, v := range values {
		row := []string{
			strconv.FormatFloat(start+float64(i)*step, 'f', 6, 64),
			strconv.FormatFloat(v, 'g', 9, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func WriteSeriesFile(path, xName, yName string, values []float64, start, step float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteSeries(f, xName, yName, values, start, step); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}
