package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"RainSentinel/internal/model"
)

var csvHeader = []string{"date", "precipitation_in"}

// WriteJSON writes the records as a pretty-printed JSON array.
func WriteJSON(w io.Writer, records []model.DailyRecord) error {
	if records == nil {
		records = []model.DailyRecord{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal records: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

// ReadJSON parses output produced by WriteJSON.
func ReadJSON(r io.Reader) ([]model.DailyRecord, error) {
	var records []model.DailyRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	return records, nil
}

// WriteCSV writes a date,precipitation_in header and one row per record.
func WriteCSV(w io.Writer, records []model.DailyRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			r.Date.Format(model.DateLayout),
			strconv.FormatFloat(r.PrecipitationIn, 'f', -1, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses output produced by WriteCSV.
func ReadCSV(r io.Reader) ([]model.DailyRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(csvHeader)

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(rows) == 0 || rows[0][0] != csvHeader[0] || rows[0][1] != csvHeader[1] {
		return nil, fmt.Errorf("read csv: missing %s,%s header", csvHeader[0], csvHeader[1])
	}

	records := make([]model.DailyRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		d, err := model.ParseDate(row[0])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		v, err := strconv.ParseFloat(row[1], 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid precipitation %q: %w", i+2, row[1], err)
		}
		records = append(records, model.DailyRecord{Date: d, PrecipitationIn: v})
	}
	return records, nil
}
