package cohort

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/parquet-go/parquet-go"

	"github.com/danribes/hypertension-microsim-sub000/internal/model"
)

const readBatchSize = 1024

// requiredColumns are the schema columns a cohort file must carry.
var requiredColumns = []string{
	"patient_id", "age_years", "sex", "office_sbp", "egfr", "potassium",
}

// validateSchema checks the Parquet schema before any row is trusted.
func validateSchema(schema *parquet.Schema) error {
	columns := make(map[string]bool)
	for _, field := range schema.Fields() {
		columns[strings.ToLower(field.Name())] = true
	}
	for _, col := range requiredColumns {
		if !columns[col] {
			return fmt.Errorf("missing required column: %s", col)
		}
	}
	return nil
}

// ReadFile loads a baseline cohort from a Parquet file, resolving each
// patient's phenotype profile against the given modifier tables. Any
// invalid row fails the whole load: baseline defects are rejected before
// simulation starts, not discovered mid-run.
func ReadFile(path string, modifiers map[model.Phenotype]map[model.Outcome]float64) ([]*model.Patient, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open cohort file: %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat cohort file: %w", err)
	}
	pf, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		return nil, fmt.Errorf("open parquet: %w", err)
	}

	reader := parquet.NewGenericReader[PatientRow](pf)
	defer reader.Close()

	if err := validateSchema(reader.Schema()); err != nil {
		return nil, fmt.Errorf("cohort schema: %w", err)
	}

	patients := make([]*model.Patient, 0, reader.NumRows())
	buf := make([]PatientRow, readBatchSize)
	for {
		n, readErr := reader.Read(buf)
		for i := 0; i < n; i++ {
			p, convErr := buf[i].ToPatient(modifiers)
			if convErr != nil {
				return nil, fmt.Errorf("cohort row %d: %w", len(patients)+i, convErr)
			}
			patients = append(patients, p)
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return nil, fmt.Errorf("read cohort rows: %w", readErr)
		}
	}
	return patients, nil
}

// WriteFile writes a baseline cohort as a Parquet file.
func WriteFile(path string, patients []*model.Patient) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create cohort file: %w", err)
	}

	writer := parquet.NewGenericWriter[PatientRow](f)
	rows := make([]PatientRow, len(patients))
	for i, p := range patients {
		rows[i] = FromPatient(p)
	}
	if _, err := writer.Write(rows); err != nil {
		f.Close()
		return fmt.Errorf("write cohort rows: %w", err)
	}
	if err := writer.Close(); err != nil {
		f.Close()
		return fmt.Errorf("close cohort writer: %w", err)
	}
	return f.Close()
}
