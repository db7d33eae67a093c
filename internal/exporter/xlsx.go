package exporter

import (
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	apperrors "sispulse/internal/errors"
	"sispulse/pkg/contracts/domain"
)

const cleanedSheet = "Cleaned Master"

// ExportCleanedXLSX writes the cleaned master table as a spreadsheet for
// Excel consumers. The column layout matches the CSV export exactly.
func ExportCleanedXLSX(path string, records []domain.CleanedRecord, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", cleanedSheet); err != nil {
		return apperrors.NewStorageError("failed to rename worksheet", err)
	}

	header := make([]interface{}, len(domain.CleanedHeader))
	for i, h := range domain.CleanedHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(cleanedSheet, "A1", &header); err != nil {
		return apperrors.NewStorageError("failed to write worksheet header", err)
	}

	for i, row := range CleanedRows(records) {
		cells := make([]interface{}, len(row))
		for j, cell := range row {
			cells[j] = cell
		}
		axis := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(cleanedSheet, axis, &cells); err != nil {
			return apperrors.NewStorageError(fmt.Sprintf("failed to write worksheet row %d", i+2), err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to save workbook at %s", path), err)
	}

	logger.Info("wrote XLSX snapshot",
		slog.String("path", path),
		slog.Int("rows", len(records)))

	return nil
}
