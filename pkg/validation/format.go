// Package validation provides common validation utilities.
package validation

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/iwvelando/study-estimator/pkg/constants"
)

// ValidateOutputFormat checks if the output format is one of the supported formats.
func ValidateOutputFormat(format string) error {
	switch format {
	case constants.OutputFormatPretty, constants.OutputFormatCSV, constants.OutputFormatJSON:
		return nil
	}
	return fmt.Errorf("expected output format of %s, %s or %s, got %s",
		constants.OutputFormatPretty, constants.OutputFormatCSV, constants.OutputFormatJSON, format)
}

// ValidateExportFormat checks if the export format is xlsx or pdf.
func ValidateExportFormat(format string) error {
	if format != constants.ExportFormatXLSX && format != constants.ExportFormatPDF {
		return fmt.Errorf("expected export format of %s or %s, got %s",
			constants.ExportFormatXLSX, constants.ExportFormatPDF, format)
	}
	return nil
}

// ExportFormatFromPath derives the export format from a file extension.
func ExportFormatFromPath(path string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if err := ValidateExportFormat(ext); err != nil {
		return "", fmt.Errorf("unsupported export file %q: %w", path, err)
	}
	return ext, nil
}
