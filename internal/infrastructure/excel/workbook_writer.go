// Package excel escribe workbooks xlsx con excelize.
package excel

import (
	"fmt"
	"io"

	"github.com/jhoicas/Distribuidora-api/internal/application/dto"
	"github.com/xuri/excelize/v2"
)

// ContentType tipo MIME de los archivos generados.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// WorkbookWriter vuelca cada dto.Sheet en una hoja con encabezados en negrita.
type WorkbookWriter struct {
	colWidth float64
}

// NewWorkbookWriter construye el writer.
func NewWorkbookWriter() *WorkbookWriter {
	return &WorkbookWriter{colWidth: 18}
}

// Write genera el xlsx completo en w. Las hojas quedan en el orden recibido.
func (x *WorkbookWriter) Write(w io.Writer, wb *dto.Workbook) error {
	if len(wb.Sheets) == 0 {
		return fmt.Errorf("excel: workbook sin hojas")
	}
	f := excelize.NewFile()
	defer f.Close()

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
	})
	if err != nil {
		return fmt.Errorf("excel: estilo: %w", err)
	}

	for i, sheet := range wb.Sheets {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), sheet.Name); err != nil {
				return fmt.Errorf("excel: hoja %s: %w", sheet.Name, err)
			}
		} else if _, err := f.NewSheet(sheet.Name); err != nil {
			return fmt.Errorf("excel: hoja %s: %w", sheet.Name, err)
		}
		if err := x.writeSheet(f, sheet, header); err != nil {
			return fmt.Errorf("excel: hoja %s: %w", sheet.Name, err)
		}
	}
	f.SetActiveSheet(0)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("excel: escribir: %w", err)
	}
	return nil
}

func (x *WorkbookWriter) writeSheet(f *excelize.File, sheet dto.Sheet, headerStyle int) error {
	sw, err := f.NewStreamWriter(sheet.Name)
	if err != nil {
		return err
	}
	if len(sheet.Headers) > 0 {
		if err := sw.SetColWidth(1, len(sheet.Headers), x.colWidth); err != nil {
			return err
		}
	}

	headers := make([]interface{}, len(sheet.Headers))
	for i, h := range sheet.Headers {
		headers[i] = h
	}
	if err := sw.SetRow("A1", headers, excelize.RowOpts{StyleID: headerStyle}); err != nil {
		return err
	}
	for i, row := range sheet.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, row); err != nil {
			return err
		}
	}
	return sw.Flush()
}
