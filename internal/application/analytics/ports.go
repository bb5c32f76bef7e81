package analytics

import (
	"io"

	"github.com/jhoicas/Distribuidora-api/internal/application/dto"
)

// SheetWriter serializa un workbook multi-hoja (xlsx) al writer indicado.
type SheetWriter interface {
	Write(w io.Writer, wb *dto.Workbook) error
}
