// Package export renders admin order listings as CSV and XLSX downloads.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/tealeg/xlsx"

	"github.com/digitalloot/storefront/services/admin/internal/models"
)

const (
	ContentTypeCSV  = "text/csv; charset=utf-8"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	dateLayout = "02/01/2006 15:04"
	sheetName  = "Pedidos"
)

var Header = []string{"ID", "Cliente", "Email", "Teléfono", "Fecha", "Total", "Estado", "Método Pago", "Items", "Notas"}

// Filename returns pedidos_YYYY-MM-DD.<ext> for the given day.
func Filename(now time.Time, ext string) string {
	return fmt.Sprintf("pedidos_%s.%s", now.Format("2006-01-02"), ext)
}

// Row flattens an order into the export columns. Dates are shown in loc.
func Row(o models.Order, loc *time.Location) []string {
	if loc == nil {
		loc = time.UTC
	}
	return []string{
		o.ID.String(),
		orDefault(o.CustomerName, "Sin nombre"),
		orDefault(o.CustomerEmail, "Sin email"),
		orDefault(o.CustomerPhone, "Sin teléfono"),
		o.CreatedAt.In(loc).Format(dateLayout),
		o.Total.StringFixed(2),
		string(o.Status),
		orDefault(o.PaymentMethod, "No especificado"),
		strconv.Itoa(len(o.Items)),
		o.Notes,
	}
}

// CSV writes the header and one line per order. Fields holding commas,
// quotes or line breaks are quoted.
func CSV(w io.Writer, orders []models.Order, loc *time.Location) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, o := range orders {
		if err := cw.Write(Row(o, loc)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func XLSX(w io.Writer, orders []models.Order, loc *time.Location) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet(sheetName)
	if err != nil {
		return fmt.Errorf("add sheet: %w", err)
	}

	header := sheet.AddRow()
	for _, h := range Header {
		header.AddCell().SetString(h)
	}

	for _, o := range orders {
		row := sheet.AddRow()
		for i, v := range Row(o, loc) {
			cell := row.AddCell()
			switch i {
			case 5:
				f, _ := o.Total.Float64()
				cell.SetFloatWithFormat(f, "0.00")
			case 8:
				cell.SetInt(len(o.Items))
			default:
				cell.SetString(v)
			}
		}
	}

	return file.Write(w)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
