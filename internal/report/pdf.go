package report

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

const (
	pdfFont       = "Helvetica"
	pdfRowHeight  = 6.0
	pdfEmptyTable = "No data found for the selected period."
)

type pdfDoc struct {
	*fpdf.Fpdf
	tr func(string) string
}

func newPDF(m Meta) *pdfDoc {
	p := fpdf.New("L", "mm", "Letter", "")
	d := &pdfDoc{Fpdf: p, tr: p.UnicodeTranslatorFromDescriptor("")}
	p.SetMargins(10, 12, 10)
	p.SetAutoPageBreak(true, 15)
	p.AliasNbPages("")
	p.SetFooterFunc(func() {
		p.SetY(-12)
		p.SetFont(pdfFont, "I", 8)
		p.SetTextColor(117, 117, 117)
		p.CellFormat(0, 8, d.tr(fmt.Sprintf("%s | Page %d/{nb}", m.BusinessName, p.PageNo())), "", 0, "C", false, 0, "")
	})
	p.AddPage()
	return d
}

func (d *pdfDoc) heading(m Meta, title string) {
	d.SetTextColor(46, 64, 87)
	d.SetFont(pdfFont, "B", 12)
	d.CellFormat(0, 7, d.tr(m.BusinessName), "", 1, "C", false, 0, "")
	d.SetFont(pdfFont, "B", 18)
	d.CellFormat(0, 10, title, "", 1, "C", false, 0, "")
	d.SetFont(pdfFont, "", 11)
	d.CellFormat(0, 6, m.Period(), "", 1, "C", false, 0, "")
	d.SetFont(pdfFont, "", 9)
	d.SetTextColor(66, 66, 66)
	d.CellFormat(0, 5, "Generated on: "+m.GeneratedAt.Format("January 02, 2006 at 03:04 PM"), "", 1, "R", false, 0, "")
	d.CellFormat(0, 5, d.tr("Generated by: "+m.GeneratedBy), "", 1, "R", false, 0, "")
	d.Ln(4)
}

func (d *pdfDoc) section(title string) {
	d.SetFont(pdfFont, "B", 12)
	d.SetTextColor(74, 101, 114)
	d.CellFormat(0, 8, title, "", 1, "L", false, 0, "")
	d.SetTextColor(66, 66, 66)
}

func (d *pdfDoc) summary(rows [][2]string) {
	d.SetFont(pdfFont, "", 10)
	d.SetDrawColor(224, 224, 224)
	d.SetFillColor(250, 250, 250)
	for _, r := range rows {
		d.CellFormat(80, 7, r[0], "1", 0, "L", true, 0, "")
		d.CellFormat(60, 7, d.tr(r[1]), "1", 1, "R", true, 0, "")
	}
	d.Ln(5)
}

// table draws a header and zebra rows; the header repeats after page breaks.
func (d *pdfDoc) table(widths []float64, header []string, rows [][]string) {
	drawHeader := func() {
		d.SetFont(pdfFont, "B", 9)
		d.SetFillColor(68, 114, 196)
		d.SetTextColor(255, 255, 255)
		for i, h := range header {
			d.CellFormat(widths[i], 7, h, "1", 0, "C", true, 0, "")
		}
		d.Ln(-1)
		d.SetFont(pdfFont, "", 8)
		d.SetTextColor(66, 66, 66)
	}
	drawHeader()
	if len(rows) == 0 {
		d.CellFormat(sum(widths), pdfRowHeight, pdfEmptyTable, "1", 1, "C", false, 0, "")
		d.Ln(4)
		return
	}

	_, pageHeight := d.GetPageSize()
	_, _, _, bottom := d.GetMargins()
	for n, row := range rows {
		if d.GetY()+pdfRowHeight > pageHeight-bottom {
			d.AddPage()
			drawHeader()
		}
		if n%2 == 0 {
			d.SetFillColor(245, 245, 245)
		} else {
			d.SetFillColor(255, 255, 255)
		}
		for i, v := range row {
			align := "L"
			if i < len(header) && isNumeric(header[i]) {
				align = "R"
			}
			d.CellFormat(widths[i], pdfRowHeight, d.tr(clip(d.Fpdf, v, widths[i])), "1", 0, align, true, 0, "")
		}
		d.Ln(-1)
	}
	d.Ln(4)
}

func (d *pdfDoc) bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

var numericHeaders = map[string]bool{
	"Qty": true, "Qty Added": true, "Current Stock": true, "Price/Unit": true, "Total": true,
	"Cost Price": true, "Selling Price": true, "Total Value": true,
}

func isNumeric(header string) bool { return numericHeaders[header] }

func sum(ws []float64) float64 {
	var t float64
	for _, w := range ws {
		t += w
	}
	return t
}

// clip shortens s with an ellipsis so it fits a cell of width w.
func clip(p *fpdf.Fpdf, s string, w float64) string {
	limit := w - 2
	if p.GetStringWidth(s) <= limit {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && p.GetStringWidth(string(r)+"...") > limit {
		r = r[:len(r)-1]
	}
	return string(r) + "..."
}

func (r *SalesReport) PDF() ([]byte, error) {
	d := newPDF(r.Meta)
	d.heading(r.Meta, "SALES REPORT")

	d.section("REPORT SUMMARY")
	d.summary([][2]string{
		{"Total Sales Amount", r.money(r.Summary.TotalAmount)},
		{"Total Units Sold", strconv.Itoa(r.Summary.TotalQuantity)},
		{"Total Transactions", strconv.Itoa(r.Summary.TransactionCount)},
		{"Average Transaction Value", r.money(r.Summary.AverageTransactionValue)},
	})

	d.section("SALES DETAILS")
	rows := make([][]string, 0, len(r.Rows))
	for _, e := range r.Rows {
		rows = append(rows, []string{
			e.Timestamp.Format("2006-01-02 15:04"),
			e.ProductName,
			e.SKU,
			e.Category,
			strconv.Itoa(e.Quantity),
			r.money(e.UnitPrice),
			r.money(e.Total),
			e.ActorUsername,
		})
	}
	d.table(
		[]float64{32, 55, 28, 28, 16, 35, 35, 30.4},
		[]string{"Date", "Product", "SKU", "Category", "Qty", "Price/Unit", "Total", "Employee"},
		rows,
	)
	return d.bytes()
}

func (r *StockReport) PDF() ([]byte, error) {
	d := newPDF(r.Meta)
	d.heading(r.Meta, "STOCK MOVEMENT REPORT")

	d.section("REPORT SUMMARY")
	d.summary([][2]string{
		{"Total Products", strconv.Itoa(r.Summary.ProductCount)},
		{"Total Stock Value", r.money(r.Summary.TotalStockValue)},
		{"Total Stock Units", strconv.Itoa(r.Summary.TotalUnits)},
		{"Total Stock Additions", strconv.Itoa(r.Summary.AdditionCount)},
		{"Total Units Added", strconv.Itoa(r.Summary.UnitsAdded)},
	})

	d.section("STOCK ADDITIONS")
	rows := make([][]string, 0, len(r.Additions))
	for _, e := range r.Additions {
		rows = append(rows, []string{
			e.Timestamp.Format("2006-01-02 15:04"),
			e.ProductName,
			e.SKU,
			strconv.Itoa(e.Quantity),
			e.ActorUsername,
			r.priceChanges(e.OldCostPrice, e.NewCostPrice, e.OldSellingPrice, e.NewSellingPrice),
			e.PriceChangeReason,
		})
	}
	d.table(
		[]float64{30, 50, 26, 20, 28, 65, 40.4},
		[]string{"Date", "Product", "SKU", "Qty Added", "Added By", "Price Changes", "Reason"},
		rows,
	)

	d.section("CURRENT STOCK LEVELS")
	levels := make([][]string, 0, len(r.Levels))
	for _, p := range r.Levels {
		levels = append(levels, []string{
			p.Name,
			p.SKU,
			p.Category,
			strconv.Itoa(p.QuantityInStock),
			r.money(p.CostPrice),
			r.money(p.SellingPrice),
			r.money(p.TotalValue),
			StockStatus(p),
		})
	}
	d.table(
		[]float64{52, 28, 28, 24, 32, 32, 36, 27.4},
		[]string{"Product", "SKU", "Category", "Current Stock", "Cost Price", "Selling Price", "Total Value", "Status"},
		levels,
	)
	return d.bytes()
}

func (r *StockReport) priceChanges(oldCost, newCost, oldSell, newSell *decimal.Decimal) string {
	var out string
	if oldCost != nil && newCost != nil && !oldCost.Equal(*newCost) {
		out = fmt.Sprintf("Cost: %s -> %s", oldCost.StringFixed(2), newCost.StringFixed(2))
	}
	if oldSell != nil && newSell != nil && !oldSell.Equal(*newSell) {
		if out != "" {
			out += "; "
		}
		out += fmt.Sprintf("Sell: %s -> %s", oldSell.StringFixed(2), newSell.StringFixed(2))
	}
	if out == "" {
		return "-"
	}
	return out
}
