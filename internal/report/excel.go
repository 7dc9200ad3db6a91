package report

import (
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	excelMoneyFormat = "#,##0.00"
	excelDateFormat  = "yyyy-mm-dd hh:mm"
)

// sheet writes rows top to bottom and keeps the first error.
type sheet struct {
	f      *excelize.File
	name   string
	row    int
	styles excelStyles
	err    error
}

type excelStyles struct {
	title, subtitle, header, money, date, integer int
}

func newWorkbook() (*excelize.File, excelStyles, error) {
	f := excelize.NewFile()
	var st excelStyles
	var err error
	styles := []struct {
		dst *int
		def *excelize.Style
	}{
		{&st.title, &excelize.Style{Font: &excelize.Font{Bold: true, Size: 16, Color: "2E4057"}}},
		{&st.subtitle, &excelize.Style{Font: &excelize.Font{Bold: true, Size: 12, Color: "4A6572"}}},
		{&st.header, &excelize.Style{
			Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
			Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
			Alignment: &excelize.Alignment{Horizontal: "center"},
		}},
		{&st.money, &excelize.Style{CustomNumFmt: strPtr(excelMoneyFormat)}},
		{&st.date, &excelize.Style{CustomNumFmt: strPtr(excelDateFormat)}},
		{&st.integer, &excelize.Style{NumFmt: 3}},
	}
	for _, s := range styles {
		if *s.dst, err = f.NewStyle(s.def); err != nil {
			f.Close()
			return nil, st, err
		}
	}
	return f, st, nil
}

func strPtr(s string) *string { return &s }

func (s *sheet) cell(col int) string {
	name, err := excelize.CoordinatesToCellName(col, s.row)
	if err != nil && s.err == nil {
		s.err = err
	}
	return name
}

func (s *sheet) set(col int, value interface{}, style int) {
	if s.err != nil {
		return
	}
	c := s.cell(col)
	if err := s.f.SetCellValue(s.name, c, value); err != nil {
		s.err = err
		return
	}
	if style != 0 {
		s.err = s.f.SetCellStyle(s.name, c, c, style)
	}
}

// line writes a single styled text line and advances.
func (s *sheet) line(text string, style int) {
	s.set(1, text, style)
	s.row++
}

func (s *sheet) header(cols ...string) {
	for i, h := range cols {
		s.set(i+1, h, s.styles.header)
	}
	s.row++
}

func (s *sheet) skip(n int) { s.row += n }

func (s *sheet) widths(widths ...float64) {
	for i, w := range widths {
		if s.err != nil {
			return
		}
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			s.err = err
			return
		}
		s.err = s.f.SetColWidth(s.name, col, col, w)
	}
}

func (s *sheet) metaBlock(m Meta, title string) {
	s.line(m.BusinessName, s.styles.subtitle)
	s.line(title, s.styles.title)
	s.line(m.Period(), s.styles.subtitle)
	s.line("Generated on: "+m.GeneratedAt.Format("January 02, 2006 at 03:04 PM"), 0)
	s.line("Generated by: "+m.GeneratedBy, 0)
	s.skip(1)
}

func (s *sheet) summaryRow(label string, value interface{}, style int) {
	s.set(1, label, 0)
	s.set(2, value, style)
	s.row++
}

func money(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}

func optMoney(d *decimal.Decimal) interface{} {
	if d == nil {
		return ""
	}
	return d.InexactFloat64()
}

func finish(f *excelize.File) ([]byte, error) {
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (r *SalesReport) Excel() ([]byte, error) {
	f, st, err := newWorkbook()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	const name = "Sales Report"
	if err := f.SetSheetName("Sheet1", name); err != nil {
		return nil, err
	}
	s := &sheet{f: f, name: name, row: 1, styles: st}
	s.metaBlock(r.Meta, "SALES REPORT")

	s.line("REPORT SUMMARY", st.subtitle)
	s.summaryRow("Total Sales Amount ("+r.Currency+")", money(r.Summary.TotalAmount), st.money)
	s.summaryRow("Total Units Sold", r.Summary.TotalQuantity, st.integer)
	s.summaryRow("Total Transactions", r.Summary.TransactionCount, st.integer)
	s.summaryRow("Average Transaction Value ("+r.Currency+")", money(r.Summary.AverageTransactionValue), st.money)
	s.skip(1)

	s.line("SALES DETAILS", st.subtitle)
	s.header("ID", "Product", "SKU", "Category", "Qty", "Price/Unit", "Total", "Date", "Employee")
	for _, e := range r.Rows {
		s.set(1, e.ID.String(), 0)
		s.set(2, e.ProductName, 0)
		s.set(3, e.SKU, 0)
		s.set(4, e.Category, 0)
		s.set(5, e.Quantity, st.integer)
		s.set(6, money(e.UnitPrice), st.money)
		s.set(7, money(e.Total), st.money)
		s.set(8, e.Timestamp, st.date)
		s.set(9, e.ActorUsername, 0)
		s.row++
	}
	s.widths(38, 28, 16, 16, 8, 14, 16, 18, 16)
	if s.err != nil {
		return nil, s.err
	}
	return finish(f)
}

func (r *StockReport) Excel() ([]byte, error) {
	f, st, err := newWorkbook()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	const name = "Stock Movement Report"
	if err := f.SetSheetName("Sheet1", name); err != nil {
		return nil, err
	}
	s := &sheet{f: f, name: name, row: 1, styles: st}
	s.metaBlock(r.Meta, "STOCK MOVEMENT REPORT")

	s.line("REPORT SUMMARY", st.subtitle)
	s.summaryRow("Total Products", r.Summary.ProductCount, st.integer)
	s.summaryRow("Total Stock Value ("+r.Currency+")", money(r.Summary.TotalStockValue), st.money)
	s.summaryRow("Total Stock Units", r.Summary.TotalUnits, st.integer)
	s.summaryRow("Total Stock Additions", r.Summary.AdditionCount, st.integer)
	s.summaryRow("Total Units Added", r.Summary.UnitsAdded, st.integer)
	s.skip(1)

	s.line("STOCK ADDITIONS", st.subtitle)
	s.header("ID", "Product", "SKU", "Category", "Qty Added", "Date", "Added By",
		"Old Cost", "New Cost", "Old Sell", "New Sell", "Reason")
	for _, e := range r.Additions {
		s.set(1, e.ID.String(), 0)
		s.set(2, e.ProductName, 0)
		s.set(3, e.SKU, 0)
		s.set(4, e.Category, 0)
		s.set(5, e.Quantity, st.integer)
		s.set(6, e.Timestamp, st.date)
		s.set(7, e.ActorUsername, 0)
		s.set(8, optMoney(e.OldCostPrice), st.money)
		s.set(9, optMoney(e.NewCostPrice), st.money)
		s.set(10, optMoney(e.OldSellingPrice), st.money)
		s.set(11, optMoney(e.NewSellingPrice), st.money)
		s.set(12, e.PriceChangeReason, 0)
		s.row++
	}
	s.skip(2)

	s.line("CURRENT STOCK LEVELS", st.subtitle)
	s.header("Product", "SKU", "Category", "Current Stock", "Cost Price", "Selling Price", "Total Value", "Status")
	for _, p := range r.Levels {
		s.set(1, p.Name, 0)
		s.set(2, p.SKU, 0)
		s.set(3, p.Category, 0)
		s.set(4, p.QuantityInStock, st.integer)
		s.set(5, money(p.CostPrice), st.money)
		s.set(6, money(p.SellingPrice), st.money)
		s.set(7, money(p.TotalValue), st.money)
		s.set(8, StockStatus(p), 0)
		s.row++
	}
	s.widths(38, 28, 16, 16, 14, 18, 16, 14, 14, 14, 14, 30)
	if s.err != nil {
		return nil, s.err
	}
	return finish(f)
}
