package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"

	"deal-desk/domain"
)

// SheetOptions configures the printed deal sheet.
type SheetOptions struct {
	PageSize   string
	FontFamily string
	FontSize   float64
	TitleSize  float64
	DateFormat string
	Margin     float64
}

// DefaultSheetOptions returns Letter-sized defaults.
func DefaultSheetOptions() SheetOptions {
	return SheetOptions{
		PageSize:   "Letter",
		FontFamily: "Arial",
		FontSize:   10,
		TitleSize:  16,
		DateFormat: "2006-01-02 15:04 MST",
		Margin:     15,
	}
}

// DealSheet renders saved deals as PDF. It only reads the snapshot; every
// currency and percentage string is produced here.
type DealSheet struct {
	options SheetOptions
}

func NewDealSheet(options SheetOptions) *DealSheet {
	return &DealSheet{options: options}
}

// Render writes the deal sheet for snapshot to w.
func (s *DealSheet) Render(w io.Writer, snapshot domain.DealSnapshot) error {
	pdf := gofpdf.New("P", "mm", s.options.PageSize, "")
	pdf.SetMargins(s.options.Margin, s.options.Margin, s.options.Margin)
	pdf.SetAutoPageBreak(true, s.options.Margin)
	pdf.SetTitle("Deal "+snapshot.ID, true)
	pdf.AddPage()

	s.header(pdf, snapshot)
	s.breakdown(pdf, snapshot.Resolved)
	s.lenders(pdf, snapshot.Eligibility)
	s.notes(pdf, snapshot)

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render deal sheet %s: %w", snapshot.ID, err)
	}
	return nil
}

func (s *DealSheet) header(pdf *gofpdf.Fpdf, snapshot domain.DealSnapshot) {
	pdf.SetFont(s.options.FontFamily, "B", s.options.TitleSize)
	pdf.CellFormat(0, 10, "Deal Summary", "", 1, "C", false, 0, "")

	pdf.SetFont(s.options.FontFamily, "", s.options.FontSize-1)
	pdf.SetTextColor(110, 110, 110)
	pdf.CellFormat(0, 5, fmt.Sprintf("Deal %s  |  Dealer %s", snapshot.ID, snapshot.DealerID), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 5, "Calculated "+snapshot.CalculatedAt.Format(s.options.DateFormat), "", 1, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(4)
}

func (s *DealSheet) breakdown(pdf *gofpdf.Fpdf, r domain.ResolvedDeal) {
	s.section(pdf, "Financial Breakdown")

	rows := [][2]string{
		{"Selling price", Currency(r.SellingPrice)},
		{"Doc fee", Currency(r.DocFee)},
		{"CVR fee", Currency(r.CVRFee)},
		{"State fees", Currency(r.StateFees)},
	}
	if r.TransitFee.IsPositive() {
		rows = append(rows, [2]string{"Out-of-state transit fee", Currency(r.TransitFee)})
	}
	rows = append(rows,
		[2]string{"Sales tax", Currency(r.SalesTax)},
		[2]string{"Out-the-door price", Currency(r.OutTheDoorPrice)},
		[2]string{"Net trade-in", Currency(r.NetTradeIn)},
		[2]string{"Total down", Currency(r.TotalDown)},
		[2]string{"Subtotal", Currency(r.SubTotal)},
		[2]string{"Backend products", Currency(r.BackendProducts)},
		[2]string{"Amount to finance", Currency(r.AmountToFinance)},
	)
	if r.IsOverfunded {
		rows = append(rows, [2]string{"Cash back to customer", Currency(r.CashBack)})
	}
	rows = append(rows,
		[2]string{"Term", fmt.Sprintf("%d months", r.LoanTerm)},
		[2]string{"Rate", Percent(r.InterestRate)},
		[2]string{"Monthly payment", Currency(r.MonthlyPayment)},
	)
	if r.FrontEndGross != nil {
		rows = append(rows, [2]string{"Front-end gross", Currency(*r.FrontEndGross)})
	}

	pdf.SetFont(s.options.FontFamily, "", s.options.FontSize)
	for _, row := range rows {
		pdf.CellFormat(90, 6, row[0], "B", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, row[1], "B", 1, "R", false, 0, "")
	}
	pdf.Ln(4)
}

func (s *DealSheet) lenders(pdf *gofpdf.Fpdf, results []domain.EligibilityResult) {
	s.section(pdf, "Lender Eligibility")

	pdf.SetFont(s.options.FontFamily, "", s.options.FontSize)
	if len(results) == 0 {
		pdf.CellFormat(0, 6, "No lenders configured.", "", 1, "L", false, 0, "")
		return
	}

	for _, r := range results {
		if r.Eligible {
			pdf.SetFont(s.options.FontFamily, "B", s.options.FontSize)
			pdf.CellFormat(70, 6, r.LenderName, "", 0, "L", false, 0, "")
			pdf.SetFont(s.options.FontFamily, "", s.options.FontSize)
			line := fmt.Sprintf("Tier %s, %s - %s", r.MatchedTier.Name,
				Percent(r.MatchedTier.MinRate), Percent(r.MatchedTier.MaxRate))
			if r.LTV != nil {
				line += ", LTV " + Percent(*r.LTV)
			}
			pdf.CellFormat(0, 6, line, "", 1, "L", false, 0, "")
			continue
		}

		pdf.SetTextColor(150, 40, 40)
		pdf.CellFormat(70, 6, r.LenderName, "", 0, "L", false, 0, "")
		pdf.MultiCell(0, 6, "Not eligible: "+strings.Join(r.RejectionReasons, "; "), "", "L", false)
		pdf.SetTextColor(0, 0, 0)
	}
	pdf.Ln(4)
}

func (s *DealSheet) notes(pdf *gofpdf.Fpdf, snapshot domain.DealSnapshot) {
	lines := append([]string{}, snapshot.CeilingNotes...)
	if snapshot.Inputs.Notes != "" {
		lines = append(lines, snapshot.Inputs.Notes)
	}
	if len(lines) == 0 {
		return
	}

	s.section(pdf, "Notes")
	pdf.SetFont(s.options.FontFamily, "", s.options.FontSize)
	for _, line := range lines {
		pdf.MultiCell(0, 5, line, "", "L", false)
	}
}

func (s *DealSheet) section(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont(s.options.FontFamily, "B", s.options.FontSize+2)
	pdf.SetFillColor(230, 236, 245)
	pdf.CellFormat(0, 7, title, "", 1, "L", true, 0, "")
	pdf.Ln(1)
}

// Currency formats d as US dollars with thousands separators, e.g. -$2,000.00.
func Currency(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	fixed := d.StringFixed(2)
	whole, cents, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	for i, c := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	return sign + "$" + b.String() + "." + cents
}

// Percent formats d with two decimals and a percent sign.
func Percent(d decimal.Decimal) string {
	return d.StringFixed(2) + "%"
}
