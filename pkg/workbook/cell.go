package workbook

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Kind classifies the value held by a Cell.
type Kind int

const (
	// Empty marks a missing value: a blank cell or a recognised NA marker.
	Empty Kind = iota
	// String is a text cell.
	String
	// Number is a numeric cell that is not formatted as a date.
	Number
	// Bool is a boolean cell.
	Bool
	// Date is a numeric cell carrying a date or date-time number format.
	Date
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case Empty:
		return "empty"
	case String:
		return "string"
	case Number:
		return "number"
	case Bool:
		return "bool"
	case Date:
		return "date"
	default:
		return "unknown(" + strconv.Itoa(int(k)) + ")"
	}
}

// DateLayout is the layout dates are normalized to.
const DateLayout = "2006-01-02"

// dateTimeLayout is how a date cell reads when it is concatenated into text.
const dateTimeLayout = "2006-01-02 15:04:05"

// Cell is a single typed spreadsheet value.
type Cell struct {
	Kind Kind
	Text string    // String cells
	Num  float64   // Number cells
	Raw  string    // Number cells, as stored in the sheet
	Bool bool      // Bool cells
	Time time.Time // Date cells
}

// Text returns a string cell.
func Text(s string) Cell {
	return Cell{Kind: String, Text: s}
}

// Missing reports whether the cell holds no value.
func (c Cell) Missing() bool {
	return c.Kind == Empty
}

// Blank reports whether a present value reads as empty once trimmed.
// Missing cells are not blank.
func (c Cell) Blank() bool {
	return !c.Missing() && strings.TrimSpace(c.String()) == ""
}

// String renders the cell the way it reads when joined into text: integral
// numbers without a fraction, dates with their time of day, booleans as
// True/False. Missing cells render as the empty string.
func (c Cell) String() string {
	switch c.Kind {
	case String:
		return c.Text
	case Number:
		return formatNumber(c.Raw, c.Num)
	case Bool:
		if c.Bool {
			return "True"
		}
		return "False"
	case Date:
		return c.Time.Format(dateTimeLayout)
	default:
		return ""
	}
}

// Value renders the cell for output records: dates become YYYY-MM-DD,
// everything else is passed through as String.
func (c Cell) Value() string {
	if c.Kind == Date {
		return c.Time.Format(DateLayout)
	}
	return c.String()
}

// formatNumber keeps integers stored as integers and prints other values
// in shortest form, switching to exponent notation outside [1e-4, 1e16).
func formatNumber(raw string, f float64) string {
	if raw != "" && !strings.ContainsAny(raw, ".eE") {
		if _, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return raw
		}
	}
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	abs := math.Abs(f)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// naMarkers are text values read as missing.
var naMarkers = map[string]struct{}{
	"":         {},
	"#N/A":     {},
	"#N/A N/A": {},
	"#NA":      {},
	"-1.#IND":  {},
	"-1.#QNAN": {},
	"-NaN":     {},
	"-nan":     {},
	"1.#IND":   {},
	"1.#QNAN":  {},
	"<NA>":     {},
	"N/A":      {},
	"NA":       {},
	"NULL":     {},
	"NaN":      {},
	"None":     {},
	"n/a":      {},
	"nan":      {},
	"null":     {},
}

// isNAMarker reports whether s is read as a missing value.
func isNAMarker(s string) bool {
	_, ok := naMarkers[s]
	return ok
}

// Grid is a rectangular block of cells anchored at A1.
type Grid [][]Cell

// Width returns the number of columns.
func (g Grid) Width() int {
	if len(g) == 0 {
		return 0
	}
	return len(g[0])
}

// Column returns the cell at column col of row, or an empty cell when the
// row is shorter.
func (g Grid) Column(row, col int) Cell {
	if row < 0 || row >= len(g) || col < 0 || col >= len(g[row]) {
		return Cell{}
	}
	return g[row][col]
}
