package cli

import (
	"encoding/json"
	"io"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/wakaladigital/wakala/internal/domain/models"
)

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printTable renders headers and rows with tablewriter.
func printTable(w io.Writer, headers []string, rows [][]string) error {
	table := tablewriter.NewWriter(w)
	table.Header(headers)
	for _, row := range rows {
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}

// statusText colours a loan status the way the web badges do.
func statusText(s models.LoanStatus) string {
	switch s {
	case models.LoanApproved:
		return color.GreenString(string(s))
	case models.LoanPending:
		return color.YellowString(string(s))
	case models.LoanRejected:
		return color.RedString(string(s))
	case models.LoanPaid:
		return color.BlueString(string(s))
	}
	return string(s)
}

// riskText colours a risk tolerance.
func riskText(r models.RiskTolerance) string {
	switch r {
	case models.RiskLow:
		return color.GreenString(string(r))
	case models.RiskMedium:
		return color.YellowString(string(r))
	case models.RiskHigh:
		return color.RedString(string(r))
	}
	return string(r)
}

// notice writes a warning line to w.
func notice(w io.Writer, msg string) {
	_, _ = io.WriteString(w, color.YellowString("! ")+msg+"\n")
}
