package main

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/aljamieianynpharmacy-commits/elyousr-erp-sub003/pkg/contracts/domain"
)

// printStatus writes status as indented JSON or as a two-column table.
func printStatus(w io.Writer, status domain.LicenseStatus, jsonOut bool) error {
	if jsonOut {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(status)
	}

	rows := [][]string{
		{"Status", string(status.Status)},
		{"Message", status.Message},
	}
	if d := status.Details; d != nil {
		rows = append(rows,
			[]string{"Customer", d.CustomerName},
			[]string{"License ID", d.LicenseID},
			[]string{"Expires", d.ExpiresAt},
		)
		if len(d.Features) > 0 {
			rows = append(rows, []string{"Features", strings.Join(d.Features, ", ")})
		}
	}

	printTable(w, []string{"Field", "Value"}, rows)
	return nil
}

func printTable(w io.Writer, header []string, rows [][]string) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	table.SetNoWhiteSpace(true)
	table.AppendBulk(rows)
	table.Render()
}
