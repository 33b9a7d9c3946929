package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/xuri/excelize/v2"

	"loan-aggregator/domain"
)

const (
	exportSheet    = "Leads"
	exportPageSize = maxLeadPageSize
	exportMaxPages = 50
)

var exportHeader = []any{
	"ID", "Created", "Full name", "Phone", "Email", "City",
	"Monthly income", "Employment", "Loan amount", "Lender", "Status", "Source page",
}

// ExportLeads downloads every lead as an XLSX workbook.
func (h *AdminHandler) ExportLeads(w http.ResponseWriter, r *http.Request) {
	leads, err := h.collectLeads(r.Context())
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	buf, err := buildLeadWorkbook(leads)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	h.log.Info().
		Int("leads", len(leads)).
		Str("admin", adminSubject(r.Context())).
		Msg("Exported leads")

	name := fmt.Sprintf("leads-%s.xlsx", time.Now().UTC().Format("20060102"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf)
}

func (h *AdminHandler) collectLeads(ctx context.Context) ([]domain.AdminLead, error) {
	var all []domain.AdminLead
	for page := 1; page <= exportMaxPages; page++ {
		batch, err := h.backend.Leads(ctx, page, exportPageSize)
		if err != nil {
			return nil, err
		}
		all = append(all, batch.Leads...)
		if len(batch.Leads) < exportPageSize || (batch.Total > 0 && len(all) >= batch.Total) {
			return all, nil
		}
	}
	h.log.Warn().Int("leads", len(all)).Msg("Lead export truncated")
	return all, nil
}

func buildLeadWorkbook(leads []domain.AdminLead) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetSheetRow(exportSheet, "A1", &exportHeader); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	for i, l := range leads {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []any{
			l.ID,
			l.CreatedAt.UTC().Format(time.RFC3339),
			l.FullName,
			l.Phone,
			l.Email,
			l.City,
			l.MonthlyIncome,
			l.EmploymentType,
			l.LoanAmount,
			l.LenderName,
			l.Status,
			l.SourcePage,
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write lead %s: %w", l.ID, err)
		}
	}

	if err := f.SetColWidth(exportSheet, "A", "L", 18); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("encode workbook: %w", err)
	}
	return buf.Bytes(), nil
}
