package usecase

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Bulk import CSV layout, one lead per line, header first:
//
//	name,category,acp,location,area,note,instagram_account,competitor_apps_discount,branches
//
// category may hold several values separated by ';'. Rows are comma-split
// verbatim (no quoting), matching the documented sheet export format.
const importFieldCount = 9

// MalformedRowError pins a parse failure to its row and field. One bad row
// never aborts the batch; it is reported and the importer moves on.
type MalformedRowError struct {
	Row     int
	Field   string
	Message string
}

func (e *MalformedRowError) Error() string {
	return fmt.Sprintf("row %d: field %q %s", e.Row, e.Field, e.Message)
}

func newMalformedRow(row int, field, message string) *MalformedRowError {
	return &MalformedRowError{Row: row, Field: field, Message: message}
}

// BulkImportUseCase turns a CSV payload into lead creation requests and runs
// them through the normal creation path, sequentially, fail-soft.
type BulkImportUseCase struct {
	Creator LeadCreatorInterface
	Roles   RoleResolverInterface
}

func NewBulkImportUseCase(creator LeadCreatorInterface, roles RoleResolverInterface) *BulkImportUseCase {
	return &BulkImportUseCase{Creator: creator, Roles: roles}
}

func (uc *BulkImportUseCase) Execute(ctx context.Context, input BulkImportInput) (*BulkImportOutput, error) {
	role, err := uc.Roles.Resolve(ctx, input.Actor)
	if err != nil {
		return nil, err
	}
	if !role.Role.CanWrite() {
		return nil, NewGuardViolation("write access is required to import leads")
	}

	requests, rowErrors := ParseImportRows(input.CSV, input.Actor)
	if len(requests) == 0 && len(rowErrors) == 0 {
		return nil, &DomainError{Code: CodeValidation, Message: "import payload has no data rows"}
	}

	output := &BulkImportOutput{}
	for _, rowErr := range rowErrors {
		output.Results = append(output.Results, ImportRowResult{
			Row:   rowErr.Row,
			Error: rowErr.Error(),
		})
		output.Failed++
	}

	for _, req := range requests {
		lead, err := uc.Creator.Execute(ctx, req.Input)
		if err != nil {
			output.Results = append(output.Results, ImportRowResult{
				Row:   req.Row,
				Name:  req.Input.Name,
				Error: err.Error(),
			})
			output.Failed++
			continue
		}
		output.Results = append(output.Results, ImportRowResult{
			Row:    req.Row,
			Name:   lead.Name,
			LeadID: lead.ID,
		})
		output.Imported++
	}

	sortResultsByRow(output.Results)
	return output, nil
}

// ImportRequest is one successfully parsed row, still carrying its row
// number for the report.
type ImportRequest struct {
	Row   int
	Input CreateLeadInput
}

// ParseImportRows parses the CSV payload. The header line is dropped, blank
// lines are skipped, and each remaining line becomes either a creation
// request or a MalformedRowError. Row numbers are 1-based over data lines.
func ParseImportRows(text string, actor Actor) ([]ImportRequest, []*MalformedRowError) {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(text, "\n")
	if len(lines) > 0 {
		lines = lines[1:] // header
	}

	var requests []ImportRequest
	var rowErrors []*MalformedRowError

	row := 0
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		row++

		input, err := parseImportRow(row, line, actor)
		if err != nil {
			rowErrors = append(rowErrors, err)
			continue
		}
		requests = append(requests, ImportRequest{Row: row, Input: input})
	}

	return requests, rowErrors
}

func parseImportRow(row int, line string, actor Actor) (CreateLeadInput, *MalformedRowError) {
	fields := strings.Split(line, ",")
	if len(fields) != importFieldCount {
		return CreateLeadInput{}, newMalformedRow(row, "line",
			fmt.Sprintf("has %d fields, expected %d", len(fields), importFieldCount))
	}
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}

	name := fields[0]
	if name == "" {
		return CreateLeadInput{}, newMalformedRow(row, "name", "is empty")
	}

	categories := cleanCategories(strings.Split(fields[1], ";"))
	if len(categories) == 0 {
		return CreateLeadInput{}, newMalformedRow(row, "category", "is empty")
	}

	acp, err := strconv.ParseFloat(fields[2], 64)
	if err != nil {
		return CreateLeadInput{}, newMalformedRow(row, "acp", fmt.Sprintf("%q is not a number", fields[2]))
	}
	if acp < 0 {
		return CreateLeadInput{}, newMalformedRow(row, "acp", "must not be negative")
	}

	if fields[3] == "" {
		return CreateLeadInput{}, newMalformedRow(row, "location", "is empty")
	}
	if fields[4] == "" {
		return CreateLeadInput{}, newMalformedRow(row, "area", "is empty")
	}

	note := fields[5]
	if note == "" {
		note = "No notes"
	}

	return CreateLeadInput{
		Name:     name,
		Category: categories,
		ACP:      acp,
		Location: fields[3],
		Area:     fields[4],
		Note: fmt.Sprintf("New lead created on %s\n Creator remarks: %s",
			time.Now().Format(time.RFC3339), note),
		InstagramAccount:       fields[6],
		CompetitorAppsDiscount: fields[7],
		Branches:               fields[8],
		Actor:                  actor,
	}, nil
}

func sortResultsByRow(results []ImportRowResult) {
	sort.Slice(results, func(i, j int) bool {
		return results[i].Row < results[j].Row
	})
}
