package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/garyjia/lic-claimdesk/internal/application/port"
	"github.com/garyjia/lic-claimdesk/internal/application/state"
	"github.com/garyjia/lic-claimdesk/internal/domain/claimdate"
	"github.com/garyjia/lic-claimdesk/internal/domain/entity"
	"github.com/garyjia/lic-claimdesk/internal/domain/workflow"
)

// Sheet names of the exported workbook
const (
	SheetActiveClaims          = "Active Claims"
	SheetCompletedClaims       = "Completed Claims"
	SheetSpecialCases          = "Special Cases"
	SheetCompletedSpecialCases = "Resolved Special Cases"
	SheetFollowUps             = "Follow-ups"
)

// ExportService writes the whole desk into a workbook in the export directory
type ExportService interface {
	// Export writes the workbook under name and returns its full path. An
	// empty name gets a timestamped default.
	Export(ctx context.Context, name string) (string, error)
	Sheets(ctx context.Context) []port.Sheet
}

type exportServiceImpl struct {
	store   *state.Store
	writer  port.WorkbookWriter
	storage port.FileStorage
	logger  Logger
	now     func() time.Time
}

// NewExportService creates a new ExportService
func NewExportService(store *state.Store, writer port.WorkbookWriter, storage port.FileStorage, logger Logger) ExportService {
	return &exportServiceImpl{
		store:   store,
		writer:  writer,
		storage: storage,
		logger:  logger,
		now:     time.Now,
	}
}

func (s *exportServiceImpl) Export(ctx context.Context, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = fmt.Sprintf("claimdesk-%s.xlsx", s.now().Format("20060102-150405"))
	}
	if !strings.EqualFold(filepath.Ext(name), ".xlsx") {
		name += ".xlsx"
	}

	sheets := s.Sheets(ctx)
	data, err := s.writer.Write(ctx, sheets)
	if err != nil {
		return "", fmt.Errorf("failed to render workbook: %w", err)
	}
	if err := s.storage.Save(ctx, name, data); err != nil {
		return "", fmt.Errorf("failed to save workbook: %w", err)
	}

	path := s.storage.GetFullPath(name)
	s.logger.Info("Workbook exported", "path", path, "bytes", len(data))
	return path, nil
}

func (s *exportServiceImpl) Sheets(ctx context.Context) []port.Sheet {
	st := s.store.State()

	active := port.Sheet{
		Name:    SheetActiveClaims,
		Headers: []string{"Policy No", "Claimant", "Claim Type", "Stage", "Commencement", "Death", "Query"},
	}
	for _, c := range st.ActiveClaims() {
		active.Rows = append(active.Rows, []string{
			c.PolicyNo, c.ClaimantName, c.ClaimType.String(), workflow.DeriveStage(c.Workflow).String(),
			c.CommencementDate, c.DeathDate, c.Query,
		})
	}

	completed := port.Sheet{
		Name:    SheetCompletedClaims,
		Headers: []string{"Policy No", "Claimant", "Claim Type", "Completed"},
	}
	for _, c := range st.CompletedClaims {
		completed.Rows = append(completed.Rows, []string{
			c.PolicyNo, c.ClaimantName, c.ClaimType.String(), c.CompletedAt.Format(claimdate.Layout),
		})
	}

	special := port.Sheet{
		Name:    SheetSpecialCases,
		Headers: []string{"Policy No", "Name", "Type", "Issue"},
	}
	for _, sc := range st.ActiveSpecialCases() {
		special.Rows = append(special.Rows, []string{sc.PolicyNo, sc.Name, sc.Type, sc.Issue})
	}

	resolved := port.Sheet{
		Name:    SheetCompletedSpecialCases,
		Headers: []string{"Policy No", "Name", "Type", "Issue", "Resolved"},
	}
	for _, c := range st.CompletedSpecialCases {
		resolved.Rows = append(resolved.Rows, []string{c.PolicyNo, c.Name, c.Type, c.Issue, c.ResolvedAt.Format(claimdate.Layout)})
	}

	return []port.Sheet{active, completed, special, resolved, followUpSheet(st.FollowUps)}
}

func followUpSheet(book *entity.FollowUpBook) port.Sheet {
	sheet := port.Sheet{Name: SheetFollowUps}
	sheet.Headers = append(sheet.Headers, book.Headers...)
	sheet.Headers = append(sheet.Headers, "Status", "Agent", "Agent Mobile", "Customer No", "Customer OP", "Remarks")
	for _, rec := range book.List() {
		row := make([]string, 0, len(sheet.Headers))
		for _, h := range book.Headers {
			row = append(row, rec.Columns[h])
		}
		row = append(row, string(rec.Status), rec.Agent, rec.AgentMobile, rec.CustomerNo, rec.CustomerOP, rec.Remarks)
		sheet.Rows = append(sheet.Rows, row)
	}
	return sheet
}
