package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/garyjia/lic-claimdesk/internal/application/dispatcher"
	"github.com/garyjia/lic-claimdesk/internal/application/port"
	"github.com/garyjia/lic-claimdesk/internal/domain/entity"
	"github.com/garyjia/lic-claimdesk/internal/followup"
)

func newFollowUpService(t *testing.T) *followUpServiceImpl {
	t.Helper()
	d := dispatcher.NewDispatcher()
	store, _ := newTestStore(t, d)
	svc := NewFollowUpService(store, d, port.NopLogger{}).(*followUpServiceImpl)
	svc.now = fixedClock
	return svc
}

const pasted = "Policy No\tName\tBranch\n" +
	"123456789\tAsha\tNorth\n" +
	"223456789\tRavi\tSouth\n" +
	"total\t\t\n"

func strPtr(s string) *string { return &s }

func TestFollowUpService_ImportAndReimportKeepsLocalFields(t *testing.T) {
	svc := newFollowUpService(t)
	ctx := context.Background()

	res, err := svc.Import(ctx, pasted)
	require.NoError(t, err)
	assert.Equal(t, followup.HeaderDetected, res.Parse.HeaderDecision)
	assert.Equal(t, 2, res.Stats.Added)
	assert.Equal(t, 1, res.Stats.Skipped)

	red := entity.FollowUpRed
	rec, err := svc.Update(ctx, "123456789", FollowUpPatch{
		Status:      &red,
		Agent:       strPtr("Suresh"),
		AgentMobile: strPtr("98765 43210"),
		Remarks:     strPtr("call back monday"),
	})
	require.NoError(t, err)
	assert.Equal(t, "+919876543210", rec.AgentMobile)

	res, err = svc.Import(ctx, "Policy No\tName\tBranch\n123456789\tAsha R\tEast\n")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Stats.Updated)

	list, err := svc.List(ctx, "", "123456789")
	require.NoError(t, err)
	require.Len(t, list, 1)
	got := list[0]
	assert.Equal(t, entity.FollowUpRed, got.Status)
	assert.Equal(t, "Suresh", got.Agent)
	assert.Equal(t, "call back monday", got.Remarks)
	assert.Equal(t, "East", got.Columns["Branch"])
	assert.Equal(t, "Asha R", got.Columns["Name"])
}

func TestFollowUpService_ImportErrors(t *testing.T) {
	svc := newFollowUpService(t)
	ctx := context.Background()

	_, err := svc.Import(ctx, "  \n ")
	assert.ErrorIs(t, err, followup.ErrEmptyInput)
	msg, _ := UserMessage(err)
	assert.Equal(t, MsgNothingToImport, msg)

	res, err := svc.Import(ctx, "Name\tBranch\nAsha\tNorth\n")
	assert.ErrorIs(t, err, followup.ErrNoRows)
	require.NotNil(t, res)
	assert.Len(t, res.Parse.Skipped, 1)
}

func TestFollowUpService_UpdateValidation(t *testing.T) {
	svc := newFollowUpService(t)
	ctx := context.Background()

	_, err := svc.Update(ctx, "123456789", FollowUpPatch{})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Import(ctx, pasted)
	require.NoError(t, err)

	purple := entity.FollowUpStatus("purple")
	_, err = svc.Update(ctx, "123456789", FollowUpPatch{Status: &purple})
	require.Error(t, err)
	_, isUser := UserMessage(err)
	assert.True(t, isUser)
}

func TestFollowUpService_ListFilterRemoveClear(t *testing.T) {
	svc := newFollowUpService(t)
	ctx := context.Background()

	_, err := svc.Import(ctx, pasted)
	require.NoError(t, err)
	green := entity.FollowUpGreen
	_, err = svc.Update(ctx, "223456789", FollowUpPatch{Status: &green})
	require.NoError(t, err)

	greens, err := svc.List(ctx, entity.FollowUpGreen, "")
	require.NoError(t, err)
	require.Len(t, greens, 1)
	assert.Equal(t, "223456789", greens[0].PolicyNo)

	bySearch, err := svc.List(ctx, "", "north")
	require.NoError(t, err)
	require.Len(t, bySearch, 1)
	assert.Equal(t, "123456789", bySearch[0].PolicyNo)

	assert.Equal(t, []string{"Policy No", "Name", "Branch"}, svc.Headers(ctx))

	require.NoError(t, svc.Remove(ctx, "223456789"))
	assert.ErrorIs(t, svc.Remove(ctx, "223456789"), ErrNotFound)

	n, err := svc.Clear(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	all, _ := svc.List(ctx, "", "")
	assert.Empty(t, all)
}

func TestFollowUpService_ImportFile(t *testing.T) {
	svc := newFollowUpService(t)
	ctx := context.Background()
	dir := t.TempDir()

	csvPath := filepath.Join(dir, "list.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("Policy No,Name\n323456789,Kiran\n"), 0644))
	res, err := svc.ImportFile(ctx, csvPath, "")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Stats.Added)

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"Policy No", "Name"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{"423456789", "Meena"}))
	xlsxPath := filepath.Join(dir, "list.xlsx")
	require.NoError(t, f.SaveAs(xlsxPath))
	require.NoError(t, f.Close())

	res, err = svc.ImportFile(ctx, xlsxPath, "")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Stats.Added)

	all, _ := svc.List(ctx, "", "")
	assert.Len(t, all, 2)

	_, err = svc.ImportFile(ctx, filepath.Join(dir, "missing.txt"), "")
	assert.Error(t, err)
}
