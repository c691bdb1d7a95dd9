package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garyjia/lic-claimdesk/internal/application/port"
	"github.com/garyjia/lic-claimdesk/internal/application/state"
	"github.com/garyjia/lic-claimdesk/internal/domain/entity"
)

func seededStore(t *testing.T) *state.Store {
	t.Helper()
	store, _ := newTestStore(t, nil)
	require.NoError(t, store.Mutate(context.Background(), func(st *state.AppState) error {
		st.Claims["123456789"] = &entity.Claim{
			PolicyNo:     "123456789",
			ClaimantName: "Asha",
			ClaimType:    entity.ClaimTypeEarly,
			Workflow:     entity.WorkflowState{entity.FieldDeathClaimFormDocs: true},
		}
		st.CompletedClaims = append(st.CompletedClaims, &entity.CompletedClaim{ID: "c1", PolicyNo: "223456789", CompletedAt: fixedClock()})
		st.FollowUps.Headers = []string{"Policy No", "Name"}
		st.FollowUps.Put(&entity.FollowUpRecord{
			PolicyNo: "323456789",
			Columns:  map[string]string{"Policy No": "323456789", "Name": "Kiran"},
			Status:   entity.FollowUpYellow,
		})
		return nil
	}))
	return store
}

func TestExportService_Export(t *testing.T) {
	var gotSheets []port.Sheet
	var savedPath string
	writer := &mockWorkbookWriter{
		writeFunc: func(ctx context.Context, sheets []port.Sheet) ([]byte, error) {
			gotSheets = sheets
			return []byte("PK"), nil
		},
	}
	storage := &mockFileStorage{
		saveFunc: func(ctx context.Context, path string, content []byte) error {
			savedPath = path
			assert.Equal(t, []byte("PK"), content)
			return nil
		},
	}
	svc := NewExportService(seededStore(t), writer, storage, port.NopLogger{}).(*exportServiceImpl)
	svc.now = fixedClock

	path, err := svc.Export(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "claimdesk-20260310-093000.xlsx", savedPath)
	assert.Equal(t, "/exports/claimdesk-20260310-093000.xlsx", path)

	require.Len(t, gotSheets, 5)
	active := gotSheets[0]
	assert.Equal(t, SheetActiveClaims, active.Name)
	require.Len(t, active.Rows, 1)
	assert.Equal(t, "Documents Received", active.Rows[0][3])

	follow := gotSheets[4]
	assert.Equal(t, []string{"Policy No", "Name", "Status", "Agent", "Agent Mobile", "Customer No", "Customer OP", "Remarks"}, follow.Headers)
	assert.Equal(t, "Kiran", follow.Rows[0][1])
	assert.Equal(t, "yellow", follow.Rows[0][2])
}

func TestExportService_ExportNamesAndErrors(t *testing.T) {
	var savedPath string
	storage := &mockFileStorage{
		saveFunc: func(ctx context.Context, path string, content []byte) error {
			savedPath = path
			return nil
		},
	}
	svc := NewExportService(seededStore(t), &mockWorkbookWriter{}, storage, port.NopLogger{})

	_, err := svc.Export(context.Background(), "march")
	require.NoError(t, err)
	assert.Equal(t, "march.xlsx", savedPath)

	failing := NewExportService(seededStore(t), &mockWorkbookWriter{
		writeFunc: func(ctx context.Context, sheets []port.Sheet) ([]byte, error) {
			return nil, errors.New("boom")
		},
	}, storage, port.NopLogger{})
	_, err = failing.Export(context.Background(), "x.xlsx")
	assert.Error(t, err)
}
