package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garyjia/lic-claimdesk/internal/application/service"
	"github.com/garyjia/lic-claimdesk/internal/domain/entity"
)

func writeConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	cfg := fmt.Sprintf(`database:
  path: %s
export:
  dir: %s
logger:
  level: error
  output_path: stderr
  format: console
`, filepath.Join(dir, "claimdesk.db"), filepath.Join(dir, "exports"))
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o644))
	return path
}

func run(t *testing.T, configPath, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--config", configPath}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCLI_ClaimLifecycle(t *testing.T) {
	cfg := writeConfig(t)

	out, err := run(t, cfg, "", "claim", "save",
		"--policy", "123456789", "--name", "Asha Rao", "--type", "non-early",
		"--set", "nomineeAvailable=true", "--set", "deathClaimFormDocs=true")
	require.NoError(t, err)
	assert.Contains(t, out, "Claim progress saved successfully!")

	out, err = run(t, cfg, "", "--json", "claim", "list")
	require.NoError(t, err)
	var views []*service.ClaimView
	require.NoError(t, json.Unmarshal([]byte(out), &views))
	require.Len(t, views, 1)
	assert.Equal(t, "Asha Rao", views[0].Claim.ClaimantName)
	assert.True(t, views[0].Claim.Workflow.Bool(entity.FieldNomineeAvailable))

	_, err = run(t, cfg, "", "claim", "save", "--policy", "223456789", "--name", "Ravi", "--type", "early")
	require.NoError(t, err)
	_, err = run(t, cfg, "", "claim", "pay", "223456789")
	require.Error(t, err)
	msg, ok := service.UserMessage(err)
	require.True(t, ok)
	assert.Equal(t, service.MsgPaymentLocked, msg)

	out, err = run(t, cfg, "", "claim", "pay", "123456789")
	require.NoError(t, err)
	assert.Contains(t, out, "123456789")

	out, err = run(t, cfg, "", "--json", "stats")
	require.NoError(t, err)
	var counters entity.Counters
	require.NoError(t, json.Unmarshal([]byte(out), &counters))
	assert.Equal(t, 1, counters.ActiveClaims)
	assert.Equal(t, 1, counters.CompletedClaims)
}

func TestCLI_ClaimSaveMissingFields(t *testing.T) {
	cfg := writeConfig(t)

	_, err := run(t, cfg, "", "claim", "save", "--policy", "123456789")
	require.Error(t, err)
	msg, ok := service.UserMessage(err)
	require.True(t, ok)
	assert.Equal(t, service.MsgClaimBasicInfo, msg)
}

func TestCLI_FollowUpImportFromStdin(t *testing.T) {
	cfg := writeConfig(t)
	paste := "Policy No\tName\tDue Date\n123456789\tAsha\t01/04/2026\n987654321\tRavi\t15/04/2026\n"

	out, err := run(t, cfg, paste, "followup", "import")
	require.NoError(t, err)
	assert.Contains(t, out, "2 added")

	_, err = run(t, cfg, "", "followup", "update", "987654321", "--status", "red", "--remarks", "called twice")
	require.NoError(t, err)

	out, err = run(t, cfg, "", "--json", "followup", "list", "--status", "red")
	require.NoError(t, err)
	var records []*entity.FollowUpRecord
	require.NoError(t, json.Unmarshal([]byte(out), &records))
	require.Len(t, records, 1)
	assert.Equal(t, "987654321", records[0].PolicyNo)
	assert.Equal(t, "called twice", records[0].Remarks)
	assert.Equal(t, "Ravi", records[0].Columns["Name"])
}

func TestCLI_FollowUpImportEmpty(t *testing.T) {
	cfg := writeConfig(t)

	_, err := run(t, cfg, "   \n", "followup", "import")
	require.Error(t, err)
	msg, ok := service.UserMessage(err)
	require.True(t, ok)
	assert.Equal(t, service.MsgNothingToImport, msg)
}

func TestCLI_SpecialCaseResolve(t *testing.T) {
	cfg := writeConfig(t)

	_, err := run(t, cfg, "", "special", "save",
		"--policy", "555555555", "--name", "Latha", "--type", "Dispute", "--issue", "Nominee contested")
	require.NoError(t, err)

	out, err := run(t, cfg, "", "special", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Nominee contested")

	_, err = run(t, cfg, "", "special", "resolve", "555555555")
	require.NoError(t, err)

	out, err = run(t, cfg, "", "--json", "special", "completed")
	require.NoError(t, err)
	var done []*entity.CompletedSpecialCase
	require.NoError(t, json.Unmarshal([]byte(out), &done))
	require.Len(t, done, 1)
	assert.Equal(t, "Latha", done[0].Name)
}

func TestCLI_PremiumCalc(t *testing.T) {
	cfg := writeConfig(t)

	out, err := run(t, cfg, "", "premium", "plans")
	require.NoError(t, err)
	assert.Contains(t, out, "179")

	out, err = run(t, cfg, "", "premium", "calc", "--plan", "179", "--sa", "200000", "--age", "30", "--term", "20")
	require.NoError(t, err)
	assert.Contains(t, out, "Total premium:")

	_, err = run(t, cfg, "", "premium", "calc", "--plan", "179", "--sa", "0", "--age", "30", "--term", "20")
	require.Error(t, err)
	_, ok := service.UserMessage(err)
	assert.True(t, ok)
}

func TestCLI_Export(t *testing.T) {
	cfg := writeConfig(t)

	out, err := run(t, cfg, "", "export", "--name", "desk")
	require.NoError(t, err)
	assert.Contains(t, out, "desk.xlsx")

	path := strings.TrimSpace(strings.TrimPrefix(out, "Exported to "))
	_, err = os.Stat(path)
	assert.NoError(t, err)
}
