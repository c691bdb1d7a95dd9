package followup

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/garyjia/lic-claimdesk/internal/domain/entity"
)

func TestChooseDelimiter(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  Delimiter
	}{
		{"tab anywhere", []string{"a,b,c", "x\ty"}, DelimTab},
		{"consistent commas", []string{"a,b,c", "1,2,3"}, DelimComma},
		{"inconsistent commas", []string{"a,b,c", "1,2"}, DelimMultiSpace},
		{"no delimiters", []string{"123456789  Ravi  Kumar"}, DelimMultiSpace},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ChooseDelimiter(tt.lines))
		})
	}
}

func TestTextParser_TabWithHeader(t *testing.T) {
	input := "Policy No\tName\tFUP\tPremium\n" +
		"123456789\tAsha Devi\t03/2024\t5400\n" +
		"\n" +
		"not a policy\tNobody\t\t\n" +
		"987654321\tRavi\t04/2024\t2100\r\n"

	res, err := Parse(input)
	require.NoError(t, err)

	assert.Equal(t, "text/tab", res.Format)
	assert.Equal(t, HeaderDetected, res.HeaderDecision)
	assert.Equal(t, []string{"Policy No", "Name", "FUP", "Premium"}, res.Headers)
	assert.Equal(t, "Policy No", res.PolicyColumn)
	require.Len(t, res.Rows, 2)
	assert.Equal(t, "123456789", res.Rows[0].PolicyNo)
	assert.Equal(t, "Asha Devi", res.Rows[0].Cells["Name"])
	require.Len(t, res.Skipped, 1)
	assert.Equal(t, 3, res.Skipped[0].Line)
	assert.NotEmpty(t, res.Skipped[0].Reason)
}

func TestTextParser_CommaQuoted(t *testing.T) {
	input := "policy,name,amount\n123456789,\"Devi, Asha\",5400\n"

	res, err := Parse(input)
	require.NoError(t, err)
	assert.Equal(t, "text/comma", res.Format)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, "Devi, Asha", res.Rows[0].Cells["name"])
}

func TestTextParser_SynthesizedHeaders(t *testing.T) {
	input := "123456789  Asha Devi  15/03/2024  5400  YLY\n" +
		"987654321  Ravi Kumar  16/03/2024  2100  HLY\n"

	res, err := Parse(input)
	require.NoError(t, err)
	assert.Equal(t, HeaderSynthesized, res.HeaderDecision)
	assert.Equal(t, knownLayouts[5], res.Headers)
	require.Len(t, res.Rows, 2)
	assert.Equal(t, "Ravi Kumar", res.Rows[1].Cells["Name"])
}

func TestTextParser_UnknownWidthUsesColNames(t *testing.T) {
	res, err := Parse("x\t123456789\ty\tz\n")
	require.NoError(t, err)
	assert.Equal(t, []string{"Col 1", "Col 2", "Col 3", "Col 4"}, res.Headers)
	assert.Equal(t, "Col 2", res.PolicyColumn)
	assert.Equal(t, "123456789", res.Rows[0].PolicyNo)
}

func TestTextParser_PolicyTokenInsideCell(t *testing.T) {
	res, err := Parse("Policy\tName\nPol# 123456789 (lapsed)\tAsha\n")
	require.NoError(t, err)
	assert.Equal(t, "123456789", res.Rows[0].PolicyNo)
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse("   \n\n")
	assert.ErrorIs(t, err, ErrEmptyInput)

	res, err := Parse("Policy\tName\nabc\tdef\n")
	assert.ErrorIs(t, err, ErrNoRows)
	require.NotNil(t, res)
	assert.Len(t, res.Skipped, 1)
}

func TestHTMLParser(t *testing.T) {
	input := `<meta charset="utf-8"><table>
<thead><tr><th>Policy No</th><th>Name</th><th colspan="2">Premium</th></tr></thead>
<tbody>
<tr><td>123456789</td><td>Asha<br>Devi</td><td>5400</td><td>YLY</td></tr>
<tr><td>total</td><td></td><td>5400</td><td></td></tr>
</tbody></table>`

	res, err := Parse(input)
	require.NoError(t, err)
	assert.Equal(t, "html", res.Format)
	assert.Equal(t, HeaderDetected, res.HeaderDecision)
	assert.Equal(t, []string{"Policy No", "Name", "Premium", "Col 4"}, res.Headers)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, "Asha Devi", res.Rows[0].Cells["Name"])
	assert.Equal(t, "YLY", res.Rows[0].Cells["Col 4"])
	assert.Len(t, res.Skipped, 1)
}

func TestParseXLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"Policy Number", "Agent", "Mobile"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{"123456789", "Gopal", "9876543210"}))
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	res, err := ParseXLSX(&buf, "")
	require.NoError(t, err)
	assert.Equal(t, "xlsx", res.Format)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, "Gopal", res.Rows[0].Cells["Agent"])
}

func TestMerge_PreservesLocalFields(t *testing.T) {
	book := entity.NewFollowUpBook()
	first := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	res, err := Parse("Policy No\tName\tFUP\n123456789\tAsha\t01/2024\n")
	require.NoError(t, err)
	stats := Merge(book, res, first)
	assert.Equal(t, MergeStats{Added: 1}, stats)

	rec := book.Get("123456789")
	require.NotNil(t, rec)
	assert.Equal(t, entity.FollowUpGrey, rec.Status)

	rec.Status = entity.FollowUpYellow
	rec.Agent = "Gopal"
	rec.AgentMobile = "+919876543210"
	rec.Remarks = "called twice"

	second := first.Add(24 * time.Hour)
	res, err = Parse("Policy No\tName\tFUP\tPremium\n123456789\tAsha Devi\t02/2024\t5400\n555555555\tNew\t02/2024\t100\n")
	require.NoError(t, err)
	stats = Merge(book, res, second)
	assert.Equal(t, MergeStats{Added: 1, Updated: 1}, stats)

	rec = book.Get("123456789")
	assert.Equal(t, entity.FollowUpYellow, rec.Status)
	assert.Equal(t, "Gopal", rec.Agent)
	assert.Equal(t, "+919876543210", rec.AgentMobile)
	assert.Equal(t, "called twice", rec.Remarks)
	assert.Equal(t, map[string]string{
		"Policy No": "123456789", "Name": "Asha Devi", "FUP": "02/2024", "Premium": "5400",
	}, rec.Columns)
	assert.Equal(t, second, rec.ImportedAt)

	assert.Equal(t, []string{"123456789", "555555555"}, book.Order)
	assert.Equal(t, []string{"Policy No", "Name", "FUP", "Premium"}, book.Headers)
}
