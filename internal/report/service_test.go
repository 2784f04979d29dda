package report

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/binsr/inspection-report-server/internal/config"
)

const sampleInspection = `{
	"account": {"companyName": "Lone Star Inspections"},
	"inspection": {
		"id": "rpt-1001",
		"status": "completed",
		"clientInfo": {"name": "Jane Buyer"},
		"inspector": {"id": "TREC-9921", "name": "Sam Inspector"},
		"address": {
			"street": "413 Pecan Hollow",
			"city": "Austin",
			"state": "TX",
			"zipcode": "78701"
		},
		"schedule": {"date": 1705329000000},
		"sections": [
			{
				"id": "sec-1",
				"name": "Structural Systems",
				"order": 1,
				"lineItems": [
					{
						"id": "item-1",
						"name": "Foundations",
						"order": 1,
						"status": "inspected",
						"isDeficient": true,
						"comment": "Cracking at the north wall",
						"photos": ["https://example.com/crack.jpg"]
					},
					{
						"id": "item-2",
						"name": "Roof Covering",
						"order": 2,
						"status": "not_present"
					},
					{
						"id": "item-3",
						"name": "Walls",
						"order": 3,
						"status": "inspected"
					}
				]
			}
		]
	}
}`

func writeSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "inspection.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleInspection), 0o644))
	return path
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Mode:         config.ModeStdio,
		TemplatePath: filepath.Join(t.TempDir(), "missing_template.pdf"),
		OutputDir:    t.TempDir(),
		LogLevel:     "info",
		MaxFileSize:  config.DefaultMaxFileSize,
		ImageTimeout: time.Second,
	}
}

func TestNewServiceNilConfig(t *testing.T) {
	_, err := NewService(nil)
	assert.Error(t, err)
}

func TestPreviewFieldsWithoutTemplate(t *testing.T) {
	svc, err := NewService(testConfig(t))
	require.NoError(t, err)

	preview, err := svc.PreviewFields(context.Background(), writeSample(t))
	require.NoError(t, err)

	assert.Equal(t, "rpt-1001", preview.ReportID)
	assert.Equal(t, "Jane Buyer", preview.Fields["Name of Client"])
	assert.Equal(t, "Sam Inspector", preview.Fields["Name of Inspector"])
	assert.Equal(t, "TREC-9921", preview.Fields["TREC License"])

	// Classification: deficient, not present and plain inspected each land
	// in their own checkbox column on page 3.
	assert.Equal(t, "/Yes", preview.Fields["topmostSubform[0].Page3[0].CheckBox1[3]"])
	assert.Equal(t, "/Yes", preview.Fields["topmostSubform[0].Page3[0].CheckBox1[6]"])
	assert.Equal(t, "/Yes", preview.Fields["topmostSubform[0].Page3[0].CheckBox1[9]"])

	// The one comment occupies the first text slot.
	assert.Contains(t, preview.Fields["Text1"], "Cracking at the north wall")

	assert.Zero(t, preview.DroppedItems)
	assert.Zero(t, preview.DroppedComments)
}

func TestPreviewFieldsMissingData(t *testing.T) {
	svc, err := NewService(testConfig(t))
	require.NoError(t, err)

	_, err = svc.PreviewFields(context.Background(), filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestPreviewFieldsMissingRequired(t *testing.T) {
	svc, err := NewService(testConfig(t))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "inspection.json")
	doc := `{"inspection": {"id": "rpt-2", "sections": []}}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	_, err = svc.PreviewFields(context.Background(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required fields")
}

func TestInspectionSummary(t *testing.T) {
	svc, err := NewService(testConfig(t))
	require.NoError(t, err)

	sum, err := svc.InspectionSummary(context.Background(), writeSample(t))
	require.NoError(t, err)

	assert.Equal(t, "rpt-1001", sum.ReportID)
	assert.Equal(t, "Jane Buyer", sum.ClientName)
	assert.Equal(t, "Sam Inspector", sum.InspectorName)
	assert.Contains(t, sum.Address, "413 Pecan Hollow")
	assert.Equal(t, 1, sum.Sections)
	assert.Equal(t, 3, sum.Items)
	assert.Equal(t, 1, sum.StatusCounts["D"])
	assert.Equal(t, 1, sum.StatusCounts["NP"])
	assert.Equal(t, 1, sum.StatusCounts["I"])
	require.Len(t, sum.Deficient, 1)
	assert.Equal(t, "Structural Systems > Foundations", sum.Deficient[0])
}

func TestGenerateFailsWithoutTemplate(t *testing.T) {
	svc, err := NewService(testConfig(t))
	require.NoError(t, err)

	_, err = svc.Generate(context.Background(), GenerateRequest{DataPath: writeSample(t)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "template")
}

func TestValidateTemplateFailsWithoutTemplate(t *testing.T) {
	svc, err := NewService(testConfig(t))
	require.NoError(t, err)

	_, err = svc.ValidateTemplate(context.Background())
	assert.Error(t, err)
}

func TestReportFileName(t *testing.T) {
	tests := []struct {
		name     string
		reportID string
		runID    string
		want     string
	}{
		{
			name:     "plain id",
			reportID: "rpt-1001",
			runID:    "abc",
			want:     "TREC_rpt-1001_abc.pdf",
		},
		{
			name:     "empty id falls back",
			reportID: "",
			runID:    "abc",
			want:     "TREC_report_abc.pdf",
		},
		{
			name:     "placeholder id falls back",
			reportID: "Data not found in test data",
			runID:    "abc",
			want:     "TREC_report_abc.pdf",
		},
		{
			name:     "path separators stripped",
			reportID: "../etc/passwd",
			runID:    "abc",
			want:     "TREC____etc_passwd_abc.pdf",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := reportFileName(tt.reportID, tt.runID)
			if got != tt.want {
				t.Errorf("reportFileName(%q, %q) = %q, want %q", tt.reportID, tt.runID, got, tt.want)
			}
			if strings.ContainsAny(got, "/\\") {
				t.Errorf("reportFileName() produced a path separator: %q", got)
			}
		})
	}
}
