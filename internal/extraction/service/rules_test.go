package service

import (
	"testing"

	"jobboard_backend/internal/extraction/transport"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON(t *testing.T) {
	assert.Equal(t, `{"a":1}`, ExtractJSON("前置き\n```json\n{\"a\":1}\n```\n後書き"))
	assert.Equal(t, `{"a":{"b":2}}`, ExtractJSON(`結果: {"a":{"b":2}} 以上`))
	assert.Equal(t, "no json", ExtractJSON("no json"))
}

func TestDecodeJobDataCoercesLooseTypes(t *testing.T) {
	data, err := DecodeJobData(`{"title":" 倉庫 ","hourly_wage":1400,"annual_salary_max":"500万円","requirements":"高卒以上\n普通免許","annual_holidays":120,"description":["1行目","2行目"],"unknown":"x"}`)

	require.NoError(t, err)
	assert.Equal(t, "倉庫", data.Title)
	assert.Equal(t, 1400, *data.HourlyWage)
	assert.Equal(t, 500, *data.AnnualSalaryMax)
	assert.Equal(t, []string{"高卒以上", "普通免許"}, data.Requirements)
	assert.Equal(t, "120", data.AnnualHolidays)
	assert.Equal(t, "1行目\n2行目", data.Description)
}

func TestDecodeJobDataRejectsGarbage(t *testing.T) {
	_, err := DecodeJobData("{broken")
	assert.Error(t, err)
}

func issueFields(issues []transport.ValidationIssue, level string) []string {
	var out []string
	for _, i := range issues {
		if i.Level == level {
			out = append(out, i.Field)
		}
	}
	return out
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		data     transport.JobData
		errors   []string
		warnings []string
	}{
		{
			name:   "dispatch ok",
			data:   transport.JobData{Title: "a", Type: "派遣", HourlyWage: intPtr(1500)},
			errors: nil,
		},
		{
			name:     "missing title and bad type",
			data:     transport.JobData{Type: "アルバイト", AnnualSalaryMin: intPtr(300)},
			errors:   []string{"title", "type"},
			warnings: nil,
		},
		{
			name:     "wage out of range",
			data:     transport.JobData{Title: "a", Type: "紹介予定派遣", HourlyWage: intPtr(799)},
			errors:   []string{"hourly_wage"},
			warnings: nil,
		},
		{
			name:     "dispatch without wage",
			data:     transport.JobData{Title: "a", Type: "派遣"},
			warnings: []string{"hourly_wage"},
		},
		{
			name:     "fulltime without salary",
			data:     transport.JobData{Title: "a", Type: "正社員"},
			warnings: []string{"annual_salary_min"},
		},
		{
			name:   "max below min",
			data:   transport.JobData{Title: "a", Type: "正社員", AnnualSalaryMin: intPtr(400), AnnualSalaryMax: intPtr(300)},
			errors: []string{"annual_salary_max"},
		},
		{
			name:     "max without min",
			data:     transport.JobData{Title: "a", Type: "正社員", AnnualSalaryMax: intPtr(600)},
			errors:   []string{"annual_salary_min"},
			warnings: []string{"annual_salary_min"},
		},
		{
			name:   "salary min range",
			data:   transport.JobData{Title: "a", Type: "契約社員", AnnualSalaryMin: intPtr(2001)},
			errors: []string{"annual_salary_min"},
		},
		{
			name:   "holidays range",
			data:   transport.JobData{Title: "a", Type: "正社員", AnnualSalaryMin: intPtr(400), AnnualHolidays: "400日"},
			errors: []string{"annual_holidays"},
		},
		{
			name: "holidays text",
			data: transport.JobData{Title: "a", Type: "正社員", AnnualSalaryMin: intPtr(400), AnnualHolidays: "完全週休2日制"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues := Validate(tt.data)
			assert.Equal(t, tt.errors, issueFields(issues, transport.LevelError))
			assert.Equal(t, tt.warnings, issueFields(issues, transport.LevelWarning))
			assert.Equal(t, len(tt.errors) > 0, HasErrors(issues))
		})
	}
}

func TestMatchTags(t *testing.T) {
	options := []Option{
		{Label: "交通費支給", Value: "commute"},
		{Label: "未経験OK", Value: "inexperienced_ok"},
	}

	got := MatchTags([]string{"未経験ok", "交通費", "Commute", "社員食堂", " "}, options)

	require.Len(t, got, 5)
	assert.Equal(t, transport.MatchExact, got[0].Match)
	assert.Equal(t, "未経験OK", got[0].Option.Label)
	assert.Equal(t, transport.MatchSimilar, got[1].Match)
	assert.Equal(t, "交通費支給", got[1].Option.Label)
	assert.Equal(t, transport.MatchExact, got[2].Match)
	assert.Equal(t, transport.MatchNew, got[3].Match)
	assert.Nil(t, got[3].Option)
	assert.Equal(t, transport.MatchNew, got[4].Match)
}

func TestCatalogueTargetFields(t *testing.T) {
	c := DefaultCatalogue()

	assert.Equal(t, []string{"location_notes", "nearest_station", "workplace_access"}, c.TargetFields("最寄駅とアクセス方法を直して"))
	assert.Equal(t,
		[]string{"bonus_info", "commute_allowance", "hourly_wage", "raise_info", "salary", "salary_description", "salary_type"},
		c.TargetFields("給与を見直して"),
	)
	assert.Equal(t, []string{"welcome_requirements"}, c.TargetFields("want を追加"))
	assert.Empty(t, c.TargetFields("もっと魅力的に"))
	assert.True(t, c.Known("title"))
	assert.False(t, c.Known("secret"))
	assert.Equal(t, "secret", c.Label("secret"))
}

func TestLoadCatalogueRejectsUnknownCategoryField(t *testing.T) {
	_, err := LoadCatalogue([]byte("fields:\n  title:\n    label: タイトル\ncategories:\n  給与: [salary]\n"))
	assert.Error(t, err)
}

func TestBuildSystemInstructionListsMasters(t *testing.T) {
	out := BuildSystemInstruction(Masters{CategoryBenefits: {"社会保険完備", "交通費支給"}})

	assert.Contains(t, out, "benefits: 社会保険完備, 交通費支給（最大5つ）")
	assert.Contains(t, out, `"annual_holidays":0`)
	assert.Contains(t, BuildUserPrompt(transport.ModeStandard), "通常モード")
}
