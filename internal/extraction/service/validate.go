package service

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"jobboard_backend/internal/extraction/transport"
)

// EmploymentTypes are the accepted values of JobData.Type.
var EmploymentTypes = []string{"正社員", "派遣", "紹介予定派遣", "契約社員"}

const (
	minHourlyWage   = 800
	maxHourlyWage   = 5000
	minAnnualSalary = 200
	maxAnnualSalary = 2000
	maxHolidays     = 365
)

var leadingInt = regexp.MustCompile(`^\s*(-?\d+)`)

// IsDispatch reports whether the posting is a staffing-agency job.
func IsDispatch(jobType string) bool {
	return strings.Contains(strings.TrimSpace(jobType), "派遣")
}

// Validate checks extracted data against the posting rules. An empty
// result means the draft is acceptable.
func Validate(data transport.JobData) []transport.ValidationIssue {
	issues := make([]transport.ValidationIssue, 0)
	add := func(field, level, msg string) {
		issues = append(issues, transport.ValidationIssue{Field: field, Level: level, Message: msg})
	}

	if strings.TrimSpace(data.Title) == "" {
		add("title", transport.LevelError, "タイトルは必須です")
	}
	if data.Type != "" && !slices.Contains(EmploymentTypes, data.Type) {
		add("type", transport.LevelError, fmt.Sprintf("雇用形態は %s のいずれかである必要があります", strings.Join(EmploymentTypes, "/")))
	}

	if w := data.HourlyWage; w != nil && (*w < minHourlyWage || *w > maxHourlyWage) {
		add("hourly_wage", transport.LevelError, "時給は800〜5000の範囲である必要があります")
	}
	if lo := data.AnnualSalaryMin; lo != nil && (*lo < minAnnualSalary || *lo > maxAnnualSalary) {
		add("annual_salary_min", transport.LevelError, "年収下限は200〜2000万円の範囲である必要があります")
	}
	if hi := data.AnnualSalaryMax; hi != nil {
		if data.AnnualSalaryMin == nil {
			add("annual_salary_min", transport.LevelError, "年収上限がある場合、年収下限も必要です")
		} else if *hi < *data.AnnualSalaryMin {
			add("annual_salary_max", transport.LevelError, "年収上限は年収下限以上である必要があります")
		}
	}

	// Non-numeric text such as "完全週休2日制" is left alone.
	if m := leadingInt.FindStringSubmatch(data.AnnualHolidays); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && (n < 0 || n > maxHolidays) {
			add("annual_holidays", transport.LevelError, "年間休日は0〜365の範囲である必要があります")
		}
	}

	if IsDispatch(data.Type) {
		if data.HourlyWage == nil {
			add("hourly_wage", transport.LevelWarning, "派遣求人には時給の入力を推奨します")
		}
	} else if data.AnnualSalaryMin == nil {
		add("annual_salary_min", transport.LevelWarning, "正社員求人には年収の入力を推奨します")
	}

	return issues
}

// HasErrors reports whether any issue is at error level.
func HasErrors(issues []transport.ValidationIssue) bool {
	return slices.ContainsFunc(issues, func(i transport.ValidationIssue) bool {
		return i.Level == transport.LevelError
	})
}
