package email

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderApplicationNotice(t *testing.T) {
	subject, body, err := renderApplicationNotice(ApplicationNotice{
		ApplicantName: "山田 太郎",
		JobTitle:      "倉庫スタッフ",
		SubmittedAt:   time.Date(2026, 3, 1, 1, 30, 0, 0, time.UTC),
		AdminURL:      "https://example.com/admin/applications",
	})

	require.NoError(t, err)
	assert.Equal(t, "【応募通知】山田 太郎様から応募がありました", subject)
	assert.Contains(t, body, "倉庫スタッフ")
	assert.Contains(t, body, "2026年3月1日 10:30")
	assert.Contains(t, body, `href="https://example.com/admin/applications"`)
}

func TestRenderApplicationNoticeEscapesInput(t *testing.T) {
	_, body, err := renderApplicationNotice(ApplicationNotice{ApplicantName: "<script>x</script>", JobTitle: "a"})
	require.NoError(t, err)
	assert.NotContains(t, body, "<script>")
}

func TestRenderConsultationReminderWithoutMeetingURL(t *testing.T) {
	body, err := renderConsultationReminder(ConsultationReminder{StartsAt: time.Date(2026, 3, 5, 1, 0, 0, 0, time.UTC)})

	require.NoError(t, err)
	assert.Contains(t, body, "ゲスト様")
	assert.Contains(t, body, "2026年3月5日 10:00")
	assert.NotContains(t, body, "面談に参加する")
}
