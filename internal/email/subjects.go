package email

const (
	subjectApplicationNoticeFmt = "【応募通知】%s様から応募がありました"
	subjectConsultationReminder = "【ご相談のリマインド】面談の日時のお知らせ"
)
