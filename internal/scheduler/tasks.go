package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	TaskConsultationReminder = "consultation:reminder"
	TaskExtractionBatchFile  = "extraction:batch_file"
)

type ConsultationReminderPayload struct {
	BookingID string `json:"bookingId"`
}

// reminderTaskID keeps at most one pending reminder per booking.
func reminderTaskID(bookingID string) string {
	return "reminder:" + bookingID
}

func NewConsultationReminderTask(payload ConsultationReminderPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskConsultationReminder, data), nil
}

func ParseConsultationReminderPayload(task *asynq.Task) (ConsultationReminderPayload, error) {
	var payload ConsultationReminderPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return ConsultationReminderPayload{}, err
	}
	return payload, nil
}

type BatchFilePayload struct {
	DraftID string `json:"draftId"`
}

func batchFileTaskID(draftID string) string {
	return "extract:" + draftID
}

func NewBatchFileTask(payload BatchFilePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskExtractionBatchFile, data), nil
}

func ParseBatchFilePayload(task *asynq.Task) (BatchFilePayload, error) {
	var payload BatchFilePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return BatchFilePayload{}, err
	}
	return payload, nil
}
