package jobs

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeSendEmail is the task type for sending transactional emails.
	TaskTypeSendEmail = "mail:send"
	// TaskTypeMembershipNotify tells a user their project membership changed.
	TaskTypeMembershipNotify = "project:membership"
	// TaskTypeWeeklyDigest builds the weekly activity digest for all companies.
	TaskTypeWeeklyDigest = "report:weekly_digest"
)

// SendEmailPayload describes the information required to send an email.
type SendEmailPayload struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// NewSendEmailTask constructs an Asynq task.
func NewSendEmailTask(payload SendEmailPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeSendEmail, data), nil
}

// HandleSendEmailTask processes TaskTypeSendEmail tasks.
func HandleSendEmailTask(ctx context.Context, t *asynq.Task) error {
	var payload SendEmailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	// Placeholder: integrate with SMTP/Mailpit in phase 2.
	fmt.Printf("[jobs] send email to %s subject=%s\n", payload.To, payload.Subject)
	return nil
}

// MembershipNotifyPayload describes a membership change notification.
type MembershipNotifyPayload struct {
	ProjectID int64  `json:"projectId"`
	UserID    int64  `json:"userId"`
	Role      string `json:"role"`
	Removed   bool   `json:"removed"`
}

// NewMembershipNotifyTask constructs an Asynq task.
func NewMembershipNotifyTask(payload MembershipNotifyPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeMembershipNotify, data), nil
}

// HandleMembershipNotifyTask processes TaskTypeMembershipNotify tasks.
func HandleMembershipNotifyTask(ctx context.Context, t *asynq.Task) error {
	var payload MembershipNotifyPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.Removed {
		fmt.Printf("[jobs] notify user %d removed from project %d\n", payload.UserID, payload.ProjectID)
		return nil
	}
	fmt.Printf("[jobs] notify user %d added to project %d as %s\n", payload.UserID, payload.ProjectID, payload.Role)
	return nil
}

// NewWeeklyDigestTask constructs the scheduled digest task. It carries
// no payload; the handler enumerates companies itself.
func NewWeeklyDigestTask() *asynq.Task {
	return asynq.NewTask(TaskTypeWeeklyDigest, nil)
}

// HandleWeeklyDigestTask processes TaskTypeWeeklyDigest tasks.
func HandleWeeklyDigestTask(ctx context.Context, t *asynq.Task) error {
	// Placeholder: fan out per-company digest emails once templates land.
	fmt.Println("[jobs] weekly digest run")
	return nil
}
