package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskEnquiryReceipt = "contact.enquiry_receipt"

type EnquiryReceiptPayload struct {
	ContextKey  string `json:"contextKey"`
	ToEmail     string `json:"toEmail"`
	VisitorName string `json:"visitorName"`
	Subject     string `json:"subject"`
	Message     string `json:"message"`
	Alerts      bool   `json:"alerts"`
}

func NewEnquiryReceiptTask(payload EnquiryReceiptPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskEnquiryReceipt, data), nil
}

func ParseEnquiryReceiptPayload(task *asynq.Task) (EnquiryReceiptPayload, error) {
	var payload EnquiryReceiptPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return EnquiryReceiptPayload{}, err
	}
	return payload, nil
}
