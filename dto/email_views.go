package dto

import "time"

// EmailView is the listing representation of a stored email. Attachment
// content is never included; callers fetch bytes by attachment id.
type EmailView struct {
	ID             string           `json:"id"`
	FromAddress    string           `json:"fromAddress"`
	FromName       string           `json:"fromName,omitempty"`
	ToAddress      string           `json:"toAddress"`
	ToMailboxHash  string           `json:"toMailboxHash"`
	CcAddresses    []string         `json:"ccAddresses,omitempty"`
	Subject        string           `json:"subject"`
	Preview        string           `json:"preview,omitempty"`
	SubmissionHash string           `json:"submissionHash"`
	ReceivedAt     time.Time        `json:"receivedAt"`
	Attachments    []AttachmentView `json:"attachments"`
}

type AttachmentView struct {
	ID            string   `json:"id"`
	Filename      string   `json:"filename"`
	ContentType   string   `json:"contentType"`
	ContentLength int      `json:"contentLength"`
	Latitude      *float64 `json:"latitude"`
	Longitude     *float64 `json:"longitude"`
	Altitude      *float64 `json:"altitude,omitempty"`
	StorageKey    string   `json:"storageKey,omitempty"`
}

type EmailListResponse struct {
	Emails     []EmailView `json:"emails"`
	TotalCount int64       `json:"totalCount"`
	Limit      int         `json:"limit"`
	Offset     int         `json:"offset"`
}
