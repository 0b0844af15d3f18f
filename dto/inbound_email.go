package dto

// InboundEmail is the Postmark inbound webhook payload. Only the fields
// this service consumes are declared; unknown fields are ignored on bind.
type InboundEmail struct {
	From     string              `json:"From"`
	FromName string              `json:"FromName"`
	FromFull InboundEmailAddress `json:"FromFull"`

	To     string                `json:"To"`
	ToFull []InboundEmailAddress `json:"ToFull"`

	Cc     string                 `json:"Cc"`
	CcFull []*InboundEmailAddress `json:"CcFull"`

	OriginalRecipient string `json:"OriginalRecipient"`
	Subject           string `json:"Subject"`
	MessageID         string `json:"MessageID"`
	MailboxHash       string `json:"MailboxHash"`
	MessageStream     string `json:"MessageStream"`
	Date              string `json:"Date"`
	TextBody          string `json:"TextBody"`
	HtmlBody          string `json:"HtmlBody"`

	Attachments []InboundEmailAttachment `json:"Attachments"`
}

type InboundEmailAddress struct {
	Email       string `json:"Email"`
	Name        string `json:"Name"`
	MailboxHash string `json:"MailboxHash"`
}

type InboundEmailAttachment struct {
	Name          string `json:"Name"`
	Content       string `json:"Content"` // base64
	ContentType   string `json:"ContentType"`
	ContentLength int    `json:"ContentLength"`
}
