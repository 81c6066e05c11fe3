package models

// BatchCleanRequest is the payload for POST /api/v1/clean/batch.
type BatchCleanRequest struct {
	// Documents are cleaned independently; results keep this order.
	Documents []CleanRequest `json:"documents" binding:"required,min=1,max=100,dive"`

	// WebhookURL, if set, receives a "batch.completed" event carrying the
	// full response once the batch is done. Delivery is retried in the
	// background and never delays the HTTP response.
	WebhookURL    string `json:"webhook_url,omitempty" binding:"omitempty,url"`
	WebhookSecret string `json:"webhook_secret,omitempty"`
}

// BatchCleanResponse is the response for POST /api/v1/clean/batch.
type BatchCleanResponse struct {
	Success   bool             `json:"success"`
	BatchID   string           `json:"batch_id,omitempty"`
	Total     int              `json:"total"`
	Succeeded int              `json:"succeeded"`
	Results   []*CleanResponse `json:"results"`
	Timing    TimingInfo       `json:"timing"`
	Error     *ErrorDetail     `json:"error,omitempty"`
}
