package subscriber

// SubscribeRequest carries the email being added to the notification list
type SubscribeRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// UnsubscribeRequest carries the email being removed
type UnsubscribeRequest struct {
	Email string `json:"email" validate:"required"`
}
