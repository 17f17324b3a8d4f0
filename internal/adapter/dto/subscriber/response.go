package subscriber

// SubscriptionResponse reports the outcome of a subscribe or unsubscribe call
type SubscriptionResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// CountResponse carries the active subscriber count for landing page stats
type CountResponse struct {
	Count int64 `json:"count"`
}
