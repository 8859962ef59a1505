package models

// Subscription - поля подписки, хранящиеся в строке account.
type Subscription struct {
	Value     *float64 `json:"value"`
	Start     *Date    `json:"start"`
	End       *Date    `json:"end"`
	AutoRenew bool     `json:"autoRenew"`
}

type SubscriptionStatus struct {
	IsActive      bool    `json:"isActive"`
	Value         float64 `json:"value"`
	Start         *Date   `json:"start"`
	End           *Date   `json:"end"`
	AutoRenew     bool    `json:"autoRenew"`
	DaysRemaining int     `json:"daysRemaining"`
}

type SubscriptionResponse struct {
	Subscription SubscriptionStatus `json:"subscription"`
}

type StartSubscriptionRequest struct {
	AutoRenew *bool `json:"autoRenew"`
}

type AutoRenewRequest struct {
	AutoRenew *bool `json:"autoRenew" validate:"required"`
}
