package response_models

type UserSummary struct {
	ID               string            `json:"id"`
	Email            string            `json:"email"`
	Profiles         []ProfileResponse `json:"profiles"`
	SubscriptionPlan string            `json:"subscriptionPlan"`
}

type AuthResponse struct {
	AccessToken string      `json:"accessToken"`
	User        UserSummary `json:"user"`
}

type PlanResponse struct {
	Code         string `json:"code"`
	Name         string `json:"name"`
	Period       string `json:"period"`
	Price        int64  `json:"price"` // minor units, 19900 = 199.00
	Currency     string `json:"currency"`
	VideoQuality string `json:"videoQuality"`
	Resolution   string `json:"resolution"`
	MaxScreens   int32  `json:"maxScreens"`
}
