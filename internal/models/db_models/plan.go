package db_models

type BillingPeriod string

const (
	PeriodMonth BillingPeriod = "month"
	PeriodYear  BillingPeriod = "year"
)

const (
	PlanBasic    = "basic"
	PlanStandard = "standard"
	PlanPremium  = "premium"

	DefaultPlanCode = PlanStandard
)

// Plan is descriptive only. Nothing is ever charged.
type Plan struct {
	Code         string        `gorm:"primaryKey"` // "basic", "standard", "premium"
	Name         string        `gorm:"not null"`
	Period       BillingPeriod `gorm:"not null"`
	PriceMinor   int64         // 19900 = 199.00
	Currency     string        `gorm:"size:3"`
	VideoQuality string
	Resolution   string
	MaxScreens   int32
	SortOrder    int32
}

// DefaultPlans mirrors the rows seeded by the initial migration.
func DefaultPlans() []Plan {
	return []Plan{
		{Code: PlanBasic, Name: "Basic", Period: PeriodMonth, PriceMinor: 14900, Currency: "INR", VideoQuality: "Good", Resolution: "720p", MaxScreens: 1, SortOrder: 1},
		{Code: PlanStandard, Name: "Standard", Period: PeriodMonth, PriceMinor: 19900, Currency: "INR", VideoQuality: "Great", Resolution: "1080p", MaxScreens: 2, SortOrder: 2},
		{Code: PlanPremium, Name: "Premium", Period: PeriodMonth, PriceMinor: 64900, Currency: "INR", VideoQuality: "Best", Resolution: "4K+HDR", MaxScreens: 4, SortOrder: 3},
	}
}
