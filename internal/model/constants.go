package model

// Applicant statuses.
const (
	ApplicantStatusInProgress    = "In Progress"
	ApplicantStatusSubmittedPaid = "Submitted & Paid"
)

// Payment statuses.
const (
	PaymentStatusPending   = "Pending"
	PaymentStatusSucceeded = "Succeeded"
	PaymentStatusFailed    = "Failed"
)

// Decision types and their fees in minor units (cents).
const (
	DecisionTypeRegular = "Regular"
	DecisionTypeEarly   = "Early"
	DecisionTypeFull    = "Full"
)

var DecisionPrices = map[string]int64{
	DecisionTypeRegular: 50000,   // $500.00
	DecisionTypeEarly:   250000,  // $2,500.00
	DecisionTypeFull:    5000000, // $50,000.00
}

// RequiredSections must all be present before an application can be submitted.
var RequiredSections = []string{
	"biographical",
	"academic",
	"professional",
	"essay_set_1",
	"essay_set_2",
	"short_responses",
	"documents",
	"payment",
}

// SectionStageMapping maps a completed section to the applicant's progress stage.
var SectionStageMapping = map[string]int{
	"biographical":    1,
	"academic":        2,
	"professional":    3,
	"essay_set_1":     4,
	"essay_set_2":     5,
	"short_responses": 6,
	"documents":       7,
	"payment":         8,
}
