package leads

// ScoringFactors is the per-factor breakdown behind a lead score.
// Each field holds the points that factor contributed.
type ScoringFactors struct {
	TimeOnSite             float64 `json:"timeOnSite"`
	PageDepth              float64 `json:"pageDepth"`
	PortfolioEngagement    float64 `json:"portfolioEngagement"`
	ContactFormInteraction float64 `json:"contactFormInteraction"`
	ReturnVisitor          float64 `json:"returnVisitor"`
	DeviceQuality          float64 `json:"deviceQuality"`
	TimeOfDay              float64 `json:"timeOfDay"`
}

// Total sums every factor contribution.
func (f ScoringFactors) Total() float64 {
	return f.TimeOnSite + f.PageDepth + f.PortfolioEngagement +
		f.ContactFormInteraction + f.ReturnVisitor + f.DeviceQuality + f.TimeOfDay
}

// LeadScoringData is the derived scoring result for one interaction against
// the current session state. It is recomputed on every interaction and feeds
// lead profile updates; it is never persisted on its own.
type LeadScoringData struct {
	Score          float64        `json:"score"`
	Factors        ScoringFactors `json:"factors"`
	Classification Classification `json:"classification"`
}
