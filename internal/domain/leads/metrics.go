package leads

import "time"

// RevenueMetrics aggregates the monetary side of the pipeline.
type RevenueMetrics struct {
	TotalPipeline    float64 `json:"totalPipeline"`    // sum of estimated values
	WeightedPipeline float64 `json:"weightedPipeline"` // estimated value x probability
	AverageDealSize  float64 `json:"averageDealSize"`
	AttributedTotal  float64 `json:"attributedTotal"` // revenue tracked through attribution models
}

// LeadCountMetrics aggregates lead volume by tier.
type LeadCountMetrics struct {
	Total          int     `json:"total"`
	Cold           int     `json:"cold"`
	Warm           int     `json:"warm"`
	Hot            int     `json:"hot"`
	Qualified      int     `json:"qualified"`
	AverageScore   float64 `json:"averageScore"`
	ConversionRate float64 `json:"conversionRate"` // qualified / total
}

// MarketingMetrics aggregates acquisition signals.
type MarketingMetrics struct {
	TouchpointCount int            `json:"touchpointCount"`
	SourceBreakdown map[string]int `json:"sourceBreakdown"`
	TopSource       string         `json:"topSource"`
	ROI             float64        `json:"roi"` // weighted pipeline per touchpoint
}

// ProjectMetrics estimates construction project throughput from the funnel.
type ProjectMetrics struct {
	ProspectiveProjects int     `json:"prospectiveProjects"` // hot + qualified leads
	PipelineValue       float64 `json:"pipelineValue"`
}

// BusinessMetrics is the process-wide aggregate recomputed from the lead
// registry on every mutation. It is mutated in place by a single writer;
// readers receive copies.
type BusinessMetrics struct {
	Revenue   RevenueMetrics   `json:"revenue"`
	Leads     LeadCountMetrics `json:"leads"`
	Marketing MarketingMetrics `json:"marketing"`
	Projects  ProjectMetrics   `json:"projects"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

// NewBusinessMetrics returns a zeroed aggregate.
func NewBusinessMetrics() *BusinessMetrics {
	return &BusinessMetrics{
		Marketing: MarketingMetrics{SourceBreakdown: make(map[string]int)},
	}
}
