package model

import "time"

// Per-agent findings. Each struct mirrors the JSON shape the stage prompts
// demand, with a fallback pair for responses that survived no parse: when
// ParseError is set the typed fields are zero and RawPreview holds a bounded
// excerpt of the model output.

type ObstaclesFindings struct {
	Technical        []string `json:"technical,omitempty"`
	Market           []string `json:"market,omitempty"`
	Regulatory       []string `json:"regulatory,omitempty"`
	User             []string `json:"user,omitempty"`
	Financial        []string `json:"financial,omitempty"`
	CriticalInsights []string `json:"critical_insights,omitempty"`
	Sources          []string `json:"sources,omitempty"`

	ParseError string `json:"parse_error,omitempty"`
	RawPreview string `json:"raw_preview,omitempty"`
}

type ManualSolution struct {
	Name          string `json:"name,omitempty"`
	Description   string `json:"description,omitempty"`
	Effectiveness string `json:"effectiveness,omitempty"`
	Limitations   string `json:"limitations,omitempty"`
}

type DigitalSolution struct {
	Name        string `json:"name,omitempty"`
	URL         string `json:"url,omitempty"`
	Description string `json:"description,omitempty"`
	Strengths   string `json:"strengths,omitempty"`
	Weaknesses  string `json:"weaknesses,omitempty"`
}

type SolutionsFindings struct {
	ManualSolutions  []ManualSolution  `json:"manual_solutions,omitempty"`
	DigitalSolutions []DigitalSolution `json:"digital_solutions,omitempty"`
	Workarounds      []string          `json:"workarounds,omitempty"`
	Gaps             []string          `json:"gaps,omitempty"`
	Sources          []string          `json:"sources,omitempty"`

	ParseError string `json:"parse_error,omitempty"`
	RawPreview string `json:"raw_preview,omitempty"`
}

type IndustryRegulation struct {
	Regulation   string `json:"regulation,omitempty"`
	Jurisdiction string `json:"jurisdiction,omitempty"`
	Requirements string `json:"requirements,omitempty"`
	Complexity   string `json:"complexity,omitempty"` // high|medium|low
}

type DataProtectionRule struct {
	Law             string `json:"law,omitempty"`
	Jurisdiction    string `json:"jurisdiction,omitempty"`
	KeyRequirements string `json:"key_requirements,omitempty"`
	Penalties       string `json:"penalties,omitempty"`
}

type FinancialRegulation struct {
	Regulation   string `json:"regulation,omitempty"`
	AppliesIf    string `json:"applies_if,omitempty"`
	Requirements string `json:"requirements,omitempty"`
}

type RegionalVariation struct {
	Region               string `json:"region,omitempty"`
	SpecificRequirements string `json:"specific_requirements,omitempty"`
	Difficulty           string `json:"difficulty,omitempty"`
}

type LegalFindings struct {
	IndustryRegulations []IndustryRegulation  `json:"industry_regulations,omitempty"`
	DataProtection      []DataProtectionRule  `json:"data_protection,omitempty"`
	FinancialRegs       []FinancialRegulation `json:"financial_regs,omitempty"`
	RegionalVariations  []RegionalVariation   `json:"regional_variations,omitempty"`
	Sources             []string              `json:"sources,omitempty"`

	ParseError string `json:"parse_error,omitempty"`
	RawPreview string `json:"raw_preview,omitempty"`
}

type DirectCompetitor struct {
	Name           string   `json:"name,omitempty"`
	URL            string   `json:"url,omitempty"`
	Description    string   `json:"description,omitempty"`
	Strengths      []string `json:"strengths,omitempty"`
	Weaknesses     []string `json:"weaknesses,omitempty"`
	MarketPosition string   `json:"market_position,omitempty"`
	Funding        string   `json:"funding,omitempty"`
}

type IndirectCompetitor struct {
	Name           string `json:"name,omitempty"`
	Type           string `json:"type,omitempty"` // substitute|alternative
	Description    string `json:"description,omitempty"`
	WhyCompetitive string `json:"why_competitive,omitempty"`
}

type MarketStructure struct {
	Type        string   `json:"type,omitempty"` // monopolistic|oligopolistic|fragmented|emerging
	Description string   `json:"description,omitempty"`
	KeyPlayers  []string `json:"key_players,omitempty"`
}

type EntryBarrier struct {
	Type        string `json:"type,omitempty"` // brand|network|technology|regulatory|capital
	Description string `json:"description,omitempty"`
	Severity    string `json:"severity,omitempty"`
}

type CompetitorFindings struct {
	DirectCompetitors   []DirectCompetitor   `json:"direct_competitors,omitempty"`
	IndirectCompetitors []IndirectCompetitor `json:"indirect_competitors,omitempty"`
	MarketStructure     *MarketStructure     `json:"market_structure,omitempty"`
	Barriers            []EntryBarrier       `json:"barriers,omitempty"`
	WhiteSpace          []string             `json:"white_space,omitempty"`
	Sources             []string             `json:"sources,omitempty"`

	ParseError string `json:"parse_error,omitempty"`
	RawPreview string `json:"raw_preview,omitempty"`
}

type MarketSizeEstimate struct {
	Value       string `json:"value,omitempty"`
	Unit        string `json:"unit,omitempty"`
	Year        string `json:"year,omitempty"`
	Source      string `json:"source,omitempty"`
	Methodology string `json:"methodology,omitempty"`
	Assumptions string `json:"assumptions,omitempty"`
}

// MarketSize nests the standard sizing triple inside the market stage output.
type MarketSize struct {
	TAM *MarketSizeEstimate `json:"tam,omitempty"`
	SAM *MarketSizeEstimate `json:"sam,omitempty"`
	SOM *MarketSizeEstimate `json:"som,omitempty"`
}

type GrowthTrends struct {
	HistoricalCAGR string   `json:"historical_cagr,omitempty"`
	ProjectedCAGR  string   `json:"projected_cagr,omitempty"`
	TimePeriod     string   `json:"time_period,omitempty"`
	Drivers        []string `json:"drivers,omitempty"`
	Headwinds      []string `json:"headwinds,omitempty"`
}

type CustomerSegment struct {
	Segment         string   `json:"segment,omitempty"`
	Size            string   `json:"size,omitempty"`
	Characteristics string   `json:"characteristics,omitempty"`
	Needs           []string `json:"needs,omitempty"`
	BuyingBehavior  string   `json:"buying_behavior,omitempty"`
}

type PriceExample struct {
	Product string `json:"product,omitempty"`
	Price   string `json:"price,omitempty"`
	Model   string `json:"model,omitempty"`
}

type PricingBenchmarks struct {
	Range    string         `json:"range,omitempty"`
	Average  string         `json:"average,omitempty"`
	Models   []string       `json:"models,omitempty"`
	Examples []PriceExample `json:"examples,omitempty"`
}

type MarketFindings struct {
	MarketSize        *MarketSize        `json:"market_size,omitempty"`
	GrowthTrends      *GrowthTrends      `json:"growth_trends,omitempty"`
	CustomerSegments  []CustomerSegment  `json:"customer_segments,omitempty"`
	PricingBenchmarks *PricingBenchmarks `json:"pricing_benchmarks,omitempty"`
	Sources           []string           `json:"sources,omitempty"`

	ParseError string `json:"parse_error,omitempty"`
	RawPreview string `json:"raw_preview,omitempty"`
}

// ResearchFindings collects the five stage outputs under their stable keys.
type ResearchFindings struct {
	Obstacles   *ObstaclesFindings  `json:"obstacles,omitempty"`
	Solutions   *SolutionsFindings  `json:"solutions,omitempty"`
	Legal       *LegalFindings      `json:"legal,omitempty"`
	Competitors *CompetitorFindings `json:"competitors,omitempty"`
	Market      *MarketFindings     `json:"market,omitempty"`
}

// ResearchResult is the envelope persisted as a completed research job's
// result payload.
type ResearchResult struct {
	Instructions string           `json:"instructions"`
	Findings     ResearchFindings `json:"findings"`
	Synthesis    string           `json:"synthesis"`
	CompletedAt  time.Time        `json:"completed_at"`
}
