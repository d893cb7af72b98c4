package analyzer

// AnalysisRequest is the payload for a website analysis.
type AnalysisRequest struct {
	URL              string   `json:"url"`
	SessionID        string   `json:"session_id,omitempty"`
	TrackID          string   `json:"track_id,omitempty"`
	IncludeLogo      bool     `json:"include_logo"`
	IncludeColors    bool     `json:"include_colors"`
	IncludeBrand     bool     `json:"include_brand"`
	AdditionalFields []string `json:"additional_fields,omitempty"`
}

// DefaultRequest returns an analysis request for url with every
// extraction enabled.
func DefaultRequest(url string) AnalysisRequest {
	return AnalysisRequest{
		URL:           url,
		IncludeLogo:   true,
		IncludeColors: true,
		IncludeBrand:  true,
	}
}

// ColorSwatch is one entry of an extracted color palette.
type ColorSwatch struct {
	Name  string  `json:"name,omitempty"`
	Hex   string  `json:"hex,omitempty"`
	Usage string  `json:"usage,omitempty"`
	Ratio float64 `json:"ratio,omitempty"`
}

// AnalysisResponse is the structured result of a website analysis.
//
// Status is "processing", "partial", "success" or "failed"; Error
// carries the service's message when Status is "failed". A "partial"
// analysis completed with some extractions missing and still renders
// as a result.
type AnalysisResponse struct {
	AnalysisID     string         `json:"analysis_id,omitempty"`
	URL            string         `json:"url,omitempty"`
	LogoURL        string         `json:"logo_url,omitempty"`
	CompanyName    string         `json:"company_name,omitempty"`
	CompanyInfo    string         `json:"company_info,omitempty"`
	BrandIdentity  string         `json:"brand_identity,omitempty"`
	BrandVoice     map[string]any `json:"brand_voice,omitempty"`
	ColorPalette   []ColorSwatch  `json:"color_palette,omitempty"`
	WebsiteContent string         `json:"website_content,omitempty"`
	AdditionalInfo map[string]any `json:"additional_info,omitempty"`
	ProcessingTime float64        `json:"processing_time,omitempty"`
	CreatedAt      string         `json:"created_at,omitempty"`
	Status         string         `json:"status"`
	Error          string         `json:"error,omitempty"`
}

// Failed reports whether the analysis ended in failure.
func (r *AnalysisResponse) Failed() bool {
	return r.Status == StatusFailed
}

// Analysis status values, as reported by the service.
const (
	StatusProcessing = "processing"
	StatusPartial    = "partial"
	StatusSuccess    = "success"
	StatusFailed     = "failed"
)

// ListResponse is a page of past analyses.
type ListResponse struct {
	Analyses []AnalysisResponse `json:"analyses"`
	Total    int                `json:"total"`
	Page     int                `json:"page"`
	Limit    int                `json:"limit"`
}

// ConnectionInfo describes the client's view of the remote service,
// for the console sidebar and CLI diagnostics.
type ConnectionInfo struct {
	BaseURL   string `json:"base_url"`
	HasAPIKey bool   `json:"has_api_key"`
	Available bool   `json:"service_available"`
}
