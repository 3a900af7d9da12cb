package logg

// Shared zap field names so log output stays greppable across layers.
const (
	Layer     = "layer"
	Operation = "operation"
	URL       = "url"
	Selector  = "selector"
	FormID    = "form_id"
	FormType  = "form_type"
	Strategy  = "strategy"
	Category  = "category"
	TestID    = "test_id"
	ReportID  = "report_id"
)
