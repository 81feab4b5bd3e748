package logging

// Standardized field names for structured logging.
// These keep log output consistent across the pipeline, the web boundary and the CLI.
const (
	FieldFile        = "file_path"
	FieldOperation   = "operation"
	FieldStatus      = "status"
	FieldError       = "error"
	FieldDuration    = "duration_ms"
	FieldCount       = "count"
	FieldRow         = "row"
	FieldColumn      = "column"
	FieldCategory    = "category"
	FieldMonth       = "month"
	FieldChart       = "chart"
	FieldRequestID   = "request_id"
	FieldOutputDir   = "output_dir"
	FieldMethod      = "method"
	FieldPath        = "path"
	FieldRemoteAddr  = "remote_ip"
	FieldObservation = "observations"
)
