package logging

// Standardized attribute keys. Components attach FieldComponent once via
// logger.With so every record they emit carries its origin.
const (
	FieldComponent = "component"
	FieldRunID     = "run_id"
	FieldLevel     = "level_name"
	FieldDatabase  = "database"
	FieldCount     = "count"
)
