package config

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for configuration validation
var (
	ErrInvalidTemplateFile = goerr.New("invalid template file")
	ErrDuplicateTemplate   = goerr.New("duplicate template name")
	ErrInvalidLogLevel     = goerr.New("invalid log level")
	ErrInvalidLogFormat    = goerr.New("invalid log format")
)

// Context keys for error values
const (
	TemplatePathKey  = "template_path"
	TemplateNameKey  = "template_name"
	TemplateIndexKey = "template_index"
)
