// Package validation validates configuration structs using struct tags
// (go-playground/validator) and reports failures as INVALID_INPUT errors
// whose details list the offending fields.
//
//	type CacheConfig struct {
//	    Driver string `mapstructure:"driver" validate:"oneof=memory file redis"`
//	}
//	err := validation.Validate(cfg)
package validation
