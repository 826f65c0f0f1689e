package errors

import "unicode"

// MaxIDLength bounds dimension, stage and entity identifiers.
const MaxIDLength = 256

// ValidateID validates an identifier used to key dimensions, stages and
// entities. kind names the record type in the error message.
//
// The validation rules are intentionally conservative:
//   - No empty identifiers
//   - No control characters
//   - Maximum length of MaxIDLength bytes
func ValidateID(kind, id string) error {
	if id == "" {
		return New(ErrCodeValidation, "%s id cannot be empty", kind)
	}

	if len(id) > MaxIDLength {
		return New(ErrCodeValidation, "%s id too long (max %d characters)", kind, MaxIDLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeValidation, "%s id %q contains control characters", kind, id)
		}
	}

	return nil
}
