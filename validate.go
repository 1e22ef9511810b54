// FILE: trempy/initfile/validate.go
package initfile

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// settingsValidator checks the `validate` tags of the decoded section structs.
// Error messages use flag names rather than Go field names.
var settingsValidator = func() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get(decodeTagName), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}()

// validateSection validates a decoded section and wraps failures in ErrIntegrity.
func validateSection(group string, section any) error {
	err := settingsValidator.Struct(section)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %s: %v", ErrIntegrity, group, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s fails %s=%s (got %v)", fe.Field(), fe.Tag(), fe.Param(), fe.Value()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s fails %s (got %v)", fe.Field(), fe.Tag(), fe.Value()))
		}
	}
	return fmt.Errorf("%w: %s: %s", ErrIntegrity, group, strings.Join(msgs, "; "))
}
