// Package validation holds the shared request validator. Field names in
// messages use the json tag so clients see the names they sent.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Enumerations accepted by request payloads.
const (
	Categories   = "beach mountain city historical adventure cultural nature religious"
	Interests    = "adventure relaxation cultural nature nightlife food historical sports beach mountain city wellness"
	TravelStyles = "solo couple family group luxury"
	Seasons      = "spring summer autumn winter"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func Get() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return fld.Name
			}
			return name
		})
		validate.RegisterAlias("category", "oneof="+Categories)
		validate.RegisterAlias("interest", "oneof="+Interests)
		validate.RegisterAlias("travelstyle", "oneof="+TravelStyles)
		validate.RegisterAlias("season", "oneof="+Seasons)
	})
	return validate
}

// Struct validates v and returns field -> message, or nil when v is valid.
func Struct(v any) map[string]string {
	err := Get().Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return map[string]string{"_": err.Error()}
	}

	out := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		key := fieldPath(fe.Namespace())
		if _, seen := out[key]; !seen {
			out[key] = message(fe)
		}
	}
	return out
}

// fieldPath drops the root struct name: "createRequest.location.country"
// becomes "location.country".
func fieldPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "category", "interest", "travelstyle", "season", "oneof":
		return fmt.Sprintf("%s has unsupported value %v", field, fe.Value())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, fe.Param())
	case "gtefield":
		return fmt.Sprintf("%s must not be less than %s", field, fe.Param())
	case "min", "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be %s %s characters", field, bound(fe.Tag()), fe.Param())
		}
		return fmt.Sprintf("%s must be %s %s", field, bound(fe.Tag()), fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}

func bound(tag string) string {
	if tag == "min" {
		return "at least"
	}
	return "at most"
}
