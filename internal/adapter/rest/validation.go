package rest

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/Abdurahmanit/meraroom-service/internal/domain"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"form", "json"} {
			name := strings.Split(f.Tag.Get(tag), ",")[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return f.Name
	})
	_ = v.RegisterValidation("mobile", func(fl validator.FieldLevel) bool {
		return domain.ValidPhone(fl.Field().String())
	})
	return v
}

// validateStruct runs the validate tags of dst and converts failures into a
// *domain.ValidationError. A field's msg tag overrides the generic message.
func validateStruct(dst interface{}) error {
	err := validate.Struct(dst)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}

	t := reflect.TypeOf(dst)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	out := &domain.ValidationError{}
	for _, fe := range ve {
		msg := ""
		if sf, ok := t.FieldByName(fe.StructField()); ok {
			msg = sf.Tag.Get("msg")
		}
		if msg == "" {
			msg = defaultMessage(fe)
		}
		out.Add(fe.Field(), msg)
	}
	return out
}

func defaultMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	case "mobile":
		return "Please add a valid 10-digit phone number"
	case "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	}
	return fmt.Sprintf("Validation failed on field '%s' for tag '%s'", fe.Field(), fe.Tag())
}

// bindForm copies url-encoded or multipart values into the string, []string,
// int and float64 fields of dst by their form tag. A tag may list aliases:
// `form:"address,propertyAddress"`. Numbers that do not parse are reported
// with the field's msg.
func bindForm(values url.Values, dst interface{}) error {
	rv := reflect.ValueOf(dst).Elem()
	rt := rv.Type()
	verr := &domain.ValidationError{}

	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		names := strings.Split(sf.Tag.Get("form"), ",")
		if names[0] == "" {
			continue
		}
		var raw []string
		for _, n := range names {
			if vs, ok := values[n]; ok {
				raw = vs
				break
			}
		}
		if len(raw) == 0 {
			continue
		}

		fv := rv.Field(i)
		first := strings.TrimSpace(raw[0])
		switch fv.Kind() {
		case reflect.String:
			fv.SetString(first)
		case reflect.Slice:
			fv.Set(reflect.ValueOf(splitList(raw)))
		case reflect.Int:
			if first == "" {
				continue
			}
			n, err := strconv.Atoi(first)
			if err != nil {
				verr.Add(names[0], fieldMessage(sf, names[0]))
				continue
			}
			fv.SetInt(int64(n))
		case reflect.Float64:
			if first == "" {
				continue
			}
			f, err := strconv.ParseFloat(first, 64)
			if err != nil {
				verr.Add(names[0], fieldMessage(sf, names[0]))
				continue
			}
			fv.SetFloat(f)
		}
	}
	return verr.OrNil()
}

func fieldMessage(sf reflect.StructField, name string) string {
	if msg := sf.Tag.Get("msg"); msg != "" {
		return msg
	}
	return fmt.Sprintf("Invalid value for %s", name)
}

// splitList accepts repeated keys as well as a single comma separated value.
func splitList(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		for _, p := range strings.Split(r, ",") {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
