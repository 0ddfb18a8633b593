package request

import (
	"errors"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"casting-tracker/internal/storage"
	"casting-tracker/internal/tracking"
)

const DateLayout = "2006-01-02"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func invalid(msg string) error {
	return &tracking.Error{Kind: tracking.ErrValidation, Message: msg}
}

// Decode reads a JSON body into dst and validates it.
func Decode(r *http.Request, dst any) error {
	if err := render.DecodeJSON(r.Body, dst); err != nil {
		return invalid("invalid request body")
	}
	return Validate(dst)
}

func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	return invalid(Message(err))
}

// Message renders validator errors as "field rule" pairs.
func Message(err error) string {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return err.Error()
	}

	msgs := make([]string, 0, len(errs))
	for _, fe := range errs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fe.Field()+" is required")
		case "email":
			msgs = append(msgs, fe.Field()+" must be a valid email")
		case "oneof":
			msgs = append(msgs, fe.Field()+" must be one of "+fe.Param())
		case "len":
			msgs = append(msgs, fe.Field()+" must have length "+fe.Param())
		case "numeric":
			msgs = append(msgs, fe.Field()+" must be numeric")
		case "number":
			msgs = append(msgs, fe.Field()+" must contain only digits")
		case "min", "gte":
			msgs = append(msgs, fe.Field()+" must be at least "+fe.Param())
		default:
			msgs = append(msgs, fe.Field()+" is invalid")
		}
	}
	return strings.Join(msgs, ", ")
}

// Date parses an optional query parameter given as YYYY-MM-DD or RFC 3339.
func Date(r *http.Request, name string) (*time.Time, error) {
	t, _, err := parseDate(r, name)
	return t, err
}

func parseDate(r *http.Request, name string) (*time.Time, bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, false, nil
	}
	if t, err := time.Parse(DateLayout, raw); err == nil {
		return &t, true, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, false, nil
	}
	return nil, false, invalid(name + " must be a date (YYYY-MM-DD)")
}

// ProductionFilter reads operator_id, service_id, piece_id, start_date and
// end_date. A date-only end_date covers the whole day.
func ProductionFilter(r *http.Request) (storage.ProductionFilter, error) {
	q := r.URL.Query()
	f := storage.ProductionFilter{
		OperatorID: q.Get("operator_id"),
		ServiceID:  q.Get("service_id"),
		PieceID:    q.Get("piece_id"),
	}

	from, _, err := parseDate(r, "start_date")
	if err != nil {
		return f, err
	}
	to, dateOnly, err := parseDate(r, "end_date")
	if err != nil {
		return f, err
	}
	if to != nil && dateOnly {
		end := to.Add(24*time.Hour - time.Millisecond)
		to = &end
	}

	f.From, f.To = from, to
	return f, nil
}
