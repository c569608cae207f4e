package prediction

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"reflect"
	"slices"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/sozercan/predict-api/apimodels"
	"github.com/sozercan/predict-api/internal/model"
)

// weatherClasses is the number of weather codes accepted by WindSpeedInput.
const weatherClasses = 4

type Service struct {
	variant       Variant
	predictor     model.Predictor
	encoder       *model.LabelEncoder
	roundDecimals int
	validate      *validator.Validate
	trans         ut.Translator
}

type Option func(*Service)

// WithLabelEncoder attaches the weather label encoder. Inputs arrive
// already encoded; the encoder only names the class in logs.
func WithLabelEncoder(enc *model.LabelEncoder) Option {
	return func(s *Service) {
		s.encoder = enc
	}
}

// WithRounding rounds predictions to the given number of decimals.
// A negative value disables rounding.
func WithRounding(decimals int) Option {
	return func(s *Service) {
		s.roundDecimals = decimals
	}
}

func New(variant Variant, predictor model.Predictor, opts ...Option) (*Service, error) {
	validate, trans, err := newValidator()
	if err != nil {
		return nil, err
	}

	s := &Service{
		variant:       variant,
		predictor:     predictor,
		roundDecimals: -1,
		validate:      validate,
		trans:         trans,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.encoder != nil && len(s.encoder.Classes()) != weatherClasses {
		slog.Warn("label encoder class count does not match weather_encoded range",
			"classes", len(s.encoder.Classes()), "expected", weatherClasses)
	}
	return s, nil
}

func (s *Service) Variant() Variant {
	return s.variant
}

// Decode reads a request body and validates it against the variant schema.
// Every problem found is reported in a single *ValidationError. Errors from
// the underlying reader, such as a body size limit, are returned as is.
func (s *Service) Decode(r io.Reader) (Input, error) {
	dec := json.NewDecoder(r)

	var raw map[string]json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		if !isJSONError(err) {
			return nil, err
		}
		return nil, &ValidationError{Fields: []apimodels.FieldError{decodeFieldError(err)}}
	}
	if err := dec.Decode(&json.RawMessage{}); !errors.Is(err, io.EOF) {
		if err != nil && !isJSONError(err) {
			return nil, err
		}
		return nil, &ValidationError{Fields: []apimodels.FieldError{{
			Loc: []string{"body"}, Msg: "unexpected data after JSON body", Type: "json_invalid",
		}}}
	}

	in := s.variant.NewInput()
	fields := assignFields(in, raw)

	if err := s.validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return nil, &ValidationError{Fields: []apimodels.FieldError{{
				Loc: []string{"body"}, Msg: err.Error(), Type: "value_error",
			}}}
		}
		for _, ve := range verrs {
			if hasField(fields, ve.Field()) {
				continue
			}
			fields = append(fields, s.fieldError(ve))
		}
	}

	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}
	return in, nil
}

// Predict scores a decoded input. Failures are returned as *PredictionError.
func (s *Service) Predict(ctx context.Context, in Input) (float64, error) {
	vector, err := vectorize(in)
	if err != nil {
		return 0, &PredictionError{Err: err}
	}
	if len(vector) != len(s.variant.FeatureNames) {
		return 0, &PredictionError{Err: fmt.Errorf("expected %d features, got %d", len(s.variant.FeatureNames), len(vector))}
	}

	s.logInput(in, vector)

	y, err := model.PredictOne(ctx, s.predictor, vector)
	if err != nil {
		return 0, &PredictionError{Err: err}
	}
	y = s.round(y)
	if math.IsInf(y, 0) || math.IsNaN(y) {
		return 0, &PredictionError{Err: fmt.Errorf("prediction is not finite: %v", y)}
	}
	return y, nil
}

// CheckFeatures verifies that a predictor which records its training
// features agrees with the variant on their number and order.
func CheckFeatures(v Variant, p model.Predictor) error {
	d, ok := p.(model.Describer)
	if !ok {
		return nil
	}
	if d.NumFeatures() != len(v.FeatureNames) {
		return fmt.Errorf("model expects %d features, %s variant provides %d", d.NumFeatures(), v.Name, len(v.FeatureNames))
	}
	names := d.FeatureNames()
	if len(names) > 0 && !slices.Equal(names, v.FeatureNames) {
		return fmt.Errorf("model feature order %v does not match %s variant order %v", names, v.Name, v.FeatureNames)
	}
	return nil
}

func (s *Service) round(y float64) float64 {
	if s.roundDecimals < 0 {
		return y
	}
	p := math.Pow(10, float64(s.roundDecimals))
	scaled := y * p
	if math.IsInf(scaled, 0) || math.IsNaN(scaled) {
		// already far beyond the requested precision
		return y
	}
	return math.Round(scaled) / p
}

func (s *Service) logInput(in Input, vector []float64) {
	attrs := []any{"variant", s.variant.Name, "features", vector}
	if wind, ok := in.(*apimodels.WindSpeedInput); ok && s.encoder != nil {
		if label, err := s.encoder.InverseTransform(*wind.WeatherEncoded); err == nil {
			attrs = append(attrs, "weather", label)
		}
	}
	slog.Debug("Scoring prediction request", attrs...)
}

func vectorize(in Input) (vector []float64, err error) {
	if in == nil {
		return nil, errors.New("no input")
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("building feature vector: %v", r)
		}
	}()
	return in.Features(), nil
}

func (s *Service) fieldError(ve validator.FieldError) apimodels.FieldError {
	fe := apimodels.FieldError{
		Loc:  []string{"body", ve.Field()},
		Msg:  ve.Translate(s.trans),
		Type: ve.Tag(),
	}
	if ve.Tag() == "required" {
		fe.Msg = "Field required"
		fe.Type = "missing"
	}
	return fe
}

func isJSONError(err error) bool {
	var typeErr *json.UnmarshalTypeError
	var syntaxErr *json.SyntaxError
	return errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.As(err, &typeErr) || errors.As(err, &syntaxErr)
}

func decodeFieldError(err error) apimodels.FieldError {
	var typeErr *json.UnmarshalTypeError
	var syntaxErr *json.SyntaxError
	switch {
	case errors.Is(err, io.EOF):
		return apimodels.FieldError{Loc: []string{"body"}, Msg: "request body is empty", Type: "missing"}
	case errors.As(err, &typeErr):
		return apimodels.FieldError{
			Loc:  []string{"body"},
			Msg:  fmt.Sprintf("expected a JSON object, got %s", typeErr.Value),
			Type: "json_invalid",
		}
	case errors.As(err, &syntaxErr):
		return apimodels.FieldError{
			Loc:  []string{"body"},
			Msg:  fmt.Sprintf("invalid JSON at offset %d: %v", syntaxErr.Offset, err),
			Type: "json_invalid",
		}
	default:
		return apimodels.FieldError{Loc: []string{"body"}, Msg: err.Error(), Type: "json_invalid"}
	}
}

// assignFields decodes each known field of raw into in on its own, so one
// badly typed field does not hide the others. Fields that fail stay nil and
// are reported once as type_error.
func assignFields(in Input, raw map[string]json.RawMessage) []apimodels.FieldError {
	v := reflect.ValueOf(in).Elem()
	t := v.Type()

	var fields []apimodels.FieldError
	for i := 0; i < t.NumField(); i++ {
		name := strings.SplitN(t.Field(i).Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			continue
		}
		msg, ok := raw[name]
		if !ok {
			continue
		}
		if err := decodeField(v.Field(i), msg); err != nil {
			fields = append(fields, apimodels.FieldError{
				Loc:  []string{"body", name},
				Msg:  err.Error(),
				Type: "type_error",
			})
		}
	}
	return fields
}

func decodeField(field reflect.Value, msg json.RawMessage) error {
	msg = bytes.TrimSpace(msg)
	if string(msg) == "null" {
		return nil
	}

	elem := field.Type()
	if elem.Kind() == reflect.Ptr {
		elem = elem.Elem()
	}
	val := reflect.New(elem)

	switch elem.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := parseInteger(msg)
		if err != nil {
			return err
		}
		if val.Elem().OverflowInt(n) {
			return fmt.Errorf("integer %d out of range", n)
		}
		val.Elem().SetInt(n)
	case reflect.Float32, reflect.Float64:
		if !isJSONNumber(msg) {
			return fmt.Errorf("expected number, got %s", jsonKind(msg))
		}
		var f float64
		if err := json.Unmarshal(msg, &f); err != nil {
			return fmt.Errorf("number %s out of range", msg)
		}
		val.Elem().SetFloat(f)
	default:
		if err := json.Unmarshal(msg, val.Interface()); err != nil {
			return fmt.Errorf("expected %s, got %s", elem.Kind(), jsonKind(msg))
		}
	}

	if field.Kind() == reflect.Ptr {
		field.Set(val)
	} else {
		field.Set(val.Elem())
	}
	return nil
}

// parseInteger accepts integers and floats with no fractional part,
// e.g. 5 and 5.0.
func parseInteger(msg json.RawMessage) (int64, error) {
	if !isJSONNumber(msg) {
		return 0, fmt.Errorf("expected integer, got %s", jsonKind(msg))
	}
	num := json.Number(msg)
	if n, err := num.Int64(); err == nil {
		return n, nil
	}
	f, err := num.Float64()
	if err != nil || f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, fmt.Errorf("expected integer, got number %s", msg)
	}
	return int64(f), nil
}

func isJSONNumber(msg json.RawMessage) bool {
	return len(msg) > 0 && (msg[0] == '-' || (msg[0] >= '0' && msg[0] <= '9'))
}

func jsonKind(msg json.RawMessage) string {
	if len(msg) == 0 {
		return "nothing"
	}
	switch msg[0] {
	case '"':
		return "string"
	case '{':
		return "object"
	case '[':
		return "array"
	case 't', 'f':
		return "boolean"
	default:
		return "number"
	}
}

func hasField(fields []apimodels.FieldError, name string) bool {
	for _, f := range fields {
		if len(f.Loc) > 1 && f.Loc[len(f.Loc)-1] == name {
			return true
		}
	}
	return false
}

func newValidator() (*validator.Validate, ut.Translator, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	enLocale := en.New()
	trans, _ := ut.New(enLocale, enLocale).GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, nil, fmt.Errorf("registering validation messages: %w", err)
	}
	return validate, trans, nil
}
