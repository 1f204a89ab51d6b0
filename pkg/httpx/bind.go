package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strconv"

	"github.com/code19m/pulsechat/pkg/errs"
)

// BindRequest populates R's path/query-tagged fields from r, decodes a JSON
// body when present, and runs R.Validate(). R is the per-handler request DTO
// defined alongside its usecase.
func BindRequest[R interface{ Validate() error }](r *http.Request) (R, error) {
	const op = "BindRequest"
	var req R

	reqVal := reflect.ValueOf(&req).Elem()
	reqType := reqVal.Type()

	for i := 0; i < reqType.NumField(); i++ {
		field := reqType.Field(i)
		fieldVal := reqVal.Field(i)

		if !fieldVal.CanSet() {
			continue
		}

		if pathTag := field.Tag.Get("path"); pathTag != "" {
			pathValue := r.PathValue(pathTag)
			if pathValue != "" {
				if err := setFieldValue(fieldVal, pathValue); err != nil {
					return req, errs.Wrap(op, errs.AddFieldError(nil, pathTag, err.Error()))
				}
			}
		}

		if queryTag := field.Tag.Get("query"); queryTag != "" {
			queryValue := r.URL.Query().Get(queryTag)
			if queryValue != "" {
				if err := setFieldValue(fieldVal, queryValue); err != nil {
					return req, errs.Wrap(op, errs.AddFieldError(nil, queryTag, err.Error()))
				}
			}
		}
	}

	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			return req, errs.Wrap(op, errs.New(errs.KindBadRequest, "malformed request body"))
		}
	}

	if err := req.Validate(); err != nil {
		return req, errs.Wrap(op, err)
	}

	return req, nil
}

// setFieldValue sets a field value from a string based on its type.
func setFieldValue(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		intVal, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return err
		}
		field.SetInt(intVal)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		uintVal, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return err
		}
		field.SetUint(uintVal)
	case reflect.Bool:
		boolVal, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		field.SetBool(boolVal)
	case reflect.Float32, reflect.Float64:
		floatVal, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		field.SetFloat(floatVal)
	default:
		return errors.New("unsupported field type")
	}
	return nil
}
