// Copyright (c) 2026 Darkshelf. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/darkshelf/internal/platform/apperr"
	"github.com/taibuivan/darkshelf/internal/platform/validate"
)

/*
DecodeJSON reads the request body and decodes it into the target structure.

Parameters:
  - request: *http.Request
  - target: interface{} (Pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(request *http.Request, target interface{}) error {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
DecodeStrictJSON is [DecodeJSON] for bodies whose keys must all be known.

Description: A misspelled key would otherwise be dropped silently, turning a
partial update into an empty one.

Returns:
  - error: VALIDATION_ERROR naming the unknown field, or validate.ErrInvalidJSON
*/
func DecodeStrictJSON(request *http.Request, target interface{}) error {
	decoder := json.NewDecoder(request.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(target); err != nil {
		if field, ok := strings.CutPrefix(err.Error(), unknownFieldPrefix); ok {
			field = strings.Trim(field, `"`)
			return apperr.ValidationError(fmt.Sprintf("Unknown field %q", field),
				apperr.FieldError{Field: field, Message: "Unknown field"},
			)
		}
		return validate.ErrInvalidJSON
	}
	return nil
}

// unknownFieldPrefix is how encoding/json reports a key with no matching field.
const unknownFieldPrefix = "json: unknown field "

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
IntParam retrieves a named URL parameter and parses it as a positive integer.

Returns:
  - int: The parsed identifier
  - error: VALIDATION_ERROR if the parameter is not a positive integer
*/
func IntParam(request *http.Request, name string) (int, error) {
	value, err := strconv.Atoi(Param(request, name))
	if err != nil || value <= 0 {
		return 0, validate.RequiredError(name, "Must be a positive integer")
	}

	return value, nil
}
