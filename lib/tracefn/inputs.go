// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tracefn

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// inputValidate checks url inputs. validator.Validate is safe for
// concurrent use once constructed.
var inputValidate = validator.New()

// ValidateInputs checks values against the function's declared inputs
// and returns a *ValidationError for the first violation. Unknown
// names are reported first, in sorted order; declared inputs are then
// checked in declaration order.
func ValidateInputs(function *TraceFunction, values map[string]any) error {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if _, declared := function.Input(name); !declared {
			return &ValidationError{Input: name, Constraint: "unknown input"}
		}
	}

	for _, input := range function.Inputs {
		value, present := values[input.Name]
		if !present || value == nil {
			if input.Required {
				return &ValidationError{Input: input.Name, Constraint: "required input is missing"}
			}
			continue
		}
		if err := checkValue(input, value); err != nil {
			return err
		}
	}
	return nil
}

func checkValue(input FunctionInput, value any) error {
	fail := func(format string, args ...any) error {
		return &ValidationError{Input: input.Name, Constraint: fmt.Sprintf(format, args...)}
	}

	switch input.Type {
	case InputString, InputText, InputFileContent:
		if _, ok := value.(string); !ok {
			return fail("must be a string, got %T", value)
		}

	case InputURL:
		text, ok := value.(string)
		if !ok {
			return fail("must be a URL string, got %T", value)
		}
		if err := inputValidate.Var(text, "url"); err != nil {
			return fail("%q is not a valid URL", text)
		}

	case InputFileList:
		if _, ok := stringList(value); !ok {
			return fail("must be a list of file paths, got %T", value)
		}

	case InputNumber:
		number, ok := toFloat(value)
		if !ok {
			return fail("must be a number, got %T", value)
		}
		if math.IsNaN(number) || math.IsInf(number, 0) {
			return fail("must be a finite number")
		}
		if input.Min != nil && number < *input.Min {
			return fail("%v is below minimum %v", number, *input.Min)
		}
		if input.Max != nil && number > *input.Max {
			return fail("%v is above maximum %v", number, *input.Max)
		}

	case InputEnum:
		text, ok := value.(string)
		if !ok {
			return fail("must be one of %s, got %T", strings.Join(input.Values, ", "), value)
		}
		if !slices.Contains(input.Values, text) {
			return fail("%q is not one of %s", text, strings.Join(input.Values, ", "))
		}

	case InputJSON:
		if _, err := json.Marshal(value); err != nil {
			return fail("is not representable as JSON: %v", err)
		}

	default:
		return fail("unknown input type %q", input.Type)
	}
	return nil
}

// ParseInputValue converts a command-line string into the Go value
// ValidateInputs expects for the input's type: float64 for number,
// []string for file_list (comma separated), the decoded document for
// json, and the string itself otherwise.
func ParseInputValue(input FunctionInput, raw string) (any, error) {
	switch input.Type {
	case InputNumber:
		number, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, &ValidationError{Input: input.Name, Constraint: fmt.Sprintf("%q is not a number", raw)}
		}
		return number, nil
	case InputFileList:
		var files []string
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				files = append(files, part)
			}
		}
		if files == nil {
			files = []string{}
		}
		return files, nil
	case InputJSON:
		var document any
		if err := json.Unmarshal([]byte(raw), &document); err != nil {
			return nil, &ValidationError{Input: input.Name, Constraint: fmt.Sprintf("invalid JSON: %v", err)}
		}
		return document, nil
	}
	return raw, nil
}

// Stringify renders an input value for placeholder substitution.
// Lists are joined with ", "; numbers use the shortest exact decimal
// form; other structured values are rendered as compact JSON.
func Stringify(value any) string {
	switch typed := value.(type) {
	case nil:
		return ""
	case string:
		return typed
	case bool:
		return strconv.FormatBool(typed)
	case []string:
		return strings.Join(typed, ", ")
	case []any:
		if list, ok := stringList(typed); ok {
			return strings.Join(list, ", ")
		}
	}
	if number, ok := toFloat(value); ok {
		return strconv.FormatFloat(number, 'f', -1, 64)
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Sprint(value)
	}
	return string(data)
}

func stringList(value any) ([]string, bool) {
	switch typed := value.(type) {
	case []string:
		return typed, true
	case []any:
		result := make([]string, 0, len(typed))
		for _, element := range typed {
			text, ok := element.(string)
			if !ok {
				return nil, false
			}
			result = append(result, text)
		}
		return result, true
	}
	return nil, false
}

func toFloat(value any) (float64, bool) {
	switch typed := value.(type) {
	case float64:
		return typed, true
	case float32:
		return float64(typed), true
	case int:
		return float64(typed), true
	case int64:
		return float64(typed), true
	case int32:
		return float64(typed), true
	case uint:
		return float64(typed), true
	case uint64:
		return float64(typed), true
	case uint32:
		return float64(typed), true
	case json.Number:
		number, err := typed.Float64()
		return number, err == nil
	}
	return 0, false
}
