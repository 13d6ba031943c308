package feature

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strconv"

	"github.com/denizgursoy/stepreport/pkg/stepreport"
)

// ErrUndefinedStep is returned when no definition matches a step.
var ErrUndefinedStep = errors.New("undefined step")

var (
	contextType = reflect.TypeOf((*context.Context)(nil)).Elem()
	errorType   = reflect.TypeOf((*error)(nil)).Elem()
	caseType    = reflect.TypeOf((*stepreport.Case)(nil))
	tableType   = reflect.TypeOf((*Table)(nil))
)

// StepDefinition holds a compiled pattern and its handler.
type StepDefinition struct {
	Pattern  *regexp.Regexp
	Function any
}

// Registry matches step text against registered definitions and invokes
// them. Handlers are functions whose parameters are any of
// *stepreport.Case, context.Context and *Table, followed by one parameter
// per capture group, and which return nothing or an error.
type Registry struct {
	steps      []StepDefinition
	patternSet map[string]bool
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		steps:      make([]StepDefinition, 0),
		patternSet: make(map[string]bool),
	}
}

// RegisterStep registers fn for pattern.
func (r *Registry) RegisterStep(pattern string, fn any) error {
	if r.patternSet[pattern] {
		return fmt.Errorf("duplicate step pattern: %s", pattern)
	}

	compiled, err := regexp.Compile(pattern)
	if err != nil {
		return fmt.Errorf("invalid step pattern %q: %w", pattern, err)
	}

	fnType := reflect.TypeOf(fn)
	if fnType == nil || fnType.Kind() != reflect.Func {
		return fmt.Errorf("step handler must be a function, got %T", fn)
	}
	if fnType.NumOut() > 1 || (fnType.NumOut() == 1 && fnType.Out(0) != errorType) {
		return fmt.Errorf("step handler for %q must return nothing or an error", pattern)
	}

	r.steps = append(r.steps, StepDefinition{
		Pattern:  compiled,
		Function: fn,
	})
	r.patternSet[pattern] = true
	return nil
}

// Len returns the number of registered definitions.
func (r *Registry) Len() int {
	return len(r.steps)
}

// Match returns the first definition matching text and its captured groups.
func (r *Registry) Match(text string) (StepDefinition, []string, bool) {
	for _, def := range r.steps {
		matches := def.Pattern.FindStringSubmatch(text)
		if matches == nil {
			continue
		}
		return def, matches[1:], true
	}
	return StepDefinition{}, nil, false
}

// Invoke runs the definition matching text. A non-nil docString is
// passed after the captured groups.
func (r *Registry) Invoke(c *stepreport.Case, text string, table *Table, docString *string) error {
	def, captured, ok := r.Match(text)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUndefinedStep, text)
	}
	if docString != nil {
		captured = append(captured, *docString)
	}

	fnValue := reflect.ValueOf(def.Function)
	callArgs, err := buildCallArgs(fnValue.Type(), c, table, captured)
	if err != nil {
		return fmt.Errorf("step %q: %w", text, err)
	}

	results := fnValue.Call(callArgs)
	if len(results) == 1 && !results[0].IsNil() {
		return results[0].Interface().(error)
	}
	return nil
}

// buildCallArgs constructs the argument slice for function invocation.
func buildCallArgs(fnType reflect.Type, c *stepreport.Case, table *Table, captured []string) ([]reflect.Value, error) {
	numParams := fnType.NumIn()
	callArgs := make([]reflect.Value, 0, numParams)
	capturedIndex := 0

	for i := 0; i < numParams; i++ {
		paramType := fnType.In(i)

		switch {
		case paramType == caseType:
			callArgs = append(callArgs, reflect.ValueOf(c))
			continue
		case paramType == contextType:
			callArgs = append(callArgs, reflect.ValueOf(c.Context()))
			continue
		case paramType == tableType:
			if table == nil {
				return nil, errors.New("step has no data table")
			}
			callArgs = append(callArgs, reflect.ValueOf(table))
			continue
		}

		if capturedIndex >= len(captured) {
			return nil, fmt.Errorf("not enough captured arguments: expected %d more, have %d", numParams-i, len(captured)-capturedIndex)
		}
		arg := captured[capturedIndex]
		capturedIndex++

		converted, err := convertArg(arg, paramType)
		if err != nil {
			return nil, fmt.Errorf("failed to convert argument %q to %s: %w", arg, paramType, err)
		}
		callArgs = append(callArgs, converted)
	}

	return callArgs, nil
}

// convertArg converts a captured string to the target type, including named
// types whose underlying kind is supported.
func convertArg(arg string, targetType reflect.Type) (reflect.Value, error) {
	value := reflect.New(targetType).Elem()

	switch targetType.Kind() {
	case reflect.String:
		value.SetString(arg)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v, err := strconv.ParseInt(arg, 10, targetType.Bits())
		if err != nil {
			return reflect.Value{}, err
		}
		value.SetInt(v)

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v, err := strconv.ParseUint(arg, 10, targetType.Bits())
		if err != nil {
			return reflect.Value{}, err
		}
		value.SetUint(v)

	case reflect.Float32, reflect.Float64:
		v, err := strconv.ParseFloat(arg, targetType.Bits())
		if err != nil {
			return reflect.Value{}, err
		}
		value.SetFloat(v)

	case reflect.Bool:
		v, err := strconv.ParseBool(arg)
		if err != nil {
			return reflect.Value{}, err
		}
		value.SetBool(v)

	default:
		return reflect.Value{}, fmt.Errorf("unsupported parameter type: %s", targetType.Kind())
	}

	return value, nil
}
