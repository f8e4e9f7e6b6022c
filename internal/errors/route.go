package errors

import (
	stderrors "errors"
	"strings"

	"github.com/vango-dev/stocknav/pkg/routepath"
	"github.com/vango-dev/stocknav/pkg/router"
)

var validationCodes = map[router.ValidationErrorType]string{
	router.ErrorDuplicateName:    "E201",
	router.ErrorDuplicatePath:    "E202",
	router.ErrorMalformedParam:   "E203",
	router.ErrorDuplicateParam:   "E204",
	router.ErrorInvalidSegment:   "E205",
	router.ErrorInvalidPath:      "E206",
	router.ErrorMissingComponent: "E207",
	router.ErrorEmptyName:        "E208",
}

// FromValidation converts route table validation failures into coded
// errors, one per problem. It returns nil when err is not a validation
// failure.
func FromValidation(err error) []*StocknavError {
	var multi *router.MultiValidationError
	if !stderrors.As(err, &multi) {
		return nil
	}
	out := make([]*StocknavError, 0, len(multi.Errors))
	for _, ve := range multi.Errors {
		code, ok := validationCodes[ve.Type]
		if !ok {
			code = "E206"
		}
		e := New(code).Wrap(ve)
		e.Message = ve.Message
		if ve.Path != "" && len(ve.Names) > 0 {
			e.WithContext([]string{strings.Join(ve.Names, ", ") + " → " + ve.Path})
		}
		if ve.Details != "" {
			e.WithSuggestion(ve.Details)
		}
		out = append(out, e)
	}
	return out
}

// FromRouteError maps router and routepath sentinel errors to their codes.
// Unrecognized errors are wrapped under fallback.
func FromRouteError(err error, fallback string) *StocknavError {
	if err == nil {
		return nil
	}
	var se *StocknavError
	if stderrors.As(err, &se) {
		return se
	}
	switch {
	case stderrors.Is(err, router.ErrUnknownRoute):
		return New("E220").Wrap(err)
	case stderrors.Is(err, router.ErrMissingParam):
		return New("E221").Wrap(err)
	case stderrors.Is(err, router.ErrUnknownComponent):
		return New("E212").Wrap(err)
	case stderrors.Is(err, router.ErrNavigationCancelled):
		return New("E303").Wrap(err)
	case stderrors.Is(err, router.ErrTooManyRedirects):
		return New("E304").Wrap(err)
	case stderrors.Is(err, router.ErrNoHistory):
		return New("E305").Wrap(err)
	case IsMalformedLocation(err):
		return New("E301").Wrap(err)
	}
	return New(fallback).Wrap(err)
}

// IsMalformedLocation reports whether err is one of the location parsing
// failures from routepath.
func IsMalformedLocation(err error) bool {
	for _, target := range []error{
		routepath.ErrInvalidPath,
		routepath.ErrBackslashInPath,
		routepath.ErrNullByteInPath,
		routepath.ErrInvalidPercentEscape,
		routepath.ErrPathEscapesRoot,
		routepath.ErrEncodedSlashInSegment,
		routepath.ErrEncodedDotSegment,
	} {
		if stderrors.Is(err, target) {
			return true
		}
	}
	return false
}
