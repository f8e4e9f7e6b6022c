package errors

import (
	"bufio"
	stderrors "errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
)

// Category represents the type of error.
type Category string

const (
	CategoryConfig     Category = "config"
	CategoryRoute      Category = "route"
	CategoryNavigation Category = "navigation"
	CategoryServer     Category = "server"
	CategoryPublish    Category = "publish"
	CategoryCLI        Category = "cli"
)

// Location is a position in a config or route declaration file.
type Location struct {
	File   string
	Line   int
	Column int
}

// String returns the location as a formatted string.
func (l *Location) String() string {
	if l == nil {
		return ""
	}
	if l.Column > 0 {
		return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// StocknavError is a structured error with a stable code, an optional file
// location and a fix suggestion.
type StocknavError struct {
	// Code is a unique error identifier (e.g., "E201").
	Code string

	// Category is the error type (config, route, etc.).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Location is the file position the error refers to, if any.
	Location *Location

	// Context contains the lines surrounding Location.
	Context []string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Example shows a correct declaration.
	Example string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *StocknavError) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = e.Code + ": " + msg
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *StocknavError) Unwrap() error {
	return e.Wrapped
}

// WithLocation adds a file location and reads the surrounding lines.
func (e *StocknavError) WithLocation(file string, line, column int) *StocknavError {
	e.Location = &Location{File: file, Line: line, Column: column}
	e.Context = readContextLines(file, line, 5)
	return e
}

// yamlLine matches the "line N:" fragment yaml.v3 puts in decode errors.
var yamlLine = regexp.MustCompile(`line (\d+):`)

// WithLocationFromYAML extracts the first line number from a yaml.v3 decode
// error and points the error at file.
func (e *StocknavError) WithLocationFromYAML(file string, err error) *StocknavError {
	if err == nil {
		return e
	}
	m := yamlLine.FindStringSubmatch(err.Error())
	if m == nil {
		return e
	}
	line, _ := strconv.Atoi(m[1])
	if line > 0 {
		e.WithLocation(file, line, 0)
	}
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *StocknavError) WithSuggestion(s string) *StocknavError {
	e.Suggestion = s
	return e
}

// WithExample adds a declaration example to the error.
func (e *StocknavError) WithExample(ex string) *StocknavError {
	e.Example = ex
	return e
}

// WithDetail replaces the detailed explanation.
func (e *StocknavError) WithDetail(d string) *StocknavError {
	e.Detail = d
	return e
}

// WithContext sets custom context lines.
func (e *StocknavError) WithContext(lines []string) *StocknavError {
	e.Context = lines
	return e
}

// Wrap wraps another error.
func (e *StocknavError) Wrap(err error) *StocknavError {
	e.Wrapped = err
	return e
}

// readContextLines reads lines around the specified line number from a file.
func readContextLines(filename string, targetLine, contextSize int) []string {
	file, err := os.Open(filename)
	if err != nil {
		return nil
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	lineNum := 0
	startLine := targetLine - contextSize/2
	endLine := targetLine + contextSize/2

	for scanner.Scan() {
		lineNum++
		if lineNum >= startLine && lineNum <= endLine {
			lines = append(lines, scanner.Text())
		}
		if lineNum > endLine {
			break
		}
	}

	return lines
}

// New creates a StocknavError from a registered error code.
func New(code string) *StocknavError {
	template, ok := registry[code]
	if !ok {
		return &StocknavError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &StocknavError{
		Code:       code,
		Category:   template.Category,
		Message:    template.Message,
		Detail:     template.Detail,
		Suggestion: template.Suggestion,
	}
}

// Newf creates a new StocknavError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *StocknavError {
	return &StocknavError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in a StocknavError. Errors that already
// carry a code are returned unchanged.
func FromError(err error, code string) *StocknavError {
	if err == nil {
		return nil
	}
	var se *StocknavError
	if stderrors.As(err, &se) {
		return se
	}
	return New(code).Wrap(err)
}

// Code returns the code of the first StocknavError in err's chain.
func Code(err error) string {
	var se *StocknavError
	if stderrors.As(err, &se) {
		return se.Code
	}
	return ""
}
