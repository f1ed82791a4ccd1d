package errors

import (
	"bufio"
	"encoding/json"
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
	CategoryValidation Category = "validation"
	CategoryCLI        Category = "cli"
	CategoryProtocol   Category = "protocol"
)

// Location is a position in a configuration file.
type Location struct {
	File   string
	Line   int
	Column int
}

// String returns the location as file:line[:column].
func (l *Location) String() string {
	if l == nil {
		return ""
	}
	if l.Column > 0 {
		return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// PopoverError is a structured error with an optional file location and a
// fix suggestion.
type PopoverError struct {
	// Code is a unique error identifier (e.g., "E110").
	Code string

	// Category is the error type.
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Location points into the file that caused the error.
	Location *Location

	// Context holds the file lines around Location.
	Context []string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Example shows a correct configuration snippet.
	Example string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *PopoverError) Error() string {
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
func (e *PopoverError) Unwrap() error {
	return e.Wrapped
}

// WithLocation points the error at a line of file and loads the
// surrounding lines for display.
func (e *PopoverError) WithLocation(file string, line, column int) *PopoverError {
	e.Location = &Location{File: file, Line: line, Column: column}
	e.Context = readContextLines(file, line, 5)
	return e
}

var yamlLine = regexp.MustCompile(`line (\d+)`)

// WithLocationFromError extracts a line from decoder errors. YAML errors
// mention "line N"; JSON errors carry a byte offset into data.
func (e *PopoverError) WithLocationFromError(file string, data []byte, err error) *PopoverError {
	if err == nil {
		return e
	}

	var syntaxErr *json.SyntaxError
	if stderrors.As(err, &syntaxErr) {
		line, col := lineColumn(data, syntaxErr.Offset)
		return e.WithLocation(file, line, col)
	}
	var typeErr *json.UnmarshalTypeError
	if stderrors.As(err, &typeErr) {
		line, col := lineColumn(data, typeErr.Offset)
		return e.WithLocation(file, line, col)
	}
	if m := yamlLine.FindStringSubmatch(err.Error()); m != nil {
		if line, convErr := strconv.Atoi(m[1]); convErr == nil && line > 0 {
			return e.WithLocation(file, line, 0)
		}
	}
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *PopoverError) WithSuggestion(s string) *PopoverError {
	e.Suggestion = s
	return e
}

// WithExample adds a configuration example to the error.
func (e *PopoverError) WithExample(ex string) *PopoverError {
	e.Example = ex
	return e
}

// WithDetail replaces the detailed explanation.
func (e *PopoverError) WithDetail(d string) *PopoverError {
	e.Detail = d
	return e
}

// Wrap wraps another error.
func (e *PopoverError) Wrap(err error) *PopoverError {
	e.Wrapped = err
	return e
}

// lineColumn converts a byte offset to a 1-based line and column.
func lineColumn(data []byte, offset int64) (line, col int) {
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	line, col = 1, 1
	for _, b := range data[:offset] {
		if b == '\n' {
			line++
			col = 1
			continue
		}
		col++
	}
	return line, col
}

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

// New creates a PopoverError from a registered error code.
func New(code string) *PopoverError {
	template, ok := registry[code]
	if !ok {
		return &PopoverError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &PopoverError{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		Detail:   template.Detail,
	}
}

// Newf creates an uncoded error with a formatted message.
func Newf(category Category, format string, args ...any) *PopoverError {
	return &PopoverError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps err under code unless it already is a PopoverError.
func FromError(err error, code string) *PopoverError {
	if err == nil {
		return nil
	}
	var pe *PopoverError
	if stderrors.As(err, &pe) {
		return pe
	}
	return New(code).Wrap(err)
}
