package streams

import (
	"bytes"
	"text/template"
)

// error codes.
const (
	StreamLinked         = 1
	StreamConsumed       = 2
	IllegalArgument      = 3
	ShapeMismatch        = 4
	SizeExceedsMaxSlice  = 5
	UserCallback         = 6
	IllegalStreamMapping = 7
)

// error templates.
var (
	streamLinkedTemplate, _         = template.New("StreamLinked").Parse("ErrStreamLinked: The stream has already been operated on, a stream supports a single downstream operation.")
	streamConsumedTemplate, _       = template.New("StreamConsumed").Parse("ErrStreamConsumed: A terminal operation has already been invoked on the stream.")
	illegalArgumentTemplate, _      = template.New("IllegalArgument").Parse("ErrIllegalArgument: Illegal argument: {{.argument}} for operation: {{.operation}}.")
	shapeMismatchTemplate, _        = template.New("ShapeMismatch").Parse("ErrShapeMismatch: A sink of type {{.got}} cannot consume elements of type {{.want}}.")
	sizeExceedsMaxSliceTemplate, _  = template.New("SizeExceedsMaxSlice").Parse("ErrSizeExceedsMaxSlice: The stream would collect {{.size}} elements which exceeds the maximum slice size.")
	userCallbackTemplate, _         = template.New("UserCallback").Parse("ErrUserCallback: A user supplied callback panicked during stream evaluation: {{.cause}}.")
	illegalStreamMappingTemplate, _ = template.New("IllegalMapping").Parse("ErrIllegalStreamMapping: The given stream was not created by this package and cannot be extended by {{.operation}}.")
)

// Error a custom error type for streams. The concrete failure is identified by its code.
type Error struct {
	code  int
	msg   string
	cause any
}

// Code returns the error code for the error.
func (err *Error) Code() int {
	return err.code
}

// Error returns the error message.
func (err *Error) Error() string {
	return err.msg
}

// Cause returns the recovered panic value for a UserCallback error, nil otherwise.
func (err *Error) Cause() any {
	return err.cause
}

// errStreamLinked returns an error for a stream that has already been operated on.
func errStreamLinked() *Error {
	var buffer bytes.Buffer
	streamLinkedTemplate.Execute(&buffer, map[string]string{})
	return &Error{code: StreamLinked, msg: buffer.String()}
}

// errStreamConsumed returns an error for a stream that has already been consumed by a terminal operation.
func errStreamConsumed() *Error {
	var buffer bytes.Buffer
	streamConsumedTemplate.Execute(&buffer, map[string]string{})
	return &Error{code: StreamConsumed, msg: buffer.String()}
}

// errIllegalArgument returns an error for a stream operation that has been given an illegal argument.
func errIllegalArgument(argument, operation string) *Error {
	var buffer bytes.Buffer
	illegalArgumentTemplate.Execute(&buffer, map[string]string{"argument": argument, "operation": operation})
	return &Error{code: IllegalArgument, msg: buffer.String()}
}

// errShapeMismatch returns an error for a sink chain link whose element type does not match the stage driving it.
func errShapeMismatch(got, want string) *Error {
	var buffer bytes.Buffer
	shapeMismatchTemplate.Execute(&buffer, map[string]string{"got": got, "want": want})
	return &Error{code: ShapeMismatch, msg: buffer.String()}
}

// errSizeExceedsMaxSlice returns an error for a collect whose size exceeds the maximum slice size.
func errSizeExceedsMaxSlice(size uint64) *Error {
	var buffer bytes.Buffer
	sizeExceedsMaxSliceTemplate.Execute(&buffer, map[string]uint64{"size": size})
	return &Error{code: SizeExceedsMaxSlice, msg: buffer.String()}
}

// errIllegalStreamMapping returns an error for a package level operation applied to a stream of foreign origin.
func errIllegalStreamMapping(operation string) *Error {
	var buffer bytes.Buffer
	illegalStreamMappingTemplate.Execute(&buffer, map[string]string{"operation": operation})
	return &Error{code: IllegalStreamMapping, msg: buffer.String()}
}

// errUserCallback returns an error wrapping a panic recovered from a user supplied callback.
func errUserCallback(cause any) *Error {
	var buffer bytes.Buffer
	userCallbackTemplate.Execute(&buffer, map[string]any{"cause": cause})
	return &Error{code: UserCallback, msg: buffer.String(), cause: cause}
}
