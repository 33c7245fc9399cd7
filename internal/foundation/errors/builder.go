package errors

// ErrorBuilder assembles a ClassifiedError.
//
//	errors.WrapError(err, errors.CategoryFileSystem, "failed to read document").
//		WithContext("path", path).
//		Build()
type ErrorBuilder struct {
	err ClassifiedError
}

// NewError starts an error of the given category at the category's default
// severity.
func NewError(category ErrorCategory, message string) *ErrorBuilder {
	return &ErrorBuilder{err: ClassifiedError{
		category: category,
		severity: category.defaultSeverity(),
		message:  message,
	}}
}

// WrapError starts an error that wraps cause.
func WrapError(cause error, category ErrorCategory, message string) *ErrorBuilder {
	b := NewError(category, message)
	b.err.cause = cause
	return b
}

func (b *ErrorBuilder) WithSeverity(severity ErrorSeverity) *ErrorBuilder {
	b.err.severity = severity
	return b
}

func (b *ErrorBuilder) Fatal() *ErrorBuilder   { return b.WithSeverity(SeverityFatal) }
func (b *ErrorBuilder) Warning() *ErrorBuilder { return b.WithSeverity(SeverityWarning) }

func (b *ErrorBuilder) WithContext(key string, value any) *ErrorBuilder {
	b.err.context = b.err.context.with(key, value)
	return b
}

// Build returns the error. The builder may be reused afterwards without
// affecting errors it already built.
func (b *ErrorBuilder) Build() *ClassifiedError {
	out := b.err
	return &out
}

func ConfigError(message string) *ErrorBuilder     { return NewError(CategoryConfig, message) }
func ValidationError(message string) *ErrorBuilder { return NewError(CategoryValidation, message) }
func NotFoundError(message string) *ErrorBuilder   { return NewError(CategoryNotFound, message) }
func FileSystemError(message string) *ErrorBuilder { return NewError(CategoryFileSystem, message) }
func RenderError(message string) *ErrorBuilder     { return NewError(CategoryRender, message) }
func RuntimeError(message string) *ErrorBuilder    { return NewError(CategoryRuntime, message) }
func InternalError(message string) *ErrorBuilder   { return NewError(CategoryInternal, message) }
