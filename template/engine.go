package template

import (
	"bytes"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	gotemplate "text/template"
	"unicode"

	"github.com/hupe1980/helpermesh/logging"
)

var (
	// ErrDuplicateHelper is returned when a helper name is already taken.
	ErrDuplicateHelper = errors.New("helper already registered")
	// ErrInvalidHelperName is returned for names text/template cannot call.
	ErrInvalidHelperName = errors.New("invalid helper name")
	// ErrInvalidHelper is returned when the helper value is not a callable func.
	ErrInvalidHelper = errors.New("invalid helper function")
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// Options configures an Engine.
type Options struct {
	// Name is used in parse and execution error messages.
	Name string
	// MissingKey sets the text/template missingkey option ("default", "zero" or "error").
	MissingKey string
	// Logger receives registration and render diagnostics.
	Logger logging.Logger
}

// Engine renders text templates against a helper table. Helpers are
// registered before rendering; an Engine is not safe for concurrent
// registration and rendering.
type Engine struct {
	opts  Options
	funcs gotemplate.FuncMap
}

// New creates an Engine with the built-in helpers installed.
func New(optFns ...func(o *Options)) *Engine {
	opts := Options{
		Name:       "template",
		MissingKey: "default",
		Logger:     logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	e := &Engine{opts: opts, funcs: gotemplate.FuncMap{}}
	for name, fn := range builtinHelpers() {
		e.funcs[name] = fn
	}
	return e
}

// RegisterHelper installs fn under name. fn must be a function returning one
// value, or a value and an error. Registering a name that is already taken
// fails with ErrDuplicateHelper; existing helpers are never overwritten.
func (e *Engine) RegisterHelper(name string, fn any) error {
	if !isIdentifier(name) {
		return fmt.Errorf("%w: %q", ErrInvalidHelperName, name)
	}
	if err := checkHelper(fn); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidHelper, name, err)
	}
	if _, exists := e.funcs[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateHelper, name)
	}

	e.funcs[name] = fn
	e.opts.Logger.Debug("template.helper.register", "helper", name)
	return nil
}

// HasHelper reports whether name is registered (built-ins included).
func (e *Engine) HasHelper(name string) bool {
	_, ok := e.funcs[name]
	return ok
}

// Helpers returns all registered helper names in sorted order.
func (e *Engine) Helpers() []string {
	names := make([]string, 0, len(e.funcs))
	for n := range e.funcs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Render parses text and executes it against data. Text without template
// markers is returned unchanged.
func (e *Engine) Render(text string, data any) (string, error) {
	if !strings.Contains(text, "{{") { // fast path: no template markers
		return text, nil
	}

	tmpl, err := gotemplate.New(e.opts.Name).
		Option("missingkey=" + e.opts.MissingKey).
		Funcs(e.funcs).
		Parse(text)
	if err != nil {
		e.opts.Logger.Warn("template.parse.failed", "template", e.opts.Name, "error", err.Error())
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		e.opts.Logger.Warn("template.render.failed", "template", e.opts.Name, "error", err.Error())
		return "", err
	}

	return buf.String(), nil
}

// isIdentifier mirrors the name rules text/template applies to FuncMap keys.
func isIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_':
		case i == 0 && !unicode.IsLetter(r):
			return false
		case !unicode.IsLetter(r) && !unicode.IsDigit(r):
			return false
		}
	}
	return true
}

// checkHelper validates what text/template would otherwise panic on.
func checkHelper(fn any) error {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		return fmt.Errorf("value of type %T is not a function", fn)
	}
	t := v.Type()
	switch {
	case t.NumOut() == 1:
		return nil
	case t.NumOut() == 2 && t.Out(1) == errorType:
		return nil
	default:
		return fmt.Errorf("function must return (value) or (value, error), got %d results", t.NumOut())
	}
}
