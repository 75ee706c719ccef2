package binding

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/agbru/numkit/internal/errors"
	"github.com/agbru/numkit/internal/logging"
)

// TracerName is the instrumentation scope used for binding spans.
const TracerName = "github.com/agbru/numkit/internal/binding"

var (
	// ErrUnknownFunction is returned when no function is registered under a name.
	ErrUnknownFunction = errors.New("unknown function")
	// ErrUnknownClass is returned when no class is registered under a name.
	ErrUnknownClass = errors.New("unknown class")
	// ErrUnknownMethod is returned when a class has no method with a name.
	ErrUnknownMethod = errors.New("unknown method")
	// ErrUnknownHandle is returned for handles that were never issued or
	// have been released.
	ErrUnknownHandle = errors.New("unknown handle")
	// ErrArity is returned when a call receives the wrong number of arguments.
	ErrArity = errors.New("wrong number of arguments")
	// ErrDuplicate is returned when registering a name twice.
	ErrDuplicate = errors.New("already registered")
)

// Function is a bound free function.
type Function struct {
	// Arity is the exact number of arguments the function takes.
	Arity int
	// ListArg marks a function whose single argument is a sequence. Hosts
	// that pass loose words use it to pack them into one list.
	ListArg bool
	// Doc is a one-line description shown by hosts that list symbols.
	Doc string
	// Call runs the function. args has exactly Arity elements.
	Call func(args []any) (any, error)
}

// Method is a bound method. The receiver is the value produced by the
// class constructor.
type Method struct {
	Arity int
	Doc   string
	Call  func(receiver any, args []any) (any, error)
}

// Class describes a bound type: how to construct it, its methods and its
// textual representation.
type Class struct {
	Name    string
	Doc     string
	Arity   int
	New     func(args []any) (any, error)
	Methods map[string]Method
	Repr    func(receiver any) string
}

// Handle identifies an object in a Module's object table.
type Handle string

type object struct {
	mu    sync.Mutex
	class *Class
	value any
}

// Module is a registry of bound functions and classes plus the table of
// live objects created through it. It is safe for concurrent use.
type Module struct {
	name   string
	tracer trace.Tracer
	logger logging.Logger

	mu        sync.RWMutex
	functions map[string]Function
	classes   map[string]*Class
	objects   map[Handle]*object
}

// Option configures a Module during construction.
type Option func(*Module)

// WithLogger sets the logger used for call diagnostics.
func WithLogger(l logging.Logger) Option {
	return func(m *Module) { m.logger = l }
}

// WithTracer sets the tracer used for call spans. The default is the
// tracer from the global OpenTelemetry provider.
func WithTracer(t trace.Tracer) Option {
	return func(m *Module) { m.tracer = t }
}

// NewModule creates an empty module.
func NewModule(name string, opts ...Option) *Module {
	m := &Module{
		name:      name,
		functions: make(map[string]Function),
		classes:   make(map[string]*Class),
		objects:   make(map[Handle]*object),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.tracer == nil {
		m.tracer = otel.Tracer(TracerName)
	}
	if m.logger == nil {
		m.logger = logging.Nop()
	}
	return m
}

// Name returns the module name.
func (m *Module) Name() string { return m.name }

// RegisterFunction adds a function under name.
func (m *Module) RegisterFunction(name string, fn Function) error {
	if fn.Call == nil {
		return fmt.Errorf("function %q: nil Call", name)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.functions[name]; exists {
		return fmt.Errorf("function %q: %w", name, ErrDuplicate)
	}
	m.functions[name] = fn
	return nil
}

// RegisterClass adds a class under c.Name.
func (m *Module) RegisterClass(c *Class) error {
	if c == nil || c.New == nil {
		return errors.New("class without constructor")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.classes[c.Name]; exists {
		return fmt.Errorf("class %q: %w", c.Name, ErrDuplicate)
	}
	m.classes[c.Name] = c
	return nil
}

// Functions returns the registered function names in sorted order.
func (m *Module) Functions() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return sortedKeys(m.functions)
}

// Classes returns the registered class names in sorted order.
func (m *Module) Classes() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return sortedKeys(m.classes)
}

// Methods returns the method names of class in sorted order.
func (m *Module) Methods(class string) ([]string, error) {
	c, err := m.class(class)
	if err != nil {
		return nil, err
	}
	return sortedKeys(c.Methods), nil
}

// HasSymbol reports whether symbol names a registered function, a class,
// or a method written as "Class.method".
func (m *Module) HasSymbol(symbol string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.functions[symbol]; ok {
		return true
	}
	if _, ok := m.classes[symbol]; ok {
		return true
	}
	class, method, ok := strings.Cut(symbol, ".")
	if !ok {
		return false
	}
	c, ok := m.classes[class]
	if !ok {
		return false
	}
	_, ok = c.Methods[method]
	return ok
}

// Doc returns the documentation string of a function or class.
func (m *Module) Doc(symbol string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if fn, ok := m.functions[symbol]; ok {
		return fn.Doc
	}
	if c, ok := m.classes[symbol]; ok {
		return c.Doc
	}
	return ""
}

// Arity returns the number of arguments the function registered under
// name takes.
func (m *Module) Arity(name string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	fn, ok := m.functions[name]
	if !ok {
		return 0, apperrors.BindingError{Symbol: name, Cause: ErrUnknownFunction}
	}
	return fn.Arity, nil
}

// Signature describes how a function expects its arguments.
type Signature struct {
	Arity   int
	ListArg bool
}

// Signature returns the calling shape of the function registered under
// name.
func (m *Module) Signature(name string) (Signature, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	fn, ok := m.functions[name]
	if !ok {
		return Signature{}, apperrors.BindingError{Symbol: name, Cause: ErrUnknownFunction}
	}
	return Signature{Arity: fn.Arity, ListArg: fn.ListArg && fn.Arity == 1}, nil
}

// Call invokes the function registered under name.
func (m *Module) Call(ctx context.Context, name string, args ...any) (result any, err error) {
	ctx, span := m.startSpan(ctx, "binding.Call "+name, name)
	defer func() { m.endSpan(span, err) }()

	m.mu.RLock()
	fn, ok := m.functions[name]
	m.mu.RUnlock()
	if !ok {
		return nil, apperrors.BindingError{Symbol: name, Cause: ErrUnknownFunction}
	}
	if err := ctx.Err(); err != nil {
		return nil, apperrors.BindingError{Symbol: name, Cause: err}
	}
	if err := checkArity(fn.Arity, args); err != nil {
		return nil, apperrors.BindingError{Symbol: name, Cause: err}
	}

	result, err = fn.Call(args)
	if err != nil {
		m.logger.Debug("binding call rejected", logging.String("symbol", name), logging.Err(err))
		return nil, apperrors.BindingError{Symbol: name, Cause: err}
	}
	return result, nil
}

// New constructs an instance of class and stores it in the object table.
func (m *Module) New(ctx context.Context, class string, args ...any) (h Handle, err error) {
	ctx, span := m.startSpan(ctx, "binding.New "+class, class)
	defer func() { m.endSpan(span, err) }()

	c, err := m.class(class)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", apperrors.BindingError{Symbol: class, Cause: err}
	}
	if err := checkArity(c.Arity, args); err != nil {
		return "", apperrors.BindingError{Symbol: class, Cause: err}
	}
	value, err := c.New(args)
	if err != nil {
		return "", apperrors.BindingError{Symbol: class, Cause: err}
	}

	h = Handle(uuid.NewString())
	m.mu.Lock()
	m.objects[h] = &object{class: c, value: value}
	m.mu.Unlock()

	span.SetAttributes(attribute.String("binding.handle", string(h)))
	m.logger.Debug("object created", logging.String("class", class), logging.String("handle", string(h)))
	return h, nil
}

// Invoke calls method on the object identified by h. Calls on the same
// object are serialized.
func (m *Module) Invoke(ctx context.Context, h Handle, method string, args ...any) (result any, err error) {
	obj, err := m.object(h)
	if err != nil {
		return nil, apperrors.BindingError{Symbol: method, Cause: err}
	}
	symbol := obj.class.Name + "." + method

	ctx, span := m.startSpan(ctx, "binding.Invoke "+symbol, symbol)
	defer func() { m.endSpan(span, err) }()

	meth, ok := obj.class.Methods[method]
	if !ok {
		return nil, apperrors.BindingError{Symbol: symbol, Cause: ErrUnknownMethod}
	}
	if err := ctx.Err(); err != nil {
		return nil, apperrors.BindingError{Symbol: symbol, Cause: err}
	}
	if err := checkArity(meth.Arity, args); err != nil {
		return nil, apperrors.BindingError{Symbol: symbol, Cause: err}
	}

	obj.mu.Lock()
	result, err = meth.Call(obj.value, args)
	obj.mu.Unlock()
	if err != nil {
		return nil, apperrors.BindingError{Symbol: symbol, Cause: err}
	}
	return result, nil
}

// Repr returns the textual representation of the object identified by h.
func (m *Module) Repr(h Handle) (string, error) {
	obj, err := m.object(h)
	if err != nil {
		return "", apperrors.BindingError{Symbol: "repr", Cause: err}
	}
	obj.mu.Lock()
	defer obj.mu.Unlock()
	if obj.class.Repr == nil {
		return fmt.Sprintf("<%s object %s>", obj.class.Name, h), nil
	}
	return obj.class.Repr(obj.value), nil
}

// ClassOf returns the class name of the object identified by h.
func (m *Module) ClassOf(h Handle) (string, error) {
	obj, err := m.object(h)
	if err != nil {
		return "", apperrors.BindingError{Symbol: "class", Cause: err}
	}
	return obj.class.Name, nil
}

// Release removes the object identified by h from the table. Releasing an
// unknown handle returns ErrUnknownHandle.
func (m *Module) Release(h Handle) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.objects[h]; !ok {
		return apperrors.BindingError{Symbol: "release", Cause: fmt.Errorf("%w: %s", ErrUnknownHandle, h)}
	}
	delete(m.objects, h)
	return nil
}

// Len returns the number of live objects.
func (m *Module) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}

func (m *Module) class(name string) (*Class, error) {
	m.mu.RLock()
	c, ok := m.classes[name]
	m.mu.RUnlock()
	if !ok {
		return nil, apperrors.BindingError{Symbol: name, Cause: ErrUnknownClass}
	}
	return c, nil
}

func (m *Module) object(h Handle) (*object, error) {
	m.mu.RLock()
	obj, ok := m.objects[h]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownHandle, h)
	}
	return obj, nil
}

func (m *Module) startSpan(ctx context.Context, spanName, symbol string) (context.Context, trace.Span) {
	return m.tracer.Start(ctx, spanName, trace.WithAttributes(
		attribute.String("binding.module", m.name),
		attribute.String("binding.symbol", symbol),
	))
}

func (m *Module) endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func checkArity(want int, args []any) error {
	if len(args) != want {
		return fmt.Errorf("%w: want %d, got %d", ErrArity, want, len(args))
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
