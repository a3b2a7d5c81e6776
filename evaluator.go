// evaluator.go — tree-walking evaluator.
//
// OVERVIEW
// --------
// Evaluate executes an AST node against a host model (a Value, usually a
// mapping) with a synchronous, depth-first walk. The semantics that matter:
//
//   - && and || short-circuit: the right operand is evaluated only when the
//     left's truthiness requires it.
//   - The ternary evaluates exactly one branch; the untaken branch is never
//     touched, so its side effects cannot fire.
//   - obj.method(args) binds obj as the implicit receiver: the object
//     sub-expression is evaluated once, the callable is looked up as that
//     value's named property, and the invoked function observes the value
//     as its receiver. Any other callee evaluates with a Null receiver.
//   - Arguments, array items, and map entries evaluate left to right.
//
// Resolution policy (documented choice): an identifier missing from the
// model, a missing property, and a missing map key all fail with
// UndefinedIdentifier rather than yielding null.
//
// Postfix ++/-- parse fine but fail here with TypeMismatch: evaluated
// values have no addressable storage to mutate. Likewise assignment-level
// operators and the range operator are parse-only and fail if evaluated.
//
// Numbers are float64 throughout; ~ and << require integral operands.
// Host callables are invoked opaquely — their errors propagate unchanged.
package exprlang

import (
	"math"
	"strconv"
)

// Evaluator walks ASTs against one host model.
type Evaluator struct {
	model Value
}

// NewEvaluator creates an evaluator over the given host model. The model is
// read-only to the evaluator; independent evaluations share no other state.
func NewEvaluator(model Value) *Evaluator {
	return &Evaluator{model: model}
}

// Evaluate executes node and returns its value, or a *EvalError (host
// callable failures propagate as-is).
func (e *Evaluator) Evaluate(node Node) (Value, error) {
	switch n := node.(type) {
	case *Identifier:
		return e.lookupIdentifier(n.Text)
	case *Literal:
		return evalLiteral(n)
	case *Unary:
		return e.evalUnary(n)
	case *Binary:
		return e.evalBinary(n)
	case *Conditional:
		cond, err := e.Evaluate(n.Condition)
		if err != nil {
			return Null, err
		}
		if cond.Truthy() {
			return e.Evaluate(n.WhenTrue)
		}
		return e.Evaluate(n.WhenFalse)
	case *Call:
		return e.evalCall(n)
	case *ElementAccess:
		return e.evalElementAccess(n)
	case *PropertyAccess:
		obj, err := e.Evaluate(n.Object)
		if err != nil {
			return Null, err
		}
		return e.lookupProperty(obj, n.Property)
	case *Parenthesized:
		return e.Evaluate(n.Inner)
	case *ArrayLiteral:
		items := make([]Value, 0, len(n.Items))
		for _, item := range n.Items {
			v, err := e.Evaluate(item)
			if err != nil {
				return Null, err
			}
			items = append(items, v)
		}
		return Arr(items), nil
	case *MapLiteral:
		m := NewMapObject()
		for _, entry := range n.Entries {
			v, err := e.Evaluate(entry.Value)
			if err != nil {
				return Null, err
			}
			m.Set(entry.Key, v)
		}
		return MapVal(m), nil
	default:
		return Null, evalErrf(TypeMismatch, "cannot evaluate node of type %T", node)
	}
}

// Evaluate executes node against model.
func Evaluate(node Node, model Value) (Value, error) {
	return NewEvaluator(model).Evaluate(node)
}

// EvaluateSource parses src against grammar (nil for the default) and
// evaluates the resulting AST against model.
func EvaluateSource(src string, grammar *Grammar, model Value) (Value, error) {
	node, err := Parse(src, grammar)
	if err != nil {
		return Null, err
	}
	return Evaluate(node, model)
}

func (e *Evaluator) lookupIdentifier(name string) (Value, error) {
	// The token model has no boolean/null literals; these three names are
	// resolved as constants before consulting the model.
	switch name {
	case "true":
		return Bool(true), nil
	case "false":
		return Bool(false), nil
	case "null":
		return Null, nil
	}
	m, ok := e.model.Data.(*MapObject)
	if e.model.Tag != MapValue || !ok {
		return Null, evalErrf(TypeMismatch, "model does not support identifier lookup (%s)", e.model.Tag)
	}
	v, ok := m.Get(name)
	if !ok {
		return Null, evalErrf(UndefinedIdentifier, "identifier %q is not defined in the model", name)
	}
	return v, nil
}

func (e *Evaluator) lookupProperty(obj Value, name string) (Value, error) {
	if obj.Tag != MapValue {
		return Null, evalErrf(TypeMismatch, "cannot access property %q of %s value", name, obj.Tag)
	}
	v, ok := obj.Data.(*MapObject).Get(name)
	if !ok {
		return Null, evalErrf(UndefinedIdentifier, "property %q is not defined", name)
	}
	return v, nil
}

func evalLiteral(n *Literal) (Value, error) {
	switch n.Kind {
	case NumberLiteral:
		f, err := strconv.ParseFloat(n.Text, 64)
		if err != nil {
			return Null, evalErrf(TypeMismatch, "invalid numeric literal %q", n.Text)
		}
		return Num(f), nil
	case StringLiteral:
		return Str(n.Text), nil
	default:
		return Null, evalErrf(TypeMismatch, "unknown literal kind %d", n.Kind)
	}
}

func (e *Evaluator) evalUnary(n *Unary) (Value, error) {
	if n.Position == PostfixUnary {
		// No lvalue/storage model exists for evaluated values.
		return Null, evalErrf(TypeMismatch, "postfix operator %q cannot be applied to an evaluated value", n.Operator)
	}
	operand, err := e.Evaluate(n.Operand)
	if err != nil {
		return Null, err
	}
	switch n.Operator {
	case "!":
		return Bool(!operand.Truthy()), nil
	case "-":
		f, err := wantNumber(n.Operator, operand)
		if err != nil {
			return Null, err
		}
		return Num(-f), nil
	case "+":
		f, err := wantNumber(n.Operator, operand)
		if err != nil {
			return Null, err
		}
		return Num(f), nil
	case "~":
		i, err := wantInteger(n.Operator, operand)
		if err != nil {
			return Null, err
		}
		return Num(float64(^i)), nil
	default:
		return Null, evalErrf(TypeMismatch, "unary operator %q is not supported", n.Operator)
	}
}

func (e *Evaluator) evalBinary(n *Binary) (Value, error) {
	// Short-circuit operators decide whether the right side runs at all.
	switch n.Operator {
	case "&&":
		left, err := e.Evaluate(n.Left)
		if err != nil {
			return Null, err
		}
		if !left.Truthy() {
			return Bool(false), nil
		}
		right, err := e.Evaluate(n.Right)
		if err != nil {
			return Null, err
		}
		return Bool(right.Truthy()), nil
	case "||":
		left, err := e.Evaluate(n.Left)
		if err != nil {
			return Null, err
		}
		if left.Truthy() {
			return Bool(true), nil
		}
		right, err := e.Evaluate(n.Right)
		if err != nil {
			return Null, err
		}
		return Bool(right.Truthy()), nil
	}

	left, err := e.Evaluate(n.Left)
	if err != nil {
		return Null, err
	}
	right, err := e.Evaluate(n.Right)
	if err != nil {
		return Null, err
	}

	switch n.Operator {
	case "==":
		return Bool(left.Equals(right)), nil
	case "!=":
		return Bool(!left.Equals(right)), nil
	case "+", "-", "*", "/", "**":
		a, err := wantNumber(n.Operator, left)
		if err != nil {
			return Null, err
		}
		b, err := wantNumber(n.Operator, right)
		if err != nil {
			return Null, err
		}
		switch n.Operator {
		case "+":
			return Num(a + b), nil
		case "-":
			return Num(a - b), nil
		case "*":
			return Num(a * b), nil
		case "/":
			if b == 0 {
				return Null, evalErrf(TypeMismatch, "division by zero")
			}
			return Num(a / b), nil
		default:
			return Num(math.Pow(a, b)), nil
		}
	case "<<":
		a, err := wantInteger(n.Operator, left)
		if err != nil {
			return Null, err
		}
		b, err := wantInteger(n.Operator, right)
		if err != nil {
			return Null, err
		}
		if b < 0 || b > 63 {
			return Null, evalErrf(TypeMismatch, "shift count %d out of range", b)
		}
		return Num(float64(a << uint(b))), nil
	case "<", "<=", ">", ">=":
		return compareValues(n.Operator, left, right)
	default:
		return Null, evalErrf(TypeMismatch, "binary operator %q is not supported by the evaluator", n.Operator)
	}
}

func (e *Evaluator) evalCall(n *Call) (Value, error) {
	recv := Null
	var callee Value
	if pa, ok := n.Callee.(*PropertyAccess); ok {
		// Evaluate the receiver once, then look the callable up on it.
		obj, err := e.Evaluate(pa.Object)
		if err != nil {
			return Null, err
		}
		callee, err = e.lookupProperty(obj, pa.Property)
		if err != nil {
			return Null, err
		}
		recv = obj
	} else {
		var err error
		callee, err = e.Evaluate(n.Callee)
		if err != nil {
			return Null, err
		}
	}

	args := make([]Value, 0, len(n.Args))
	for _, arg := range n.Args {
		v, err := e.Evaluate(arg)
		if err != nil {
			return Null, err
		}
		args = append(args, v)
	}

	if callee.Tag != CallableValue {
		return Null, evalErrf(NotCallable, "cannot call %s value", callee.Tag)
	}
	return callee.Data.(*Callable).Fn(recv, args)
}

func (e *Evaluator) evalElementAccess(n *ElementAccess) (Value, error) {
	obj, err := e.Evaluate(n.Object)
	if err != nil {
		return Null, err
	}
	index, err := e.Evaluate(n.Index)
	if err != nil {
		return Null, err
	}
	switch obj.Tag {
	case ArrayValue:
		i, err := wantInteger("[]", index)
		if err != nil {
			return Null, err
		}
		items := obj.Data.([]Value)
		if i < 0 || int(i) >= len(items) {
			return Null, evalErrf(TypeMismatch, "array index %d out of range (length %d)", i, len(items))
		}
		return items[i], nil
	case MapValue:
		if index.Tag != StringValue {
			return Null, evalErrf(TypeMismatch, "map key must be a string, got %s", index.Tag)
		}
		key := index.Data.(string)
		v, ok := obj.Data.(*MapObject).Get(key)
		if !ok {
			return Null, evalErrf(UndefinedIdentifier, "map key %q is not defined", key)
		}
		return v, nil
	default:
		return Null, evalErrf(TypeMismatch, "cannot index into %s value", obj.Tag)
	}
}

func wantNumber(op string, v Value) (float64, error) {
	if v.Tag != NumberValue {
		return 0, evalErrf(TypeMismatch, "operator %q requires numeric operands, got %s", op, v.Tag)
	}
	return v.Data.(float64), nil
}

func wantInteger(op string, v Value) (int64, error) {
	f, err := wantNumber(op, v)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) {
		return 0, evalErrf(TypeMismatch, "operator %q requires integral operands, got %v", op, f)
	}
	return int64(f), nil
}

// compareValues implements the ordering comparisons over two numbers or two
// strings.
func compareValues(op string, left, right Value) (Value, error) {
	var cmp int
	switch {
	case left.Tag == NumberValue && right.Tag == NumberValue:
		a, b := left.Data.(float64), right.Data.(float64)
		switch {
		case a < b:
			cmp = -1
		case a > b:
			cmp = 1
		}
	case left.Tag == StringValue && right.Tag == StringValue:
		a, b := left.Data.(string), right.Data.(string)
		switch {
		case a < b:
			cmp = -1
		case a > b:
			cmp = 1
		}
	default:
		return Null, evalErrf(TypeMismatch, "operator %q cannot compare %s and %s", op, left.Tag, right.Tag)
	}
	switch op {
	case "<":
		return Bool(cmp < 0), nil
	case "<=":
		return Bool(cmp <= 0), nil
	case ">":
		return Bool(cmp > 0), nil
	default:
		return Bool(cmp >= 0), nil
	}
}
