package evaluator

import (
	"math"
)

func init() {
	intMethods = map[string]methodFunc{
		"abs": func(e *Evaluator, recv Object, args []Object) Object {
			n, _ := toInt(recv)
			if n < 0 {
				n = -n
			}
			return &Integer{Value: n}
		},
		"pow": func(e *Evaluator, recv Object, args []Object) Object {
			if err := checkArgs("pow", args, 1, 1); err != nil {
				return err
			}
			base, _ := toInt(recv)
			exp, err := intArg("pow", args[0])
			if err != nil {
				return err
			}
			return e.intOp("**", base, exp)
		},
		"min":   intPick("min", func(a, b int64) bool { return b < a }),
		"max":   intPick("max", func(a, b int64) bool { return b > a }),
		"clamp": intClamp,
		"sqrt": func(e *Evaluator, recv Object, args []Object) Object {
			n, _ := toInt(recv)
			return &Float{Value: math.Sqrt(float64(n))}
		},
		"to_float": func(e *Evaluator, recv Object, args []Object) Object {
			n, _ := toInt(recv)
			return &Float{Value: float64(n)}
		},
		"to_int":  func(e *Evaluator, recv Object, args []Object) Object { n, _ := toInt(recv); return &Integer{Value: n} },
		"is_even": func(e *Evaluator, recv Object, args []Object) Object { n, _ := toInt(recv); return nativeBool(n%2 == 0) },
		"is_odd":  func(e *Evaluator, recv Object, args []Object) Object { n, _ := toInt(recv); return nativeBool(n%2 != 0) },
		"signum": func(e *Evaluator, recv Object, args []Object) Object {
			n, _ := toInt(recv)
			switch {
			case n > 0:
				return &Integer{Value: 1}
			case n < 0:
				return &Integer{Value: -1}
			}
			return &Integer{Value: 0}
		},
	}

	floatMethods = map[string]methodFunc{
		"abs":   floatUnary(math.Abs),
		"floor": floatUnary(math.Floor),
		"ceil":  floatUnary(math.Ceil),
		"round": floatUnary(math.Round),
		"trunc": floatUnary(math.Trunc),
		"sqrt":  floatUnary(math.Sqrt),
		"sin":   floatUnary(math.Sin),
		"cos":   floatUnary(math.Cos),
		"tan":   floatUnary(math.Tan),
		"ln":    floatUnary(math.Log),
		"log10": floatUnary(math.Log10),
		"exp":   floatUnary(math.Exp),
		"pow":   floatBinary("pow", math.Pow),
		"powf":  floatBinary("powf", math.Pow),
		"min":   floatBinary("min", math.Min),
		"max":   floatBinary("max", math.Max),
		"to_int": func(e *Evaluator, recv Object, args []Object) Object {
			return convertToInt(recv)
		},
		"to_float": func(e *Evaluator, recv Object, args []Object) Object { return recv },
		"is_nan":   func(e *Evaluator, recv Object, args []Object) Object { return nativeBool(math.IsNaN(recv.(*Float).Value)) },
		"is_infinite": func(e *Evaluator, recv Object, args []Object) Object {
			return nativeBool(math.IsInf(recv.(*Float).Value, 0))
		},
	}
}

func intPick(name string, better func(a, b int64) bool) methodFunc {
	return func(e *Evaluator, recv Object, args []Object) Object {
		if err := checkArgs(name, args, 1, 1); err != nil {
			return err
		}
		a, _ := toInt(recv)
		if f, ok := args[0].(*Float); ok {
			x := float64(a)
			if better(0, 1) {
				return &Float{Value: math.Max(x, f.Value)}
			}
			return &Float{Value: math.Min(x, f.Value)}
		}
		b, err := intArg(name, args[0])
		if err != nil {
			return err
		}
		if better(a, b) {
			return &Integer{Value: b}
		}
		return &Integer{Value: a}
	}
}

func intClamp(e *Evaluator, recv Object, args []Object) Object {
	if err := checkArgs("clamp", args, 2, 2); err != nil {
		return err
	}
	n, _ := toInt(recv)
	lo, err := intArg("clamp", args[0])
	if err != nil {
		return err
	}
	hi, err := intArg("clamp", args[1])
	if err != nil {
		return err
	}
	if lo > hi {
		return newError(IndexOutOfBounds, "clamp bounds reversed: %d > %d", lo, hi)
	}
	return &Integer{Value: clamp(n, lo, hi)}
}

func floatUnary(f func(float64) float64) methodFunc {
	return func(e *Evaluator, recv Object, args []Object) Object {
		if len(args) > 0 {
			return newError(ArityError, "method takes no arguments, got %d", len(args))
		}
		return &Float{Value: f(recv.(*Float).Value)}
	}
}

func floatBinary(name string, f func(x, y float64) float64) methodFunc {
	return func(e *Evaluator, recv Object, args []Object) Object {
		if err := checkArgs(name, args, 1, 1); err != nil {
			return err
		}
		y, err := floatArg(name, args[0])
		if err != nil {
			return err
		}
		return &Float{Value: f(recv.(*Float).Value, y)}
	}
}
