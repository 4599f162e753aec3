package evaluator

func init() {
	optionMethods = map[string]methodFunc{
		"is_some":   func(e *Evaluator, recv Object, args []Object) Object { return nativeBool(recv.(*Variant).Name == "Some") },
		"is_none":   func(e *Evaluator, recv Object, args []Object) Object { return nativeBool(recv.(*Variant).Name == "None") },
		"unwrap":    unwrapVariant,
		"expect":    expectVariant,
		"unwrap_or": unwrapOr,
		"map":       mapVariant("Some"),
		"and_then":  andThen("Some"),
		"ok_or":     optionOkOr,
		"filter":    optionFilter,
	}
	resultMethods = map[string]methodFunc{
		"is_ok":      func(e *Evaluator, recv Object, args []Object) Object { return nativeBool(recv.(*Variant).Name == "Ok") },
		"is_err":     func(e *Evaluator, recv Object, args []Object) Object { return nativeBool(recv.(*Variant).Name == "Err") },
		"unwrap":     unwrapVariant,
		"expect":     expectVariant,
		"unwrap_or":  unwrapOr,
		"unwrap_err": resultUnwrapErr,
		"map":        mapVariant("Ok"),
		"map_err":    mapVariant("Err"),
		"and_then":   andThen("Ok"),
		"ok":         resultPart("Ok"),
		"err":        resultPart("Err"),
	}
}

// success reports whether v is Some or Ok.
func success(v *Variant) bool {
	return v.Name == "Some" || v.Name == "Ok"
}

func unwrapFailure(v *Variant, msg string) *Error {
	err := newError(UserError, "%s", msg)
	if v.Name == "Err" && len(v.Fields) == 1 {
		err.Message = msg + ": " + Display(v.Fields[0])
		err.Payload = v.Fields[0]
	}
	return err
}

func unwrapVariant(e *Evaluator, recv Object, args []Object) Object {
	if err := checkArgs("unwrap", args, 0, 0); err != nil {
		return err
	}
	v := recv.(*Variant)
	if success(v) {
		return v.Fields[0]
	}
	return unwrapFailure(v, "called unwrap on "+v.Name)
}

func expectVariant(e *Evaluator, recv Object, args []Object) Object {
	if err := checkArgs("expect", args, 1, 1); err != nil {
		return err
	}
	msg, err := stringArg("expect", args[0])
	if err != nil {
		return err
	}
	v := recv.(*Variant)
	if success(v) {
		return v.Fields[0]
	}
	return unwrapFailure(v, msg)
}

func unwrapOr(e *Evaluator, recv Object, args []Object) Object {
	if err := checkArgs("unwrap_or", args, 1, 1); err != nil {
		return err
	}
	v := recv.(*Variant)
	if success(v) {
		return v.Fields[0]
	}
	return args[0]
}

func resultUnwrapErr(e *Evaluator, recv Object, args []Object) Object {
	v := recv.(*Variant)
	if v.Name == "Err" {
		return v.Fields[0]
	}
	return newError(UserError, "called unwrap_err on Ok: %s", Display(v.Fields[0]))
}

// mapVariant transforms the payload when the variant is named name and
// passes every other variant through.
func mapVariant(name string) methodFunc {
	return func(e *Evaluator, recv Object, args []Object) Object {
		if err := checkArgs("map", args, 1, 1); err != nil {
			return err
		}
		if err := callableArg("map", args[0]); err != nil {
			return err
		}
		v := recv.(*Variant)
		if v.Name != name {
			return v
		}
		res := e.call1(args[0], v.Fields[0])
		if isError(res) {
			return res
		}
		return &Variant{Enum: v.Enum, Name: v.Name, Fields: []Object{res}}
	}
}

func andThen(name string) methodFunc {
	return func(e *Evaluator, recv Object, args []Object) Object {
		if err := checkArgs("and_then", args, 1, 1); err != nil {
			return err
		}
		if err := callableArg("and_then", args[0]); err != nil {
			return err
		}
		v := recv.(*Variant)
		if v.Name != name {
			return v
		}
		return e.call1(args[0], v.Fields[0])
	}
}

func optionOkOr(e *Evaluator, recv Object, args []Object) Object {
	if err := checkArgs("ok_or", args, 1, 1); err != nil {
		return err
	}
	v := recv.(*Variant)
	if success(v) {
		return okValue(v.Fields[0])
	}
	return errValue(args[0])
}

func optionFilter(e *Evaluator, recv Object, args []Object) Object {
	if err := checkArgs("filter", args, 1, 1); err != nil {
		return err
	}
	v := recv.(*Variant)
	if !success(v) {
		return v
	}
	keep, err := e.predicate(args[0], v.Fields[0])
	if err != nil {
		return err
	}
	if keep {
		return v
	}
	return NONE
}

func resultPart(name string) methodFunc {
	return func(e *Evaluator, recv Object, args []Object) Object {
		v := recv.(*Variant)
		if v.Name == name {
			return someValue(v.Fields[0])
		}
		return NONE
	}
}
