package schema

// Field is one declared member of an ObjectSchema.
type Field struct {
	name        string
	typ         FieldType
	required    bool
	nullable    bool
	description string
	hasDefault  bool
	defaultVal  any
	enumValues  []string
	element     Schema        // populated for TypeArray
	object      *ObjectSchema // populated for TypeObject
}

func String(name string) *Field  { return &Field{name: name, typ: TypeString, required: true} }
func Number(name string) *Field  { return &Field{name: name, typ: TypeNumber, required: true} }
func Boolean(name string) *Field { return &Field{name: name, typ: TypeBoolean, required: true} }
func Any(name string) *Field     { return &Field{name: name, typ: TypeUnknown, required: true} }

func Enum(name string, values ...string) *Field {
	return &Field{name: name, typ: TypeEnum, required: true, enumValues: values}
}

func Array(name string, element Schema) *Field {
	return &Field{name: name, typ: TypeArray, required: true, element: element}
}

func Object(name string, object *ObjectSchema) *Field {
	return &Field{name: name, typ: TypeObject, required: true, object: object}
}

// Optional marks the field as not required, with no default surfaced.
func (f *Field) Optional() *Field { f.required = false; return f }

// Nullable marks the field as acceptable when absent or null.
func (f *Field) Nullable() *Field { f.nullable = true; f.required = false; return f }

// Describe attaches human-readable documentation, surfaced by Introspect.
func (f *Field) Describe(d string) *Field { f.description = d; return f }

// Default supplies a value applied by Validate when the field is absent.
// Supplying a default implies the field is optional.
func (f *Field) Default(v any) *Field {
	f.hasDefault = true
	f.defaultVal = v
	f.required = false
	return f
}

func (f *Field) descriptor() FieldDescriptor {
	d := FieldDescriptor{
		Name:        f.name,
		Type:        f.typ,
		Required:    f.required,
		Description: f.description,
		EnumValues:  f.enumValues,
	}
	if f.hasDefault {
		d.DefaultValue = f.defaultVal
	}
	switch f.typ {
	case TypeObject:
		if f.object != nil {
			d.Children = f.object.Introspect()
		}
	case TypeArray:
		if os, ok := f.element.(*ObjectSchema); ok {
			d.Children = os.Introspect()
		}
	}
	return d
}
