package schema

import "fmt"

// ObjectSchema validates a string-keyed map against a fixed set of fields.
// It is the schema type used for every node input/output shape.
type ObjectSchema struct {
	fields []*Field
}

// NewObject builds an ObjectSchema from its ordered field list.
func NewObject(fields ...*Field) *ObjectSchema {
	return &ObjectSchema{fields: fields}
}

var _ Schema = (*ObjectSchema)(nil)

func (s *ObjectSchema) Validate(value any) (any, error) {
	m, ok := toMap(value)
	if !ok {
		return nil, ValidationErrors{{Field: "", Message: fmt.Sprintf("expected object, got %T", value)}}
	}

	out := make(map[string]any, len(m))
	var errs ValidationErrors

	for _, f := range s.fields {
		raw, present := m[f.name]
		if !present || raw == nil {
			switch {
			case f.hasDefault:
				out[f.name] = f.defaultVal
			case f.nullable || !f.required:
				// absent and not required: simply omitted from the
				// normalized output, matching the "strip optional
				// undefined fields" normalization rule.
			default:
				errs = append(errs, &ValidationError{Field: f.name, Message: "required field is missing"})
			}
			continue
		}

		normalized, err := f.validateValue(raw)
		if err != nil {
			errs = append(errs, &ValidationError{Field: f.name, Message: err.Error()})
			continue
		}
		out[f.name] = normalized
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return out, nil
}

func (s *ObjectSchema) Introspect() []FieldDescriptor {
	out := make([]FieldDescriptor, 0, len(s.fields))
	for _, f := range s.fields {
		out = append(out, f.descriptor())
	}
	return out
}

// Fields exposes the underlying field list, e.g. for building a companion
// output schema that mirrors an input schema's shape.
func (s *ObjectSchema) Fields() []*Field {
	return s.fields
}

func (f *Field) validateValue(v any) (any, error) {
	switch f.typ {
	case TypeString:
		sv, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("expected string, got %T", v)
		}
		return sv, nil

	case TypeNumber:
		switch n := v.(type) {
		case float64:
			return n, nil
		case float32:
			return float64(n), nil
		case int:
			return float64(n), nil
		case int64:
			return float64(n), nil
		default:
			return nil, fmt.Errorf("expected number, got %T", v)
		}

	case TypeBoolean:
		bv, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("expected boolean, got %T", v)
		}
		return bv, nil

	case TypeEnum:
		sv, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("expected string enum value, got %T", v)
		}
		for _, allowed := range f.enumValues {
			if allowed == sv {
				return sv, nil
			}
		}
		return nil, fmt.Errorf("value %q not in enum %v", sv, f.enumValues)

	case TypeArray:
		list, ok := toSlice(v)
		if !ok {
			return nil, fmt.Errorf("expected array, got %T", v)
		}
		out := make([]any, len(list))
		for i, el := range list {
			if f.element == nil {
				out[i] = el
				continue
			}
			nv, err := f.element.Validate(el)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			out[i] = nv
		}
		return out, nil

	case TypeObject:
		if f.object != nil {
			return f.object.Validate(v)
		}
		m, ok := toMap(v)
		if !ok {
			return nil, fmt.Errorf("expected object, got %T", v)
		}
		return m, nil

	default:
		return v, nil
	}
}
