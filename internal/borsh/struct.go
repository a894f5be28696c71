package borsh

// Field is one named member of a Struct layout over S.
type Field[S any] interface {
	name() string
	size(s *S) int
	static() (int, bool)
	encode(buf []byte, s *S) (int, error)
	decode(buf []byte, s *S) (int, error)
}

type field[S, V any] struct {
	fieldName string
	ref       func(*S) *V
	layout    Layout[V]
}

// F declares a struct field: ref returns a pointer to the member inside S.
func F[S, V any](name string, ref func(*S) *V, layout Layout[V]) Field[S] {
	return field[S, V]{fieldName: name, ref: ref, layout: layout}
}

func (f field[S, V]) name() string { return f.fieldName }
func (f field[S, V]) size(s *S) int { return f.layout.Size(*f.ref(s)) }
func (f field[S, V]) static() (int, bool) { return f.layout.StaticSize() }
func (f field[S, V]) encode(buf []byte, s *S) (int, error) {
	return f.layout.Encode(buf, *f.ref(s))
}

func (f field[S, V]) decode(buf []byte, s *S) (int, error) {
	v, n, err := f.layout.Decode(buf)
	if err != nil {
		return 0, err
	}
	*f.ref(s) = v
	return n, nil
}

type structLayout[S any] struct {
	fields []Field[S]
	size   int
	fixed  bool
}

// Struct lays out fields back to back in declaration order.
func Struct[S any](fields ...Field[S]) Layout[S] {
	l := structLayout[S]{fields: fields, fixed: true}
	for _, f := range fields {
		s, ok := f.static()
		if !ok {
			l.fixed = false
			break
		}
		l.size += s
	}
	return l
}

func (l structLayout[S]) Size(v S) int {
	if l.fixed {
		return l.size
	}
	total := 0
	for _, f := range l.fields {
		total += f.size(&v)
	}
	return total
}

func (l structLayout[S]) StaticSize() (int, bool) {
	if !l.fixed {
		return 0, false
	}
	return l.size, true
}

func (l structLayout[S]) Encode(buf []byte, v S) (int, error) {
	off := 0
	for _, f := range l.fields {
		n, err := f.encode(buf[off:], &v)
		if err != nil {
			return 0, atField(f.name(), err)
		}
		off += n
	}
	return off, nil
}

func (l structLayout[S]) Decode(buf []byte) (S, int, error) {
	var v S
	off := 0
	for _, f := range l.fields {
		n, err := f.decode(buf[off:], &v)
		if err != nil {
			var zero S
			return zero, 0, atField(f.name(), err)
		}
		off += n
	}
	return v, off, nil
}
