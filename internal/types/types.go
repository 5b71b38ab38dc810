// Package types implements Asthra's type representation: a closed, tagged
// variant lattice with an interner that caches type values (spec.md §3
// "Type", §9 "Interning"). Equal compares types structurally, never by Go
// pointer; nominal types (struct/enum) compare by symbol id.
//
// Grounded on tunascript/syntax/value.go's small tagged-value representation
// (one accessor per kind), generalized here to a type, not value, lattice.
package types

import (
	"fmt"
	"strings"
	"sync"
)

// Kind tags which variant a Type is.
type Kind int

const (
	KindPrimitive Kind = iota
	KindPointer
	KindSlice
	KindArray
	KindStruct
	KindEnum
	KindFunction
	KindResult
	KindOption
	KindError
)

// Primitive enumerates the primitive type set (spec.md §3 "Type").
type Primitive int

const (
	I8 Primitive = iota
	I16
	I32
	I64
	U8
	U16
	U32
	U64
	F32
	F64
	Bool
	Char
	String
	Void
	Unit
	Never
)

var primitiveNames = map[Primitive]string{
	I8: "i8", I16: "i16", I32: "i32", I64: "i64",
	U8: "u8", U16: "u16", U32: "u32", U64: "u64",
	F32: "f32", F64: "f64", Bool: "bool", Char: "char",
	String: "string", Void: "void", Unit: "()", Never: "never",
}

func (p Primitive) String() string { return primitiveNames[p] }

// IsInteger reports whether p is one of the integer primitive kinds.
func (p Primitive) IsInteger() bool {
	switch p {
	case I8, I16, I32, I64, U8, U16, U32, U64:
		return true
	}
	return false
}

// IsFloat reports whether p is one of the floating-point primitive kinds.
func (p Primitive) IsFloat() bool {
	return p == F32 || p == F64
}

// Field is one struct field's name and type.
type Field struct {
	Name string
	Type Type
}

// Variant is one enum variant's name and optional payload type.
type Variant struct {
	Name    string
	Payload *Type // nil if the variant carries no payload
}

// Type is an interned, tagged type value. Two Types are equal when their
// structure is: same primitive, same SymbolID for nominal struct/enum, or
// equal components for composite types — see Equal.
type Type struct {
	k Kind

	// KindPrimitive
	prim Primitive

	// KindPointer, KindSlice
	elem    *Type
	mutable bool

	// KindArray
	length int64

	// KindStruct, KindEnum
	symbolID string
	fields   []Field
	variants []Variant

	// KindFunction
	params []Type
	ret    *Type

	// KindResult
	ok, errT *Type

	// KindOption
	inner *Type

	// KindError — placeholder after a failed resolution; never reaches IR
	// (spec.md §3 "Type").
	reason string
}

// Kind returns the type's tag.
func (t Type) Kind() Kind { return t.k }

// IsError reports whether t is the Error placeholder type.
func (t Type) IsError() bool { return t.k == KindError }

// Primitive returns the primitive kind; only valid when Kind() == KindPrimitive.
func (t Type) Primitive() Primitive { return t.prim }

// Elem returns the pointee/element type for Pointer, Slice, and Array types.
func (t Type) Elem() Type { return *t.elem }

// Mutable reports the mutability flag of a Pointer or Slice type.
func (t Type) Mutable() bool { return t.mutable }

// Length returns the fixed length of an Array type.
func (t Type) Length() int64 { return t.length }

// SymbolID returns the defining symbol id of a nominal Struct or Enum type.
func (t Type) SymbolID() string { return t.symbolID }

// Fields returns the field list of a Struct type.
func (t Type) Fields() []Field { return t.fields }

// Variants returns the variant list of an Enum type.
func (t Type) Variants() []Variant { return t.variants }

// Params returns the parameter types of a Function type.
func (t Type) Params() []Type { return t.params }

// Return returns the return type of a Function type.
func (t Type) Return() Type { return *t.ret }

// Ok returns the success type of a Result type.
func (t Type) Ok() Type { return *t.ok }

// Err returns the error type of a Result type.
func (t Type) Err() Type { return *t.errT }

// Inner returns the payload type of an Option type.
func (t Type) Inner() Type { return *t.inner }

// String renders the type the way it would appear in Asthra source, used in
// diagnostic messages.
func (t Type) String() string {
	switch t.k {
	case KindPrimitive:
		return t.prim.String()
	case KindPointer:
		if t.mutable {
			return "*mut " + t.elem.String()
		}
		return "*" + t.elem.String()
	case KindSlice:
		if t.mutable {
			return "[]mut " + t.elem.String()
		}
		return "[]" + t.elem.String()
	case KindArray:
		return fmt.Sprintf("[%s; %d]", t.elem.String(), t.length)
	case KindStruct, KindEnum:
		return t.symbolID
	case KindFunction:
		parts := make([]string, len(t.params))
		for i, p := range t.params {
			parts[i] = p.String()
		}
		return fmt.Sprintf("fn(%s) -> %s", strings.Join(parts, ", "), t.ret.String())
	case KindResult:
		return fmt.Sprintf("Result<%s, %s>", t.ok.String(), t.errT.String())
	case KindOption:
		return fmt.Sprintf("Option<%s>", t.inner.String())
	case KindError:
		return "<error: " + t.reason + ">"
	}
	return "<?>"
}

// Interner caches type values so structurally-equal non-nominal types
// collapse to the same pointer identity (spec.md §9 "Interning"). Per
// spec.md §5, populated during analysis and read-only during IR generation;
// one interner per translation unit avoids any cross-unit sharing.
type Interner struct {
	mu        sync.Mutex
	primitive [int(Never) + 1]*Type
	composite map[string]*Type
}

// NewInterner creates an empty, per-translation-unit interner.
func NewInterner() *Interner {
	return &Interner{composite: make(map[string]*Type)}
}

// Prim returns the (cached) Type value for a primitive kind.
func (in *Interner) Prim(p Primitive) *Type {
	in.mu.Lock()
	defer in.mu.Unlock()
	if in.primitive[p] == nil {
		t := Type{k: KindPrimitive, prim: p}
		in.primitive[p] = &t
	}
	return in.primitive[p]
}

func (in *Interner) intern(key string, build func() Type) *Type {
	in.mu.Lock()
	defer in.mu.Unlock()
	if t, ok := in.composite[key]; ok {
		return t
	}
	t := build()
	in.composite[key] = &t
	return &t
}

// Pointer returns the (cached) pointer-to type.
func (in *Interner) Pointer(elem *Type, mutable bool) *Type {
	key := fmt.Sprintf("ptr:%p:%v", elem, mutable)
	return in.intern(key, func() Type {
		return Type{k: KindPointer, elem: elem, mutable: mutable}
	})
}

// Slice returns the (cached) slice-of type.
func (in *Interner) Slice(elem *Type, mutable bool) *Type {
	key := fmt.Sprintf("slice:%p:%v", elem, mutable)
	return in.intern(key, func() Type {
		return Type{k: KindSlice, elem: elem, mutable: mutable}
	})
}

// Array returns the (cached) fixed-length array type.
func (in *Interner) Array(elem *Type, length int64) *Type {
	key := fmt.Sprintf("arr:%p:%d", elem, length)
	return in.intern(key, func() Type {
		return Type{k: KindArray, elem: elem, length: length}
	})
}

// Struct returns the (cached) nominal struct type for a symbol id. Struct/
// enum types compare by symbol id, not by field list, so the symbol id alone
// is the cache key (spec.md §3 "except for nominal struct/enum which compare
// by symbol id").
func (in *Interner) Struct(symbolID string, fields []Field) *Type {
	t := in.DeclareStruct(symbolID)
	in.SetStructFields(t, fields)
	return t
}

// Enum returns the (cached) nominal enum type for a symbol id.
func (in *Interner) Enum(symbolID string, variants []Variant) *Type {
	t := in.DeclareEnum(symbolID)
	in.SetEnumVariants(t, variants)
	return t
}

// DeclareStruct reserves a nominal struct type's identity before its field
// types are known. Mutually-recursive declarations (a field that is a
// pointer or slice to a struct declared later in the same module) resolve
// their element type against this forward declaration; SetStructFields then
// fills in the body once every referenced declaration has been seen.
func (in *Interner) DeclareStruct(symbolID string) *Type {
	return in.intern("struct:"+symbolID, func() Type {
		return Type{k: KindStruct, symbolID: symbolID}
	})
}

// DeclareEnum is DeclareStruct's counterpart for enum types.
func (in *Interner) DeclareEnum(symbolID string) *Type {
	return in.intern("enum:"+symbolID, func() Type {
		return Type{k: KindEnum, symbolID: symbolID}
	})
}

// SetStructFields fills in a forward-declared struct type's field list. t
// must have been returned by DeclareStruct (or Struct) on this Interner.
func (in *Interner) SetStructFields(t *Type, fields []Field) {
	in.mu.Lock()
	defer in.mu.Unlock()
	t.fields = fields
}

// SetEnumVariants fills in a forward-declared enum type's variant list. t
// must have been returned by DeclareEnum (or Enum) on this Interner.
func (in *Interner) SetEnumVariants(t *Type, variants []Variant) {
	in.mu.Lock()
	defer in.mu.Unlock()
	t.variants = variants
}

// Function returns the (cached) function type.
func (in *Interner) Function(params []*Type, ret *Type) *Type {
	var sb strings.Builder
	sb.WriteString("fn:")
	for _, p := range params {
		fmt.Fprintf(&sb, "%p,", p)
	}
	fmt.Fprintf(&sb, "->%p", ret)
	flat := make([]Type, len(params))
	for i, p := range params {
		flat[i] = *p
	}
	return in.intern(sb.String(), func() Type {
		return Type{k: KindFunction, params: flat, ret: ret}
	})
}

// Result returns the (cached) built-in Result<ok, err> enum type.
func (in *Interner) Result(ok, errT *Type) *Type {
	key := fmt.Sprintf("result:%p:%p", ok, errT)
	return in.intern(key, func() Type {
		return Type{k: KindResult, ok: ok, errT: errT}
	})
}

// Option returns the (cached) built-in Option<t> enum type.
func (in *Interner) Option(inner *Type) *Type {
	key := fmt.Sprintf("option:%p", inner)
	return in.intern(key, func() Type {
		return Type{k: KindOption, inner: inner}
	})
}

// Err returns a fresh Error placeholder carrying a human-readable reason.
// Error placeholders are never interned — each failed resolution gets its
// own value so the reason string is preserved for diagnostics.
func (in *Interner) Err(reason string) *Type {
	return &Type{k: KindError, reason: reason}
}

// Equal reports structural equality: primitives compare by primitive kind,
// nominal struct/enum types by symbol id, and pointer/slice/array/function/
// Result/Option types by comparing their components recursively. Go pointer
// identity is never consulted.
func Equal(a, b Type) bool {
	if a.k != b.k {
		return false
	}
	switch a.k {
	case KindStruct, KindEnum:
		return a.symbolID == b.symbolID
	case KindPrimitive:
		return a.prim == b.prim
	}
	return samePointerOrDeepEqual(a, b)
}

func samePointerOrDeepEqual(a, b Type) bool {
	// Structural comparison of composite types' components, used for every
	// composite comparison whichever Interner built the types.
	if a.k != b.k {
		return false
	}
	switch a.k {
	case KindPointer, KindSlice:
		return a.mutable == b.mutable && a.elem != nil && b.elem != nil && Equal(*a.elem, *b.elem)
	case KindArray:
		return a.length == b.length && Equal(*a.elem, *b.elem)
	case KindFunction:
		if len(a.params) != len(b.params) {
			return false
		}
		for i := range a.params {
			if !Equal(a.params[i], b.params[i]) {
				return false
			}
		}
		return Equal(*a.ret, *b.ret)
	case KindResult:
		return Equal(*a.ok, *b.ok) && Equal(*a.errT, *b.errT)
	case KindOption:
		return Equal(*a.inner, *b.inner)
	}
	return false
}

// AssignableTo implements the permitted-conversion table of spec.md §4.3
// "Assignability": identity; never assignable to anything; mutable-pointer
// assignable to the immutable-element counterpart; &T never convertible to
// &mut T. Same-kind integer widening is intentionally NOT automatic here —
// that requires an explicit `as` cast, checked separately by the analyzer.
//
// Open Question (spec.md §9, resolved in DESIGN.md): never's assignability
// is general, not restricted to if/match arm-join points.
func AssignableTo(from, to Type) bool {
	if Equal(from, to) {
		return true
	}
	if from.k == KindPrimitive && from.prim == Never {
		return true
	}
	if from.k == KindPointer && to.k == KindPointer {
		// mutable pointer -> immutable pointer of the same pointee is
		// allowed; the reverse (&T -> &mut T) is never allowed.
		if from.mutable && !to.mutable {
			return Equal(*from.elem, *to.elem)
		}
		return false
	}
	if from.k == KindSlice && to.k == KindSlice {
		if from.mutable && !to.mutable {
			return Equal(*from.elem, *to.elem)
		}
		return false
	}
	return false
}
