package st

import (
	"fmt"
	"strings"

	"github.com/plx-lang/plx/types"
)

// typeRef renders a type as it appears at the point of use (a variable
// declaration, a field, a return type). types.Type.Repr() already yields
// IEC spelling for every variant — a bare name for named types (struct,
// enum, alias, subrange), and the full structural spelling for anonymous
// ones (array, string, pointer, reference, primitive) — so no separate
// type-reference model is needed the way original_source's TypeRef
// hierarchy provides one.
func typeRef(t types.Type) string {
	if t == nil {
		return "???"
	}
	return t.Repr()
}

// typeDefinition renders a standalone `TYPE ... END_TYPE` declaration for
// one of the project's named data types. Only struct, enum, alias, and
// subrange types are ever declared this way — array/string/pointer/
// reference/primitive types are always anonymous at their point of use.
func (w *writer) typeDefinition(t types.Type) {
	switch td := t.(type) {
	case types.StructType:
		w.structType(td)
	case types.EnumType:
		w.enumType(td)
	case types.AliasType:
		w.line(fmt.Sprintf("TYPE %s : %s;", td.Name, typeRef(td.Base)))
		w.line("END_TYPE")
	case types.SubrangeType:
		w.line(fmt.Sprintf("TYPE %s : %s(%d..%d);", td.Name, td.Base.Repr(), td.Lo, td.Hi))
		w.line("END_TYPE")
	default:
		w.line(fmt.Sprintf("// unsupported type definition: %T", t))
	}
}

func (w *writer) structType(td types.StructType) {
	keyword := "STRUCT"
	endKeyword := "END_STRUCT"
	if td.Union {
		keyword = "UNION"
		endKeyword = "END_UNION"
	}
	w.line(fmt.Sprintf("TYPE %s :", td.Name))
	w.line(keyword)
	w.indentInc()
	for _, f := range td.Fields {
		decl := fmt.Sprintf("%s : %s", f.Name, typeRef(f.Type))
		if f.Default != nil {
			decl += " := " + literalText(*f.Default)
		}
		decl += ";"
		w.line(decl)
	}
	w.indentDec()
	w.line(endKeyword)
	w.line("END_TYPE")
}

func (w *writer) enumType(td types.EnumType) {
	members := make([]string, len(td.Variants))
	for i, v := range td.Variants {
		members[i] = fmt.Sprintf("%s := %d", v.Name, v.Value)
	}
	header := fmt.Sprintf("TYPE %s : (", td.Name)
	if td.BaseType != nil {
		header = fmt.Sprintf("TYPE %s : %s (", td.Name, td.BaseType.Repr())
	}
	w.line(header)
	w.indentInc()
	w.line(strings.Join(members, ", "))
	w.indentDec()
	w.line(");")
	w.line("END_TYPE")
}
