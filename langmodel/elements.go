// Package langmodel is a small typed object-oriented syntax tree — type
// declarations, methods, fields, statements, comments, annotations — used
// to exercise the merge core end to end. It stands in for the external
// parser's output (spec.md §1 treats the parsing front-end as external).
package langmodel

import (
	"pcsmerge/content"
	"pcsmerge/fault"
	"pcsmerge/treebuild"
)

func noScalar(kind string, role content.Role) error {
	return fault.New(fault.InconsistentChangeSet, "%s has no scalar slot for role %s", kind, role)
}
func noSequence(kind string, role content.Role) error {
	return fault.New(fault.InconsistentChangeSet, "%s has no sequence slot for role %s", kind, role)
}
func noSet(kind string, role content.Role) error {
	return fault.New(fault.InconsistentChangeSet, "%s has no set slot for role %s", kind, role)
}
func noKeyed(kind string, role content.Role) error {
	return fault.New(fault.InconsistentChangeSet, "%s has no keyed slot for role %s", kind, role)
}

// CompilationUnit is the merge's output container: the element the virtual
// root's node.VirtualRoot wraps, and the value Interpret returns.
type CompilationUnit struct {
	TypeDecl treebuild.Element
	meta     map[string]any
}

func NewCompilationUnit() *CompilationUnit { return &CompilationUnit{meta: map[string]any{}} }

func (c *CompilationUnit) Role() content.Role             { return content.RoleTypeDecl }
func (c *CompilationUnit) Clone() treebuild.Element       { return NewCompilationUnit() }
func (c *CompilationUnit) ApplyContent(content.RoledValues) error { return nil }
func (c *CompilationUnit) SetMetadata(key string, value any)     { c.meta[key] = value }
func (c *CompilationUnit) Metadata(key string) any               { return c.meta[key] }

func (c *CompilationUnit) SlotKind(content.Role) treebuild.SlotKind { return treebuild.SlotScalar }
func (c *CompilationUnit) InsertScalar(role content.Role, child treebuild.Element) error {
	c.TypeDecl = child
	return nil
}
func (c *CompilationUnit) AppendSequence(role content.Role, treebuild.Element) error {
	return noSequence("CompilationUnit", role)
}
func (c *CompilationUnit) AddToSet(role content.Role, treebuild.Element) error {
	return noSet("CompilationUnit", role)
}
func (c *CompilationUnit) PutKeyed(role content.Role, string, treebuild.Element) error {
	return noKeyed("CompilationUnit", role)
}

// TypeDecl is a class/interface declaration: a NAME plus an ordered sequence
// of TYPE_MEMBER children (fields, methods, nested types).
type TypeDecl struct {
	Name    string
	Members []treebuild.Element
	meta    map[string]any
}

func NewTypeDecl() *TypeDecl { return &TypeDecl{meta: map[string]any{}} }

func (t *TypeDecl) Role() content.Role       { return content.RoleTypeDecl }
func (t *TypeDecl) Clone() treebuild.Element { return NewTypeDecl() }
func (t *TypeDecl) ApplyContent(values content.RoledValues) error {
	for _, v := range values {
		if v.Role == content.RoleName {
			t.Name, _ = v.Value.(string)
		}
	}
	return nil
}
func (t *TypeDecl) SetMetadata(key string, value any) { t.meta[key] = value }
func (t *TypeDecl) Metadata(key string) any           { return t.meta[key] }

func (t *TypeDecl) SlotKind(role content.Role) treebuild.SlotKind {
	if role == content.RoleTypeMember {
		return treebuild.SlotSequence
	}
	return treebuild.SlotSet
}
func (t *TypeDecl) InsertScalar(role content.Role, treebuild.Element) error { return noScalar("TypeDecl", role) }
func (t *TypeDecl) AppendSequence(role content.Role, child treebuild.Element) error {
	t.Members = append(t.Members, child)
	return nil
}
func (t *TypeDecl) AddToSet(role content.Role, treebuild.Element) error { return noSet("TypeDecl", role) }
func (t *TypeDecl) PutKeyed(role content.Role, string, treebuild.Element) error {
	return noKeyed("TypeDecl", role)
}

// Method is a TYPE_MEMBER: a name, a modifier set, an ordered sequence of
// PARAMETER children, an ordered sequence of STATEMENT children, and an
// optional leading comment.
type Method struct {
	Name       string
	Modifiers  []content.Modifier
	Comment    *Comment
	Parameters []treebuild.Element
	Body       []treebuild.Element
	meta       map[string]any
}

func NewMethod() *Method { return &Method{meta: map[string]any{}} }

func (m *Method) Role() content.Role       { return content.RoleTypeMember }
func (m *Method) Clone() treebuild.Element { return NewMethod() }
func (m *Method) ApplyContent(values content.RoledValues) error {
	for _, v := range values {
		switch v.Role {
		case content.RoleName:
			m.Name, _ = v.Value.(string)
		case content.RoleModifier:
			m.Modifiers, _ = v.Value.([]content.Modifier)
		}
	}
	return nil
}
func (m *Method) SetMetadata(key string, value any) { m.meta[key] = value }
func (m *Method) Metadata(key string) any           { return m.meta[key] }

func (m *Method) SlotKind(role content.Role) treebuild.SlotKind {
	switch role {
	case content.RoleParameter, content.RoleStatement:
		return treebuild.SlotSequence
	default:
		return treebuild.SlotSet
	}
}
func (m *Method) InsertScalar(role content.Role, treebuild.Element) error { return noScalar("Method", role) }
func (m *Method) AppendSequence(role content.Role, child treebuild.Element) error {
	switch role {
	case content.RoleParameter:
		m.Parameters = append(m.Parameters, child)
	case content.RoleStatement:
		m.Body = append(m.Body, child)
	default:
		return noSequence("Method", role)
	}
	return nil
}
func (m *Method) AddToSet(role content.Role, treebuild.Element) error { return noSet("Method", role) }
func (m *Method) PutKeyed(role content.Role, string, treebuild.Element) error {
	return noKeyed("Method", role)
}

// Field is a TYPE_MEMBER: a name, a modifier set, and a scalar VALUE (the
// initializer expression, rendered textually).
type Field struct {
	Name      string
	Modifiers []content.Modifier
	Value     string
	meta      map[string]any
}

func NewField() *Field { return &Field{meta: map[string]any{}} }

func (f *Field) Role() content.Role       { return content.RoleTypeMember }
func (f *Field) Clone() treebuild.Element { return NewField() }
func (f *Field) ApplyContent(values content.RoledValues) error {
	for _, v := range values {
		switch v.Role {
		case content.RoleName:
			f.Name, _ = v.Value.(string)
		case content.RoleModifier:
			f.Modifiers, _ = v.Value.([]content.Modifier)
		case content.RoleValue:
			f.Value, _ = v.Value.(string)
		}
	}
	return nil
}
func (f *Field) SetMetadata(key string, value any) { f.meta[key] = value }
func (f *Field) Metadata(key string) any           { return f.meta[key] }

// Parameter is a PARAMETER: a name and a declared type. A `var` pseudo-type
// intentionally leaves Type empty rather than setting a type role — a
// compatibility workaround preserved from the upstream parser.
type Parameter struct {
	Name string
	Type string
	meta map[string]any
}

func NewParameter() *Parameter { return &Parameter{meta: map[string]any{}} }

func (p *Parameter) Role() content.Role       { return content.RoleParameter }
func (p *Parameter) Clone() treebuild.Element { return NewParameter() }
func (p *Parameter) ApplyContent(values content.RoledValues) error {
	for _, v := range values {
		switch v.Role {
		case content.RoleName:
			p.Name, _ = v.Value.(string)
		case content.RoleValue:
			if typ, _ := v.Value.(string); typ != "var" {
				p.Type = typ
			}
		}
	}
	return nil
}
func (p *Parameter) SetMetadata(key string, value any) { p.meta[key] = value }
func (p *Parameter) Metadata(key string) any           { return p.meta[key] }

// Statement is a STATEMENT: rendered as a single VALUE (its source text).
type Statement struct {
	Text string
	meta map[string]any
}

func NewStatement() *Statement { return &Statement{meta: map[string]any{}} }

func (s *Statement) Role() content.Role       { return content.RoleStatement }
func (s *Statement) Clone() treebuild.Element { return NewStatement() }
func (s *Statement) ApplyContent(values content.RoledValues) error {
	for _, v := range values {
		if v.Role == content.RoleValue {
			s.Text, _ = v.Value.(string)
		}
	}
	return nil
}
func (s *Statement) SetMetadata(key string, value any) { s.meta[key] = value }
func (s *Statement) Metadata(key string) any           { return s.meta[key] }

// Comment is a COMMENT_CONTENT leaf attached to a method or field.
type Comment struct {
	Text string
	meta map[string]any
}

func NewComment() *Comment { return &Comment{meta: map[string]any{}} }

func (c *Comment) Role() content.Role       { return content.RoleCommentContent }
func (c *Comment) Clone() treebuild.Element { return NewComment() }
func (c *Comment) ApplyContent(values content.RoledValues) error {
	for _, v := range values {
		if v.Role == content.RoleCommentContent {
			c.Text, _ = v.Value.(string)
		}
	}
	return nil
}
func (c *Comment) SetMetadata(key string, value any) { c.meta[key] = value }
func (c *Comment) Metadata(key string) any           { return c.meta[key] }

// Annotation is a TYPE_MEMBER or modifier-adjacent node whose members are
// bound by name: `@Foo(key = value, ...)`.
type Annotation struct {
	Name    string
	Members map[string]treebuild.Element
	meta    map[string]any
}

func NewAnnotation() *Annotation {
	return &Annotation{Members: map[string]treebuild.Element{}, meta: map[string]any{}}
}

func (a *Annotation) Role() content.Role       { return content.RoleTypeMember }
func (a *Annotation) Clone() treebuild.Element { return NewAnnotation() }
func (a *Annotation) ApplyContent(values content.RoledValues) error {
	for _, v := range values {
		if v.Role == content.RoleName {
			a.Name, _ = v.Value.(string)
		}
	}
	return nil
}
func (a *Annotation) SetMetadata(key string, value any) { a.meta[key] = value }
func (a *Annotation) Metadata(key string) any           { return a.meta[key] }

func (a *Annotation) SlotKind(role content.Role) treebuild.SlotKind {
	if role == content.RoleAnnotationMember {
		return treebuild.SlotKeyedMap
	}
	return treebuild.SlotSet
}
func (a *Annotation) InsertScalar(role content.Role, treebuild.Element) error {
	return noScalar("Annotation", role)
}
func (a *Annotation) AppendSequence(role content.Role, treebuild.Element) error {
	return noSequence("Annotation", role)
}
func (a *Annotation) AddToSet(role content.Role, treebuild.Element) error { return noSet("Annotation", role) }
func (a *Annotation) PutKeyed(role content.Role, key string, child treebuild.Element) error {
	if role != content.RoleAnnotationMember {
		return noKeyed("Annotation", role)
	}
	if a.Members == nil {
		a.Members = map[string]treebuild.Element{}
	}
	a.Members[key] = child
	return nil
}

// AnnotationMember is one `key = value` pair of an annotation.
type AnnotationMember struct {
	Key   string
	Value string
	meta  map[string]any
}

func NewAnnotationMember(key string) *AnnotationMember {
	return &AnnotationMember{Key: key, meta: map[string]any{}}
}

func (m *AnnotationMember) Role() content.Role       { return content.RoleAnnotationMember }
func (m *AnnotationMember) Clone() treebuild.Element { return NewAnnotationMember(m.Key) }
func (m *AnnotationMember) ApplyContent(values content.RoledValues) error {
	for _, v := range values {
		if v.Role == content.RoleValue {
			m.Value, _ = v.Value.(string)
		}
	}
	return nil
}
func (m *AnnotationMember) SetMetadata(key string, value any) { m.meta[key] = value }
func (m *AnnotationMember) Metadata(key string) any           { return m.meta[key] }
func (m *AnnotationMember) OriginalKey() string               { return m.Key }

// BinaryExpression carries an OPERATOR_KIND role; its rendered form is left
// to the pretty-printer.
type BinaryExpression struct {
	Operator content.OperatorValue
	meta     map[string]any
}

func NewBinaryExpression() *BinaryExpression { return &BinaryExpression{meta: map[string]any{}} }

func (b *BinaryExpression) Role() content.Role       { return content.RoleValue }
func (b *BinaryExpression) Clone() treebuild.Element { return NewBinaryExpression() }
func (b *BinaryExpression) ApplyContent(values content.RoledValues) error {
	for _, v := range values {
		if v.Role == content.RoleOperatorKind {
			b.Operator, _ = v.Value.(content.OperatorValue)
		}
	}
	return nil
}
func (b *BinaryExpression) SetMetadata(key string, value any) { b.meta[key] = value }
func (b *BinaryExpression) Metadata(key string) any           { return b.meta[key] }

// WildcardTypeArgument carries an IS_UPPER role selecting `extends`/`super`.
type WildcardTypeArgument struct {
	Upper content.IsUpperValue
	meta  map[string]any
}

func NewWildcardTypeArgument() *WildcardTypeArgument {
	return &WildcardTypeArgument{meta: map[string]any{}}
}

func (w *WildcardTypeArgument) Role() content.Role       { return content.RoleValue }
func (w *WildcardTypeArgument) Clone() treebuild.Element { return NewWildcardTypeArgument() }
func (w *WildcardTypeArgument) ApplyContent(values content.RoledValues) error {
	for _, v := range values {
		if v.Role == content.RoleIsUpper {
			w.Upper, _ = v.Value.(content.IsUpperValue)
		}
	}
	return nil
}
func (w *WildcardTypeArgument) SetMetadata(key string, value any) { w.meta[key] = value }
func (w *WildcardTypeArgument) Metadata(key string) any           { return w.meta[key] }
