package parser

import (
	"encoding/json"
	"strings"

	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/carbonmcp/pkg/catalog"
)

// PropsSuffix marks the declarations that describe component props.
const PropsSuffix = "Props"

// PropsDeclaration is an interface or type alias describing a component's
// props, e.g. `interface ButtonProps { ... }`.
type PropsDeclaration struct {
	Name  string
	Props []catalog.Prop
}

// ExtractFile parses a TypeScript source and returns its props declarations.
func (pm *ParserManager) ExtractFile(source []byte, filePath string) ([]PropsDeclaration, error) {
	tree, err := pm.ParseFile(source, filePath)
	if err != nil {
		return nil, err
	}
	defer tree.Close()
	return ExtractPropsDeclarations(tree.RootNode(), source), nil
}

// ExtractPropsDeclarations walks the tree and collects every interface or
// type alias whose name ends in "Props", in source order. Declarations
// without any member (plain aliases of other types) are skipped.
func ExtractPropsDeclarations(root *ts.Node, source []byte) []PropsDeclaration {
	var decls []PropsDeclaration
	walkDeclarations(root, func(decl *ts.Node) {
		nameNode := decl.ChildByFieldName("name")
		if nameNode == nil {
			return
		}
		name := nameNode.Utf8Text(source)
		if !strings.HasSuffix(name, PropsSuffix) {
			return
		}

		var props []catalog.Prop
		switch decl.Kind() {
		case "interface_declaration":
			props = extractPropsFromInterfaceDecl(decl, source)
		case "type_alias_declaration":
			props = extractPropsFromTypeAlias(decl, source)
		}
		if len(props) == 0 {
			return
		}
		decls = append(decls, PropsDeclaration{Name: name, Props: props})
	})
	return decls
}

// walkDeclarations visits interface and type alias declarations at any
// depth (export statements, `declare` blocks, namespaces).
func walkDeclarations(node *ts.Node, visit func(*ts.Node)) {
	if node == nil {
		return
	}
	switch node.Kind() {
	case "interface_declaration", "type_alias_declaration":
		visit(node)
		return
	}
	for i := uint(0); i < uint(node.ChildCount()); i++ {
		walkDeclarations(node.Child(i), visit)
	}
}

func extractPropsFromInterfaceDecl(decl *ts.Node, source []byte) []catalog.Prop {
	body := decl.ChildByFieldName("body")
	if body == nil {
		body = findChildByKind(decl, "interface_body")
	}
	if body == nil {
		body = findChildByKind(decl, "object_type")
	}
	if body == nil {
		return nil
	}
	return extractPropsFromBody(body, source)
}

// extractPropsFromTypeAlias handles `type XProps = { ... }` and
// intersections such as `type XProps = Base & { ... } & { ... }`; every
// object literal member of the intersection contributes props.
func extractPropsFromTypeAlias(decl *ts.Node, source []byte) []catalog.Prop {
	value := decl.ChildByFieldName("value")
	if value == nil {
		return nil
	}
	switch value.Kind() {
	case "object_type":
		return extractPropsFromBody(value, source)
	case "intersection_type":
		var props []catalog.Prop
		for _, member := range flattenMembers(value, "intersection_type", "&") {
			if member.Kind() == "object_type" {
				props = append(props, extractPropsFromBody(member, source)...)
			}
		}
		return props
	}
	return nil
}

// extractPropsFromBody extracts props from an interface_body or object_type node.
func extractPropsFromBody(body *ts.Node, source []byte) []catalog.Prop {
	var props []catalog.Prop

	for i := uint(0); i < uint(body.ChildCount()); i++ {
		child := body.Child(i)

		var prop *catalog.Prop
		switch child.Kind() {
		case "property_signature":
			prop = extractPropFromSignature(child, source)
		case "method_signature":
			prop = extractPropFromMethod(child, source)
		}
		if prop == nil {
			continue
		}

		doc := extractJSDocForProp(body, i, source)
		prop.Description = doc.description()
		if doc.hasDefault {
			prop.DefaultValue = parseDefault(doc.defaultValue)
		}
		props = append(props, *prop)
	}
	return props
}

// extractPropFromSignature extracts a single prop from a property_signature node.
func extractPropFromSignature(sig *ts.Node, source []byte) *catalog.Prop {
	nameNode := sig.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}

	typeName := "any"
	if anno := sig.ChildByFieldName("type"); anno != nil {
		typeName = resolveTypeAnnotation(anno, source)
	}

	return &catalog.Prop{
		Name:     unquoteString(nameNode.Utf8Text(source)),
		Type:     typeName,
		Required: !isOptional(sig),
	}
}

// extractPropFromMethod turns `onClick(event: MouseEvent): void` into a
// prop typed `(event: MouseEvent) => void`.
func extractPropFromMethod(sig *ts.Node, source []byte) *catalog.Prop {
	nameNode := sig.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}

	params := "()"
	if p := sig.ChildByFieldName("parameters"); p != nil {
		params = simplifyQualified(collapseSpace(p.Utf8Text(source)))
	}
	ret := "void"
	if r := sig.ChildByFieldName("return_type"); r != nil {
		ret = resolveTypeAnnotation(r, source)
	}

	return &catalog.Prop{
		Name:     unquoteString(nameNode.Utf8Text(source)),
		Type:     params + " => " + ret,
		Required: !isOptional(sig),
	}
}

func isOptional(sig *ts.Node) bool {
	return findChildByKind(sig, "?") != nil
}

// resolveTypeAnnotation renders the type inside a type_annotation node.
func resolveTypeAnnotation(anno *ts.Node, source []byte) string {
	for i := uint(0); i < uint(anno.ChildCount()); i++ {
		child := anno.Child(i)
		if child.Kind() == ":" {
			continue
		}
		return resolveType(child, source)
	}
	return "any"
}

// resolveType renders a type node as compact source text. Union members
// are rendered one by one so multi-line unions with a leading pipe come
// out on one line, and React namespace qualifiers are dropped.
func resolveType(node *ts.Node, source []byte) string {
	if node.Kind() == "union_type" {
		members := flattenMembers(node, "union_type", "|")
		parts := make([]string, 0, len(members))
		for _, m := range members {
			parts = append(parts, resolveType(m, source))
		}
		return strings.Join(parts, " | ")
	}
	return simplifyQualified(collapseSpace(node.Utf8Text(source)))
}

// flattenMembers flattens a left-recursive binary union or intersection
// tree into its leaf members.
func flattenMembers(node *ts.Node, kind, sep string) []*ts.Node {
	if node.Kind() != kind {
		return []*ts.Node{node}
	}
	var members []*ts.Node
	for i := uint(0); i < uint(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Kind() == sep {
			continue
		}
		members = append(members, flattenMembers(child, kind, sep)...)
	}
	return members
}

func simplifyQualified(text string) string {
	return strings.ReplaceAll(text, "React.", "")
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// jsDoc is what a doc comment says about one prop.
type jsDoc struct {
	text         string
	deprecated   bool
	hasDefault   bool
	defaultValue string
}

func (d jsDoc) description() string {
	if !d.deprecated {
		return d.text
	}
	if d.text == "" {
		return "Deprecated."
	}
	return "Deprecated: " + d.text
}

// extractJSDocForProp returns the doc comment directly above the child at
// propIndex.
func extractJSDocForProp(body *ts.Node, propIndex uint, source []byte) jsDoc {
	for i := int(propIndex) - 1; i >= 0; i-- {
		child := body.Child(uint(i))
		if child == nil {
			break
		}
		switch child.Kind() {
		case "comment":
			return parseJSDoc(child.Utf8Text(source))
		case "property_signature", "method_signature":
			return jsDoc{}
		}
	}
	return jsDoc{}
}

// parseJSDoc reads the description, @deprecated and @default tags of a
// comment. Other tags are ignored.
func parseJSDoc(comment string) jsDoc {
	comment = strings.TrimSpace(comment)
	var doc jsDoc

	if strings.HasPrefix(comment, "//") {
		line := strings.TrimSpace(strings.TrimPrefix(comment, "//"))
		if strings.Contains(line, "@deprecated") {
			doc.deprecated = true
			line = strings.TrimSpace(strings.Replace(line, "@deprecated", "", 1))
		}
		doc.text = line
		return doc
	}
	if !strings.HasPrefix(comment, "/*") {
		return doc
	}

	comment = strings.TrimPrefix(comment, "/**")
	comment = strings.TrimPrefix(comment, "/*")
	comment = strings.TrimSuffix(comment, "*/")

	var parts []string
	for _, line := range strings.Split(comment, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimSpace(strings.TrimPrefix(line, "*"))
		if line == "" {
			continue
		}

		switch {
		case strings.HasPrefix(line, "@deprecated"):
			doc.deprecated = true
			if rest := strings.TrimSpace(strings.TrimPrefix(line, "@deprecated")); rest != "" {
				parts = append(parts, rest)
			}
		case strings.HasPrefix(line, "@defaultValue"):
			doc.hasDefault = true
			doc.defaultValue = strings.TrimSpace(strings.TrimPrefix(line, "@defaultValue"))
		case strings.HasPrefix(line, "@default"):
			doc.hasDefault = true
			doc.defaultValue = strings.TrimSpace(strings.TrimPrefix(line, "@default"))
		case strings.HasPrefix(line, "@"):
			// other tags
		default:
			parts = append(parts, line)
		}
	}
	doc.text = strings.Join(parts, " ")
	return doc
}

// parseDefault converts a @default tag value to a JSON-like value:
// `true` -> bool, `8` -> number, `'md'` or "md" -> string. Anything else
// is kept as raw text.
func parseDefault(raw string) any {
	raw = strings.Trim(strings.TrimSpace(raw), "`")
	if raw == "" {
		return nil
	}
	if strings.HasPrefix(raw, "'") && strings.HasSuffix(raw, "'") && len(raw) >= 2 {
		return raw[1 : len(raw)-1]
	}
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err == nil {
		return v
	}
	return raw
}

func findChildByKind(node *ts.Node, kind string) *ts.Node {
	for i := uint(0); i < uint(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Kind() == kind {
			return child
		}
	}
	return nil
}

func unquoteString(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}
