package lang

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/java"
)

func init() {
	Languages["java"] = &Language{
		Name:             "java",
		Extensions:       []string{".java"},
		lang:             java.GetLanguage(),
		EnclosingType:    javaEnclosingType,
		ExtractSignature: javaExtractSignature,
	}
}

// javaEnclosingType walks up from a method or constructor to its declaring
// type: callable → class_body/interface_body/enum_body → declaration.
func javaEnclosingType(node *sitter.Node, source []byte) (string, bool) {
	for p := node.Parent(); p != nil; p = p.Parent() {
		switch p.Type() {
		case "class_declaration":
			return javaDeclName(p, source), !HasModifier(p, source, "abstract")
		case "enum_declaration", "record_declaration":
			return javaDeclName(p, source), true
		case "interface_declaration", "annotation_type_declaration":
			return javaDeclName(p, source), false
		case "object_creation_expression":
			// Anonymous class body: no name to construct it by.
			return "", false
		}
	}
	return "", false
}

func javaDeclName(decl *sitter.Node, source []byte) string {
	if n := decl.ChildByFieldName("name"); n != nil {
		return NodeText(n, source)
	}
	return ""
}

// HasModifier reports whether a declaration carries the given keyword in
// its modifiers node.
func HasModifier(decl *sitter.Node, source []byte, keyword string) bool {
	for i := 0; i < int(decl.NamedChildCount()); i++ {
		child := decl.NamedChild(i)
		if child.Type() != "modifiers" {
			continue
		}
		for _, word := range strings.Fields(NodeText(child, source)) {
			if word == keyword {
				return true
			}
		}
	}
	return false
}

func javaExtractSignature(node *sitter.Node, source []byte) string {
	var name, params string
	if n := node.ChildByFieldName("name"); n != nil {
		name = NodeText(n, source)
	}
	if p := node.ChildByFieldName("parameters"); p != nil {
		params = CollapseWhitespace(NodeText(p, source))
	}
	return name + params
}
