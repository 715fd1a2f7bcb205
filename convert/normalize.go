package convert

import (
	"bytes"
	"context"
	"fmt"
	"regexp"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// Normalize returns a comment-free rendering of JavaScript source with every
// whitespace run collapsed to a single space. The result is only meant for
// scanning declarations: its offsets do not line up with src.
func Normalize(ctx context.Context, src []byte) ([]byte, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(javascript.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, syntaxError(root)
	}

	var out bytes.Buffer
	out.Grow(len(src))
	cursor := uint32(0)
	for _, comment := range commentNodes(root) {
		if comment.StartByte() < cursor {
			continue
		}
		out.Write(src[cursor:comment.StartByte()])
		out.WriteByte(' ')
		cursor = comment.EndByte()
	}
	out.Write(src[cursor:])

	return bytes.TrimSpace(whitespaceRun.ReplaceAll(out.Bytes(), []byte(" "))), nil
}

// commentNodes returns every comment in the tree in source order.
func commentNodes(root *sitter.Node) []*sitter.Node {
	var comments []*sitter.Node

	var walk func(*sitter.Node)
	walk = func(n *sitter.Node) {
		if n == nil {
			return
		}

		switch n.Type() {
		case "comment", "html_comment":
			comments = append(comments, n)
			return
		}

		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}

	walk(root)
	return comments
}

// syntaxError describes the first error or missing node below root.
func syntaxError(root *sitter.Node) error {
	n := firstErrorNode(root)
	if n == nil {
		return ErrParse
	}
	point := n.StartPoint()
	if n.IsMissing() {
		return fmt.Errorf("%w: missing %s at line %d, column %d", ErrParse, n.Type(), point.Row+1, point.Column+1)
	}
	return fmt.Errorf("%w: unexpected token at line %d, column %d", ErrParse, point.Row+1, point.Column+1)
}

func firstErrorNode(n *sitter.Node) *sitter.Node {
	if n.IsError() || n.IsMissing() {
		return n
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child == nil || !(child.HasError() || child.IsMissing()) {
			continue
		}
		if found := firstErrorNode(child); found != nil {
			return found
		}
	}
	return nil
}
