package extensions

import (
	"regexp"

	"github.com/dshills/inkwell/document"
	"github.com/dshills/inkwell/extension"
)

// DocExtension contributes the document root node. It loads with a high
// priority so the root type is assembled before content types.
type DocExtension struct {
	*extension.Base
}

// NewDoc creates the document root extension.
func NewDoc() *DocExtension {
	return &DocExtension{Base: extension.NewBase("doc", extension.KindNode,
		extension.WithPriority(100),
	)}
}

// CreateNodeSpec implements extension.NodeSpecProvider.
func (e *DocExtension) CreateNodeSpec(ctx *extension.SpecContext) document.NodeSpec {
	return document.NodeSpec{Content: "block+"}
}

// TextExtension contributes the text leaf node type.
type TextExtension struct {
	*extension.Base
}

// NewText creates the text node extension.
func NewText() *TextExtension {
	return &TextExtension{Base: extension.NewBase("text", extension.KindNode,
		extension.WithPriority(100),
	)}
}

// CreateNodeSpec implements extension.NodeSpecProvider.
func (e *TextExtension) CreateNodeSpec(ctx *extension.SpecContext) document.NodeSpec {
	return document.NodeSpec{Group: "inline", Inline: true}
}

// ParagraphExtension contributes the paragraph block.
type ParagraphExtension struct {
	*extension.Base
}

// NewParagraph creates the paragraph extension. Recognized options:
// "tag" (default "p").
func NewParagraph(options extension.Options) *ParagraphExtension {
	return &ParagraphExtension{Base: extension.NewBase("paragraph", extension.KindNode,
		extension.WithTags(extension.TagBlock),
		extension.WithPriority(50),
		extension.WithDefaults(extension.Options{"tag": "p"}),
		extension.WithOptions(options),
	)}
}

// CreateNodeSpec implements extension.NodeSpecProvider.
func (e *ParagraphExtension) CreateNodeSpec(ctx *extension.SpecContext) document.NodeSpec {
	return document.NodeSpec{
		Content: "inline*",
		Group:   "block",
		Tag:     ctx.Options.String("tag", "p"),
	}
}

// CreateCommands implements extension.CommandProvider.
func (e *ParagraphExtension) CreateCommands() map[string]extension.Command {
	return map[string]extension.Command{
		"setParagraph": func(ctx *extension.CommandContext) bool {
			if ctx.DryRun() {
				return true
			}
			sel := ctx.Tr.Selection()
			ctx.Tr.SetBlockType(sel.From(), sel.To(), "paragraph", nil)
			return ctx.Tr.Err() == nil
		},
	}
}

// HeadingExtension contributes the heading block with a level attribute.
type HeadingExtension struct {
	*extension.Base
}

// NewHeading creates the heading extension. Recognized options:
// "levels" (permitted levels, default [1 2 3 4 5 6]).
func NewHeading(options extension.Options) *HeadingExtension {
	return &HeadingExtension{Base: extension.NewBase("heading", extension.KindNode,
		extension.WithTags(extension.TagBlock),
		extension.WithDefaults(extension.Options{"levels": []int{1, 2, 3, 4, 5, 6}}),
		extension.WithOptions(options),
	)}
}

// Levels returns the permitted heading levels.
func (e *HeadingExtension) Levels() []int {
	return e.Options().IntSlice("levels", []int{1, 2, 3, 4, 5, 6})
}

func (e *HeadingExtension) allows(level int) bool {
	for _, l := range e.Levels() {
		if l == level {
			return true
		}
	}
	return false
}

// CreateNodeSpec implements extension.NodeSpecProvider.
func (e *HeadingExtension) CreateNodeSpec(ctx *extension.SpecContext) document.NodeSpec {
	return document.NodeSpec{
		Content: "inline*",
		Group:   "block",
		Attrs:   map[string]document.AttributeSpec{"level": {Default: 1}},
		RenderTag: func(attrs map[string]any) string {
			switch attrs["level"] {
			case 2:
				return "h2"
			case 3:
				return "h3"
			case 4:
				return "h4"
			case 5:
				return "h5"
			case 6:
				return "h6"
			default:
				return "h1"
			}
		},
	}
}

// CreateCommands implements extension.CommandProvider. setHeading takes
// a "level" argument; toggleHeading flips between heading and paragraph.
func (e *HeadingExtension) CreateCommands() map[string]extension.Command {
	level := func(ctx *extension.CommandContext) int {
		switch v := ctx.Args["level"].(type) {
		case int:
			return v
		case int64:
			return int(v)
		case float64:
			return int(v)
		default:
			return 1
		}
	}

	return map[string]extension.Command{
		"setHeading": func(ctx *extension.CommandContext) bool {
			lvl := level(ctx)
			if !e.allows(lvl) {
				return false
			}
			if ctx.DryRun() {
				return true
			}
			sel := ctx.Tr.Selection()
			ctx.Tr.SetBlockType(sel.From(), sel.To(), "heading", map[string]any{"level": lvl})
			return ctx.Tr.Err() == nil
		},
		"toggleHeading": func(ctx *extension.CommandContext) bool {
			lvl := level(ctx)
			if !e.allows(lvl) {
				return false
			}
			if ctx.DryRun() {
				return true
			}
			sel := ctx.Tr.Selection()
			if blockIs(ctx.Tr.Doc(), sel.From(), sel.To(), "heading", lvl) {
				ctx.Tr.SetBlockType(sel.From(), sel.To(), "paragraph", nil)
			} else {
				ctx.Tr.SetBlockType(sel.From(), sel.To(), "heading", map[string]any{"level": lvl})
			}
			return ctx.Tr.Err() == nil
		},
	}
}

var headingRule = regexp.MustCompile(`^(#{1,6}) $`)

// CreateInputRules implements extension.InputRuleProvider: typing "# "
// through "###### " at the start of a block converts it to a heading.
func (e *HeadingExtension) CreateInputRules() []extension.InputRule {
	return []extension.InputRule{{
		Find: headingRule,
		Handler: func(ctx *extension.CommandContext, match []string) bool {
			level := len(match[1])
			if !e.allows(level) {
				return false
			}
			sel := ctx.Tr.Selection()
			ctx.Tr.SetBlockType(sel.From(), sel.To(), "heading", map[string]any{"level": level})
			return ctx.Tr.Err() == nil
		},
	}}
}

// blockIs reports whether a heading of the given level overlaps the
// range.
func blockIs(doc *document.Node, from, to int, typeName string, level int) bool {
	for _, span := range doc.BlockSpans() {
		if span.Node.Type != typeName {
			continue
		}
		if span.To < from || span.From > to {
			continue
		}
		if span.Node.Attrs["level"] == level {
			return true
		}
	}
	return false
}
