package extensions

import (
	"regexp"

	"github.com/dshills/inkwell/document"
	"github.com/dshills/inkwell/extension"
)

// BoldExtension contributes the bold mark with toggle/set/unset commands
// and the Mod-b shortcut.
type BoldExtension struct {
	*extension.Base
}

// NewBold creates the bold extension. Recognized options: "tag" (the
// serialization tag, default "strong").
func NewBold(options extension.Options) *BoldExtension {
	return &BoldExtension{Base: extension.NewBase("bold", extension.KindMark,
		extension.WithTags(extension.TagFontStyle, extension.TagFormattingMark),
		extension.WithDefaults(extension.Options{"tag": "strong"}),
		extension.WithOptions(options),
	)}
}

// CreateMarkSpec implements extension.MarkSpecProvider.
func (e *BoldExtension) CreateMarkSpec(ctx *extension.SpecContext) document.MarkSpec {
	return document.MarkSpec{
		Tag:       ctx.Options.String("tag", "strong"),
		Inclusive: true,
	}
}

// CreateCommands implements extension.CommandProvider.
func (e *BoldExtension) CreateCommands() map[string]extension.Command {
	return map[string]extension.Command{
		"setBold":    setMarkCommand("bold"),
		"unsetBold":  unsetMarkCommand("bold"),
		"toggleBold": toggleMarkCommand("bold"),
	}
}

// CreateKeymap implements extension.KeymapProvider.
func (e *BoldExtension) CreateKeymap() []extension.Keybinding {
	return []extension.Keybinding{
		{Keys: "Mod-b", Command: "toggleBold", Description: "Toggle bold on the selection"},
	}
}

// ItalicExtension contributes the italic mark.
type ItalicExtension struct {
	*extension.Base
}

// NewItalic creates the italic extension. Recognized options: "tag"
// (default "em").
func NewItalic(options extension.Options) *ItalicExtension {
	return &ItalicExtension{Base: extension.NewBase("italic", extension.KindMark,
		extension.WithTags(extension.TagFontStyle, extension.TagFormattingMark),
		extension.WithDefaults(extension.Options{"tag": "em"}),
		extension.WithOptions(options),
	)}
}

// CreateMarkSpec implements extension.MarkSpecProvider.
func (e *ItalicExtension) CreateMarkSpec(ctx *extension.SpecContext) document.MarkSpec {
	return document.MarkSpec{
		Tag:       ctx.Options.String("tag", "em"),
		Inclusive: true,
	}
}

// CreateCommands implements extension.CommandProvider.
func (e *ItalicExtension) CreateCommands() map[string]extension.Command {
	return map[string]extension.Command{
		"setItalic":    setMarkCommand("italic"),
		"unsetItalic":  unsetMarkCommand("italic"),
		"toggleItalic": toggleMarkCommand("italic"),
	}
}

// CreateKeymap implements extension.KeymapProvider.
func (e *ItalicExtension) CreateKeymap() []extension.Keybinding {
	return []extension.Keybinding{
		{Keys: "Mod-i", Command: "toggleItalic", Description: "Toggle italic on the selection"},
	}
}

// CodeExtension contributes the inline code mark. Its commands are
// declared through the decoration registry rather than an explicit
// command map, exercising the second declaration path.
type CodeExtension struct {
	*extension.Base
}

// NewCode creates the code extension. Recognized options: "tag"
// (default "code").
func NewCode(options extension.Options) *CodeExtension {
	e := &CodeExtension{Base: extension.NewBase("code", extension.KindMark,
		extension.WithTags(extension.TagCode, extension.TagFormattingMark),
		extension.WithDefaults(extension.Options{"tag": "code"}),
		extension.WithOptions(options),
	)}
	e.RegisterCommand("toggleCode", extension.CommandOptions{
		Description: "Toggle inline code on the selection",
	}, toggleMarkCommand("code"))
	e.RegisterKeybinding(extension.Keybinding{
		Keys:    "Mod-e",
		Command: "toggleCode",
	})
	return e
}

var codePasteRule = regexp.MustCompile("^`([^`]+)`$")

// CreatePasteRules implements extension.PasteRuleProvider: pasting a
// backtick-wrapped snippet inserts its contents as inline code.
func (e *CodeExtension) CreatePasteRules() []extension.PasteRule {
	return []extension.PasteRule{{
		Find: codePasteRule,
		Handler: func(ctx *extension.CommandContext, match []string) bool {
			mark, err := ctx.State.Schema().MarkOf("code", nil)
			if err != nil {
				return false
			}
			sel := ctx.Tr.Selection()
			if !sel.Empty() {
				ctx.Tr.Delete(sel.From(), sel.To())
			}
			ctx.Tr.InsertText(sel.From(), match[1], mark)
			return ctx.Tr.Err() == nil
		},
	}}
}

// CreateMarkSpec implements extension.MarkSpecProvider. Code is not
// inclusive: typing at its edge stays unmarked.
func (e *CodeExtension) CreateMarkSpec(ctx *extension.SpecContext) document.MarkSpec {
	return document.MarkSpec{
		Tag:       ctx.Options.String("tag", "code"),
		Inclusive: false,
	}
}
