package extensions

import (
	"regexp"

	"github.com/dshills/inkwell/document"
	"github.com/dshills/inkwell/extension"
)

// tagPattern strips markup for the naive html content handler.
var tagPattern = regexp.MustCompile(`<[^>]*>`)

// CoreExtension carries the cross-cutting pieces every editor needs:
// the "text" and "html" content handlers, text editing commands, and
// the standard read-only helpers. It loads before the content
// extensions.
type CoreExtension struct {
	*extension.Base
}

// NewCore creates the core extension.
func NewCore() *CoreExtension {
	e := &CoreExtension{Base: extension.NewBase("core", extension.KindPlain,
		extension.WithTags(extension.TagBehavior),
		extension.WithPriority(1000),
	)}

	// selectAll operates on the live selection; queuing it mid-chain
	// against a moving document is not meaningful.
	e.RegisterCommand("selectAll", extension.CommandOptions{
		DisableChaining: true,
		Description:     "Select the entire document",
	}, func(ctx *extension.CommandContext) bool {
		if ctx.DryRun() {
			return true
		}
		ctx.Tr.SetSelection(document.SelectRange(0, ctx.Tr.Doc().Size()))
		return true
	})

	e.RegisterHelper("characterCount", func(state *document.State) any {
		return state.Doc().Size()
	})

	return e
}

// OnCreate implements extension.CreateHook: it registers the string
// content handlers other layers use to turn external text into document
// content.
func (e *CoreExtension) OnCreate(rt extension.Runtime) error {
	if err := rt.SetContentHandler("text", func(content string, _ map[string]any) (*document.Node, error) {
		return document.FromText(rt.Schema(), content)
	}); err != nil {
		return err
	}
	// The html handler strips markup and keeps the text. Faithful DOM
	// parsing is out of scope.
	return rt.SetContentHandler("html", func(content string, _ map[string]any) (*document.Node, error) {
		return document.FromText(rt.Schema(), tagPattern.ReplaceAllString(content, ""))
	})
}

// CreateCommands implements extension.CommandProvider.
func (e *CoreExtension) CreateCommands() map[string]extension.Command {
	return map[string]extension.Command{
		"insertText": func(ctx *extension.CommandContext) bool {
			text, _ := ctx.Args["text"].(string)
			if text == "" {
				return false
			}
			if ctx.DryRun() {
				return true
			}
			sel := ctx.Tr.Selection()
			if !sel.Empty() {
				ctx.Tr.Delete(sel.From(), sel.To())
			}
			ctx.Tr.InsertText(sel.From(), text)
			return ctx.Tr.Err() == nil
		},
		"deleteSelection": func(ctx *extension.CommandContext) bool {
			sel := ctx.Tr.Selection()
			if sel.Empty() {
				return false
			}
			if ctx.DryRun() {
				return true
			}
			ctx.Tr.Delete(sel.From(), sel.To())
			return ctx.Tr.Err() == nil
		},
		"clearContent": func(ctx *extension.CommandContext) bool {
			if ctx.DryRun() {
				return true
			}
			size := ctx.Tr.Doc().Size()
			if size > 0 {
				ctx.Tr.Delete(0, size)
			}
			return ctx.Tr.Err() == nil
		},
		// insertContent converts a content string through a registered
		// handler ("text" by default) and inserts the resulting text at
		// the selection.
		"insertContent": func(ctx *extension.CommandContext) bool {
			content, _ := ctx.Args["content"].(string)
			if content == "" {
				return false
			}
			handlerName, _ := ctx.Args["handler"].(string)
			if handlerName == "" {
				handlerName = "text"
			}
			handler, ok := ctx.Runtime.ContentHandler(handlerName)
			if !ok {
				return false
			}
			fragment, err := handler(content, nil)
			if err != nil {
				return false
			}
			if ctx.DryRun() {
				return true
			}
			sel := ctx.Tr.Selection()
			if !sel.Empty() {
				ctx.Tr.Delete(sel.From(), sel.To())
			}
			ctx.Tr.InsertText(sel.From(), fragment.TextContent())
			return ctx.Tr.Err() == nil
		},
	}
}

// CreateHelpers implements extension.HelperProvider.
func (e *CoreExtension) CreateHelpers() map[string]extension.Helper {
	return map[string]extension.Helper{
		"isEmpty": func(state *document.State) any {
			return state.Doc().Size() == 0
		},
		"getText": func(state *document.State) any {
			return state.Doc().TextContent()
		},
		"toHTML": func(state *document.State) any {
			return document.ToHTML(state.Schema(), state.Doc())
		},
		"isSelectionEmpty": func(state *document.State) any {
			return state.Selection().Empty()
		},
	}
}

// Preset returns the standard extension set: core, the document
// skeleton, and the basic formatting marks.
func Preset() []extension.Extension {
	return []extension.Extension{
		NewCore(),
		NewDoc(),
		NewText(),
		NewParagraph(nil),
		NewHeading(nil),
		NewBold(nil),
		NewItalic(nil),
		NewCode(nil),
	}
}
