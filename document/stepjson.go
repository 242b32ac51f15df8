package document

import (
	"encoding/json"
	"fmt"
)

// stepEnvelope is the wire form of a step: a type discriminator plus the
// step's own fields.
type stepEnvelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type addMarkJSON struct {
	From int      `json:"from"`
	To   int      `json:"to"`
	Mark markJSON `json:"mark"`
}

type removeMarkJSON struct {
	From int      `json:"from"`
	To   int      `json:"to"`
	Mark markJSON `json:"mark"`
}

type insertTextJSON struct {
	At    int        `json:"at"`
	Text  string     `json:"text"`
	Marks []markJSON `json:"marks,omitempty"`
}

type deleteJSON struct {
	From int `json:"from"`
	To   int `json:"to"`
}

type setBlockTypeJSON struct {
	From     int            `json:"from"`
	To       int            `json:"to"`
	NodeType string         `json:"nodeType"`
	Attrs    map[string]any `json:"attrs,omitempty"`
}

type markJSON struct {
	Type  string         `json:"type"`
	Attrs map[string]any `json:"attrs,omitempty"`
}

func markToJSON(m Mark) markJSON {
	return markJSON{Type: m.Type, Attrs: m.Attrs}
}

func markFromJSON(m markJSON) Mark {
	return Mark{Type: m.Type, Attrs: m.Attrs}
}

// MarshalStep serializes a step to its JSON wire form.
func MarshalStep(s Step) ([]byte, error) {
	var data any
	switch st := s.(type) {
	case *AddMarkStep:
		data = addMarkJSON{From: st.From, To: st.To, Mark: markToJSON(st.Mark)}
	case *RemoveMarkStep:
		data = removeMarkJSON{From: st.From, To: st.To, Mark: markToJSON(st.Mark)}
	case *InsertTextStep:
		js := insertTextJSON{At: st.At, Text: st.Text}
		for _, m := range st.Marks {
			js.Marks = append(js.Marks, markToJSON(m))
		}
		data = js
	case *DeleteStep:
		data = deleteJSON{From: st.From, To: st.To}
	case *SetBlockTypeStep:
		data = setBlockTypeJSON{From: st.From, To: st.To, NodeType: st.NodeType, Attrs: st.Attrs}
	default:
		return nil, fmt.Errorf("step %q: %w", s.Name(), ErrUnknownStep)
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(stepEnvelope{Type: s.Name(), Data: raw})
}

// UnmarshalStep deserializes a step from its JSON wire form.
func UnmarshalStep(raw []byte) (Step, error) {
	var env stepEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, err
	}

	switch env.Type {
	case "addMark":
		var js addMarkJSON
		if err := json.Unmarshal(env.Data, &js); err != nil {
			return nil, err
		}
		return &AddMarkStep{From: js.From, To: js.To, Mark: markFromJSON(js.Mark)}, nil
	case "removeMark":
		var js removeMarkJSON
		if err := json.Unmarshal(env.Data, &js); err != nil {
			return nil, err
		}
		return &RemoveMarkStep{From: js.From, To: js.To, Mark: markFromJSON(js.Mark)}, nil
	case "insertText":
		var js insertTextJSON
		if err := json.Unmarshal(env.Data, &js); err != nil {
			return nil, err
		}
		st := &InsertTextStep{At: js.At, Text: js.Text}
		for _, m := range js.Marks {
			st.Marks = append(st.Marks, markFromJSON(m))
		}
		return st, nil
	case "delete":
		var js deleteJSON
		if err := json.Unmarshal(env.Data, &js); err != nil {
			return nil, err
		}
		return &DeleteStep{From: js.From, To: js.To}, nil
	case "setBlockType":
		var js setBlockTypeJSON
		if err := json.Unmarshal(env.Data, &js); err != nil {
			return nil, err
		}
		return &SetBlockTypeStep{From: js.From, To: js.To, NodeType: js.NodeType, Attrs: js.Attrs}, nil
	default:
		return nil, fmt.Errorf("step %q: %w", env.Type, ErrUnknownStep)
	}
}
