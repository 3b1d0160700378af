package timeline

import (
	"encoding/json"
	"fmt"

	"github.com/rudrasingh500/agentic-video-editor-sub000/internal/opentime"
)

// Wire format: every node carries a "schema" discriminator and every
// temporal field is a (value, rate) pair. This file is the only place
// that knows the tags.

type schemaHeader struct {
	Schema string `json:"schema"`
}

func peekSchema(data []byte) (string, error) {
	var p schemaHeader
	if err := json.Unmarshal(data, &p); err != nil {
		return "", err
	}
	if p.Schema == "" {
		return "", fmt.Errorf("node missing schema tag")
	}
	return p.Schema, nil
}

// --- items ---

type clipJSON struct {
	Schema      string             `json:"schema"`
	Name        string             `json:"name"`
	SourceRange opentime.TimeRange `json:"source_range"`
	Media       json.RawMessage    `json:"media_reference"`
	Effects     []json.RawMessage  `json:"effects,omitempty"`
	Markers     []Marker           `json:"markers,omitempty"`
}

func (c *Clip) MarshalJSON() ([]byte, error) {
	out := clipJSON{Schema: c.Schema(), Name: c.Name, SourceRange: c.SourceRange, Markers: c.Markers}
	media, err := marshalMedia(c.Media)
	if err != nil {
		return nil, err
	}
	out.Media = media
	for _, e := range c.Effects {
		raw, err := marshalEffect(e)
		if err != nil {
			return nil, err
		}
		out.Effects = append(out.Effects, raw)
	}
	return json.Marshal(out)
}

func (c *Clip) UnmarshalJSON(data []byte) error {
	var in clipJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	c.Name = in.Name
	c.SourceRange = in.SourceRange
	c.Markers = in.Markers
	c.Effects = nil
	media, err := unmarshalMedia(in.Media)
	if err != nil {
		return err
	}
	c.Media = media
	for _, raw := range in.Effects {
		e, err := unmarshalEffect(raw)
		if err != nil {
			return err
		}
		c.Effects = append(c.Effects, e)
	}
	return nil
}

type gapJSON struct {
	Schema      string             `json:"schema"`
	Name        string             `json:"name"`
	SourceRange opentime.TimeRange `json:"source_range"`
	Markers     []Marker           `json:"markers,omitempty"`
}

func (g *Gap) MarshalJSON() ([]byte, error) {
	return json.Marshal(gapJSON{Schema: g.Schema(), Name: g.Name, SourceRange: g.SourceRange, Markers: g.Markers})
}

func (g *Gap) UnmarshalJSON(data []byte) error {
	var in gapJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	g.Name, g.SourceRange, g.Markers = in.Name, in.SourceRange, in.Markers
	return nil
}

type transitionJSON struct {
	Schema         string                `json:"schema"`
	Name           string                `json:"name"`
	TransitionType string                `json:"transition_type"`
	InOffset       opentime.RationalTime `json:"in_offset"`
	OutOffset      opentime.RationalTime `json:"out_offset"`
}

func (t *Transition) MarshalJSON() ([]byte, error) {
	return json.Marshal(transitionJSON{
		Schema: t.Schema(), Name: t.Name, TransitionType: t.TransitionType,
		InOffset: t.InOffset, OutOffset: t.OutOffset,
	})
}

func (t *Transition) UnmarshalJSON(data []byte) error {
	var in transitionJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	t.Name, t.TransitionType, t.InOffset, t.OutOffset = in.Name, in.TransitionType, in.InOffset, in.OutOffset
	return nil
}

type trackJSON struct {
	Schema   string            `json:"schema"`
	Name     string            `json:"name"`
	Kind     TrackKind         `json:"kind"`
	Children []json.RawMessage `json:"children"`
	Markers  []Marker          `json:"markers,omitempty"`
}

func (t *Track) MarshalJSON() ([]byte, error) {
	out := trackJSON{Schema: t.Schema(), Name: t.Name, Kind: t.Kind, Markers: t.Markers, Children: []json.RawMessage{}}
	for _, child := range t.Children {
		raw, err := json.Marshal(child)
		if err != nil {
			return nil, err
		}
		out.Children = append(out.Children, raw)
	}
	return json.Marshal(out)
}

func (t *Track) UnmarshalJSON(data []byte) error {
	var in trackJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	t.Name, t.Kind, t.Markers = in.Name, in.Kind, in.Markers
	t.Children = nil
	for _, raw := range in.Children {
		item, err := UnmarshalItem(raw)
		if err != nil {
			return err
		}
		t.Children = append(t.Children, item)
	}
	return nil
}

type stackJSON struct {
	Schema      string              `json:"schema"`
	Name        string              `json:"name"`
	Children    []json.RawMessage   `json:"children"`
	SourceRange *opentime.TimeRange `json:"source_range,omitempty"`
	Markers     []Marker            `json:"markers,omitempty"`
}

func (s *Stack) MarshalJSON() ([]byte, error) {
	out := stackJSON{Schema: s.Schema(), Name: s.Name, SourceRange: s.SourceRange, Markers: s.Markers, Children: []json.RawMessage{}}
	for _, child := range s.Children {
		raw, err := json.Marshal(child)
		if err != nil {
			return nil, err
		}
		out.Children = append(out.Children, raw)
	}
	return json.Marshal(out)
}

func (s *Stack) UnmarshalJSON(data []byte) error {
	var in stackJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	s.Name, s.SourceRange, s.Markers = in.Name, in.SourceRange, in.Markers
	s.Children = nil
	for _, raw := range in.Children {
		item, err := UnmarshalItem(raw)
		if err != nil {
			return err
		}
		s.Children = append(s.Children, item)
	}
	return nil
}

// UnmarshalItem decodes one schema-tagged child node.
func UnmarshalItem(data []byte) (Item, error) {
	schema, err := peekSchema(data)
	if err != nil {
		return nil, err
	}
	switch schema {
	case "Clip.1":
		var c Clip
		return &c, json.Unmarshal(data, &c)
	case "Gap.1":
		var g Gap
		return &g, json.Unmarshal(data, &g)
	case "Transition.1":
		var t Transition
		return &t, json.Unmarshal(data, &t)
	case "Stack.1":
		var s Stack
		return &s, json.Unmarshal(data, &s)
	case "Track.1":
		var t Track
		return &t, json.Unmarshal(data, &t)
	default:
		return nil, fmt.Errorf("unknown item schema %q", schema)
	}
}

// --- media references ---

type externalRefJSON struct {
	Schema         string              `json:"schema"`
	AssetID        string              `json:"asset_id"`
	AvailableRange *opentime.TimeRange `json:"available_range,omitempty"`
}

type generatorRefJSON struct {
	Schema     string         `json:"schema"`
	Kind       string         `json:"kind"`
	Parameters map[string]any `json:"parameters,omitempty"`
}

func marshalMedia(ref MediaReference) (json.RawMessage, error) {
	switch v := ref.(type) {
	case *ExternalReference:
		return json.Marshal(externalRefJSON{Schema: v.RefSchema(), AssetID: v.AssetID, AvailableRange: v.AvailableRange})
	case *GeneratorReference:
		return json.Marshal(generatorRefJSON{Schema: v.RefSchema(), Kind: v.Kind, Parameters: v.Parameters})
	case *MissingReference, nil:
		return json.Marshal(schemaHeader{Schema: "MissingReference.1"})
	default:
		return nil, fmt.Errorf("unknown media reference %T", ref)
	}
}

// UnmarshalMedia decodes a schema-tagged media reference. Empty input
// decodes as a missing reference.
func UnmarshalMedia(data []byte) (MediaReference, error) {
	return unmarshalMedia(data)
}

func unmarshalMedia(data []byte) (MediaReference, error) {
	if len(data) == 0 {
		return &MissingReference{}, nil
	}
	schema, err := peekSchema(data)
	if err != nil {
		return nil, err
	}
	switch schema {
	case "ExternalReference.1":
		var in externalRefJSON
		if err := json.Unmarshal(data, &in); err != nil {
			return nil, err
		}
		return &ExternalReference{AssetID: in.AssetID, AvailableRange: in.AvailableRange}, nil
	case "GeneratorReference.1":
		var in generatorRefJSON
		if err := json.Unmarshal(data, &in); err != nil {
			return nil, err
		}
		return &GeneratorReference{Kind: in.Kind, Parameters: in.Parameters}, nil
	case "MissingReference.1":
		return &MissingReference{}, nil
	default:
		return nil, fmt.Errorf("unknown media reference schema %q", schema)
	}
}

// --- effects ---

type genericEffectJSON struct {
	Schema     string         `json:"schema"`
	EffectName string         `json:"effect_name"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

type timeWarpJSON struct {
	Schema     string  `json:"schema"`
	TimeScalar float64 `json:"time_scalar"`
}

func marshalEffect(e Effect) (json.RawMessage, error) {
	switch v := e.(type) {
	case *GenericEffect:
		return json.Marshal(genericEffectJSON{Schema: v.EffectSchema(), EffectName: v.EffectName, Metadata: v.Metadata})
	case *LinearTimeWarp:
		return json.Marshal(timeWarpJSON{Schema: v.EffectSchema(), TimeScalar: v.TimeScalar})
	case *FreezeFrame:
		return json.Marshal(schemaHeader{Schema: v.EffectSchema()})
	default:
		return nil, fmt.Errorf("unknown effect %T", e)
	}
}

// UnmarshalEffect decodes a schema-tagged effect.
func UnmarshalEffect(data []byte) (Effect, error) {
	return unmarshalEffect(data)
}

func unmarshalEffect(data []byte) (Effect, error) {
	schema, err := peekSchema(data)
	if err != nil {
		return nil, err
	}
	switch schema {
	case "Effect.1":
		var in genericEffectJSON
		if err := json.Unmarshal(data, &in); err != nil {
			return nil, err
		}
		return &GenericEffect{EffectName: in.EffectName, Metadata: in.Metadata}, nil
	case "LinearTimeWarp.1":
		var in timeWarpJSON
		if err := json.Unmarshal(data, &in); err != nil {
			return nil, err
		}
		return &LinearTimeWarp{TimeScalar: in.TimeScalar}, nil
	case "FreezeFrame.1":
		return &FreezeFrame{}, nil
	default:
		return nil, fmt.Errorf("unknown effect schema %q", schema)
	}
}

// --- timeline ---

type timelineJSON struct {
	Schema      string          `json:"schema"`
	Name        string          `json:"name"`
	DefaultRate float64         `json:"default_rate"`
	Tracks      json.RawMessage `json:"tracks"`
	Metadata    map[string]any  `json:"metadata,omitempty"`
}

func (tl *Timeline) MarshalJSON() ([]byte, error) {
	tracks, err := json.Marshal(&tl.Tracks)
	if err != nil {
		return nil, err
	}
	return json.Marshal(timelineJSON{
		Schema: "Timeline.1", Name: tl.Name, DefaultRate: tl.DefaultRate,
		Tracks: tracks, Metadata: tl.Metadata,
	})
}

func (tl *Timeline) UnmarshalJSON(data []byte) error {
	var in timelineJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	if in.Schema != "" && in.Schema != "Timeline.1" {
		return fmt.Errorf("unknown timeline schema %q", in.Schema)
	}
	tl.Name, tl.DefaultRate, tl.Metadata = in.Name, in.DefaultRate, in.Metadata
	if tl.DefaultRate <= 0 {
		tl.DefaultRate = DefaultRate
	}
	tl.Tracks = Stack{Name: "tracks"}
	if len(in.Tracks) > 0 {
		if err := json.Unmarshal(in.Tracks, &tl.Tracks); err != nil {
			return err
		}
	}
	return nil
}

// Clone deep-copies the timeline through the wire codec. Mutations always
// happen on a clone so published checkpoints stay immutable.
func (tl *Timeline) Clone() (*Timeline, error) {
	data, err := json.Marshal(tl)
	if err != nil {
		return nil, err
	}
	var out Timeline
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Equal compares two timelines structurally via their wire encoding.
func (tl *Timeline) Equal(other *Timeline) bool {
	a, err := json.Marshal(tl)
	if err != nil {
		return false
	}
	b, err := json.Marshal(other)
	if err != nil {
		return false
	}
	return string(a) == string(b)
}
