// Package mcpserver implements an MCP (Model Context Protocol) server for
// herogen, letting MCP clients list hero definitions, measure mixed-script
// text, and render heroes to disk.
package mcpserver

// HeroBrief summarises one hero definition.
type HeroBrief struct {
	Slug     string   `json:"slug"`
	Title    string   `json:"title"`
	Subtitle string   `json:"subtitle,omitempty"`
	Tagline  string   `json:"tagline,omitempty"`
	Motif    string   `json:"motif"`
	Source   string   `json:"source"`
	Files    []string `json:"files"`
	Rendered bool     `json:"rendered"`
}

// ListHeroesInput is the input for the list_heroes tool.
type ListHeroesInput struct {
	ExcludeBuiltin bool   `json:"excludeBuiltin,omitempty" jsonschema:"Only list heroes declared in article front matter"`
	Motif          string `json:"motif,omitempty"          jsonschema:"Only list heroes using this motif (orbit, shield, checklist, scale, none)"`
}

// ListHeroesOutput is the output of the list_heroes tool.
type ListHeroesOutput struct {
	Count  int         `json:"count"`
	Heroes []HeroBrief `json:"heroes"`
}

// MeasureTextInput is the input for the measure_text tool.
type MeasureTextInput struct {
	Text string `json:"text"           jsonschema:"The text to measure; may mix Latin and Chinese"`
	Size int    `json:"size,omitempty" jsonschema:"Font size in pixels (default 68, the title size)"`
}

// TextRun is a maximal run of runes drawn with the same font class.
type TextRun struct {
	Text  string `json:"text"`
	Class string `json:"class"`
	Width int    `json:"width"`
}

// MeasureTextOutput is the output of the measure_text tool.
type MeasureTextOutput struct {
	Width int       `json:"width"`
	Size  int       `json:"size"`
	Runs  []TextRun `json:"runs"`
	Fits  bool      `json:"fits"`
}

// RenderHeroInput is the input for the render_hero tool. When Slug names a
// known hero it is rendered as defined; otherwise Title is required and an
// ad-hoc hero is rendered from the remaining fields.
type RenderHeroInput struct {
	Slug       string   `json:"slug"                 jsonschema:"Slug of the hero to render"`
	Title      string   `json:"title,omitempty"      jsonschema:"Title for an ad-hoc hero"`
	Subtitle   string   `json:"subtitle,omitempty"   jsonschema:"Subtitle for an ad-hoc hero"`
	Tagline    string   `json:"tagline,omitempty"    jsonschema:"Tagline for an ad-hoc hero"`
	Motif      string   `json:"motif,omitempty"      jsonschema:"Motif for an ad-hoc hero (default orbit)"`
	Background string   `json:"background,omitempty" jsonschema:"Background color for an ad-hoc hero as #RRGGBB"`
	Primary    string   `json:"primary,omitempty"    jsonschema:"Primary color for an ad-hoc hero as #RRGGBB"`
	Formats    []string `json:"formats,omitempty"    jsonschema:"Output formats (png, webp); defaults to the configured formats"`
	Force      bool     `json:"force,omitempty"      jsonschema:"Render even when the cached output is current"`
}

// RenderHeroOutput is the output of the render_hero tool.
type RenderHeroOutput struct {
	Slug       string   `json:"slug"`
	Files      []string `json:"files"`
	Cached     bool     `json:"cached"`
	DurationMs int64    `json:"durationMs"`
}
