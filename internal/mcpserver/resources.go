package mcpserver

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/aellingwood/herogen/internal/hero"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	heroesURI       = "herogen://heroes"
	heroURIPrefix   = "herogen://heroes/"
	motifsURI       = "herogen://motifs"
	configURI       = "herogen://config"
	heroURITemplate = heroURIPrefix + "{slug}"
)

func (hs *HeroServer) registerResources() {
	hs.server.AddResource(&mcp.Resource{
		URI:         heroesURI,
		Name:        "Hero Catalog",
		Description: "Every hero definition, built-in and from article front matter, with resolved palette and layout",
		MIMEType:    "application/json",
	}, hs.handleHeroesResource)

	hs.server.AddResource(&mcp.Resource{
		URI:         motifsURI,
		Name:        "Motifs",
		Description: "Names of the illustrations a hero can draw",
		MIMEType:    "application/json",
	}, hs.handleMotifsResource)

	hs.server.AddResource(&mcp.Resource{
		URI:         configURI,
		Name:        "Configuration",
		Description: "Resolved herogen configuration",
		MIMEType:    "application/json",
	}, hs.handleConfigResource)

	hs.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: heroURITemplate,
		Name:        "Hero Definition",
		Description: "Full definition of a single hero",
		MIMEType:    "application/json",
	}, hs.handleHeroResource)
}

func jsonResource(uri, data string) *mcp.ReadResourceResult {
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{URI: uri, MIMEType: "application/json", Text: data},
		},
	}
}

func marshalResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return jsonResource(uri, string(b)), nil
}

func (hs *HeroServer) handleHeroesResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	defs, err := hero.Catalog(hs.cfg.Content.Dir, true)
	if err != nil {
		return nil, err
	}
	return marshalResource(req.Params.URI, defs)
}

func (hs *HeroServer) handleMotifsResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	return marshalResource(req.Params.URI, hero.Motifs())
}

func (hs *HeroServer) handleConfigResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	return marshalResource(req.Params.URI, hs.cfg)
}

func (hs *HeroServer) handleHeroResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	uri := req.Params.URI
	if !strings.HasPrefix(uri, heroURIPrefix) {
		return nil, mcp.ResourceNotFoundError(uri)
	}
	slug := strings.TrimPrefix(uri, heroURIPrefix)

	defs, err := hero.Catalog(hs.cfg.Content.Dir, true)
	if err != nil {
		return nil, err
	}
	def, err := hero.Find(defs, slug)
	if err != nil {
		return nil, mcp.ResourceNotFoundError(uri)
	}
	return marshalResource(uri, def)
}
