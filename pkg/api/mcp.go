package api

import (
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hazyhaar/touchstone-normalize/pkg/dict"
	"github.com/hazyhaar/touchstone-normalize/pkg/kit"
	"github.com/hazyhaar/touchstone-normalize/pkg/translit"
)

// NewMCPServer returns an MCP server exposing the normalization tools.
func NewMCPServer(name, version string, reg *dict.Registry, tr translit.Transliterator, opts Options) *server.MCPServer {
	srv := server.NewMCPServer(name, version, server.WithToolCapabilities(false))
	RegisterMCPTools(srv, reg, tr, opts)
	return srv
}

// RegisterMCPTools registers every normalization tool on srv. The tools
// share endpoints, and therefore metrics, with the HTTP routes.
func RegisterMCPTools(srv *server.MCPServer, reg *dict.Registry, tr translit.Transliterator, opts Options) {
	eps := newService(reg, tr, opts).endpoints()

	kit.RegisterMCPTool(srv, mcp.NewTool("normalize_address",
		mcp.WithDescription("Normalize a postal address for comparison: lower case, punctuation removed, tokens joined by single spaces. Returns null when the result is shorter than min_length."),
		mcp.WithString("address", mcp.Required(), mcp.Description("The address to normalize")),
		mcp.WithBoolean("latinize", mcp.Description("Transliterate non-Latin scripts to ASCII")),
		mcp.WithNumber("min_length", mcp.Description("Minimum length of a usable result")),
	), eps.normalizeAddress, func(req mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		r := &addressReq{Address: kit.StringArg(req, "address")}
		args := req.GetArguments()
		if _, ok := args["latinize"]; ok {
			v := kit.BoolArg(req, "latinize", opts.Latinize)
			r.Latinize = &v
		}
		if _, ok := args["min_length"]; ok {
			v := kit.IntArg(req, "min_length", opts.AddressMinLength)
			r.MinLength = &v
		}
		return &kit.MCPDecodeResult{Request: r}, nil
	})

	kit.RegisterMCPTool(srv, mcp.NewTool("address_keywords",
		mcp.WithDescription("Normalize an address, then shorten its keywords (street -> st) or replace them."),
		mcp.WithString("address", mcp.Required(), mcp.Description("The address to process")),
		mcp.WithString("action", mcp.Description("shorten (default) or remove")),
		mcp.WithString("replacement", mcp.Description("Text put in place of removed keywords")),
		mcp.WithBoolean("latinize", mcp.Description("Transliterate non-Latin scripts to ASCII")),
	), eps.addressKeywords, func(req mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		latinize := kit.BoolArg(req, "latinize", opts.Latinize)
		return &kit.MCPDecodeResult{Request: &keywordsReq{
			Address:     kit.StringArg(req, "address"),
			Latinize:    &latinize,
			Action:      kit.StringArg(req, "action"),
			Replacement: kit.StringArg(req, "replacement"),
		}}, nil
	})

	kit.RegisterMCPTool(srv, mcp.NewTool("tokenize_name",
		mcp.WithDescription("Split a person or organization name into tokens without changing case."),
		mcp.WithString("text", mcp.Required(), mcp.Description("The name to tokenize")),
		mcp.WithNumber("min_length", mcp.Description("Drop tokens shorter than this many characters")),
	), eps.tokenizeName, func(req mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		minLength := kit.IntArg(req, "min_length", 1)
		return &kit.MCPDecodeResult{Request: &tokenizeReq{Text: kit.StringArg(req, "text"), MinLength: &minLength}}, nil
	})

	kit.RegisterMCPTool(srv, mcp.NewTool("prenormalize_name",
		mcp.WithDescription("Case-fold a name."),
		mcp.WithString("name", mcp.Required(), mcp.Description("The name to fold")),
	), eps.prenormalizeName, decodeName)

	kit.RegisterMCPTool(srv, mcp.NewTool("normalize_name",
		mcp.WithDescription("Case-fold and tokenize a name, joining tokens with a separator. Returns null when the name has no tokens."),
		mcp.WithString("name", mcp.Required(), mcp.Description("The name to normalize")),
		mcp.WithString("separator", mcp.Description("Token separator (default a single space)")),
	), eps.normalizeName, decodeName)

	kit.RegisterMCPTool(srv, mcp.NewTool("ascii_text",
		mcp.WithDescription("Transliterate any text to ASCII. Characters that cannot be rendered become '?'."),
		mcp.WithString("text", mcp.Required(), mcp.Description("The text to transliterate")),
	), eps.asciiText, func(req mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		return &kit.MCPDecodeResult{Request: &textReq{Text: kit.StringArg(req, "text")}}, nil
	})

	kit.RegisterMCPTool(srv, mcp.NewTool("match_term",
		mcp.WithDescription("Look a term up in the loaded reference dictionaries, each under its own normalizer."),
		mcp.WithString("term", mcp.Required(), mcp.Description("The term to match")),
		mcp.WithString("jurisdictions", mcp.Description("Comma-separated jurisdiction filter (e.g. fr,uk)")),
		mcp.WithString("types", mcp.Description("Comma-separated entity type filter (e.g. surname,city)")),
		mcp.WithString("dicts", mcp.Description("Comma-separated dictionary filter")),
	), eps.matchTerm, func(req mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		return &kit.MCPDecodeResult{Request: &matchReq{
			Term: kit.StringArg(req, "term"),
			Opts: &dict.MatchOptions{
				Jurisdictions: splitList(kit.StringArg(req, "jurisdictions")),
				Types:         splitList(kit.StringArg(req, "types")),
				Dicts:         splitList(kit.StringArg(req, "dicts")),
			},
		}}, nil
	})

	kit.RegisterMCPTool(srv, mcp.NewTool("list_dicts",
		mcp.WithDescription("List all loaded dictionaries with metadata (jurisdiction, entity type, normalizer, entry count)."),
	), eps.listDicts, func(_ mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		return &kit.MCPDecodeResult{Request: nil}, nil
	})
}

func decodeName(req mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
	r := &nameReq{Name: kit.StringArg(req, "name")}
	if _, ok := req.GetArguments()["separator"]; ok {
		sep := kit.StringArg(req, "separator")
		r.Separator = &sep
	}
	return &kit.MCPDecodeResult{Request: r}, nil
}

func splitList(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
