// CLAUDE:SUMMARY Transport-agnostic endpoints for address, name and text normalization plus dictionary matching.
package api

import (
	"context"

	"github.com/hazyhaar/touchstone-normalize/pkg/addresses"
	"github.com/hazyhaar/touchstone-normalize/pkg/dict"
	"github.com/hazyhaar/touchstone-normalize/pkg/kit"
	"github.com/hazyhaar/touchstone-normalize/pkg/names"
	"github.com/hazyhaar/touchstone-normalize/pkg/translit"
)

// Shared request/response types used by both HTTP and MCP transports.

type addressReq struct {
	Address   string `json:"address"`
	Latinize  *bool  `json:"latinize,omitempty"`
	MinLength *int   `json:"min_length,omitempty"`
}

// normalizedResponse carries an optional result; absent is JSON null.
type normalizedResponse struct {
	Normalized *string `json:"normalized"`
}

type keywordsReq struct {
	Address     string `json:"address"`
	Latinize    *bool  `json:"latinize,omitempty"`
	Action      string `json:"action,omitempty"` // "shorten" (default) or "remove"
	Replacement string `json:"replacement,omitempty"`
}

type keywordsResponse struct {
	Normalized string `json:"normalized"`
	Result     string `json:"result"`
}

type tokenizeReq struct {
	Text      string `json:"text"`
	MinLength *int   `json:"min_length,omitempty"`
}

type tokensResponse struct {
	Tokens []string `json:"tokens"`
}

type nameReq struct {
	Name      string  `json:"name"`
	Separator *string `json:"separator,omitempty"`
}

type prenormalizedResponse struct {
	Prenormalized string `json:"prenormalized"`
}

type textReq struct {
	Text string `json:"text"`
}

type asciiResponse struct {
	ASCII string `json:"ascii"`
}

type matchReq struct {
	Term string
	Opts *dict.MatchOptions
}

type dictsResponse struct {
	Dictionaries []dict.DictInfo `json:"dictionaries"`
}

// Options are the service defaults applied when a request leaves a field out.
type Options struct {
	AddressMinLength int
	NameSeparator    string
	Latinize         bool
}

// DefaultOptions mirrors the package defaults of addresses and names.
func DefaultOptions() Options {
	return Options{
		AddressMinLength: addresses.DefaultMinLength,
		NameSeparator:    names.DefaultSeparator,
	}
}

// service binds endpoints to their shared dependencies.
type service struct {
	reg  *dict.Registry
	tr   translit.Transliterator
	opts Options
}

func newService(reg *dict.Registry, tr translit.Transliterator, opts Options) *service {
	if tr == nil {
		tr = translit.Default()
	}
	return &service{reg: reg, tr: tr, opts: opts}
}

func (s *service) latinize(v *bool) bool {
	if v == nil {
		return s.opts.Latinize
	}
	return *v
}

func optional(v string, ok bool) normalizedResponse {
	if !ok {
		return normalizedResponse{}
	}
	return normalizedResponse{Normalized: &v}
}

func (s *service) normalizeAddress() kit.Endpoint {
	return func(_ context.Context, request any) (any, error) {
		req := request.(*addressReq)
		minLength := s.opts.AddressMinLength
		if req.MinLength != nil {
			if *req.MinLength < 0 {
				return nil, kit.Invalidf("min_length must not be negative, got %d", *req.MinLength)
			}
			minLength = *req.MinLength
		}
		return optional(addresses.NormalizeWith(s.tr, req.Address, s.latinize(req.Latinize), minLength)), nil
	}
}

func (s *service) addressKeywords() kit.Endpoint {
	return func(_ context.Context, request any) (any, error) {
		req := request.(*keywordsReq)
		latinize := s.latinize(req.Latinize)
		kw, err := addresses.Keywords(latinize)
		if err != nil {
			return nil, err
		}
		// Keyword tables are keyed on normalized text.
		normalized, _ := addresses.NormalizeWith(s.tr, req.Address, latinize, 0)
		resp := keywordsResponse{Normalized: normalized}
		switch req.Action {
		case "", "shorten":
			resp.Result = kw.Shorten(normalized)
		case "remove":
			resp.Result = kw.Remove(normalized, req.Replacement)
		default:
			return nil, kit.Invalidf("unknown action %q (want shorten or remove)", req.Action)
		}
		return resp, nil
	}
}

func (s *service) tokenizeName() kit.Endpoint {
	return func(_ context.Context, request any) (any, error) {
		req := request.(*tokenizeReq)
		minLength := names.DefaultTokenMinLength
		if req.MinLength != nil {
			minLength = *req.MinLength
		}
		tokens := names.Tokenize(req.Text, minLength)
		if tokens == nil {
			tokens = []string{}
		}
		return tokensResponse{Tokens: tokens}, nil
	}
}

func (s *service) prenormalizeName() kit.Endpoint {
	return func(_ context.Context, request any) (any, error) {
		req := request.(*nameReq)
		return prenormalizedResponse{Prenormalized: names.Prenormalize(req.Name)}, nil
	}
}

func (s *service) normalizeName() kit.Endpoint {
	return func(_ context.Context, request any) (any, error) {
		req := request.(*nameReq)
		sep := s.opts.NameSeparator
		if req.Separator != nil {
			sep = *req.Separator
		}
		return optional(names.Normalize(req.Name, sep)), nil
	}
}

func (s *service) asciiText() kit.Endpoint {
	return func(_ context.Context, request any) (any, error) {
		req := request.(*textReq)
		return asciiResponse{ASCII: s.tr.ASCII(req.Text)}, nil
	}
}

func (s *service) matchTerm() kit.Endpoint {
	return func(_ context.Context, request any) (any, error) {
		req := request.(*matchReq)
		if req.Term == "" {
			return nil, kit.Invalidf("missing term")
		}
		return s.reg.Match(req.Term, req.Opts), nil
	}
}

func (s *service) listDicts() kit.Endpoint {
	return func(_ context.Context, _ any) (any, error) {
		return dictsResponse{Dictionaries: s.reg.ListDicts()}, nil
	}
}

// endpoints instruments every endpoint once so HTTP and MCP share metrics
// labels.
type endpoints struct {
	normalizeAddress kit.Endpoint
	addressKeywords  kit.Endpoint
	tokenizeName     kit.Endpoint
	prenormalizeName kit.Endpoint
	normalizeName    kit.Endpoint
	asciiText        kit.Endpoint
	matchTerm        kit.Endpoint
	listDicts        kit.Endpoint
}

func (s *service) endpoints() *endpoints {
	return &endpoints{
		normalizeAddress: kit.Instrument("normalize_address")(s.normalizeAddress()),
		addressKeywords:  kit.Instrument("address_keywords")(s.addressKeywords()),
		tokenizeName:     kit.Instrument("tokenize_name")(s.tokenizeName()),
		prenormalizeName: kit.Instrument("prenormalize_name")(s.prenormalizeName()),
		normalizeName:    kit.Instrument("normalize_name")(s.normalizeName()),
		asciiText:        kit.Instrument("ascii_text")(s.asciiText()),
		matchTerm:        kit.Instrument("match_term")(s.matchTerm()),
		listDicts:        kit.Instrument("list_dicts")(s.listDicts()),
	}
}
