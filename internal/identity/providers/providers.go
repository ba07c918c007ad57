// Package providers adapts the scraping core's identity routes into the
// resolver's provider chain.
package providers

import (
	"context"

	"github.com/agusdc111/arreglocuil/internal/identity"
	"github.com/agusdc111/arreglocuil/internal/identity/resolver"
	"github.com/agusdc111/arreglocuil/internal/provider"
	"github.com/agusdc111/arreglocuil/internal/provider/core"
)

// Provider IDs, also valid values for the primary-method setting.
const (
	IDAFIP       = "afip"
	IDCuitOnline = "cuitonline"
	IDWebSearch  = "websearch"
)

// directory is a padron-style source (primary/secondary).
type directory struct {
	id     string
	route  string
	client *core.Client
}

// AFIP is the A13 padron source.
func AFIP(c *core.Client) resolver.Provider {
	return &directory{id: IDAFIP, route: "nosis3", client: c}
}

// CuitOnline is the secondary directory source.
func CuitOnline(c *core.Client) resolver.Provider {
	return &directory{id: IDCuitOnline, route: "nosis2", client: c}
}

func (d *directory) ID() string { return d.id }

func (d *directory) Accepts(identity.Document) bool { return true }

func (d *directory) Lookup(ctx context.Context, doc identity.Document, name string) (identity.Outcome, error) {
	rec, err := d.client.LookupIdentity(ctx, d.route, d.id, doc.Value, name)
	if err != nil {
		if provider.GetCategory(err) == provider.ErrorNotFound {
			return identity.Outcome{Kind: identity.OutcomeNoRecord, Detail: provider.GetMessage(err)}, nil
		}
		return identity.Outcome{}, err
	}
	return identity.ParseDirectoryRecord(rec), nil
}

// web is the tertiary public web source. It can only search 7-9 digit
// documents; an 11-digit tax ID is never attempted against it.
type web struct {
	client *core.Client
}

// WebSearch is the tertiary web source.
func WebSearch(c *core.Client) resolver.Provider {
	return &web{client: c}
}

func (w *web) ID() string { return IDWebSearch }

func (w *web) Accepts(doc identity.Document) bool {
	l := len(doc.Value)
	return l >= 7 && l <= 9
}

func (w *web) Lookup(ctx context.Context, doc identity.Document, name string) (identity.Outcome, error) {
	rec, err := w.client.LookupIdentity(ctx, "nosis", IDWebSearch, doc.Value, name)
	if err != nil {
		if provider.GetCategory(err) == provider.ErrorNotFound {
			return identity.Outcome{Kind: identity.OutcomeNoRecord, Detail: provider.GetMessage(err)}, nil
		}
		return identity.Outcome{}, err
	}
	return identity.ParseWebRecord(rec), nil
}

// Chain builds the fallback order from the configured primary method. The
// primary's paired directory source goes second, the web source always last.
func Chain(primary string, c *core.Client) []resolver.Provider {
	if primary == IDCuitOnline {
		return []resolver.Provider{CuitOnline(c), AFIP(c), WebSearch(c)}
	}
	return []resolver.Provider{AFIP(c), CuitOnline(c), WebSearch(c)}
}
