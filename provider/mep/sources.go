package mep

import (
	"time"

	"github.com/sig-0/mepquotes/fetch"
	"github.com/sig-0/mepquotes/quote"
)

const defaultMarker = "MEP"

// Definition describes where and how a source publishes its MEP quote
type Definition struct {
	Source       quote.Source
	URL          string
	WaitSelector string // element that must be present before extraction
	Layout       Layout
	Marker       string
	Timeouts     fetch.Timeouts
	WaitTimeout  time.Duration
}

// DefaultDefinitions returns the known sources, in report order
func DefaultDefinitions() []Definition {
	return []Definition{
		{
			Source:       quote.SourceCronista,
			URL:          "https://www.cronista.com/MercadosOnline/dolar.html",
			WaitSelector: "ul#market-scrll-1",
			Layout:       LayoutList,
			Marker:       defaultMarker,
			Timeouts:     fetch.DefaultTimeouts(),
			WaitTimeout:  10 * time.Second,
		},
		{
			Source:       quote.SourceIOL,
			URL:          "https://iol.invertironline.com/mercado/cotizaciones/argentina/monedas",
			WaitSelector: "tr",
			Layout:       LayoutTable,
			Marker:       defaultMarker,
			Timeouts:     fetch.DefaultTimeouts(),
			WaitTimeout:  10 * time.Second,
		},
		{
			Source:       quote.SourceDolarHoy,
			URL:          "https://dolarhoy.com/cotizacion-dolar-mep",
			WaitSelector: ".value",
			Layout:       LayoutTiles, // the page only lists the MEP quote, no marker needed
			Timeouts: fetch.Timeouts{
				PageLoad: 200 * time.Second, // the page is notoriously slow
				Script:   fetch.DefaultScriptTimeout,
			},
			WaitTimeout: 15 * time.Second,
		},
	}
}
