// Package mep provides MEP dollar (USD/ARS) quote providers.
//
// # Providers
//
// ## Cronista
//
// Source: "Cronista"
// URL: https://www.cronista.com/MercadosOnline/dolar.html
// Layout: list
//
// The quote lives in the market ticker list (ul#market-scrll-1). The first
// item whose name span contains "MEP" holds the value span.
//
// ## IOL (InvertirOnline)
//
// Source: "IOL"
// URL: https://iol.invertironline.com/mercado/cotizaciones/argentina/monedas
// Layout: table
//
// Each currency is a table row labelled with a <strong> element. A MEP row
// carries two numeric cells (td.tar, buy and sell), and the second one is
// used. Rows with fewer cells are ignored.
//
// ## DolarHoy
//
// Source: "DolarHoy"
// URL: https://dolarhoy.com/cotizacion-dolar-mep
// Layout: tiles
// Page load timeout: 200s
//
// The MEP page shows buy and sell value blocks (div.value); the second block
// (sell) is used.
//
// # Fetching
//
// Every Fetch opens its own browser session, waits for the source's marker
// element and closes the session on return. Fetch does not retry; callers
// wrap it with the retry package. A page that loads fine but lacks the quote
// is reported as a nil result with no error.
package mep
