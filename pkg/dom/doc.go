// Package dom defines the host document boundary used by the cv engine.
//
// The engine never reaches for an ambient global document. Everything it
// needs (creating nodes, reading and writing attributes, replacing nodes,
// focus and text selection) goes through the Document, Element and Text
// interfaces declared here, so a renderer can target a browser through
// syscall/js or the in-memory implementation used by tests, the CLI and the
// preview server.
//
// # In-memory Document
//
//	doc := dom.NewDocument()
//	div := doc.CreateElement("div")
//	div.SetAttribute("class", "card")
//	doc.Body().Append(div)
//	fmt.Println(dom.OuterHTML(div)) // <div class="card"></div>
//
// ParseHTML and ParseFragment build trees from markup; OuterHTML and
// WriteHTML serialize them back.
//
// # Browser
//
// Built for js/wasm, Browser returns the page's document wrapped in the
// same interfaces.
package dom
