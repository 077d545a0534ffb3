package goflat

// PrintOpts specifies what the Print stage of a connection stream includes
// for each saddle connection.
type PrintOpts struct {
	Label    string // Prefix label
	Vectors  bool   // If set, connections print their full vector
	Chain    bool   // If set, connections print their chain decomposition
	Hidden   bool   // Not read by any printer; a collapsed surface's String always includes its hidden lists
	Numbered bool   // If set, stream output is numbered
}

var DefaultPrintOpts = PrintOpts{
	Vectors: true,
	Hidden:  true,
}
