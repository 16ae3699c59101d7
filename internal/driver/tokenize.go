package driver

import (
	"pyfmt/internal/diag"
	"pyfmt/internal/lexer"
	"pyfmt/internal/source"
	"pyfmt/internal/token"
)

// TokenizeResult bundles the outcome of scanning one file.
type TokenizeResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tokens  []token.Token
	Bag     *diag.Bag
}

// Tokenize scans a single file and returns its token stream with any
// diagnostics. Scanning continues past lexical errors.
func Tokenize(path string, maxDiagnostics int) (*TokenizeResult, error) {
	if maxDiagnostics <= 0 {
		maxDiagnostics = defaultMaxDiagnostics
	}
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	file := fs.Get(fileID)

	bag := diag.NewBag(maxDiagnostics)
	tokens := lexer.Tokenize(file, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})

	return &TokenizeResult{
		FileSet: fs,
		File:    file,
		Tokens:  tokens,
		Bag:     bag,
	}, nil
}
