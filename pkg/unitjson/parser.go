package unitjson

import (
	"encoding/json"
	"fmt"

	"github.com/mehulgecg/SwiftRewriter/pkg/frontend"
	"github.com/mehulgecg/SwiftRewriter/pkg/intention"
)

// Parser is a frontend.Parser over single-unit JSON documents. It is never
// modified after construction, so one value serves every worker.
type Parser struct {
	// DeclarationExts lists the extensions of declaration-only units, whose
	// content is interface-marked. Defaults to ".h".
	DeclarationExts []string
}

func (p Parser) Parse(src frontend.Source) (*intention.File, []frontend.Diagnostic, error) {
	u, err := ParseBytes(src.Data)
	if err != nil {
		return nil, nil, err
	}
	if u.Type != "" && u.Type != "unit" {
		return nil, nil, fmt.Errorf("%s: expected a unit document, got %q", src.Path, u.Type)
	}
	if u.Path == "" {
		u.Path = src.Path
	}
	f, diags := Lower(u, p.DeclarationExts...)
	return f, diags, nil
}

// Split breaks a document into one source per unit so units parse
// independently. Units without a path are named after the document and
// their position in it.
func Split(name string, data []byte) ([]frontend.Source, error) {
	units, err := ParseBundle(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	srcs := make([]frontend.Source, 0, len(units))
	for i := range units {
		u := &units[i]
		if u.Path == "" {
			u.Path = fmt.Sprintf("%s#%d", name, i)
		}
		buf, err := json.Marshal(u)
		if err != nil {
			return nil, fmt.Errorf("%s: unit %d: %w", name, i, err)
		}
		srcs = append(srcs, frontend.Source{Path: u.Path, Data: buf})
	}
	return srcs, nil
}
