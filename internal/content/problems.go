package content

import (
	"strings"

	pkgerrors "github.com/hillview-school/school-cms/pkg/errors"
)

// problems collects per-key validation messages in schema order.
type problems struct {
	keys     []string
	messages map[string]string
}

func (p *problems) add(key, msg string) {
	if p.messages == nil {
		p.messages = map[string]string{}
	}
	if _, exists := p.messages[key]; !exists {
		p.keys = append(p.keys, key)
	}
	p.messages[key] = msg
}

func (p *problems) err() error {
	if len(p.keys) == 0 {
		return nil
	}
	msgs := make([]string, 0, len(p.keys))
	for _, k := range p.keys {
		msgs = append(msgs, p.messages[k])
	}
	return pkgerrors.New(pkgerrors.CodeValidation, strings.Join(msgs, "; ")).WithDetails(p.messages)
}
