package template

import (
	"context"
	"sync"

	"github.com/shandysiswandi/glintai/internal/courier/entity"
	"github.com/shandysiswandi/glintai/internal/pkg/goerror"
)

const layout = `<p>{{.greeting}}</p>
{{.content}}
<p style="color:#888;font-size:12px">{{.company_name}} &middot; {{.company_address}} &middot; {{.year}}<br>
Questions? Contact {{.support_email}}</p>`

// Defaults returns the built-in sign-in templates.
func Defaults() []entity.Template {
	return []entity.Template{
		{
			TriggerKey: entity.TriggerKeyOTPCode,
			Subject:    "Your sign-in code",
			Body: `<p>Your sign-in code is <strong>{{.code}}</strong>.</p>
<p>If you did not try to sign in, ignore this e-mail.</p>`,
		},
		{
			TriggerKey: entity.TriggerKeyOTPCodeResend,
			Subject:    "Your new sign-in code",
			Body: `<p>You asked for a new code. Your sign-in code is <strong>{{.code}}</strong>.</p>
<p>Earlier codes no longer work.</p>`,
		},
		{
			TriggerKey: entity.TriggerKeySigninAlert,
			Subject:    "New sign-in to your account",
			Body: `<p>Your account {{.email}} signed in at {{.signed_in_at}}.</p>
<p>If this wasn't you, contact {{.support_email}}.</p>`,
		},
	}
}

// Memory keeps templates in process.
type Memory struct {
	mu        sync.RWMutex
	templates map[entity.TriggerKey]entity.Template
}

func NewMemory(templates ...entity.Template) *Memory {
	m := &Memory{templates: make(map[entity.TriggerKey]entity.Template, len(templates))}
	for _, t := range templates {
		m.templates[t.TriggerKey] = t
	}
	return m
}

func (m *Memory) GetTemplate(_ context.Context, tk entity.TriggerKey) (*entity.Template, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.templates[tk]
	if !ok {
		return nil, goerror.ErrNotFound
	}

	return &t, nil
}

// Layout wraps every rendered body.
func Layout() string {
	return layout
}
