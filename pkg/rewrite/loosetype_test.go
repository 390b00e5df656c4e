package rewrite_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Sumatoshi-tech/tsfix/pkg/rewrite"
)

func TestLooseTypesPass(t *testing.T) {
	t.Parallel()

	pass := rewrite.LooseTypesPass(rewrite.DefaultPolicy())

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"record", "const x: Record<string, any> = {};", "const x: Record<string, unknown> = {};"},
		{"array", "let items: any[] = [];", "let items: unknown[] = [];"},
		{"param", "function f(value: any) {}", "function f(value: unknown) {}"},
		{"assertion semicolon", "const y = value as any;", "const y = value as unknown;"},
		{"assertion comma", "foo(value as any, other)", "foo(value as unknown, other)"},
		{"assertion paren", "foo(value as any)", "foo(value as unknown)"},
		{"chained assertion", "const z = v as any as Props;", "const z = v as unknown as Props;"},
		{"generic", "const m = new Map<any>();", "const m = new Map<unknown>();"},
		{
			"status",
			"const s = row.status as any;",
			"const s = row.status as 'active' | 'inactive' | 'error' | 'pending';",
		},
		{"not a marker", "const company = x as anything;", "const company = x as anything;"},
		{"multi param untouched", "function f(a: string, b: any) {}", "function f(a: string, b: any) {}"},
		{"nothing", "const n: number = 1;", "const n: number = 1;"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := applyPass(pass, "a.ts", tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, applyPass(pass, "a.ts", got), "pass must be idempotent")
		})
	}
}

func TestLooseTypesPass_CustomStatusLiterals(t *testing.T) {
	t.Parallel()

	policy := rewrite.DefaultPolicy()
	policy.StatusLiterals = []string{"on", "off"}
	pass := rewrite.LooseTypesPass(policy)

	assert.Equal(t, "x(status as 'on' | 'off')", applyPass(pass, "a.ts", "x(status as any)"))
}

func TestLooseTypesPass_OnlyTypeScript(t *testing.T) {
	t.Parallel()

	pass := rewrite.LooseTypesPass(rewrite.DefaultPolicy())

	assert.True(t, pass.AppliesTo(rewrite.KindTypeScript))
	assert.False(t, pass.AppliesTo(rewrite.KindJavaScript))

	pipeline := rewrite.NewPipeline(pass)
	res := pipeline.Run(rewrite.NewSourceFile("a.js", "const y = value as any;"))
	assert.False(t, res.Changed)
}
