package rewrite_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Sumatoshi-tech/tsfix/pkg/rewrite"
)

func TestScanUsage_Empty(t *testing.T) {
	t.Parallel()

	usage := rewrite.ScanUsage("")

	assert.Empty(t, usage.Names())
	assert.False(t, usage.Has("Copy"))
}

func TestScanUsage_CapitalizedTokensEverywhere(t *testing.T) {
	t.Parallel()

	content := "import { Copy } from 'x';\n// Save later\nconst s = \"Plus\";\nconst lower = copy;\n"
	usage := rewrite.ScanUsage(content)

	assert.Equal(t, []string{"Copy", "Plus", "Save"}, usage.Names())
	assert.Equal(t, 1, usage.Count("Copy"))
	assert.False(t, usage.Has("copy"))
}

func TestScanUsage_ExtraLowercaseNames(t *testing.T) {
	t.Parallel()

	content := "import { useToast } from '@/hooks';\nconst { toast } = useToast();\nuseToaster();\n"
	usage := rewrite.ScanUsage(content, "useToast")

	assert.Equal(t, 2, usage.Count("useToast"))
	assert.True(t, usage.UsedOutside("useToast", "import { useToast } from '@/hooks';"))
}

func TestUsage_UsedOutside(t *testing.T) {
	t.Parallel()

	line := "import { Copy, Save } from 'x';"
	content := line + "\n\nexport const a = Save;\n"
	usage := rewrite.ScanUsage(content)

	assert.False(t, usage.UsedOutside("Copy", line))
	assert.True(t, usage.UsedOutside("Save", line))
	assert.False(t, usage.UsedOutside("Missing", line))
}

func TestScanUsage_IgnoresIdentifierSuffixes(t *testing.T) {
	t.Parallel()

	usage := rewrite.ScanUsage("const CopyIcon = 1; const myCopy = 2;")

	assert.False(t, usage.Has("Copy"))
	assert.True(t, usage.Has("CopyIcon"))
}
