package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextTypes(t *testing.T) {
	ctx := NewContext()
	ctx.SetString("str", "hello").SetNumber("num", 42).SetBool("bool", true)

	assert.True(t, ctx.Has("str"))
	assert.True(t, ctx.Has("num"))
	assert.True(t, ctx.Has("bool"))
	assert.False(t, ctx.Has("missing"))
}

func TestSimpleTemplate(t *testing.T) {
	tpl := New("Hello, {name}!")
	ctx := NewContext().SetString("name", "world")

	out, err := tpl.Render(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Hello, world!", out)
}

func TestProgressBar(t *testing.T) {
	tpl := New("{progress:bar:10}")
	ctx := NewContext().SetNumber("progress", 0.5)

	out, err := tpl.Render(ctx)
	require.NoError(t, err)
	assert.Equal(t, "[=====     ]", out)
}

func TestPercentageFormat(t *testing.T) {
	tpl := New("{progress:percent}")
	ctx := NewContext().SetNumber("progress", 0.75)

	out, err := tpl.Render(ctx)
	require.NoError(t, err)
	assert.Equal(t, "75%", out)
}

func TestRatioFormat(t *testing.T) {
	tpl := New("{completed:ratio:total}")
	ctx := NewContext().SetNumber("completed", 7).SetNumber("total", 10)

	out, err := tpl.Render(ctx)
	require.NoError(t, err)
	assert.Equal(t, "7/10", out)
}

func TestPaddingFormats(t *testing.T) {
	tpl := New("'{text:lpad:10}' '{text:rpad:10}' '{text:pad:10}'")
	ctx := NewContext().SetString("text", "test")

	out, err := tpl.Render(ctx)
	require.NoError(t, err)
	assert.Equal(t, "'      test' 'test      ' '   test   '", out)
}

func TestTemplatePreset(t *testing.T) {
	tpl := PresetSimpleProgress.CreateTemplate()
	ctx := NewContext().SetNumber("progress", 0.5).SetNumber("completed", 5).SetNumber("total", 10)

	out, err := tpl.Render(ctx)
	require.NoError(t, err)
	assert.Equal(t, "[=====     ] 50% (5/10)", out)
}

func TestColorFormat(t *testing.T) {
	tpl := New("Hello, {name:color:red}!")
	ctx := NewContext().SetString("name", "World")

	out, err := tpl.Render(ctx)
	require.NoError(t, err)
	assert.Contains(t, out, "\x1B[31m")
	assert.Contains(t, out, "\x1B[0m")
	assert.Contains(t, out, "World")
}

func TestInvalidColorFormat(t *testing.T) {
	ctx := NewContext().SetString("name", "World")

	_, err := New("Hello, {name:color}!").Render(ctx)
	assert.Error(t, err)

	_, err = New("Hello, {name:color:invalid}!").Render(ctx)
	assert.Error(t, err)
}

func TestProgressIndicatorTypes(t *testing.T) {
	tpl := New("Default: {p:bar} Block: {p:bar:block} Spinner: {p:bar:spinner} Numeric: {p:bar:numeric}")
	ctx := NewContext().SetNumber("p", 0.5)

	out, err := tpl.Render(ctx)
	require.NoError(t, err)
	assert.Contains(t, out, "Default: [=====     ]")
	assert.Contains(t, out, "Block: [█████     ]")
	assert.Contains(t, out, "Spinner: ")
	assert.Contains(t, out, "Numeric: 50%")
}

func TestBlockIndicatorCustomChars(t *testing.T) {
	tpl := New("{p:bar:block:10:#}")
	ctx := NewContext().SetNumber("p", 0.5)

	out, err := tpl.Render(ctx)
	require.NoError(t, err)
	assert.Equal(t, "[#####     ]", out)
}

func TestSpinnerIndicatorCustomFrames(t *testing.T) {
	tpl := New("{p:bar:spinner:abcd}")
	seen := map[string]bool{}
	for _, p := range []float64{0, 0.25, 0.5, 0.75} {
		ctx := NewContext().SetNumber("p", p)
		out, err := tpl.Render(ctx)
		require.NoError(t, err)
		assert.Contains(t, []string{"a", "b", "c", "d"}, out)
		seen[out] = true
	}
	assert.Greater(t, len(seen), 1)
}

func TestNumericIndicatorOptions(t *testing.T) {
	tpl := New("With sign: {p:bar:numeric} Without sign: {p:bar:numeric:false}")
	ctx := NewContext().SetNumber("p", 0.75)

	out, err := tpl.Render(ctx)
	require.NoError(t, err)
	assert.Equal(t, "With sign: 75% Without sign: 75", out)
}

func TestCustomIndicatorsProduceOutput(t *testing.T) {
	for _, name := range []string{"dots", "braille", "gradient"} {
		tpl := New("{p:bar:custom:" + name + "}")
		ctx := NewContext().SetNumber("p", 0.5)
		out, err := tpl.Render(ctx)
		require.NoError(t, err)
		assert.NotEmpty(t, out)
	}
}

func TestConditionalTagContributesNothing(t *testing.T) {
	// Conditional tags are matched per-tag, not as a block-skip over the
	// text between {?cond} and {/}: the surrounding literal text always
	// renders regardless of the condition's truth value, exactly as in the
	// source formatter.
	tpl := New("{?flag}shown{/}")
	out, err := tpl.Render(NewContext().SetBool("flag", true))
	require.NoError(t, err)
	assert.Equal(t, "shown", out)

	out, err = tpl.Render(NewContext().SetBool("flag", false))
	require.NoError(t, err)
	assert.Equal(t, "shown", out)
}

func TestEscapedBraces(t *testing.T) {
	tpl := New("{{literal}} {name}")
	out, err := tpl.Render(NewContext().SetString("name", "x"))
	require.NoError(t, err)
	assert.Equal(t, "{literal} x", out)
}

func TestMissingVariableRendersEmpty(t *testing.T) {
	tpl := New("[{missing}]")
	out, err := tpl.Render(NewContext())
	require.NoError(t, err)
	assert.Equal(t, "[]", out)
}
