package printer

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocument_KeyValueAndLine(t *testing.T) {
	d := NewDocument(32)
	d.KeyValue("Total", "97.20")
	d.Line("Ink (UV Printer)", "14.10")

	out := string(d.Bytes())
	assert.True(t, strings.HasPrefix(out, "\x1b@"))
	assert.Contains(t, out, "Total"+strings.Repeat(" ", 32-5-5)+"97.20\n")
	assert.Contains(t, out, "Ink (UV Printer)"+strings.Repeat(" ", 32-16-5)+"14.10\n")
}

func TestDocument_LineWrapsLongDescriptions(t *testing.T) {
	d := NewDocument(20)
	d.Line("Large format banner with grommets and hemming", "120.00")

	lines := strings.Split(strings.TrimPrefix(string(d.Bytes()), "\x1b@"), "\n")
	require.GreaterOrEqual(t, len(lines), 3)
	for _, l := range lines {
		assert.LessOrEqual(t, len(l), 20)
	}
	assert.True(t, strings.HasSuffix(lines[len(lines)-2], "120.00"))
}

func TestWrap(t *testing.T) {
	assert.Equal(t, []string{""}, wrap("   ", 10))
	assert.Equal(t, []string{"abcde", "fgh"}, wrap("abcdefgh", 5))
	assert.Equal(t, []string{"one two", "three"}, wrap("one two three", 7))
}

func TestNewPrinterFromConfig(t *testing.T) {
	p, err := NewPrinterFromConfig("", "", "")
	require.NoError(t, err)
	assert.False(t, p.IsConnected(context.Background()))
	assert.NoError(t, p.Print(context.Background(), []byte("x")))

	_, err = NewPrinterFromConfig(TypeUSB, "", "")
	assert.Error(t, err)
	_, err = NewPrinterFromConfig(TypeNetwork, "", "")
	assert.Error(t, err)
	_, err = NewPrinterFromConfig("bluetooth", "", "")
	assert.Error(t, err)
}
