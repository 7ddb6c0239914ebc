package iocli

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Проверяем что NewStdio возвращает валидный объект
func TestNewStdio(t *testing.T) {
	stdio := NewStdio()
	assert.NotNil(t, stdio)
}

func TestPrintlnAndPrintf(t *testing.T) {
	var out bytes.Buffer
	stdio := NewStdioFrom(strings.NewReader(""), &out)

	stdio.Println("hello", "world")
	stdio.Printf("test %d %s", 1, "abc")
	_, err := stdio.Write([]byte("!"))
	require.NoError(t, err)

	assert.Equal(t, "hello world\ntest 1 abc!", out.String())
}

// Несколько чтений подряд используют один буфер и не теряют строки
func TestReadInput_Sequential(t *testing.T) {
	var out bytes.Buffer
	stdio := NewStdioFrom(strings.NewReader("  +380501234567 \n12345\nИван"), &out)

	phone, err := stdio.ReadInput("Phone: ")
	require.NoError(t, err)
	assert.Equal(t, "+380501234567", phone)

	code, err := stdio.ReadPassword("Code: ")
	require.NoError(t, err)
	assert.Equal(t, "12345", code)

	// Последняя строка без перевода строки
	name, err := stdio.ReadInput("Name: ")
	require.NoError(t, err)
	assert.Equal(t, "Иван", name)

	_, err = stdio.ReadInput("More: ")
	require.ErrorIs(t, err, io.EOF)

	assert.Equal(t, "Phone: Code: Name: More: ", out.String())
}

// Pipe не является терминалом, пароль читается как обычная строка
func TestReadPassword_FromPipe(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()

	go func() {
		_, _ = w.Write([]byte("54321\n"))
		_ = w.Close()
	}()

	var out bytes.Buffer
	stdio := NewStdioFrom(r, &out)
	assert.False(t, stdio.tty)

	code, err := stdio.ReadPassword("Code: ")
	require.NoError(t, err)
	assert.Equal(t, "54321", code)
}
