// Package storage grava os documentos gerados e monta a URL pública de acesso.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"regexp"
	"strings"

	"github.com/spf13/afero"
)

// ErrFileNotFound indica que o arquivo não existe no armazenamento
var ErrFileNotFound = errors.New("arquivo não encontrado")

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// Local grava arquivos em um diretório e os expõe sob uma URL pública
type Local struct {
	fs        afero.Fs
	publicURL string
}

// NewLocal cria o armazenamento no diretório informado, criando-o se necessário
func NewLocal(dir, publicURL string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("erro ao criar diretório de documentos: %w", err)
	}
	return NewWithFs(afero.NewBasePathFs(afero.NewOsFs(), dir), publicURL), nil
}

// NewWithFs cria o armazenamento sobre um sistema de arquivos qualquer
func NewWithFs(fs afero.Fs, publicURL string) *Local {
	return &Local{fs: fs, publicURL: strings.TrimSuffix(publicURL, "/")}
}

// Save grava o conteúdo e retorna o nome final do arquivo e sua URL pública
func (l *Local) Save(ctx context.Context, name string, data []byte) (string, string, error) {
	if err := ctx.Err(); err != nil {
		return "", "", err
	}

	fileName := SanitizeFileName(name)
	if fileName == "" {
		return "", "", fmt.Errorf("nome de arquivo inválido: %q", name)
	}

	if err := afero.WriteFile(l.fs, fileName, data, 0o644); err != nil {
		return "", "", fmt.Errorf("erro ao gravar %s: %w", fileName, err)
	}
	return fileName, l.URL(fileName), nil
}

// Open abre um arquivo gravado para leitura
func (l *Local) Open(name string) (io.ReadCloser, error) {
	fileName := SanitizeFileName(name)
	f, err := l.fs.Open(fileName)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("erro ao abrir %s: %w", fileName, err)
	}
	return f, nil
}

// URL monta o endereço público de um arquivo
func (l *Local) URL(fileName string) string {
	return l.publicURL + "/" + fileName
}

// SanitizeFileName remove diretórios e caracteres que não são seguros em nomes de arquivo
func SanitizeFileName(name string) string {
	base := path.Base(strings.ReplaceAll(name, `\`, "/"))
	if base == "." || base == "/" || base == ".." {
		return ""
	}
	clean := unsafeChars.ReplaceAllString(base, "_")
	return strings.Trim(clean, "_")
}
