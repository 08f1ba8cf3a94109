package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeSearchText(t *testing.T) {
	assert.Equal(t, "salud", NormalizeSearchText("Salud"))
	assert.Equal(t, "salud", NormalizeSearchText("salúd"))
	assert.Equal(t, "medico", NormalizeSearchText("  Médico "))
	assert.Equal(t, "proteccion personal", NormalizeSearchText("Protección Personal"))
	assert.Equal(t, "", NormalizeSearchText("   "))
}

func TestContainsNormalized(t *testing.T) {
	assert.True(t, ContainsNormalized("Carnet de Salud", "salud"))
	assert.True(t, ContainsNormalized("certificado médico", "MEDICO"))
	assert.True(t, ContainsNormalized("Póliza de Seguro", "poliza"))
	assert.False(t, ContainsNormalized("Recibo de Sueldo", "salud"))
}

func TestSanitizeFileName(t *testing.T) {
	assert.Equal(t, "carnet_salud.pdf", SanitizeFileName("Carnet Salud.pdf"))
	assert.Equal(t, "informe_2026.pdf", SanitizeFileName("Informe 2026.PDF"))
	assert.Equal(t, "foto.png", SanitizeFileName("../../../foto.png"))
	assert.Equal(t, "file.pdf", SanitizeFileName(".pdf"))
}

func TestValidateDocumentNumber(t *testing.T) {
	assert.NoError(t, ValidateDocumentNumber("12345678"))
	assert.NoError(t, ValidateDocumentNumber(" 12345678 "))
	assert.Error(t, ValidateDocumentNumber(""))
	assert.Error(t, ValidateDocumentNumber("1234567"))
	assert.Error(t, ValidateDocumentNumber("123456789"))
	assert.Error(t, ValidateDocumentNumber("1234567a"))
	assert.Error(t, ValidateDocumentNumber("12.345.678"))
}

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("ana@example.com"))
	assert.Error(t, ValidateEmail(""))
	assert.Error(t, ValidateEmail("not-an-email"))
	assert.Error(t, ValidateEmail("a@b"))
}
