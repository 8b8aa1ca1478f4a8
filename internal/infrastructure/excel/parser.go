package excel

import "github.com/tu-usuario/inventario-dashboard/internal/domain/entity"

// Parser adapta las funciones de lectura al puerto ingest.FileParser.
type Parser struct{}

// ReadBaseFile implementa ingest.FileParser.
func (Parser) ReadBaseFile(content []byte) ([]entity.ProductInfo, int, int, error) {
	return ReadBaseFile(content)
}

// ReadUpdateFile implementa ingest.FileParser.
func (Parser) ReadUpdateFile(content []byte) ([]entity.MovementRecord, int, int, error) {
	return ReadUpdateFile(content)
}
